package entity

import (
	"strings"
	"time"
)

// Role is a closed two-value enum; anything unrecognized collapses to RoleUser.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole coerces arbitrary input into a valid role.
func ParseRole(value string) Role {
	if value == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleUser
}

// User is the aggregate root for the user domain.
// PasswordHash and PasswordSalt are hex-encoded PBKDF2 credential material
// and must never be returned to clients.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         Role
	IsActive     bool
	PasswordHash string
	PasswordSalt string
	CreatedAt    time.Time
}

// Public projects away the credential fields.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// PublicUser is the external projection of a User.
type PublicUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"user"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// NormalizeUsername trims surrounding whitespace; usernames keep their case.
func NormalizeUsername(value string) string {
	return strings.TrimSpace(value)
}

// NormalizeEmail trims and lower-cases so uniqueness is case-insensitive.
func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
