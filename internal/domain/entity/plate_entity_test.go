package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePlate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"ivg-8470", "IVG8470"},
		{"IVG 8470", "IVG8470"},
		{"ivg8470", "IVG8470"},
		{"  abc1d23  ", "ABC1D23"},
		{"a.b/c_1!2@3", "ABC123"},
		{"---", ""},
		{"", ""},
		{"ção", "O"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePlate(tt.in), "input %q", tt.in)
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleUser, ParseRole("user"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("Admin"))
	assert.Equal(t, RoleUser, ParseRole("root"))
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ana@example.com", NormalizeEmail("  ANA@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestUserPublic_ExcludesCredentials(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:           "id-1",
		Username:     "ana",
		Email:        "ana@example.com",
		Role:         RoleAdmin,
		IsActive:     true,
		PasswordHash: "deadbeef",
		PasswordSalt: "cafe",
	}
	p := u.Public()
	assert.Equal(t, u.ID, p.ID)
	assert.Equal(t, u.Username, p.Username)
	assert.Equal(t, u.Role, p.Role)
	assert.True(t, p.IsActive)
}
