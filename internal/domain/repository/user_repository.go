package repository

import (
	"context"

	"github.com/placasapp/placas-server/internal/domain/entity"
)

// UserUpdate carries the fields an admin may change on a user record.
type UserUpdate struct {
	Username string
	Email    string
	Role     entity.Role
	IsActive bool
}

// UserRepository defines the interface for user-related database operations.
// Implementations translate storage-level failures (no rows, unique
// violations) into the apperrors taxonomy.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context) ([]*entity.PublicUser, error)
	UpdateByID(ctx context.Context, id string, upd UserUpdate) (*entity.PublicUser, error)
	DeleteByID(ctx context.Context, id string) error
}
