package repository

import (
	"context"
)

// PlateRepository defines the interface for plate-related database operations.
// All inputs are already normalized by the caller.
type PlateRepository interface {
	// Insert stores the plate and reports whether a new record was created.
	// Returns (false, nil) when the plate already existed.
	Insert(ctx context.Context, plate string) (created bool, err error)
	Delete(ctx context.Context, plate string) error
	Search(ctx context.Context, query string, limit int) ([]string, error)
	Recent(ctx context.Context, limit int) ([]string, error)
}
