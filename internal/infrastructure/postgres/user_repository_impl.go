package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placasapp/placas-server/internal/domain/entity"
	"github.com/placasapp/placas-server/internal/domain/repository"
	"github.com/placasapp/placas-server/pkg/apperrors"
)

const userColumns = `id, username, email, role, is_active, password_hash, password_salt, created_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// uniqueViolation translates a unique-constraint failure into the conflict
// taxonomy. The constraints back-stop the application-level pre-checks
// against concurrent inserts.
func uniqueViolation(err error) *apperrors.AppError {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch pgErr.ConstraintName {
		case "users_email_key":
			return apperrors.Wrap(err, apperrors.CodeConflict, "E-mail já cadastrado.")
		default:
			return apperrors.Wrap(err, apperrors.CodeConflict, "Usuário já cadastrado.")
		}
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (username, email, role, is_active, password_hash, password_salt)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`, u.Username, u.Email, u.Role, u.IsActive, u.PasswordHash, u.PasswordSalt)

	if err := row.Scan(&u.ID, &u.CreatedAt); err != nil {
		if conflict := uniqueViolation(err); conflict != nil {
			return conflict
		}
		return apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao cadastrar usuário.")
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, where string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive,
		&u.PasswordHash, &u.PasswordSalt, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao buscar usuário.")
	}
	return u, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *UserRepository) List(ctx context.Context) ([]*entity.PublicUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, email, role, is_active, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao listar usuários.")
	}
	defer rows.Close()

	users := make([]*entity.PublicUser, 0)
	for rows.Next() {
		u := &entity.PublicUser{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao listar usuários.")
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao listar usuários.")
	}
	return users, nil
}

func (r *UserRepository) UpdateByID(ctx context.Context, id string, upd repository.UserUpdate) (*entity.PublicUser, error) {
	u := &entity.PublicUser{}
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET username = $1, email = $2, role = $3, is_active = $4
		WHERE id = $5
		RETURNING id, username, email, role, is_active, created_at
	`, upd.Username, upd.Email, upd.Role, upd.IsActive, id)

	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsActive, &u.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
		}
		if conflict := uniqueViolation(err); conflict != nil {
			return nil, conflict
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao atualizar usuário.")
	}
	return u, nil
}

func (r *UserRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "Falha ao excluir usuário.")
	}
	if res.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
