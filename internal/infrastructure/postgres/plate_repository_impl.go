package postgres

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/placasapp/placas-server/internal/domain/repository"
	"github.com/placasapp/placas-server/pkg/apperrors"
)

type PlateRepository struct {
	pool *pgxpool.Pool
}

func NewPlateRepository(pool *pgxpool.Pool) *PlateRepository {
	return &PlateRepository{pool: pool}
}

// escapeLike escapes LIKE metacharacters so the query is matched as a
// literal substring. Normalized queries only contain A-Z/0-9 today, but the
// repository does not rely on that.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// Insert is idempotent: ON CONFLICT DO NOTHING turns a concurrent duplicate
// registration into the already-registered path instead of an error.
func (r *PlateRepository) Insert(ctx context.Context, plate string) (bool, error) {
	res, err := r.pool.Exec(ctx, `
		INSERT INTO plates (plate)
		VALUES ($1)
		ON CONFLICT (plate) DO NOTHING
	`, plate)
	if err != nil {
		return false, apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao cadastrar placa.")
	}
	return res.RowsAffected() > 0, nil
}

func (r *PlateRepository) Delete(ctx context.Context, plate string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM plates WHERE plate = $1`, plate)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao remover placa.")
	}
	if res.RowsAffected() == 0 {
		return apperrors.New(apperrors.CodeNotFound, "Placa não encontrada.")
	}
	return nil
}

func (r *PlateRepository) Search(ctx context.Context, query string, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT plate FROM plates
		WHERE plate LIKE '%' || $1 || '%' ESCAPE '\'
		ORDER BY plate ASC
		LIMIT $2
	`, escapeLike(query), limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao buscar placas.")
	}
	defer rows.Close()
	return collectPlates(rows)
}

func (r *PlateRepository) Recent(ctx context.Context, limit int) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT plate FROM plates
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao buscar placas.")
	}
	defer rows.Close()
	return collectPlates(rows)
}

type plateRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectPlates(rows plateRows) ([]string, error) {
	plates := make([]string, 0)
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao buscar placas.")
		}
		plates = append(plates, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Erro ao buscar placas.")
	}
	return plates, nil
}

var _ repository.PlateRepository = (*PlateRepository)(nil)
