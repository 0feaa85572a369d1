package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/internal/domain/entity"
	"github.com/placasapp/placas-server/internal/domain/repository"
	"github.com/placasapp/placas-server/pkg/apperrors"
)

const (
	searchLimit   = 50
	defaultRecent = 5
)

// PlateService owns plate registration, removal and search. All inputs are
// normalized before touching the store so stored values and query patterns
// stay comparable.
type PlateService struct {
	Repo   repository.PlateRepository
	Logger *logrus.Logger
}

func NewPlateService(repo repository.PlateRepository, logger *logrus.Logger) *PlateService {
	return &PlateService{Repo: repo, Logger: logger}
}

// PlateResult is the response for register/remove; Latest mirrors the
// recent list so the operator can cross-check without a second request.
type PlateResult struct {
	Message string   `json:"message"`
	Plate   string   `json:"plate"`
	Latest  []string `json:"latest"`
}

type SearchResult struct {
	Query   string   `json:"query"`
	Exists  bool     `json:"exists"`
	Matches []string `json:"matches"`
}

// Register normalizes and stores the plate. Re-registering an existing
// plate is a success no-op, not an error.
func (s *PlateService) Register(ctx context.Context, raw string) (*PlateResult, error) {
	plate := entity.NormalizePlate(raw)
	if plate == "" {
		return nil, apperrors.New(apperrors.CodeInvalid, "Informe uma placa válida.")
	}
	created, err := s.Repo.Insert(ctx, plate)
	if err != nil {
		return nil, err
	}
	msg := "Placa já cadastrada."
	if created {
		msg = "Placa cadastrada com sucesso."
	}
	return &PlateResult{Message: msg, Plate: plate, Latest: s.latest(ctx)}, nil
}

// Remove deletes exactly one plate record.
func (s *PlateService) Remove(ctx context.Context, raw string) (*PlateResult, error) {
	plate := entity.NormalizePlate(raw)
	if plate == "" {
		return nil, apperrors.New(apperrors.CodeInvalid, "Informe uma placa válida.")
	}
	if err := s.Repo.Delete(ctx, plate); err != nil {
		return nil, err
	}
	return &PlateResult{Message: "Placa removida com sucesso.", Plate: plate, Latest: s.latest(ctx)}, nil
}

// Search matches the normalized query as a literal substring against stored
// plates, ordered lexicographically and capped at 50 results.
func (s *PlateService) Search(ctx context.Context, raw string) (*SearchResult, error) {
	query := entity.NormalizePlate(raw)
	if query == "" {
		return nil, apperrors.New(apperrors.CodeInvalid, "Informe um termo para busca.")
	}
	matches, err := s.Repo.Search(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Query: query, Exists: len(matches) > 0, Matches: matches}, nil
}

// Recent returns the most recently registered plates, newest first.
func (s *PlateService) Recent(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	return s.Repo.Recent(ctx, limit)
}

// latest is best-effort: a failure here must not fail the mutation that
// already succeeded.
func (s *PlateService) latest(ctx context.Context) []string {
	plates, err := s.Repo.Recent(ctx, defaultRecent)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("recent plates lookup failed")
		}
		return []string{}
	}
	return plates
}
