package application

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/placasapp/placas-server/internal/domain/entity"
	"github.com/placasapp/placas-server/internal/domain/repository"
	"github.com/placasapp/placas-server/pkg/apperrors"
)

// memUserRepo mimics the postgres repository, including its unique
// constraints and error taxonomy.
type memUserRepo struct {
	mu    sync.Mutex
	users []*entity.User
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{} }

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return apperrors.New(apperrors.CodeConflict, "Usuário já cadastrado.")
		}
		if existing.Email == u.Email {
			return apperrors.New(apperrors.CodeConflict, "E-mail já cadastrado.")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *memUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *memUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.PublicUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.PublicUser, 0, len(r.users))
	for i := len(r.users) - 1; i >= 0; i-- { // newest first
		out = append(out, r.users[i].Public())
	}
	return out, nil
}

func (r *memUserRepo) UpdateByID(_ context.Context, id string, upd repository.UserUpdate) (*entity.PublicUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID != id {
			continue
		}
		u.Username = upd.Username
		u.Email = upd.Email
		u.Role = upd.Role
		u.IsActive = upd.IsActive
		return u.Public(), nil
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

func (r *memUserRepo) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

var _ repository.UserRepository = (*memUserRepo)(nil)

// memPlateRepo mimics the postgres plate repository: idempotent insert,
// substring search sorted lexicographically, recent newest-first.
type memPlateRepo struct {
	mu     sync.Mutex
	plates []entity.Plate
}

func newMemPlateRepo() *memPlateRepo { return &memPlateRepo{} }

func (r *memPlateRepo) Insert(_ context.Context, plate string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.plates {
		if p.Plate == plate {
			return false, nil
		}
	}
	r.plates = append(r.plates, entity.Plate{Plate: plate, CreatedAt: time.Now()})
	return true, nil
}

func (r *memPlateRepo) Delete(_ context.Context, plate string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.plates {
		if p.Plate == plate {
			r.plates = append(r.plates[:i], r.plates[i+1:]...)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "Placa não encontrada.")
}

func (r *memPlateRepo) Search(_ context.Context, query string, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0)
	for _, p := range r.plates {
		if strings.Contains(p.Plate, query) {
			out = append(out, p.Plate)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memPlateRepo) Recent(_ context.Context, limit int) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, limit)
	for i := len(r.plates) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.plates[i].Plate)
	}
	return out, nil
}

var _ repository.PlateRepository = (*memPlateRepo)(nil)
