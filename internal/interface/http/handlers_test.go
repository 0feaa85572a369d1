package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/placasapp/placas-server/internal/application"
	"github.com/placasapp/placas-server/internal/domain/entity"
	"github.com/placasapp/placas-server/internal/domain/repository"
	handlers "github.com/placasapp/placas-server/internal/interface/http"
	"github.com/placasapp/placas-server/internal/router"
	"github.com/placasapp/placas-server/internal/router/modules"
	"github.com/placasapp/placas-server/pkg/apperrors"
	"github.com/placasapp/placas-server/pkg/helpers"
	"github.com/placasapp/placas-server/pkg/validation"
)

// ---- in-memory stores ----

type stubUserRepo struct {
	users []*entity.User
}

func (r *stubUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.users {
		if e.Username == u.Username {
			return apperrors.New(apperrors.CodeConflict, "Usuário já cadastrado.")
		}
		if e.Email == u.Email {
			return apperrors.New(apperrors.CodeConflict, "E-mail já cadastrado.")
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	cp := *u
	r.users = append(r.users, &cp)
	return nil
}

func (r *stubUserRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	for _, u := range r.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Username == username })
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *stubUserRepo) List(_ context.Context) ([]*entity.PublicUser, error) {
	out := make([]*entity.PublicUser, 0, len(r.users))
	for i := len(r.users) - 1; i >= 0; i-- {
		out = append(out, r.users[i].Public())
	}
	return out, nil
}

func (r *stubUserRepo) UpdateByID(_ context.Context, id string, upd repository.UserUpdate) (*entity.PublicUser, error) {
	for _, u := range r.users {
		if u.ID == id {
			u.Username, u.Email, u.Role, u.IsActive = upd.Username, upd.Email, upd.Role, upd.IsActive
			return u.Public(), nil
		}
	}
	return nil, apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

func (r *stubUserRepo) DeleteByID(_ context.Context, id string) error {
	for i, u := range r.users {
		if u.ID == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "Usuário não encontrado.")
}

type stubPlateRepo struct {
	plates []string
}

func (r *stubPlateRepo) Insert(_ context.Context, plate string) (bool, error) {
	for _, p := range r.plates {
		if p == plate {
			return false, nil
		}
	}
	r.plates = append(r.plates, plate)
	return true, nil
}

func (r *stubPlateRepo) Delete(_ context.Context, plate string) error {
	for i, p := range r.plates {
		if p == plate {
			r.plates = append(r.plates[:i], r.plates[i+1:]...)
			return nil
		}
	}
	return apperrors.New(apperrors.CodeNotFound, "Placa não encontrada.")
}

func (r *stubPlateRepo) Search(_ context.Context, query string, limit int) ([]string, error) {
	out := make([]string, 0)
	for _, p := range r.plates {
		if strings.Contains(p, query) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubPlateRepo) Recent(_ context.Context, limit int) ([]string, error) {
	out := make([]string, 0, limit)
	for i := len(r.plates) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.plates[i])
	}
	return out, nil
}

// ---- harness ----

type testServer struct {
	engine  *gin.Engine
	userSvc *application.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Hour, 24*time.Hour)
	userSvc := application.NewUserService(&stubUserRepo{}, jwt, nil, nil)
	plateSvc := application.NewPlateService(&stubPlateRepo{}, nil)

	engine := gin.New()
	reg := router.NewRegistry(engine)
	reg.Add(modules.NewAuthModule(handlers.NewAuthHandler(userSvc, nil, "localhost", false), jwt))
	reg.Add(modules.NewPlateModule(handlers.NewPlateHandler(plateSvc, nil), jwt))
	reg.Add(modules.NewAdminModule(handlers.NewAdminHandler(userSvc, nil), jwt))
	reg.RegisterAll()

	return &testServer{engine: engine, userSvc: userSvc}
}

func (s *testServer) do(t *testing.T, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) login(t *testing.T, username, password string) []*http.Cookie {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/login", gin.H{"user": username, "password": password}, nil)
	require.Equal(t, http.StatusOK, w.Code, "login failed: %s", w.Body.String())
	return w.Result().Cookies()
}

func (s *testServer) seedAdmin(t *testing.T) *entity.PublicUser {
	t.Helper()
	u, err := s.userSvc.CreateUser(context.Background(), "root", "root@example.com", "senha123", "admin")
	require.NoError(t, err)
	return u
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// ---- route gating ----

func TestAnonymousRejectedOnProtectedRoutes(t *testing.T) {
	s := newTestServer(t)

	for _, rt := range []struct{ method, path string }{
		{http.MethodPost, "/api/plates"},
		{http.MethodGet, "/api/plates?query=AA"},
		{http.MethodDelete, "/api/plates"},
		{http.MethodGet, "/api/session"},
		{http.MethodGet, "/api/admin/users"},
		{http.MethodPost, "/api/admin/users"},
	} {
		w := s.do(t, rt.method, rt.path, gin.H{}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
		assert.Equal(t, "Não autorizado.", decode(t, w)["error"])
	}
}

func TestNonAdminForbiddenOnAdminRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/register", gin.H{"user": "ana", "email": "ana@example.com", "password": "senha123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := s.login(t, "ana", "senha123")

	w = s.do(t, http.MethodGet, "/api/admin/users", nil, cookies)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Acesso restrito ao administrador.", decode(t, w)["error"])

	// non-admin still reaches plate routes
	w = s.do(t, http.MethodPost, "/api/plates", gin.H{"plate": "abc-1234"}, cookies)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTamperedTokenRejected(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t)
	cookies := s.login(t, "root", "senha123")

	for _, c := range cookies {
		if c.Name == "access_token" {
			c.Value += "x"
		}
	}
	w := s.do(t, http.MethodGet, "/api/session", nil, cookies)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ---- auth endpoints ----

func TestLoginFailures(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t)

	w := s.do(t, http.MethodPost, "/api/login", gin.H{"user": "root", "password": "errada"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Usuário ou senha inválidos.", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/login", gin.H{"user": "root"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionEchoesClaim(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedAdmin(t)
	cookies := s.login(t, "root", "senha123")

	w := s.do(t, http.MethodGet, "/api/session", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	user := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, admin.ID, user["id"])
	assert.Equal(t, "root", user["user"])
	assert.Equal(t, "admin", user["role"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/register", gin.H{"user": "ana", "email": "ana@example.com"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/register", gin.H{"user": "ana", "email": "ana@example.com", "password": "12345"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "A senha precisa ter pelo menos 6 caracteres.", decode(t, w)["error"])

	w = s.do(t, http.MethodPost, "/api/register", gin.H{"user": "ana", "email": "ana@example.com", "password": "senha123"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/register", gin.H{"user": "ana", "email": "outra@example.com", "password": "senha123"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Usuário já cadastrado.", decode(t, w)["error"])
}

// ---- plate endpoints ----

func TestPlateLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	s.seedAdmin(t)
	cookies := s.login(t, "root", "senha123")

	// register
	w := s.do(t, http.MethodPost, "/api/plates", gin.H{"plate": "ivg-8470"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Placa cadastrada com sucesso.", body["message"])
	assert.Equal(t, "IVG8470", body["plate"])

	// idempotent re-register
	w = s.do(t, http.MethodPost, "/api/plates", gin.H{"plate": "IVG 8470"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Placa já cadastrada.", decode(t, w)["message"])

	// invalid plate
	w = s.do(t, http.MethodPost, "/api/plates", gin.H{"plate": "---"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// search
	w = s.do(t, http.MethodGet, "/api/plates?query=ivg", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, []any{"IVG8470"}, body["matches"])

	// missing query
	w = s.do(t, http.MethodGet, "/api/plates", nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// recent
	w = s.do(t, http.MethodGet, "/api/plates?recent=1", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"IVG8470"}, decode(t, w)["latest"])

	// remove
	w = s.do(t, http.MethodDelete, "/api/plates", gin.H{"plate": "ivg8470"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Placa removida com sucesso.", decode(t, w)["message"])

	w = s.do(t, http.MethodDelete, "/api/plates", gin.H{"plate": "ivg8470"}, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ---- admin endpoints ----

func TestAdminUserManagementOverHTTP(t *testing.T) {
	s := newTestServer(t)
	admin := s.seedAdmin(t)
	cookies := s.login(t, "root", "senha123")

	// create
	w := s.do(t, http.MethodPost, "/api/admin/users", gin.H{"user": "op", "email": "op@example.com", "password": "senha123", "role": "user"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Usuário op cadastrado com sucesso como user.", decode(t, w)["message"])

	// list
	w = s.do(t, http.MethodGet, "/api/admin/users", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode(t, w)["users"].([]any)
	require.Len(t, users, 2)
	for _, raw := range users {
		u := raw.(map[string]any)
		_, hasHash := u["passwordHash"]
		_, hasSalt := u["passwordSalt"]
		assert.False(t, hasHash)
		assert.False(t, hasSalt)
	}
	opID := ""
	for _, raw := range users {
		u := raw.(map[string]any)
		if u["user"] == "op" {
			opID = u["id"].(string)
		}
	}
	require.NotEmpty(t, opID)

	// update
	w = s.do(t, http.MethodPatch, "/api/admin/users/"+opID, gin.H{"role": "admin"}, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["user"].(map[string]any)
	assert.Equal(t, "admin", updated["role"])

	// invalid id
	w = s.do(t, http.MethodPatch, "/api/admin/users/abc", gin.H{"role": "admin"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "ID inválido.", decode(t, w)["error"])

	// self-protection over the wire
	w = s.do(t, http.MethodPatch, "/api/admin/users/"+admin.ID, gin.H{"role": "user"}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Você não pode remover seu próprio cargo de administrador.", decode(t, w)["error"])

	w = s.do(t, http.MethodDelete, "/api/admin/users/"+admin.ID, nil, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Você não pode excluir seu próprio usuário.", decode(t, w)["error"])

	// delete other
	w = s.do(t, http.MethodDelete, "/api/admin/users/"+opID, nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/api/admin/users/"+opID, nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
