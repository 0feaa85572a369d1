package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/placasapp/placas-server/internal/domain/entity"
	"github.com/placasapp/placas-server/internal/domain/repository"
	"github.com/placasapp/placas-server/pkg/apperrors"
	"github.com/placasapp/placas-server/pkg/helpers"
)

const sessionTTL = 24 * time.Hour

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// UserService owns authentication, self-registration and the admin-only
// user administration operations. The acting admin's identity is always an
// explicit parameter, never ambient state.
type UserService struct {
	Repo   repository.UserRepository
	JWT    *helpers.JWTManager
	Redis  *redis.Client
	Logger *logrus.Logger
}

func NewUserService(repo repository.UserRepository, jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) *UserService {
	return &UserService{Repo: repo, JWT: jwt, Redis: rdb, Logger: logger}
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type LoginResponse struct {
	UserID   string      `json:"id"`
	Username string      `json:"user"`
	Email    string      `json:"email"`
	Role     entity.Role `json:"role"`
}

func errInvalidCredentials() error {
	return apperrors.New(apperrors.CodeUnauthorized, "Usuário ou senha inválidos.")
}

// Authenticate validates username/password. Unknown user, inactive account
// and wrong password all fail closed as invalid credentials so the response
// never reveals which check failed.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	username = entity.NormalizeUsername(username)
	if username == "" || password == "" {
		return nil, errInvalidCredentials()
	}
	u, err := s.Repo.GetByUsername(ctx, username)
	if err != nil || u == nil {
		return nil, errInvalidCredentials()
	}
	if !u.IsActive {
		return nil, errInvalidCredentials()
	}
	if !helpers.VerifyPassword(password, u.PasswordHash, u.PasswordSalt) {
		return nil, errInvalidCredentials()
	}
	return u, nil
}

// IssueTokens generates the access/refresh pair and records the session in
// Redis so logout revokes it server-side.
func (s *UserService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, u.Username, string(u.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return TokenPair{}, apperrors.Wrap(err, apperrors.CodeInternal, "Não foi possível iniciar a sessão.")
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, u.Username, string(u.Role), sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate refresh token failed")
		}
		return TokenPair{}, apperrors.Wrap(err, apperrors.CodeInternal, "Não foi possível iniciar a sessão.")
	}

	if s.Redis != nil {
		key := sessionKey(u.ID)
		fields := map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"role":       string(u.Role),
			"sid":        sid,
			"created_at": time.Now().UTC().Format(time.RFC3339Nano),
		}
		pipe := s.Redis.Pipeline()
		pipe.HSet(ctx, key, fields)
		pipe.Expire(ctx, key, sessionTTL)
		if _, rErr := pipe.Exec(ctx); rErr != nil && s.Logger != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}

	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResponse, TokenPair, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	resp := &LoginResponse{UserID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role}
	return resp, pair, nil
}

// Refresh rotates the session id and token pair. The user record is
// re-fetched so a deactivated account cannot renew its session.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, errInvalidCredentials()
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil || !u.IsActive {
		return TokenPair{}, errInvalidCredentials()
	}
	if s.Redis != nil {
		data, rErr := s.Redis.HGetAll(ctx, sessionKey(u.ID)).Result()
		if rErr != nil || len(data) == 0 || data["sid"] != claims.SessionID {
			return TokenPair{}, errInvalidCredentials()
		}
	}
	return s.IssueTokens(ctx, u)
}

// Logout destroys the server-side session unconditionally.
func (s *UserService) Logout(ctx context.Context, userID string) {
	if s.Redis == nil || userID == "" {
		return
	}
	if err := s.Redis.Del(ctx, sessionKey(userID)).Err(); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// Register creates an account via public self-registration. The role is
// always user and the account starts active.
func (s *UserService) Register(ctx context.Context, username, email, password string) (*entity.PublicUser, error) {
	return s.createUser(ctx, username, email, password, entity.RoleUser, false)
}

// CreateUser is the admin variant of Register: explicit role selection and
// an additional e-mail uniqueness pre-check.
func (s *UserService) CreateUser(ctx context.Context, username, email, password, role string) (*entity.PublicUser, error) {
	return s.createUser(ctx, username, email, password, entity.ParseRole(role), true)
}

func (s *UserService) createUser(ctx context.Context, username, email, password string, role entity.Role, checkEmail bool) (*entity.PublicUser, error) {
	username = entity.NormalizeUsername(username)
	email = entity.NormalizeEmail(email)

	if username == "" || email == "" || password == "" {
		return nil, apperrors.New(apperrors.CodeInvalid, "Informe usuário, e-mail e senha para cadastro.")
	}
	if len(password) < 6 {
		return nil, apperrors.New(apperrors.CodeInvalid, "A senha precisa ter pelo menos 6 caracteres.")
	}

	if existing, err := s.Repo.GetByUsername(ctx, username); err == nil && existing != nil {
		return nil, apperrors.New(apperrors.CodeConflict, "Usuário já cadastrado.")
	}
	if checkEmail {
		if existing, err := s.Repo.GetByEmail(ctx, email); err == nil && existing != nil {
			return nil, apperrors.New(apperrors.CodeConflict, "E-mail já cadastrado.")
		}
	}

	hash, salt, err := helpers.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "Não foi possível concluir o cadastro.")
	}

	u := &entity.User{
		Username:     username,
		Email:        email,
		Role:         role,
		IsActive:     true,
		PasswordHash: hash,
		PasswordSalt: salt,
	}
	// The unique indexes still close the pre-check race; Create surfaces
	// a concurrent duplicate as the same conflict error.
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u.Public(), nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]*entity.PublicUser, error) {
	return s.Repo.List(ctx)
}

// UpdateUserInput carries the admin-editable fields; nil pointers keep the
// current value.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Role     *string
	IsActive *bool
}

// UpdateUser applies a partial update on behalf of the acting admin,
// enforcing uniqueness and the self-protection rules.
func (s *UserService) UpdateUser(ctx context.Context, actorID, id string, in UpdateUserInput) (*entity.PublicUser, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperrors.New(apperrors.CodeInvalid, "ID inválido.")
	}

	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next := repository.UserUpdate{
		Username: current.Username,
		Email:    current.Email,
		Role:     current.Role,
		IsActive: current.IsActive,
	}
	if in.Username != nil {
		next.Username = entity.NormalizeUsername(*in.Username)
	}
	if in.Email != nil {
		next.Email = entity.NormalizeEmail(*in.Email)
	}
	if in.Role != nil {
		next.Role = entity.ParseRole(*in.Role)
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}

	if next.Username == "" || next.Email == "" {
		return nil, apperrors.New(apperrors.CodeInvalid, "Usuário e e-mail são obrigatórios.")
	}

	if byUsername, err := s.Repo.GetByUsername(ctx, next.Username); err == nil && byUsername != nil && byUsername.ID != id {
		return nil, apperrors.New(apperrors.CodeConflict, "Usuário já cadastrado.")
	}
	if byEmail, err := s.Repo.GetByEmail(ctx, next.Email); err == nil && byEmail != nil && byEmail.ID != id {
		return nil, apperrors.New(apperrors.CodeConflict, "E-mail já cadastrado.")
	}

	// Self-protection: an admin can never lock themselves out.
	if actorID == id && next.Role != entity.RoleAdmin {
		return nil, apperrors.New(apperrors.CodeInvalid, "Você não pode remover seu próprio cargo de administrador.")
	}
	if actorID == id && !next.IsActive {
		return nil, apperrors.New(apperrors.CodeInvalid, "Você não pode bloquear o seu próprio acesso.")
	}

	return s.Repo.UpdateByID(ctx, id, next)
}

// DeleteUser removes an account on behalf of the acting admin. Deleting
// one's own account is rejected.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.New(apperrors.CodeInvalid, "ID inválido.")
	}
	if actorID == id {
		return apperrors.New(apperrors.CodeInvalid, "Você não pode excluir seu próprio usuário.")
	}
	if err := s.Repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	// Drop any live session of the removed account.
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, sessionKey(id)).Err()
	}
	return nil
}
