package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/codecritic/internal/contract"
	"github.com/huangsam/codecritic/internal/logging"
	"github.com/huangsam/codecritic/schema"
)

// AdminUsername is the account seeded by EnsureAdmin.
const AdminUsername = "admin"

const adminEmail = "admin@example.com"

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Username string      `json:"username" validate:"required,min=3,max=64"`
	Email    string      `json:"email" validate:"required,email,max=120"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     schema.Role `json:"role" validate:"omitempty,oneof=developer viewer"`
}

// LoginInput is the payload of a login request.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Session is returned by a successful register or login.
type Session struct {
	Token string      `json:"token"`
	User  schema.User `json:"user"`
}

// Service registers and authenticates users.
type Service struct {
	users  contract.UserStore
	tokens *TokenManager
	now    func() time.Time
}

// NewService creates a Service.
func NewService(users contract.UserStore, tokens *TokenManager) *Service {
	return &Service{users: users, tokens: tokens, now: time.Now}
}

// Tokens returns the token manager used to sign sessions.
func (s *Service) Tokens() *TokenManager {
	return s.tokens
}

// Register creates a user and returns a session for it. Self-registration
// cannot create admins.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return Session{}, ErrMissingFields
	}
	if in.Role == "" {
		in.Role = schema.DeveloperRole
	}
	if _, ok := schema.ValidRoles[in.Role]; !ok || in.Role == schema.AdminRole {
		return Session{}, fmt.Errorf("%w: %s", ErrInvalidRole, in.Role)
	}
	return s.create(ctx, in)
}

func (s *Service) create(ctx context.Context, in RegisterInput) (Session, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return Session{}, err
	}
	user := schema.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
		CreatedAt:    s.now().UTC(),
	}
	id, err := s.users.CreateUser(ctx, user)
	if errors.Is(err, contract.ErrConflict) {
		return Session{}, ErrUserExists
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to create user: %w", err)
	}
	user.ID = id

	token, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	logging.Ctx(ctx).Info().Int64("user_id", id).Str("username", user.Username).Str("role", string(user.Role)).Msg("user registered")
	return Session{Token: token, User: user}, nil
}

// Login checks the credentials and returns a new session. Unknown users
// and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, in LoginInput) (Session, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(in.Username))
	if errors.Is(err, contract.ErrNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to load user: %w", err)
	}
	if err := CheckPassword(user.PasswordHash, in.Password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, err
	}
	at := s.now().UTC()
	if err := s.users.UpdateLastLogin(ctx, user.ID, at); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Int64("user_id", user.ID).Msg("failed to record last login")
	} else {
		user.LastLogin = &at
	}
	return Session{Token: token, User: user}, nil
}

// Profile returns the user behind the claims.
func (s *Service) Profile(ctx context.Context, claims *Claims) (schema.User, error) {
	return s.users.GetUserByID(ctx, claims.UserID)
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]schema.User, error) {
	return s.users.ListUsers(ctx)
}

// EnsureAdmin creates the admin account with the given password when it
// does not exist yet. It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, nil
	}
	_, err := s.users.GetUserByUsername(ctx, AdminUsername)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, contract.ErrNotFound) {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}

	_, err = s.create(ctx, RegisterInput{
		Username: AdminUsername,
		Email:    adminEmail,
		Password: password,
		Role:     schema.AdminRole,
	})
	if errors.Is(err, ErrUserExists) {
		return false, nil
	}
	return err == nil, err
}
