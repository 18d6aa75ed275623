package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/homenotes/homenotes/internal/core/domain"
	"github.com/homenotes/homenotes/internal/core/ports"
)

// rememberTTL is the extended session lifetime granted by "remember me".
const rememberTTL = 24 * time.Hour

// AuthService implements registration, login and logout over JWT session
// tokens whose ids are tracked in a revocable session store.
type AuthService struct {
	users      ports.UserRepository
	roles      ports.RoleRepository
	sessions   ports.SessionStore
	secret     string
	sessionTTL time.Duration
	admins     []string
	logger     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	roles ports.RoleRepository,
	sessions ports.SessionStore,
	secret string,
	sessionTTL time.Duration,
	admins []string,
	logger zerolog.Logger,
) *AuthService {
	if sessionTTL <= 0 {
		sessionTTL = time.Hour
	}
	return &AuthService{
		users:      users,
		roles:      roles,
		sessions:   sessions,
		secret:     secret,
		sessionTTL: sessionTTL,
		admins:     admins,
		logger:     logger,
	}
}

// Register validates the registration input, resolves the new user's role and
// persists the account. It never issues a session token; the caller logs in
// explicitly afterwards.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := strings.TrimSpace(in.Email)
	if name == "" || email == "" {
		return nil, domain.ErrMissingField
	}
	if in.Password != in.PasswordConfirm {
		return nil, domain.ErrPasswordMismatch
	}

	// Uniqueness pre-checks surface field-level errors before the insert.
	// The unique indexes remain the final arbiter under concurrent writes.
	if _, err := s.users.FindByName(ctx, name); err == nil {
		return nil, domain.ErrNameTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	role, err := ResolveRole(ctx, s.roles, s.admins, email)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:   name,
		Email:  email,
		RoleID: role.ID,
		Role:   role,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	created.Role = role

	s.logger.Info().Str("name", created.Name).Str("role", role.Name).Msg("user registered")
	return created, nil
}

// Login authenticates by name and password and issues a session token. Every
// failure path yields domain.ErrInvalidCredentials so callers cannot tell a
// missing user from a wrong password.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.SessionResult, error) {
	if in.Name == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByName(ctx, in.Name)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.CheckPassword(in.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	ttl := s.sessionTTL
	if in.Remember {
		ttl = rememberTTL
	}

	token, sessionID, expiresAt, err := s.issueToken(user, ttl)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Create(ctx, sessionID, user.ID, ttl); err != nil {
		return nil, err
	}

	s.logger.Info().Str("name", user.Name).Bool("remember", in.Remember).Msg("user logged in")

	return &ports.SessionResult{
		Token:     token,
		TTL:       ttl,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

// Logout revokes the session carried by rawToken. Unparseable or expired
// tokens are ignored; logout is unconditional and never fails the request.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return nil
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return nil
	}

	sessionID, _ := claims["jti"].(string)
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Msg("failed to revoke session")
	}
	return nil
}

func (s *AuthService) issueToken(user *domain.User, ttl time.Duration) (token, sessionID string, expiresAt time.Time, err error) {
	sessionID = uuid.NewString()
	expiresAt = time.Now().Add(ttl)

	var perms domain.Permission
	if user.Role != nil {
		perms = user.Role.Permissions
	}

	claims := jwt.MapClaims{
		"uid":   user.ID,
		"name":  user.Name,
		"perms": int(perms),
		"jti":   sessionID,
		"exp":   expiresAt.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(s.secret))
	return token, sessionID, expiresAt, err
}

// ResolveRole picks the role for a new account: Admin when the email is on
// the allow-list, otherwise whichever role is marked default. A missing
// Admin role falls through to the default rather than failing registration.
func ResolveRole(ctx context.Context, roles ports.RoleRepository, admins []string, email string) (*domain.Role, error) {
	for _, admin := range admins {
		if admin != email {
			continue
		}
		role, err := roles.FindByName(ctx, domain.RoleNameAdmin)
		if err == nil {
			return role, nil
		}
		if !errors.Is(err, domain.ErrRoleNotFound) {
			return nil, err
		}
		break
	}
	return roles.FindDefault(ctx)
}
