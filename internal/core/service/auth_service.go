package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/steelvault/project-dashboard/internal/core/domain"
	"github.com/steelvault/project-dashboard/internal/core/ports"
	"github.com/steelvault/project-dashboard/internal/core/schema"
	"github.com/steelvault/project-dashboard/internal/pkg/password"
)

// Login attempt results reported to metrics.
const (
	loginSuccess    = "success"
	loginRejected   = "rejected"
	loginBackend    = "backend"
	loginBadRecord  = "bad_record"
	loginBadRole    = "bad_role"
	loginAmbiguous  = "ambiguous"
	loginStoreWrite = "session_write"
)

// AuthConfig holds the token settings of the auth gate.
type AuthConfig struct {
	JWTSecret string
	// SessionTTL bounds both the stored session and the token. Zero keeps
	// sessions until logout.
	SessionTTL time.Duration
}

// AuthService authenticates against the User table and owns the persisted
// session of each profile.
type AuthService struct {
	users    ports.TableStore
	sessions ports.SessionStore
	resolver *schema.Resolver
	cfg      AuthConfig
	log      zerolog.Logger
	metrics  ports.Metrics

	now        func() time.Time
	newProfile func() string
}

// NewAuthService wires the auth gate over the user table and the session
// store. A nil metrics sink is replaced by a no-op.
func NewAuthService(
	users ports.TableStore,
	sessions ports.SessionStore,
	resolver *schema.Resolver,
	cfg AuthConfig,
	log zerolog.Logger,
	metrics ports.Metrics,
) *AuthService {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &AuthService{
		users:      users,
		sessions:   sessions,
		resolver:   resolver,
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		now:        time.Now,
		newProfile: uuid.NewString,
	}
}

// Login verifies the credentials and persists a fresh session for the
// profile, replacing any prior one. Every credential problem, including an
// unreachable user table, is reported as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		s.metrics.LoginAttempt(loginRejected)
		return nil, domain.ErrInvalidCredentials
	}

	cred, err := s.lookup(ctx, email)
	if err != nil {
		return nil, err
	}

	if !password.Verify(in.Password, cred.PasswordHash) {
		s.metrics.LoginAttempt(loginRejected)
		return nil, domain.ErrInvalidCredentials
	}

	role, ok := domain.NormalizeRole(cred.Role)
	if !ok {
		s.log.Warn().Int64("user_id", cred.ID).Str("role", cred.Role).Msg("login refused: role outside the allowed set")
		s.metrics.LoginAttempt(loginBadRole)
		return nil, domain.ErrInvalidCredentials
	}

	session := domain.NewSession(cred, role)
	profile := in.Profile
	if profile == "" {
		profile = s.newProfile()
	}

	token, err := s.issueToken(profile)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	blob, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	if err := s.sessions.Put(ctx, profile, blob, s.cfg.SessionTTL); err != nil {
		s.log.Error().Err(err).Str("profile", profile).Msg("session write failed")
		s.metrics.LoginAttempt(loginStoreWrite)
		return nil, domain.Unavailable("persist session", err)
	}

	s.metrics.LoginAttempt(loginSuccess)
	s.log.Info().Int64("user_id", session.UserID).Str("role", session.Role).Str("profile", profile).Msg("login succeeded")
	return &ports.LoginResult{Token: token, Profile: profile, Session: session}, nil
}

func (s *AuthService) lookup(ctx context.Context, email string) (*domain.Credential, error) {
	q := ports.From(s.resolver.Table(schema.EntityUser)).IEq("email", email).Limit(2)
	rows, err := s.users.Select(ctx, q)
	if err != nil {
		s.log.Error().Err(err).Msg("credential lookup failed")
		s.metrics.LoginAttempt(loginBackend)
		return nil, domain.ErrInvalidCredentials
	}
	switch len(rows) {
	case 0:
		s.metrics.LoginAttempt(loginRejected)
		return nil, domain.ErrInvalidCredentials
	case 1:
	default:
		s.log.Warn().Msg("login refused: email matches several users")
		s.metrics.LoginAttempt(loginAmbiguous)
		return nil, domain.ErrInvalidCredentials
	}

	cred, ok := credentialFromRow(s.resolver, rows[0])
	if !ok {
		s.log.Warn().Msg("login refused: user row has no id")
		s.metrics.LoginAttempt(loginBadRecord)
		return nil, domain.ErrInvalidCredentials
	}
	return cred, nil
}

func (s *AuthService) issueToken(profile string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:  profile,
		IssuedAt: jwt.NewNumericDate(now),
		ID:       uuid.NewString(),
	}
	if s.cfg.SessionTTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.cfg.SessionTTL))
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.JWTSecret))
}

// ParseToken validates a session token and returns the profile it names.
func (s *AuthService) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(s.cfg.JWTSecret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidCredentials, err)
	}
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: token has no subject", domain.ErrInvalidCredentials)
	}
	return claims.Subject, nil
}

// Logout drops the profile's session. It is idempotent.
func (s *AuthService) Logout(ctx context.Context, profile string) error {
	if profile == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, profile); err != nil {
		return domain.Unavailable("delete session", err)
	}
	s.log.Info().Str("profile", profile).Msg("logout")
	return nil
}

// CurrentSession loads the profile's session. Missing, unreadable or invalid
// sessions yield nil.
func (s *AuthService) CurrentSession(ctx context.Context, profile string) *domain.Session {
	if profile == "" {
		return nil
	}
	blob, err := s.sessions.Get(ctx, profile)
	if err != nil {
		s.log.Error().Err(err).Str("profile", profile).Msg("session read failed")
		return nil
	}
	if blob == nil {
		return nil
	}
	var sess domain.Session
	if err := json.Unmarshal(blob, &sess); err != nil {
		s.log.Warn().Err(err).Str("profile", profile).Msg("discarding undecodable session")
		return nil
	}
	if !sess.Valid() {
		s.log.Warn().Str("profile", profile).Msg("discarding invalid session")
		return nil
	}
	return &sess
}

// State resolves the auth state of a profile.
func (s *AuthService) State(ctx context.Context, profile string) (domain.AuthState, *domain.Session) {
	if sess := s.CurrentSession(ctx, profile); sess != nil {
		return domain.StateAuthenticated, sess
	}
	return domain.StateAnonymous, nil
}
