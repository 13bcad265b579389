// Package auth issues and verifies dashboard sessions. Passwords are bcrypt
// hashed; sessions are HS256 JWTs carrying the user id and email.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/fleetdash/backend/internal/domain"
	"github.com/fleetdash/backend/internal/repo"
)

// Password length bounds Register accepts, in bytes. bcrypt rejects
// anything longer than MaxPasswordLength.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// Claims is the JWT payload. Subject holds the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// LoginResult bundles the signed token with the session it encodes.
type LoginResult struct {
	Token   string
	Session domain.Session
	User    domain.User
}

// Service handles registration, login, and token verification.
type Service struct {
	users  repo.UserRepo
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service. ttl is the session lifetime.
func NewService(users repo.UserRepo, secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{users: users, secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register validates input, hashes the password, and creates the user.
// Returns domain.ErrValidation for bad input, domain.ErrConflict if the
// email is taken.
func (s *Service) Register(ctx context.Context, email, fullName, password string) (domain.User, error) {
	email = strings.TrimSpace(email)
	fullName = strings.TrimSpace(fullName)

	if _, err := mail.ParseAddress(email); err != nil {
		return domain.User{}, fmt.Errorf("%w: email is invalid", domain.ErrValidation)
	}
	if fullName == "" {
		return domain.User{}, fmt.Errorf("%w: full_name is required", domain.ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return domain.User{}, fmt.Errorf("%w: password must be at most %d bytes", domain.ErrValidation, MaxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Service.Register: hash password: %w", err)
	}

	u, err := s.users.Create(ctx, domain.User{Email: email, FullName: fullName, PasswordHash: string(hash)})
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.Service.Register: %w", err)
	}
	return u, nil
}

// Login checks the credentials and returns a signed session token.
// Unknown email and wrong password both return domain.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return LoginResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
		}
		return LoginResult{}, fmt.Errorf("auth.Service.Login: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return LoginResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrUnauthorized)
	}

	token, sess, err := s.issue(u)
	if err != nil {
		return LoginResult{}, fmt.Errorf("auth.Service.Login: %w", err)
	}
	return LoginResult{Token: token, Session: sess, User: u}, nil
}

// Verify parses and validates a session token.
// Any failure (bad signature, wrong algorithm, expiry) is domain.ErrUnauthorized.
func (s *Service) Verify(token string) (domain.Session, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: invalid subject", domain.ErrUnauthorized)
	}
	return domain.Session{UserID: id, Email: claims.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}

func (s *Service) issue(u domain.User) (string, domain.Session, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", domain.Session{}, fmt.Errorf("sign token: %w", err)
	}
	// NumericDate truncates to seconds; report what the token actually says.
	return signed, domain.Session{UserID: u.ID, Email: u.Email, ExpiresAt: claims.ExpiresAt.Time}, nil
}
