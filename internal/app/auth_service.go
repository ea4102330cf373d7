package app

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"oncocare/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

const (
	sessionTTL        = 24 * time.Hour
	minPasswordLength = 6
)

var (
	// ErrInvalidCredentials indicates that the provided e-mail or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrMissingFields indicates that a required form field was blank.
	ErrMissingFields = errors.New("name, email and password are required")
	// ErrWeakPassword indicates that the password is shorter than allowed.
	ErrWeakPassword = errors.New("password must be at least 6 characters")
	// ErrEmailTaken indicates that an account already uses the e-mail address.
	ErrEmailTaken = errors.New("email is already registered")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

var _ domain.Authenticator = (*AuthService)(nil)

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	opts     options
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, opts ...Option) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		opts:     newOptions(opts),
	}
}

// Login authenticates a user by e-mail and creates a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil || user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(ctx, user.ID)
}

// Register creates a new account. It does not sign the user in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || strings.TrimSpace(password) == "" {
		return nil, ErrMissingFields
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, name, email, string(hash))
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and returns its user.
func (s *AuthService) ValidateSession(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.opts.now().After(session.ExpiresAt) {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// SeedUser creates an account only when no users exist yet. It reports
// whether the account was created.
func (s *AuthService) SeedUser(ctx context.Context, name, email, password string) (bool, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Register(ctx, name, email, password); err != nil {
		return false, err
	}
	return true, nil
}

// LoginWithUser creates a session for an identity already verified elsewhere
// (e.g. via SSO), provisioning the account on first sight.
func (s *AuthService) LoginWithUser(ctx context.Context, name, email string) (*domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		if name == "" {
			name = email
		}
		// Empty hash: SSO accounts cannot use password login.
		user, err = s.users.Create(ctx, name, email, "")
		if err != nil {
			// Lost a race with a concurrent first login.
			user, err = s.users.GetByEmail(ctx, email)
			if err != nil || user == nil {
				return nil, ErrUserNotFound
			}
		}
	}
	return s.startSession(ctx, user.ID)
}

// PurgeExpired removes sessions past their expiry.
func (s *AuthService) PurgeExpired(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

func (s *AuthService) startSession(ctx context.Context, userID int64) (*domain.Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	now := s.opts.now()
	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: now.Add(sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, userID, token, session.ExpiresAt); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *AuthService) wait(ctx context.Context) error {
	return s.opts.wait(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
