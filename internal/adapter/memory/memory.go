// Package memory implements in-memory repositories for development and testing.
package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"oncocare/internal/domain"
)

// ErrUserExists is returned when creating a user whose e-mail is taken.
var ErrUserExists = errors.New("user already exists")

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	kv       map[string]string
	users    []*domain.User
	sessions map[string]*domain.Session
	claims   map[string]time.Time

	userIDCounter int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		kv:       make(map[string]string),
		sessions: make(map[string]*domain.Session),
		claims:   make(map[string]time.Time),
	}
}

// Ensure interfaces are met.
var _ domain.KVStore = (*DB)(nil)
var _ domain.UserRepository = (*DB)(nil)
var _ domain.SubmissionGuard = (*DB)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// --- KVStore ---

// Get returns the value stored at key.
func (db *DB) Get(ctx context.Context, key string) (string, bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	v, ok := db.kv[key]
	return v, ok, nil
}

// Set stores value at key.
func (db *DB) Set(ctx context.Context, key, value string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.kv[key] = value
	return nil
}

// Remove deletes key. Removing a missing key is not an error.
func (db *DB) Remove(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.kv, key)
	return nil
}

// --- SubmissionGuard ---

// AcquireOnce claims key for ttl.
func (db *DB) AcquireOnce(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now()
	for k, exp := range db.claims {
		if now.After(exp) {
			delete(db.claims, k)
		}
	}
	if _, taken := db.claims[key]; taken {
		return false, nil
	}
	db.claims[key] = now.Add(ttl)
	return true, nil
}

// Release drops the claim on key.
func (db *DB) Release(ctx context.Context, key string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	delete(db.claims, key)
	return nil
}

// --- UserRepository ---

// GetByEmail retrieves a user by e-mail, ignoring case.
func (db *DB) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// GetByID retrieves a user by ID.
func (db *DB) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new user.
func (db *DB) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if strings.EqualFold(u.Email, email) {
			return nil, ErrUserExists
		}
	}

	db.userIDCounter++
	u := &domain.User{
		ID:           db.userIDCounter,
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.users = append(db.users, u)
	cp := *u
	return &cp, nil
}

// Count returns the total number of users.
func (db *DB) Count(ctx context.Context) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return len(db.users), nil
}

// --- SessionRepository ---

// SessionRepo implements session persistence.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new session repository.
func (db *DB) NewSessionRepo() *SessionRepo {
	return &SessionRepo{db: db}
}

// Create creates a new session.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.sessions[token] = &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if s, ok := r.db.sessions[token]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, nil
}

// Delete deletes a session.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.sessions, token)
	return nil
}

// DeleteExpired deletes all expired sessions.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	now := time.Now()
	for k, v := range r.db.sessions {
		if now.After(v.ExpiresAt) {
			delete(r.db.sessions, k)
		}
	}
	return nil
}
