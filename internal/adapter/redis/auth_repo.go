package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"oncocare/internal/domain"
)

// ErrUserExists is returned when creating a user whose e-mail is taken.
var ErrUserExists = errors.New("user already exists")

var _ domain.UserRepository = (*Store)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// Account keys live beside the data keys under the same prefix:
//
//	account:seq            INCR counter, never reset
//	account:ids            set of issued ids
//	account:<id>           hash with name, email, password_hash, created_at
//	account:email:<email>  id for a lower-cased e-mail
//	session:<token>        JSON session, expiring with the session
func (s *Store) accountKey(id int64) string {
	return s.prefix + "account:" + strconv.FormatInt(id, 10)
}

func (s *Store) emailKey(email string) string {
	return s.prefix + "account:email:" + strings.ToLower(email)
}

// GetByEmail retrieves a user by e-mail, ignoring case.
func (s *Store) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	id, err := s.rdb.Get(ctx, s.emailKey(email)).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, id)
}

// GetByID retrieves a user by ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	fields, err := s.rdb.HGetAll(ctx, s.accountKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	created, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, err
	}
	return &domain.User{
		ID:           id,
		Name:         fields["name"],
		Email:        fields["email"],
		PasswordHash: fields["password_hash"],
		CreatedAt:    created,
	}, nil
}

// Create creates a new user. The e-mail is claimed with SETNX so two
// concurrent sign-ups cannot share an address.
func (s *Store) Create(ctx context.Context, name, email, passwordHash string) (*domain.User, error) {
	id, err := s.rdb.Incr(ctx, s.prefix+"account:seq").Result()
	if err != nil {
		return nil, err
	}
	ok, err := s.rdb.SetNX(ctx, s.emailKey(email), id, 0).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserExists
	}

	u := &domain.User{
		ID:           id,
		Name:         name,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.accountKey(id),
			"name", u.Name,
			"email", u.Email,
			"password_hash", u.PasswordHash,
			"created_at", u.CreatedAt.Format(time.RFC3339Nano),
		)
		pipe.SAdd(ctx, s.prefix+"account:ids", id)
		return nil
	})
	if err != nil {
		_ = s.rdb.Del(ctx, s.emailKey(email)).Err()
		return nil, err
	}
	return u, nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.rdb.SCard(ctx, s.prefix+"account:ids").Result()
	return int(n), err
}

// SessionRepo stores sessions as expiring Redis keys.
type SessionRepo struct {
	s *Store
}

// NewSessionRepo wraps a Store as a SessionRepository.
func NewSessionRepo(s *Store) *SessionRepo {
	return &SessionRepo{s: s}
}

type sessionRecord struct {
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *SessionRepo) key(token string) string {
	return r.s.prefix + "session:" + token
}

// Create creates a new session that Redis drops once it expires.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	b, err := json.Marshal(sessionRecord{UserID: userID, ExpiresAt: expiresAt, CreatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return r.s.rdb.Set(ctx, r.key(token), b, ttl).Err()
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	b, err := r.s.rdb.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var rec sessionRecord
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, err
	}
	return &domain.Session{
		Token:     token,
		UserID:    rec.UserID,
		ExpiresAt: rec.ExpiresAt,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	return r.s.rdb.Del(ctx, r.key(token)).Err()
}

// DeleteExpired is a no-op: session keys carry their own TTL.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}
