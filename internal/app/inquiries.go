package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"oncocare/internal/domain"
	"oncocare/internal/metrics"
)

// ContactService accepts contact-form messages.
type ContactService struct {
	log *inbox[domain.ContactMessage]
}

// NewContactService creates a ContactService backed by the given store.
func NewContactService(store domain.KVStore, opts ...Option) *ContactService {
	return &ContactService{log: newInbox[domain.ContactMessage](store, domain.ContactMessagesKey, "contact", opts)}
}

// Send validates in, waits out the simulated latency and stores the message.
// Unlike the medication list, storage failures are returned: a message the
// patient believes was sent must not vanish silently.
func (s *ContactService) Send(ctx context.Context, in domain.ContactInput) (domain.ContactMessage, error) {
	if err := in.Validate(); err != nil {
		return domain.ContactMessage{}, err
	}
	if err := s.log.opts.wait(ctx); err != nil {
		return domain.ContactMessage{}, err
	}
	msg := domain.ContactMessage{
		ID:      newRecordID(),
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		Message: strings.TrimSpace(in.Message),
		SentAt:  s.log.opts.now(),
	}
	if err := s.log.prepend(ctx, msg); err != nil {
		return domain.ContactMessage{}, err
	}
	return msg, nil
}

// ExpertService files written questions for the expert team.
type ExpertService struct {
	log *inbox[domain.ExpertQuestion]
}

// NewExpertService creates an ExpertService backed by the given store.
func NewExpertService(store domain.KVStore, opts ...Option) *ExpertService {
	return &ExpertService{log: newInbox[domain.ExpertQuestion](store, domain.ExpertQuestionsKey, "expert", opts)}
}

// Ask validates in, waits out the simulated latency and stores the question.
func (s *ExpertService) Ask(ctx context.Context, in domain.QuestionInput) (domain.ExpertQuestion, error) {
	if err := in.Validate(); err != nil {
		return domain.ExpertQuestion{}, err
	}
	if err := s.log.opts.wait(ctx); err != nil {
		return domain.ExpertQuestion{}, err
	}
	q := domain.ExpertQuestion{
		ID:       newRecordID(),
		Category: in.Category,
		Question: strings.TrimSpace(in.Question),
		AskedAt:  s.log.opts.now(),
	}
	if err := s.log.prepend(ctx, q); err != nil {
		return domain.ExpertQuestion{}, err
	}
	return q, nil
}

// Questions returns the patient's questions, newest first.
func (s *ExpertService) Questions(ctx context.Context) ([]domain.ExpertQuestion, error) {
	return s.log.load(ctx, scopedKey(ctx, s.log.key))
}

// inbox is a most-recent-first JSON list stored under one key per scope.
type inbox[T any] struct {
	store     domain.KVStore
	key       string
	component string
	opts      options
	mu        sync.Mutex
}

func newInbox[T any](store domain.KVStore, key, component string, opts []Option) *inbox[T] {
	return &inbox[T]{store: store, key: key, component: component, opts: newOptions(opts)}
}

func (b *inbox[T]) prepend(ctx context.Context, item T) error {
	key := scopedKey(ctx, b.key)
	b.mu.Lock()
	defer b.mu.Unlock()

	list, err := b.load(ctx, key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(append([]T{item}, list...))
	if err != nil {
		return err
	}
	if err := b.store.Set(ctx, key, string(raw)); err != nil {
		metrics.IncStorageError(b.component, "set")
		return fmt.Errorf("save %s: %w", b.component, err)
	}
	metrics.Submissions.WithLabelValues(b.component).Inc()
	return nil
}

// load treats an unreadable list as empty, like the medication registry.
func (b *inbox[T]) load(ctx context.Context, key string) ([]T, error) {
	raw, ok, err := b.store.Get(ctx, key)
	if err != nil {
		metrics.IncStorageError(b.component, "get")
		return nil, fmt.Errorf("load %s: %w", b.component, err)
	}
	list := []T{}
	if !ok || raw == "" {
		return list, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		b.opts.log.Warn("discarding unreadable list", zap.String("key", key), zap.Error(err))
		return []T{}, nil
	}
	return list, nil
}
