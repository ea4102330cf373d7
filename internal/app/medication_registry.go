package app

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"oncocare/internal/domain"
	"oncocare/internal/metrics"
)

// MedicationRegistry manages the most-recent-first list of medication
// reminders, stored as one JSON document.
type MedicationRegistry struct {
	store domain.KVStore
	opts  options

	// one lock per storage key so load-mutate-write cycles never interleave
	locks sync.Map
}

// NewMedicationRegistry creates a MedicationRegistry backed by the given store.
func NewMedicationRegistry(store domain.KVStore, opts ...Option) *MedicationRegistry {
	return &MedicationRegistry{store: store, opts: newOptions(opts)}
}

// Load returns the stored list, or an empty list if there is none or it
// cannot be read.
func (r *MedicationRegistry) Load(ctx context.Context) []domain.MedicationRecord {
	list, _ := r.load(ctx, scopedKey(ctx, domain.MedicationsKey))
	return list
}

// Add validates in, prepends a new record and persists the list. Only
// validation errors are returned; they are reported before anything is
// written.
func (r *MedicationRegistry) Add(ctx context.Context, in domain.MedicationInput) (domain.MedicationRecord, error) {
	freq, err := in.Validate()
	if err != nil {
		return domain.MedicationRecord{}, err
	}

	rec := domain.MedicationRecord{
		ID:        newRecordID(),
		Name:      strings.TrimSpace(in.Name),
		Dose:      strings.TrimSpace(in.Dose),
		Time:      strings.TrimSpace(in.Time),
		Frequency: freq,
		CreatedAt: r.opts.now().Format(domain.CreatedAtLayout),
	}
	if rec.Dose == "" {
		rec.Dose = domain.DosePlaceholder
	}

	key := scopedKey(ctx, domain.MedicationsKey)
	mu := r.lock(key)
	mu.Lock()
	defer mu.Unlock()

	list, readable := r.load(ctx, key)
	updated := make([]domain.MedicationRecord, 0, len(list)+1)
	updated = append(updated, rec)
	updated = append(updated, list...)
	if readable {
		r.save(ctx, key, updated)
	}
	metrics.MedicationMutations.WithLabelValues("add").Inc()
	return rec, nil
}

// Remove deletes the record with the given id and reports whether one was
// found. Callers are expected to have confirmed the deletion with the user.
func (r *MedicationRegistry) Remove(ctx context.Context, id string) bool {
	key := scopedKey(ctx, domain.MedicationsKey)
	mu := r.lock(key)
	mu.Lock()
	defer mu.Unlock()

	list, readable := r.load(ctx, key)
	updated := make([]domain.MedicationRecord, 0, len(list))
	for _, m := range list {
		if m.ID != id {
			updated = append(updated, m)
		}
	}
	removed := len(updated) != len(list)
	if readable && removed {
		r.save(ctx, key, updated)
		metrics.MedicationMutations.WithLabelValues("remove").Inc()
	}
	return removed
}

// load reads the list at key. readable is false only when the store itself
// failed, in which case the caller must not overwrite what is stored.
func (r *MedicationRegistry) load(ctx context.Context, key string) (list []domain.MedicationRecord, readable bool) {
	list = []domain.MedicationRecord{}
	raw, ok, err := r.store.Get(ctx, key)
	if err != nil {
		r.opts.log.Warn("medications not loaded", zap.String("key", key), zap.Error(err))
		metrics.IncStorageError("medications", "get")
		return list, false
	}
	if !ok || raw == "" {
		return list, true
	}
	var decoded []domain.MedicationRecord
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		r.opts.log.Warn("discarding unreadable medication list", zap.String("key", key), zap.Error(err))
		return list, true
	}
	if decoded != nil {
		list = decoded
	}
	return list, true
}

func (r *MedicationRegistry) save(ctx context.Context, key string, list []domain.MedicationRecord) {
	b, err := json.Marshal(list)
	if err == nil {
		err = r.store.Set(ctx, key, string(b))
	}
	if err != nil {
		r.opts.log.Warn("medications not saved", zap.String("key", key), zap.Error(err))
		metrics.IncStorageError("medications", "set")
	}
}

func (r *MedicationRegistry) lock(key string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// newRecordID returns a time-ordered UUIDv7, or a random UUID if the clock
// source fails.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
