package app

import (
	"context"

	"go.uber.org/zap"

	"oncocare/internal/domain"
	"oncocare/internal/metrics"
)

const (
	maxHistoryDays = 366
	dayLayout      = "2006-01-02"
)

// MoodTracker keeps at most one mood per local calendar day.
type MoodTracker struct {
	store domain.KVStore
	opts  options
}

// NewMoodTracker creates a MoodTracker backed by the given store.
func NewMoodTracker(store domain.KVStore, opts ...Option) *MoodTracker {
	return &MoodTracker{store: store, opts: newOptions(opts)}
}

// KeyForToday returns the storage key for the current local date.
func (t *MoodTracker) KeyForToday() string {
	return domain.MoodKey(t.opts.now())
}

// Today returns the current local date as YYYY-MM-DD.
func (t *MoodTracker) Today() string {
	return t.opts.now().Format(dayLayout)
}

// Load returns today's mood. Storage failures and unreadable values are
// reported as "no mood yet".
func (t *MoodTracker) Load(ctx context.Context) (domain.Mood, bool) {
	return t.loadKey(ctx, t.KeyForToday())
}

// Select records m for today, replacing any earlier choice. The write is
// best effort: the selection is returned even if it could not be persisted.
func (t *MoodTracker) Select(ctx context.Context, m domain.Mood) domain.Mood {
	if !m.Valid() {
		return m
	}
	key := t.KeyForToday()
	if err := t.store.Set(ctx, scopedKey(ctx, key), m.String()); err != nil {
		t.opts.log.Warn("mood not saved", zap.String("key", key), zap.Error(err))
		metrics.IncStorageError("mood", "set")
	}
	metrics.MoodSelections.WithLabelValues(m.String()).Inc()
	return m
}

// History returns one entry per local day for the last days days, oldest
// first, ending today.
func (t *MoodTracker) History(ctx context.Context, days int) []domain.MoodEntry {
	if days <= 0 {
		days = 1
	}
	if days > maxHistoryDays {
		days = maxHistoryDays
	}

	today := t.opts.now()
	out := make([]domain.MoodEntry, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		entry := domain.MoodEntry{Day: d.Format(dayLayout)}
		if m, ok := t.loadKey(ctx, domain.MoodKey(d)); ok {
			entry.Mood = &m
		}
		out = append(out, entry)
	}
	return out
}

func (t *MoodTracker) loadKey(ctx context.Context, key string) (domain.Mood, bool) {
	v, ok, err := t.store.Get(ctx, scopedKey(ctx, key))
	if err != nil {
		t.opts.log.Warn("mood not loaded", zap.String("key", key), zap.Error(err))
		metrics.IncStorageError("mood", "get")
		return 0, false
	}
	if !ok {
		return 0, false
	}
	m, err := domain.ParseMood(v)
	if err != nil {
		t.opts.log.Debug("ignoring stored mood", zap.String("key", key), zap.String("value", v))
		return 0, false
	}
	return m, true
}
