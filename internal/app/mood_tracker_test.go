package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"oncocare/internal/app"
	"oncocare/internal/domain"
)

// mockStore is a map-backed KVStore whose calls can be intercepted.
type mockStore struct {
	data     map[string]string
	getFn    func(ctx context.Context, key string) (string, bool, error)
	setFn    func(ctx context.Context, key, value string) error
	removeFn func(ctx context.Context, key string) error
	sets     int
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string]string{}}
}

func (m *mockStore) Get(ctx context.Context, key string) (string, bool, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	m.sets++
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.data[key] = value
	return nil
}

func (m *mockStore) Remove(ctx context.Context, key string) error {
	if m.removeFn != nil {
		return m.removeFn(ctx, key)
	}
	delete(m.data, key)
	return nil
}

// fakeClock returns a controllable clock.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func TestMoodTracker_KeyForToday(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 2, 8, 7, 30, 0, 0, time.Local)}
	tr := app.NewMoodTracker(newMockStore(), app.WithClock(clock.Now))

	if got := tr.KeyForToday(); got != "@mood_tracker_2026-2-8" {
		t.Fatalf("KeyForToday() = %q", got)
	}
	clock.t = clock.t.Add(10 * time.Hour)
	if got := tr.KeyForToday(); got != "@mood_tracker_2026-2-8" {
		t.Fatalf("key changed within the day: %q", got)
	}
	clock.t = clock.t.Add(7 * time.Hour)
	if got := tr.KeyForToday(); got != "@mood_tracker_2026-2-9" {
		t.Fatalf("key did not roll over: %q", got)
	}
}

func TestMoodTracker_SelectThenLoad(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	tr := app.NewMoodTracker(newMockStore(), app.WithClock(clock.Now))
	ctx := context.Background()

	if _, ok := tr.Load(ctx); ok {
		t.Fatal("expected no mood before selection")
	}
	for _, m := range domain.Moods {
		if got := tr.Select(ctx, m); got != m {
			t.Fatalf("Select(%v) = %v", m, got)
		}
		got, ok := tr.Load(ctx)
		if !ok || got != m {
			t.Fatalf("Load() = %v, %v; want %v", got, ok, m)
		}
	}
}

func TestMoodTracker_DaysAreIndependent(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 10, 17, 20, 0, 0, 0, time.Local)}
	tr := app.NewMoodTracker(store, app.WithClock(clock.Now))
	ctx := context.Background()

	tr.Select(ctx, domain.MoodBad)
	clock.t = clock.t.Add(6 * time.Hour) // next day

	if _, ok := tr.Load(ctx); ok {
		t.Fatal("new day should start unset")
	}
	tr.Select(ctx, domain.MoodGood)

	if v := store.data["@mood_tracker_2026-10-17"]; v != "bad" {
		t.Fatalf("previous day overwritten: %q", v)
	}
	if v := store.data["@mood_tracker_2026-10-18"]; v != "good" {
		t.Fatalf("today = %q; want good", v)
	}
}

func TestMoodTracker_StorageErrorsAreSwallowed(t *testing.T) {
	store := newMockStore()
	store.getFn = func(context.Context, string) (string, bool, error) { return "", false, errors.New("disk gone") }
	store.setFn = func(context.Context, string, string) error { return errors.New("disk gone") }
	tr := app.NewMoodTracker(store)
	ctx := context.Background()

	if got := tr.Select(ctx, domain.MoodOkay); got != domain.MoodOkay {
		t.Fatalf("Select returned %v", got)
	}
	if store.sets != 1 {
		t.Fatalf("expected one write attempt, got %d", store.sets)
	}
	if _, ok := tr.Load(ctx); ok {
		t.Fatal("expected absent mood on read failure")
	}
}

func TestMoodTracker_IgnoresUnknownStoredValue(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	store.data["@mood_tracker_2026-10-18"] = "ecstatic"
	tr := app.NewMoodTracker(store, app.WithClock(clock.Now))

	if m, ok := tr.Load(context.Background()); ok {
		t.Fatalf("expected absent, got %v", m)
	}
}

func TestMoodTracker_Scope(t *testing.T) {
	store := newMockStore()
	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	tr := app.NewMoodTracker(store, app.WithClock(clock.Now))

	alice := app.WithScope(context.Background(), "user:1")
	bob := app.WithScope(context.Background(), "user:2")
	tr.Select(alice, domain.MoodGood)

	if _, ok := tr.Load(bob); ok {
		t.Fatal("scopes leaked")
	}
	if v := store.data["user:1/@mood_tracker_2026-10-18"]; v != "good" {
		t.Fatalf("scoped key missing, data = %v", store.data)
	}
}

func TestMoodTracker_History(t *testing.T) {
	store := newMockStore()
	store.data["@mood_tracker_2026-10-16"] = "bad"
	store.data["@mood_tracker_2026-10-18"] = "good"
	clock := &fakeClock{t: time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)}
	tr := app.NewMoodTracker(store, app.WithClock(clock.Now))

	got := tr.History(context.Background(), 3)
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	wantDays := []string{"2026-10-16", "2026-10-17", "2026-10-18"}
	for i, e := range got {
		if e.Day != wantDays[i] {
			t.Errorf("entry %d day = %s; want %s", i, e.Day, wantDays[i])
		}
	}
	if got[0].Mood == nil || *got[0].Mood != domain.MoodBad {
		t.Errorf("day 0 mood = %v", got[0].Mood)
	}
	if got[1].Mood != nil {
		t.Errorf("day 1 should be empty, got %v", *got[1].Mood)
	}
	if got[2].Mood == nil || *got[2].Mood != domain.MoodGood {
		t.Errorf("day 2 mood = %v", got[2].Mood)
	}
}

func TestMoodTracker_HistoryBounds(t *testing.T) {
	tr := app.NewMoodTracker(newMockStore())
	if n := len(tr.History(context.Background(), 0)); n != 1 {
		t.Errorf("days=0 gave %d entries; want 1", n)
	}
	if n := len(tr.History(context.Background(), 1000)); n != 366 {
		t.Errorf("days=1000 gave %d entries; want 366", n)
	}
}
