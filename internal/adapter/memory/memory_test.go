package memory

import (
	"context"
	"testing"
	"time"
)

func TestKVStore(t *testing.T) {
	db := New()
	ctx := context.Background()

	if _, ok, err := db.Get(ctx, "@medications_list"); ok || err != nil {
		t.Fatalf("expected absent key, got ok=%v err=%v", ok, err)
	}

	if err := db.Set(ctx, "@medications_list", "[]"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := db.Set(ctx, "@medications_list", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, ok, err := db.Get(ctx, "@medications_list")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if v != `[{"id":"1"}]` {
		t.Errorf("expected overwrite, got %q", v)
	}

	if err := db.Remove(ctx, "@medications_list"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := db.Get(ctx, "@medications_list"); ok {
		t.Error("expected key removed")
	}
	if err := db.Remove(ctx, "missing"); err != nil {
		t.Errorf("Remove of missing key: %v", err)
	}
}

func TestSubmissionGuard(t *testing.T) {
	db := New()
	ctx := context.Background()

	ok, err := db.AcquireOnce(ctx, "k1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire = %v, %v", ok, err)
	}
	ok, _ = db.AcquireOnce(ctx, "k1", time.Minute)
	if ok {
		t.Fatal("second acquire should fail")
	}
	ok, _ = db.AcquireOnce(ctx, "k2", time.Minute)
	if !ok {
		t.Fatal("distinct key should succeed")
	}

	ok, _ = db.AcquireOnce(ctx, "short", time.Nanosecond)
	if !ok {
		t.Fatal("acquire short")
	}
	time.Sleep(time.Millisecond)
	ok, _ = db.AcquireOnce(ctx, "short", time.Minute)
	if !ok {
		t.Fatal("expired claim should be reusable")
	}

	if err := db.Release(ctx, "k1"); err != nil {
		t.Fatalf("Release: %v", err)
	}
	ok, _ = db.AcquireOnce(ctx, "k1", time.Minute)
	if !ok {
		t.Fatal("released claim should be reusable")
	}
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u, err := db.Create(ctx, "Demo Kullanıcı", "demo@example.com", "hash")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "demo@example.com" {
		t.Errorf("expected demo@example.com, got %s", u.Email)
	}

	u2, err := db.GetByEmail(ctx, "DEMO@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u2 == nil || u2.ID != u.ID {
		t.Error("failed to retrieve user case-insensitively")
	}

	if _, err := db.Create(ctx, "Other", "Demo@Example.com", "hash"); err != ErrUserExists {
		t.Errorf("expected ErrUserExists, got %v", err)
	}

	missing, err := db.GetByID(ctx, 999)
	if err != nil || missing != nil {
		t.Errorf("expected nil, nil for unknown id; got %v, %v", missing, err)
	}

	count, _ := db.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestSessionRepository(t *testing.T) {
	db := New()
	repo := db.NewSessionRepo()
	ctx := context.Background()

	if err := repo.Create(ctx, 1, "token123", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, 1, "old", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	sess, err := repo.GetByToken(ctx, "token123")
	if err != nil {
		t.Fatalf("GetByToken: %v", err)
	}
	if sess == nil {
		t.Fatal("expected session, got nil")
	}

	if err := repo.DeleteExpired(ctx); err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if s, _ := repo.GetByToken(ctx, "old"); s != nil {
		t.Error("expired session survived DeleteExpired")
	}

	_ = repo.Delete(ctx, "token123")
	sess, _ = repo.GetByToken(ctx, "token123")
	if sess != nil {
		t.Error("expected nil (deleted)")
	}
}
