package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"oncocare/internal/config"
)

// startServer serves the sqlite file at path until stop is called.
func startServer(t *testing.T, path string) (ts *httptest.Server, stop func()) {
	t.Helper()
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverSQLite
	cfg.Storage.SQLitePath = path
	cfg.Auth.SimulatedLatency = 0

	ctx := context.Background()
	be, err := openBackend(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("openBackend: %v", err)
	}
	srv, _, err := newServer(ctx, cfg, be, zap.NewNop())
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	ts = httptest.NewServer(srv.Handler())
	return ts, func() {
		ts.Close()
		if err := be.close(); err != nil {
			t.Errorf("close backend: %v", err)
		}
	}
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()
	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func register(t *testing.T, ts *httptest.Server, name, email string) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := &http.Client{Jar: jar}

	creds := map[string]any{"name": name, "email": email, "password": "secret1"}
	resp := postJSON(t, client, ts.URL+"/api/auth/register", creds)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d", email, resp.StatusCode)
	}
	resp = postJSON(t, client, ts.URL+"/api/auth/login",
		map[string]any{"email": email, "password": "secret1"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d", email, resp.StatusCode)
	}
	return client
}

func listMedications(t *testing.T, client *http.Client, ts *httptest.Server) []any {
	t.Helper()
	resp, err := client.Get(ts.URL + "/api/medications")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Items []any `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	return body.Items
}

func TestServe_RestartKeepsPatientsApart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oncocare.db")

	ts, stop := startServer(t, path)
	alice := register(t, ts, "Alice", "alice@example.com")
	resp := postJSON(t, alice, ts.URL+"/api/medications",
		map[string]any{"name": "Tamoksifen", "time": "08:00", "frequency": "daily"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add: expected 200, got %d", resp.StatusCode)
	}
	stop()

	ts, stop = startServer(t, path)
	defer stop()

	bob := register(t, ts, "Bob", "bob@example.com")
	if items := listMedications(t, bob, ts); len(items) != 0 {
		t.Fatalf("new patient sees %d medication(s) of another patient", len(items))
	}

	// Alice's account and data outlive the restart.
	jar, _ := cookiejar.New(nil)
	again := &http.Client{Jar: jar}
	resp = postJSON(t, again, ts.URL+"/api/auth/login",
		map[string]any{"email": "alice@example.com", "password": "secret1"})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("alice login after restart: expected 200, got %d", resp.StatusCode)
	}
	if items := listMedications(t, again, ts); len(items) != 1 {
		t.Fatalf("alice has %d medication(s) after restart, want 1", len(items))
	}

	// The demo account is seeded once, not on every boot.
	resp = postJSON(t, again, ts.URL+"/api/auth/register",
		map[string]any{"name": "Demo", "email": demoEmail, "password": demoPassword})
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("demo re-register: expected 409, got %d", resp.StatusCode)
	}
}
