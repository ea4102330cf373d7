package adapthttp

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"oncocare/internal/adapter/memory"
	"oncocare/internal/app"
)

func TestSetSessionCookie(t *testing.T) {
	tests := []struct {
		name       string
		tls        bool
		wantSecure bool
	}{
		{"plain http", false, false},
		{"tls", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
			if tt.tls {
				r.TLS = &tls.ConnectionState{}
			}
			w := httptest.NewRecorder()
			setSessionCookie(w, r, "tok", time.Now().Add(24*time.Hour))

			cookies := w.Result().Cookies()
			if len(cookies) != 1 {
				t.Fatalf("expected one cookie, got %d", len(cookies))
			}
			c := cookies[0]
			if c.Name != sessionCookie || c.Value != "tok" {
				t.Errorf("cookie = %s=%s", c.Name, c.Value)
			}
			if c.Secure != tt.wantSecure {
				t.Errorf("Secure = %v, want %v", c.Secure, tt.wantSecure)
			}
			if !c.HttpOnly || c.SameSite != http.SameSiteStrictMode {
				t.Errorf("HttpOnly = %v, SameSite = %v", c.HttpOnly, c.SameSite)
			}
			if c.MaxAge <= 0 || c.MaxAge > 86400 {
				t.Errorf("MaxAge = %d", c.MaxAge)
			}
		})
	}
}

func TestLogin_SecureCookieOverTLS(t *testing.T) {
	s := newCookieTestServer(t)
	ts := httptest.NewTLSServer(s.Handler())
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/auth/login", "application/json",
		jsonBody(`{"email":"demo@example.com","password":"demo123"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookie && !c.Secure {
			t.Fatal("session cookie served over TLS without Secure")
		}
	}
}

func newCookieTestServer(t *testing.T) *Server {
	t.Helper()
	db := memory.New()
	authSvc := app.NewAuthService(db, db.NewSessionRepo())
	if _, err := authSvc.SeedUser(context.Background(), "Demo Kullanıcı", "demo@example.com", "demo123"); err != nil {
		t.Fatal(err)
	}
	return New(app.NewMoodTracker(db), app.NewMedicationRegistry(db), authSvc, nil, nil)
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}
