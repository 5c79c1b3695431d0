// internal/app/system/auth/auth_test.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

type fakeFetcher struct {
	users map[string]*TokenUser
}

func (f *fakeFetcher) FetchUser(_ context.Context, userID string) *TokenUser {
	return f.users[userID]
}

func newManager(t *testing.T, ttl time.Duration) *TokenManager {
	t.Helper()
	tm, err := NewTokenManager("0123456789abcdef0123456789abcdef", ttl, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	return tm
}

func TestNewTokenManagerRejectsEmptySecret(t *testing.T) {
	if _, err := NewTokenManager("", time.Hour, zap.NewNop()); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestNewTokenManagerRejectsNonPositiveTTL(t *testing.T) {
	if _, err := NewTokenManager("0123456789abcdef0123456789abcdef", 0, zap.NewNop()); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestIssueParseRoundTrip(t *testing.T) {
	tm := newManager(t, time.Hour)

	token, err := tm.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	subject, err := tm.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if subject != "user-123" {
		t.Fatalf("subject = %q, want user-123", subject)
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	tm := newManager(t, time.Millisecond)

	token, err := tm.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := tm.Parse(token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	tm := newManager(t, time.Hour)
	other, err := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}

	token, err := tm.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := other.Parse(token); err == nil {
		t.Fatal("expected token signed with other secret to fail")
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	tm := newManager(t, time.Hour)
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := tm.Parse(raw); err == nil {
			t.Fatalf("Parse(%q): expected error", raw)
		}
	}
}

func TestLoadBearerUserResolvesIdentity(t *testing.T) {
	tm := newManager(t, time.Hour)
	fetcher := &fakeFetcher{users: map[string]*TokenUser{
		"user-123": {ID: "user-123", Email: "a@example.com", Role: "user"},
	}}

	var got *TokenUser
	handler := tm.LoadBearerUser(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	token, err := tm.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.Email != "a@example.com" {
		t.Fatalf("context user = %+v, want a@example.com", got)
	}
}

func TestLoadBearerUserSkipsUnknownSubject(t *testing.T) {
	tm := newManager(t, time.Hour)
	fetcher := &fakeFetcher{users: map[string]*TokenUser{}}

	var ok bool
	handler := tm.LoadBearerUser(fetcher)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok = CurrentUser(r)
	}))

	token, err := tm.Issue("deleted-user")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if ok {
		t.Fatal("expected no context user for unknown subject")
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("unauthenticated gets uniform 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
		var body struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.Success || body.Message != NotAuthorizedMessage {
			t.Fatalf("body = %+v", body)
		}
	})

	t.Run("signed-in passes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil),
			&TokenUser{ID: "u1", Email: "a@example.com", Role: "user"})
		RequireSignedIn(next).ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("status = %d, want 204", rec.Code)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	cases := []struct {
		name string
		user *TokenUser
		want int
	}{
		{"unauthenticated", nil, http.StatusUnauthorized},
		{"regular user", &TokenUser{ID: "u1", Role: "user"}, http.StatusForbidden},
		{"admin", &TokenUser{ID: "u2", Role: "admin"}, http.StatusNoContent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.user != nil {
				req = WithTestUser(req, tc.user)
			}
			rec := httptest.NewRecorder()
			RequireAdmin(next).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestBearerTokenExtraction(t *testing.T) {
	cases := []struct {
		header string
		token  string
		ok     bool
	}{
		{"", "", false},
		{"Bearer abc", "abc", true},
		{"Bearer   abc  ", "abc", true},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		token, ok := bearerToken(req)
		if ok != tc.ok || token != tc.token {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
