// internal/app/system/auth/auth.go

// Package auth resolves bearer credentials to users and carries the
// resolved identity through the request context.
//
// Every authentication failure (missing header, malformed token, bad
// signature, expired token, unknown subject) produces the same uniform 401
// body so callers cannot distinguish which check failed.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// NotAuthorizedMessage is the uniform body message for every 401.
const NotAuthorizedMessage = "Not authorized"

// TokenUser is the identity resolved from a bearer token and injected into
// r.Context(). It is fetched fresh from the database on every request so
// role changes and deletions take effect immediately.
type TokenUser struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin reports whether the resolved identity holds the admin role.
func (u *TokenUser) IsAdmin() bool {
	return strings.ToLower(u.Role) == "admin"
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*TokenUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*TokenUser)
	return u, ok
}

func withUser(r *http.Request, u *TokenUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing token
// verification. For handler tests only.
func WithTestUser(r *http.Request, u *TokenUser) *http.Request {
	return withUser(r, u)
}

// UserFetcher loads fresh user data for the token subject. Implementations
// return nil when the user does not exist (or on any lookup error), which
// surfaces as the uniform 401.
type UserFetcher interface {
	FetchUser(ctx context.Context, userID string) *TokenUser
}

// TokenManager issues and verifies HMAC-signed bearer tokens. It is passed
// to the handlers that need it; there is no package-level state.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

// NewTokenManager builds a TokenManager from the configured signing secret
// and token lifetime.
func NewTokenManager(secret string, ttl time.Duration, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %v", ttl)
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, log: logger}, nil
}

// Issue creates a signed token whose subject is the given user ID.
func (tm *TokenManager) Issue(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse verifies the token's signature and time claims and returns its
// subject. The error never reveals which check failed.
func (tm *TokenManager) Parse(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", errors.New("invalid claims")
	}
	return claims.Subject, nil
}

// LoadBearerUser returns middleware that resolves the Authorization header
// to a TokenUser in context. Requests without a valid credential continue
// unauthenticated; RequireSignedIn / RequireAdmin decide whether that is
// acceptable for a given route.
func (tm *TokenManager) LoadBearerUser(fetcher UserFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := bearerToken(r); ok {
				if userID, err := tm.Parse(token); err == nil {
					if u := fetcher.FetchUser(r.Context(), userID); u != nil {
						r = withUser(r, u)
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSignedIn ensures there is a user in context (set by
// LoadBearerUser). Unauthenticated requests get the uniform 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			writeError(w, http.StatusUnauthorized, NotAuthorizedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin ensures the context user holds the admin role. Signed-in
// non-admins get 403; unauthenticated requests get the uniform 401.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, NotAuthorizedMessage)
			return
		}
		if !u.IsAdmin() {
			writeError(w, http.StatusForbidden, "Not authorized as an admin")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(prefix):])
	return token, token != ""
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	})
}
