package auth_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	authfeature "github.com/taskdeck/taskdeck/internal/app/features/auth"
	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	sysauth "github.com/taskdeck/taskdeck/internal/app/system/auth"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newHandler(t *testing.T) (*authfeature.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens, err := sysauth.NewTokenManager("0123456789abcdef0123456789abcdef", time.Hour, zap.NewNop())
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	h := authfeature.NewHandler(userstore.New(db), tokens,
		uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func post(path, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return httptest.NewRecorder(), req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRegisterCreatesUserAndIssuesToken(t *testing.T) {
	h, _ := newHandler(t)

	rec, req := post("/auth/register", `{"email":"New@Example.com","password":"secret1"}`)
	h.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["success"] != true || body["token"] == "" {
		t.Fatalf("body = %v", body)
	}
	user := body["user"].(map[string]any)
	if user["email"] != "new@example.com" || user["role"] != "user" {
		t.Fatalf("user = %v", user)
	}
	if _, ok := user["password"]; ok {
		t.Fatal("response must not include password")
	}
}

func TestRegisterWithExplicitRole(t *testing.T) {
	h, _ := newHandler(t)

	rec, req := post("/auth/register", `{"email":"boss@example.com","password":"secret1","role":"admin"}`)
	h.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Fatalf("role = %v", user["role"])
	}

	rec, req = post("/auth/register", `{"email":"x@example.com","password":"secret1","role":"superuser"}`)
	h.HandleRegister(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"password":"secret1"}`},
		{"bad email", `{"email":"nope","password":"secret1"}`},
		{"short password", `{"email":"a@example.com","password":"abc"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, req := post("/auth/register", tc.body)
			h.HandleRegister(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			body := decode(t, rec)
			if body["success"] != false || body["error"] == "" {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h, fix := newHandler(t)
	fix.CreateUser(req(t), "taken@example.com", "user")

	rec, r := post("/auth/register", `{"email":"taken@example.com","password":"secret1"}`)
	h.HandleRegister(rec, r)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	h, fix := newHandler(t)
	fix.CreateUser(req(t), "login@example.com", "user")

	rec, r := post("/auth/login", `{"email":"Login@Example.com","password":"password123"}`)
	h.HandleLogin(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["token"] == "" || body["success"] != true {
		t.Fatalf("body = %v", body)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	h, fix := newHandler(t)
	fix.CreateUser(req(t), "login@example.com", "user")

	recWrongPassword, r1 := post("/auth/login", `{"email":"login@example.com","password":"wrong-pass"}`)
	h.HandleLogin(recWrongPassword, r1)

	recUnknownEmail, r2 := post("/auth/login", `{"email":"ghost@example.com","password":"password123"}`)
	h.HandleLogin(recUnknownEmail, r2)

	if recWrongPassword.Code != http.StatusUnauthorized || recUnknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d / %d", recWrongPassword.Code, recUnknownEmail.Code)
	}
	if recWrongPassword.Body.String() != recUnknownEmail.Body.String() {
		t.Fatal("wrong password and unknown email must be indistinguishable")
	}
}

// req returns a background context for fixture calls.
func req(t *testing.T) context.Context {
	t.Helper()
	return context.Background()
}
