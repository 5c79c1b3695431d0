package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/domain/models"
	"github.com/taskdeck/taskdeck/internal/testutil"
)

func newHandler(t *testing.T) (*Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := NewHandler(db, uierrors.NewErrorLogger(zap.NewNop()), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, rec.Body.String())
	}
	return body
}

func TestHandleListAdminOnly(t *testing.T) {
	h, fix := newHandler(t)
	ctx := context.Background()
	fix.CreateUser(ctx, "a@test.com", models.RoleUser)
	fix.CreateUser(ctx, "b@test.com", models.RoleUser)

	rec := httptest.NewRecorder()
	h.HandleList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/users", testutil.AdminUser()))
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list: status = %d", rec.Code)
	}
	users := decode(t, rec)["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("users = %d, want 2", len(users))
	}
	for _, raw := range users {
		if _, ok := raw.(map[string]any)["password"]; ok {
			t.Fatal("list must not include password hashes")
		}
	}

	rec = httptest.NewRecorder()
	h.HandleList(rec, testutil.NewAuthenticatedRequest(http.MethodGet, "/users", testutil.RegularUser()))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("user list: status = %d", rec.Code)
	}
}

func TestHandleCreateAdminOnly(t *testing.T) {
	h, _ := newHandler(t)

	body := `{"email":"new@test.com","password":"secret1","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req = testutil.WithUser(req, testutil.AdminUser())
	rec := httptest.NewRecorder()
	h.HandleCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	user := decode(t, rec)["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Fatalf("user = %v", user)
	}

	req = httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	req = testutil.WithUser(req, testutil.RegularUser())
	rec = httptest.NewRecorder()
	h.HandleCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin create: status = %d", rec.Code)
	}
}

func TestHandleGetSelfOrAdmin(t *testing.T) {
	h, fix := newHandler(t)
	ctx := context.Background()
	alice := fix.CreateUser(ctx, "alice@test.com", models.RoleUser)
	bob := fix.CreateUser(ctx, "bob@test.com", models.RoleUser)

	get := func(caller testutil.TestUser, target primitive.ObjectID) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := testutil.NewAuthenticatedRequest(http.MethodGet, "/users/"+target.Hex(), caller)
		req = testutil.WithChiURLParam(req, "id", target.Hex())
		h.HandleGet(rec, req)
		return rec
	}

	if rec := get(testutil.UserWithID(alice.ID), alice.ID); rec.Code != http.StatusOK {
		t.Fatalf("self get: status = %d", rec.Code)
	}
	if rec := get(testutil.UserWithID(alice.ID), bob.ID); rec.Code != http.StatusForbidden {
		t.Fatalf("other get: status = %d", rec.Code)
	}
	if rec := get(testutil.AdminUser(), bob.ID); rec.Code != http.StatusOK {
		t.Fatalf("admin get: status = %d", rec.Code)
	}
	if rec := get(testutil.AdminUser(), primitive.NewObjectID()); rec.Code != http.StatusNotFound {
		t.Fatalf("missing get: status = %d", rec.Code)
	}
}

func TestHandleUpdateRoleChangeIsAdminOnly(t *testing.T) {
	h, fix := newHandler(t)
	ctx := context.Background()
	alice := fix.CreateUser(ctx, "alice@test.com", models.RoleUser)

	update := func(caller testutil.TestUser, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/users/"+alice.ID.Hex(), strings.NewReader(body))
		req = testutil.WithUser(req, caller)
		req = testutil.WithChiURLParam(req, "id", alice.ID.Hex())
		h.HandleUpdate(rec, req)
		return rec
	}

	// self email update is fine
	rec := update(testutil.UserWithID(alice.ID), `{"email":"renamed@test.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("self update: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := decode(t, rec)["user"].(map[string]any)["email"]; got != "renamed@test.com" {
		t.Fatalf("email = %v", got)
	}

	// self promotion is not
	if rec := update(testutil.UserWithID(alice.ID), `{"role":"admin"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("self promotion: status = %d", rec.Code)
	}

	// admin promotion is
	rec = update(testutil.AdminUser(), `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin promotion: status = %d", rec.Code)
	}
	if got := decode(t, rec)["user"].(map[string]any)["role"]; got != "admin" {
		t.Fatalf("role = %v", got)
	}
}

func TestHandleDelete(t *testing.T) {
	h, fix := newHandler(t)
	ctx := context.Background()
	alice := fix.CreateUser(ctx, "alice@test.com", models.RoleUser)
	admin := fix.CreateUser(ctx, "admin@test.com", models.RoleAdmin)
	adminCaller := testutil.TestUser{ID: admin.ID.Hex(), Email: admin.Email, Role: models.RoleAdmin}

	del := func(caller testutil.TestUser, target primitive.ObjectID) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := testutil.NewAuthenticatedRequest(http.MethodDelete, "/users/"+target.Hex(), caller)
		req = testutil.WithChiURLParam(req, "id", target.Hex())
		h.HandleDelete(rec, req)
		return rec
	}

	if rec := del(testutil.UserWithID(alice.ID), alice.ID); rec.Code != http.StatusForbidden {
		t.Fatalf("non-admin delete: status = %d", rec.Code)
	}
	if rec := del(adminCaller, admin.ID); rec.Code != http.StatusBadRequest {
		t.Fatalf("self delete: status = %d", rec.Code)
	}
	if rec := del(adminCaller, alice.ID); rec.Code != http.StatusOK {
		t.Fatalf("admin delete: status = %d", rec.Code)
	}
	if rec := del(adminCaller, alice.ID); rec.Code != http.StatusNotFound {
		t.Fatalf("repeat delete: status = %d", rec.Code)
	}
}
