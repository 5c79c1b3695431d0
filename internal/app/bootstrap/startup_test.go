package bootstrap

import (
	"testing"

	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/domain/models"
	"github.com/taskdeck/taskdeck/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "Admin@Test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"email": "admin@test.com"}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if user.Password == "" {
		t.Error("expected a generated password hash")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateUser(ctx, "existing@test.com", models.RoleUser)

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "existing@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
	if !authutil.CheckPassword(user.Password, "password123") {
		t.Error("promotion should not change the existing password")
	}
}

func TestEnsureAdmin_AlreadyAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	existing := fx.CreateUser(ctx, "admin@test.com", models.RoleAdmin)

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "admin@test.com", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	var user models.User
	err := db.Collection("users").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&user)
	if err != nil {
		t.Fatalf("failed to find user: %v", err)
	}

	if user.Role != models.RoleAdmin {
		t.Errorf("expected role %q, got %q", models.RoleAdmin, user.Role)
	}
}
