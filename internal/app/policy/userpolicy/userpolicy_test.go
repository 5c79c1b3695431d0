package userpolicy

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

func TestAdminOnlyPolicies(t *testing.T) {
	for _, fn := range []struct {
		name  string
		check func(string) bool
	}{
		{"CanList", CanList},
		{"CanCreate", CanCreate},
		{"CanSetRole", CanSetRole},
		{"CanDelete", CanDelete},
	} {
		t.Run(fn.name, func(t *testing.T) {
			if !fn.check(models.RoleAdmin) {
				t.Fatalf("%s should allow admin", fn.name)
			}
			if fn.check(models.RoleUser) {
				t.Fatalf("%s should deny user", fn.name)
			}
		})
	}
}

func TestCanViewAndUpdateSelfOrAdmin(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()

	if !CanView(models.RoleUser, self, self) {
		t.Fatal("user should view own profile")
	}
	if CanView(models.RoleUser, self, other) {
		t.Fatal("user should not view another profile")
	}
	if !CanView(models.RoleAdmin, self, other) {
		t.Fatal("admin should view any profile")
	}

	if !CanUpdate(models.RoleUser, self, self) {
		t.Fatal("user should update own profile")
	}
	if CanUpdate(models.RoleUser, self, other) {
		t.Fatal("user should not update another profile")
	}
	if !CanUpdate(models.RoleAdmin, self, other) {
		t.Fatal("admin should update any profile")
	}
}
