// Package userpolicy provides authorization policies for user management.
//
// Authorization rules:
//   - Admins can list, create, read, update, and delete any user
//   - Users can read and update their own profile, but not their role
//   - Everything else is denied
package userpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// CanList reports whether the user may list all accounts.
func CanList(role string) bool {
	return role == models.RoleAdmin
}

// CanCreate reports whether the user may create accounts through the admin
// endpoint. (Self-service registration is a separate, unauthenticated path.)
func CanCreate(role string) bool {
	return role == models.RoleAdmin
}

// CanView reports whether the user may read the target account.
func CanView(role string, userID, targetID primitive.ObjectID) bool {
	return role == models.RoleAdmin || userID == targetID
}

// CanUpdate reports whether the user may modify the target account's
// profile fields.
func CanUpdate(role string, userID, targetID primitive.ObjectID) bool {
	return role == models.RoleAdmin || userID == targetID
}

// CanSetRole reports whether the user may change an account's role.
// Self-updates never qualify unless the caller is an admin.
func CanSetRole(role string) bool {
	return role == models.RoleAdmin
}

// CanDelete reports whether the user may delete the target account.
func CanDelete(role string) bool {
	return role == models.RoleAdmin
}
