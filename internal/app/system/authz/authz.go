// internal/app/system/authz/authz.go

// Package authz provides small helpers for reading the authenticated
// identity in the form the stores and policies want (role string plus
// Mongo ObjectID).
package authz

import (
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/app/system/auth"
)

// UserCtx returns the context user's role, email, and ObjectID. ok is false
// when there is no authenticated user or the stored ID is not a valid
// ObjectID hex.
func UserCtx(r *http.Request) (role, email string, oid primitive.ObjectID, ok bool) {
	u, found := auth.CurrentUser(r)
	if !found {
		return "", "", primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(u.ID)
	if err != nil {
		return "", "", primitive.NilObjectID, false
	}
	return u.Role, u.Email, oid, true
}

// IsAdmin reports whether the request carries an admin identity.
func IsAdmin(r *http.Request) bool {
	u, found := auth.CurrentUser(r)
	return found && u.IsAdmin()
}
