// Package taskpolicy provides authorization policies for task access.
//
// Authorization rules:
//   - Admins can view and manage every task
//   - Creators can view and manage their own tasks
//   - Assignees can view tasks assigned to them but not manage them
//   - Everyone else has no access
package taskpolicy

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// VisibilityScope describes which tasks a user may list or read.
type VisibilityScope struct {
	// All indicates the user can see every task (admins).
	All bool
	// UserID restricts visibility to tasks the user created or is assigned
	// to when All is false.
	UserID primitive.ObjectID
}

// Visibility returns the task scope for a user role and ID.
func Visibility(role string, userID primitive.ObjectID) VisibilityScope {
	if role == models.RoleAdmin {
		return VisibilityScope{All: true}
	}
	return VisibilityScope{UserID: userID}
}

// CanView reports whether the user may read the task, its comments, and its
// documents. Assignment is a set: membership anywhere in assigned_to grants
// access.
func CanView(role string, userID primitive.ObjectID, t *models.Task) bool {
	if role == models.RoleAdmin {
		return true
	}
	if t.CreatedBy == userID {
		return true
	}
	return t.IsAssignee(userID)
}

// CanManage reports whether the user may update or delete the task, upload
// or remove its documents, or change its assignment. Assignees may not.
func CanManage(role string, userID primitive.ObjectID, t *models.Task) bool {
	if role == models.RoleAdmin {
		return true
	}
	return t.CreatedBy == userID
}

// CanComment reports whether the user may add a comment. Anyone who can
// view the task can comment on it.
func CanComment(role string, userID primitive.ObjectID, t *models.Task) bool {
	return CanView(role, userID, t)
}
