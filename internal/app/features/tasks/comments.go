// internal/app/features/tasks/comments.go
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/htmlsanitize"
	"github.com/taskdeck/taskdeck/internal/app/system/inputval"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
)

type commentInput struct {
	Text string `json:"text" validate:"required,max=500" label:"Comment"`
}

// HandleAddComment handles POST /tasks/{id}/comments. Anyone who can view
// the task can comment.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	role, email, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "add comment: load task failed", err, "Failed to add comment")
		return
	}
	if !taskpolicy.CanComment(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to comment on this task")
		return
	}

	var in commentInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "add comment: decode body failed", err, "Invalid request body")
		return
	}
	in.Text = htmlsanitize.StripTags(in.Text)
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	comment, err := h.Tasks.AddComment(ctx, id, userID, in.Text)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "add comment failed", err, "Failed to add comment")
		return
	}

	h.Log.Info("comment added",
		zap.String("task_id", id.Hex()),
		zap.String("user_id", userID.Hex()))
	uierrors.WriteSuccess(w, http.StatusCreated, uierrors.Payload{
		"comment": commentBody{
			ID:        comment.ID.Hex(),
			User:      &taskstore.UserRef{ID: userID.Hex(), Email: email, Role: role},
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		},
	})
}

// HandleListComments handles GET /tasks/{id}/comments.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "list comments: load task failed", err, "Failed to fetch comments")
		return
	}
	if !taskpolicy.CanView(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to view this task")
		return
	}

	body, err := h.hydrated(ctx, task)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list comments: hydrate failed", err, "Failed to fetch comments")
		return
	}
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"comments": body.Comments})
}
