// internal/app/features/tasks/detail.go
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

// HandleGet handles GET /tasks/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
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
		h.ErrLog.LogServerError(w, r, "get task failed", err, "Failed to fetch task")
		return
	}
	if !taskpolicy.CanView(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to view this task")
		return
	}

	body, err := h.hydrated(ctx, task)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get task: hydrate failed", err, "Failed to fetch task")
		return
	}
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"task": body})
}

// HandleUpdate handles PUT /tasks/{id}. Only admins and the creator may
// update; assignees get read access only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
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
		h.ErrLog.LogServerError(w, r, "update task: load failed", err, "Failed to update task")
		return
	}
	if !taskpolicy.CanManage(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to update this task")
		return
	}

	var in updateTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update task: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	upd := taskstore.Update{
		Status:         in.Status,
		Priority:       in.Priority,
		EstimatedHours: in.EstimatedHours,
		ActualHours:    in.ActualHours,
	}
	if in.Title != nil {
		title := htmlsanitize.StripTags(*in.Title)
		if title == "" {
			uierrors.WriteValidation(w, "Validation failed", "Title is required.")
			return
		}
		upd.Title = &title
	}
	if in.Description != nil {
		desc := htmlsanitize.StripTags(*in.Description)
		if desc == "" {
			uierrors.WriteValidation(w, "Validation failed", "Description is required.")
			return
		}
		upd.Description = &desc
	}
	if in.Category != nil {
		category := htmlsanitize.StripTags(*in.Category)
		upd.Category = &category
	}
	if in.Tags != nil {
		upd.Tags = sanitizeTags(*in.Tags)
	}
	if in.DueDate != nil {
		due := in.DueDate.Time
		upd.DueDate = &due
	}
	if in.AssignedTo != nil {
		assignees, errMsg, err := h.resolveAssignees(ctx, in.AssignedTo)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "update task: resolve assignees failed", err, "Failed to update task")
			return
		}
		if errMsg != "" {
			uierrors.WriteValidation(w, "Validation failed", errMsg)
			return
		}
		upd.AssignedTo = assignees
	}

	updated, err := h.Tasks.Update(ctx, id, upd)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "update task failed", err, "Failed to update task")
		return
	}

	body, err := h.hydrated(ctx, updated)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update task: hydrate failed", err, "Failed to update task")
		return
	}

	h.Log.Info("task updated",
		zap.String("task_id", id.Hex()),
		zap.String("updated_by", userID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"task": body})
}

// HandleDelete handles DELETE /tasks/{id}. Deleting a task also removes its
// stored documents; file cleanup failures are logged but do not fail the
// request, since the task record is already gone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
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
		h.ErrLog.LogServerError(w, r, "delete task: load failed", err, "Failed to delete task")
		return
	}
	if !taskpolicy.CanManage(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to delete this task")
		return
	}

	if _, err := h.Tasks.Delete(ctx, id); err != nil {
		h.ErrLog.LogServerError(w, r, "delete task failed", err, "Failed to delete task")
		return
	}
	if err := h.Docs.DeleteTask(id.Hex()); err != nil {
		h.Log.Warn("delete task: document cleanup failed",
			zap.String("task_id", id.Hex()),
			zap.Error(err))
	}

	h.Log.Info("task deleted",
		zap.String("task_id", id.Hex()),
		zap.String("deleted_by", userID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"message": "Task deleted"})
}
