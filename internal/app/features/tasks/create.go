// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/htmlsanitize"
	"github.com/taskdeck/taskdeck/internal/app/system/inputval"
	"github.com/taskdeck/taskdeck/internal/app/system/normalize"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// HandleCreate handles POST /tasks. Any signed-in user may create a task,
// and every task must name at least one assignee.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	var in createTaskInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create task: decode body failed", err, "Invalid request body")
		return
	}
	if result := inputval.Validate(in); result.HasErrors() {
		uierrors.WriteValidation(w, "Validation failed", result.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	assignees, errMsg, err := h.resolveAssignees(ctx, in.AssignedTo)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create task: resolve assignees failed", err, "Failed to create task")
		return
	}
	if errMsg != "" {
		uierrors.WriteValidation(w, "Validation failed", errMsg)
		return
	}

	task := models.Task{
		Title:          htmlsanitize.StripTags(in.Title),
		Description:    htmlsanitize.StripTags(in.Description),
		Status:         in.Status,
		Priority:       in.Priority,
		Category:       htmlsanitize.StripTags(in.Category),
		Tags:           sanitizeTags(in.Tags),
		DueDate:        in.DueDate.Time,
		AssignedTo:     assignees,
		CreatedBy:      userID,
		EstimatedHours: in.EstimatedHours,
	}
	if task.Title == "" {
		uierrors.WriteValidation(w, "Validation failed", "Title is required.")
		return
	}
	if task.Description == "" {
		uierrors.WriteValidation(w, "Validation failed", "Description is required.")
		return
	}

	created, err := h.Tasks.Create(ctx, task)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create task failed", err, "Failed to create task")
		return
	}

	body, err := h.hydrated(ctx, &created)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "create task: hydrate failed", err, "Failed to create task")
		return
	}

	h.Log.Info("task created",
		zap.String("task_id", created.ID.Hex()),
		zap.String("created_by", userID.Hex()))
	uierrors.WriteSuccess(w, http.StatusCreated, uierrors.Payload{"task": body})
}

// sanitizeTags splits the comma-separated tag list, strips markup, and
// drops entries that exceed the tag length cap.
func sanitizeTags(raw string) []string {
	tags := []string{}
	for _, tag := range normalize.Tags(raw) {
		tag = htmlsanitize.StripTags(tag)
		if tag == "" || len(tag) > models.MaxTagLen {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// resolveAssignees parses and verifies the assignee ID list. A task must
// always have at least one assignee, so an empty list is rejected. The
// string return is a client-facing validation message; it is empty when
// resolution succeeds.
func (h *Handler) resolveAssignees(ctx context.Context, raw []string) ([]primitive.ObjectID, string, error) {
	if len(raw) == 0 {
		return nil, "Please assign this task to at least one user.", nil
	}

	seen := map[primitive.ObjectID]struct{}{}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, hex := range raw {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return nil, "Assignees must be valid user IDs.", nil
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		exists, err := h.Users.Exists(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if !exists {
			return nil, "Assigned user not found.", nil
		}
		ids = append(ids, id)
	}
	return ids, "", nil
}
