// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/waffle/pantry/query"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/paging"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
)

// HandleList handles GET /tasks. Non-admins only see tasks they created or
// are assigned to; admins see everything.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}

	params := taskstore.ListParams{
		Status:    query.Get(r, "status"),
		Priority:  query.Get(r, "priority"),
		Category:  query.Get(r, "category"),
		Search:    query.Get(r, "search"),
		SortBy:    query.Get(r, "sortBy"),
		SortOrder: query.Get(r, "sortOrder"),
	}
	if raw := query.Get(r, "dueDate"); raw != "" {
		due, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			uierrors.WriteValidation(w, "Validation failed", "Due date must be YYYY-MM-DD.")
			return
		}
		params.DueDate = due
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	scope := taskpolicy.Visibility(role, userID)
	tasks, total, err := h.Tasks.List(ctx, scope, params, page.Skip(), int64(page.Limit))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list tasks failed", err, "Failed to fetch tasks")
		return
	}

	refs, err := h.Hydrator.Resolve(ctx, tasks)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "hydrate task users failed", err, "Failed to fetch tasks")
		return
	}

	bodies := make([]taskBody, 0, len(tasks))
	for i := range tasks {
		bodies = append(bodies, toTaskBody(&tasks[i], refs))
	}

	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{
		"tasks":       bodies,
		"count":       len(bodies),
		"total":       total,
		"totalPages":  page.TotalPages(total),
		"currentPage": page.Page,
	})
}
