// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/app/system/auth"
)

// Routes mounts all task routes under whatever base path the caller
// chooses (typically "/tasks" from bootstrap). Every route requires a
// signed-in user; per-task authorization happens in the handlers.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.HandleList)
	r.Post("/", h.HandleCreate)

	r.Get("/{id}", h.HandleGet)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)

	r.Get("/{id}/comments", h.HandleListComments)
	r.Post("/{id}/comments", h.HandleAddComment)

	r.Get("/{id}/documents", h.HandleListDocuments)
	r.Post("/{id}/documents", h.HandleUploadDocument)
	r.Get("/{id}/documents/{docID}", h.HandleDownloadDocument)
	r.Delete("/{id}/documents/{docID}", h.HandleDeleteDocument)

	return r
}
