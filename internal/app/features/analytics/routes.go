// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/go-chi/chi/v5"

	"github.com/taskdeck/taskdeck/internal/app/system/auth"
)

// Routes mounts the analytics endpoint, typically under "/analytics".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.HandleSummary)
	return r
}
