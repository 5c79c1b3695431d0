package taskstore

import (
	"time"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// ApplyLifecycle derives CompletedAt from the task's status before a write.
// Entering completed stamps the time; an already-completed task keeps its
// original stamp; leaving completed clears it.
func ApplyLifecycle(t *models.Task, now time.Time) {
	if t.Status == models.StatusCompleted {
		if t.CompletedAt == nil {
			stamp := now
			t.CompletedAt = &stamp
		}
		return
	}
	t.CompletedAt = nil
}
