package taskstore

import (
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/internal/domain/models"
)

func TestApplyLifecycleStampsCompletion(t *testing.T) {
	now := time.Now()
	task := &models.Task{Status: models.StatusCompleted}

	ApplyLifecycle(task, now)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(now) {
		t.Fatalf("CompletedAt = %v, want %v", task.CompletedAt, now)
	}
}

func TestApplyLifecycleKeepsExistingStamp(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	task := &models.Task{Status: models.StatusCompleted, CompletedAt: &earlier}

	ApplyLifecycle(task, time.Now())
	if task.CompletedAt == nil || !task.CompletedAt.Equal(earlier) {
		t.Fatalf("CompletedAt = %v, want original %v", task.CompletedAt, earlier)
	}
}

func TestApplyLifecycleClearsOnReopen(t *testing.T) {
	earlier := time.Now().Add(-time.Hour)
	for _, status := range []string{models.StatusPending, models.StatusInProgress} {
		task := &models.Task{Status: status, CompletedAt: &earlier}
		ApplyLifecycle(task, time.Now())
		if task.CompletedAt != nil {
			t.Fatalf("status %s: CompletedAt = %v, want nil", status, task.CompletedAt)
		}
	}
}
