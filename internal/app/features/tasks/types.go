// internal/app/features/tasks/types.go
package tasks

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// createTaskInput defines validation rules for creating a task.
type createTaskInput struct {
	Title          string   `json:"title" validate:"required,max=100" label:"Title"`
	Description    string   `json:"description" validate:"required,max=1000" label:"Description"`
	Status         string   `json:"status" validate:"omitempty,oneof=pending in-progress completed" label:"Status"`
	Priority       string   `json:"priority" validate:"omitempty,oneof=low medium high" label:"Priority"`
	Category       string   `json:"category" validate:"max=50" label:"Category"`
	Tags           string   `json:"tags" label:"Tags"`
	DueDate        dueDate  `json:"dueDate" validate:"required" label:"Due date"`
	AssignedTo     []string `json:"assignedTo" label:"Assignees"`
	EstimatedHours float64  `json:"estimatedHours" validate:"gte=0" label:"Estimated hours"`
}

// updateTaskInput defines validation rules for updating a task. All fields
// are optional; absent fields are left unchanged.
type updateTaskInput struct {
	Title          *string  `json:"title" validate:"omitempty,max=100" label:"Title"`
	Description    *string  `json:"description" validate:"omitempty,max=1000" label:"Description"`
	Status         *string  `json:"status" validate:"omitempty,oneof=pending in-progress completed" label:"Status"`
	Priority       *string  `json:"priority" validate:"omitempty,oneof=low medium high" label:"Priority"`
	Category       *string  `json:"category" validate:"omitempty,max=50" label:"Category"`
	Tags           *string  `json:"tags" label:"Tags"`
	DueDate        *dueDate `json:"dueDate" label:"Due date"`
	AssignedTo     []string `json:"assignedTo" label:"Assignees"`
	EstimatedHours *float64 `json:"estimatedHours" validate:"omitempty,gte=0" label:"Estimated hours"`
	ActualHours    *float64 `json:"actualHours" validate:"omitempty,gte=0" label:"Actual hours"`
}

// dueDate unmarshals either an RFC 3339 timestamp or a bare YYYY-MM-DD day.
type dueDate struct {
	time.Time
}

func (d *dueDate) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = trimQuotes(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func trimQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// userRefOrNil looks up a hydrated user reference, returning nil for
// dangling IDs so deleted users render as null.
func userRefOrNil(refs map[primitive.ObjectID]taskstore.UserRef, id primitive.ObjectID) *taskstore.UserRef {
	if ref, ok := refs[id]; ok {
		return &ref
	}
	return nil
}

// commentBody is the client-facing comment shape with the author resolved.
type commentBody struct {
	ID        string             `json:"id"`
	User      *taskstore.UserRef `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}

// taskBody is the client-facing task shape with user IDs resolved to
// compact references.
type taskBody struct {
	ID             string              `json:"id"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Status         string              `json:"status"`
	Priority       string              `json:"priority"`
	Category       string              `json:"category"`
	Tags           []string            `json:"tags"`
	DueDate        time.Time           `json:"dueDate"`
	AssignedTo     []taskstore.UserRef `json:"assignedTo"`
	CreatedBy      *taskstore.UserRef  `json:"createdBy"`
	Documents      []models.Document   `json:"documents"`
	Comments       []commentBody       `json:"comments"`
	CompletedAt    *time.Time          `json:"completedAt,omitempty"`
	EstimatedHours float64             `json:"estimatedHours"`
	ActualHours    float64             `json:"actualHours"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

func toTaskBody(t *models.Task, refs map[primitive.ObjectID]taskstore.UserRef) taskBody {
	assignees := make([]taskstore.UserRef, 0, len(t.AssignedTo))
	for _, id := range t.AssignedTo {
		if ref, ok := refs[id]; ok {
			assignees = append(assignees, ref)
		}
	}
	comments := make([]commentBody, 0, len(t.Comments))
	for _, c := range t.Comments {
		comments = append(comments, commentBody{
			ID:        c.ID.Hex(),
			User:      userRefOrNil(refs, c.UserID),
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	docs := t.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return taskBody{
		ID:             t.ID.Hex(),
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		Category:       t.Category,
		Tags:           tags,
		DueDate:        t.DueDate,
		AssignedTo:     assignees,
		CreatedBy:      userRefOrNil(refs, t.CreatedBy),
		Documents:      docs,
		Comments:       comments,
		CompletedAt:    t.CompletedAt,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// hydrated resolves user references for a single task.
func (h *Handler) hydrated(ctx context.Context, t *models.Task) (taskBody, error) {
	refs, err := h.Hydrator.Resolve(ctx, []models.Task{*t})
	if err != nil {
		return taskBody{}, err
	}
	return toTaskBody(t, refs), nil
}
