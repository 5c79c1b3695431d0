// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task status values. Any status may transition to any other; the store's
// lifecycle pass derives CompletedAt from the current status.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priority values.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Field length caps enforced on ingress.
const (
	MaxTitleLen       = 100
	MaxDescriptionLen = 1000
	MaxCategoryLen    = 50
	MaxTagLen         = 30
	MaxCommentLen     = 500

	// MaxDocuments is the per-task attachment cap.
	MaxDocuments = 3
)

// Task is a unit of work. Comments and documents are embedded subdocuments:
// they have no life outside their task, and keeping them inline means the
// per-task document cap can be enforced with a single guarded update.
type Task struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Status      string             `bson:"status" json:"status"`     // pending | in-progress | completed
	Priority    string             `bson:"priority" json:"priority"` // low | medium | high
	Category    string             `bson:"category,omitempty" json:"category"`
	Tags        []string           `bson:"tags,omitempty" json:"tags"`
	DueDate     time.Time          `bson:"due_date" json:"dueDate"`

	// AssignedTo is never empty after create or update.
	AssignedTo []primitive.ObjectID `bson:"assigned_to" json:"assignedTo"`
	CreatedBy  primitive.ObjectID   `bson:"created_by" json:"createdBy"`

	Documents []Document `bson:"documents" json:"documents"`
	Comments  []Comment  `bson:"comments" json:"comments"`

	// CompletedAt is set exactly when Status == completed. It is derived,
	// never accepted from clients.
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completedAt,omitempty"`

	EstimatedHours float64 `bson:"estimated_hours,omitempty" json:"estimatedHours"`
	ActualHours    float64 `bson:"actual_hours,omitempty" json:"actualHours"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Document is a file attached to a task. Only the path and metadata live in
// the database; the bytes are written to the document store on disk.
type Document struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename   string             `bson:"filename" json:"filename"`
	Path       string             `bson:"path" json:"path"`
	MimeType   string             `bson:"mimetype" json:"mimetype"`
	Size       int64              `bson:"size" json:"size"`
	UploadedAt time.Time          `bson:"uploaded_at" json:"uploadedAt"`
}

// Comment is an append-only note on a task.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"userId"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// IsAssignee reports whether userID is in the task's assignee set.
func (t *Task) IsAssignee(userID primitive.ObjectID) bool {
	for _, id := range t.AssignedTo {
		if id == userID {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is one of the allowed status values.
func ValidStatus(s string) bool {
	return s == StatusPending || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is one of the allowed priority values.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
