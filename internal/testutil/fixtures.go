package testutil

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskdeck/taskdeck/internal/app/system/authutil"
	"github.com/taskdeck/taskdeck/internal/app/system/normalize"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given email and role. The stored
// password hash corresponds to "password123".
func (f *Fixtures) CreateUser(ctx context.Context, email, role string) models.User {
	f.t.Helper()

	hash, err := authutil.HashPassword("password123")
	if err != nil {
		f.t.Fatalf("failed to hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:        primitive.NewObjectID(),
		Email:     normalize.Email(email),
		Password:  hash,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// CreateTask creates a test task with sensible defaults. Mutate the
// returned value via opts before insertion.
func (f *Fixtures) CreateTask(ctx context.Context, createdBy primitive.ObjectID, opts ...func(*models.Task)) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       "Test Task",
		Description: "Test description",
		Status:      models.StatusPending,
		Priority:    models.PriorityMedium,
		DueDate:     now.Add(72 * time.Hour),
		AssignedTo:  []primitive.ObjectID{createdBy},
		CreatedBy:   createdBy,
		Tags:        []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(&task)
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// AssignedTo sets the task's assignee list.
func AssignedTo(ids ...primitive.ObjectID) func(*models.Task) {
	return func(t *models.Task) { t.AssignedTo = ids }
}

// WithStatus sets the task's status.
func WithStatus(status string) func(*models.Task) {
	return func(t *models.Task) { t.Status = status }
}

// WithPriority sets the task's priority.
func WithPriority(priority string) func(*models.Task) {
	return func(t *models.Task) { t.Priority = priority }
}

// WithCategory sets the task's category.
func WithCategory(category string) func(*models.Task) {
	return func(t *models.Task) { t.Category = category }
}

// WithTitle sets the task's title.
func WithTitle(title string) func(*models.Task) {
	return func(t *models.Task) { t.Title = title }
}

// WithDueDate sets the task's due date.
func WithDueDate(due time.Time) func(*models.Task) {
	return func(t *models.Task) { t.DueDate = due }
}
