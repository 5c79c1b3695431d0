package taskstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

var (
	// ErrTooManyDocuments is returned when a task already holds the maximum
	// number of attachments.
	ErrTooManyDocuments = errors.New("task already has the maximum number of documents")
	errBadStatus        = errors.New(`status must be "pending"|"in-progress"|"completed"`)
	errBadPriority      = errors.New(`priority must be "low"|"medium"|"high"`)
)

// Create inserts a new task after validating enums and deriving the
// completion stamp.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	if t.Status == "" {
		t.Status = models.StatusPending
	}
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	if !models.ValidStatus(t.Status) {
		return models.Task{}, errBadStatus
	}
	if !models.ValidPriority(t.Priority) {
		return models.Task{}, errBadPriority
	}
	if t.Tags == nil {
		t.Tags = []string{}
	}
	t.Documents = []models.Document{}
	t.Comments = []models.Comment{}

	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	ApplyLifecycle(&t, now)

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID loads a task by ObjectID. Returns mongo.ErrNoDocuments if absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var t models.Task
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Update holds the mutable task fields. Nil pointers are left unchanged.
type Update struct {
	Title          *string
	Description    *string
	Status         *string
	Priority       *string
	Category       *string
	Tags           []string
	DueDate        *time.Time
	AssignedTo     []primitive.ObjectID
	EstimatedHours *float64
	ActualHours    *float64
}

// Update applies the non-nil fields, re-derives the completion stamp, and
// returns the updated task. Returns mongo.ErrNoDocuments if absent.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (*models.Task, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Status != nil {
		if !models.ValidStatus(*upd.Status) {
			return nil, errBadStatus
		}
		set["status"] = *upd.Status

		next := *current
		next.Status = *upd.Status
		ApplyLifecycle(&next, time.Now())
		if next.CompletedAt != nil {
			set["completed_at"] = *next.CompletedAt
		} else {
			set["completed_at"] = nil
		}
	}
	if upd.Priority != nil {
		if !models.ValidPriority(*upd.Priority) {
			return nil, errBadPriority
		}
		set["priority"] = *upd.Priority
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Tags != nil {
		set["tags"] = upd.Tags
	}
	if upd.DueDate != nil {
		set["due_date"] = *upd.DueDate
	}
	if upd.AssignedTo != nil {
		set["assigned_to"] = upd.AssignedTo
	}
	if upd.EstimatedHours != nil {
		set["estimated_hours"] = *upd.EstimatedHours
	}
	if upd.ActualHours != nil {
		set["actual_hours"] = *upd.ActualHours
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var t models.Task
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Delete removes a task by ID and returns how many documents were deleted
// (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// List returns a page of tasks matching the scope and filters, plus the
// total match count for pagination.
func (s *Store) List(ctx context.Context, scope taskpolicy.VisibilityScope, p ListParams, skip, limit int64) ([]models.Task, int64, error) {
	filter := BuildFilter(scope, p)

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(BuildSort(p)).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	tasks := []models.Task{}
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// AddComment appends a comment to the task and returns it.
func (s *Store) AddComment(ctx context.Context, taskID, userID primitive.ObjectID, text string) (*models.Comment, error) {
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": comment.CreatedAt},
	})
	if err != nil {
		return nil, err
	}
	if res.MatchedCount == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return &comment, nil
}

// PushDocument appends a document record if the task is still under the
// attachment cap. The `documents.N` existence guard makes the cap check and
// the push one atomic operation, so concurrent uploads cannot exceed it.
func (s *Store) PushDocument(ctx context.Context, taskID primitive.ObjectID, doc models.Document) error {
	capGuard := fmt.Sprintf("documents.%d", models.MaxDocuments-1)
	res, err := s.c.UpdateOne(ctx,
		bson.M{
			"_id":    taskID,
			capGuard: bson.M{"$exists": false},
		},
		bson.M{
			"$push": bson.M{"documents": doc},
			"$set":  bson.M{"updated_at": time.Now()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the task is gone or the cap is reached; distinguish for the
		// caller.
		n, err := s.c.CountDocuments(ctx, bson.M{"_id": taskID})
		if err != nil {
			return err
		}
		if n == 0 {
			return mongo.ErrNoDocuments
		}
		return ErrTooManyDocuments
	}
	return nil
}

// PullDocument removes a document record by its embedded ID and returns
// whether anything was removed.
func (s *Store) PullDocument(ctx context.Context, taskID, docID primitive.ObjectID) (bool, error) {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": taskID}, bson.M{
		"$pull": bson.M{"documents": bson.M{"_id": docID}},
		"$set":  bson.M{"updated_at": time.Now()},
	})
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}
