// internal/app/features/tasks/handler.go

// Package tasks implements the task CRUD endpoints plus the embedded
// comment and document operations.
package tasks

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	userstore "github.com/taskdeck/taskdeck/internal/app/store/users"
	"github.com/taskdeck/taskdeck/internal/app/system/docstore"
)

// Handler owns all task handlers (list, create, detail, update, delete,
// comments, documents).
//
// It is constructed once at startup in bootstrap, using the shared Mongo
// database handle, document store, and logger.
type Handler struct {
	Tasks    *taskstore.Store
	Users    *userstore.Store
	Hydrator *taskstore.Hydrator
	Docs     *docstore.Store
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler constructs a task Handler bound to the given database, document
// store, and logger.
func NewHandler(db *mongo.Database, docs *docstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Tasks:    taskstore.New(db),
		Users:    userstore.New(db),
		Hydrator: taskstore.NewHydrator(db),
		Docs:     docs,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// taskID parses the {id} route parameter. A malformed ID behaves like a
// missing task.
func taskID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.WriteNotFound(w, "Task not found")
		return primitive.NilObjectID, false
	}
	return id, true
}
