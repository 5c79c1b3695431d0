// internal/app/features/tasks/documents.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	uierrors "github.com/taskdeck/taskdeck/internal/app/features/errors"
	"github.com/taskdeck/taskdeck/internal/app/policy/taskpolicy"
	taskstore "github.com/taskdeck/taskdeck/internal/app/store/tasks"
	"github.com/taskdeck/taskdeck/internal/app/system/authz"
	"github.com/taskdeck/taskdeck/internal/app/system/timeouts"
	"github.com/taskdeck/taskdeck/internal/domain/models"
)

// maxUploadBytes caps a single document upload.
const maxUploadBytes = 32 << 20

// HandleUploadDocument handles POST /tasks/{id}/documents (multipart form,
// field "file"). Only PDF attachments are accepted, and a task holds at
// most models.MaxDocuments of them.
func (h *Handler) HandleUploadDocument(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "upload document: load task failed", err, "Failed to upload document")
		return
	}
	if !taskpolicy.CanManage(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to modify this task")
		return
	}
	if len(task.Documents) >= models.MaxDocuments {
		uierrors.WriteValidation(w, "Validation failed", "Maximum 3 documents allowed per task.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload document: parse form failed", err, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "upload document: missing file field", err, "A PDF file is required")
		return
	}
	defer file.Close()

	if !isPDF(header.Header.Get("Content-Type")) {
		uierrors.WriteValidation(w, "Validation failed", "Only PDF documents are allowed.")
		return
	}

	path, err := h.Docs.Put(id.Hex(), header.Filename, file)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "upload document: store file failed", err, "Failed to upload document")
		return
	}

	doc := models.Document{
		ID:         primitive.NewObjectID(),
		Filename:   header.Filename,
		Path:       path,
		MimeType:   "application/pdf",
		Size:       header.Size,
		UploadedAt: time.Now(),
	}
	if err := h.Tasks.PushDocument(ctx, id, doc); err != nil {
		// The record never made it in; remove the orphaned file.
		if cleanupErr := h.Docs.Delete(path); cleanupErr != nil {
			h.Log.Warn("upload document: orphan cleanup failed",
				zap.String("path", path),
				zap.Error(cleanupErr))
		}
		switch {
		case errors.Is(err, taskstore.ErrTooManyDocuments):
			uierrors.WriteValidation(w, "Validation failed", "Maximum 3 documents allowed per task.")
		case errors.Is(err, mongo.ErrNoDocuments):
			uierrors.WriteNotFound(w, "Task not found")
		default:
			h.ErrLog.LogServerError(w, r, "upload document: push record failed", err, "Failed to upload document")
		}
		return
	}

	h.Log.Info("document uploaded",
		zap.String("task_id", id.Hex()),
		zap.String("document_id", doc.ID.Hex()),
		zap.Int64("size", doc.Size))
	uierrors.WriteSuccess(w, http.StatusCreated, uierrors.Payload{"document": doc})
}

// isPDF accepts the upload based on the declared content type alone; the
// filename is kept only for display.
func isPDF(contentType string) bool {
	return strings.HasPrefix(strings.ToLower(contentType), "application/pdf")
}

// HandleListDocuments handles GET /tasks/{id}/documents.
func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadViewableTask(w, r)
	if !ok {
		return
	}
	docs := task.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"documents": docs})
}

// HandleDownloadDocument handles GET /tasks/{id}/documents/{docID}.
func (h *Handler) HandleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadViewableTask(w, r)
	if !ok {
		return
	}
	doc, ok := findDocument(task, chi.URLParam(r, "docID"))
	if !ok {
		uierrors.WriteNotFound(w, "Document not found")
		return
	}

	full, err := h.Docs.FullPath(doc.Path)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "download document: bad stored path", err, "Failed to download document")
		return
	}
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
	http.ServeFile(w, r, full)
}

// HandleDeleteDocument handles DELETE /tasks/{id}/documents/{docID}.
func (h *Handler) HandleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return
	}
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete document: load task failed", err, "Failed to delete document")
		return
	}
	if !taskpolicy.CanManage(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to modify this task")
		return
	}

	doc, ok := findDocument(task, chi.URLParam(r, "docID"))
	if !ok {
		uierrors.WriteNotFound(w, "Document not found")
		return
	}

	// Unlink before pulling the record. A missing file is not an error.
	if err := h.Docs.Delete(doc.Path); err != nil {
		h.ErrLog.LogServerError(w, r, "delete document: unlink failed", err, "Failed to delete document")
		return
	}
	removed, err := h.Tasks.PullDocument(ctx, id, doc.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete document: pull record failed", err,
			"Document file was removed but its record could not be updated")
		return
	}
	if !removed {
		uierrors.WriteNotFound(w, "Document not found")
		return
	}

	h.Log.Info("document deleted",
		zap.String("task_id", id.Hex()),
		zap.String("document_id", doc.ID.Hex()))
	uierrors.WriteSuccess(w, http.StatusOK, uierrors.Payload{"message": "Document deleted"})
}

// loadViewableTask loads the {id} task and enforces view access, writing
// the error response itself when access fails.
func (h *Handler) loadViewableTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		uierrors.WriteUnauthorized(w)
		return nil, false
	}
	id, ok := taskID(w, r)
	if !ok {
		return nil, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	task, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.WriteNotFound(w, "Task not found")
			return nil, false
		}
		h.ErrLog.LogServerError(w, r, "load task failed", err, "Failed to fetch task")
		return nil, false
	}
	if !taskpolicy.CanView(role, userID, task) {
		uierrors.WriteForbidden(w, "Not authorized to view this task")
		return nil, false
	}
	return task, true
}

func findDocument(task *models.Task, docIDHex string) (models.Document, bool) {
	docID, err := primitive.ObjectIDFromHex(docIDHex)
	if err != nil {
		return models.Document{}, false
	}
	for _, d := range task.Documents {
		if d.ID == docID {
			return d, true
		}
	}
	return models.Document{}, false
}
