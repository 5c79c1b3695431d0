// internal/app/features/errors/errors.go

// Package errors writes the API's error envelope and logs the server-side
// detail that clients must not see. Every error body has the shape
//
//	{ "success": false, "message": "...", "error": "..."? }
//
// where "error" carries extra detail only for validation failures.
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// NotAuthorizedMessage is the uniform body for every 401. Authentication
// failures are indistinguishable from one another on purpose.
const NotAuthorizedMessage = "Not authorized"

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func write(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Message: message, Error: detail})
}

// WriteUnauthorized writes the uniform 401 envelope.
func WriteUnauthorized(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, NotAuthorizedMessage, "")
}

// WriteInvalidCredentials writes the login-failure 401 envelope. Unknown
// emails and wrong passwords must produce identical responses.
func WriteInvalidCredentials(w http.ResponseWriter) {
	write(w, http.StatusUnauthorized, "Invalid credentials", "")
}

// WriteForbidden writes a 403 envelope.
func WriteForbidden(w http.ResponseWriter, message string) {
	write(w, http.StatusForbidden, message, "")
}

// WriteNotFound writes a 404 envelope.
func WriteNotFound(w http.ResponseWriter, message string) {
	write(w, http.StatusNotFound, message, "")
}

// WriteValidation writes a 400 envelope with the validation detail in the
// "error" field. Validation failures are client mistakes; they are not
// logged.
func WriteValidation(w http.ResponseWriter, message, detail string) {
	write(w, http.StatusBadRequest, message, detail)
}

// WriteExists writes a 400 envelope for duplicate-resource attempts.
func WriteExists(w http.ResponseWriter, message string) {
	write(w, http.StatusBadRequest, message, "")
}

// ErrorLogger pairs error responses with structured logging so handlers
// never leak internals to clients while operators still get the cause.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger on the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogServerError logs the internal failure and writes a 500 envelope with
// the client-safe message.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	write(w, http.StatusInternalServerError, userMsg, "")
}

// LogBadRequest logs a malformed request at warn level and writes a 400
// envelope.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	write(w, http.StatusBadRequest, userMsg, "")
}
