package errors

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrorLogger logs handler failures and writes the matching API response.
// Internal faults get a reference id that appears in both the log line and
// the response body so a report can be matched to its log entry.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger wraps a zap logger for handler use.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// BadRequest logs at debug and answers 400 with userMsg.
func (e *ErrorLogger) BadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Debug(logMsg,
		zap.String("path", r.URL.Path),
		zap.Error(err))
	WriteJSON(w, http.StatusBadRequest, userMsg)
}

// Internal logs at error with a reference id and answers 500. The user
// message stays generic; details live in the log.
func (e *ErrorLogger) Internal(w http.ResponseWriter, r *http.Request, logMsg string, err error) {
	ref := uuid.New().String()[:8]
	e.log.Error(logMsg,
		zap.String("path", r.URL.Path),
		zap.String("ref", ref),
		zap.Error(err))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"internal error","ref":"` + ref + `"}`))
}
