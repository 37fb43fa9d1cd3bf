package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/garnizeh/jobhunt/internal/apperr"
	"go.uber.org/zap"
)

const invalidFormatMessage = "Invalid file format. Only PDF, DOC, DOCX are allowed."

type detailResponse struct {
	Detail string              `json:"detail"`
	Errors []apperr.FieldError `json:"errors,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response", zap.Error(err))
	}
}

// writeError maps err onto a status code and body. Unclassified errors are
// logged and hidden behind a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	var derr *apperr.DataProcessingError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "Validation failed", Errors: verr.Fields})
	case errors.As(err, &derr):
		logger.Error("data processing failed", zap.String("path", r.URL.Path), zap.Error(derr.Err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":    "Data processing failed",
			"details":  derr.Err.Error(),
			"solution": derr.Hint,
		})
	case errors.Is(err, apperr.ErrUnauthorized):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, detailResponse{Detail: "Could not validate credentials"})
	case errors.Is(err, apperr.ErrConflict):
		writeJSON(w, http.StatusBadRequest, detailResponse{Detail: "Already exists"})
	case errors.Is(err, apperr.ErrInvalidFormat):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": invalidFormatMessage})
	case errors.Is(err, apperr.ErrNoData):
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "No data available"})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, http.StatusNotFound, detailResponse{Detail: "Not found"})
	default:
		logger.Error("request failed", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, detailResponse{Detail: "Internal server error"})
	}
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}
