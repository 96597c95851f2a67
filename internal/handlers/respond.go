package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/youtweet/backend/internal/logging"
	"github.com/youtweet/backend/internal/query"
	"github.com/youtweet/backend/internal/repositories"
)

// Envelope is the uniform wrapper around every handler result. Successful
// responses carry Data, failures carry Errors.
type Envelope struct {
	StatusCode int      `json:"statusCode"`
	Data       any      `json:"data,omitempty"`
	Message    string   `json:"message"`
	Errors     []string `json:"errors,omitempty"`
}

func respond(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	writeEnvelope(ctx, w, Envelope{StatusCode: status, Data: data, Message: message})
}

func respondError(ctx context.Context, w http.ResponseWriter, status int, message string, errs ...string) {
	writeEnvelope(ctx, w, Envelope{StatusCode: status, Message: message, Errors: errs})
}

// respondStoreError maps the repository error taxonomy onto HTTP statuses:
// invalid identifiers are client errors, missing rows are 404, duplicate
// unique fields are 409, anything else is internal.
func respondStoreError(ctx context.Context, w http.ResponseWriter, err error, message string) {
	switch {
	case errors.Is(err, query.ErrInvalidArgument):
		respondError(ctx, w, http.StatusBadRequest, message, err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		respondError(ctx, w, http.StatusNotFound, message)
	case errors.Is(err, repositories.ErrConflict):
		respondError(ctx, w, http.StatusConflict, message)
	default:
		logging.FromContext(ctx).Error(message, "error", err)
		respondError(ctx, w, http.StatusInternalServerError, message)
	}
}

func writeEnvelope(ctx context.Context, w http.ResponseWriter, envelope Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(envelope.StatusCode)

	if err := json.NewEncoder(w).Encode(envelope); err != nil {
		logging.FromContext(ctx).Error("encode response body", "status", envelope.StatusCode, "error", err)
		return
	}

	logger := logging.FromContext(ctx)
	switch {
	case envelope.StatusCode >= http.StatusInternalServerError:
		logger.Error("request failed", "status", envelope.StatusCode, "message", envelope.Message)
	case envelope.StatusCode >= http.StatusBadRequest:
		logger.Warn("request returned client error", "status", envelope.StatusCode, "message", envelope.Message)
	}
}
