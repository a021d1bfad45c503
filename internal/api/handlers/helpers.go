package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"route-planner/internal/platform/apperr"
	"route-planner/internal/platform/logger"
)

func writeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithContext(r.Context()).Error("encode failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("err", err.Error()),
		)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, status int, msg string) {
	writeJSON(w, r, log, status, map[string]string{"error": msg})
}

// writeAppError maps a service error to its status code. Errors without a
// kind are logged and reported as 500 with a generic message.
func writeAppError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		writeError(w, r, log, ae.HTTPStatus(), ae.Message)
		return
	}

	log.WithContext(r.Context()).Error("handler failed",
		slog.String("path", r.URL.Path),
		slog.String("err", err.Error()),
	)
	writeError(w, r, log, http.StatusInternalServerError, "internal error")
}

// decodeJSON reads exactly one JSON object into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, log *logger.Logger, dst any) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(w, r, log, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, log, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}
	return true
}
