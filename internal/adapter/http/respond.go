package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/YelzhanWeb/pos/internal/adapter/logger"
	"github.com/YelzhanWeb/pos/internal/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, message string, statusCode int, validationErrors []ValidationError) {
	writeJSON(w, statusCode, ErrorResponse{
		Error:  message,
		Errors: validationErrors,
	})
}

// respondServiceError maps domain sentinels to status codes and logs server faults.
func respondServiceError(w http.ResponseWriter, r *http.Request, log logger.Logger, action string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, err.Error(), http.StatusNotFound, nil)
	case errors.Is(err, domain.ErrValidation):
		respondError(w, err.Error(), http.StatusBadRequest, nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		respondError(w, err.Error(), http.StatusConflict, nil)
	default:
		log.Error(action, "Request failed", logger.RequestID(r.Context()), map[string]interface{}{
			"method": r.Method,
			"path":   r.URL.Path,
		}, err)
		respondError(w, "Internal server error", http.StatusInternalServerError, nil)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func pathID(r *http.Request, name string) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
