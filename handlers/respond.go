package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"p9e.in/servicedesk/models"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the core error kinds onto HTTP statuses. Validation and
// conflict responses carry enough detail for the caller to correct input;
// anything unrecognized is a 500 and gets logged.
func respondError(w http.ResponseWriter, err error) {
	var vErr *models.ValidationError
	if errors.As(err, &vErr) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": vErr.Fields,
		})
		return
	}

	var nfErr *models.NotFoundError
	if errors.As(err, &nfErr) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"error": nfErr.Error()})
		return
	}

	var fErr *models.ForbiddenError
	if errors.As(err, &fErr) {
		writeJSON(w, http.StatusForbidden, map[string]interface{}{"error": fErr.Error()})
		return
	}

	var cErr *models.ConflictError
	if errors.As(err, &cErr) {
		writeJSON(w, http.StatusConflict, map[string]interface{}{"error": cErr.Error()})
		return
	}

	log.Printf("❌ internal error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "internal error"})
}

// isUniqueViolation spots postgres duplicate-key errors so they surface as
// ConflictError instead of a bare 500.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value violates unique constraint") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}
