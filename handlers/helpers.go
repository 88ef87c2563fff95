package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"p9e.in/fleettrack/models"
	"p9e.in/fleettrack/store"
)

// Store is the shared entity store, wired by main at startup.
var Store *store.Store

// Init wires the handlers to the entity store.
func Init(s *store.Store) {
	Store = s
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError maps the store's typed errors onto HTTP status codes.
func respondError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
