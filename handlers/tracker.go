package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fleettrack/models"
)

func GetAllTrackers(w http.ResponseWriter, r *http.Request) {
	trackers, err := Store.ListTrackers()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, trackers)
}

func CreateTracker(w http.ResponseWriter, r *http.Request) {
	var item models.Tracker
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := Store.CreateTracker(r.Context(), &item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func GetTracker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetTracker(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func UpdateTracker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetTracker(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item.ID = id

	if err := Store.UpdateTracker(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func DeleteTracker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := Store.DeleteTracker(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "tracker deleted"})
}

type assignRequest struct {
	// VehicleID null or absent clears the tracker's current assignment.
	VehicleID *uuid.UUID `json:"vehicle_id"`
}

// AssignTracker drives the tracker assignment workflow: point the tracker
// at a vehicle or clear its current assignment.
func AssignTracker(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req assignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	inst, err := Store.AssignTracker(r.Context(), id, req.VehicleID)
	if err != nil {
		respondError(w, err)
		return
	}
	if inst == nil {
		respondJSON(w, http.StatusOK, map[string]any{"installation": nil})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"installation": inst})
}

// GetTrackerAssignment reports where the tracker is currently mounted.
func GetTrackerAssignment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	if _, err := Store.GetTracker(id); err != nil {
		respondError(w, err)
		return
	}

	inst, err := Store.ActiveInstallation(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"installation": inst})
}
