package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fleettrack/models"
)

func GetAllLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := Store.ListLocations()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, locations)
}

func CreateLocation(w http.ResponseWriter, r *http.Request) {
	var item models.Location
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := Store.CreateLocation(r.Context(), &item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetLocation(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetLocation(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item.ID = id

	if err := Store.UpdateLocation(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// DeleteLocation removes the location; its vehicles are detached, not
// deleted.
func DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := Store.DeleteLocation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "location deleted"})
}
