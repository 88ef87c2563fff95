package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fleettrack/models"
)

func GetAllVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := Store.ListVehicles()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, vehicles)
}

func CreateVehicle(w http.ResponseWriter, r *http.Request) {
	var item models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := Store.CreateVehicle(r.Context(), &item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetVehicle(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetVehicle(id)
	if err != nil {
		respondError(w, err)
		return
	}
	item.Location = nil
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	// id cannot be changed through the body
	item.ID = id

	if err := Store.UpdateVehicle(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := Store.DeleteVehicle(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "vehicle deleted"})
}
