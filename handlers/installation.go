package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fleettrack/models"
)

// GetInstallationHistory returns the installation sequence, filterable by
// vehicle_id and/or tracker_id, with the vehicle and tracker summarized
// inline.
func GetInstallationHistory(w http.ResponseWriter, r *http.Request) {
	var vehicleID, trackerID *uuid.UUID
	if v := r.URL.Query().Get("vehicle_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid vehicle_id", http.StatusBadRequest)
			return
		}
		vehicleID = &id
	}
	if v := r.URL.Query().Get("tracker_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid tracker_id", http.StatusBadRequest)
			return
		}
		trackerID = &id
	}

	installs, err := Store.History(vehicleID, trackerID)
	if err != nil {
		respondError(w, err)
		return
	}

	data := make([]map[string]any, 0, len(installs))
	for _, inst := range installs {
		row := map[string]any{
			"id":                inst.ID,
			"installation_date": inst.InstallationDate,
			"removal_date":      inst.RemovalDate,
			"is_active":         inst.IsActive,
			"comment":           inst.Comment,
		}
		if inst.Vehicle != nil {
			row["vehicle"] = map[string]any{
				"id":                  inst.Vehicle.ID,
				"registration_number": inst.Vehicle.RegistrationNumber,
				"board_number":        inst.Vehicle.BoardNumber,
				"make":                inst.Vehicle.Make,
			}
		}
		if inst.Tracker != nil {
			row["tracker"] = map[string]any{
				"id":            inst.Tracker.ID,
				"serial_number": inst.Tracker.SerialNumber,
				"imei":          inst.Tracker.IMEI,
				"model":         inst.Tracker.Model,
			}
		}
		data = append(data, row)
	}
	respondJSON(w, http.StatusOK, data)
}

func CreateInstallation(w http.ResponseWriter, r *http.Request) {
	var item models.Installation
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := Store.CreateInstallation(r.Context(), &item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

func GetInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetInstallation(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func UpdateInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	item, err := Store.GetInstallation(id)
	if err != nil {
		respondError(w, err)
		return
	}
	item.Vehicle = nil
	item.Tracker = nil
	item.OrderDocument = nil
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	item.ID = id

	if err := Store.UpdateInstallation(r.Context(), item); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func DeleteInstallation(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := Store.DeleteInstallation(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "installation deleted"})
}
