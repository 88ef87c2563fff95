package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"p9e.in/fleettrack/models"
)

const uploadDir = "./uploads" // Local directory for file storage

// Scanned orders are uploaded as PDFs or photos.
var allowedScanExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

func GetAllOrderDocuments(w http.ResponseWriter, r *http.Request) {
	var vehicleID *uuid.UUID
	if v := r.URL.Query().Get("vehicle_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			http.Error(w, "invalid vehicle_id", http.StatusBadRequest)
			return
		}
		vehicleID = &id
	}

	docs, err := Store.ListOrderDocuments(vehicleID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// UploadOrderDocument accepts a multipart form with the scanned order file
// and its metadata, stores the file under uploads/orders/vehicle_<id>/ and
// creates the document record.
func UploadOrderDocument(w http.ResponseWriter, r *http.Request) {
	// Parse the multipart form (max 50MB)
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}

	vehicleID, err := uuid.Parse(r.FormValue("vehicle_id"))
	if err != nil {
		http.Error(w, "invalid vehicle_id", http.StatusBadRequest)
		return
	}

	issueDate, err := time.Parse(models.DateLayout, r.FormValue("issue_date"))
	if err != nil {
		http.Error(w, "invalid issue_date, want YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !slices.Contains(allowedScanExtensions, ext) {
		http.Error(w, "unsupported file type "+ext, http.StatusBadRequest)
		return
	}

	dir := filepath.Join(uploadDir, "orders", "vehicle_"+vehicleID.String())
	if err := os.MkdirAll(dir, 0755); err != nil {
		http.Error(w, "failed to create upload directory: "+err.Error(), http.StatusInternalServerError)
		return
	}

	// Create unique filename with timestamp to avoid collisions
	timestamp := time.Now().Format("20060102-150405")
	filename := fmt.Sprintf("%s-%s", timestamp, filepath.Base(header.Filename))
	dst, err := os.Create(filepath.Join(dir, filename))
	if err != nil {
		http.Error(w, "failed to create file: "+err.Error(), http.StatusInternalServerError)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		http.Error(w, "failed to save file: "+err.Error(), http.StatusInternalServerError)
		return
	}

	doc := models.OrderDocument{
		VehicleID:    vehicleID,
		FilePath:     filepath.ToSlash(filepath.Join("orders", "vehicle_"+vehicleID.String(), filename)),
		DocumentType: r.FormValue("document_type"),
		IssueDate:    models.JSONDate(issueDate),
		Comment:      r.FormValue("comment"),
	}
	if num := r.FormValue("document_number"); num != "" {
		doc.DocumentNumber = &num
	}

	if err := Store.CreateOrderDocument(r.Context(), &doc); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, doc)
}

func GetOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := Store.GetOrderDocument(id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// UpdateOrderDocument edits document metadata; the file itself is not
// replaced here.
func UpdateOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := Store.GetOrderDocument(id)
	if err != nil {
		respondError(w, err)
		return
	}
	doc.Vehicle = nil
	if err := json.NewDecoder(r.Body).Decode(doc); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	doc.ID = id

	if err := Store.UpdateOrderDocument(r.Context(), doc); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

func DeleteOrderDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := Store.DeleteOrderDocument(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "order document deleted"})
}
