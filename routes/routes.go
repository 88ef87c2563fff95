package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"p9e.in/fleettrack/handlers"
	"p9e.in/fleettrack/middleware"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	// =====================================================
	// Public Routes (no authentication)
	// =====================================================
	r.HandleFunc("/login", handlers.Login).Methods("POST")
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir("./uploads"))),
	)

	// =====================================================
	// Protected API Routes (require JWT authentication)
	// =====================================================
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.JWTMiddleware)

	api.HandleFunc("/profile", handlers.GetProfile).Methods("GET")
	api.HandleFunc("/dashboard", handlers.GetDashboard).Methods("GET")

	registerFleetRoutes(api)
	registerDocumentRoutes(api)
	registerReportRoutes(api)

	return r
}

// registerFleetRoutes wires the vehicle, tracker, location and
// installation resources.
func registerFleetRoutes(api *mux.Router) {
	// Locations
	api.HandleFunc("/locations", handlers.GetAllLocations).Methods("GET")
	api.HandleFunc("/locations", handlers.CreateLocation).Methods("POST")
	api.HandleFunc("/locations/{id}", handlers.GetLocation).Methods("GET")
	api.HandleFunc("/locations/{id}", handlers.UpdateLocation).Methods("PUT")
	api.HandleFunc("/locations/{id}", handlers.DeleteLocation).Methods("DELETE")

	// Vehicles
	api.HandleFunc("/vehicles", handlers.GetAllVehicles).Methods("GET")
	api.HandleFunc("/vehicles", handlers.CreateVehicle).Methods("POST")
	api.HandleFunc("/vehicles/{id}", handlers.GetVehicle).Methods("GET")
	api.HandleFunc("/vehicles/{id}", handlers.UpdateVehicle).Methods("PUT")
	api.HandleFunc("/vehicles/{id}", handlers.DeleteVehicle).Methods("DELETE")

	// Trackers
	api.HandleFunc("/trackers", handlers.GetAllTrackers).Methods("GET")
	api.HandleFunc("/trackers", handlers.CreateTracker).Methods("POST")
	api.HandleFunc("/trackers/{id}", handlers.GetTracker).Methods("GET")
	api.HandleFunc("/trackers/{id}", handlers.UpdateTracker).Methods("PUT")
	api.HandleFunc("/trackers/{id}", handlers.DeleteTracker).Methods("DELETE")
	api.HandleFunc("/trackers/{id}/assignment", handlers.GetTrackerAssignment).Methods("GET")
	api.HandleFunc("/trackers/{id}/assign", handlers.AssignTracker).Methods("POST")

	// Installations
	api.HandleFunc("/installations", handlers.GetInstallationHistory).Methods("GET")
	api.HandleFunc("/installations", handlers.CreateInstallation).Methods("POST")
	api.HandleFunc("/installations/{id}", handlers.GetInstallation).Methods("GET")
	api.HandleFunc("/installations/{id}", handlers.UpdateInstallation).Methods("PUT")
	api.HandleFunc("/installations/{id}", handlers.DeleteInstallation).Methods("DELETE")
}

// registerDocumentRoutes wires order document uploads and metadata.
func registerDocumentRoutes(api *mux.Router) {
	api.HandleFunc("/order-documents", handlers.GetAllOrderDocuments).Methods("GET")
	api.HandleFunc("/order-documents", handlers.UploadOrderDocument).Methods("POST")
	api.HandleFunc("/order-documents/{id}", handlers.GetOrderDocument).Methods("GET")
	api.HandleFunc("/order-documents/{id}", handlers.UpdateOrderDocument).Methods("PUT")
	api.HandleFunc("/order-documents/{id}", handlers.DeleteOrderDocument).Methods("DELETE")
}

// registerReportRoutes wires the report page, its file exports and the
// audit trail.
func registerReportRoutes(api *mux.Router) {
	api.HandleFunc("/reports/installations", handlers.GetInstallationReport).Methods("GET")
	api.HandleFunc("/reports/installations/export", handlers.ExportInstallations).Methods("GET")
	api.HandleFunc("/logs", handlers.GetActionLogs).Methods("GET")
	api.HandleFunc("/logs/export", handlers.ExportActionLogs).Methods("GET")
}
