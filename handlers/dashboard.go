package handlers

import (
	"net/http"

	"p9e.in/fleettrack/store"
)

// GetDashboard returns the headline counters along with the ten most
// recent installations for the landing page.
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := Store.ReportSummary()
	if err != nil {
		respondError(w, err)
		return
	}
	recent, err := Store.FilterInstallations(store.ReportFilter{Limit: 10})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"summary":              summary,
		"recent_installations": recent,
	})
}
