package handlers

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"p9e.in/fleettrack/models"
	"p9e.in/fleettrack/store"
)

func parseLogFilter(r *http.Request) (store.LogFilter, error) {
	var f store.LogFilter
	q := r.URL.Query()

	f.EntityType = q.Get("entity_type")
	f.EntityID = q.Get("entity_id")
	f.Action = models.LogAction(q.Get("action"))
	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse(models.DateLayout, v)
			if err != nil {
				return f, fmt.Errorf("invalid since, want YYYY-MM-DD or RFC3339")
			}
		}
		f.Since = &t
	}
	if v := q.Get("until"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			t, err = time.Parse(models.DateLayout, v)
			if err != nil {
				return f, fmt.Errorf("invalid until, want YYYY-MM-DD or RFC3339")
			}
		}
		f.Until = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return f, fmt.Errorf("invalid limit")
		}
		f.Limit = n
	}
	return f, nil
}

// GetActionLogs returns audit entries newest first, filtered by the
// entity_type, entity_id, action, since, until and limit query params.
func GetActionLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLogFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if filter.Limit == 0 {
		filter.Limit = 200
	}
	entries, err := Store.LogEntries(filter)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// ExportActionLogs downloads the filtered audit trail as CSV, or as an
// indented JSON document when ?format=json is given.
func ExportActionLogs(w http.ResponseWriter, r *http.Request) {
	filter, err := parseLogFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	entries, err := Store.LogEntries(filter)
	if err != nil {
		respondError(w, err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	if r.URL.Query().Get("format") == "json" {
		payload, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			http.Error(w, "failed to generate JSON file", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=action_logs_%s.json", stamp))
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	writer.Write([]string{
		"id", "timestamp", "user", "entity_type", "entity_id",
		"object_repr", "action", "changes", "request_path", "ip_address",
	})
	for _, e := range entries {
		user := ""
		if e.User != nil {
			user = e.User.Name
		}
		writer.Write([]string{
			e.ID.String(),
			e.Timestamp.Format(time.RFC3339),
			user,
			e.EntityType,
			e.EntityID,
			e.ObjectRepr,
			string(e.Action),
			string(e.Changes),
			e.RequestPath,
			e.IPAddress,
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		http.Error(w, "failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=action_logs_%s.csv", stamp))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
