package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"p9e.in/fleettrack/models"
	"p9e.in/fleettrack/store"
)

var installationExportHeaders = []string{
	"Board number", "Registration number", "Location", "Tracker (S/N)",
	"Installation date", "Removal date", "Active", "Comment",
}

// parseReportFilter reads the report query parameters shared by the
// report page and its exports.
func parseReportFilter(r *http.Request) (store.ReportFilter, error) {
	var f store.ReportFilter
	q := r.URL.Query()

	if v := q.Get("date_from"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid date_from, want YYYY-MM-DD")
		}
		f.DateFrom = &t
	}
	if v := q.Get("date_to"); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			return f, fmt.Errorf("invalid date_to, want YYYY-MM-DD")
		}
		f.DateTo = &t
	}
	if v := q.Get("location_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("invalid location_id")
		}
		f.LocationID = &id
	}
	f.Make = q.Get("make")
	f.IMEI = q.Get("imei")
	f.Serial = q.Get("serial")
	f.SIM = q.Get("sim")
	return f, nil
}

// GetInstallationReport returns the report counters plus the filtered
// installation rows.
func GetInstallationReport(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	filter.Limit = 100

	summary, err := Store.ReportSummary()
	if err != nil {
		respondError(w, err)
		return
	}
	installs, err := Store.FilterInstallations(filter)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"summary":       summary,
		"installations": installs,
	})
}

// ExportInstallations streams the filtered installation report as an XLSX
// workbook, or CSV when ?format=csv is given.
func ExportInstallations(w http.ResponseWriter, r *http.Request) {
	filter, err := parseReportFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	installs, err := Store.FilterInstallations(filter)
	if err != nil {
		respondError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		exportInstallationsCSV(w, installs)
		return
	}
	exportInstallationsXLSX(w, installs)
}

func installationExportRow(inst models.Installation) []string {
	board, reg, location := "-", "-", "-"
	serial := ""
	if inst.Vehicle != nil {
		if inst.Vehicle.BoardNumber != nil && *inst.Vehicle.BoardNumber != "" {
			board = *inst.Vehicle.BoardNumber
		}
		reg = inst.Vehicle.RegistrationNumber
		if inst.Vehicle.Location != nil {
			location = inst.Vehicle.Location.Name
		}
	}
	if inst.Tracker != nil {
		serial = inst.Tracker.SerialNumber
	}

	removal := ""
	if inst.RemovalDate != nil {
		removal = inst.RemovalDate.Time().Format(models.DateLayout)
	}
	active := "No"
	if inst.IsActive {
		active = "Yes"
	}

	return []string{
		board, reg, location, serial,
		inst.InstallationDate.Time().Format(models.DateLayout),
		removal, active, inst.Comment,
	}
}

func exportInstallationsCSV(w http.ResponseWriter, installs []models.Installation) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	writer.Write(installationExportHeaders)
	for _, inst := range installs {
		writer.Write(installationExportRow(inst))
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		http.Error(w, "failed to generate CSV file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("installations_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func exportInstallationsXLSX(w http.ResponseWriter, installs []models.Installation) {
	f := excelize.NewFile()
	sheet := "Installations"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEAF6"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	evenStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#EDF7FF"}, Pattern: 1},
	})

	widths := make([]int, len(installationExportHeaders))
	for col, header := range installationExportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
		widths[col] = len(header)
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(installationExportHeaders), 1)
	f.SetCellStyle(sheet, first, last, headerStyle)

	for i, inst := range installs {
		rowIdx := i + 2
		row := installationExportRow(inst)
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
			f.SetCellValue(sheet, cell, value)
			if len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
		// zebra striping on even rows
		if rowIdx%2 == 0 {
			rowFirst, _ := excelize.CoordinatesToCellName(1, rowIdx)
			rowLast, _ := excelize.CoordinatesToCellName(len(row), rowIdx)
			f.SetCellStyle(sheet, rowFirst, rowLast, evenStyle)
		}
	}

	for col, width := range widths {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if width > 48 {
			width = 48
		}
		f.SetColWidth(sheet, name, name, float64(width+2))
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "failed to write Excel file", http.StatusInternalServerError)
		return
	}

	filename := fmt.Sprintf("installations_%s.xlsx", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buffer.Bytes())
}
