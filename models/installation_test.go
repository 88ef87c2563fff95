package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func date(y int, m time.Month, d int) JSONDate {
	return JSONDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func datePtr(y int, m time.Month, d int) *JSONDate {
	v := date(y, m, d)
	return &v
}

func TestInstallationValidate(t *testing.T) {
	vehicleID := uuid.New()
	trackerID := uuid.New()

	tests := []struct {
		name      string
		inst      Installation
		wantField string
	}{
		{
			"valid active",
			Installation{VehicleID: vehicleID, TrackerID: trackerID, InstallationDate: date(2024, 3, 1), IsActive: true},
			"",
		},
		{
			"valid closed",
			Installation{VehicleID: vehicleID, TrackerID: trackerID, InstallationDate: date(2024, 3, 1), RemovalDate: datePtr(2024, 4, 1)},
			"",
		},
		{
			"removal same day as installation",
			Installation{VehicleID: vehicleID, TrackerID: trackerID, InstallationDate: date(2024, 3, 1), RemovalDate: datePtr(2024, 3, 1)},
			"",
		},
		{
			"missing vehicle",
			Installation{TrackerID: trackerID, InstallationDate: date(2024, 3, 1)},
			"vehicle_id",
		},
		{
			"missing tracker",
			Installation{VehicleID: vehicleID, InstallationDate: date(2024, 3, 1)},
			"tracker_id",
		},
		{
			"missing installation date",
			Installation{VehicleID: vehicleID, TrackerID: trackerID},
			"installation_date",
		},
		{
			"removal before installation",
			Installation{VehicleID: vehicleID, TrackerID: trackerID, InstallationDate: date(2024, 3, 1), RemovalDate: datePtr(2024, 2, 1)},
			"removal_date",
		},
		{
			"active with removal date",
			Installation{VehicleID: vehicleID, TrackerID: trackerID, InstallationDate: date(2024, 3, 1), RemovalDate: datePtr(2024, 4, 1), IsActive: true},
			"removal_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.inst.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, expected nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, expected *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Validate() field = %q, expected %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestInstallationAuditFieldsDates(t *testing.T) {
	inst := Installation{
		ID:               uuid.New(),
		VehicleID:        uuid.New(),
		TrackerID:        uuid.New(),
		InstallationDate: date(2024, 3, 5),
		RemovalDate:      datePtr(2024, 7, 30),
	}
	fields := inst.AuditFields()
	if got := fields["installation_date"]; got != "2024-03-05" {
		t.Errorf("installation_date = %q, expected %q", got, "2024-03-05")
	}
	if got := fields["removal_date"]; got != "2024-07-30" {
		t.Errorf("removal_date = %q, expected %q", got, "2024-07-30")
	}

	inst.RemovalDate = nil
	if got := inst.AuditFields()["removal_date"]; got != "" {
		t.Errorf("nil removal_date = %q, expected empty string", got)
	}
}
