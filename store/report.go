package store

import (
	"time"

	"github.com/google/uuid"

	"p9e.in/fleettrack/models"
)

// ReportFilter narrows the installation report. Zero values mean "no
// filter"; IMEI, Serial and SIM match as substrings the way the reporting
// page searches.
type ReportFilter struct {
	DateFrom   *time.Time
	DateTo     *time.Time
	LocationID *uuid.UUID
	Make       string
	IMEI       string
	Serial     string
	SIM        string
	Limit      int
}

// Summary is the report page's headline counters.
type Summary struct {
	Vehicles            int64 `json:"vehicles"`
	Trackers            int64 `json:"trackers"`
	ActiveInstallations int64 `json:"active_installations"`
	IdleTrackers        int64 `json:"idle_trackers"`
}

// ReportSummary counts vehicles, trackers, active installations and
// trackers that are in service but not mounted anywhere.
func (s *Store) ReportSummary() (*Summary, error) {
	var sum Summary
	if err := s.db.Model(&models.Vehicle{}).Count(&sum.Vehicles).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Tracker{}).Count(&sum.Trackers).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Installation{}).
		Where("is_active = ?", true).
		Count(&sum.ActiveInstallations).Error; err != nil {
		return nil, err
	}
	err := s.db.Model(&models.Tracker{}).
		Where("is_active = ?", true).
		Where("id NOT IN (?)", s.db.Model(&models.Installation{}).
			Select("tracker_id").Where("is_active = ?", true)).
		Count(&sum.IdleTrackers).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// FilterInstallations returns the filtered installation rows the report
// and its exports are built from, newest installation date first.
func (s *Store) FilterInstallations(f ReportFilter) ([]models.Installation, error) {
	q := s.db.Preload("Vehicle").Preload("Vehicle.Location").Preload("Tracker").
		Order("installation_date desc")

	if f.DateFrom != nil {
		q = q.Where("installation_date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("installation_date <= ?", *f.DateTo)
	}
	if f.LocationID != nil || f.Make != "" {
		vehicles := s.db.Model(&models.Vehicle{}).Select("id")
		if f.LocationID != nil {
			vehicles = vehicles.Where("location_id = ?", *f.LocationID)
		}
		if f.Make != "" {
			vehicles = vehicles.Where("make = ?", f.Make)
		}
		q = q.Where("vehicle_id IN (?)", vehicles)
	}
	if f.IMEI != "" || f.Serial != "" || f.SIM != "" {
		trackers := s.db.Model(&models.Tracker{}).Select("id")
		if f.IMEI != "" {
			trackers = trackers.Where("imei LIKE ?", "%"+f.IMEI+"%")
		}
		if f.Serial != "" {
			trackers = trackers.Where("serial_number LIKE ?", "%"+f.Serial+"%")
		}
		if f.SIM != "" {
			like := "%" + f.SIM + "%"
			trackers = trackers.Where("sim_old LIKE ? OR sim_new LIKE ? OR n_card LIKE ?", like, like, like)
		}
		q = q.Where("tracker_id IN (?)", trackers)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var installs []models.Installation
	err := q.Find(&installs).Error
	return installs, err
}
