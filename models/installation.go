package models

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Installation records one mounting of a tracker on a vehicle. The row
// with IsActive == true is the tracker's current assignment; at most one
// such row may exist per tracker at any time.
type Installation struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	Vehicle          *Vehicle       `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	TrackerID        uuid.UUID      `gorm:"type:uuid;index;not null" json:"tracker_id"`
	Tracker          *Tracker       `gorm:"foreignKey:TrackerID" json:"tracker,omitempty"`
	InstallationDate JSONDate       `gorm:"type:date;not null" json:"installation_date"`
	RemovalDate      *JSONDate      `gorm:"type:date" json:"removal_date,omitempty"`
	IsActive         bool           `gorm:"default:true;index" json:"is_active"`
	OrderDocumentID  *uuid.UUID     `gorm:"type:uuid" json:"order_document_id,omitempty"`
	OrderDocument    *OrderDocument `gorm:"foreignKey:OrderDocumentID" json:"order_document,omitempty"`
	Comment          string         `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (i *Installation) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

func (i *Installation) Validate() error {
	if i.VehicleID == uuid.Nil {
		return validationErr("vehicle_id", "vehicle is required")
	}
	if i.TrackerID == uuid.Nil {
		return validationErr("tracker_id", "tracker is required")
	}
	if i.InstallationDate.IsZero() {
		return validationErr("installation_date", "installation date is required")
	}
	if i.RemovalDate != nil && i.RemovalDate.Before(i.InstallationDate) {
		return validationErr("removal_date", "removal date cannot precede installation date")
	}
	if i.IsActive && i.RemovalDate != nil {
		return validationErr("removal_date", "an active installation cannot have a removal date")
	}
	return nil
}

func (i *Installation) EntityType() string { return "installation" }
func (i *Installation) EntityID() string   { return i.ID.String() }

func (i *Installation) Label() string {
	veh := i.VehicleID.String()
	if i.Vehicle != nil {
		veh = i.Vehicle.RegistrationNumber
	}
	trk := i.TrackerID.String()
	if i.Tracker != nil {
		trk = i.Tracker.SerialNumber
	}
	return veh + " - " + trk + " (" + fmtDate(i.InstallationDate) + ")"
}

func (i *Installation) AuditFields() map[string]string {
	return map[string]string{
		"id":                i.ID.String(),
		"vehicle_id":        i.VehicleID.String(),
		"tracker_id":        i.TrackerID.String(),
		"installation_date": fmtDate(i.InstallationDate),
		"removal_date":      fmtDatePtr(i.RemovalDate),
		"is_active":         strconv.FormatBool(i.IsActive),
		"order_document_id": fmtUUIDPtr(i.OrderDocumentID),
		"comment":           i.Comment,
	}
}
