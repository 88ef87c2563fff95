package models

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleMakes is the allowed set of vehicle makes. Anything outside the
// known fleet brands is recorded as "Other".
var VehicleMakes = []string{"Volvo", "Scania", "MAN", "Mercedes", "DAF", "Renault", "Other"}

// Vehicle is a fleet vehicle a GPS tracker can be mounted on.
type Vehicle struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	RegistrationNumber string     `gorm:"size:50;uniqueIndex;not null" json:"registration_number"`
	BoardNumber        *string    `gorm:"size:50" json:"board_number,omitempty"`
	Make               string     `gorm:"size:50;not null;default:'Other'" json:"make"`
	LocationID         *uuid.UUID `gorm:"type:uuid;index" json:"location_id,omitempty"`
	Location           *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Comment            string     `gorm:"type:text" json:"comment,omitempty"`
	IsActive           bool       `gorm:"default:true" json:"is_active"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) (err error) {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return
}

func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.RegistrationNumber) == "" {
		return validationErr("registration_number", "registration number is required")
	}
	if v.Make == "" {
		v.Make = "Other"
	}
	if !slices.Contains(VehicleMakes, v.Make) {
		return validationErr("make", "unknown vehicle make: "+v.Make)
	}
	return nil
}

func (v *Vehicle) EntityType() string { return "vehicle" }
func (v *Vehicle) EntityID() string   { return v.ID.String() }

func (v *Vehicle) Label() string {
	return v.RegistrationNumber + " - " + v.Make
}

func (v *Vehicle) AuditFields() map[string]string {
	return map[string]string{
		"id":                  v.ID.String(),
		"registration_number": v.RegistrationNumber,
		"board_number":        fmtStrPtr(v.BoardNumber),
		"make":                v.Make,
		"location_id":         fmtUUIDPtr(v.LocationID),
		"comment":             v.Comment,
		"is_active":           strconv.FormatBool(v.IsActive),
	}
}
