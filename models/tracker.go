package models

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackerProtocols is the allowed set of tracker wire protocols.
var TrackerProtocols = []string{"wialon", "galileosky", "teltonika", "other"}

var imeiPattern = regexp.MustCompile(`^[0-9]{15,20}$`)

// Tracker is a GPS tracking unit. Which vehicle it is currently mounted on
// is modeled by its active Installation, not by a field here.
type Tracker struct {
	ID                     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	IMEI                   string    `gorm:"column:imei;size:20;uniqueIndex;not null" json:"imei"`
	SerialNumber           string    `gorm:"size:100;uniqueIndex;not null" json:"serial_number"`
	InventoryNumber        string    `gorm:"size:100;uniqueIndex;not null" json:"inventory_number"`
	AntennaInventoryNumber *string   `gorm:"size:100" json:"antenna_inventory_number,omitempty"`
	Model                  string    `gorm:"size:100" json:"model"`
	Protocol               string    `gorm:"size:50;not null;default:'wialon'" json:"protocol"`
	HolderNumber           *string   `gorm:"size:50" json:"holder_number,omitempty"`
	SimOld                 *string   `gorm:"size:50" json:"sim_old,omitempty"`
	NCard                  *string   `gorm:"column:n_card;size:50" json:"n_card,omitempty"`
	SimNew                 *string   `gorm:"size:50" json:"sim_new,omitempty"`
	Comment                string    `gorm:"type:text" json:"comment,omitempty"`
	IsActive               bool      `gorm:"default:true" json:"is_active"`
	CreatedAt              time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (t *Tracker) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return
}

func (t *Tracker) Validate() error {
	if !imeiPattern.MatchString(t.IMEI) {
		return validationErr("imei", "IMEI must be 15-20 digits")
	}
	if strings.TrimSpace(t.SerialNumber) == "" {
		return validationErr("serial_number", "serial number is required")
	}
	if strings.TrimSpace(t.InventoryNumber) == "" {
		return validationErr("inventory_number", "inventory number is required")
	}
	if t.Protocol == "" {
		t.Protocol = "wialon"
	}
	if !slices.Contains(TrackerProtocols, t.Protocol) {
		return validationErr("protocol", "unknown protocol: "+t.Protocol)
	}
	return nil
}

func (t *Tracker) EntityType() string { return "tracker" }
func (t *Tracker) EntityID() string   { return t.ID.String() }

func (t *Tracker) Label() string {
	return t.SerialNumber + " (IMEI: " + t.IMEI + ")"
}

func (t *Tracker) AuditFields() map[string]string {
	return map[string]string{
		"id":                       t.ID.String(),
		"imei":                     t.IMEI,
		"serial_number":            t.SerialNumber,
		"inventory_number":         t.InventoryNumber,
		"antenna_inventory_number": fmtStrPtr(t.AntennaInventoryNumber),
		"model":                    t.Model,
		"protocol":                 t.Protocol,
		"holder_number":            fmtStrPtr(t.HolderNumber),
		"sim_old":                  fmtStrPtr(t.SimOld),
		"n_card":                   fmtStrPtr(t.NCard),
		"sim_new":                  fmtStrPtr(t.SimNew),
		"comment":                  t.Comment,
		"is_active":                strconv.FormatBool(t.IsActive),
	}
}
