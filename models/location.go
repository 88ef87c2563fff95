package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Location is a managed lookup list of depot/service locations.
// Vehicles reference it via a nullable link; deleting a location
// detaches its vehicles instead of deleting them.
type Location struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"size:200;uniqueIndex;not null" json:"name"`
}

func (l *Location) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}

func (l *Location) Validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return validationErr("name", "name is required")
	}
	return nil
}

func (l *Location) EntityType() string { return "location" }
func (l *Location) EntityID() string   { return l.ID.String() }
func (l *Location) Label() string      { return l.Name }

func (l *Location) AuditFields() map[string]string {
	return map[string]string{
		"id":   l.ID.String(),
		"name": l.Name,
	}
}
