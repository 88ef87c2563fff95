package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogAction is the kind of mutation an ActionLog row records.
type LogAction string

const (
	ActionCreate LogAction = "create"
	ActionUpdate LogAction = "update"
	ActionDelete LogAction = "delete"
)

// ActionLog is one immutable audit record. Rows are written only by the
// audit recorder and deleted only by its retention trimmer; EntityID is
// kept in string form so the record survives deletion of its target.
type ActionLog struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *uuid.UUID     `gorm:"type:uuid" json:"user_id,omitempty"`
	User        *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EntityType  string         `gorm:"size:50;index;not null" json:"entity_type"`
	EntityID    string         `gorm:"size:255;not null" json:"entity_id"`
	ObjectRepr  string         `gorm:"size:255" json:"object_repr"`
	Action      LogAction      `gorm:"size:10;not null" json:"action"`
	Changes     datatypes.JSON `gorm:"type:jsonb" json:"changes"`
	Timestamp   time.Time      `gorm:"autoCreateTime;index" json:"timestamp"`
	RequestPath string         `gorm:"size:200" json:"request_path"`
	IPAddress   string         `gorm:"size:100" json:"ip_address"`
}

func (l *ActionLog) BeforeCreate(tx *gorm.DB) (err error) {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return
}
