package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultDocumentType is used when an uploaded document carries no
// explicit type.
const DefaultDocumentType = "Order"

// OrderDocument is a scanned order document attached to a vehicle.
// The file itself lives on disk; FilePath is its location relative to
// the uploads directory.
type OrderDocument struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	VehicleID      uuid.UUID `gorm:"type:uuid;index;not null" json:"vehicle_id"`
	Vehicle        *Vehicle  `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
	FilePath       string    `gorm:"size:255;not null" json:"file_path"`
	DocumentType   string    `gorm:"size:100;not null;default:'Order'" json:"document_type"`
	DocumentNumber *string   `gorm:"size:100" json:"document_number,omitempty"`
	IssueDate      JSONDate  `gorm:"type:date;not null" json:"issue_date"`
	Comment        string    `gorm:"type:text" json:"comment,omitempty"`
	UploadedAt     time.Time `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (d *OrderDocument) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return
}

func (d *OrderDocument) Validate() error {
	if d.VehicleID == uuid.Nil {
		return validationErr("vehicle_id", "vehicle is required")
	}
	if d.FilePath == "" {
		return validationErr("file_path", "document file is required")
	}
	if d.IssueDate.IsZero() {
		return validationErr("issue_date", "issue date is required")
	}
	if d.DocumentType == "" {
		d.DocumentType = DefaultDocumentType
	}
	return nil
}

func (d *OrderDocument) EntityType() string { return "order_document" }
func (d *OrderDocument) EntityID() string   { return d.ID.String() }

func (d *OrderDocument) Label() string {
	if d.DocumentNumber != nil {
		return d.DocumentType + " " + *d.DocumentNumber
	}
	return d.DocumentType
}

func (d *OrderDocument) AuditFields() map[string]string {
	return map[string]string{
		"id":              d.ID.String(),
		"vehicle_id":      d.VehicleID.String(),
		"file_path":       d.FilePath,
		"document_type":   d.DocumentType,
		"document_number": fmtStrPtr(d.DocumentNumber),
		"issue_date":      fmtDate(d.IssueDate),
		"comment":         d.Comment,
	}
}
