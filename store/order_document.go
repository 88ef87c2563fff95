package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

func (s *Store) CreateOrderDocument(ctx context.Context, d *models.OrderDocument) error {
	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.exists(&models.Vehicle{}, d.VehicleID); err != nil {
		return err
	}
	if err := s.db.Create(d).Error; err != nil {
		return err
	}
	s.rec.Created(ctx, d)
	return nil
}

func (s *Store) GetOrderDocument(id uuid.UUID) (*models.OrderDocument, error) {
	var d models.OrderDocument
	if err := s.db.Preload("Vehicle").First(&d, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &d, nil
}

// ListOrderDocuments returns documents newest issue date first, optionally
// limited to one vehicle.
func (s *Store) ListOrderDocuments(vehicleID *uuid.UUID) ([]models.OrderDocument, error) {
	q := s.db.Preload("Vehicle").Order("issue_date desc")
	if vehicleID != nil {
		q = q.Where("vehicle_id = ?", *vehicleID)
	}
	var docs []models.OrderDocument
	err := q.Find(&docs).Error
	return docs, err
}

func (s *Store) UpdateOrderDocument(ctx context.Context, d *models.OrderDocument) error {
	var prev models.OrderDocument
	if err := s.db.First(&prev, "id = ?", d.ID).Error; err != nil {
		return notFoundOr(err)
	}
	before := s.rec.Snapshot(&prev)

	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.exists(&models.Vehicle{}, d.VehicleID); err != nil {
		return err
	}
	if err := s.db.Omit("Vehicle").Save(d).Error; err != nil {
		return err
	}
	s.rec.Updated(ctx, d, before)
	return nil
}

// DeleteOrderDocument detaches any installations that reference the
// document before removing it.
func (s *Store) DeleteOrderDocument(ctx context.Context, id uuid.UUID) error {
	var d models.OrderDocument
	if err := s.db.First(&d, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Installation{}).
			Where("order_document_id = ?", id).
			Update("order_document_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.OrderDocument{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	s.rec.Deleted(ctx, &d, nil)
	return nil
}
