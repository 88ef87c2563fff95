package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

func (s *Store) CreateVehicle(ctx context.Context, v *models.Vehicle) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.checkVehicleUnique(v); err != nil {
		return err
	}
	if v.LocationID != nil {
		if err := s.exists(&models.Location{}, *v.LocationID); err != nil {
			return err
		}
	}
	if err := s.db.Create(v).Error; err != nil {
		return err
	}
	s.rec.Created(ctx, v)
	return nil
}

func (s *Store) GetVehicle(id uuid.UUID) (*models.Vehicle, error) {
	var v models.Vehicle
	if err := s.db.Preload("Location").First(&v, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &v, nil
}

func (s *Store) ListVehicles() ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := s.db.Preload("Location").Order("registration_number asc").Find(&vehicles).Error
	return vehicles, err
}

func (s *Store) UpdateVehicle(ctx context.Context, v *models.Vehicle) error {
	var prev models.Vehicle
	if err := s.db.First(&prev, "id = ?", v.ID).Error; err != nil {
		return notFoundOr(err)
	}
	before := s.rec.Snapshot(&prev)

	if err := v.Validate(); err != nil {
		return err
	}
	if err := s.checkVehicleUnique(v); err != nil {
		return err
	}
	if v.LocationID != nil {
		if err := s.exists(&models.Location{}, *v.LocationID); err != nil {
			return err
		}
	}
	// Omit the association: a stale preloaded Location must not restore a
	// cleared location_id through GORM's belongs-to handling.
	if err := s.db.Omit("Location").Save(v).Error; err != nil {
		return err
	}
	s.rec.Updated(ctx, v, before)
	return nil
}

// DeleteVehicle removes the vehicle together with its installations and
// order documents in one transaction, logging a delete entry for each
// cascaded row.
func (s *Store) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	var v models.Vehicle
	if err := s.db.First(&v, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}
	var installs []models.Installation
	if err := s.db.Where("vehicle_id = ?", id).Find(&installs).Error; err != nil {
		return err
	}
	var docs []models.OrderDocument
	if err := s.db.Where("vehicle_id = ?", id).Find(&docs).Error; err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.Installation{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", id).Delete(&models.OrderDocument{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Vehicle{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	for i := range installs {
		s.rec.Deleted(ctx, &installs[i], nil)
	}
	for i := range docs {
		s.rec.Deleted(ctx, &docs[i], nil)
	}
	s.rec.Deleted(ctx, &v, nil)
	return nil
}

func (s *Store) checkVehicleUnique(v *models.Vehicle) error {
	var n int64
	err := s.db.Model(&models.Vehicle{}).
		Where("registration_number = ? AND id <> ?", v.RegistrationNumber, v.ID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return &models.ValidationError{Field: "registration_number", Message: "registration number already in use"}
	}
	return nil
}
