package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

func (s *Store) CreateLocation(ctx context.Context, l *models.Location) error {
	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.checkLocationUnique(l); err != nil {
		return err
	}
	if err := s.db.Create(l).Error; err != nil {
		return err
	}
	s.rec.Created(ctx, l)
	return nil
}

func (s *Store) GetLocation(id uuid.UUID) (*models.Location, error) {
	var l models.Location
	if err := s.db.First(&l, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &l, nil
}

func (s *Store) ListLocations() ([]models.Location, error) {
	var locations []models.Location
	err := s.db.Order("name asc").Find(&locations).Error
	return locations, err
}

func (s *Store) UpdateLocation(ctx context.Context, l *models.Location) error {
	var prev models.Location
	if err := s.db.First(&prev, "id = ?", l.ID).Error; err != nil {
		return notFoundOr(err)
	}
	before := s.rec.Snapshot(&prev)

	if err := l.Validate(); err != nil {
		return err
	}
	if err := s.checkLocationUnique(l); err != nil {
		return err
	}
	if err := s.db.Save(l).Error; err != nil {
		return err
	}
	s.rec.Updated(ctx, l, before)
	return nil
}

// DeleteLocation detaches the location's vehicles rather than deleting
// them, then removes the location.
func (s *Store) DeleteLocation(ctx context.Context, id uuid.UUID) error {
	var l models.Location
	if err := s.db.First(&l, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Vehicle{}).
			Where("location_id = ?", id).
			Update("location_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Location{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}
	s.rec.Deleted(ctx, &l, nil)
	return nil
}

func (s *Store) checkLocationUnique(l *models.Location) error {
	var n int64
	err := s.db.Model(&models.Location{}).
		Where("name = ? AND id <> ?", l.Name, l.ID).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return &models.ValidationError{Field: "name", Message: "location name already in use"}
	}
	return nil
}
