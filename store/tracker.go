package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

func (s *Store) CreateTracker(ctx context.Context, t *models.Tracker) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.checkTrackerUnique(t); err != nil {
		return err
	}
	if err := s.db.Create(t).Error; err != nil {
		return err
	}
	s.rec.Created(ctx, t)
	return nil
}

func (s *Store) GetTracker(id uuid.UUID) (*models.Tracker, error) {
	var t models.Tracker
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err)
	}
	return &t, nil
}

func (s *Store) ListTrackers() ([]models.Tracker, error) {
	var trackers []models.Tracker
	err := s.db.Order("serial_number asc").Find(&trackers).Error
	return trackers, err
}

func (s *Store) UpdateTracker(ctx context.Context, t *models.Tracker) error {
	var prev models.Tracker
	if err := s.db.First(&prev, "id = ?", t.ID).Error; err != nil {
		return notFoundOr(err)
	}
	before := s.rec.Snapshot(&prev)

	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.checkTrackerUnique(t); err != nil {
		return err
	}
	if err := s.db.Save(t).Error; err != nil {
		return err
	}
	s.rec.Updated(ctx, t, before)
	return nil
}

// DeleteTracker removes the tracker and cascades to its installations,
// logging a delete entry for each cascaded row.
func (s *Store) DeleteTracker(ctx context.Context, id uuid.UUID) error {
	var t models.Tracker
	if err := s.db.First(&t, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}
	var installs []models.Installation
	if err := s.db.Where("tracker_id = ?", id).Find(&installs).Error; err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tracker_id = ?", id).Delete(&models.Installation{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tracker{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	for i := range installs {
		s.rec.Deleted(ctx, &installs[i], nil)
	}
	s.rec.Deleted(ctx, &t, nil)
	return nil
}

func (s *Store) checkTrackerUnique(t *models.Tracker) error {
	unique := []struct {
		field string
		value string
	}{
		{"imei", t.IMEI},
		{"serial_number", t.SerialNumber},
		{"inventory_number", t.InventoryNumber},
	}
	for _, u := range unique {
		var n int64
		err := s.db.Model(&models.Tracker{}).
			Where(u.field+" = ? AND id <> ?", u.value, t.ID).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n > 0 {
			return &models.ValidationError{Field: u.field, Message: u.field + " already in use"}
		}
	}
	return nil
}
