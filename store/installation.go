package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"p9e.in/fleettrack/models"
)

// CreateInstallation is the direct installation entry point (the
// installation form, as opposed to the tracker assignment workflow). The
// schema keeps the order document column nullable for migration
// compatibility; this entry point rejects a missing order reference.
func (s *Store) CreateInstallation(ctx context.Context, inst *models.Installation) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	if inst.OrderDocumentID == nil {
		return &models.ValidationError{Field: "order_document_id", Message: "order document is required"}
	}
	if err := s.exists(&models.Vehicle{}, inst.VehicleID); err != nil {
		return err
	}
	if err := s.exists(&models.Tracker{}, inst.TrackerID); err != nil {
		return err
	}
	if err := s.exists(&models.OrderDocument{}, *inst.OrderDocumentID); err != nil {
		return err
	}
	if err := s.db.Create(inst).Error; err != nil {
		return err
	}
	s.rec.Created(ctx, inst)
	return nil
}

func (s *Store) GetInstallation(id uuid.UUID) (*models.Installation, error) {
	var inst models.Installation
	err := s.db.Preload("Vehicle").Preload("Tracker").Preload("OrderDocument").
		First(&inst, "id = ?", id).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &inst, nil
}

func (s *Store) UpdateInstallation(ctx context.Context, inst *models.Installation) error {
	var prev models.Installation
	if err := s.db.First(&prev, "id = ?", inst.ID).Error; err != nil {
		return notFoundOr(err)
	}
	before := s.rec.Snapshot(&prev)

	if err := inst.Validate(); err != nil {
		return err
	}
	if inst.OrderDocumentID == nil {
		return &models.ValidationError{Field: "order_document_id", Message: "order document is required"}
	}
	if err := s.exists(&models.Vehicle{}, inst.VehicleID); err != nil {
		return err
	}
	if err := s.exists(&models.Tracker{}, inst.TrackerID); err != nil {
		return err
	}
	if err := s.exists(&models.OrderDocument{}, *inst.OrderDocumentID); err != nil {
		return err
	}
	if err := s.db.Omit(clause.Associations).Save(inst).Error; err != nil {
		return err
	}
	s.rec.Updated(ctx, inst, before)
	return nil
}

func (s *Store) DeleteInstallation(ctx context.Context, id uuid.UUID) error {
	var inst models.Installation
	if err := s.db.First(&inst, "id = ?", id).Error; err != nil {
		return notFoundOr(err)
	}
	if err := s.db.Delete(&models.Installation{}, "id = ?", id).Error; err != nil {
		return err
	}
	s.rec.Deleted(ctx, &inst, nil)
	return nil
}

// History returns the installation sequence newest first, filterable by
// vehicle, tracker or both.
func (s *Store) History(vehicleID, trackerID *uuid.UUID) ([]models.Installation, error) {
	q := s.db.Preload("Vehicle").Preload("Tracker").
		Order("installation_date desc, created_at desc")
	if vehicleID != nil {
		q = q.Where("vehicle_id = ?", *vehicleID)
	}
	if trackerID != nil {
		q = q.Where("tracker_id = ?", *trackerID)
	}
	var installs []models.Installation
	err := q.Find(&installs).Error
	return installs, err
}

// ActiveInstallation resolves a tracker's current assignment, or nil when
// the tracker is not mounted anywhere.
func (s *Store) ActiveInstallation(trackerID uuid.UUID) (*models.Installation, error) {
	var inst models.Installation
	err := s.db.Preload("Vehicle").
		Where("tracker_id = ? AND is_active = ?", trackerID, true).
		First(&inst).Error
	if err != nil {
		if notFoundOr(err) == models.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &inst, nil
}
