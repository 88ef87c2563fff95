package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

// AssignmentComment marks installations created through the tracker
// assignment workflow rather than the installation form.
const AssignmentComment = "Assigned from tracker form"

// AssignTracker points the tracker's current assignment at the given
// vehicle, or clears it when vehicleID is nil.
//
// Rules: if the tracker is already actively installed on the target
// vehicle, nothing happens. Otherwise a new active installation is created
// dated today and the previous active installation, if any, is deactivated
// with today's removal date. Creation and deactivation commit in one
// transaction so a failure cannot leave the tracker deactivated with no
// replacement. The whole sequence holds the tracker's assignment lock;
// concurrent assignment changes for one tracker are serialized, not
// retried.
//
// Returns the new active installation, or nil when the assignment was
// cleared or unchanged.
func (s *Store) AssignTracker(ctx context.Context, trackerID uuid.UUID, vehicleID *uuid.UUID) (*models.Installation, error) {
	unlock := s.lockTracker(trackerID)
	defer unlock()

	var tr models.Tracker
	if err := s.db.First(&tr, "id = ?", trackerID).Error; err != nil {
		return nil, notFoundOr(err)
	}
	if vehicleID != nil {
		if err := s.exists(&models.Vehicle{}, *vehicleID); err != nil {
			return nil, err
		}
	}

	var active *models.Installation
	var cur models.Installation
	err := s.db.Where("tracker_id = ? AND is_active = ?", trackerID, true).First(&cur).Error
	switch {
	case err == nil:
		active = &cur
	case errors.Is(err, gorm.ErrRecordNotFound):
		// tracker currently unassigned
	default:
		return nil, err
	}

	now := today()

	// Clearing the assignment: deactivate the active installation, if any.
	if vehicleID == nil {
		if active == nil {
			return nil, nil
		}
		before := s.rec.Snapshot(active)
		rd := now
		active.IsActive = false
		active.RemovalDate = &rd
		if err := s.db.Save(active).Error; err != nil {
			return nil, err
		}
		s.rec.Updated(ctx, active, before)
		return nil, nil
	}

	// Already mounted on the target vehicle: nothing to do.
	if active != nil && active.VehicleID == *vehicleID {
		return nil, nil
	}

	repl := &models.Installation{
		VehicleID:        *vehicleID,
		TrackerID:        trackerID,
		InstallationDate: now,
		IsActive:         true,
		Comment:          AssignmentComment,
	}
	var before map[string]string
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(repl).Error; err != nil {
			return err
		}
		if active != nil {
			before = s.rec.Snapshot(active)
			rd := now
			active.IsActive = false
			active.RemovalDate = &rd
			if err := tx.Save(active).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.rec.Created(ctx, repl)
	if active != nil {
		s.rec.Updated(ctx, active, before)
	}
	return repl, nil
}
