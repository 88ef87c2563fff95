package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"

	"p9e.in/fleettrack/models"
)

func activeCount(t *testing.T, s *Store, trackerID uuid.UUID) int64 {
	t.Helper()
	var n int64
	err := s.db.Model(&models.Installation{}).
		Where("tracker_id = ? AND is_active = ?", trackerID, true).
		Count(&n).Error
	if err != nil {
		t.Fatalf("count active installations: %v", err)
	}
	return n
}

func TestAssignTracker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr := seedTracker(t, s)
	v := seedVehicle(t, s, "AA1111BB")

	inst, err := s.AssignTracker(ctx, tr.ID, &v.ID)
	if err != nil {
		t.Fatalf("AssignTracker() = %v", err)
	}
	if inst == nil {
		t.Fatal("AssignTracker() returned nil installation")
	}
	if !inst.IsActive {
		t.Error("new installation is not active")
	}
	if inst.VehicleID != v.ID {
		t.Errorf("vehicle_id = %s, expected %s", inst.VehicleID, v.ID)
	}
	if inst.Comment != AssignmentComment {
		t.Errorf("comment = %q, expected %q", inst.Comment, AssignmentComment)
	}
	if inst.InstallationDate.IsZero() {
		t.Error("installation date not set")
	}
	if inst.RemovalDate != nil {
		t.Errorf("removal date = %v, expected nil", inst.RemovalDate)
	}
	if got := activeCount(t, s, tr.ID); got != 1 {
		t.Errorf("active installations = %d, expected 1", got)
	}
	if got := countLogs(t, s, "installation", models.ActionCreate); got != 1 {
		t.Errorf("installation create log entries = %d, expected 1", got)
	}
}

func TestAssignTrackerReassign(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr := seedTracker(t, s)
	v1 := seedVehicle(t, s, "AA1111BB")
	v2 := seedVehicle(t, s, "CC2222DD")

	first, err := s.AssignTracker(ctx, tr.ID, &v1.ID)
	if err != nil {
		t.Fatalf("first AssignTracker() = %v", err)
	}
	second, err := s.AssignTracker(ctx, tr.ID, &v2.ID)
	if err != nil {
		t.Fatalf("second AssignTracker() = %v", err)
	}
	if second == nil || second.VehicleID != v2.ID {
		t.Fatalf("second assignment = %+v, expected active installation on %s", second, v2.ID)
	}

	if got := activeCount(t, s, tr.ID); got != 1 {
		t.Errorf("active installations = %d, expected exactly 1", got)
	}

	var old models.Installation
	if err := s.db.First(&old, "id = ?", first.ID).Error; err != nil {
		t.Fatalf("reload first installation: %v", err)
	}
	if old.IsActive {
		t.Error("previous installation still active after reassignment")
	}
	if old.RemovalDate == nil {
		t.Error("previous installation has no removal date")
	} else if old.RemovalDate.Before(old.InstallationDate) {
		t.Errorf("removal date %v precedes installation date %v",
			old.RemovalDate.Time(), old.InstallationDate.Time())
	}

	// one create per assignment plus one update for the deactivation
	if got := countLogs(t, s, "installation", models.ActionCreate); got != 2 {
		t.Errorf("installation create log entries = %d, expected 2", got)
	}
	if got := countLogs(t, s, "installation", models.ActionUpdate); got != 1 {
		t.Errorf("installation update log entries = %d, expected 1", got)
	}
}

func TestAssignTrackerIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr := seedTracker(t, s)
	v := seedVehicle(t, s, "AA1111BB")

	if _, err := s.AssignTracker(ctx, tr.ID, &v.ID); err != nil {
		t.Fatalf("first AssignTracker() = %v", err)
	}
	logsBefore := countLogs(t, s, "", "")

	inst, err := s.AssignTracker(ctx, tr.ID, &v.ID)
	if err != nil {
		t.Fatalf("repeat AssignTracker() = %v", err)
	}
	if inst != nil {
		t.Errorf("repeat assignment returned %+v, expected nil", inst)
	}
	if got := activeCount(t, s, tr.ID); got != 1 {
		t.Errorf("active installations = %d, expected 1", got)
	}
	if got := countLogs(t, s, "", ""); got != logsBefore {
		t.Errorf("log entries = %d, expected unchanged %d", got, logsBefore)
	}
}

func TestAssignTrackerClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr := seedTracker(t, s)
	v := seedVehicle(t, s, "AA1111BB")

	if _, err := s.AssignTracker(ctx, tr.ID, &v.ID); err != nil {
		t.Fatalf("AssignTracker() = %v", err)
	}
	inst, err := s.AssignTracker(ctx, tr.ID, nil)
	if err != nil {
		t.Fatalf("clear AssignTracker() = %v", err)
	}
	if inst != nil {
		t.Errorf("clear returned %+v, expected nil", inst)
	}
	if got := activeCount(t, s, tr.ID); got != 0 {
		t.Errorf("active installations = %d, expected 0 after clear", got)
	}

	active, err := s.ActiveInstallation(tr.ID)
	if err != nil {
		t.Fatalf("ActiveInstallation() = %v", err)
	}
	if active != nil {
		t.Errorf("ActiveInstallation() = %+v, expected nil", active)
	}
}

func TestAssignTrackerClearUnassigned(t *testing.T) {
	s := newTestStore(t)
	tr := seedTracker(t, s)

	inst, err := s.AssignTracker(context.Background(), tr.ID, nil)
	if err != nil {
		t.Fatalf("AssignTracker() = %v", err)
	}
	if inst != nil {
		t.Errorf("clearing an unassigned tracker returned %+v, expected nil", inst)
	}
	if got := countLogs(t, s, "installation", ""); got != 0 {
		t.Errorf("installation log entries = %d, expected 0", got)
	}
}

func TestAssignTrackerConcurrent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	tr := seedTracker(t, s)

	vehicles := make([]*models.Vehicle, 8)
	for i := range vehicles {
		vehicles[i] = seedVehicle(t, s, fmt.Sprintf("AA%04dBB", i))
	}

	// single connection keeps sqlite happy; the per-tracker lock is what
	// serializes the resolve/deactivate/create sequence under test
	sqlDB, err := s.db.DB()
	if err != nil {
		t.Fatalf("unwrap sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	var wg sync.WaitGroup
	for _, v := range vehicles {
		wg.Add(1)
		go func(vehicleID uuid.UUID) {
			defer wg.Done()
			if _, err := s.AssignTracker(ctx, tr.ID, &vehicleID); err != nil {
				t.Errorf("AssignTracker() = %v", err)
			}
		}(v.ID)
	}
	wg.Wait()

	if got := activeCount(t, s, tr.ID); got != 1 {
		t.Fatalf("active installations = %d after concurrent assignments, expected exactly 1", got)
	}

	// every superseded installation must have been closed out
	var closed int64
	err = s.db.Model(&models.Installation{}).
		Where("tracker_id = ? AND is_active = ? AND removal_date IS NOT NULL", tr.ID, false).
		Count(&closed).Error
	if err != nil {
		t.Fatalf("count closed installations: %v", err)
	}
	var total int64
	if err := s.db.Model(&models.Installation{}).Where("tracker_id = ?", tr.ID).Count(&total).Error; err != nil {
		t.Fatalf("count installations: %v", err)
	}
	if closed != total-1 {
		t.Errorf("closed installations = %d of %d, expected all but the active one", closed, total)
	}
}

func TestAssignTrackerUnknownIDs(t *testing.T) {
	s := newTestStore(t)
	tr := seedTracker(t, s)

	if _, err := s.AssignTracker(context.Background(), uuid.New(), nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown tracker: err = %v, expected ErrNotFound", err)
	}
	missing := uuid.New()
	if _, err := s.AssignTracker(context.Background(), tr.ID, &missing); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("unknown vehicle: err = %v, expected ErrNotFound", err)
	}
}
