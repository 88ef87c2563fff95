package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"p9e.in/fleettrack/models"
	"p9e.in/fleettrack/pkg/audit"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Location{},
		&models.Vehicle{},
		&models.Tracker{},
		&models.OrderDocument{},
		&models.Installation{},
		&models.ActionLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db, audit.NewRecorder(db, 0))
}

var trackerSeq int

func seedTracker(t *testing.T, s *Store) *models.Tracker {
	t.Helper()
	trackerSeq++
	tr := &models.Tracker{
		IMEI:            fmt.Sprintf("3563070424%05d", trackerSeq),
		SerialNumber:    fmt.Sprintf("SN-%d", trackerSeq),
		InventoryNumber: fmt.Sprintf("INV-%d", trackerSeq),
	}
	if err := s.CreateTracker(context.Background(), tr); err != nil {
		t.Fatalf("seed tracker: %v", err)
	}
	return tr
}

func seedVehicle(t *testing.T, s *Store, reg string) *models.Vehicle {
	t.Helper()
	v := &models.Vehicle{RegistrationNumber: reg, Make: "Volvo", IsActive: true}
	if err := s.CreateVehicle(context.Background(), v); err != nil {
		t.Fatalf("seed vehicle %s: %v", reg, err)
	}
	return v
}

func seedDocument(t *testing.T, s *Store, vehicleID uuid.UUID) *models.OrderDocument {
	t.Helper()
	d := &models.OrderDocument{
		VehicleID: vehicleID,
		FilePath:  "orders/test.pdf",
		IssueDate: models.JSONDate(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)),
	}
	if err := s.CreateOrderDocument(context.Background(), d); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return d
}

func countLogs(t *testing.T, s *Store, entityType string, action models.LogAction) int64 {
	t.Helper()
	var n int64
	q := s.db.Model(&models.ActionLog{})
	if entityType != "" {
		q = q.Where("entity_type = ?", entityType)
	}
	if action != "" {
		q = q.Where("action = ?", action)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return n
}
