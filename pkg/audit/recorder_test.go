package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"p9e.in/fleettrack/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.ActionLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func allLogs(t *testing.T, db *gorm.DB) []models.ActionLog {
	t.Helper()
	var entries []models.ActionLog
	if err := db.Order("timestamp asc").Find(&entries).Error; err != nil {
		t.Fatalf("load logs: %v", err)
	}
	return entries
}

func testVehicle() *models.Vehicle {
	return &models.Vehicle{
		ID:                 uuid.New(),
		RegistrationNumber: "AA1234BB",
		Make:               "Volvo",
		IsActive:           true,
	}
}

func TestRecorderCreated(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)
	veh := testVehicle()

	rec.Created(context.Background(), veh)

	entries := allLogs(t, db)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, expected 1", len(entries))
	}
	e := entries[0]
	if e.Action != models.ActionCreate {
		t.Errorf("action = %q, expected %q", e.Action, models.ActionCreate)
	}
	if e.EntityType != "vehicle" {
		t.Errorf("entity_type = %q, expected %q", e.EntityType, "vehicle")
	}
	if e.EntityID != veh.ID.String() {
		t.Errorf("entity_id = %q, expected %q", e.EntityID, veh.ID.String())
	}
	if e.ObjectRepr != "AA1234BB - Volvo" {
		t.Errorf("object_repr = %q, expected %q", e.ObjectRepr, "AA1234BB - Volvo")
	}

	var changes map[string]string
	if err := json.Unmarshal(e.Changes, &changes); err != nil {
		t.Fatalf("unmarshal changes: %v", err)
	}
	if changes["registration_number"] != "AA1234BB" {
		t.Errorf("changes[registration_number] = %q, expected %q", changes["registration_number"], "AA1234BB")
	}
	if changes["make"] != "Volvo" {
		t.Errorf("changes[make] = %q, expected %q", changes["make"], "Volvo")
	}
}

func TestRecorderUpdated(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)
	veh := testVehicle()

	before := rec.Snapshot(veh)
	veh.RegistrationNumber = "CC5678DD"
	rec.Updated(context.Background(), veh, before)

	entries := allLogs(t, db)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, expected 1", len(entries))
	}
	if entries[0].Action != models.ActionUpdate {
		t.Errorf("action = %q, expected %q", entries[0].Action, models.ActionUpdate)
	}

	var changes map[string]Change
	if err := json.Unmarshal(entries[0].Changes, &changes); err != nil {
		t.Fatalf("unmarshal changes: %v", err)
	}
	if len(changes) != 1 {
		t.Fatalf("got %d changed fields %v, expected 1", len(changes), changes)
	}
	got, ok := changes["registration_number"]
	if !ok {
		t.Fatalf("changes missing registration_number: %v", changes)
	}
	if got.Old != "AA1234BB" || got.New != "CC5678DD" {
		t.Errorf("change = {%q, %q}, expected {%q, %q}", got.Old, got.New, "AA1234BB", "CC5678DD")
	}
}

func TestRecorderUpdatedNoChange(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)
	veh := testVehicle()

	before := rec.Snapshot(veh)
	rec.Updated(context.Background(), veh, before)

	if entries := allLogs(t, db); len(entries) != 0 {
		t.Fatalf("got %d log entries for a no-op update, expected 0", len(entries))
	}
}

func TestRecorderDeleted(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)
	veh := testVehicle()

	before := rec.Snapshot(veh)
	rec.Deleted(context.Background(), veh, before)

	entries := allLogs(t, db)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, expected 1", len(entries))
	}
	if entries[0].Action != models.ActionDelete {
		t.Errorf("action = %q, expected %q", entries[0].Action, models.ActionDelete)
	}
	var changes map[string]string
	if err := json.Unmarshal(entries[0].Changes, &changes); err != nil {
		t.Fatalf("unmarshal changes: %v", err)
	}
	if changes["registration_number"] != "AA1234BB" {
		t.Errorf("changes[registration_number] = %q, expected pre-delete snapshot value", changes["registration_number"])
	}
}

func TestRecorderActorAndRequestMeta(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)

	actorID := uuid.New()
	ctx := WithActor(context.Background(), Actor{ID: actorID, Name: "operator"})
	ctx = WithRequest(ctx, RequestMeta{Path: "/api/v1/vehicles", RemoteAddr: "10.1.2.3"})

	rec.Created(ctx, testVehicle())

	entries := allLogs(t, db)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, expected 1", len(entries))
	}
	e := entries[0]
	if e.UserID == nil || *e.UserID != actorID {
		t.Errorf("user_id = %v, expected %s", e.UserID, actorID)
	}
	if e.RequestPath != "/api/v1/vehicles" {
		t.Errorf("request_path = %q, expected %q", e.RequestPath, "/api/v1/vehicles")
	}
	if e.IPAddress != "10.1.2.3" {
		t.Errorf("ip_address = %q, expected %q", e.IPAddress, "10.1.2.3")
	}
}

func TestRecorderAnonymousActor(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 0)

	rec.Created(context.Background(), testVehicle())

	entries := allLogs(t, db)
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, expected 1", len(entries))
	}
	if entries[0].UserID != nil {
		t.Errorf("user_id = %v, expected nil for anonymous context", entries[0].UserID)
	}
}

func TestRecorderTrim(t *testing.T) {
	db := testDB(t)
	rec := NewRecorder(db, 5)

	var last *models.Vehicle
	for i := 0; i < 8; i++ {
		veh := testVehicle()
		veh.RegistrationNumber = fmt.Sprintf("AA%04dBB", i)
		rec.Created(context.Background(), veh)
		last = veh
	}

	entries := allLogs(t, db)
	if len(entries) != 5 {
		t.Fatalf("got %d log entries after trim, expected 5", len(entries))
	}
	newest := entries[len(entries)-1]
	if newest.EntityID != last.ID.String() {
		t.Errorf("newest entry is for %s, expected the most recent write %s", newest.EntityID, last.ID)
	}
	// the oldest three writes must be the ones trimmed
	oldest := entries[0]
	if oldest.ObjectRepr == "AA0000BB - Volvo" || oldest.ObjectRepr == "AA0001BB - Volvo" || oldest.ObjectRepr == "AA0002BB - Volvo" {
		t.Errorf("oldest surviving entry %q should have been trimmed", oldest.ObjectRepr)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		before map[string]string
		after  map[string]string
		want   map[string]Change
	}{
		{
			"single changed field",
			map[string]string{"state_number": "S1", "make": "Volvo"},
			map[string]string{"state_number": "S2", "make": "Volvo"},
			map[string]Change{"state_number": {Old: "S1", New: "S2"}},
		},
		{
			"no change",
			map[string]string{"make": "Volvo"},
			map[string]string{"make": "Volvo"},
			map[string]Change{},
		},
		{
			"nil before treats values as new",
			nil,
			map[string]string{"make": "Volvo"},
			map[string]Change{"make": {Old: "", New: "Volvo"}},
		},
		{
			"field dropped from after",
			map[string]string{"make": "Volvo", "comment": "old"},
			map[string]string{"make": "Volvo"},
			map[string]Change{"comment": {Old: "old", New: ""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.before, tt.after)
			if len(got) != len(tt.want) {
				t.Fatalf("Diff() = %v, expected %v", got, tt.want)
			}
			for field, want := range tt.want {
				if got[field] != want {
					t.Errorf("Diff()[%q] = %v, expected %v", field, got[field], want)
				}
			}
		})
	}
}
