package audit

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
)

// Entity is implemented by every audited model. AuditFields returns an
// explicit field-name to serialized-value map (dates ISO-8601, everything
// else its default string form); Label is the human-readable representation
// captured at the moment of the event. ActionLog itself deliberately does
// not implement Entity, so the recorder can never recurse into its own
// table.
type Entity interface {
	EntityType() string
	EntityID() string
	Label() string
	AuditFields() map[string]string
}

// Change is one field's before/after pair in an update diff.
type Change struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// DefaultMaxEntries bounds the action log when AUDIT_LOG_MAX_ENTRIES is
// not configured.
const DefaultMaxEntries = 10000

// Recorder writes ActionLog rows for entity mutations and trims the log
// to its retention bound after every write. Recorder failures are reported
// to the operational log and never propagate: auditing must not fail the
// business operation that triggered it.
type Recorder struct {
	db         *gorm.DB
	maxEntries int
}

func NewRecorder(db *gorm.DB, maxEntries int) *Recorder {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recorder{db: db, maxEntries: maxEntries}
}

// Snapshot captures an entity's current field values. Callers take it
// before an update or delete so the recorder can diff against it.
func (r *Recorder) Snapshot(e Entity) map[string]string {
	if e == nil {
		return nil
	}
	return e.AuditFields()
}

// Created logs a create with every field's current value.
func (r *Recorder) Created(ctx context.Context, e Entity) {
	if r == nil || e == nil {
		return
	}
	r.record(ctx, models.ActionCreate, e, e.AuditFields())
}

// Updated diffs the pre-save snapshot against the entity's current state
// and logs the changed fields. An update that changed nothing is not
// logged.
func (r *Recorder) Updated(ctx context.Context, e Entity, before map[string]string) {
	if r == nil || e == nil {
		return
	}
	diff := Diff(before, e.AuditFields())
	if len(diff) == 0 {
		return
	}
	r.record(ctx, models.ActionUpdate, e, diff)
}

// Deleted logs a delete with the full pre-delete snapshot.
func (r *Recorder) Deleted(ctx context.Context, e Entity, before map[string]string) {
	if r == nil || e == nil {
		return
	}
	if before == nil {
		before = e.AuditFields()
	}
	r.record(ctx, models.ActionDelete, e, before)
}

// Diff maps each field whose serialized value differs between the two
// snapshots to its old/new pair. A nil before snapshot compares as empty.
func Diff(before, after map[string]string) map[string]Change {
	diff := make(map[string]Change)
	for name, newVal := range after {
		oldVal := before[name]
		if oldVal != newVal {
			diff[name] = Change{Old: oldVal, New: newVal}
		}
	}
	for name, oldVal := range before {
		if _, ok := after[name]; !ok {
			diff[name] = Change{Old: oldVal, New: ""}
		}
	}
	return diff
}

func (r *Recorder) record(ctx context.Context, action models.LogAction, e Entity, changes any) {
	payload, err := json.Marshal(changes)
	if err != nil {
		log.Printf("audit: marshal changes for %s %s: %v", e.EntityType(), e.EntityID(), err)
		return
	}

	var userID *uuid.UUID
	if actor, ok := ActorFrom(ctx); ok {
		id := actor.ID
		userID = &id
	}
	meta := RequestFrom(ctx)

	entry := models.ActionLog{
		UserID:      userID,
		EntityType:  e.EntityType(),
		EntityID:    e.EntityID(),
		ObjectRepr:  e.Label(),
		Action:      action,
		Changes:     payload,
		RequestPath: meta.Path,
		IPAddress:   meta.RemoteAddr,
	}
	if err := r.db.Create(&entry).Error; err != nil {
		log.Printf("audit: save log for %s %s: %v", e.EntityType(), e.EntityID(), err)
		return
	}

	r.trim()
}

// trim deletes the oldest entries until the log is back at or under the
// retention bound. Safe to call redundantly; never raises.
func (r *Recorder) trim() {
	var count int64
	if err := r.db.Model(&models.ActionLog{}).Count(&count).Error; err != nil {
		log.Printf("audit: count logs: %v", err)
		return
	}
	excess := count - int64(r.maxEntries)
	if excess <= 0 {
		return
	}

	var ids []uuid.UUID
	if err := r.db.Model(&models.ActionLog{}).
		Order("timestamp asc").
		Limit(int(excess)).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("audit: select oldest logs: %v", err)
		return
	}
	if err := r.db.Delete(&models.ActionLog{}, "id IN ?", ids).Error; err != nil {
		log.Printf("audit: trim logs: %v", err)
	}
}
