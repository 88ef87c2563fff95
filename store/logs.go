package store

import (
	"time"

	"p9e.in/fleettrack/models"
)

// LogFilter narrows an action log query. Zero values mean "no filter".
type LogFilter struct {
	EntityType string
	EntityID   string
	Action     models.LogAction
	Since      *time.Time
	Until      *time.Time
	Limit      int
}

// LogEntries returns audit records newest first. Entries are read-only;
// nothing outside the audit recorder writes to this table.
func (s *Store) LogEntries(f LogFilter) ([]models.ActionLog, error) {
	q := s.db.Preload("User").Order("timestamp desc")
	if f.EntityType != "" {
		q = q.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != "" {
		q = q.Where("entity_id = ?", f.EntityID)
	}
	if f.Action != "" {
		q = q.Where("action = ?", f.Action)
	}
	if f.Since != nil {
		q = q.Where("timestamp >= ?", *f.Since)
	}
	if f.Until != nil {
		q = q.Where("timestamp <= ?", *f.Until)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var entries []models.ActionLog
	err := q.Find(&entries).Error
	return entries, err
}
