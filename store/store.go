// Package store is the persistence layer for all tracked entities. Every
// write goes through one of its methods so the audit recorder sees a
// snapshot before and the saved state after each mutation; call sites do
// not opt in to change capture individually.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"p9e.in/fleettrack/models"
	"p9e.in/fleettrack/pkg/audit"
)

type Store struct {
	db  *gorm.DB
	rec *audit.Recorder

	mu           sync.Mutex
	trackerLocks map[uuid.UUID]*sync.Mutex
}

func New(db *gorm.DB, rec *audit.Recorder) *Store {
	return &Store{db: db, rec: rec, trackerLocks: make(map[uuid.UUID]*sync.Mutex)}
}

// DB exposes the underlying handle for read-only report queries.
func (s *Store) DB() *gorm.DB { return s.db }

// lockTracker serializes assignment changes for one tracker. The
// resolve / deactivate / create sequence must not interleave with another
// assignment of the same tracker.
func (s *Store) lockTracker(id uuid.UUID) func() {
	s.mu.Lock()
	l, ok := s.trackerLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.trackerLocks[id] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

func (s *Store) exists(model any, id uuid.UUID) error {
	var n int64
	if err := s.db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// today returns the current date truncated to midnight UTC; installation
// and removal dates are date-only values.
func today() models.JSONDate {
	y, m, d := time.Now().UTC().Date()
	return models.JSONDate(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}
