// Package store is the gorm-backed persistence layer for users, the
// achievement catalog, and per-user progression state.
package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/questdeck/backend/internal/logger"
	"github.com/questdeck/backend/internal/progression"
)

// Store bundles all persistence operations on one gorm handle. A Store
// obtained inside Transact is bound to that transaction.
type Store struct {
	db  *gorm.DB
	log *logger.Logger
}

func New(db *gorm.DB, baseLog *logger.Logger) *Store {
	return &Store{db: db, log: baseLog.With("component", "store")}
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *gorm.DB { return s.db }

// Transact runs fn inside a single database transaction. Any error from fn
// rolls the whole transaction back, so a progression step never applies
// partially.
func (s *Store) Transact(ctx context.Context, fn func(progression.Stores) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, log: s.log})
	})
}
