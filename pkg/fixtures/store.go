package fixtures

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Store persists and re-queries fixture records
type Store interface {
	Create(ctx context.Context, rec Record) error
	Find(ctx context.Context, dest Record, id uint, preload ...string) error
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Create inserts rec and its associations.
func (s *GormStore) Create(ctx context.Context, rec Record) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

// Find loads the record with id into dest.
func (s *GormStore) Find(ctx context.Context, dest Record, id uint, preload ...string) error {
	q := s.db.WithContext(ctx)
	for _, assoc := range preload {
		q = q.Preload(assoc)
	}
	if err := q.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s %d", ErrRecordNotFound, dest.TableName(), id)
		}
		return err
	}
	return nil
}

// Transaction runs fn against a store bound to one database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
