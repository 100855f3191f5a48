package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/questdeck/backend/internal/domain"
)

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if user.Level < 1 {
		user.Level = 1
	}
	return s.db.WithContext(ctx).Create(user).Error
}

// GetUser returns the user with the given ID, or domain.ErrNotFound.
func (s *Store) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser persists the user's current state.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	return s.db.WithContext(ctx).Save(user).Error
}
