package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/questdeck/backend/internal/domain"
)

// Achievements returns the full catalog with criteria loaded. The catalog
// is read-only configuration from the engine's point of view.
func (s *Store) Achievements(ctx context.Context) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := s.db.WithContext(ctx).
		Preload("Criteria").
		Order("id").
		Find(&achievements).Error
	if err != nil {
		return nil, err
	}
	return achievements, nil
}

// CriteriaByKind returns every criterion of the given kind across all
// achievements.
func (s *Store) CriteriaByKind(ctx context.Context, kind domain.CriterionKind) ([]domain.AchievementCriterion, error) {
	var criteria []domain.AchievementCriterion
	err := s.db.WithContext(ctx).
		Where("criterion_type = ?", kind).
		Order("id").
		Find(&criteria).Error
	if err != nil {
		return nil, err
	}
	return criteria, nil
}

// Progress returns the stored counter for one (user, criterion) pair, or
// nil when no row exists yet.
func (s *Store) Progress(ctx context.Context, userID, criterionID uint) (*domain.UserAchievementProgress, error) {
	var progress domain.UserAchievementProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND criterion_id = ?", userID, criterionID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// AllProgress returns every progress row for the user.
func (s *Store) AllProgress(ctx context.Context, userID uint) ([]domain.UserAchievementProgress, error) {
	var progress []domain.UserAchievementProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&progress).Error
	if err != nil {
		return nil, err
	}
	return progress, nil
}

// SetProgress creates or updates the counter for one (user, criterion)
// pair and stamps it.
func (s *Store) SetProgress(ctx context.Context, userID, criterionID uint, value int) error {
	existing, err := s.Progress(ctx, userID, criterionID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if existing == nil {
		return s.db.WithContext(ctx).Create(&domain.UserAchievementProgress{
			UserID:      userID,
			CriterionID: criterionID,
			Progress:    value,
			LastUpdated: now,
		}).Error
	}
	existing.Progress = value
	existing.LastUpdated = now
	return s.db.WithContext(ctx).Save(existing).Error
}

// UserAchievements returns every unlock record for the user.
func (s *Store) UserAchievements(ctx context.Context, userID uint) ([]domain.UserAchievement, error) {
	var unlocked []domain.UserAchievement
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&unlocked).Error
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// UserAchievement returns the unlock record for one (user, achievement)
// pair, or nil when the user has not earned it.
func (s *Store) UserAchievement(ctx context.Context, userID, achievementID uint) (*domain.UserAchievement, error) {
	var ua domain.UserAchievement
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ua, nil
}

// CreateUserAchievement records a first unlock with times_earned = 1.
func (s *Store) CreateUserAchievement(ctx context.Context, userID, achievementID uint) (*domain.UserAchievement, error) {
	ua := &domain.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now().UTC(),
		TimesEarned:   1,
	}
	if err := s.db.WithContext(ctx).Create(ua).Error; err != nil {
		return nil, err
	}
	return ua, nil
}

// IncrementUserAchievement bumps times_earned and refreshes the unlock
// timestamp for a repeatable achievement re-award. The passed record is
// updated in place.
func (s *Store) IncrementUserAchievement(ctx context.Context, ua *domain.UserAchievement) error {
	ua.TimesEarned++
	ua.UnlockedAt = time.Now().UTC()
	return s.db.WithContext(ctx).Save(ua).Error
}
