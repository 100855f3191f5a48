package store

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/questdeck/backend/internal/domain"
)

// CatalogFile is the on-disk shape of the achievement catalog.
type CatalogFile struct {
	Achievements []CatalogAchievement `yaml:"achievements"`
}

type CatalogAchievement struct {
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Icon        string             `yaml:"icon"`
	ExpReward   int                `yaml:"exp_reward"`
	Repeatable  bool               `yaml:"repeatable"`
	Criteria    []CatalogCriterion `yaml:"criteria"`
}

type CatalogCriterion struct {
	Type   domain.CriterionKind `yaml:"type"`
	Target int                  `yaml:"target"`
}

// LoadCatalog parses and validates an achievement catalog file. Every
// entry needs a unique name and at least one criterion of a known kind.
func LoadCatalog(path string) (*CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	var file CatalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	seen := make(map[string]bool)
	for _, a := range file.Achievements {
		if a.Name == "" {
			return nil, fmt.Errorf("catalog entry with empty name")
		}
		if seen[a.Name] {
			return nil, fmt.Errorf("duplicate achievement %q", a.Name)
		}
		seen[a.Name] = true
		if len(a.Criteria) == 0 {
			return nil, fmt.Errorf("achievement %q has no criteria", a.Name)
		}
		for _, c := range a.Criteria {
			if !knownKind(c.Type) {
				return nil, fmt.Errorf("achievement %q: unknown criterion type %q", a.Name, c.Type)
			}
			if c.Target < 1 {
				return nil, fmt.Errorf("achievement %q: criterion %s target must be >= 1", a.Name, c.Type)
			}
		}
	}
	return &file, nil
}

// SeedCatalog upserts the catalog into the database: achievements match by
// name and have their fields updated; missing criteria rows are inserted.
// Re-running with the same file is a no-op.
func (s *Store) SeedCatalog(ctx context.Context, file *CatalogFile) error {
	for _, entry := range file.Achievements {
		var achievement domain.Achievement
		err := s.db.WithContext(ctx).
			Where("name = ?", entry.Name).
			First(&achievement).Error
		switch {
		case err == nil:
			achievement.Description = entry.Description
			achievement.Icon = entry.Icon
			achievement.ExpReward = entry.ExpReward
			achievement.IsRepeatable = entry.Repeatable
			if err := s.db.WithContext(ctx).Save(&achievement).Error; err != nil {
				return fmt.Errorf("updating achievement %q: %w", entry.Name, err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			achievement = domain.Achievement{
				Name:         entry.Name,
				Description:  entry.Description,
				Icon:         entry.Icon,
				ExpReward:    entry.ExpReward,
				IsRepeatable: entry.Repeatable,
			}
			if err := s.db.WithContext(ctx).Create(&achievement).Error; err != nil {
				return fmt.Errorf("creating achievement %q: %w", entry.Name, err)
			}
		default:
			return fmt.Errorf("looking up achievement %q: %w", entry.Name, err)
		}

		for _, c := range entry.Criteria {
			var count int64
			err := s.db.WithContext(ctx).
				Model(&domain.AchievementCriterion{}).
				Where("achievement_id = ? AND criterion_type = ? AND target_value = ?",
					achievement.ID, c.Type, c.Target).
				Count(&count).Error
			if err != nil {
				return fmt.Errorf("checking criteria for %q: %w", entry.Name, err)
			}
			if count > 0 {
				continue
			}
			criterion := domain.AchievementCriterion{
				AchievementID: achievement.ID,
				Kind:          c.Type,
				TargetValue:   c.Target,
			}
			if err := s.db.WithContext(ctx).Create(&criterion).Error; err != nil {
				return fmt.Errorf("creating criterion for %q: %w", entry.Name, err)
			}
		}
	}
	s.log.Info("catalog seeded", "achievements", len(file.Achievements))
	return nil
}

func knownKind(kind domain.CriterionKind) bool {
	switch kind {
	case domain.KindQuestsCompleted,
		domain.KindBossQuestsCompleted,
		domain.KindEpicQuestsCompleted,
		domain.KindLegendaryQuestsCompleted,
		domain.KindUserLevel,
		domain.KindEarlyMorningCompletion,
		domain.KindLateNightCompletion:
		return true
	}
	return false
}
