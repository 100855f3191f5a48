// Package domain holds the persisted model types shared by the store and
// the progression engine.
package domain

import (
	"errors"
	"time"
)

// ErrNotFound is returned by store lookups when no matching row exists.
var ErrNotFound = errors.New("not found")

// QuestRarity scales a quest's reward multiplier.
type QuestRarity string

const (
	RarityCommon    QuestRarity = "common"
	RarityUncommon  QuestRarity = "uncommon"
	RarityRare      QuestRarity = "rare"
	RarityEpic      QuestRarity = "epic"
	RarityLegendary QuestRarity = "legendary"
)

// QuestType selects a quest's base XP value.
type QuestType string

const (
	TypeDaily   QuestType = "daily"
	TypeRegular QuestType = "regular"
	TypeEpic    QuestType = "epic"
	TypeBoss    QuestType = "boss"
)

// CriterionKind is the closed set of countable conditions an achievement
// criterion can track. Persisted as the criterion_type column so existing
// catalogs keep loading.
type CriterionKind string

const (
	KindQuestsCompleted          CriterionKind = "quests_completed"
	KindBossQuestsCompleted      CriterionKind = "boss_quests_completed"
	KindEpicQuestsCompleted      CriterionKind = "epic_quests_completed"
	KindLegendaryQuestsCompleted CriterionKind = "legendary_quests_completed"
	KindUserLevel                CriterionKind = "user_level"
	KindEarlyMorningCompletion   CriterionKind = "early_morning_completion"
	KindLateNightCompletion      CriterionKind = "late_night_completion"
)

// User carries the progression state the engine mutates. Experience is a
// running total that is never reset on level-up.
type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Level      int       `gorm:"default:1" json:"level"`
	Experience int       `gorm:"default:0" json:"experience"`
	CreatedAt  time.Time `json:"created_at"`
}

// Quest is a user task with gamified metadata. ExpReward is computed once
// at creation time; CompletedAt is set once on the false→true completion
// transition and never cleared.
type Quest struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"index" json:"title"`
	Description string      `json:"description,omitempty"`
	Rarity      QuestRarity `gorm:"default:common" json:"rarity"`
	Type        QuestType   `gorm:"column:quest_type;default:regular" json:"quest_type"`
	Priority    int         `gorm:"default:1" json:"priority"`
	ExpReward   int         `gorm:"default:10" json:"exp_reward"`
	IsCompleted bool        `gorm:"default:false" json:"is_completed"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
	OwnerID     uint        `gorm:"index" json:"owner_id"`
	Tracked     bool        `gorm:"default:true" json:"tracked"`
	CreatedAt   time.Time   `json:"created_at"`
}

// Achievement is a reward unlocked when all of its criteria are satisfied.
// Rows are seeded out-of-band and treated as read-only by the engine.
type Achievement struct {
	ID           uint                   `gorm:"primaryKey" json:"id"`
	Name         string                 `gorm:"uniqueIndex" json:"name"`
	Description  string                 `json:"description"`
	Icon         string                 `json:"icon,omitempty"`
	ExpReward    int                    `gorm:"default:50" json:"exp_reward"`
	IsRepeatable bool                   `gorm:"default:false" json:"is_repeatable"`
	Criteria     []AchievementCriterion `json:"criteria"`
}

// AchievementCriterion is one countable condition belonging to exactly one
// achievement.
type AchievementCriterion struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	AchievementID uint          `gorm:"index" json:"achievement_id"`
	Kind          CriterionKind `gorm:"column:criterion_type;index" json:"criterion_type"`
	TargetValue   int           `json:"target_value"`
}

// UserAchievement records one user's unlock of one achievement. For
// repeatable achievements TimesEarned counts re-awards and UnlockedAt is
// refreshed on each one.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement" json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	TimesEarned   int       `gorm:"default:1" json:"times_earned"`
}

// UserAchievementProgress is the stored counter for one (user, criterion)
// pair. Progress only moves toward the criterion's target and is clamped
// there; rows are created lazily on first contribution.
type UserAchievementProgress struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex:idx_user_criterion" json:"user_id"`
	CriterionID uint      `gorm:"uniqueIndex:idx_user_criterion" json:"criterion_id"`
	Progress    int       `json:"progress"`
	LastUpdated time.Time `json:"last_updated"`
}
