// Package progression converts user actions into experience, level-ups and
// achievement unlocks.
package progression

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/questdeck/backend/internal/domain"
	"github.com/questdeck/backend/internal/logger"
)

// Stores is the persistence surface the engine needs. All operations are
// scoped to a single user; the achievement catalog side is read-only.
type Stores interface {
	GetUser(ctx context.Context, id uint) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error

	// Catalog (read-only configuration).
	Achievements(ctx context.Context) ([]domain.Achievement, error)
	CriteriaByKind(ctx context.Context, kind domain.CriterionKind) ([]domain.AchievementCriterion, error)

	// Per-(user, criterion) progress counters.
	Progress(ctx context.Context, userID, criterionID uint) (*domain.UserAchievementProgress, error)
	AllProgress(ctx context.Context, userID uint) ([]domain.UserAchievementProgress, error)
	SetProgress(ctx context.Context, userID, criterionID uint, value int) error

	// Per-user unlock records.
	UserAchievements(ctx context.Context, userID uint) ([]domain.UserAchievement, error)
	CreateUserAchievement(ctx context.Context, userID, achievementID uint) (*domain.UserAchievement, error)
	IncrementUserAchievement(ctx context.Context, ua *domain.UserAchievement) error
}

// Transactor runs fn atomically against transaction-bound stores. Stores
// that cannot provide atomicity leave the engine running against its plain
// Stores, where the write order (progress, then awards, then level) keeps
// the inconsistency window as small as the backend allows.
type Transactor interface {
	Transact(ctx context.Context, fn func(Stores) error) error
}

// CompletionResult reports what a single completion changed.
type CompletionResult struct {
	LeveledUp bool
	Unlocked  []domain.Achievement
}

// Engine orchestrates progression state. Completions for the same user are
// serialized internally; the caller is still responsible for invoking
// HandleQuestCompletion exactly once per completion transition — calling
// it twice for the same completion double-awards XP.
type Engine struct {
	stores Stores
	tx     Transactor // nil means the store offers no transactions
	log    *logger.Logger

	mu    sync.Mutex
	locks map[uint]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewEngine creates an engine over the given stores. tx may be nil.
func NewEngine(stores Stores, tx Transactor, log *logger.Logger) *Engine {
	return &Engine{
		stores: stores,
		tx:     tx,
		log:    log.With("service", "progression"),
		locks:  make(map[uint]*userLock),
	}
}

// HandleQuestCompletion applies a quest completion to the user: quest XP,
// criterion progress, achievement unlocks with their XP, and the level-up
// cascade. A missing user is a no-op, not an error. Store failures abort
// the whole operation when a Transactor is wired.
func (e *Engine) HandleQuestCompletion(ctx context.Context, userID uint, quest QuestSnapshot) (CompletionResult, error) {
	unlock := e.lockUser(userID)
	defer unlock()

	var res CompletionResult
	run := func(s Stores) error {
		r, err := e.complete(ctx, s, userID, quest)
		if err != nil {
			return err
		}
		res = r
		return nil
	}

	var err error
	if e.tx != nil {
		err = e.tx.Transact(ctx, run)
	} else {
		err = run(e.stores)
	}
	if err != nil {
		return CompletionResult{}, fmt.Errorf("handle quest completion: %w", err)
	}
	return res, nil
}

func (e *Engine) complete(ctx context.Context, s Stores, userID uint, quest QuestSnapshot) (CompletionResult, error) {
	user, err := s.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		e.log.Warn("quest completion for unknown user", "user_id", userID)
		return CompletionResult{}, nil
	}
	if err != nil {
		return CompletionResult{}, err
	}

	initialXP := user.Experience
	initialLevel := user.Level

	// Quest XP lands before anything else so a later failure never loses it.
	user.Experience += quest.ExpReward
	if err := s.UpdateUser(ctx, user); err != nil {
		return CompletionResult{}, err
	}

	if err := e.recordQuestProgress(ctx, s, userID, quest); err != nil {
		return CompletionResult{}, err
	}

	// Request-scoped; keeps one achievement from being awarded twice when
	// both evaluation passes reach it.
	processed := make(map[uint]bool)

	leveledUp, unlocked, err := e.settle(ctx, s, userID, processed)
	if err != nil {
		return CompletionResult{}, err
	}

	user, err = s.GetUser(ctx, userID)
	if err != nil {
		return CompletionResult{}, err
	}
	e.log.Info("quest completion processed",
		"user_id", userID,
		"quest_xp", quest.ExpReward,
		"total_xp_change", user.Experience-initialXP,
		"level", fmt.Sprintf("%d->%d", initialLevel, user.Level),
		"unlocked", len(unlocked),
	)

	return CompletionResult{LeveledUp: leveledUp, Unlocked: unlocked}, nil
}

// recordQuestProgress bumps every criterion matching the quest's
// contribution kinds.
func (e *Engine) recordQuestProgress(ctx context.Context, s Stores, userID uint, quest QuestSnapshot) error {
	for kind, amount := range progressIncrements(quest, time.Now().UTC()) {
		if err := e.bumpProgress(ctx, s, userID, kind, amount); err != nil {
			return err
		}
	}
	return nil
}

// bumpProgress adds amount to every criterion of the given kind, clamped
// to each criterion's target. Writes happen only when the value changes.
func (e *Engine) bumpProgress(ctx context.Context, s Stores, userID uint, kind domain.CriterionKind, amount int) error {
	criteria, err := s.CriteriaByKind(ctx, kind)
	if err != nil {
		return err
	}
	for _, criterion := range criteria {
		progress, err := s.Progress(ctx, userID, criterion.ID)
		if err != nil {
			return err
		}
		current := 0
		if progress != nil {
			current = progress.Progress
		}
		value := current + amount
		if value > criterion.TargetValue {
			value = criterion.TargetValue
		}
		if progress != nil && progress.Progress == value {
			continue
		}
		if err := s.SetProgress(ctx, userID, criterion.ID, value); err != nil {
			return err
		}
	}
	return nil
}

// markLevelProgress sets every user_level criterion's progress to the
// user's level. The value is the level itself, not an increment.
func (e *Engine) markLevelProgress(ctx context.Context, s Stores, userID uint, level int) error {
	criteria, err := s.CriteriaByKind(ctx, domain.KindUserLevel)
	if err != nil {
		return err
	}
	for _, criterion := range criteria {
		progress, err := s.Progress(ctx, userID, criterion.ID)
		if err != nil {
			return err
		}
		if progress != nil && progress.Progress == level {
			continue
		}
		if err := s.SetProgress(ctx, userID, criterion.ID, level); err != nil {
			return err
		}
	}
	return nil
}

// settle evaluates achievements, applies their XP, runs the level-up
// cascade, and re-evaluates once for level-gated achievements.
func (e *Engine) settle(ctx context.Context, s Stores, userID uint, processed map[uint]bool) (bool, []domain.Achievement, error) {
	var newlyUnlocked []domain.Achievement

	unlocked, err := e.evaluateAchievements(ctx, s, userID, processed)
	if err != nil {
		return false, nil, err
	}
	if len(unlocked) > 0 {
		newlyUnlocked = append(newlyUnlocked, unlocked...)
		if err := e.awardAchievementXP(ctx, s, userID, unlocked); err != nil {
			return false, nil, err
		}
	}

	leveledUp, err := e.applyLevelUps(ctx, s, userID)
	if err != nil {
		return false, nil, err
	}

	if leveledUp {
		user, err := s.GetUser(ctx, userID)
		if err != nil {
			return false, nil, err
		}
		if err := e.markLevelProgress(ctx, s, userID, user.Level); err != nil {
			return false, nil, err
		}

		levelUnlocked, err := e.evaluateAchievements(ctx, s, userID, processed)
		if err != nil {
			return false, nil, err
		}
		if len(levelUnlocked) > 0 {
			newlyUnlocked = append(newlyUnlocked, levelUnlocked...)
			if err := e.awardAchievementXP(ctx, s, userID, levelUnlocked); err != nil {
				return false, nil, err
			}
		}
	}

	return leveledUp, newlyUnlocked, nil
}

// awardAchievementXP adds the summed reward of the given achievements to
// the user in a single persist.
func (e *Engine) awardAchievementXP(ctx context.Context, s Stores, userID uint, achievements []domain.Achievement) error {
	total := 0
	for _, a := range achievements {
		total += a.ExpReward
	}
	if total == 0 {
		return nil
	}
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	user.Experience += total
	if err := s.UpdateUser(ctx, user); err != nil {
		return err
	}
	e.log.Info("achievement XP awarded", "user_id", userID, "xp", total)
	return nil
}

// applyLevelUps advances the user's level while the running XP total
// crosses each next threshold, possibly several levels in one step.
func (e *Engine) applyLevelUps(ctx context.Context, s Stores, userID uint) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	original := user.Level
	for user.Experience >= XPForNextLevel(user.Level) {
		user.Level++
	}
	if user.Level == original {
		return false, nil
	}
	if err := s.UpdateUser(ctx, user); err != nil {
		return false, err
	}
	e.log.Info("user leveled up", "user_id", userID, "from", original, "to", user.Level)
	return true, nil
}

// evaluateAchievements checks every catalog achievement not yet processed
// in this invocation. All criteria must pass: user_level criteria compare
// the user's level directly, all others compare stored progress against
// the target. Each achievement is marked processed whether or not it
// unlocks.
func (e *Engine) evaluateAchievements(ctx context.Context, s Stores, userID uint, processed map[uint]bool) ([]domain.Achievement, error) {
	user, err := s.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	catalog, err := s.Achievements(ctx)
	if err != nil {
		return nil, err
	}
	earnedList, err := s.UserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	progressList, err := s.AllProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := make(map[uint]*domain.UserAchievement, len(earnedList))
	for i := range earnedList {
		earned[earnedList[i].AchievementID] = &earnedList[i]
	}
	progressByCriterion := make(map[uint]int, len(progressList))
	for _, p := range progressList {
		progressByCriterion[p.CriterionID] = p.Progress
	}

	var newlyUnlocked []domain.Achievement
	for _, achievement := range catalog {
		if processed[achievement.ID] {
			continue
		}
		existing := earned[achievement.ID]
		if existing != nil && !achievement.IsRepeatable {
			continue
		}
		processed[achievement.ID] = true

		met := true
		for _, criterion := range achievement.Criteria {
			if criterion.Kind == domain.KindUserLevel {
				if user.Level < criterion.TargetValue {
					met = false
					break
				}
			} else if progressByCriterion[criterion.ID] < criterion.TargetValue {
				met = false
				break
			}
		}
		if !met {
			continue
		}

		switch {
		case existing != nil && achievement.IsRepeatable:
			if err := s.IncrementUserAchievement(ctx, existing); err != nil {
				return nil, err
			}
			e.log.Info("repeatable achievement re-earned", "user_id", userID, "achievement", achievement.Name, "times_earned", existing.TimesEarned)
		case existing == nil:
			if _, err := s.CreateUserAchievement(ctx, userID, achievement.ID); err != nil {
				return nil, err
			}
			e.log.Info("achievement unlocked", "user_id", userID, "achievement", achievement.Name)
		default:
			continue
		}
		newlyUnlocked = append(newlyUnlocked, achievement)
	}
	return newlyUnlocked, nil
}

// lockUser serializes progression mutations per user. The returned func
// releases the lock and drops the entry once no caller holds it.
func (e *Engine) lockUser(userID uint) func() {
	e.mu.Lock()
	l, ok := e.locks[userID]
	if !ok {
		l = &userLock{}
		e.locks[userID] = l
	}
	l.refs++
	e.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		e.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(e.locks, userID)
		}
		e.mu.Unlock()
	}
}
