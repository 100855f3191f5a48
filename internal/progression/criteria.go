package progression

import (
	"time"

	"github.com/questdeck/backend/internal/domain"
)

// QuestSnapshot is the slice of a completed quest the engine needs. The
// caller fills it from the quest row at the moment of the completion
// transition.
type QuestSnapshot struct {
	ExpReward   int
	Type        domain.QuestType
	Rarity      domain.QuestRarity
	CompletedAt time.Time
}

// earlyMorningBefore / lateNightFrom bound the time-of-day criteria, in
// whole UTC hours.
const (
	earlyMorningBefore = 8
	lateNightFrom      = 22
)

// progressIncrements returns the criterion kinds a completed quest
// contributes to, each with its increment amount. user_level is absent on
// purpose: its progress value is the level itself, written by the engine
// after a level-up rather than incremented per event.
//
// Quest type EPIC and rarity LEGENDARY both route to the legendary bucket
// (one increment even when both hold). The source's two call sites
// disagreed on this mapping; see DESIGN.md for the reconciliation.
func progressIncrements(quest QuestSnapshot, now time.Time) map[domain.CriterionKind]int {
	inc := map[domain.CriterionKind]int{
		domain.KindQuestsCompleted: 1,
	}

	if quest.Type == domain.TypeBoss {
		inc[domain.KindBossQuestsCompleted] = 1
	}
	if quest.Type == domain.TypeEpic || quest.Rarity == domain.RarityLegendary {
		inc[domain.KindLegendaryQuestsCompleted] = 1
	}

	completedAt := quest.CompletedAt
	if completedAt.IsZero() {
		completedAt = now
	}
	hour := completedAt.UTC().Hour()
	if hour < earlyMorningBefore {
		inc[domain.KindEarlyMorningCompletion] = 1
	} else if hour >= lateNightFrom {
		inc[domain.KindLateNightCompletion] = 1
	}

	return inc
}
