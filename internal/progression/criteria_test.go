package progression

import (
	"testing"
	"time"

	"github.com/questdeck/backend/internal/domain"
)

func completedAt(hour int) time.Time {
	return time.Date(2025, 3, 14, hour, 30, 0, 0, time.UTC)
}

func TestProgressIncrements_AlwaysCountsCompletion(t *testing.T) {
	inc := progressIncrements(QuestSnapshot{
		Type: domain.TypeRegular, Rarity: domain.RarityCommon, CompletedAt: completedAt(12),
	}, time.Now())
	if inc[domain.KindQuestsCompleted] != 1 {
		t.Errorf("quests_completed = %d, want 1", inc[domain.KindQuestsCompleted])
	}
	if len(inc) != 1 {
		t.Errorf("plain noon completion contributed %d kinds, want 1: %v", len(inc), inc)
	}
}

func TestProgressIncrements_BossType(t *testing.T) {
	inc := progressIncrements(QuestSnapshot{
		Type: domain.TypeBoss, Rarity: domain.RarityCommon, CompletedAt: completedAt(12),
	}, time.Now())
	if inc[domain.KindBossQuestsCompleted] != 1 {
		t.Errorf("boss_quests_completed = %d, want 1", inc[domain.KindBossQuestsCompleted])
	}
}

func TestProgressIncrements_LegendaryBucket(t *testing.T) {
	tests := []struct {
		name   string
		qtype  domain.QuestType
		rarity domain.QuestRarity
		want   int
	}{
		{"epic type routes to legendary bucket", domain.TypeEpic, domain.RarityCommon, 1},
		{"legendary rarity", domain.TypeRegular, domain.RarityLegendary, 1},
		{"both at once increments once", domain.TypeEpic, domain.RarityLegendary, 1},
		{"neither", domain.TypeRegular, domain.RarityRare, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inc := progressIncrements(QuestSnapshot{
				Type: tt.qtype, Rarity: tt.rarity, CompletedAt: completedAt(12),
			}, time.Now())
			if got := inc[domain.KindLegendaryQuestsCompleted]; got != tt.want {
				t.Errorf("legendary_quests_completed = %d, want %d", got, tt.want)
			}
			if inc[domain.KindEpicQuestsCompleted] != 0 {
				t.Errorf("epic_quests_completed should never be fed by completions, got %d", inc[domain.KindEpicQuestsCompleted])
			}
		})
	}
}

func TestProgressIncrements_TimeOfDay(t *testing.T) {
	tests := []struct {
		hour      int
		wantEarly int
		wantLate  int
	}{
		{0, 1, 0},
		{6, 1, 0},
		{7, 1, 0},
		{8, 0, 0},
		{12, 0, 0},
		{21, 0, 0},
		{22, 0, 1},
		{23, 0, 1},
	}
	for _, tt := range tests {
		inc := progressIncrements(QuestSnapshot{
			Type: domain.TypeRegular, Rarity: domain.RarityCommon, CompletedAt: completedAt(tt.hour),
		}, time.Now())
		if got := inc[domain.KindEarlyMorningCompletion]; got != tt.wantEarly {
			t.Errorf("hour %d: early_morning_completion = %d, want %d", tt.hour, got, tt.wantEarly)
		}
		if got := inc[domain.KindLateNightCompletion]; got != tt.wantLate {
			t.Errorf("hour %d: late_night_completion = %d, want %d", tt.hour, got, tt.wantLate)
		}
	}
}

func TestProgressIncrements_ZeroTimestampFallsBackToNow(t *testing.T) {
	now := time.Date(2025, 3, 14, 6, 0, 0, 0, time.UTC)
	inc := progressIncrements(QuestSnapshot{
		Type: domain.TypeRegular, Rarity: domain.RarityCommon,
	}, now)
	if inc[domain.KindEarlyMorningCompletion] != 1 {
		t.Errorf("zero CompletedAt at 06:00 now: early_morning_completion = %d, want 1", inc[domain.KindEarlyMorningCompletion])
	}
}

func TestProgressIncrements_UserLevelNeverIncremented(t *testing.T) {
	for hour := 0; hour < 24; hour++ {
		inc := progressIncrements(QuestSnapshot{
			Type: domain.TypeBoss, Rarity: domain.RarityLegendary, CompletedAt: completedAt(hour),
		}, time.Now())
		if _, ok := inc[domain.KindUserLevel]; ok {
			t.Fatalf("hour %d: user_level must not appear in completion increments", hour)
		}
	}
}
