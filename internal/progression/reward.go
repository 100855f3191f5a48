package progression

import "github.com/questdeck/backend/internal/domain"

// BaseXP maps quest types to their configured base reward.
type BaseXP map[domain.QuestType]int

// DefaultBaseXP returns the stock base reward table. Deployments normally
// take this from config instead.
func DefaultBaseXP() BaseXP {
	return BaseXP{
		domain.TypeDaily:   5,
		domain.TypeRegular: 10,
		domain.TypeEpic:    25,
		domain.TypeBoss:    50,
	}
}

// rarityMultipliers are deliberately flat; the caps below do the real work
// of keeping rewards proportionate.
var rarityMultipliers = map[domain.QuestRarity]float64{
	domain.RarityCommon:    1.0,
	domain.RarityUncommon:  1.2,
	domain.RarityRare:      1.4,
	domain.RarityEpic:      2.0,
	domain.RarityLegendary: 3.0,
}

// QuestReward computes the experience reward for a quest from its rarity,
// type, priority and the owner's level. It is deterministic, never errors,
// and clamps rather than rejects out-of-range inputs.
//
// The result is capped at 5% of the user's next-level XP requirement (10%
// for exceptional quests) and floored at max(base, 5), the floor winning
// when the two conflict. The cap keeps a single quest from carrying a user
// through a level.
func QuestReward(base BaseXP, rarity domain.QuestRarity, questType domain.QuestType, priority, userLevel int) int {
	if userLevel < 1 {
		userLevel = 1
	}
	p := priority
	if p < 1 {
		p = 1
	}
	if p > 100 {
		p = 100
	}

	baseXP, ok := base[questType]
	if !ok {
		baseXP = DefaultBaseXP()[questType]
	}
	rarityMult, ok := rarityMultipliers[rarity]
	if !ok {
		rarityMult = 1.0
	}

	priorityMult := 0.9 + float64(p)*0.1

	cappedLevel := userLevel
	if cappedLevel > 30 {
		cappedLevel = 30
	}
	levelFactor := 1.0 + float64(cappedLevel-1)*0.7

	raw := int(float64(baseXP) * rarityMult * priorityMult * levelFactor)

	xpForNext := XPForNextLevel(userLevel)
	rewardCap := xpForNext * 5 / 100
	// NOTE: the exceptional threshold compares against the clamped 1-100
	// priority scale, so any non-floor priority qualifies. Kept as shipped.
	if rarity == domain.RarityLegendary && questType == domain.TypeBoss && p >= 4 {
		rewardCap = xpForNext * 10 / 100
	}

	minReward := baseXP
	if minReward < 5 {
		minReward = 5
	}

	if raw > rewardCap {
		raw = rewardCap
	}
	if raw < minReward {
		raw = minReward
	}
	return raw
}
