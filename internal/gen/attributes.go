package gen

import (
	"math"

	"github.com/kaelwren/npcforge/internal/stats"
)

// Attribute modifiers derived from budgets are clamped to this band,
// which keeps scores in [6, 22].
const (
	minModifier = -2
	maxModifier = 6
)

// baselineWeaponDamage approximates the average damage a weapon
// contributes on its own, so the strength modifier only accounts for the
// remainder of the damage budget.
const baselineWeaponDamage = 3

// dexDefenseCap is the most dexterity can contribute to defense, matching
// the forward formula in the stats sheet.
const dexDefenseCap = 5

// Scores holds the six primary attribute values produced by the mapper.
type Scores struct {
	Strength     float64
	Dexterity    float64
	Constitution float64
	Intelligence float64
	Wisdom       float64
	Charisma     float64
}

// mapBudgetsToScores inverts the scaled budgets into primary attributes.
// It works backward from the forward formulas: initiative = DEX_mod,
// defense = 10 + CON_mod + min(DEX_mod, 5), damage ≈ baseline + STR_mod.
// The dexterity modifier is computed first because the constitution
// inversion depends on it. Mental attributes stay at the neutral 10; no
// budget drives them on this path.
func mapBudgetsToScores(b Budgets) Scores {
	dexMod := clampInt(int(math.Round(b.Initiative)), minModifier, maxModifier)

	dexForDefense := dexMod
	if dexForDefense > dexDefenseCap {
		dexForDefense = dexDefenseCap
	}
	conMod := clampInt(int(math.Round(b.Defense))-10-dexForDefense, minModifier, maxModifier)

	strMod := clampInt(int(math.Round(b.Damage-baselineWeaponDamage)), minModifier, maxModifier)

	return Scores{
		Strength:     scoreFromModifier(strMod),
		Dexterity:    scoreFromModifier(dexMod),
		Constitution: scoreFromModifier(conMod),
		Intelligence: 10,
		Wisdom:       10,
		Charisma:     10,
	}
}

// scoreFromModifier converts a modifier back to a base attribute score.
func scoreFromModifier(mod int) float64 {
	return float64(10 + 2*mod)
}

// apply pushes the scores into a stat sheet. Attribute rejections are
// treated as the sheet not supporting that attribute.
func (sc Scores) apply(sys stats.System) {
	pairs := []struct {
		attr  stats.Attribute
		value float64
	}{
		{stats.Strength, sc.Strength},
		{stats.Dexterity, sc.Dexterity},
		{stats.Constitution, sc.Constitution},
		{stats.Intelligence, sc.Intelligence},
		{stats.Wisdom, sc.Wisdom},
		{stats.Charisma, sc.Charisma},
	}
	for _, p := range pairs {
		_ = sys.SetBaseStat(p.attr, p.value)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
