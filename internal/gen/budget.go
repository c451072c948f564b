package gen

import (
	"log/slog"

	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/entropy"
)

// Budgets holds the four abstract stat targets generation aims to hit.
type Budgets struct {
	HP         float64
	Damage     float64
	Defense    float64
	Initiative float64
}

// sampleBudgets draws each budget uniformly from the family's declared
// ranges. Missing budgets yield zero draws, a degenerate NPC rather
// than an error.
func sampleBudgets(f *config.Family, v entropy.Variance) Budgets {
	return Budgets{
		HP:         sampleRange(f.Budget(config.BudgetHP), v),
		Damage:     sampleRange(f.Budget(config.BudgetDamage), v),
		Defense:    sampleRange(f.Budget(config.BudgetDefense), v),
		Initiative: sampleRange(f.Budget(config.BudgetInitiative), v),
	}
}

// sampleRange draws uniformly from [min, max]. An inverted range is
// treated as the single point min.
func sampleRange(r config.Range, v entropy.Variance) float64 {
	min, max := r.Min, r.Max
	if max < min {
		max = min
	}
	return min + v.Float64()*(max-min)
}

// get returns one budget by key.
func (b Budgets) get(key string) float64 {
	switch key {
	case config.BudgetHP:
		return b.HP
	case config.BudgetDamage:
		return b.Damage
	case config.BudgetDefense:
		return b.Defense
	case config.BudgetInitiative:
		return b.Initiative
	}
	return 0
}

// set assigns one budget by key.
func (b *Budgets) set(key string, value float64) {
	switch key {
	case config.BudgetHP:
		b.HP = value
	case config.BudgetDamage:
		b.Damage = value
	case config.BudgetDefense:
		b.Defense = value
	case config.BudgetInitiative:
		b.Initiative = value
	}
}

// multiply scales each budget by its entry in the table, identity when
// the table has no entry for a key.
func (b *Budgets) multiply(table map[string]float64) {
	for _, key := range config.BudgetKeys {
		if m, ok := table[key]; ok {
			b.set(key, b.get(key)*m)
		}
	}
}

// applyVariantModifiers layers a variant's per-budget adjustments on the
// sampled budgets: multiply first, then add.
func applyVariantModifiers(b Budgets, mods map[string]config.StatModifier) Budgets {
	for _, key := range config.BudgetKeys {
		mod, ok := mods[key]
		if !ok {
			continue
		}
		value := b.get(key)
		if mod.Mul != nil {
			value *= *mod.Mul
		}
		if mod.Add != nil {
			value += *mod.Add
		}
		b.set(key, value)
	}
	for key := range mods {
		if !isBudgetKey(key) {
			slog.Warn("variant stat modifier targets unknown budget", "budget", key)
		}
	}
	return b
}

func isBudgetKey(key string) bool {
	for _, k := range config.BudgetKeys {
		if k == key {
			return true
		}
	}
	return false
}
