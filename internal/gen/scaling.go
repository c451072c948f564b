package gen

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/kaelwren/npcforge/internal/config"
)

// Fallback keys when a requested difficulty or encounter size is not in
// the rules tables.
const (
	fallbackDifficulty    = "normal"
	fallbackEncounterSize = "solo"
)

// scalePipeline applies the four scaling steps in fixed order: overlay
// multipliers, difficulty, encounter size, level curve. The level curve
// is a flat per-budget multiplier; the level itself only shapes the stat
// sheet later.
func scalePipeline(b Budgets, overlay *config.Overlay, rules config.Rules, difficulty, encounterSize string) Budgets {
	if overlay != nil {
		for _, key := range config.BudgetKeys {
			b.set(key, b.get(key)*overlay.Multiplier(key))
		}
	}

	if row := lookupScalingRow(rules.Difficulty, difficulty, fallbackDifficulty, "difficulty"); row != nil {
		b.multiply(row)
	}
	if row := lookupScalingRow(rules.EncounterSize, encounterSize, fallbackEncounterSize, "encounter size"); row != nil {
		b.multiply(row)
	}
	if rules.PlayerLevelCurve != nil {
		b.multiply(rules.PlayerLevelCurve)
	}

	return b
}

// lookupScalingRow resolves a scaling table row case-insensitively.
// Unknown keys warn and fall back, first to the table's designated
// fallback row, then to the first row in sorted key order. A nil result
// means the table is empty and the step is skipped.
func lookupScalingRow(table map[string]map[string]float64, key, fallback, axis string) map[string]float64 {
	if len(table) == 0 {
		return nil
	}

	if row, ok := matchRow(table, key); ok {
		return row
	}

	slog.Warn("unknown scaling key, using fallback", "axis", axis, "key", key, "fallback", fallback)
	if row, ok := matchRow(table, fallback); ok {
		return row
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return table[keys[0]]
}

func matchRow(table map[string]map[string]float64, key string) (map[string]float64, bool) {
	if key == "" {
		return nil, false
	}
	if row, ok := table[key]; ok {
		return row, true
	}
	lower := strings.ToLower(key)
	for k, row := range table {
		if strings.ToLower(k) == lower {
			return row, true
		}
	}
	return nil, false
}
