package gen

import (
	"testing"

	"github.com/kaelwren/npcforge/internal/config"
)

func testRules() config.Rules {
	return config.Rules{
		Difficulty: map[string]map[string]float64{
			"normal": {"hp": 1.0, "damage": 1.0, "defense": 1.0, "initiative": 1.0},
			"hard":   {"hp": 1.3, "damage": 1.2},
		},
		EncounterSize: map[string]map[string]float64{
			"solo": {"hp": 1.0},
			"pack": {"hp": 0.75, "damage": 0.85},
		},
		PlayerLevelCurve: map[string]float64{
			"hp": 1.0, "damage": 1.0, "defense": 1.0, "initiative": 1.0,
		},
	}
}

func TestScalePipelineIdentity(t *testing.T) {
	b := Budgets{HP: 25, Damage: 4, Defense: 12, Initiative: 2}
	out := scalePipeline(b, nil, testRules(), "normal", "solo")
	if out != b {
		t.Errorf("identity multipliers changed budgets: %+v", out)
	}
}

func TestScalePipelineDifficulty(t *testing.T) {
	b := Budgets{HP: 25, Damage: 4, Defense: 12, Initiative: 2}
	out := scalePipeline(b, nil, testRules(), "hard", "solo")
	if out.HP != 25*1.3 {
		t.Errorf("HP = %v, want %v", out.HP, 25*1.3)
	}
	if out.Damage != 4*1.2 {
		t.Errorf("Damage = %v, want %v", out.Damage, 4*1.2)
	}
	// hard declares no defense/initiative multipliers: identity.
	if out.Defense != 12 || out.Initiative != 2 {
		t.Errorf("undeclared multipliers applied: %+v", out)
	}
}

func TestScalePipelineEncounterSize(t *testing.T) {
	b := Budgets{HP: 40, Damage: 10}
	out := scalePipeline(b, nil, testRules(), "normal", "pack")
	if out.HP != 30 {
		t.Errorf("HP = %v, want 30", out.HP)
	}
	if out.Damage != 8.5 {
		t.Errorf("Damage = %v, want 8.5", out.Damage)
	}
}

func TestScalePipelineOverlayAppliesFirst(t *testing.T) {
	overlay := config.Overlay{
		Multipliers: map[string]float64{"defense": 1.5},
	}
	b := Budgets{Defense: 12}
	out := scalePipeline(b, &overlay, testRules(), "normal", "solo")
	if out.Defense != 18 {
		t.Errorf("Defense = %v, want 18", out.Defense)
	}
	// Unspecified overlay multipliers default to identity.
	b2 := Budgets{HP: 25}
	out2 := scalePipeline(b2, &overlay, testRules(), "normal", "solo")
	if out2.HP != 25 {
		t.Errorf("HP = %v, want 25", out2.HP)
	}
}

func TestScalePipelineStacksMultiplicatively(t *testing.T) {
	overlay := config.Overlay{Multipliers: map[string]float64{"hp": 2.0}}
	b := Budgets{HP: 20}
	out := scalePipeline(b, &overlay, testRules(), "hard", "pack")
	want := 20.0 * 2.0 * 1.3 * 0.75
	if out.HP != want {
		t.Errorf("HP = %v, want %v", out.HP, want)
	}
}

func TestLookupScalingRowCaseInsensitive(t *testing.T) {
	rules := testRules()
	row := lookupScalingRow(rules.Difficulty, "HARD", "normal", "difficulty")
	if row["hp"] != 1.3 {
		t.Errorf("case-insensitive lookup returned %v", row)
	}
}

func TestLookupScalingRowUnknownFallsBack(t *testing.T) {
	rules := testRules()
	row := lookupScalingRow(rules.Difficulty, "nightmare", "normal", "difficulty")
	if row["hp"] != 1.0 {
		t.Errorf("fallback lookup returned %v", row)
	}
}

func TestLookupScalingRowMissingFallbackUsesFirstSorted(t *testing.T) {
	table := map[string]map[string]float64{
		"zeta":  {"hp": 9},
		"alpha": {"hp": 3},
	}
	row := lookupScalingRow(table, "unknown", "normal", "difficulty")
	if row["hp"] != 3 {
		t.Errorf("first-sorted fallback returned %v, want the alpha row", row)
	}
}

func TestLookupScalingRowEmptyTable(t *testing.T) {
	if row := lookupScalingRow(nil, "normal", "normal", "difficulty"); row != nil {
		t.Errorf("empty table returned %v, want nil", row)
	}
}

func TestScalePipelineLevelCurveIsFlat(t *testing.T) {
	rules := testRules()
	rules.PlayerLevelCurve = map[string]float64{"hp": 1.1}
	b := Budgets{HP: 10}
	out := scalePipeline(b, nil, rules, "normal", "solo")
	if out.HP != 11 {
		t.Errorf("HP = %v, want 11", out.HP)
	}
}
