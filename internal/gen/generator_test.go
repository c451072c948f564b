package gen

import (
	"errors"
	"testing"

	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/entropy"
	"github.com/kaelwren/npcforge/internal/npc"
	"github.com/kaelwren/npcforge/internal/stats"
)

func testStore() *config.Store {
	one := 1
	none := []string{}
	gated := []string{"default_boss"}

	families := map[string]config.Family{
		"wolf_pack_base": {
			Name:        "Wolf",
			Description: "A lean gray wolf.",
			StatBudgets: map[string]config.Range{
				"hp":         {Min: 20, Max: 30},
				"damage":     {Min: 3, Max: 5},
				"defense":    {Min: 16, Max: 16},
				"initiative": {Min: 2, Max: 2},
			},
			AllowedRoles: []string{"skirmisher", "harrier"},
			AbilityPools: config.AbilityPools{
				Global:        []string{"bite", "pack_howl"},
				RoleOverrides: map[string][]string{"skirmisher": {"lunge"}},
			},
			DefaultTags:   []string{"beast"},
			IsBossAllowed: true,
		},
		"capped": {
			Name:         "Capped",
			AllowedRoles: []string{"tank", "support"},
			AbilityPools: config.AbilityPools{
				Global:        []string{"slash"},
				RoleOverrides: map[string][]string{"tank": {"shield_bash"}},
			},
			Rules: config.FamilyRules{MaxAbilities: &one},
		},
		"meek": {
			Name:          "Meek",
			IsBossAllowed: false,
		},
		"locked": {
			Name:          "Locked",
			IsBossAllowed: true,
			Rules:         config.FamilyRules{AllowedOverlays: &none},
		},
		"gated": {
			Name:          "Gated",
			IsBossAllowed: true,
			Rules:         config.FamilyRules{AllowedOverlays: &gated},
		},
	}

	mul := 1.4
	add := 5.0
	variants := map[string]config.Variant{
		"wolf_alpha": {
			FamilyID:    "wolf_pack_base",
			Name:        "Alpha Wolf",
			Description: "The pack leader.",
			StatModifiers: map[string]config.StatModifier{
				"hp": {Mul: &mul, Add: &add},
			},
			AbilitiesAdd: []string{"rallying_howl"},
			RolesAdd:     []string{"leader"},
			TagsAdd:      []string{"alpha"},
		},
		"orphan": {
			FamilyID: "ghost_family",
		},
	}

	overlays := map[string]config.Overlay{
		"default_boss": {
			Multipliers:    map[string]float64{"hp": 2.0, "defense": 1.5},
			IsBoss:         true,
			BonusAbilities: []string{"enrage"},
		},
	}

	return config.NewStore(families, variants, overlays, config.Rules{
		Difficulty: map[string]map[string]float64{
			"normal": {"hp": 1.0, "damage": 1.0, "defense": 1.0, "initiative": 1.0},
			"hard":   {"hp": 1.3},
		},
		EncounterSize: map[string]map[string]float64{
			"solo": {"hp": 1.0},
			"pack": {"hp": 0.75},
		},
		PlayerLevelCurve: map[string]float64{"hp": 1.0},
	})
}

func testGenerator(v entropy.Variance) *Generator {
	g := New(testStore())
	g.Variance = v
	return g
}

func currentHP(t *testing.T, n *npc.NPC) float64 {
	t.Helper()
	if n.Stats == nil {
		t.Fatal("generated NPC has no stat sheet")
	}
	hp, err := n.Stats.StatValue(stats.Health)
	if err != nil {
		t.Fatalf("read HEALTH: %v", err)
	}
	return hp
}

func TestGenerateBaseline(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{
		FamilyID:      "wolf_pack_base",
		Level:         3,
		Difficulty:    "normal",
		EncounterSize: "solo",
		Location:      "harmonia_outskirts",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if n.Kind != npc.KindEnemy || n.Disposition != npc.DispositionHostile {
		t.Errorf("kind=%s disposition=%s, want ENEMY/HOSTILE", n.Kind, n.Disposition)
	}
	if n.Name != "Wolf" || n.Location != "harmonia_outskirts" {
		t.Errorf("identity fields wrong: name=%q location=%q", n.Name, n.Location)
	}

	// hp budget samples to exactly 25 at variance 0.5; all multipliers 1.0.
	if hp := currentHP(t, n); hp != 25 {
		t.Errorf("current HP = %v, want 25", hp)
	}

	// defense 16, initiative 2 → DEX 14, CON 18; damage 4 → STR 12.
	if got := n.Stats.Base[stats.Dexterity]; got != 14 {
		t.Errorf("DEX = %v, want 14", got)
	}
	if got := n.Stats.Base[stats.Constitution]; got != 18 {
		t.Errorf("CON = %v, want 18", got)
	}
	if got := n.Stats.Base[stats.Strength]; got != 12 {
		t.Errorf("STR = %v, want 12", got)
	}

	if n.Known.FamilyID != "wolf_pack_base" || n.Known.Generator == "" {
		t.Errorf("provenance missing: %+v", n.Known)
	}
	if n.Known.Role != "skirmisher" {
		t.Errorf("role = %q, want skirmisher", n.Known.Role)
	}
	want := []string{"bite", "pack_howl", "lunge"}
	if len(n.Known.Abilities) != len(want) {
		t.Fatalf("abilities = %v, want %v", n.Known.Abilities, want)
	}
	for i, a := range want {
		if n.Known.Abilities[i] != a {
			t.Errorf("abilities[%d] = %q, want %q", i, n.Known.Abilities[i], a)
		}
	}
}

func TestGenerateHardDifficultyScalesHP(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{
		FamilyID: "wolf_pack_base", Level: 3, Difficulty: "hard", EncounterSize: "solo",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	// 25 * 1.3 = 32.5 → rounds to 33, below max HP 42.
	if hp := currentHP(t, n); hp != 33 {
		t.Errorf("current HP = %v, want 33", hp)
	}
}

func TestGenerateStaminaFullManaZero(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{FamilyID: "wolf_pack_base", Level: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	maxStamina, _ := n.Stats.StatValue(stats.MaxStamina)
	stamina, _ := n.Stats.StatValue(stats.Stamina)
	if stamina != maxStamina {
		t.Errorf("stamina = %v, want full (%v)", stamina, maxStamina)
	}
	mana, _ := n.Stats.StatValue(stats.Mana)
	if mana != 0 {
		t.Errorf("mana = %v, want 0", mana)
	}
}

func TestGenerateHPClampInvariant(t *testing.T) {
	for seed := int64(0); seed < 30; seed++ {
		g := testGenerator(entropy.NewSeededVariance(seed))
		for _, req := range []Request{
			{FamilyID: "wolf_pack_base", Level: 1, Difficulty: "expertish"},
			{FamilyID: "wolf_pack_base", Level: 1, OverlayID: "default_boss"},
			{FamilyID: "meek", Level: 1},
			{VariantID: "wolf_alpha", Level: 2},
		} {
			n, err := g.Generate(req)
			if err != nil {
				t.Fatalf("seed=%d: Generate(%+v): %v", seed, req, err)
			}
			hp := currentHP(t, n)
			maxHP, _ := n.Stats.StatValue(stats.MaxHealth)
			if hp < 1 || hp > maxHP {
				t.Fatalf("seed=%d: HP %v outside [1, %v]", seed, hp, maxHP)
			}
		}
	}
}

func TestGenerateBossOverlay(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{
		FamilyID: "wolf_pack_base", OverlayID: "default_boss", Level: 3,
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !n.Known.Boss {
		t.Error("boss flag not recorded")
	}
	if !containsString(n.Known.Tags, "boss") {
		t.Errorf("boss tag missing from %v", n.Known.Tags)
	}
	if !containsString(n.Known.Abilities, "enrage") {
		t.Errorf("overlay bonus ability missing from %v", n.Known.Abilities)
	}
	// defense 16 * 1.5 = 24 → CON modifier clamps at +6 → max HP (10+6)*3 = 48.
	// hp 25 * 2 = 50 clamps down to 48.
	if hp := currentHP(t, n); hp != 48 {
		t.Errorf("boss HP = %v, want 48 (clamped to max)", hp)
	}
}

func TestGenerateOverlayGating(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))

	if _, err := g.Generate(Request{FamilyID: "meek", OverlayID: "default_boss"}); !errors.Is(err, ErrOverlayNotAllowed) {
		t.Errorf("boss-forbidden family: err = %v, want ErrOverlayNotAllowed", err)
	}
	if _, err := g.Generate(Request{FamilyID: "locked", OverlayID: "default_boss"}); !errors.Is(err, ErrOverlayNotAllowed) {
		t.Errorf("empty allowed_overlays: err = %v, want ErrOverlayNotAllowed", err)
	}
	if _, err := g.Generate(Request{FamilyID: "gated", OverlayID: "default_boss"}); err != nil {
		t.Errorf("allow-listed overlay rejected: %v", err)
	}
	if _, err := g.Generate(Request{FamilyID: "wolf_pack_base", OverlayID: "missing"}); !errors.Is(err, ErrOverlayNotFound) {
		t.Errorf("unknown overlay: err = %v, want ErrOverlayNotFound", err)
	}
}

func TestGenerateNotFoundErrors(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))

	if _, err := g.Generate(Request{FamilyID: "nobody"}); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("unknown family: err = %v, want ErrFamilyNotFound", err)
	}
	if _, err := g.Generate(Request{VariantID: "nobody"}); !errors.Is(err, ErrVariantNotFound) {
		t.Errorf("unknown variant: err = %v, want ErrVariantNotFound", err)
	}
	if _, err := g.Generate(Request{VariantID: "orphan"}); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("orphan variant: err = %v, want ErrFamilyNotFound", err)
	}
	if _, err := g.Generate(Request{}); !errors.Is(err, ErrFamilyNotFound) {
		t.Errorf("empty request: err = %v, want ErrFamilyNotFound", err)
	}
}

func TestGenerateVariant(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{VariantID: "wolf_alpha", Level: 3})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if n.Name != "Alpha Wolf" {
		t.Errorf("name = %q, want variant override", n.Name)
	}
	if n.Known.FamilyID != "wolf_pack_base" || n.Known.VariantID != "wolf_alpha" {
		t.Errorf("provenance = %+v", n.Known)
	}
	if !containsString(n.Known.Tags, "beast") || !containsString(n.Known.Tags, "alpha") {
		t.Errorf("tags = %v, want family tags plus variant adds", n.Known.Tags)
	}
	if !containsString(n.Known.Abilities, "rallying_howl") {
		t.Errorf("variant ability missing from %v", n.Known.Abilities)
	}
	if len(n.Known.RolesAdd) != 1 || n.Known.RolesAdd[0] != "leader" {
		t.Errorf("roles_add = %v, want [leader]", n.Known.RolesAdd)
	}
	// hp 25 * 1.4 + 5 = 40 ≤ max HP 42.
	if hp := currentHP(t, n); hp != 40 {
		t.Errorf("variant HP = %v, want 40", hp)
	}
}

func TestGenerateAbilityCap(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{FamilyID: "capped", Level: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(n.Known.Abilities) != 1 || n.Known.Abilities[0] != "slash" {
		t.Errorf("capped abilities = %v, want [slash]", n.Known.Abilities)
	}
}

// brokenStats refuses everything, simulating a stats system with no
// support for the requested features.
type brokenStats struct{}

func (brokenStats) SetLevel(int)                                 {}
func (brokenStats) SetBaseStat(stats.Attribute, float64) error   { return errors.New("unsupported") }
func (brokenStats) StatValue(stats.Derived) (float64, error)     { return 0, errors.New("unsupported") }
func (brokenStats) SetCurrentStat(stats.Derived, float64) error  { return errors.New("unsupported") }

func TestGenerateSurvivesStatsFailures(t *testing.T) {
	g := testGenerator(fixedVariance(0.5))
	g.NewStats = func() stats.System { return brokenStats{} }

	n, err := g.Generate(Request{FamilyID: "wolf_pack_base", Level: 3})
	if err != nil {
		t.Fatalf("Generate with broken stats: %v", err)
	}
	if n.Stats != nil {
		t.Error("broken stats system should not attach a sheet")
	}
	if n.Known.Role != "skirmisher" {
		t.Errorf("metadata not populated despite stats failure: %+v", n.Known)
	}
}

func TestGenerateDegenerateFamily(t *testing.T) {
	// No budgets at all: zero draws, floor stats, HP floored at 1.
	g := testGenerator(fixedVariance(0.5))
	n, err := g.Generate(Request{FamilyID: "meek", Level: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if hp := currentHP(t, n); hp != 1 {
		t.Errorf("degenerate HP = %v, want 1", hp)
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
