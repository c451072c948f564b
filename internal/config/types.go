// Package config loads the generation content set (families, variants,
// overlays, scaling rules, naming data) from YAML files into an immutable
// in-memory store.
package config

// Budget keys tracked by the generator. Every family resolves all four;
// a missing entry yields a zero range (degenerate but valid).
const (
	BudgetHP         = "hp"
	BudgetDamage     = "damage"
	BudgetDefense    = "defense"
	BudgetInitiative = "initiative"
)

// BudgetKeys lists the tracked budgets in canonical order.
var BudgetKeys = []string{BudgetHP, BudgetDamage, BudgetDefense, BudgetInitiative}

// Range is an inclusive numeric interval a budget is sampled from.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// AbilityPools holds a family's ability lists: global abilities granted
// to every member, plus role-specific additions.
type AbilityPools struct {
	Global        []string            `yaml:"global" json:"global"`
	RoleOverrides map[string][]string `yaml:"role_overrides" json:"role_overrides"`
}

// FamilyRules holds optional per-family constraints.
type FamilyRules struct {
	// AllowedOverlays restricts which overlays may apply. Nil means all
	// overlays are allowed; an empty list means none are.
	AllowedOverlays *[]string `yaml:"allowed_overlays" json:"allowed_overlays,omitempty"`

	// MaxAbilities caps the compiled ability list. Nil means no cap.
	MaxAbilities *int `yaml:"max_abilities" json:"max_abilities,omitempty"`
}

// Family is a template category of NPC: budget ranges, roles, ability
// pools, and default tags.
type Family struct {
	Name          string           `yaml:"name" json:"name"`
	Description   string           `yaml:"description" json:"description"`
	StatBudgets   map[string]Range `yaml:"stat_budgets" json:"stat_budgets"`
	AllowedRoles  []string         `yaml:"allowed_roles" json:"allowed_roles"`
	AbilityPools  AbilityPools     `yaml:"ability_pools" json:"ability_pools"`
	DefaultTags   []string         `yaml:"default_tags" json:"default_tags"`
	IsBossAllowed bool             `yaml:"is_boss_allowed" json:"is_boss_allowed"`
	Rules         FamilyRules      `yaml:"rules" json:"rules"`
}

// Budget returns the sampling range for a budget key, zero-valued if the
// family does not declare it.
func (f *Family) Budget(key string) Range {
	if r, ok := f.StatBudgets[key]; ok {
		return r
	}
	return Range{}
}

// StatModifier adjusts one budget: multiply first, then add.
type StatModifier struct {
	Mul *float64 `yaml:"mul" json:"mul,omitempty"`
	Add *float64 `yaml:"add" json:"add,omitempty"`
}

// Variant is a named specialization layered on top of a family.
type Variant struct {
	FamilyID      string                  `yaml:"family_id" json:"family_id"`
	Name          string                  `yaml:"name" json:"name"`
	Description   string                  `yaml:"description" json:"description"`
	StatModifiers map[string]StatModifier `yaml:"stat_modifiers" json:"stat_modifiers"`
	AbilitiesAdd  []string                `yaml:"abilities_add" json:"abilities_add"`
	RolesAdd      []string                `yaml:"roles_add" json:"roles_add"`
	TagsAdd       []string                `yaml:"tags_add" json:"tags_add"`
}

// Overlay is a transient multiplier set (typically a boss treatment)
// applied on top of sampled budgets.
type Overlay struct {
	Multipliers    map[string]float64 `yaml:"multipliers" json:"multipliers"`
	IsBoss         bool               `yaml:"is_boss" json:"is_boss"`
	BonusAbilities []string           `yaml:"bonus_abilities" json:"bonus_abilities"`
}

// Multiplier returns the overlay's factor for a budget key, identity if
// unspecified.
func (o *Overlay) Multiplier(key string) float64 {
	if m, ok := o.Multipliers[key]; ok {
		return m
	}
	return 1.0
}

// Rules holds the global scaling tables: per-budget multipliers keyed by
// difficulty and encounter size, plus the level-curve table.
type Rules struct {
	Difficulty    map[string]map[string]float64 `yaml:"difficulty" json:"difficulty"`
	EncounterSize map[string]map[string]float64 `yaml:"encounter_size" json:"encounter_size"`

	// PlayerLevelCurve is a flat per-budget multiplier. The level argument
	// to generation does not index into it; it only feeds the stat sheet.
	PlayerLevelCurve map[string]float64 `yaml:"player_level_curve" json:"player_level_curve"`
}

// Culture describes one naming culture: pattern templates, syllable
// material, surname parts, and selection weight.
type Culture struct {
	Weight           float64  `yaml:"weight" json:"weight"`
	Patterns         []string `yaml:"patterns" json:"patterns"`
	Syllables        []string `yaml:"syllables" json:"syllables"`
	SurnamePrefixes  []string `yaml:"surname_prefixes" json:"surname_prefixes"`
	SurnameCores     []string `yaml:"surname_cores" json:"surname_cores"`
	SurnameSuffixes  []string `yaml:"surname_suffixes" json:"surname_suffixes"`
	AllowedCharacters string  `yaml:"allowed_characters" json:"allowed_characters"`
}

// NamePool is a legacy flat name pool used when culture synthesis is
// unavailable or produces an invalid name.
type NamePool struct {
	Cultures []string            `yaml:"cultures" json:"cultures"`
	Roles    []string            `yaml:"roles" json:"roles"`
	First    map[string][]string `yaml:"first" json:"first"`
	Surnames []string            `yaml:"surnames" json:"surnames"`
	Suffixes []string            `yaml:"suffixes" json:"suffixes"`
}

// Tag is a descriptive label definition. Tags are carried on NPCs as
// opaque strings; the definitions exist for tooling and the API.
type Tag struct {
	Description string `yaml:"description" json:"description"`
}
