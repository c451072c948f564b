package gen

import (
	"github.com/kaelwren/npcforge/internal/config"
)

// selectRole picks the family's lead role. Selection is deterministic:
// always the first entry of allowed_roles. Families with no roles yield
// an empty role.
func selectRole(f *config.Family) string {
	if len(f.AllowedRoles) == 0 {
		return ""
	}
	return f.AllowedRoles[0]
}

// compileAbilities builds the ability list in pool order: family global,
// role-specific, variant additions, overlay bonuses. Duplicates keep
// their first position; a declared max_abilities cap keeps the prefix.
func compileAbilities(f *config.Family, role string, variant *config.Variant, overlay *config.Overlay) []string {
	var pooled []string
	pooled = append(pooled, f.AbilityPools.Global...)
	if role != "" {
		pooled = append(pooled, f.AbilityPools.RoleOverrides[role]...)
	}
	if variant != nil {
		pooled = append(pooled, variant.AbilitiesAdd...)
	}
	if overlay != nil {
		pooled = append(pooled, overlay.BonusAbilities...)
	}

	abilities := dedupe(pooled)

	if cap := f.Rules.MaxAbilities; cap != nil && *cap >= 0 && len(abilities) > *cap {
		abilities = abilities[:*cap]
	}
	return abilities
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(list []string) []string {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
