package gen

import (
	"reflect"
	"testing"

	"github.com/kaelwren/npcforge/internal/config"
)

func TestSelectRoleFirstWins(t *testing.T) {
	f := config.Family{AllowedRoles: []string{"tank", "support"}}
	if got := selectRole(&f); got != "tank" {
		t.Errorf("selectRole = %q, want tank", got)
	}
	empty := config.Family{}
	if got := selectRole(&empty); got != "" {
		t.Errorf("selectRole on empty family = %q, want empty", got)
	}
}

func TestCompileAbilitiesOrderAndDedupe(t *testing.T) {
	f := config.Family{
		AllowedRoles: []string{"tank"},
		AbilityPools: config.AbilityPools{
			Global: []string{"slash", "shout"},
			RoleOverrides: map[string][]string{
				"tank": {"shield_bash", "slash"},
			},
		},
	}
	variant := config.Variant{AbilitiesAdd: []string{"fan_of_knives", "shout"}}
	overlay := config.Overlay{BonusAbilities: []string{"enrage"}}

	got := compileAbilities(&f, "tank", &variant, &overlay)
	want := []string{"slash", "shout", "shield_bash", "fan_of_knives", "enrage"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("compileAbilities = %v, want %v", got, want)
	}
}

func TestCompileAbilitiesCapKeepsPrefix(t *testing.T) {
	one := 1
	f := config.Family{
		AllowedRoles: []string{"tank", "support"},
		AbilityPools: config.AbilityPools{
			Global: []string{"slash"},
			RoleOverrides: map[string][]string{
				"tank": {"shield_bash"},
			},
		},
		Rules: config.FamilyRules{MaxAbilities: &one},
	}
	got := compileAbilities(&f, selectRole(&f), nil, nil)
	if len(got) != 1 || got[0] != "slash" {
		t.Errorf("capped abilities = %v, want [slash]", got)
	}
}

func TestCompileAbilitiesZeroCap(t *testing.T) {
	zero := 0
	f := config.Family{
		AbilityPools: config.AbilityPools{Global: []string{"slash"}},
		Rules:        config.FamilyRules{MaxAbilities: &zero},
	}
	if got := compileAbilities(&f, "", nil, nil); len(got) != 0 {
		t.Errorf("zero cap kept abilities: %v", got)
	}
}

func TestCompileAbilitiesEmptyFamily(t *testing.T) {
	f := config.Family{}
	if got := compileAbilities(&f, "", nil, nil); len(got) != 0 {
		t.Errorf("empty family produced abilities: %v", got)
	}
}
