package naming

import (
	"log/slog"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/entropy"
)

// Fallback names when even the legacy pools come up empty.
const (
	defaultFirstName = "Alex"
	defaultSurname   = "Smith"
)

// defaultAllowed matches names built from plain letters, apostrophes,
// hyphens, and spaces.
var defaultAllowed = regexp.MustCompile(`^[A-Za-z' -]+$`)

// legacySuffixChance is the probability of decorating a legacy first
// name with a pool suffix.
const legacySuffixChance = 0.3

// Generator synthesizes NPC names from culture data, falling back to
// legacy flat pools when a culture cannot produce a valid name.
type Generator struct {
	cultures map[string]config.Culture
	pools    map[string]config.NamePool
}

// NewGenerator creates a name generator over the given naming data.
func NewGenerator(cultures map[string]config.Culture, pools map[string]config.NamePool) *Generator {
	return &Generator{cultures: cultures, pools: pools}
}

// Name produces a deterministic name for the given culture and role
// hints. The same (culture, role, seed) triple always yields the same
// string.
func (g *Generator) Name(culture, role, seed string) string {
	rng := entropy.Seeded(seed + "|" + culture + "|" + role)

	if name, ok := g.synthesize(culture, rng); ok {
		return name
	}
	return g.legacyName(culture, role, rng)
}

// synthesize builds a name from the culture's syllable and surname data.
// Returns false when the culture is unknown, lacks material, or the
// result fails the character allow-list.
func (g *Generator) synthesize(culture string, rng *rand.Rand) (string, bool) {
	c, ok := g.cultures[culture]
	if !ok || len(c.Syllables) == 0 || len(c.SurnameCores) == 0 {
		return "", false
	}

	pattern := "FN LN"
	if len(c.Patterns) > 0 {
		pattern = c.Patterns[rng.Intn(len(c.Patterns))]
	}

	first := g.firstName(c, rng)
	surname := g.surname(c, rng)

	name := strings.ReplaceAll(pattern, "FN", first)
	name = strings.ReplaceAll(name, "LN", surname)
	name = strings.TrimSpace(name)

	allowed := defaultAllowed
	if c.AllowedCharacters != "" {
		compiled, err := regexp.Compile(c.AllowedCharacters)
		if err != nil {
			slog.Warn("invalid culture character allow-list, using default",
				"culture", culture, "error", err)
		} else {
			allowed = compiled
		}
	}
	if name == "" || !allowed.MatchString(name) {
		return "", false
	}
	return name, true
}

// firstName joins 1–3 syllables and capitalizes the result.
func (g *Generator) firstName(c config.Culture, rng *rand.Rand) string {
	count := 1 + rng.Intn(3)
	var b strings.Builder
	for i := 0; i < count; i++ {
		b.WriteString(c.Syllables[rng.Intn(len(c.Syllables))])
	}
	return capitalize(b.String())
}

// surname composes prefix+core, core+suffix, or a bare core, degrading
// to the bare core when the chosen strategy has no material.
func (g *Generator) surname(c config.Culture, rng *rand.Rand) string {
	core := c.SurnameCores[rng.Intn(len(c.SurnameCores))]
	switch rng.Intn(3) {
	case 0:
		if len(c.SurnamePrefixes) > 0 {
			return capitalize(c.SurnamePrefixes[rng.Intn(len(c.SurnamePrefixes))] + core)
		}
	case 1:
		if len(c.SurnameSuffixes) > 0 {
			return capitalize(core + c.SurnameSuffixes[rng.Intn(len(c.SurnameSuffixes))])
		}
	}
	return capitalize(core)
}

// legacyName picks from the flat pools: role-matched pools first, then
// culture-matched, then any pool.
func (g *Generator) legacyName(culture, role string, rng *rand.Rand) string {
	pool, ok := g.selectPool(culture, role, rng)
	if !ok {
		return defaultFirstName + " " + defaultSurname
	}

	first := defaultFirstName
	if gender, ok := pickSortedKey(pool.First, rng); ok {
		if names := pool.First[gender]; len(names) > 0 {
			first = names[rng.Intn(len(names))]
		}
	}

	surname := defaultSurname
	if len(pool.Surnames) > 0 {
		surname = pool.Surnames[rng.Intn(len(pool.Surnames))]
	}

	if len(pool.Suffixes) > 0 && rng.Float64() < legacySuffixChance {
		first += pool.Suffixes[rng.Intn(len(pool.Suffixes))]
	}

	return first + " " + surname
}

func (g *Generator) selectPool(culture, role string, rng *rand.Rand) (config.NamePool, bool) {
	byRole := poolKeysMatching(g.pools, func(p config.NamePool) bool {
		return contains(p.Roles, role)
	})
	byCulture := poolKeysMatching(g.pools, func(p config.NamePool) bool {
		return contains(p.Cultures, culture)
	})

	var candidates []string
	switch {
	case role != "" && len(byRole) > 0:
		candidates = byRole
	case culture != "" && len(byCulture) > 0:
		candidates = byCulture
	default:
		candidates = poolKeysMatching(g.pools, func(config.NamePool) bool { return true })
	}
	if len(candidates) == 0 {
		return config.NamePool{}, false
	}
	return g.pools[candidates[rng.Intn(len(candidates))]], true
}

func poolKeysMatching(pools map[string]config.NamePool, match func(config.NamePool) bool) []string {
	var keys []string
	for k, p := range pools {
		if match(p) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func pickSortedKey(m map[string][]string, rng *rand.Rand) (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[rng.Intn(len(keys))], true
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
