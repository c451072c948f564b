// Package gen implements the NPC family/variant generation engine: it
// samples abstract stat budgets, scales them through overlay, difficulty,
// encounter-size, and level-curve multipliers, inverts the result into
// primary attributes, and assembles a finished NPC with role, ability,
// tag, and provenance metadata.
package gen

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/kaelwren/npcforge/internal/config"
	"github.com/kaelwren/npcforge/internal/entropy"
	"github.com/kaelwren/npcforge/internal/naming"
	"github.com/kaelwren/npcforge/internal/npc"
	"github.com/kaelwren/npcforge/internal/stats"
)

// Provenance tags recorded on generated NPCs.
const (
	familyGeneratorTag = "npcforge.family_generator"
	socialCreatorTag   = "npcforge.social_creator"
)

// bossTag is attached to any NPC generated under a boss overlay.
const bossTag = "boss"

// Generator produces NPCs from the loaded content set. One instance is
// shared across calls; it holds no per-call state, so concurrent
// generation is safe.
type Generator struct {
	// Store is the read-only content set.
	Store *config.Store

	// Variance feeds budget sampling. Defaults to a time-seeded source;
	// tests inject a fixed seed.
	Variance entropy.Variance

	// NewStats creates the stat sheet for each generated NPC. Defaults
	// to stats.NewSheet; tests substitute failing fakes.
	NewStats func() stats.System

	// Names synthesizes social NPC names from the store's naming data.
	Names *naming.Generator
}

// New creates a generator over the given content store.
func New(store *config.Store) *Generator {
	return &Generator{
		Store:    store,
		Variance: entropy.NewVariance(),
		NewStats: func() stats.System { return stats.NewSheet() },
		Names:    naming.NewGenerator(store.Cultures(), store.NamePools()),
	}
}

// Request describes one generation call. Exactly one of FamilyID or
// VariantID must be set; VariantID wins when both are present.
type Request struct {
	FamilyID      string
	VariantID     string
	OverlayID     string
	Level         int
	Difficulty    string
	EncounterSize string
	Location      string
}

// Generate runs the full pipeline and returns a hostile NPC. It fails
// only for unknown family/variant/overlay ids and overlay gating
// violations; every other irregularity degrades to a default.
func (g *Generator) Generate(req Request) (*npc.NPC, error) {
	familyID := req.FamilyID

	var variant *config.Variant
	if req.VariantID != "" {
		v, ok := g.Store.Variant(req.VariantID)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrVariantNotFound, req.VariantID)
		}
		variant = &v
		familyID = v.FamilyID
	}

	family, ok := g.Store.Family(familyID)
	if !ok {
		if variant != nil {
			return nil, fmt.Errorf("variant %q: %w: %q", req.VariantID, ErrFamilyNotFound, familyID)
		}
		return nil, fmt.Errorf("%w: %q", ErrFamilyNotFound, familyID)
	}

	overlay, err := g.resolveOverlay(&family, req.OverlayID)
	if err != nil {
		return nil, err
	}

	budgets := sampleBudgets(&family, g.Variance)
	if variant != nil {
		budgets = applyVariantModifiers(budgets, variant.StatModifiers)
	}
	scaled := scalePipeline(budgets, overlay, g.Store.Rules(), req.Difficulty, req.EncounterSize)

	scores := mapBudgetsToScores(scaled)
	sheet := g.realizeStats(scores, req.Level, scaled.HP)

	role := selectRole(&family)
	abilities := compileAbilities(&family, role, variant, overlay)

	out := npc.New(displayName(&family, variant), npc.KindEnemy, npc.DispositionHostile)
	out.Location = req.Location
	out.Description = displayDescription(&family, variant)
	if s, ok := sheet.(*stats.Sheet); ok {
		out.Stats = s
	}
	out.Known = npc.KnownInfo{
		FamilyID:  familyID,
		VariantID: req.VariantID,
		OverlayID: req.OverlayID,
		Generator: familyGeneratorTag,
		Boss:      overlay != nil && overlay.IsBoss,
		Role:      role,
		Abilities: abilities,
		Tags:      g.compileTags(&family, variant, overlay),
	}
	if variant != nil {
		out.Known.RolesAdd = variant.RolesAdd
	}

	slog.Debug("npc generated",
		"family", familyID,
		"variant", req.VariantID,
		"overlay", req.OverlayID,
		"level", req.Level,
		"role", role,
		"abilities", len(abilities),
	)
	return out, nil
}

// resolveOverlay looks up and gate-checks the requested overlay. No
// overlay id means no overlay step.
func (g *Generator) resolveOverlay(family *config.Family, overlayID string) (*config.Overlay, error) {
	if overlayID == "" {
		return nil, nil
	}
	o, ok := g.Store.Overlay(overlayID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrOverlayNotFound, overlayID)
	}
	if !family.IsBossAllowed {
		return nil, fmt.Errorf("%w: family %q does not accept overlays", ErrOverlayNotAllowed, family.Name)
	}
	if allowed := family.Rules.AllowedOverlays; allowed != nil {
		if !contains(*allowed, overlayID) {
			return nil, fmt.Errorf("%w: %q is not in allowed_overlays", ErrOverlayNotAllowed, overlayID)
		}
	}
	return &o, nil
}

// realizeStats builds the stat sheet: level and attributes in, derived
// maximums out, current resources set. Health lands on the rounded HP
// budget clamped to [1, max]. Stamina starts full. Mana always starts
// at zero regardless of its maximum.
func (g *Generator) realizeStats(scores Scores, level int, hpBudget float64) stats.System {
	sheet := g.NewStats()
	sheet.SetLevel(level)
	scores.apply(sheet)

	if maxHP, err := sheet.StatValue(stats.MaxHealth); err == nil {
		hp := math.Round(hpBudget)
		if hp < 1 {
			hp = 1
		}
		if hp > maxHP {
			hp = maxHP
		}
		_ = sheet.SetCurrentStat(stats.Health, hp)
	}

	if maxStamina, err := sheet.StatValue(stats.MaxStamina); err == nil {
		_ = sheet.SetCurrentStat(stats.Stamina, maxStamina)
	}

	_ = sheet.SetCurrentStat(stats.Mana, 0)

	return sheet
}

func (g *Generator) compileTags(family *config.Family, variant *config.Variant, overlay *config.Overlay) []string {
	var tags []string
	tags = append(tags, family.DefaultTags...)
	if variant != nil {
		tags = append(tags, variant.TagsAdd...)
	}
	if overlay != nil && overlay.IsBoss {
		tags = append(tags, bossTag)
	}
	return dedupe(tags)
}

func displayName(family *config.Family, variant *config.Variant) string {
	if variant != nil && variant.Name != "" {
		return variant.Name
	}
	return family.Name
}

func displayDescription(family *config.Family, variant *config.Variant) string {
	if variant != nil && variant.Description != "" {
		return variant.Description
	}
	return family.Description
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
