package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store is the loaded content set. It is read-only after Load; the
// generator shares one instance across calls.
type Store struct {
	families map[string]Family
	variants map[string]Variant
	overlays map[string]Overlay
	rules    Rules
	cultures map[string]Culture
	pools    map[string]NamePool
	tags     map[string]Tag
}

// File names expected under the content directory. families_factions.yaml
// is optional and its entries override families.yaml on key collision.
const (
	fileFamilies       = "families.yaml"
	fileFamilyFactions = "families_factions.yaml"
	fileVariants       = "variants.yaml"
	fileOverlays       = "overlays.yaml"
	fileRules          = "generation_rules.yaml"
	fileNames          = "names.yaml"
	fileLegacyNames    = "legacy_names.yaml"
	fileTags           = "tags.yaml"
)

// Load reads the content set from dir. families.yaml and
// generation_rules.yaml are required; everything else defaults to empty.
func Load(dir string) (*Store, error) {
	s := &Store{
		families: map[string]Family{},
		variants: map[string]Variant{},
		overlays: map[string]Overlay{},
		cultures: map[string]Culture{},
		pools:    map[string]NamePool{},
		tags:     map[string]Tag{},
	}

	var base struct {
		Families map[string]Family `yaml:"families"`
	}
	if err := readYAML(filepath.Join(dir, fileFamilies), &base); err != nil {
		return nil, fmt.Errorf("load families: %w", err)
	}
	for id, f := range base.Families {
		s.families[id] = f
	}

	// Faction families override base families on key collision.
	var factions struct {
		Families map[string]Family `yaml:"families"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileFamilyFactions), &factions); err != nil {
		return nil, fmt.Errorf("load faction families: %w", err)
	}
	for id, f := range factions.Families {
		if _, clash := s.families[id]; clash {
			slog.Debug("faction family overrides base", "family", id)
		}
		s.families[id] = f
	}

	var variants struct {
		Variants map[string]Variant `yaml:"variants"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileVariants), &variants); err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	for id, v := range variants.Variants {
		s.variants[id] = v
	}

	var overlays struct {
		Overlays map[string]Overlay `yaml:"overlays"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileOverlays), &overlays); err != nil {
		return nil, fmt.Errorf("load overlays: %w", err)
	}
	for id, o := range overlays.Overlays {
		s.overlays[id] = o
	}

	if err := readYAML(filepath.Join(dir, fileRules), &s.rules); err != nil {
		return nil, fmt.Errorf("load generation rules: %w", err)
	}

	var names struct {
		Cultures map[string]Culture `yaml:"cultures"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileNames), &names); err != nil {
		return nil, fmt.Errorf("load naming cultures: %w", err)
	}
	for id, c := range names.Cultures {
		s.cultures[id] = c
	}

	var legacy struct {
		NamePools map[string]NamePool `yaml:"name_pools"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileLegacyNames), &legacy); err != nil {
		return nil, fmt.Errorf("load legacy name pools: %w", err)
	}
	for id, p := range legacy.NamePools {
		s.pools[id] = p
	}

	var tags struct {
		Tags map[string]Tag `yaml:"tags"`
	}
	if err := readOptionalYAML(filepath.Join(dir, fileTags), &tags); err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	for id, t := range tags.Tags {
		s.tags[id] = t
	}

	slog.Info("content set loaded",
		"families", len(s.families),
		"variants", len(s.variants),
		"overlays", len(s.overlays),
		"cultures", len(s.cultures),
		"name_pools", len(s.pools),
		"tags", len(s.tags),
	)
	return s, nil
}

// NewStore builds a store directly from maps, for tests.
func NewStore(families map[string]Family, variants map[string]Variant, overlays map[string]Overlay, rules Rules) *Store {
	s := &Store{
		families: map[string]Family{},
		variants: map[string]Variant{},
		overlays: map[string]Overlay{},
		rules:    rules,
		cultures: map[string]Culture{},
		pools:    map[string]NamePool{},
		tags:     map[string]Tag{},
	}
	for id, f := range families {
		s.families[id] = f
	}
	for id, v := range variants {
		s.variants[id] = v
	}
	for id, o := range overlays {
		s.overlays[id] = o
	}
	return s
}

// SetNaming attaches naming data to a store built with NewStore.
func (s *Store) SetNaming(cultures map[string]Culture, pools map[string]NamePool) {
	for id, c := range cultures {
		s.cultures[id] = c
	}
	for id, p := range pools {
		s.pools[id] = p
	}
}

// Family looks up one family.
func (s *Store) Family(id string) (Family, bool) {
	f, ok := s.families[id]
	return f, ok
}

// Variant looks up one variant.
func (s *Store) Variant(id string) (Variant, bool) {
	v, ok := s.variants[id]
	return v, ok
}

// Overlay looks up one overlay.
func (s *Store) Overlay(id string) (Overlay, bool) {
	o, ok := s.overlays[id]
	return o, ok
}

// Rules returns the global scaling tables.
func (s *Store) Rules() Rules { return s.rules }

// Families returns the full family map. Callers must not mutate it.
func (s *Store) Families() map[string]Family { return s.families }

// Variants returns the full variant map. Callers must not mutate it.
func (s *Store) Variants() map[string]Variant { return s.variants }

// Overlays returns the full overlay map. Callers must not mutate it.
func (s *Store) Overlays() map[string]Overlay { return s.overlays }

// Cultures returns the naming culture map. Callers must not mutate it.
func (s *Store) Cultures() map[string]Culture { return s.cultures }

// NamePools returns the legacy name pools. Callers must not mutate it.
func (s *Store) NamePools() map[string]NamePool { return s.pools }

// Tags returns the tag definitions. Callers must not mutate it.
func (s *Store) Tags() map[string]Tag { return s.tags }

// CultureWeights returns the per-culture selection weights for the
// deterministic weighted pick.
func (s *Store) CultureWeights() map[string]float64 {
	weights := make(map[string]float64, len(s.cultures))
	for id, c := range s.cultures {
		weights[id] = c.Weight
	}
	return weights
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func readOptionalYAML(path string, out any) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return readYAML(path, out)
}
