// Package stats implements the attribute sheet generated NPCs carry:
// six base attributes, a level, and derived combat stats computed from
// attribute modifiers.
package stats

import (
	"errors"
	"fmt"
	"math"
)

// Attribute is one of the six primary attributes.
type Attribute string

const (
	Strength     Attribute = "STRENGTH"
	Dexterity    Attribute = "DEXTERITY"
	Constitution Attribute = "CONSTITUTION"
	Intelligence Attribute = "INTELLIGENCE"
	Wisdom       Attribute = "WISDOM"
	Charisma     Attribute = "CHARISMA"
)

// Attributes lists all primary attributes in canonical order.
var Attributes = []Attribute{Strength, Dexterity, Constitution, Intelligence, Wisdom, Charisma}

// Derived identifies a computed or current resource stat.
type Derived string

const (
	MaxHealth  Derived = "MAX_HEALTH"
	MaxStamina Derived = "MAX_STAMINA"
	MaxMana    Derived = "MAX_MANA"
	Health     Derived = "HEALTH"
	Stamina    Derived = "STAMINA"
	Mana       Derived = "MANA"
	Defense    Derived = "DEFENSE"
	Initiative Derived = "INITIATIVE"
)

// ErrUnavailable signals that the sheet does not support the requested
// stat (for example mana on a mundane creature). Callers treat it as
// "feature absent", not as a failure.
var ErrUnavailable = errors.New("stat unavailable")

// System is the narrow surface the generator needs. Sheet implements it;
// tests substitute failing fakes.
type System interface {
	SetLevel(level int)
	SetBaseStat(attr Attribute, value float64) error
	StatValue(stat Derived) (float64, error)
	SetCurrentStat(stat Derived, value float64) error
}

// Sheet holds one creature's attributes and current resources.
type Sheet struct {
	Level   int                 `json:"level"`
	Base    map[Attribute]float64 `json:"base"`
	Current map[Derived]float64   `json:"current"`
}

// NewSheet creates a level-1 sheet with all attributes at the neutral 10.
func NewSheet() *Sheet {
	base := make(map[Attribute]float64, len(Attributes))
	for _, a := range Attributes {
		base[a] = 10
	}
	return &Sheet{
		Level:   1,
		Base:    base,
		Current: map[Derived]float64{},
	}
}

// SetLevel sets the creature's level, floored at 1.
func (s *Sheet) SetLevel(level int) {
	if level < 1 {
		level = 1
	}
	s.Level = level
}

// SetBaseStat assigns a primary attribute score.
func (s *Sheet) SetBaseStat(attr Attribute, value float64) error {
	if _, ok := s.Base[attr]; !ok {
		return fmt.Errorf("unknown attribute %q", attr)
	}
	s.Base[attr] = value
	return nil
}

// Modifier returns the attribute's modifier: floor((score-10)/2).
func (s *Sheet) Modifier(attr Attribute) int {
	return int(math.Floor((s.Base[attr] - 10) / 2))
}

// StatValue computes a derived stat or reads a current resource value.
// MAX_MANA is unavailable below 12 Intelligence.
func (s *Sheet) StatValue(stat Derived) (float64, error) {
	switch stat {
	case MaxHealth:
		hp := float64((10 + s.Modifier(Constitution)) * s.Level)
		if hp < 1 {
			hp = 1
		}
		return hp, nil
	case MaxStamina:
		st := float64(10 + s.Modifier(Strength) + s.Modifier(Dexterity))
		if st < 1 {
			st = 1
		}
		return st, nil
	case MaxMana:
		if s.Base[Intelligence] < 12 {
			return 0, fmt.Errorf("%w: %s", ErrUnavailable, stat)
		}
		mana := float64((s.Modifier(Intelligence) + s.Modifier(Wisdom)) * s.Level)
		if mana < 0 {
			mana = 0
		}
		return mana, nil
	case Defense:
		dex := s.Modifier(Dexterity)
		if dex > 5 {
			dex = 5
		}
		return float64(10 + s.Modifier(Constitution) + dex), nil
	case Initiative:
		return float64(s.Modifier(Dexterity)), nil
	case Health, Stamina, Mana:
		return s.Current[stat], nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnavailable, stat)
	}
}

// SetCurrentStat assigns a current resource value, clamped to
// [0, corresponding maximum].
func (s *Sheet) SetCurrentStat(stat Derived, value float64) error {
	var maxStat Derived
	switch stat {
	case Health:
		maxStat = MaxHealth
	case Stamina:
		maxStat = MaxStamina
	case Mana:
		maxStat = MaxMana
	default:
		return fmt.Errorf("%w: %s is not a current stat", ErrUnavailable, stat)
	}

	if value < 0 {
		value = 0
	}
	if max, err := s.StatValue(maxStat); err == nil && value > max {
		value = max
	}
	s.Current[stat] = value
	return nil
}
