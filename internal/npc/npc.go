// Package npc provides the generated-NPC record model: identity fields,
// disposition, an attached stat sheet, and generation provenance.
package npc

import (
	"github.com/google/uuid"

	"github.com/kaelwren/npcforge/internal/stats"
)

// Kind classifies what an NPC is to the player.
type Kind string

const (
	KindEnemy      Kind = "ENEMY"
	KindMerchant   Kind = "MERCHANT"
	KindQuestGiver Kind = "QUEST_GIVER"
	KindService    Kind = "SERVICE"
)

// Disposition is the NPC's default stance toward the player.
type Disposition string

const (
	DispositionHostile  Disposition = "HOSTILE"
	DispositionFriendly Disposition = "FRIENDLY"
	DispositionNeutral  Disposition = "NEUTRAL"
)

// NPC is a fully assembled character, created fresh per generation call
// and never mutated afterward by the generator.
type NPC struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Kind        Kind        `json:"kind"`
	Disposition Disposition `json:"disposition"`
	Location    string      `json:"location,omitempty"`
	Description string      `json:"description,omitempty"`

	// Stats is the realized stat sheet. Nil for social NPCs, which have
	// no combat budgets.
	Stats *stats.Sheet `json:"stats,omitempty"`

	Known KnownInfo `json:"known_information"`
}

// KnownInfo carries provenance and gameplay metadata back to whatever
// layer registers the NPC.
type KnownInfo struct {
	FamilyID  string `json:"family_id,omitempty"`
	VariantID string `json:"variant_id,omitempty"`
	OverlayID string `json:"overlay_id,omitempty"`
	Generator string `json:"generator"`
	Boss      bool   `json:"boss,omitempty"`

	Role      string   `json:"role,omitempty"`
	Abilities []string `json:"abilities,omitempty"`
	RolesAdd  []string `json:"roles_add,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	Culture   string   `json:"culture,omitempty"`
}

// New creates an NPC shell with a fresh ID.
func New(name string, kind Kind, disposition Disposition) *NPC {
	return &NPC{
		ID:          uuid.NewString(),
		Name:        name,
		Kind:        kind,
		Disposition: disposition,
	}
}
