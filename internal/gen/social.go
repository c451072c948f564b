package gen

import (
	"fmt"
	"strings"

	"github.com/kaelwren/npcforge/internal/naming"
	"github.com/kaelwren/npcforge/internal/npc"
)

// SocialRequest describes a merchant, quest-giver, or service NPC. The
// seed string pins culture choice and naming, so regenerating the same
// location's roster yields the same people.
type SocialRequest struct {
	Kind      npc.Kind
	Location  string
	Specialty string

	// Culture forces a naming culture. Empty means the weighted
	// culture pick decides.
	Culture string

	// Seed overrides the default kind|location|specialty seed.
	Seed string
}

// CreateSocial builds a non-combat NPC using the deterministic choice
// utilities: weighted culture selection, then seeded name synthesis.
func (g *Generator) CreateSocial(req SocialRequest) (*npc.NPC, error) {
	role, disposition, err := socialRole(req.Kind)
	if err != nil {
		return nil, err
	}

	seed := req.Seed
	if seed == "" {
		seed = fmt.Sprintf("%s|%s|%s|", strings.ToLower(string(req.Kind)), req.Location, req.Specialty)
	}

	culture := req.Culture
	if culture == "" {
		if picked, ok := naming.WeightedPick(g.Store.CultureWeights(), seed); ok {
			culture = picked
		}
	}

	name := g.Names.Name(culture, role, seed)

	out := npc.New(name, req.Kind, disposition)
	out.Location = req.Location
	out.Description = socialDescription(role, req.Specialty)
	out.Known = npc.KnownInfo{
		Generator: socialCreatorTag,
		Role:      role,
		Culture:   culture,
		Tags:      socialTags(role, req.Specialty),
	}
	return out, nil
}

func socialRole(kind npc.Kind) (role string, disposition npc.Disposition, err error) {
	switch kind {
	case npc.KindMerchant:
		return "merchant", npc.DispositionFriendly, nil
	case npc.KindQuestGiver:
		return "quest_giver", npc.DispositionFriendly, nil
	case npc.KindService:
		return "service", npc.DispositionNeutral, nil
	default:
		return "", "", fmt.Errorf("unknown social kind %q", kind)
	}
}

func socialDescription(role, specialty string) string {
	switch role {
	case "merchant":
		if specialty != "" {
			return fmt.Sprintf("A trader dealing in %s.", specialty)
		}
		return "A trader with a well-stocked stall."
	case "quest_giver":
		return "A local with work that needs doing."
	default:
		if specialty != "" {
			return fmt.Sprintf("Offers %s to travelers.", specialty)
		}
		return "Offers services to travelers."
	}
}

func socialTags(role, specialty string) []string {
	tags := []string{"social", role}
	if specialty != "" {
		tags = append(tags, specialty)
	}
	return tags
}
