package analytics

import (
	"math"
	"strings"

	"github.com/arcanum-labs/deckforge/internal/deck"
)

// Tier labels a competitive rating band for display.
type Tier string

// Tier breakpoints. Any consumer deriving a tier from a rating must reproduce
// these exact boundaries.
const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
	TierF Tier = "F"
)

// TierForRating maps a 0-100 competitive rating to its display tier.
func TierForRating(rating float64) Tier {
	switch {
	case rating >= 90:
		return TierS
	case rating >= 80:
		return TierA
	case rating >= 70:
		return TierB
	case rating >= 60:
		return TierC
	case rating >= 50:
		return TierD
	default:
		return TierF
	}
}

// rarityWeight approximates a card's impact from its rarity. Unrecognized
// rarities score like commons so unknown data stays neutral rather than
// inflating a deck.
func rarityWeight(rarity string) float64 {
	switch strings.ToLower(rarity) {
	case "mythic", "legendary":
		return 4
	case "rare", "epic":
		return 3
	case "uncommon":
		return 2
	default:
		return 1
	}
}

// CardEfficiency returns the deck's power-to-cost heuristic on a 0-10 display
// scale. Each copy contributes rarityWeight/(cost+1), so shifting copies from
// expensive low-impact cards toward cheap high-impact ones never lowers the
// score.
func CardEfficiency(d *deck.Deck) float64 {
	total := d.TotalCards()
	if total == 0 {
		return 0
	}

	sum := 0.0
	for _, e := range d.Entries {
		perCopy := rarityWeight(e.Card.Rarity) / (e.Card.CostValue() + 1)
		sum += perCopy * float64(e.Quantity)
	}

	// Per-copy efficiency peaks at 4 (free mythic), so 2.5x lands the
	// theoretical maximum on 10.
	eff := (sum / float64(total)) * 2.5
	if eff > 10 {
		eff = 10
	}
	return eff
}

// DeckBalance scores how evenly the cost curve is spread, 0-100. A flat curve
// across all occupied bucket positions scores 100; the score trends toward 0
// as copies concentrate in a single bucket.
func DeckBalance(costDist Distribution) float64 {
	total := costDist.TotalCount()
	if total == 0 || len(costDist) < 2 {
		return 0
	}

	entropy := 0.0
	for _, b := range costDist {
		if b.Count == 0 {
			continue
		}
		p := float64(b.Count) / float64(total)
		entropy -= p * math.Log2(p)
	}

	maxEntropy := math.Log2(float64(len(costDist)))
	if maxEntropy == 0 {
		return 0
	}
	return (entropy / maxEntropy) * 100
}

// SynergyScore measures thematic cohesion, 0-100, from same-faction and
// same-type co-occurrence density among unique cards. Decks with fewer than
// two unique cards score 0.
func SynergyScore(d *deck.Deck) float64 {
	n := d.UniqueCards()
	if n < 2 {
		return 0
	}

	totalPairs := n * (n - 1) / 2
	factionPairs := 0
	typePairs := 0
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a, b := d.Entries[i].Card, d.Entries[j].Card
			if a.Faction != "" && a.Faction == b.Faction {
				factionPairs++
			}
			if a.Type != "" && a.Type == b.Type {
				typePairs++
			}
		}
	}

	factionDensity := float64(factionPairs) / float64(totalPairs)
	typeDensity := float64(typePairs) / float64(totalPairs)
	return (0.6*factionDensity + 0.4*typeDensity) * 100
}

// CompetitiveRating rolls up efficiency, balance, and synergy into a single
// 0-100 score. Weights: 35% balance, 35% synergy, 30% efficiency.
func CompetitiveRating(efficiency, balance, synergy float64) float64 {
	effNorm := efficiency / 10
	if effNorm > 1 {
		effNorm = 1
	}
	rating := 0.35*balance + 0.35*synergy + 30*effNorm
	return clamp(rating, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
