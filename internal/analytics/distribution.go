package analytics

import (
	"fmt"
	"math"

	"github.com/arcanum-labs/deckforge/internal/deck"
)

// UnknownLabel groups entries whose categorical attribute is missing so that
// bucket percentages still sum to 100.
const UnknownLabel = "Unknown"

// Bucket holds the copy count and percentage share for one distribution label.
type Bucket struct {
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// Distribution maps a categorical label (or cost bucket) to its share of the
// deck. Percentages are computed against total card copies, not unique
// entries, at 0.1% resolution.
type Distribution map[string]Bucket

// TotalCount returns the sum of bucket counts.
func (d Distribution) TotalCount() int {
	total := 0
	for _, b := range d {
		total += b.Count
	}
	return total
}

// KeyFunc extracts the distribution label for a deck entry.
type KeyFunc func(deck.Card) string

// CostBucketing controls how numeric costs map onto discrete curve buckets.
// Costs in [0, Max] map to their integer bucket; anything above Max falls into
// the overflow bucket.
type CostBucketing struct {
	Max           int
	OverflowLabel string
}

// DefaultCostBucketing is the standard 0-7 curve with an "8+" overflow bucket.
func DefaultCostBucketing() CostBucketing {
	return CostBucketing{Max: 7, OverflowLabel: "8+"}
}

// Key returns the bucket label for a cost value.
func (b CostBucketing) Key(c deck.Card) string {
	if c.Cost == nil {
		return UnknownLabel
	}
	cost := int(*c.Cost)
	if cost > b.Max {
		return b.OverflowLabel
	}
	if cost < 0 {
		cost = 0
	}
	return fmt.Sprintf("%d", cost)
}

// DistributionBy groups deck entries by the given key and computes count and
// percentage per bucket. An empty deck yields an empty (non-nil) mapping.
func DistributionBy(d *deck.Deck, key KeyFunc) Distribution {
	dist := make(Distribution)
	total := d.TotalCards()
	if total == 0 {
		return dist
	}

	for _, e := range d.Entries {
		label := key(e.Card)
		if label == "" {
			label = UnknownLabel
		}
		b := dist[label]
		b.Count += e.Quantity
		dist[label] = b
	}

	for label, b := range dist {
		b.Percentage = roundPercentage(b.Count, total)
		dist[label] = b
	}

	return dist
}

// TypeDistribution groups the deck by card type name.
func TypeDistribution(d *deck.Deck) Distribution {
	return DistributionBy(d, func(c deck.Card) string { return c.Type })
}

// RarityDistribution groups the deck by rarity name.
func RarityDistribution(d *deck.Deck) Distribution {
	return DistributionBy(d, func(c deck.Card) string { return c.Rarity })
}

// FactionDistribution groups the deck by faction name.
func FactionDistribution(d *deck.Deck) Distribution {
	return DistributionBy(d, func(c deck.Card) string { return c.Faction })
}

// CostDistribution groups the deck into discrete cost-curve buckets.
func CostDistribution(d *deck.Deck, bucketing CostBucketing) Distribution {
	return DistributionBy(d, bucketing.Key)
}

// roundPercentage computes 100*count/total at 0.1% resolution.
func roundPercentage(count, total int) float64 {
	return math.Round(1000*float64(count)/float64(total)) / 10
}
