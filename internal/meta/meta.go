// Package meta aggregates cross-deck meta-game views: archetype popularity,
// popular and trending cards, and archetype summaries. Snapshots may come
// from an external source; the engine only guarantees shape and invariants.
package meta

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/arcanum-labs/deckforge/internal/deck"
)

// Breakdown is the relative popularity of the four broad archetype classes,
// in percentages. Normalize before using the values as sampling weights.
type Breakdown struct {
	ControlDecks  float64 `json:"controlDecks"`
	AggroDecks    float64 `json:"aggroDecks"`
	MidrangeDecks float64 `json:"midrangeDecks"`
	ComboDecks    float64 `json:"comboDecks"`
}

// Sum returns the raw percentage total.
func (b Breakdown) Sum() float64 {
	return b.ControlDecks + b.AggroDecks + b.MidrangeDecks + b.ComboDecks
}

// Normalized returns the breakdown rescaled to sum to exactly 100. A zero
// breakdown normalizes to an even 25% split so weighted sampling always has
// usable weights.
func (b Breakdown) Normalized() Breakdown {
	sum := b.Sum()
	if sum == 0 {
		return Breakdown{ControlDecks: 25, AggroDecks: 25, MidrangeDecks: 25, ComboDecks: 25}
	}
	scale := 100 / sum
	return Breakdown{
		ControlDecks:  b.ControlDecks * scale,
		AggroDecks:    b.AggroDecks * scale,
		MidrangeDecks: b.MidrangeDecks * scale,
		ComboDecks:    b.ComboDecks * scale,
	}
}

// Weights returns archetype-name sampling weights summing to 1.
func (b Breakdown) Weights() map[string]float64 {
	n := b.Normalized()
	return map[string]float64{
		"Control":  n.ControlDecks / 100,
		"Aggro":    n.AggroDecks / 100,
		"Midrange": n.MidrangeDecks / 100,
		"Combo":    n.ComboDecks / 100,
	}
}

// PopularCard is a card's field-wide usage and win rate.
type PopularCard struct {
	Card      deck.Card `json:"card"`
	UsageRate float64   `json:"usageRate"`
	WinRate   float64   `json:"winRate"`
}

// TrendDirection is derived from the sign of a change percentage.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// TrendFor derives the direction from a change percentage. This derivation
// is the only way a direction is produced; it is never stored where it could
// drift from the change value.
func TrendFor(changePercent float64) TrendDirection {
	switch {
	case changePercent > 0:
		return TrendUp
	case changePercent < 0:
		return TrendDown
	default:
		return TrendStable
	}
}

// TrendingCard is a card whose usage changed over the reporting period.
type TrendingCard struct {
	Card          deck.Card `json:"card"`
	ChangePercent float64   `json:"changePercent"`
	PeriodDays    int       `json:"periodDays"`
}

// Direction returns the trend direction derived from ChangePercent.
func (t TrendingCard) Direction() TrendDirection {
	return TrendFor(t.ChangePercent)
}

// MarshalJSON includes the derived trendDirection so serialized snapshots
// carry it without a second source of truth.
func (t TrendingCard) MarshalJSON() ([]byte, error) {
	type alias TrendingCard
	return json.Marshal(struct {
		alias
		TrendDirection TrendDirection `json:"trendDirection"`
	}{alias(t), t.Direction()})
}

// Archetype summarizes one named archetype in the current field.
type Archetype struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	WinRate     float64  `json:"winRate"`
	UsageRate   float64  `json:"usageRate"`
	KeyCards    []string `json:"keyCards"`
}

// Snapshot is one observation of the meta-game. Empty slices are a valid
// "no data" state, not an error.
type Snapshot struct {
	Breakdown         Breakdown      `json:"metaBreakdown"`
	PopularCards      []PopularCard  `json:"popularCards"`
	TrendingCards     []TrendingCard `json:"trendingCards"`
	PopularArchetypes []Archetype    `json:"popularArchetypes"`
	FetchedAt         time.Time      `json:"fetchedAt"`
	Source            string         `json:"source,omitempty"`
}

// normalize enforces snapshot invariants in place: breakdown percentages sum
// to 100 and popular cards are sorted by usage rate descending.
func (s *Snapshot) normalize() {
	s.Breakdown = s.Breakdown.Normalized()
	sort.SliceStable(s.PopularCards, func(i, j int) bool {
		return s.PopularCards[i].UsageRate > s.PopularCards[j].UsageRate
	})
	if s.PopularCards == nil {
		s.PopularCards = []PopularCard{}
	}
	if s.TrendingCards == nil {
		s.TrendingCards = []TrendingCard{}
	}
	if s.PopularArchetypes == nil {
		s.PopularArchetypes = []Archetype{}
	}
}
