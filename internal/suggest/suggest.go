// Package suggest evaluates a deck profile against heuristic targets and
// emits ranked improvement suggestions. A well-optimized deck produces empty
// results, which callers render as a success state rather than an error.
package suggest

import (
	"fmt"
	"sort"

	"github.com/arcanum-labs/deckforge/internal/analytics"
	"github.com/arcanum-labs/deckforge/internal/deck"
)

// SuggestionType describes the recommended action.
type SuggestionType string

const (
	SuggestionAdd     SuggestionType = "add"
	SuggestionRemove  SuggestionType = "remove"
	SuggestionReplace SuggestionType = "replace"
)

// Priority orders suggestions for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Severity classifies an improvement for visual treatment.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeverityCritical Severity = "critical"
)

// Suggestion is a single add/remove/replace recommendation. Impact estimates
// the expected benefit on a 0-1 scale.
type Suggestion struct {
	Type       SuggestionType `json:"type"`
	Priority   Priority       `json:"priority"`
	Impact     float64        `json:"impact"`
	Reason     string         `json:"reason"`
	Card       *deck.Card     `json:"card,omitempty"`
	TargetCard *deck.Card     `json:"targetCard,omitempty"`
}

// Improvement is standalone commentary on a structural aspect of the deck,
// not tied 1:1 to a suggestion.
type Improvement struct {
	Category    string   `json:"category"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
}

// Thresholds tune the heuristic targets the engine compares a deck against.
type Thresholds struct {
	// LowCostShare is the minimum share of copies costing 2 or less.
	LowCostShare float64
	// TopEndShare is the maximum share of copies costing 6 or more.
	TopEndShare float64
	// MinSynergy flags decks below this synergy score as structurally weak.
	MinSynergy float64
	// MinBalance flags curves below this balance score.
	MinBalance float64
	// MaxAverageCost flags decks whose average cost exceeds this value.
	MaxAverageCost float64
}

// DefaultThresholds returns the standard heuristic targets.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowCostShare:   0.25,
		TopEndShare:    0.20,
		MinSynergy:     25,
		MinBalance:     40,
		MaxAverageCost: 4.5,
	}
}

// Engine generates suggestions and improvements from a deck and its analysis.
type Engine struct {
	thresholds Thresholds
}

// NewEngine creates a suggestion engine with the given thresholds.
func NewEngine(thresholds Thresholds) *Engine {
	return &Engine{thresholds: thresholds}
}

// Evaluate compares the deck against the heuristic targets. Both returned
// slices are sorted by priority (high before low), then impact descending,
// with ties left in insertion order.
func (e *Engine) Evaluate(d *deck.Deck, a *analytics.Analysis) ([]Suggestion, []Improvement) {
	suggestions := make([]Suggestion, 0)
	improvements := make([]Improvement, 0)

	if d.IsEmpty() {
		return suggestions, improvements
	}

	suggestions = append(suggestions, e.curveSuggestions(d, a)...)
	suggestions = append(suggestions, e.redundancySuggestions(d)...)
	improvements = append(improvements, e.structuralImprovements(a)...)

	SortSuggestions(suggestions)
	return suggestions, improvements
}

// curveSuggestions flags decks whose cost curve strays from the target shape.
func (e *Engine) curveSuggestions(d *deck.Deck, a *analytics.Analysis) []Suggestion {
	total := float64(a.TotalCards)
	lowCopies, topCopies := 0, 0
	var mostExpensive *deck.Card
	for i, entry := range d.Entries {
		cost := entry.Card.CostValue()
		if cost <= 2 {
			lowCopies += entry.Quantity
		}
		if cost >= 6 {
			topCopies += entry.Quantity
			if mostExpensive == nil || cost > mostExpensive.CostValue() {
				mostExpensive = &d.Entries[i].Card
			}
		}
	}

	var out []Suggestion

	lowShare := float64(lowCopies) / total
	if lowShare < e.thresholds.LowCostShare {
		deficit := e.thresholds.LowCostShare - lowShare
		priority := PriorityMedium
		if lowShare < e.thresholds.LowCostShare/2 {
			priority = PriorityHigh
		}
		out = append(out, Suggestion{
			Type:     SuggestionAdd,
			Priority: priority,
			Impact:   clamp01(0.4 + deficit*2),
			Reason: fmt.Sprintf("Only %.0f%% of the deck costs 2 or less; early plays are the backbone of a consistent curve",
				lowShare*100),
		})
	}

	topShare := float64(topCopies) / total
	if topShare > e.thresholds.TopEndShare {
		excess := topShare - e.thresholds.TopEndShare
		out = append(out, Suggestion{
			Type:     SuggestionRemove,
			Priority: PriorityMedium,
			Impact:   clamp01(0.3 + excess*2),
			Reason: fmt.Sprintf("%.0f%% of the deck costs 6 or more; trimming the top end reduces dead opening hands",
				topShare*100),
			Card: mostExpensive,
		})
	}

	return out
}

// redundancySuggestions flags weak singleton commons as replace candidates.
func (e *Engine) redundancySuggestions(d *deck.Deck) []Suggestion {
	var out []Suggestion
	for i, entry := range d.Entries {
		if entry.Quantity == 1 && isWeakRarity(entry.Card.Rarity) {
			out = append(out, Suggestion{
				Type:     SuggestionReplace,
				Priority: PriorityLow,
				Impact:   0.15,
				Reason:   fmt.Sprintf("%s is a lone common copy; a second copy of a core card is usually stronger", entry.Card.Name),
				Card:     &d.Entries[i].Card,
			})
		}
	}
	return out
}

// structuralImprovements emits severity-tagged commentary on deck structure.
func (e *Engine) structuralImprovements(a *analytics.Analysis) []Improvement {
	var out []Improvement

	if a.AverageCost > e.thresholds.MaxAverageCost {
		out = append(out, Improvement{
			Category:    "Mana Curve",
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("Average cost of %.1f is far above a playable curve", a.AverageCost),
			Suggestion:  "Replace several top-end cards with cheaper alternatives",
		})
	}

	if a.DeckBalance < e.thresholds.MinBalance {
		out = append(out, Improvement{
			Category:    "Curve Balance",
			Severity:    SeverityModerate,
			Description: fmt.Sprintf("Cost curve balance is %.0f/100; copies are concentrated in too few buckets", a.DeckBalance),
			Suggestion:  "Spread copies across more cost buckets",
		})
	}

	if a.SynergyScore < e.thresholds.MinSynergy {
		out = append(out, Improvement{
			Category:    "Synergy",
			Severity:    SeverityCritical,
			Description: fmt.Sprintf("Synergy score is %.0f/100; the deck lacks a cohesive faction or type theme", a.SynergyScore),
			Suggestion:  "Concentrate on one or two factions with overlapping card types",
		})
	}

	if a.UniqueCards > 0 && a.TotalCards/a.UniqueCards <= 1 && a.TotalCards >= 20 {
		out = append(out, Improvement{
			Category:    "Consistency",
			Severity:    SeverityMinor,
			Description: "Every card is a singleton; draws will vary wildly between games",
			Suggestion:  "Run multiple copies of the cards the deck most wants to draw",
		})
	}

	return out
}

// SortSuggestions orders suggestions by priority (high > medium > low), then
// impact descending. The sort is stable so equal entries keep insertion order.
func SortSuggestions(s []Suggestion) {
	sort.SliceStable(s, func(i, j int) bool {
		ri, rj := priorityRank(s[i].Priority), priorityRank(s[j].Priority)
		if ri != rj {
			return ri < rj
		}
		return s[i].Impact > s[j].Impact
	})
}

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

func isWeakRarity(rarity string) bool {
	switch rarity {
	case "", "common", "Common":
		return true
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
