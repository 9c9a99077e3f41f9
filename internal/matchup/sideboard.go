package matchup

import (
	"fmt"
	"sort"

	"github.com/arcanum-labs/deckforge/internal/archetype"
	"github.com/arcanum-labs/deckforge/internal/deck"
)

// maxSideboardChanges bounds how many copies a plan swaps.
const maxSideboardChanges = 3

// buildSideboard produces symmetric in/out changes for the matchup: the
// worst-fit copies come out and an equal quantity of stock answers for the
// opponent's style comes in, so applying the plan keeps deck size constant.
func buildSideboard(d *deck.Deck, profile archetype.Profile) Sideboarding {
	plan := Sideboarding{CardsIn: []Change{}, CardsOut: []Change{}, PriorityOrder: []string{}}
	if d.IsEmpty() {
		return plan
	}

	out := cutCandidates(d, profile.Style)
	budget := maxSideboardChanges
	for _, e := range out {
		if budget == 0 {
			break
		}
		qty := e.Quantity
		if qty > budget {
			qty = budget
		}
		plan.CardsOut = append(plan.CardsOut, Change{CardName: e.Card.Name, Quantity: qty})
		budget -= qty
	}

	removed := maxSideboardChanges - budget
	if removed == 0 {
		return plan
	}

	for _, in := range answersFor(profile.Style) {
		if removed == 0 {
			break
		}
		qty := in.Quantity
		if qty > removed {
			qty = removed
		}
		plan.CardsIn = append(plan.CardsIn, Change{CardName: in.CardName, Quantity: qty})
		removed -= qty
	}

	for _, c := range plan.CardsIn {
		plan.PriorityOrder = append(plan.PriorityOrder, fmt.Sprintf("Bring in %s first", c.CardName))
	}
	return plan
}

// cutCandidates orders deck entries from worst to best fit for the matchup.
func cutCandidates(d *deck.Deck, opponent archetype.Style) []deck.Entry {
	entries := make([]deck.Entry, len(d.Entries))
	copy(entries, d.Entries)

	switch opponent {
	case archetype.StyleAggro, archetype.StyleTempo:
		// Slow top-end is the liability against fast decks.
		sort.SliceStable(entries, func(i, j int) bool {
			ci, cj := entries[i].Card.CostValue(), entries[j].Card.CostValue()
			if ci != cj {
				return ci > cj
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	default:
		// Low-impact cheap filler is the liability in slower games.
		sort.SliceStable(entries, func(i, j int) bool {
			ii, ij := impactWeight(entries[i].Card), impactWeight(entries[j].Card)
			if ii != ij {
				return ii < ij
			}
			ci, cj := entries[i].Card.CostValue(), entries[j].Card.CostValue()
			if ci != cj {
				return ci < cj
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	}
	return entries
}

// answersFor lists the stock sideboard answers for an opponent style.
func answersFor(opponent archetype.Style) []Change {
	switch opponent {
	case archetype.StyleAggro:
		return []Change{
			{CardName: "Cheap removal", Quantity: 2},
			{CardName: "Lifegain blocker", Quantity: 2},
		}
	case archetype.StyleControl:
		return []Change{
			{CardName: "Resilient threat", Quantity: 2},
			{CardName: "Discard spell", Quantity: 2},
		}
	case archetype.StyleCombo:
		return []Change{
			{CardName: "Disruption piece", Quantity: 2},
			{CardName: "Fast clock", Quantity: 2},
		}
	case archetype.StyleTempo:
		return []Change{
			{CardName: "Board sweeper", Quantity: 2},
			{CardName: "Cheap removal", Quantity: 2},
		}
	default:
		return []Change{
			{CardName: "Card advantage engine", Quantity: 2},
			{CardName: "Flexible removal", Quantity: 2},
		}
	}
}
