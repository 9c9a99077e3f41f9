package archetype

import "github.com/arcanum-labs/deckforge/internal/deck"

// Classify determines a deck's strategic style from its curve and
// composition. Classification is deterministic given deck composition.
func Classify(d *deck.Deck) Style {
	total := d.TotalCards()
	if total == 0 {
		return StyleMidrange
	}

	lowCopies, highCopies := 0, 0
	typeCopies := make(map[string]int)
	for _, e := range d.Entries {
		cost := e.Card.CostValue()
		if cost <= 2 {
			lowCopies += e.Quantity
		}
		if cost >= 5 {
			highCopies += e.Quantity
		}
		typeCopies[e.Card.Type] += e.Quantity
	}

	lowRatio := float64(lowCopies) / float64(total)
	highRatio := float64(highCopies) / float64(total)
	avgCost := d.AverageCost()

	dominantType := 0
	for _, count := range typeCopies {
		if count > dominantType {
			dominantType = count
		}
	}
	dominantRatio := float64(dominantType) / float64(total)

	// Many distinct card types at mid cost reads as an engine/combo deck;
	// one repeated type reads as a threat deck.
	typeSpread := len(typeCopies)

	switch {
	case lowRatio > 0.5 && avgCost < 2.5:
		return StyleAggro
	case highRatio > 0.3 && avgCost > 3.5:
		return StyleControl
	case lowRatio > 0.4 && dominantRatio < 0.5 && avgCost < 3.0:
		return StyleTempo
	case typeSpread >= 4 && dominantRatio < 0.4 && avgCost >= 2.5:
		return StyleCombo
	default:
		return StyleMidrange
	}
}
