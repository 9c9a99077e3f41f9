// Package deck defines the core deck and card value types consumed by the
// analytics and simulation engine. Values are plain serializable data; the
// engine never mutates a deck after it has been handed in.
package deck

// Card identifies a card and the attributes the engine scores on.
// Cost is nil when the card has no numeric play cost.
type Card struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Cost    *float64 `json:"cost,omitempty"`
	Type    string   `json:"type"`
	Rarity  string   `json:"rarity"`
	Faction string   `json:"faction"`
}

// CostValue returns the card's cost, treating a missing cost as 0.
func (c Card) CostValue() float64 {
	if c.Cost == nil {
		return 0
	}
	return *c.Cost
}

// Entry is a card together with how many copies the deck runs.
type Entry struct {
	Card     Card `json:"card"`
	Quantity int  `json:"quantity"`
}

// Deck is an ordered list of entries. Entry order is preserved so that
// downstream stable sorts break ties by insertion order.
type Deck struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// TotalCards returns the number of card copies in the deck.
func (d *Deck) TotalCards() int {
	total := 0
	for _, e := range d.Entries {
		total += e.Quantity
	}
	return total
}

// UniqueCards returns the number of distinct entries.
func (d *Deck) UniqueCards() int {
	return len(d.Entries)
}

// TotalCost returns the quantity-weighted sum of card costs.
// Missing costs count as 0.
func (d *Deck) TotalCost() float64 {
	total := 0.0
	for _, e := range d.Entries {
		total += e.Card.CostValue() * float64(e.Quantity)
	}
	return total
}

// AverageCost returns TotalCost divided by TotalCards, or 0 for an empty deck.
func (d *Deck) AverageCost() float64 {
	total := d.TotalCards()
	if total == 0 {
		return 0
	}
	return d.TotalCost() / float64(total)
}

// IsEmpty reports whether the deck has no entries.
func (d *Deck) IsEmpty() bool {
	return len(d.Entries) == 0
}
