package deck

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadFile reads a deck from a JSON file. Entries with a non-positive
// quantity are rejected so that downstream totals stay meaningful.
func LoadFile(path string) (*Deck, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}

	var d Deck
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}

	for i, e := range d.Entries {
		if e.Quantity <= 0 {
			return nil, fmt.Errorf("deck entry %d (%s): quantity must be positive, got %d", i, e.Card.Name, e.Quantity)
		}
		if e.Card.Name == "" {
			return nil, fmt.Errorf("deck entry %d: card name is required", i)
		}
	}

	return &d, nil
}
