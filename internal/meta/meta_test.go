package meta

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/arcanum-labs/deckforge/internal/deck"
)

func TestBreakdownNormalized(t *testing.T) {
	t.Run("rescales to 100", func(t *testing.T) {
		b := Breakdown{ControlDecks: 10, AggroDecks: 30, MidrangeDecks: 5, ComboDecks: 5}
		n := b.Normalized()
		if math.Abs(n.Sum()-100) > 1e-9 {
			t.Errorf("Sum = %.4f, want 100", n.Sum())
		}
		if math.Abs(n.AggroDecks-60) > 1e-9 {
			t.Errorf("AggroDecks = %.4f, want 60", n.AggroDecks)
		}
	})

	t.Run("zero breakdown becomes an even split", func(t *testing.T) {
		n := Breakdown{}.Normalized()
		for name, v := range map[string]float64{
			"control": n.ControlDecks, "aggro": n.AggroDecks,
			"midrange": n.MidrangeDecks, "combo": n.ComboDecks,
		} {
			if v != 25 {
				t.Errorf("%s = %.2f, want 25", name, v)
			}
		}
	})

	t.Run("already normalized is unchanged", func(t *testing.T) {
		b := Breakdown{ControlDecks: 40, AggroDecks: 30, MidrangeDecks: 20, ComboDecks: 10}
		n := b.Normalized()
		if n != b {
			t.Errorf("Normalized = %+v, want %+v", n, b)
		}
	})
}

func TestBreakdownWeights(t *testing.T) {
	w := Breakdown{AggroDecks: 50, ControlDecks: 50}.Weights()
	sum := 0.0
	for _, v := range w {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("weights sum = %.4f, want 1", sum)
	}
	if w["Aggro"] != 0.5 || w["Midrange"] != 0 {
		t.Errorf("weights = %v", w)
	}
}

func TestTrendFor(t *testing.T) {
	cases := []struct {
		change float64
		want   TrendDirection
	}{
		{12.5, TrendUp},
		{0.01, TrendUp},
		{0, TrendStable},
		{-0.01, TrendDown},
		{-40, TrendDown},
	}
	for _, tc := range cases {
		if got := TrendFor(tc.change); got != tc.want {
			t.Errorf("TrendFor(%.2f) = %s, want %s", tc.change, got, tc.want)
		}
	}
}

func TestTrendingCardJSON(t *testing.T) {
	card := TrendingCard{
		Card:          deck.Card{Name: "Storm Herald"},
		ChangePercent: -7.5,
		PeriodDays:    7,
	}

	data, err := json.Marshal(card)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(data), `"trendDirection":"down"`) {
		t.Errorf("JSON missing derived direction: %s", data)
	}

	if card.Direction() != TrendDown {
		t.Errorf("Direction = %s, want down", card.Direction())
	}
}

func TestSnapshotNormalize(t *testing.T) {
	s := &Snapshot{
		Breakdown: Breakdown{AggroDecks: 2, ControlDecks: 2},
		PopularCards: []PopularCard{
			{Card: deck.Card{Name: "Fringe Pick"}, UsageRate: 5},
			{Card: deck.Card{Name: "Field Staple"}, UsageRate: 60},
			{Card: deck.Card{Name: "Solid Choice"}, UsageRate: 30},
		},
	}
	s.normalize()

	if math.Abs(s.Breakdown.Sum()-100) > 1e-9 {
		t.Errorf("breakdown sum = %.4f, want 100", s.Breakdown.Sum())
	}
	if s.PopularCards[0].Card.Name != "Field Staple" {
		t.Errorf("first popular card = %s, want the highest usage", s.PopularCards[0].Card.Name)
	}
	if s.TrendingCards == nil || s.PopularArchetypes == nil {
		t.Error("expected nil slices replaced with empty ones")
	}
}
