package analytics

import (
	"math"
	"reflect"
	"testing"

	"github.com/arcanum-labs/deckforge/internal/deck"
)

func cost(v float64) *float64 {
	return &v
}

func testDeck() *deck.Deck {
	return &deck.Deck{
		Name: "Emberfall Rush",
		Entries: []deck.Entry{
			{Card: deck.Card{ID: "c1", Name: "Cinder Imp", Cost: cost(1), Type: "Creature", Rarity: "common", Faction: "Ember"}, Quantity: 4},
			{Card: deck.Card{ID: "c2", Name: "Flame Bolt", Cost: cost(2), Type: "Spell", Rarity: "common", Faction: "Ember"}, Quantity: 4},
			{Card: deck.Card{ID: "c3", Name: "Ash Warden", Cost: cost(3), Type: "Creature", Rarity: "uncommon", Faction: "Ember"}, Quantity: 3},
			{Card: deck.Card{ID: "c4", Name: "Pyre Colossus", Cost: cost(6), Type: "Creature", Rarity: "rare", Faction: "Ember"}, Quantity: 2},
			{Card: deck.Card{ID: "c5", Name: "Molten Rebirth", Cost: cost(4), Type: "Spell", Rarity: "epic", Faction: "Ash"}, Quantity: 2},
		},
	}
}

func TestDistributionBy(t *testing.T) {
	t.Run("counts weighted by quantity", func(t *testing.T) {
		d := testDeck()
		dist := TypeDistribution(d)

		if got := dist["Creature"].Count; got != 9 {
			t.Errorf("Creature count = %d, want 9", got)
		}
		if got := dist["Spell"].Count; got != 6 {
			t.Errorf("Spell count = %d, want 6", got)
		}
		if got := dist.TotalCount(); got != d.TotalCards() {
			t.Errorf("TotalCount = %d, want %d", got, d.TotalCards())
		}
	})

	t.Run("percentages sum to 100 within rounding", func(t *testing.T) {
		for name, dist := range map[string]Distribution{
			"type":    TypeDistribution(testDeck()),
			"rarity":  RarityDistribution(testDeck()),
			"faction": FactionDistribution(testDeck()),
			"cost":    CostDistribution(testDeck(), DefaultCostBucketing()),
		} {
			sum := 0.0
			for _, b := range dist {
				sum += b.Percentage
			}
			if math.Abs(sum-100) > 0.5 {
				t.Errorf("%s distribution percentages sum to %.2f, want ~100", name, sum)
			}
		}
	})

	t.Run("empty label maps to Unknown", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Nameless Relic", Cost: cost(2)}, Quantity: 3},
		}}
		dist := FactionDistribution(d)
		if got := dist[UnknownLabel].Count; got != 3 {
			t.Errorf("Unknown count = %d, want 3", got)
		}
	})

	t.Run("empty deck yields empty non-nil map", func(t *testing.T) {
		dist := TypeDistribution(&deck.Deck{})
		if dist == nil {
			t.Fatal("expected non-nil distribution")
		}
		if len(dist) != 0 {
			t.Errorf("expected empty distribution, got %d buckets", len(dist))
		}
	})
}

func TestCostBucketing(t *testing.T) {
	b := DefaultCostBucketing()

	cases := []struct {
		name string
		card deck.Card
		want string
	}{
		{"zero cost", deck.Card{Cost: cost(0)}, "0"},
		{"mid cost", deck.Card{Cost: cost(5)}, "5"},
		{"boundary", deck.Card{Cost: cost(7)}, "7"},
		{"overflow", deck.Card{Cost: cost(8)}, "8+"},
		{"large overflow", deck.Card{Cost: cost(15)}, "8+"},
		{"fractional truncates", deck.Card{Cost: cost(3.7)}, "3"},
		{"negative clamps to zero", deck.Card{Cost: cost(-1)}, "0"},
		{"missing cost", deck.Card{}, UnknownLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := b.Key(tc.card); got != tc.want {
				t.Errorf("Key = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTierForRating(t *testing.T) {
	cases := []struct {
		rating float64
		want   Tier
	}{
		{100, TierS},
		{90, TierS},
		{89.9, TierA},
		{80, TierA},
		{79.9, TierB},
		{70, TierB},
		{69.9, TierC},
		{60, TierC},
		{59.9, TierD},
		{50, TierD},
		{49.9, TierF},
		{0, TierF},
	}
	for _, tc := range cases {
		if got := TierForRating(tc.rating); got != tc.want {
			t.Errorf("TierForRating(%.1f) = %s, want %s", tc.rating, got, tc.want)
		}
	}
}

func TestCardEfficiency(t *testing.T) {
	t.Run("empty deck scores zero", func(t *testing.T) {
		if got := CardEfficiency(&deck.Deck{}); got != 0 {
			t.Errorf("CardEfficiency = %.2f, want 0", got)
		}
	})

	t.Run("free mythic caps at ten", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Primordial Spark", Cost: cost(0), Rarity: "mythic"}, Quantity: 4},
		}}
		if got := CardEfficiency(d); got != 10 {
			t.Errorf("CardEfficiency = %.2f, want 10", got)
		}
	})

	t.Run("one-cost common", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Field Mouse", Cost: cost(1), Rarity: "common"}, Quantity: 4},
		}}
		// 1/(1+1) per copy, scaled by 2.5.
		want := 1.25
		if got := CardEfficiency(d); math.Abs(got-want) > 1e-9 {
			t.Errorf("CardEfficiency = %.4f, want %.4f", got, want)
		}
	})

	t.Run("cheaper copies never score lower", func(t *testing.T) {
		expensive := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Colossus", Cost: cost(7), Rarity: "rare"}, Quantity: 4},
		}}
		cheap := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Scout", Cost: cost(1), Rarity: "rare"}, Quantity: 4},
		}}
		if CardEfficiency(cheap) <= CardEfficiency(expensive) {
			t.Error("expected cheaper deck to score higher efficiency")
		}
	})
}

func TestDeckBalance(t *testing.T) {
	t.Run("empty distribution scores zero", func(t *testing.T) {
		if got := DeckBalance(Distribution{}); got != 0 {
			t.Errorf("DeckBalance = %.2f, want 0", got)
		}
	})

	t.Run("single bucket scores zero", func(t *testing.T) {
		dist := Distribution{"3": {Count: 20}}
		if got := DeckBalance(dist); got != 0 {
			t.Errorf("DeckBalance = %.2f, want 0", got)
		}
	})

	t.Run("flat curve scores 100", func(t *testing.T) {
		dist := Distribution{
			"1": {Count: 5},
			"2": {Count: 5},
			"3": {Count: 5},
			"4": {Count: 5},
		}
		if got := DeckBalance(dist); math.Abs(got-100) > 1e-9 {
			t.Errorf("DeckBalance = %.4f, want 100", got)
		}
	})

	t.Run("skewed curve scores below flat", func(t *testing.T) {
		flat := Distribution{"1": {Count: 10}, "2": {Count: 10}}
		skewed := Distribution{"1": {Count: 19}, "2": {Count: 1}}
		if DeckBalance(skewed) >= DeckBalance(flat) {
			t.Error("expected skewed curve to score below flat curve")
		}
	})
}

func TestSynergyScore(t *testing.T) {
	t.Run("fewer than two unique cards scores zero", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Lone Wolf", Faction: "Wild", Type: "Creature"}, Quantity: 4},
		}}
		if got := SynergyScore(d); got != 0 {
			t.Errorf("SynergyScore = %.2f, want 0", got)
		}
	})

	t.Run("fully aligned deck scores 100", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "Thorn Sprite", Faction: "Wild", Type: "Creature"}, Quantity: 4},
			{Card: deck.Card{Name: "Moss Golem", Faction: "Wild", Type: "Creature"}, Quantity: 4},
			{Card: deck.Card{Name: "Briar Beast", Faction: "Wild", Type: "Creature"}, Quantity: 4},
		}}
		if got := SynergyScore(d); math.Abs(got-100) > 1e-9 {
			t.Errorf("SynergyScore = %.4f, want 100", got)
		}
	})

	t.Run("fully disjoint deck scores zero", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "A", Faction: "Ember", Type: "Creature"}, Quantity: 1},
			{Card: deck.Card{Name: "B", Faction: "Tide", Type: "Spell"}, Quantity: 1},
			{Card: deck.Card{Name: "C", Faction: "Stone", Type: "Relic"}, Quantity: 1},
		}}
		if got := SynergyScore(d); got != 0 {
			t.Errorf("SynergyScore = %.2f, want 0", got)
		}
	})

	t.Run("empty faction never pairs", func(t *testing.T) {
		d := &deck.Deck{Entries: []deck.Entry{
			{Card: deck.Card{Name: "A", Type: "Creature"}, Quantity: 1},
			{Card: deck.Card{Name: "B", Type: "Spell"}, Quantity: 1},
		}}
		if got := SynergyScore(d); got != 0 {
			t.Errorf("SynergyScore = %.2f, want 0", got)
		}
	})
}

func TestCompetitiveRating(t *testing.T) {
	t.Run("perfect components reach 100", func(t *testing.T) {
		if got := CompetitiveRating(10, 100, 100); got != 100 {
			t.Errorf("CompetitiveRating = %.2f, want 100", got)
		}
	})

	t.Run("zero components score zero", func(t *testing.T) {
		if got := CompetitiveRating(0, 0, 0); got != 0 {
			t.Errorf("CompetitiveRating = %.2f, want 0", got)
		}
	})

	t.Run("efficiency contribution is capped", func(t *testing.T) {
		if got, want := CompetitiveRating(25, 0, 0), 30.0; got != want {
			t.Errorf("CompetitiveRating = %.2f, want %.2f", got, want)
		}
	})
}

func TestAnalyze(t *testing.T) {
	analyzer := NewAnalyzer()

	t.Run("is deterministic", func(t *testing.T) {
		first := analyzer.Analyze(testDeck())
		second := analyzer.Analyze(testDeck())
		if !reflect.DeepEqual(first, second) {
			t.Error("expected identical analyses for identical decks")
		}
	})

	t.Run("empty deck yields zero metrics", func(t *testing.T) {
		analysis := analyzer.Analyze(&deck.Deck{Name: "Empty"})
		if analysis.TotalCards != 0 || analysis.CompetitiveRating != 0 {
			t.Errorf("expected zero metrics, got cards=%d rating=%.2f", analysis.TotalCards, analysis.CompetitiveRating)
		}
		if analysis.Tier != TierF {
			t.Errorf("Tier = %s, want F", analysis.Tier)
		}
		if analysis.TypeDistribution == nil || analysis.CostDistribution == nil {
			t.Error("expected non-nil distributions for empty deck")
		}
	})

	t.Run("tier matches rating", func(t *testing.T) {
		analysis := analyzer.Analyze(testDeck())
		if got := TierForRating(analysis.CompetitiveRating); got != analysis.Tier {
			t.Errorf("Tier = %s, want %s for rating %.2f", analysis.Tier, got, analysis.CompetitiveRating)
		}
	})

	t.Run("totals match deck", func(t *testing.T) {
		d := testDeck()
		analysis := analyzer.Analyze(d)
		if analysis.TotalCards != 15 {
			t.Errorf("TotalCards = %d, want 15", analysis.TotalCards)
		}
		if analysis.UniqueCards != 5 {
			t.Errorf("UniqueCards = %d, want 5", analysis.UniqueCards)
		}
		if math.Abs(analysis.AverageCost-d.AverageCost()) > 1e-9 {
			t.Errorf("AverageCost = %.4f, want %.4f", analysis.AverageCost, d.AverageCost())
		}
	})
}
