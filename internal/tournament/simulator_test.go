package tournament

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/arcanum-labs/deckforge/internal/deck"
	"github.com/arcanum-labs/deckforge/internal/meta"
)

// fixedEstimator returns the same winrate for every matchup.
type fixedEstimator struct {
	winrate float64
}

func (f fixedEstimator) Estimate(*deck.Deck, string) float64 {
	return f.winrate
}

func testDeck() *deck.Deck {
	c := 2.0
	return &deck.Deck{
		Name: "Stormcaller Tempo",
		Entries: []deck.Entry{
			{Card: deck.Card{Name: "Spark Adept", Cost: &c, Type: "Creature", Rarity: "common", Faction: "Storm"}, Quantity: 4},
		},
	}
}

func TestSimulate(t *testing.T) {
	sim := NewSimulator(fixedEstimator{winrate: 55}, DefaultConfig())

	t.Run("invalid format", func(t *testing.T) {
		_, err := sim.Simulate(context.Background(), testDeck(), Format{RoundCount: 0}, meta.Breakdown{}, NewRNG(1))
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("err = %v, want ErrInvalidFormat", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := sim.Simulate(ctx, testDeck(), Format{Name: "Weekly", RoundCount: 4}, meta.Breakdown{}, NewRNG(1))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})

	t.Run("same seed reproduces the run", func(t *testing.T) {
		format := Format{Name: "Weekly", RoundCount: 4}
		first, err := sim.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(42))
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		second, err := sim.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(42))
		if err != nil {
			t.Fatalf("Simulate: %v", err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("expected identical simulations for identical seeds")
		}
	})

	t.Run("a loss ends the bracket", func(t *testing.T) {
		format := Format{Name: "Weekly", RoundCount: 6}
		for seed := int64(0); seed < 200; seed++ {
			run, err := sim.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(seed))
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			for i, round := range run.Results {
				if round.Result == ResultLoss && i != len(run.Results)-1 {
					t.Fatalf("seed %d: loss in round %d but results continue", seed, round.Round)
				}
			}
		}
	})

	t.Run("placement invariants hold across seeds", func(t *testing.T) {
		format := Format{Name: "Qualifier", RoundCount: 5}
		for seed := int64(0); seed < 1000; seed++ {
			run, err := sim.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(seed))
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}

			p := run.ExpectedPlacement
			if p.Min != 1 {
				t.Fatalf("seed %d: Min = %d, want 1", seed, p.Min)
			}
			if p.Max < p.Min || p.Max > format.BracketSize() {
				t.Fatalf("seed %d: Max = %d outside [1, %d]", seed, p.Max, format.BracketSize())
			}
			if p.Average < float64(p.Min) || p.Average > float64(p.Max) {
				t.Fatalf("seed %d: Average = %.2f outside [%d, %d]", seed, p.Average, p.Min, p.Max)
			}
			if run.OverallWinrate < 0 || run.OverallWinrate > 100 {
				t.Fatalf("seed %d: OverallWinrate = %.2f outside [0, 100]", seed, run.OverallWinrate)
			}

			lastRound := run.Results[len(run.Results)-1]
			if lastRound.Result == ResultWin && p.Max != 1 {
				t.Fatalf("seed %d: won out but Max = %d", seed, p.Max)
			}
		}
	})

	t.Run("round records respect best-of-3", func(t *testing.T) {
		format := Format{Name: "Weekly", RoundCount: 4}
		for seed := int64(0); seed < 100; seed++ {
			run, err := sim.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(seed))
			if err != nil {
				t.Fatalf("seed %d: %v", seed, err)
			}
			for _, round := range run.Results {
				if len(round.Games) < 2 || len(round.Games) > 3 {
					t.Fatalf("seed %d round %d: %d games, want 2 or 3", seed, round.Round, len(round.Games))
				}
				wins := 0
				for _, g := range round.Games {
					if g.Result == ResultWin {
						wins++
					}
				}
				if round.Result == ResultWin && wins != 2 {
					t.Fatalf("seed %d round %d: round won with %d game wins", seed, round.Round, wins)
				}
			}
		}
	})

	t.Run("stronger decks place better on average", func(t *testing.T) {
		format := Format{Name: "Qualifier", RoundCount: 4}
		averageOver := func(winrate float64) float64 {
			s := NewSimulator(fixedEstimator{winrate: winrate}, DefaultConfig())
			sum := 0.0
			const runs = 500
			for seed := int64(0); seed < runs; seed++ {
				run, err := s.Simulate(context.Background(), testDeck(), format, meta.Breakdown{}, NewRNG(seed))
				if err != nil {
					t.Fatalf("seed %d: %v", seed, err)
				}
				sum += run.ExpectedPlacement.Average
			}
			return sum / runs
		}

		strong := averageOver(75)
		weak := averageOver(30)
		if strong >= weak {
			t.Errorf("strong deck places %.2f, weak %.2f; expected strong to place better (lower)", strong, weak)
		}
	})
}

func TestSampleArchetype(t *testing.T) {
	t.Run("zero breakdown still draws all archetypes", func(t *testing.T) {
		even := meta.Breakdown{}.Normalized()
		seen := make(map[string]bool)
		rng := NewRNG(7)
		for i := 0; i < 1000; i++ {
			seen[sampleArchetype(even, rng)] = true
		}
		for _, name := range []string{"Aggro", "Control", "Midrange", "Combo"} {
			if !seen[name] {
				t.Errorf("archetype %s never drawn from an even field", name)
			}
		}
	})

	t.Run("weights steer the draw", func(t *testing.T) {
		skewed := meta.Breakdown{AggroDecks: 100}.Normalized()
		rng := NewRNG(7)
		for i := 0; i < 100; i++ {
			if got := sampleArchetype(skewed, rng); got != "Aggro" {
				t.Fatalf("draw %d = %s, want Aggro from an all-aggro field", i, got)
			}
		}
	})
}

func TestPlacementFor(t *testing.T) {
	cases := []struct {
		name        string
		rounds      int
		lostIn      int
		winrate     float64
		wantMax     int
		wantAverage float64
	}{
		{"won out", 4, 0, 100, 1, 1},
		{"lost in the final", 4, 4, 50, 2, 1.5},
		{"lost in round one", 4, 1, 0, 9, 9},
		{"lost halfway", 4, 2, 50, 5, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := placementFor(tc.rounds, tc.lostIn, tc.winrate)
			if p.Min != 1 {
				t.Errorf("Min = %d, want 1", p.Min)
			}
			if p.Max != tc.wantMax {
				t.Errorf("Max = %d, want %d", p.Max, tc.wantMax)
			}
			if p.Average != tc.wantAverage {
				t.Errorf("Average = %.2f, want %.2f", p.Average, tc.wantAverage)
			}
		})
	}
}
