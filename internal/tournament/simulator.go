// Package tournament simulates single-elimination bracket runs for a deck
// against a weighted archetype field. Randomness is injected so runs are
// reproducible under a fixed seed.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/arcanum-labs/deckforge/internal/deck"
	"github.com/arcanum-labs/deckforge/internal/meta"
)

// RNG is the randomness source for a simulation run. *math/rand.Rand
// satisfies it. Each run owns its generator; concurrent simulations must not
// share one unless deliberately seeded identically for reproducibility.
type RNG interface {
	Float64() float64
	Intn(n int) int
}

// NewRNG returns a seeded generator for one simulation run.
func NewRNG(seed int64) RNG {
	return rand.New(rand.NewSource(seed))
}

// ErrInvalidFormat is returned for formats with fewer than one round.
var ErrInvalidFormat = errors.New("tournament format needs at least one round")

// Format defines a tournament: bracket size is 2^RoundCount players.
type Format struct {
	Name       string `json:"name"`
	RoundCount int    `json:"roundCount"`
}

// BracketSize returns the number of players in the bracket.
func (f Format) BracketSize() int {
	return 1 << f.RoundCount
}

// Result is the outcome of a game or round from the player's side.
type Result string

const (
	ResultWin  Result = "win"
	ResultLoss Result = "loss"
)

// GameRecord is one game inside a round.
type GameRecord struct {
	Game   int    `json:"game"`
	Result Result `json:"result"`
	OnPlay bool   `json:"onPlay"`
}

// RoundRecord is one best-of-N round against a drawn archetype.
type RoundRecord struct {
	Round             int          `json:"round"`
	OpponentArchetype string       `json:"opponentArchetype"`
	Result            Result       `json:"result"`
	Games             []GameRecord `json:"games"`
}

// Placement bounds the player's final rank: 1 is winning the bracket.
type Placement struct {
	Min     int     `json:"min"`
	Average float64 `json:"average"`
	Max     int     `json:"max"`
}

// Simulation is the full record of one simulated tournament.
type Simulation struct {
	PlayerDeck        string         `json:"playerDeck"`
	Format            Format         `json:"format"`
	Rounds            int            `json:"rounds"`
	Breakdown         meta.Breakdown `json:"metaBreakdown"`
	Results           []RoundRecord  `json:"results"`
	OverallWinrate    float64        `json:"overallWinrate"`
	ExpectedPlacement Placement      `json:"expectedPlacement"`
}

// Estimator supplies the per-matchup win-rate percentage. The matchup
// analyzer satisfies it.
type Estimator interface {
	Estimate(d *deck.Deck, archetypeName string) float64
}

// Config tunes the game model inside a round.
type Config struct {
	// BestOf is the games per round; a round ends once one side reaches
	// the win threshold (2 for best-of-3).
	BestOf int

	// OnPlayBonus is the percentage-point win-probability bump for the
	// side on the play, applied symmetrically.
	OnPlayBonus float64
}

// DefaultConfig returns the observed best-of-3 model with a modest on-play
// advantage.
func DefaultConfig() Config {
	return Config{BestOf: 3, OnPlayBonus: 4.0}
}

// Simulator runs bracket simulations. It holds no per-run state and is safe
// for concurrent use as long as each call gets its own RNG.
type Simulator struct {
	estimator Estimator
	config    Config
}

// NewSimulator creates a simulator backed by the given matchup estimator.
func NewSimulator(estimator Estimator, config Config) *Simulator {
	if config.BestOf < 1 {
		config.BestOf = 3
	}
	return &Simulator{estimator: estimator, config: config}
}

// Simulate runs one single-elimination tournament. A loss in any round ends
// the run; results stop growing past the losing round. Work is linear in the
// round count.
func (s *Simulator) Simulate(ctx context.Context, d *deck.Deck, format Format, breakdown meta.Breakdown, rng RNG) (*Simulation, error) {
	if format.RoundCount < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidFormat, format.RoundCount)
	}

	sim := &Simulation{
		PlayerDeck: d.Name,
		Format:     format,
		Rounds:     format.RoundCount,
		Breakdown:  breakdown.Normalized(),
		Results:    make([]RoundRecord, 0, format.RoundCount),
	}

	gamesWon, gamesPlayed := 0, 0
	lostInRound := 0

	for round := 1; round <= format.RoundCount; round++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opponent := sampleArchetype(sim.Breakdown, rng)
		record := s.playRound(d, round, opponent, rng)
		sim.Results = append(sim.Results, record)

		for _, g := range record.Games {
			gamesPlayed++
			if g.Result == ResultWin {
				gamesWon++
			}
		}

		if record.Result == ResultLoss {
			lostInRound = round
			break
		}
	}

	if gamesPlayed > 0 {
		sim.OverallWinrate = float64(gamesWon) / float64(gamesPlayed) * 100
	}
	sim.ExpectedPlacement = placementFor(format.RoundCount, lostInRound, sim.OverallWinrate)

	return sim, nil
}

// playRound plays a best-of-N round. Game one's play/draw is a die roll; the
// loser of a game is on the draw for the next one.
func (s *Simulator) playRound(d *deck.Deck, round int, opponent string, rng RNG) RoundRecord {
	record := RoundRecord{Round: round, OpponentArchetype: opponent}

	base := s.estimator.Estimate(d, opponent) / 100
	threshold := s.config.BestOf/2 + 1
	bump := s.config.OnPlayBonus / 100

	onPlay := rng.Intn(2) == 0
	wins, losses := 0, 0
	for game := 1; wins < threshold && losses < threshold; game++ {
		p := base
		if onPlay {
			p += bump
		} else {
			p -= bump
		}
		if p < 0 {
			p = 0
		}
		if p > 1 {
			p = 1
		}

		won := rng.Float64() < p
		result := ResultLoss
		if won {
			result = ResultWin
			wins++
		} else {
			losses++
		}
		record.Games = append(record.Games, GameRecord{Game: game, Result: result, OnPlay: onPlay})

		// Loser of this game is on the draw next game.
		onPlay = won
	}

	if wins >= threshold {
		record.Result = ResultWin
	} else {
		record.Result = ResultLoss
	}
	return record
}

// sampleArchetype draws an opponent archetype weighted by the normalized
// breakdown. Evaluation order is fixed so equal seeds draw equal opponents.
func sampleArchetype(b meta.Breakdown, rng RNG) string {
	roll := rng.Float64() * 100
	cumulative := 0.0

	for _, bucket := range []struct {
		name   string
		weight float64
	}{
		{"Aggro", b.AggroDecks},
		{"Control", b.ControlDecks},
		{"Midrange", b.MidrangeDecks},
		{"Combo", b.ComboDecks},
	} {
		cumulative += bucket.weight
		if roll < cumulative {
			return bucket.name
		}
	}
	return "Combo"
}

// placementFor bounds the final rank. Min is the best case (winning out).
// Losing in round r of n floors the placement at 2^(n-r)+1; winning the
// bracket pins it to 1. The average interpolates toward the better bound as
// the run's game win rate rises, so it always sits within [min, max].
func placementFor(roundCount, lostInRound int, overallWinrate float64) Placement {
	maxPlacement := 1
	if lostInRound > 0 {
		maxPlacement = (1 << (roundCount - lostInRound)) + 1
	}
	avg := float64(maxPlacement) - float64(maxPlacement-1)*overallWinrate/100
	return Placement{Min: 1, Average: avg, Max: maxPlacement}
}
