// Package engine is the facade over the analytics and simulation
// subsystems. It owns no state beyond the meta snapshot service; every deck
// computation is a pure function of its inputs.
package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/arcanum-labs/deckforge/internal/analytics"
	"github.com/arcanum-labs/deckforge/internal/deck"
	"github.com/arcanum-labs/deckforge/internal/matchup"
	"github.com/arcanum-labs/deckforge/internal/meta"
	"github.com/arcanum-labs/deckforge/internal/practice"
	"github.com/arcanum-labs/deckforge/internal/suggest"
	"github.com/arcanum-labs/deckforge/internal/tournament"
)

// DeckAnalytics is the full analysis payload for one deck: descriptive
// statistics and distributions plus ranked suggestions and improvements.
type DeckAnalytics struct {
	*analytics.Analysis

	Suggestions  []suggest.Suggestion  `json:"suggestions"`
	Improvements []suggest.Improvement `json:"improvements"`
}

// Config configures the engine service.
type Config struct {
	MetaSource meta.Source
	MetaTTL    time.Duration
	Simulator  tournament.Config
	Thresholds suggest.Thresholds
	BestOf     int
	Logger     *slog.Logger
}

// DefaultConfig returns the standard engine configuration with a static
// empty meta source.
func DefaultConfig() Config {
	return Config{
		MetaTTL:    30 * time.Minute,
		Simulator:  tournament.DefaultConfig(),
		Thresholds: suggest.DefaultThresholds(),
		BestOf:     3,
	}
}

// Service exposes the engine's entry points.
type Service struct {
	analyzer    *analytics.Analyzer
	suggester   *suggest.Engine
	matchups    *matchup.Analyzer
	simulator   *tournament.Simulator
	metaService *meta.Service
	bestOf      int
}

// NewService wires the engine from its configuration.
func NewService(config Config) *Service {
	if config.BestOf < 1 {
		config.BestOf = 3
	}
	matchups := matchup.NewAnalyzer()
	return &Service{
		analyzer:  analytics.NewAnalyzer(),
		suggester: suggest.NewEngine(config.Thresholds),
		matchups:  matchups,
		simulator: tournament.NewSimulator(matchups, config.Simulator),
		metaService: meta.NewService(meta.ServiceConfig{
			Source: config.MetaSource,
			TTL:    config.MetaTTL,
			Logger: config.Logger,
		}),
		bestOf: config.BestOf,
	}
}

// AnalyzeDeck computes the full analytics payload for a deck. An empty deck
// yields zero totals, empty distributions, and empty suggestion lists.
func (s *Service) AnalyzeDeck(d *deck.Deck) *DeckAnalytics {
	analysis := s.analyzer.Analyze(d)
	suggestions, improvements := s.suggester.Evaluate(d, analysis)
	return &DeckAnalytics{
		Analysis:     analysis,
		Suggestions:  suggestions,
		Improvements: improvements,
	}
}

// MetaGameData returns the current meta snapshot, fetching from the
// configured source when the cache is cold.
func (s *Service) MetaGameData(ctx context.Context) (*meta.Snapshot, error) {
	return s.metaService.Snapshot(ctx)
}

// PrimeMeta seeds the meta cache with a persisted snapshot.
func (s *Service) PrimeMeta(snapshot *meta.Snapshot) {
	s.metaService.Prime(snapshot)
}

// AnalyzeMatchups produces a matchup analysis per named archetype, in input
// order. Unknown archetypes yield neutral analyses rather than errors.
func (s *Service) AnalyzeMatchups(ctx context.Context, d *deck.Deck, archetypes []string) ([]*matchup.Analysis, error) {
	results := make([]*matchup.Analysis, 0, len(archetypes))
	for _, name := range archetypes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		results = append(results, s.matchups.Analyze(d, name))
	}
	return results, nil
}

// SimulateTournament runs one bracket simulation with the given randomness
// source.
func (s *Service) SimulateTournament(ctx context.Context, d *deck.Deck, format tournament.Format, breakdown meta.Breakdown, rng tournament.RNG) (*tournament.Simulation, error) {
	return s.simulator.Simulate(ctx, d, format, breakdown, rng)
}

// CreatePracticeMatch starts a practice match for the deck against the
// chosen archetype.
func (s *Service) CreatePracticeMatch(d *deck.Deck, opponentArchetype string) *practice.Match {
	return practice.NewMatch(d.Name, opponentArchetype, s.bestOf)
}

// RecordPracticeRound appends a round to an ongoing practice match.
func (s *Service) RecordPracticeRound(m *practice.Match, result practice.RoundResult, onPlay bool, durationMinutes int, keyMoments []string) error {
	return m.RecordRound(result, onPlay, durationMinutes, keyMoments)
}
