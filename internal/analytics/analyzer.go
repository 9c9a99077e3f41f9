// Package analytics computes descriptive statistics, distributions, and
// competitive scoring for a deck. Every function is a pure function of its
// input; the same deck always produces the same analysis.
package analytics

import "github.com/arcanum-labs/deckforge/internal/deck"

// Analysis is the full descriptive and competitive profile of a deck.
// It is created fresh on every call and never mutated afterwards.
type Analysis struct {
	TotalCards  int     `json:"totalCards"`
	UniqueCards int     `json:"uniqueCards"`
	TotalCost   float64 `json:"totalCost"`
	AverageCost float64 `json:"averageCost"`

	CardEfficiency    float64 `json:"cardEfficiency"`
	DeckBalance       float64 `json:"deckBalance"`
	SynergyScore      float64 `json:"synergyScore"`
	CompetitiveRating float64 `json:"competitiveRating"`
	Tier              Tier    `json:"tier"`

	TypeDistribution    Distribution `json:"typeDistribution"`
	CostDistribution    Distribution `json:"costDistribution"`
	RarityDistribution  Distribution `json:"rarityDistribution"`
	FactionDistribution Distribution `json:"factionDistribution"`
}

// Analyzer computes deck analyses with a configurable cost bucketing.
type Analyzer struct {
	bucketing CostBucketing
}

// NewAnalyzer creates an analyzer with the standard 0-7+ cost buckets.
func NewAnalyzer() *Analyzer {
	return &Analyzer{bucketing: DefaultCostBucketing()}
}

// NewAnalyzerWithBucketing creates an analyzer with custom curve buckets.
func NewAnalyzerWithBucketing(b CostBucketing) *Analyzer {
	return &Analyzer{bucketing: b}
}

// Analyze computes the full profile for a deck. An empty deck yields
// all-zero metrics and empty distributions, never an error.
func (a *Analyzer) Analyze(d *deck.Deck) *Analysis {
	analysis := &Analysis{
		TotalCards:  d.TotalCards(),
		UniqueCards: d.UniqueCards(),
		TotalCost:   d.TotalCost(),
		AverageCost: d.AverageCost(),

		TypeDistribution:    TypeDistribution(d),
		CostDistribution:    CostDistribution(d, a.bucketing),
		RarityDistribution:  RarityDistribution(d),
		FactionDistribution: FactionDistribution(d),
	}

	analysis.CardEfficiency = CardEfficiency(d)
	analysis.DeckBalance = DeckBalance(analysis.CostDistribution)
	analysis.SynergyScore = SynergyScore(d)
	analysis.CompetitiveRating = CompetitiveRating(
		analysis.CardEfficiency,
		analysis.DeckBalance,
		analysis.SynergyScore,
	)
	analysis.Tier = TierForRating(analysis.CompetitiveRating)

	return analysis
}
