// Package matchup estimates how a deck performs against a named archetype
// and produces a gameplan and sideboard plan for the pairing.
package matchup

import (
	"sort"

	"github.com/arcanum-labs/deckforge/internal/analytics"
	"github.com/arcanum-labs/deckforge/internal/archetype"
	"github.com/arcanum-labs/deckforge/internal/deck"
)

// NeutralWinrate is returned for archetypes with no known data.
const NeutralWinrate = 50.0

// Opponent identifies the archetype being analyzed against.
type Opponent struct {
	Archetype   string `json:"archetype"`
	Description string `json:"description"`
	Strategy    string `json:"strategy"`
}

// Gameplan carries play-order advice for the matchup.
type Gameplan struct {
	OnPlay   []string `json:"onPlay"`
	OnDraw   []string `json:"onDraw"`
	KeyCards []string `json:"keyCards"`
}

// Change is a named card quantity moved in or out of the deck.
type Change struct {
	CardName string `json:"cardName"`
	Quantity int    `json:"quantity"`
}

// Sideboarding lists symmetric in/out changes. Applying both lists leaves
// total deck size unchanged.
type Sideboarding struct {
	CardsIn       []Change `json:"cardsIn"`
	CardsOut      []Change `json:"cardsOut"`
	PriorityOrder []string `json:"priorityOrder"`
}

// Analysis is the full matchup report for one archetype.
type Analysis struct {
	Opponent        Opponent     `json:"opponent"`
	WinrateEstimate float64      `json:"winrateEstimate"`
	Gameplan        Gameplan     `json:"gameplan"`
	PlayTips        []string     `json:"playTips"`
	Sideboarding    Sideboarding `json:"sideboarding"`
}

// Analyzer derives matchup analyses from deck composition and the built-in
// archetype profiles. It is stateless and safe for concurrent use.
type Analyzer struct {
	deckAnalyzer *analytics.Analyzer
}

// NewAnalyzer creates a matchup analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{deckAnalyzer: analytics.NewAnalyzer()}
}

// Analyze produces the matchup report for the named archetype. An unknown
// archetype yields a neutral 50% estimate and an empty gameplan, never an
// error.
func (a *Analyzer) Analyze(d *deck.Deck, archetypeName string) *Analysis {
	profile, known := archetype.Lookup(archetypeName)
	if !known {
		return &Analysis{
			Opponent:        Opponent{Archetype: archetypeName},
			WinrateEstimate: NeutralWinrate,
			Gameplan:        Gameplan{OnPlay: []string{}, OnDraw: []string{}, KeyCards: []string{}},
			PlayTips:        []string{},
			Sideboarding:    Sideboarding{CardsIn: []Change{}, CardsOut: []Change{}, PriorityOrder: []string{}},
		}
	}

	analysis := a.deckAnalyzer.Analyze(d)
	style := archetype.Classify(d)
	estimate := a.estimate(analysis, style, profile)

	return &Analysis{
		Opponent: Opponent{
			Archetype:   profile.Name,
			Description: profile.Description,
			Strategy:    profile.Strategy,
		},
		WinrateEstimate: estimate,
		Gameplan:        buildGameplan(d, style, profile),
		PlayTips:        playTips(style, profile),
		Sideboarding:    buildSideboard(d, profile),
	}
}

// Estimate returns just the win-rate percentage for the named archetype.
// The tournament simulator uses this as its per-matchup baseline.
func (a *Analyzer) Estimate(d *deck.Deck, archetypeName string) float64 {
	profile, known := archetype.Lookup(archetypeName)
	if !known {
		return NeutralWinrate
	}
	return a.estimate(a.deckAnalyzer.Analyze(d), archetype.Classify(d), profile)
}

// estimate combines the style pairing edge, the opponent's field baseline,
// and the deck's own quality metrics. Deterministic given deck composition.
func (a *Analyzer) estimate(analysis *analytics.Analysis, style archetype.Style, profile archetype.Profile) float64 {
	estimate := NeutralWinrate
	estimate += styleEdge(style, profile.Style)
	estimate -= profile.BaseWinRate - 50

	// Deck quality shifts the estimate around the pairing baseline.
	estimate += (analysis.CardEfficiency - 5) * 1.5
	estimate += (analysis.DeckBalance - 50) * 0.05
	estimate += (analysis.SynergyScore - 50) * 0.05

	if estimate < 0 {
		return 0
	}
	if estimate > 100 {
		return 100
	}
	return estimate
}

// styleEdge is the percentage-point edge the first style holds over the
// second in an even game. The classic triangle: aggro beats control, control
// beats midrange, midrange beats aggro.
func styleEdge(us, them archetype.Style) float64 {
	edges := map[archetype.Style]map[archetype.Style]float64{
		archetype.StyleAggro: {
			archetype.StyleControl: 6, archetype.StyleMidrange: -6,
			archetype.StyleCombo: 5, archetype.StyleTempo: 3,
		},
		archetype.StyleControl: {
			archetype.StyleAggro: -6, archetype.StyleMidrange: 6,
			archetype.StyleTempo: -4,
		},
		archetype.StyleMidrange: {
			archetype.StyleAggro: 6, archetype.StyleControl: -6,
			archetype.StyleCombo: -5,
		},
		archetype.StyleCombo: {
			archetype.StyleAggro: -5, archetype.StyleMidrange: 5,
			archetype.StyleTempo: -5,
		},
		archetype.StyleTempo: {
			archetype.StyleAggro: -3, archetype.StyleControl: 4,
			archetype.StyleCombo: 5,
		},
	}
	return edges[us][them]
}

// buildGameplan selects matchup advice and the deck's most relevant cards.
func buildGameplan(d *deck.Deck, style archetype.Style, profile archetype.Profile) Gameplan {
	plan := Gameplan{OnPlay: []string{}, OnDraw: []string{}, KeyCards: []string{}}

	switch profile.Style {
	case archetype.StyleAggro:
		plan.OnPlay = []string{
			"Develop a blocker by turn two even at the cost of tempo",
			"Trade aggressively; their deck runs out of cards first",
		}
		plan.OnDraw = []string{
			"Hold interaction for their best early threat",
			"Stabilize the board before advancing your own plan",
		}
	case archetype.StyleControl:
		plan.OnPlay = []string{
			"Lead with your cheapest threat before their answers come online",
			"Commit only as much as one sweeper can punish",
		}
		plan.OnDraw = []string{
			"Force answers with resilient threats, not your best one first",
			"Play around counterplay on their open-mana turns",
		}
	case archetype.StyleCombo:
		plan.OnPlay = []string{
			"Race: every turn spent interacting is a turn they assemble",
			"Pressure their life total to shorten their setup window",
		}
		plan.OnDraw = []string{
			"Keep disruption for the combo turn, not their setup plays",
			"Count their engine pieces to anticipate the critical turn",
		}
	default:
		plan.OnPlay = []string{
			"Curve out and put them on the back foot",
			"Value trades favor whoever is ahead on board",
		}
		plan.OnDraw = []string{
			"Prioritize two-for-one exchanges to pull ahead on cards",
			"Do not overextend into their mid-game swing turns",
		}
	}

	plan.KeyCards = keyCardsFor(d, profile.Style)
	return plan
}

// keyCardsFor picks up to three deck cards best suited to the opponent's
// style, ordered deterministically.
func keyCardsFor(d *deck.Deck, opponent archetype.Style) []string {
	if d.IsEmpty() {
		return []string{}
	}

	entries := make([]deck.Entry, len(d.Entries))
	copy(entries, d.Entries)

	switch opponent {
	case archetype.StyleAggro, archetype.StyleCombo:
		// Cheap cards matter most when the opponent is fast.
		sort.SliceStable(entries, func(i, j int) bool {
			ci, cj := entries[i].Card.CostValue(), entries[j].Card.CostValue()
			if ci != cj {
				return ci < cj
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	default:
		// Grindy matchups reward the highest-impact cards.
		sort.SliceStable(entries, func(i, j int) bool {
			ii, ij := impactWeight(entries[i].Card), impactWeight(entries[j].Card)
			if ii != ij {
				return ii > ij
			}
			return entries[i].Card.Name < entries[j].Card.Name
		})
	}

	n := 3
	if len(entries) < n {
		n = len(entries)
	}
	names := make([]string, 0, n)
	for _, e := range entries[:n] {
		names = append(names, e.Card.Name)
	}
	return names
}

func impactWeight(c deck.Card) float64 {
	switch c.Rarity {
	case "mythic", "legendary", "Mythic", "Legendary":
		return 4
	case "rare", "epic", "Rare", "Epic":
		return 3
	case "uncommon", "Uncommon":
		return 2
	default:
		return 1
	}
}

// playTips are general matchup reminders beyond the turn-order plan.
func playTips(style archetype.Style, profile archetype.Profile) []string {
	tips := []string{
		"Mulligan hands that cannot interact with " + profile.Name + " before turn three",
	}
	if style == profile.Style {
		tips = append(tips, "Mirror pairing: play for the long game, card advantage decides it")
	}
	return tips
}
