// Package display formats analysis results for terminal output.
package display

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/arcanum-labs/deckforge/internal/analytics"
	"github.com/arcanum-labs/deckforge/internal/engine"
	"github.com/arcanum-labs/deckforge/internal/matchup"
	"github.com/arcanum-labs/deckforge/internal/meta"
	"github.com/arcanum-labs/deckforge/internal/tournament"
)

// Reporter writes human-readable reports to a single output stream.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// DeckReport prints the full analysis for one deck: headline metrics,
// distributions, and any suggestions and improvements.
func (r *Reporter) DeckReport(name string, result *engine.DeckAnalytics) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Deck Analysis: %s\n", name)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("═", 60))
	fmt.Fprintf(r.out, "Cards: %d total, %d unique\n", result.TotalCards, result.UniqueCards)
	fmt.Fprintf(r.out, "Cost:  %.1f total, %.2f average\n\n", result.TotalCost, result.AverageCost)

	fmt.Fprintf(r.out, "Competitive Rating: %.1f (Tier %s)\n", result.CompetitiveRating, result.Tier)
	fmt.Fprintf(r.out, "├─ Card Efficiency: %.2f / 10\n", result.CardEfficiency)
	fmt.Fprintf(r.out, "├─ Deck Balance:    %.1f / 100\n", result.DeckBalance)
	fmt.Fprintf(r.out, "└─ Synergy Score:   %.1f / 100\n\n", result.SynergyScore)

	r.distributionTable("Cost Curve", orderedByLabel(result.CostDistribution))
	r.distributionTable("Card Types", orderedByCount(result.TypeDistribution))
	r.distributionTable("Rarities", orderedByCount(result.RarityDistribution))
	r.distributionTable("Factions", orderedByCount(result.FactionDistribution))

	if len(result.Suggestions) > 0 {
		fmt.Fprintf(r.out, "Suggestions (%d)\n", len(result.Suggestions))
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 60))
		for _, s := range result.Suggestions {
			cardName := ""
			if s.Card != nil {
				cardName = s.Card.Name
			}
			fmt.Fprintf(r.out, "[%-6s] %-8s %s", s.Priority, s.Type, s.Reason)
			if cardName != "" {
				fmt.Fprintf(r.out, " (%s)", cardName)
			}
			fmt.Fprintf(r.out, "\n")
		}
		fmt.Fprintf(r.out, "\n")
	}

	if len(result.Improvements) > 0 {
		fmt.Fprintf(r.out, "Improvements (%d)\n", len(result.Improvements))
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 60))
		for _, imp := range result.Improvements {
			fmt.Fprintf(r.out, "[%-8s] %s: %s\n", imp.Severity, imp.Category, imp.Description)
			fmt.Fprintf(r.out, "           → %s\n", imp.Suggestion)
		}
		fmt.Fprintf(r.out, "\n")
	}

	if len(result.Suggestions) == 0 && len(result.Improvements) == 0 {
		fmt.Fprintf(r.out, "No suggestions. The deck structure looks sound.\n\n")
	}
}

// MatchupReport prints the matchup analyses in their given order.
func (r *Reporter) MatchupReport(analyses []*matchup.Analysis) {
	for _, a := range analyses {
		fmt.Fprintf(r.out, "\n")
		fmt.Fprintf(r.out, "Matchup vs %s — estimated winrate %.1f%%\n", a.Opponent.Archetype, a.WinrateEstimate)
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("═", 60))
		if a.Opponent.Strategy != "" {
			fmt.Fprintf(r.out, "Opponent strategy: %s\n\n", a.Opponent.Strategy)
		}

		printList(r.out, "On the play", a.Gameplan.OnPlay)
		printList(r.out, "On the draw", a.Gameplan.OnDraw)
		printList(r.out, "Key cards", a.Gameplan.KeyCards)
		printList(r.out, "Play tips", a.PlayTips)

		if len(a.Sideboarding.CardsIn) > 0 || len(a.Sideboarding.CardsOut) > 0 {
			fmt.Fprintf(r.out, "Sideboard plan:\n")
			for _, c := range a.Sideboarding.CardsIn {
				fmt.Fprintf(r.out, "  +%d %s\n", c.Quantity, c.CardName)
			}
			for _, c := range a.Sideboarding.CardsOut {
				fmt.Fprintf(r.out, "  -%d %s\n", c.Quantity, c.CardName)
			}
			fmt.Fprintf(r.out, "\n")
		}
	}
}

// SimulationReport prints the round-by-round record of a tournament run.
func (r *Reporter) SimulationReport(sim *tournament.Simulation) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Tournament Simulation: %s (%s, %d rounds)\n", sim.PlayerDeck, sim.Format.Name, sim.Format.RoundCount)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("═", 60))

	fmt.Fprintf(r.out, "%-7s %-22s %-8s %s\n", "Round", "Opponent", "Result", "Games")
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 60))
	for _, round := range sim.Results {
		games := make([]string, 0, len(round.Games))
		for _, g := range round.Games {
			mark := "L"
			if g.Result == tournament.ResultWin {
				mark = "W"
			}
			games = append(games, mark)
		}
		fmt.Fprintf(r.out, "%-7d %-22s %-8s %s\n", round.Round, round.OpponentArchetype, round.Result, strings.Join(games, "-"))
	}

	fmt.Fprintf(r.out, "\nRounds played: %d of %d\n", sim.Rounds, sim.Format.RoundCount)
	fmt.Fprintf(r.out, "Game winrate:  %.1f%%\n", sim.OverallWinrate)
	fmt.Fprintf(r.out, "Placement:     best %d, expected %.1f, worst %d (of %d)\n\n",
		sim.ExpectedPlacement.Min, sim.ExpectedPlacement.Average, sim.ExpectedPlacement.Max, sim.Format.BracketSize())
}

// MetaReport prints the current meta-game snapshot.
func (r *Reporter) MetaReport(snapshot *meta.Snapshot) {
	fmt.Fprintf(r.out, "\n")
	fmt.Fprintf(r.out, "Meta-Game Snapshot")
	if snapshot.Source != "" {
		fmt.Fprintf(r.out, " (source: %s)", snapshot.Source)
	}
	fmt.Fprintf(r.out, "\n%s\n", strings.Repeat("═", 60))
	if !snapshot.FetchedAt.IsZero() {
		fmt.Fprintf(r.out, "Fetched: %s\n\n", snapshot.FetchedAt.Format("2006-01-02 15:04:05"))
	}

	b := snapshot.Breakdown
	fmt.Fprintf(r.out, "Archetype breakdown:\n")
	fmt.Fprintf(r.out, "  Aggro    %5.1f%%\n", b.AggroDecks)
	fmt.Fprintf(r.out, "  Control  %5.1f%%\n", b.ControlDecks)
	fmt.Fprintf(r.out, "  Midrange %5.1f%%\n", b.MidrangeDecks)
	fmt.Fprintf(r.out, "  Combo    %5.1f%%\n\n", b.ComboDecks)

	if len(snapshot.PopularCards) > 0 {
		fmt.Fprintf(r.out, "%-30s %-10s %s\n", "Popular Card", "Usage", "Winrate")
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 52))
		for _, c := range snapshot.PopularCards {
			fmt.Fprintf(r.out, "%-30s %5.1f%%     %5.1f%%\n", truncate(c.Card.Name, 28), c.UsageRate, c.WinRate)
		}
		fmt.Fprintf(r.out, "\n")
	}

	if len(snapshot.TrendingCards) > 0 {
		fmt.Fprintf(r.out, "%-30s %-10s %s\n", "Trending Card", "Change", "Direction")
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 52))
		for _, c := range snapshot.TrendingCards {
			fmt.Fprintf(r.out, "%-30s %+5.1f%%     %s\n", truncate(c.Card.Name, 28), c.ChangePercent, c.Direction())
		}
		fmt.Fprintf(r.out, "\n")
	}

	if len(snapshot.PopularArchetypes) > 0 {
		fmt.Fprintf(r.out, "Popular archetypes:\n")
		for _, a := range snapshot.PopularArchetypes {
			fmt.Fprintf(r.out, "  %-22s usage %5.1f%%, winrate %5.1f%%\n", a.Name, a.UsageRate, a.WinRate)
		}
		fmt.Fprintf(r.out, "\n")
	}
}

func (r *Reporter) distributionTable(title string, rows []LabeledBucket) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(r.out, "%s\n", title)
	fmt.Fprintf(r.out, "%s\n", strings.Repeat("─", 40))
	for _, row := range rows {
		fmt.Fprintf(r.out, "%-12s %4d  %5.1f%%  %s\n", row.Label, row.Count, row.Percentage, strings.Repeat("█", barWidth(row.Percentage)))
	}
	fmt.Fprintf(r.out, "\n")
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
	fmt.Fprintf(w, "\n")
}

func barWidth(percentage float64) int {
	w := int(percentage / 5)
	if w > 20 {
		w = 20
	}
	return w
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// LabeledBucket pairs a distribution label with its bucket for ordered
// display.
type LabeledBucket struct {
	Label      string
	Count      int
	Percentage float64
}

// orderedByCount sorts buckets by count descending, ties alphabetically.
func orderedByCount(dist analytics.Distribution) []LabeledBucket {
	rows := labeled(dist)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Label < rows[j].Label
	})
	return rows
}

// orderedByLabel sorts numeric labels ascending, then the rest
// alphabetically, so cost buckets print as 0,1,...,7,8+.
func orderedByLabel(dist analytics.Distribution) []LabeledBucket {
	rows := labeled(dist)
	sort.Slice(rows, func(i, j int) bool {
		a, aErr := strconv.Atoi(rows[i].Label)
		b, bErr := strconv.Atoi(rows[j].Label)
		switch {
		case aErr == nil && bErr == nil:
			return a < b
		case aErr == nil:
			return true
		case bErr == nil:
			return false
		default:
			return rows[i].Label < rows[j].Label
		}
	})
	return rows
}

func labeled(dist analytics.Distribution) []LabeledBucket {
	rows := make([]LabeledBucket, 0, len(dist))
	for label, b := range dist {
		rows = append(rows, LabeledBucket{Label: label, Count: b.Count, Percentage: b.Percentage})
	}
	return rows
}
