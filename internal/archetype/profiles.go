// Package archetype defines the named strategic deck categories used for
// meta and matchup modeling, and classifies decks into them.
package archetype

import "strings"

// Style is the broad strategic class of an archetype.
type Style string

const (
	StyleAggro    Style = "aggro"
	StyleControl  Style = "control"
	StyleMidrange Style = "midrange"
	StyleCombo    Style = "combo"
	StyleTempo    Style = "tempo"
)

// Profile describes a known archetype's strategy for matchup modeling.
type Profile struct {
	Name        string
	Description string
	Strategy    string
	Style       Style

	// BaseWinRate is the archetype's field-wide baseline win percentage.
	BaseWinRate float64

	// CurveLow and CurveHigh bound the average cost typical for the style.
	CurveLow  float64
	CurveHigh float64

	KeyCards []string
}

// builtins are the archetypes the engine knows without external meta data.
var builtins = []Profile{
	{
		Name:        "Aggro",
		Description: "Fast, low-cost deck that wins before opponents stabilize",
		Strategy:    "Deploy cheap threats every turn and close the game early",
		Style:       StyleAggro,
		BaseWinRate: 52.0,
		CurveLow:    0,
		CurveHigh:   2.5,
		KeyCards:    []string{"one-cost threats", "burn spells", "curve toppers at 3"},
	},
	{
		Name:        "Control",
		Description: "Reactive deck that answers threats and wins late",
		Strategy:    "Trade resources efficiently, then land a dominant finisher",
		Style:       StyleControl,
		BaseWinRate: 50.5,
		CurveLow:    3.5,
		CurveHigh:   8,
		KeyCards:    []string{"board wipes", "counterplay", "card draw engines"},
	},
	{
		Name:        "Midrange",
		Description: "Flexible deck of efficient threats and answers",
		Strategy:    "Out-value aggro with bigger bodies, pressure control before it sets up",
		Style:       StyleMidrange,
		BaseWinRate: 51.0,
		CurveLow:    2.5,
		CurveHigh:   3.5,
		KeyCards:    []string{"three-cost value creatures", "two-for-one removal"},
	},
	{
		Name:        "Combo",
		Description: "Engine deck assembling a game-winning combination",
		Strategy:    "Dig for pieces, protect the turn the combo fires",
		Style:       StyleCombo,
		BaseWinRate: 49.5,
		CurveLow:    1.5,
		CurveHigh:   4.5,
		KeyCards:    []string{"combo pieces", "tutors", "protection spells"},
	},
	{
		Name:        "Tempo",
		Description: "Threat-plus-interaction deck that stays a step ahead",
		Strategy:    "Land an early threat and tax every answer the opponent plays",
		Style:       StyleTempo,
		BaseWinRate: 50.0,
		CurveLow:    1.5,
		CurveHigh:   3.0,
		KeyCards:    []string{"cheap evasive threats", "one-cost interaction"},
	},
}

// Profiles returns the built-in archetype profiles.
func Profiles() []Profile {
	out := make([]Profile, len(builtins))
	copy(out, builtins)
	return out
}

// Lookup finds a profile by name, case-insensitive. Exact matches win over
// partial matches ("Mono-Red Aggro" resolves to Aggro).
func Lookup(name string) (Profile, bool) {
	nameLower := strings.ToLower(strings.TrimSpace(name))
	if nameLower == "" {
		return Profile{}, false
	}

	for _, p := range builtins {
		if strings.ToLower(p.Name) == nameLower {
			return p, true
		}
	}
	for _, p := range builtins {
		if strings.Contains(nameLower, strings.ToLower(p.Name)) {
			return p, true
		}
	}

	return Profile{}, false
}
