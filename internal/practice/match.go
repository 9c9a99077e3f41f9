// Package practice models practice matches against a chosen archetype: a
// match accumulates rounds while ongoing and finalizes once one side's round
// wins reach the best-of threshold.
package practice

import (
	"errors"
	"fmt"
	"time"
)

// ErrMatchCompleted is returned when a round is recorded against a match
// that has already been finalized.
var ErrMatchCompleted = errors.New("practice match already completed")

// RoundResult is the player's outcome of a single round.
type RoundResult string

const (
	RoundWin  RoundResult = "win"
	RoundLoss RoundResult = "loss"
	RoundDraw RoundResult = "draw"
)

// Round is one recorded practice round.
type Round struct {
	RoundNumber     int         `json:"roundNumber"`
	PlayerResult    RoundResult `json:"playerResult"`
	OnPlay          bool        `json:"onPlay"`
	DurationMinutes int         `json:"durationMinutes"`
	KeyMoments      []string    `json:"keyMoments"`
}

// Status is the match lifecycle state: Ongoing until one side reaches the
// win threshold, Completed afterwards. Modeled as a closed set of types so a
// finished match cannot silently keep accepting rounds.
type Status interface {
	isStatus()
	String() string
}

// Ongoing means the match is still accepting rounds.
type Ongoing struct{}

func (Ongoing) isStatus()      {}
func (Ongoing) String() string { return "ongoing" }

// Completed carries the final match result.
type Completed struct {
	Result RoundResult
}

func (Completed) isStatus()        {}
func (c Completed) String() string { return string(c.Result) }

// Match is a practice series against one archetype.
type Match struct {
	DeckName          string    `json:"deckName"`
	OpponentArchetype string    `json:"opponentArchetype"`
	BestOf            int       `json:"bestOf"`
	Rounds            []Round   `json:"rounds"`
	StartedAt         time.Time `json:"startedAt"`

	status Status
}

// NewMatch starts an ongoing best-of-N practice match. BestOf values below 1
// fall back to best-of-3.
func NewMatch(deckName, opponentArchetype string, bestOf int) *Match {
	if bestOf < 1 {
		bestOf = 3
	}
	return &Match{
		DeckName:          deckName,
		OpponentArchetype: opponentArchetype,
		BestOf:            bestOf,
		Rounds:            []Round{},
		StartedAt:         time.Now(),
		status:            Ongoing{},
	}
}

// Status returns the current lifecycle state.
func (m *Match) Status() Status {
	return m.status
}

// Result returns the overall result: win/loss/draw once completed, "ongoing"
// before that.
func (m *Match) Result() string {
	return m.status.String()
}

// winThreshold is the round wins needed to finalize the match.
func (m *Match) winThreshold() int {
	return m.BestOf/2 + 1
}

// RecordRound appends a round to an ongoing match and finalizes it once the
// win/loss record reaches the best-of threshold. Draws count toward neither
// side. Recording against a completed match is an error.
func (m *Match) RecordRound(result RoundResult, onPlay bool, durationMinutes int, keyMoments []string) error {
	if _, done := m.status.(Completed); done {
		return fmt.Errorf("%w: result already %s", ErrMatchCompleted, m.status)
	}
	switch result {
	case RoundWin, RoundLoss, RoundDraw:
	default:
		return fmt.Errorf("invalid round result %q", result)
	}

	if keyMoments == nil {
		keyMoments = []string{}
	}
	m.Rounds = append(m.Rounds, Round{
		RoundNumber:     len(m.Rounds) + 1,
		PlayerResult:    result,
		OnPlay:          onPlay,
		DurationMinutes: durationMinutes,
		KeyMoments:      keyMoments,
	})

	wins, losses := m.Record()
	switch {
	case wins >= m.winThreshold():
		m.status = Completed{Result: RoundWin}
	case losses >= m.winThreshold():
		m.status = Completed{Result: RoundLoss}
	}
	return nil
}

// Restore rebuilds the lifecycle state from the recorded rounds. Callers
// loading a persisted match use this instead of serializing the state, so
// the status can never drift from the round record.
func (m *Match) Restore() {
	if m.BestOf < 1 {
		m.BestOf = 3
	}
	m.status = Ongoing{}
	wins, losses := m.Record()
	switch {
	case wins >= m.winThreshold():
		m.status = Completed{Result: RoundWin}
	case losses >= m.winThreshold():
		m.status = Completed{Result: RoundLoss}
	}
}

// Record returns the current round win and loss counts.
func (m *Match) Record() (wins, losses int) {
	for _, r := range m.Rounds {
		switch r.PlayerResult {
		case RoundWin:
			wins++
		case RoundLoss:
			losses++
		}
	}
	return wins, losses
}
