package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arcanum-labs/deckforge/internal/practice"
)

// PracticeRepository stores practice matches keyed by deck name.
type PracticeRepository struct {
	conn *sql.DB
}

// ArchetypeRecord aggregates practice results against one archetype.
type ArchetypeRecord struct {
	OpponentArchetype string `json:"opponentArchetype"`
	Wins              int    `json:"wins"`
	Losses            int    `json:"losses"`
	Draws             int    `json:"draws"`
}

// SaveMatch persists a match and its rounds, returning the new match ID.
func (r *PracticeRepository) SaveMatch(ctx context.Context, m *practice.Match) (int64, error) {
	tx, err := r.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO practice_matches (deck_name, opponent_archetype, best_of, started_at)
		 VALUES (?, ?, ?, ?)`,
		m.DeckName, m.OpponentArchetype, m.BestOf, m.StartedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	matchID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("match id: %w", err)
	}

	for _, round := range m.Rounds {
		moments, err := json.Marshal(round.KeyMoments)
		if err != nil {
			return 0, fmt.Errorf("marshal key moments: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO practice_rounds (match_id, round_number, player_result, on_play, duration_minutes, key_moments)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			matchID, round.RoundNumber, string(round.PlayerResult), round.OnPlay, round.DurationMinutes, string(moments),
		); err != nil {
			return 0, fmt.Errorf("insert round %d: %w", round.RoundNumber, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return matchID, nil
}

// MatchesByDeck loads all matches for a deck, oldest first, with lifecycle
// state rebuilt from the recorded rounds.
func (r *PracticeRepository) MatchesByDeck(ctx context.Context, deckName string) ([]*practice.Match, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT id, deck_name, opponent_archetype, best_of, started_at
		 FROM practice_matches WHERE deck_name = ? ORDER BY id`,
		deckName,
	)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches := make([]*practice.Match, 0)
	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		m := &practice.Match{}
		if err := rows.Scan(&id, &m.DeckName, &m.OpponentArchetype, &m.BestOf, &m.StartedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	for i, m := range matches {
		rounds, err := r.roundsForMatch(ctx, ids[i])
		if err != nil {
			return nil, err
		}
		m.Rounds = rounds
		m.Restore()
	}
	return matches, nil
}

func (r *PracticeRepository) roundsForMatch(ctx context.Context, matchID int64) ([]practice.Round, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT round_number, player_result, on_play, duration_minutes, key_moments
		 FROM practice_rounds WHERE match_id = ? ORDER BY round_number`,
		matchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query rounds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	rounds := make([]practice.Round, 0)
	for rows.Next() {
		var round practice.Round
		var result string
		var moments string
		if err := rows.Scan(&round.RoundNumber, &result, &round.OnPlay, &round.DurationMinutes, &moments); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		round.PlayerResult = practice.RoundResult(result)
		if err := json.Unmarshal([]byte(moments), &round.KeyMoments); err != nil {
			return nil, fmt.Errorf("decode key moments: %w", err)
		}
		rounds = append(rounds, round)
	}
	return rounds, rows.Err()
}

// RecordByArchetype aggregates round results for a deck, grouped by the
// opponent archetype.
func (r *PracticeRepository) RecordByArchetype(ctx context.Context, deckName string) ([]ArchetypeRecord, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT m.opponent_archetype,
		        SUM(CASE WHEN r.player_result = 'win' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN r.player_result = 'loss' THEN 1 ELSE 0 END),
		        SUM(CASE WHEN r.player_result = 'draw' THEN 1 ELSE 0 END)
		 FROM practice_matches m
		 JOIN practice_rounds r ON r.match_id = m.id
		 WHERE m.deck_name = ?
		 GROUP BY m.opponent_archetype
		 ORDER BY m.opponent_archetype`,
		deckName,
	)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]ArchetypeRecord, 0)
	for rows.Next() {
		var rec ArchetypeRecord
		if err := rows.Scan(&rec.OpponentArchetype, &rec.Wins, &rec.Losses, &rec.Draws); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
