// Package modlog provides PostgreSQL-backed storage for applied moderation
// actions. Each entry captures who did what to whom and why, for moderator
// review and audits.
package modlog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hanghive/hang-bot/internal/ledger"
)

// validActions is the set of allowed action values, matching the CHECK
// constraint on the mod_actions table.
var validActions = map[ledger.Action]bool{
	ledger.ActionWarn: true,
	ledger.ActionMute: true,
	ledger.ActionKick: true,
	ledger.ActionBan:  true,
}

// Store manages the moderation audit log in PostgreSQL.
type Store struct {
	db *sql.DB
}

// Entry is one persisted moderation action.
type Entry struct {
	ID              string
	Action          ledger.Action
	UserID          string
	UserName        string
	Reason          string
	Moderator       string
	DurationMinutes int // mute only, zero otherwise
	CreatedAt       time.Time
}

// NewStore creates a new audit log store backed by the given database handle.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Record inserts an applied moderation action. The action is validated
// against the allowed set before insertion. Returns the generated entry ID.
func (s *Store) Record(ctx context.Context, action ledger.Action, userID string, rec ledger.ModActionRecord) (string, error) {
	if !validActions[action] {
		return "", fmt.Errorf("modlog: invalid action %q", action)
	}

	id := uuid.New().String()

	const query = `
		INSERT INTO mod_actions (id, action, user_id, user_name, reason, moderator, duration_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.db.ExecContext(ctx, query,
		id,
		string(action),
		userID,
		rec.UserName,
		rec.Reason,
		rec.Moderator,
		rec.DurationMinutes,
	)
	if err != nil {
		return "", fmt.Errorf("modlog: insert: %w", err)
	}
	return id, nil
}

// RecentForUser returns the user's moderation history within the given time
// window, newest first.
func (s *Store) RecentForUser(ctx context.Context, userID string, window time.Duration) ([]Entry, error) {
	const query = `
		SELECT id, action, user_name, reason, moderator, duration_minutes, created_at
		FROM mod_actions
		WHERE user_id = $1
		  AND created_at >= NOW() - $2::interval
		ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, userID, window.String())
	if err != nil {
		return nil, fmt.Errorf("modlog: query recent: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{UserID: userID}
		var action string
		if err := rows.Scan(&e.ID, &action, &e.UserName, &e.Reason, &e.Moderator, &e.DurationMinutes, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("modlog: scan entry: %w", err)
		}
		e.Action = ledger.Action(action)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("modlog: iterate entries: %w", err)
	}
	return entries, nil
}

// CountRecent returns the number of actions of the given kind applied to a
// user within the time window. Useful for escalation policies, e.g. three
// warns in 24 hours prompting a mute.
func (s *Store) CountRecent(ctx context.Context, userID string, action ledger.Action, window time.Duration) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM mod_actions
		WHERE user_id = $1
		  AND action = $2
		  AND created_at >= NOW() - $3::interval`

	var count int
	err := s.db.QueryRowContext(ctx, query, userID, string(action), window.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("modlog: count recent: %w", err)
	}
	return count, nil
}
