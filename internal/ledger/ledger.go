// Package ledger tracks user warnings and builds moderation action records.
// Warnings are append-only per user and live in a pluggable store (in-memory
// or Redis). Action records for mute/kick/ban are pure formatters: applying
// the platform-level effect (actual timeout, kick, or ban) and persisting an
// audit entry are the caller's responsibility.
package ledger

import (
	"context"
	"fmt"
	"time"
)

// Action identifies a moderation action type.
type Action string

const (
	ActionWarn Action = "warn"
	ActionMute Action = "mute"
	ActionKick Action = "kick"
	ActionBan  Action = "ban"
)

// Warning is a single warning entry for a user. Entries are never removed
// individually and never expire; Clear drops a user's whole list.
type Warning struct {
	Reason    string    `json:"reason"`
	Moderator string    `json:"moderator"`
	Timestamp time.Time `json:"timestamp"`
}

// WarningRecord is returned by Warn with the user's running count and the
// formatted announcement message.
type WarningRecord struct {
	Action    Action
	UserID    string
	UserName  string
	Reason    string
	Moderator string
	Count     int
	Message   string
}

// Store is the warning persistence contract. Append must be atomic with
// respect to concurrent appends for the same user: the returned count is the
// list length including the new entry.
type Store interface {
	Append(ctx context.Context, userID string, w Warning) (int, error)
	List(ctx context.Context, userID string) ([]Warning, error)
	Clear(ctx context.Context, userID string) (int, error)
}

// Ledger is the warning service over a Store.
type Ledger struct {
	store Store
}

// New creates a Ledger backed by the given store.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Warn appends a warning to the user's list (creating it if absent) and
// returns the record with the new count and announcement message.
func (l *Ledger) Warn(ctx context.Context, userID, userName, reason, moderator string) (WarningRecord, error) {
	count, err := l.store.Append(ctx, userID, Warning{
		Reason:    reason,
		Moderator: moderator,
		Timestamp: time.Now(),
	})
	if err != nil {
		return WarningRecord{}, fmt.Errorf("ledger: warn %s: %w", userID, err)
	}

	return WarningRecord{
		Action:    ActionWarn,
		UserID:    userID,
		UserName:  userName,
		Reason:    reason,
		Moderator: moderator,
		Count:     count,
		Message:   fmt.Sprintf("%s has been warned. Reason: %s (Warning #%d)", userName, reason, count),
	}, nil
}

// Warnings returns the user's warnings in insertion order, oldest first.
func (l *Ledger) Warnings(ctx context.Context, userID string) ([]Warning, error) {
	warns, err := l.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ledger: list warnings %s: %w", userID, err)
	}
	return warns, nil
}

// ClearWarnings removes all warnings for the user and returns how many were
// removed.
func (l *Ledger) ClearWarnings(ctx context.Context, userID string) (int, error) {
	count, err := l.store.Clear(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("ledger: clear warnings %s: %w", userID, err)
	}
	return count, nil
}
