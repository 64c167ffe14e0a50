package messaging

import (
	"github.com/hanghive/hang-bot/internal/prompt"
)

// Generation request kinds.
const (
	GenKindAsk       = "ask"
	GenKindSummarize = "summarize"
	GenKindTopic     = "topic"
)

// GenRequest is published on gen.request by the gateway and consumed by the
// botworker queue group.
type GenRequest struct {
	RequestID     string        `json:"request_id"`
	SessionID     string        `json:"session_id"`
	ChannelID     string        `json:"channel_id"`
	Kind          string        `json:"kind"` // ask | summarize | topic
	Message       string        `json:"message,omitempty"`
	Topic         string        `json:"topic,omitempty"`
	CommunityType string        `json:"community_type"`
	History       []prompt.Turn `json:"history,omitempty"`
	// Channel messages for summarize/topic requests, snapshotted from the
	// gateway's buffer.
	Messages []prompt.ChannelMessage `json:"messages,omitempty"`
}

// GenResult is published on gen.result.<session_id> by the botworker.
// Text is always displayable; generation failures arrive as fallback
// messages, never as errors.
type GenResult struct {
	RequestID string `json:"request_id"`
	SessionID string `json:"session_id"`
	ChannelID string `json:"channel_id"`
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	Intent    string `json:"intent,omitempty"` // ask only
}

// FlaggedEvent is published on automod.flagged when the gateway blocks a
// message.
type FlaggedEvent struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
	ChannelID string `json:"channel_id"`
	Reason    string `json:"reason"`
	Severity  string `json:"severity"`
	Censored  string `json:"censored"` // censored message text for review
	Timestamp int64  `json:"timestamp"`
}

// ModActionEvent is published on modaction.applied after a moderation
// action takes effect.
type ModActionEvent struct {
	Action          string `json:"action"` // warn | mute | kick | ban
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	Reason          string `json:"reason"`
	Moderator       string `json:"moderator"`
	WarningCount    int    `json:"warning_count,omitempty"` // warn only
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Timestamp       int64  `json:"timestamp"`
}
