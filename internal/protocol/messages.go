// Package protocol defines the WebSocket message types and structures used for
// communication between the client and server. All messages are serialized as
// JSON and follow a consistent envelope format with a type discriminator.
package protocol

import (
	"encoding/json"
	"fmt"
)

// ---------------------------------------------------------------------------
// Message type constants
// ---------------------------------------------------------------------------

// Client -> Server message types.
const (
	TypeChatMessage   = "chat_message"
	TypeAsk           = "ask"
	TypeSummarize     = "summarize"
	TypeSetCommunity  = "set_community"
	TypeWarn          = "warn"
	TypeWarnings      = "warnings"
	TypeClearWarnings = "clear_warnings"
	TypeMute          = "mute"
	TypeKick          = "kick"
	TypeBan           = "ban"
	TypePing          = "ping"
)

// Server -> Client message types.
const (
	TypeSessionCreated  = "session_created"
	TypeMessageBlocked  = "message_blocked"
	TypeBotReply        = "bot_reply"
	TypeSummary         = "summary"
	TypeCommunitySet    = "community_set"
	TypeWarningIssued   = "warning_issued"
	TypeWarningsList    = "warnings_list"
	TypeWarningsCleared = "warnings_cleared"
	TypeModAction       = "mod_action"
	TypeRateLimited     = "rate_limited"
	TypeError           = "error"
	TypePong            = "pong"
)

// ---------------------------------------------------------------------------
// Envelope — used for initial JSON parsing to extract the type discriminator.
// ---------------------------------------------------------------------------

// Envelope holds the message type and the raw JSON payload for deferred
// parsing into a concrete struct.
type Envelope struct {
	Type string          `json:"type"`
	Raw  json.RawMessage `json:"-"`
}

// UnmarshalJSON implements the json.Unmarshaler interface. It captures the
// full raw bytes and extracts only the "type" field so that the rest of the
// payload can be decoded later into the appropriate concrete struct.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	// Capture the full raw message for deferred parsing.
	e.Raw = make(json.RawMessage, len(data))
	copy(e.Raw, data)

	// Extract only the type field.
	var partial struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &partial); err != nil {
		return fmt.Errorf("protocol: failed to unmarshal envelope: %w", err)
	}
	if partial.Type == "" {
		return fmt.Errorf("protocol: missing or empty \"type\" field")
	}
	e.Type = partial.Type
	return nil
}

// ---------------------------------------------------------------------------
// Client -> Server message structs
// ---------------------------------------------------------------------------

// ChatMessageMsg is a regular channel message sent by the client. It passes
// through content classification before it is accepted.
type ChatMessageMsg struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// AskMsg requests an assistant reply to the given message.
type AskMsg struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
}

// SummarizeMsg requests a summary of recent channel messages, or of a
// specific topic within them when Topic is set.
type SummarizeMsg struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id"`
	Topic     string `json:"topic,omitempty"`
}

// SetCommunityMsg sets the channel's community type.
type SetCommunityMsg struct {
	Type          string `json:"type"`
	ChannelID     string `json:"channel_id"`
	CommunityType string `json:"community_type"`
}

// WarnMsg is a moderator command to warn a user.
type WarnMsg struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Reason   string `json:"reason"`
}

// WarningsMsg is a moderator command to list a user's warnings.
type WarningsMsg struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// ClearWarningsMsg is a moderator command to clear a user's warnings.
type ClearWarningsMsg struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

// MuteMsg is a moderator command to mute a user for a number of minutes.
type MuteMsg struct {
	Type            string `json:"type"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	DurationMinutes int    `json:"duration_minutes"`
	Reason          string `json:"reason"`
}

// KickMsg is a moderator command to kick a user.
type KickMsg struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Reason   string `json:"reason"`
}

// BanMsg is a moderator command to ban a user.
type BanMsg struct {
	Type     string `json:"type"`
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Reason   string `json:"reason"`
}

// PingMsg is a client-initiated keepalive ping.
type PingMsg struct {
	Type string `json:"type"`
}

// ---------------------------------------------------------------------------
// Server -> Client message structs
// ---------------------------------------------------------------------------

// SessionCreatedMsg is sent by the server when a new session is established.
type SessionCreatedMsg struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`
}

// MessageBlockedMsg tells the sender their message was rejected by the
// content classifier.
type MessageBlockedMsg struct {
	Type     string `json:"type"`
	Reason   string `json:"reason"`
	Severity string `json:"severity"`
}

// BotReplyMsg carries an assistant reply to an earlier ask.
type BotReplyMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	ChannelID string `json:"channel_id"`
	Text      string `json:"text"`
	Intent    string `json:"intent"`
}

// SummaryMsg carries the result of a summarize request.
type SummaryMsg struct {
	Type      string `json:"type"`
	RequestID string `json:"request_id"`
	ChannelID string `json:"channel_id"`
	Topic     string `json:"topic,omitempty"`
	Text      string `json:"text"`
}

// CommunitySetMsg confirms the channel's community type after normalization.
type CommunitySetMsg struct {
	Type          string `json:"type"`
	ChannelID     string `json:"channel_id"`
	CommunityType string `json:"community_type"`
}

// WarningIssuedMsg announces a warning, whether moderator-issued or automatic.
type WarningIssuedMsg struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// WarningEntry is one warning in a WarningsListMsg.
type WarningEntry struct {
	Reason    string `json:"reason"`
	Moderator string `json:"moderator"`
	Timestamp int64  `json:"timestamp"`
}

// WarningsListMsg carries a user's warning history.
type WarningsListMsg struct {
	Type     string         `json:"type"`
	UserID   string         `json:"user_id"`
	Warnings []WarningEntry `json:"warnings"`
}

// WarningsClearedMsg confirms a clear_warnings command.
type WarningsClearedMsg struct {
	Type    string `json:"type"`
	UserID  string `json:"user_id"`
	Removed int    `json:"removed"`
}

// ModActionMsg announces an applied mute, kick, or ban.
type ModActionMsg struct {
	Type    string `json:"type"`
	Action  string `json:"action"`
	UserID  string `json:"user_id"`
	Message string `json:"message"`
}

// RateLimitedMsg is sent by the server when the client has been rate-limited.
type RateLimitedMsg struct {
	Type       string `json:"type"`
	RetryAfter int    `json:"retry_after"`
}

// ErrorMsg is sent by the server to communicate an error condition.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PongMsg is the server's response to a client ping.
type PongMsg struct {
	Type string `json:"type"`
}

// ---------------------------------------------------------------------------
// Helper functions
// ---------------------------------------------------------------------------

// ParseClientMessage parses raw WebSocket bytes into a typed client message.
// It returns the message type string, the decoded struct, and any error
// encountered during parsing. An error is returned for unknown or
// server-only message types.
func ParseClientMessage(data []byte) (string, interface{}, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("protocol: failed to parse message: %w", err)
	}

	var (
		msg interface{}
		err error
	)

	switch env.Type {
	case TypeChatMessage:
		var m ChatMessageMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeAsk:
		var m AskMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeSummarize:
		var m SummarizeMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeSetCommunity:
		var m SetCommunityMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeWarn:
		var m WarnMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeWarnings:
		var m WarningsMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeClearWarnings:
		var m ClearWarningsMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeMute:
		var m MuteMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeKick:
		var m KickMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypeBan:
		var m BanMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	case TypePing:
		var m PingMsg
		err = json.Unmarshal(env.Raw, &m)
		msg = m
	default:
		return env.Type, nil, fmt.Errorf("protocol: unknown client message type: %q", env.Type)
	}

	if err != nil {
		return env.Type, nil, fmt.Errorf("protocol: failed to decode %q payload: %w", env.Type, err)
	}
	return env.Type, msg, nil
}

// NewServerMessage creates a JSON-encoded byte slice for a server message.
// The msgType is injected into the payload under the "type" key. The payload
// should be one of the server message structs; this function marshals it to
// JSON, injects the type field, and returns the final bytes.
func NewServerMessage(msgType string, payload interface{}) ([]byte, error) {
	// Marshal the payload struct to a generic map so we can ensure the "type"
	// field is present and correct.
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to marshal payload: %w", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("protocol: failed to unmarshal payload into map: %w", err)
	}

	m["type"] = msgType

	out, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("protocol: failed to marshal server message: %w", err)
	}
	return out, nil
}
