package protocol

import (
	"encoding/json"
	"testing"
)

// ---------------------------------------------------------------------------
// Test: Parsing a valid chat_message message
// ---------------------------------------------------------------------------

func TestParseClientMessage_ChatMessage(t *testing.T) {
	input := []byte(`{"type":"chat_message","channel_id":"c-123","text":"Hello!"}`)

	msgType, msg, err := ParseClientMessage(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != TypeChatMessage {
		t.Fatalf("expected type %q, got %q", TypeChatMessage, msgType)
	}

	cm, ok := msg.(ChatMessageMsg)
	if !ok {
		t.Fatalf("expected ChatMessageMsg, got %T", msg)
	}
	if cm.ChannelID != "c-123" {
		t.Errorf("expected channel_id %q, got %q", "c-123", cm.ChannelID)
	}
	if cm.Text != "Hello!" {
		t.Errorf("expected text %q, got %q", "Hello!", cm.Text)
	}
}

// ---------------------------------------------------------------------------
// Test: Parsing a valid mute command
// ---------------------------------------------------------------------------

func TestParseClientMessage_Mute(t *testing.T) {
	input := []byte(`{"type":"mute","user_id":"u1","user_name":"Alice","duration_minutes":30,"reason":"flooding"}`)

	msgType, msg, err := ParseClientMessage(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != TypeMute {
		t.Fatalf("expected type %q, got %q", TypeMute, msgType)
	}

	mm, ok := msg.(MuteMsg)
	if !ok {
		t.Fatalf("expected MuteMsg, got %T", msg)
	}
	if mm.UserID != "u1" || mm.UserName != "Alice" {
		t.Errorf("unexpected target: %+v", mm)
	}
	if mm.DurationMinutes != 30 {
		t.Errorf("expected duration 30, got %d", mm.DurationMinutes)
	}
	if mm.Reason != "flooding" {
		t.Errorf("expected reason %q, got %q", "flooding", mm.Reason)
	}
}

// ---------------------------------------------------------------------------
// Test: Creating a bot_reply server message
// ---------------------------------------------------------------------------

func TestNewServerMessage_BotReply(t *testing.T) {
	payload := BotReplyMsg{
		RequestID: "req-456",
		ChannelID: "c-1",
		Text:      "Sure, here is how binary search works.",
		Intent:    "coding",
	}

	data, err := NewServerMessage(TypeBotReply, payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Decode back and verify structure.
	var result map[string]interface{}
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to unmarshal result: %v", err)
	}

	if result["type"] != TypeBotReply {
		t.Errorf("expected type %q, got %v", TypeBotReply, result["type"])
	}
	if result["request_id"] != "req-456" {
		t.Errorf("expected request_id %q, got %v", "req-456", result["request_id"])
	}
	if result["intent"] != "coding" {
		t.Errorf("expected intent %q, got %v", "coding", result["intent"])
	}
	if result["text"] != payload.Text {
		t.Errorf("unexpected text: %v", result["text"])
	}
}

// ---------------------------------------------------------------------------
// Test: Parsing an unknown message type returns an error
// ---------------------------------------------------------------------------

func TestParseClientMessage_UnknownType(t *testing.T) {
	input := []byte(`{"type":"unknown_type","data":"something"}`)

	msgType, msg, err := ParseClientMessage(input)
	if err == nil {
		t.Fatal("expected an error for unknown message type, got nil")
	}
	if msg != nil {
		t.Errorf("expected nil message for unknown type, got %v", msg)
	}
	if msgType != "unknown_type" {
		t.Errorf("expected returned type %q, got %q", "unknown_type", msgType)
	}
}

// ---------------------------------------------------------------------------
// Test: Server-only types are rejected on the client path
// ---------------------------------------------------------------------------

func TestParseClientMessage_ServerOnlyType(t *testing.T) {
	input := []byte(`{"type":"bot_reply","text":"spoofed"}`)

	if _, _, err := ParseClientMessage(input); err == nil {
		t.Fatal("expected an error for a server-only message type, got nil")
	}
}

// ---------------------------------------------------------------------------
// Test: Round-trip fidelity (marshal -> unmarshal)
// ---------------------------------------------------------------------------

func TestRoundTrip_Summarize(t *testing.T) {
	original := SummarizeMsg{
		Type:      TypeSummarize,
		ChannelID: "c-9",
		Topic:     "deployment",
	}

	// Marshal to JSON.
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	// Parse back through the protocol parser.
	msgType, msg, err := ParseClientMessage(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msgType != TypeSummarize {
		t.Fatalf("expected type %q, got %q", TypeSummarize, msgType)
	}

	decoded, ok := msg.(SummarizeMsg)
	if !ok {
		t.Fatalf("expected SummarizeMsg, got %T", msg)
	}
	if decoded.ChannelID != original.ChannelID || decoded.Topic != original.Topic {
		t.Errorf("round trip mismatch: got %+v, want %+v", decoded, original)
	}
}

func TestRoundTrip_WarningsList(t *testing.T) {
	original := WarningsListMsg{
		Type:   TypeWarningsList,
		UserID: "u1",
		Warnings: []WarningEntry{
			{Reason: "spam", Moderator: "Mod", Timestamp: 1700000000},
			{Reason: "caps", Moderator: "AutoMod", Timestamp: 1700000100},
		},
	}

	// Create server message bytes.
	data, err := NewServerMessage(TypeWarningsList, original)
	if err != nil {
		t.Fatalf("failed to create server message: %v", err)
	}

	// Unmarshal back into the struct.
	var decoded WarningsListMsg
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if decoded.Type != TypeWarningsList {
		t.Errorf("type mismatch: expected %q, got %q", TypeWarningsList, decoded.Type)
	}
	if decoded.UserID != original.UserID {
		t.Errorf("user_id mismatch: expected %q, got %q", original.UserID, decoded.UserID)
	}
	if len(decoded.Warnings) != len(original.Warnings) {
		t.Fatalf("warnings length mismatch: expected %d, got %d", len(original.Warnings), len(decoded.Warnings))
	}
	for i := range original.Warnings {
		if decoded.Warnings[i] != original.Warnings[i] {
			t.Errorf("warnings[%d] mismatch: expected %+v, got %+v", i, original.Warnings[i], decoded.Warnings[i])
		}
	}
}

// ---------------------------------------------------------------------------
// Test: Envelope UnmarshalJSON edge cases
// ---------------------------------------------------------------------------

func TestEnvelope_MissingType(t *testing.T) {
	input := []byte(`{"data":"no type field"}`)
	var env Envelope
	if err := json.Unmarshal(input, &env); err == nil {
		t.Fatal("expected error for missing type field, got nil")
	}
}

func TestEnvelope_InvalidJSON(t *testing.T) {
	input := []byte(`{invalid json}`)
	var env Envelope
	if err := json.Unmarshal(input, &env); err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

// ---------------------------------------------------------------------------
// Test: Parsing all client message types succeeds
// ---------------------------------------------------------------------------

func TestParseClientMessage_AllTypes(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		wantType string
	}{
		{"chat_message", `{"type":"chat_message","channel_id":"c1","text":"hi"}`, TypeChatMessage},
		{"ask", `{"type":"ask","channel_id":"c1","text":"how do I sort a slice?"}`, TypeAsk},
		{"summarize", `{"type":"summarize","channel_id":"c1"}`, TypeSummarize},
		{"set_community", `{"type":"set_community","channel_id":"c1","community_type":"coding"}`, TypeSetCommunity},
		{"warn", `{"type":"warn","user_id":"u1","user_name":"Alice","reason":"spam"}`, TypeWarn},
		{"warnings", `{"type":"warnings","user_id":"u1"}`, TypeWarnings},
		{"clear_warnings", `{"type":"clear_warnings","user_id":"u1"}`, TypeClearWarnings},
		{"mute", `{"type":"mute","user_id":"u1","user_name":"Alice","duration_minutes":10,"reason":"caps"}`, TypeMute},
		{"kick", `{"type":"kick","user_id":"u1","user_name":"Alice","reason":"spam"}`, TypeKick},
		{"ban", `{"type":"ban","user_id":"u1","user_name":"Alice","reason":"scam"}`, TypeBan},
		{"ping", `{"type":"ping"}`, TypePing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msgType, msg, err := ParseClientMessage([]byte(tc.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if msgType != tc.wantType {
				t.Errorf("expected type %q, got %q", tc.wantType, msgType)
			}
			if msg == nil {
				t.Error("expected non-nil message")
			}
		})
	}
}
