package prompt

import (
	"reflect"
	"strings"
	"testing"

	"github.com/hanghive/hang-bot/internal/intent"
)

func TestCompose_SystemPrompt(t *testing.T) {
	req := Compose("coding", intent.Coding, nil, "how do I fix this?")

	if !strings.Contains(req.System, "You are HangHive AI") {
		t.Error("system prompt missing persona block")
	}
	if !strings.Contains(req.System, "You are in a Coding community.") {
		t.Error("system prompt missing community context")
	}
	if !strings.Contains(req.System, "coding/technical question") {
		t.Error("system prompt missing tone instructions")
	}
	if req.Temperature != 0.7 || req.TopP != 0.9 || req.MaxOutputTokens != 1024 {
		t.Errorf("unexpected sampling config: %+v", req)
	}
}

// Unknown community types and intents fall back to general; the composer
// never fails.
func TestCompose_UnknownFallsBackToGeneral(t *testing.T) {
	req := Compose("gaming", intent.Intent("speedrun"), nil, "hi")

	if !strings.Contains(req.System, "You are in a General community.") {
		t.Error("unknown community type did not fall back to general context")
	}
	if !strings.Contains(req.System, "helpful, balanced, and friendly tone") {
		t.Error("unknown intent did not fall back to general tone")
	}
}

func TestCompose_HistoryWindow(t *testing.T) {
	history := make([]Turn, 25)
	for i := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleModel
		}
		history[i] = Turn{Role: role, Content: strings.Repeat("x", i+1)}
	}

	req := Compose("general", intent.General, history, "latest question")

	if len(req.Turns) != HistoryWindow+1 {
		t.Fatalf("len(Turns) = %d, want %d", len(req.Turns), HistoryWindow+1)
	}
	// The window holds the most recent turns, oldest first.
	if req.Turns[0].Content != history[15].Content {
		t.Errorf("window starts at %q, want %q", req.Turns[0].Content, history[15].Content)
	}
	// The current message always comes last.
	last := req.Turns[len(req.Turns)-1]
	if last.Role != RoleUser || last.Content != "latest question" {
		t.Errorf("last turn = %+v, want current user message", last)
	}
	// The caller's history is untouched.
	if len(history) != 25 {
		t.Errorf("history length changed to %d", len(history))
	}
}

func TestCompose_NormalizesMalformedRoles(t *testing.T) {
	history := []Turn{
		{Role: "assistant", Content: "who am I"},
		{Role: "", Content: "no role"},
		{Role: RoleModel, Content: "fine"},
	}

	req := Compose("general", intent.General, history, "q")

	if req.Turns[0].Role != RoleUser {
		t.Errorf("unknown role normalized to %q, want %q", req.Turns[0].Role, RoleUser)
	}
	if req.Turns[1].Role != RoleUser {
		t.Errorf("empty role normalized to %q, want %q", req.Turns[1].Role, RoleUser)
	}
	if req.Turns[2].Role != RoleModel {
		t.Errorf("valid role rewritten to %q", req.Turns[2].Role)
	}
}

// Composing twice from identical inputs yields identical requests.
func TestCompose_Idempotent(t *testing.T) {
	history := []Turn{
		{Role: RoleUser, Content: "first"},
		{Role: RoleModel, Content: "second"},
	}

	a := Compose("study", intent.Study, history, "explain photosynthesis")
	b := Compose("study", intent.Study, history, "explain photosynthesis")

	if !reflect.DeepEqual(a, b) {
		t.Error("Compose is not deterministic for identical inputs")
	}
}

func TestComposeSummary(t *testing.T) {
	msgs := []ChannelMessage{
		{Author: "alice", Content: "let's ship on friday"},
		{Author: "bob", Content: "agreed"},
		{Author: "", Content: "works for me"},
	}

	req := ComposeSummary(msgs)

	if !strings.Contains(req.Turns[0].Content, "alice: let's ship on friday") {
		t.Error("summary prompt missing formatted message")
	}
	if !strings.Contains(req.Turns[0].Content, "User: works for me") {
		t.Error("authorless message not attributed to User")
	}
	if !strings.Contains(req.Turns[0].Content, "3-5 bullet points") {
		t.Error("summary prompt missing bullet point rule")
	}
	if req.Temperature != 0.3 || req.MaxOutputTokens != 512 {
		t.Errorf("unexpected summary sampling config: %+v", req)
	}
}

func TestComposeTopicSummary(t *testing.T) {
	msgs := []ChannelMessage{{Author: "alice", Content: "redis is faster here"}}

	req := ComposeTopicSummary("caching", msgs)

	body := req.Turns[0].Content
	if !strings.Contains(body, `discussion about "caching"`) {
		t.Error("topic summary prompt missing topic")
	}
	if !strings.Contains(body, "alice: redis is faster here") {
		t.Error("topic summary prompt missing messages")
	}
	if req.System != topicSummarySystemPrompt {
		t.Errorf("system = %q, want topic summary persona", req.System)
	}
}
