package bot

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/hanghive/hang-bot/internal/intent"
	"github.com/hanghive/hang-bot/internal/llm"
	"github.com/hanghive/hang-bot/internal/prompt"
)

// captureBackend records the last request and returns a fixed reply.
type captureBackend struct {
	lastReq prompt.Request
	reply   string
}

func (b *captureBackend) GenerateContent(_ context.Context, req prompt.Request) (string, error) {
	b.lastReq = req
	return b.reply, nil
}

func newTestService(reply string) (*Service, *captureBackend) {
	backend := &captureBackend{reply: reply}
	return New(llm.NewClient(backend)), backend
}

func TestGenerateReply_DetectsIntentAndComposes(t *testing.T) {
	svc, backend := newTestService("Use a for loop with an index.")

	reply, in := svc.GenerateReply(context.Background(), "coding", "how do I debug this function?", nil)

	if reply != "Use a for loop with an index." {
		t.Errorf("reply = %q", reply)
	}
	if in != intent.Coding {
		t.Errorf("intent = %q, want %q", in, intent.Coding)
	}
	if !strings.Contains(backend.lastReq.System, "Coding community") {
		t.Error("system prompt missing community context")
	}
	got := backend.lastReq.Turns
	if len(got) == 0 || got[len(got)-1].Content != "how do I debug this function?" {
		t.Errorf("current message not appended last: %v", got)
	}
}

func TestGenerateReply_PassesHistory(t *testing.T) {
	svc, backend := newTestService("ok")

	history := []prompt.Turn{
		{Role: prompt.RoleUser, Content: "earlier question"},
		{Role: prompt.RoleModel, Content: "earlier answer"},
	}
	svc.GenerateReply(context.Background(), "general", "follow-up", history)

	turns := backend.lastReq.Turns
	if len(turns) != 3 {
		t.Fatalf("got %d turns, want history plus current message", len(turns))
	}
	if turns[0].Content != "earlier question" || turns[1].Content != "earlier answer" {
		t.Errorf("history not preserved: %v", turns)
	}
}

func TestSummarize_UsesTranscript(t *testing.T) {
	svc, backend := newTestService("They discussed the release.")

	messages := []prompt.ChannelMessage{
		{Author: "alice", Content: "release is friday"},
		{Author: "bob", Content: "docs are ready"},
	}
	got := svc.Summarize(context.Background(), messages)

	if got != "They discussed the release." {
		t.Errorf("summary = %q", got)
	}
	turns := backend.lastReq.Turns
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if !strings.Contains(turns[0].Content, "alice: release is friday") {
		t.Errorf("transcript missing from prompt: %q", turns[0].Content)
	}
}

func TestSummarize_ShortTranscript(t *testing.T) {
	svc, backend := newTestService("should not be called")

	got := svc.Summarize(context.Background(), []prompt.ChannelMessage{
		{Author: "alice", Content: "hi"},
	})

	if got != notEnoughContentMessage {
		t.Errorf("summary = %q, want short-transcript notice", got)
	}
	if len(backend.lastReq.Turns) != 0 {
		t.Error("backend was called for a short transcript")
	}
}

func TestSummarizeTopic_MentionsTopic(t *testing.T) {
	svc, backend := newTestService("About deployment: it is on hold.")

	svc.SummarizeTopic(context.Background(), "deployment", []prompt.ChannelMessage{
		{Author: "alice", Content: "deployment is on hold"},
	})

	if !strings.Contains(backend.lastReq.Turns[0].Content, "deployment") {
		t.Error("topic missing from prompt")
	}
}

func TestTruncateReply(t *testing.T) {
	short := "short reply"
	if got := TruncateReply(short); got != short {
		t.Errorf("short reply was modified: %q", got)
	}

	long := strings.Repeat("a", MaxReplyLength+500)
	got := TruncateReply(long)
	if len(got) != MaxReplyLength {
		t.Errorf("truncated length = %d, want %d", len(got), MaxReplyLength)
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("truncated reply missing marker: %q", got[len(got)-40:])
	}
}

// Truncation never splits a multibyte rune.
func TestTruncateReply_RuneBoundary(t *testing.T) {
	long := strings.Repeat("日", 700)
	got := TruncateReply(long)

	if len(got) > MaxReplyLength {
		t.Errorf("truncated length = %d, want <= %d", len(got), MaxReplyLength)
	}
	if !utf8.ValidString(got) {
		t.Errorf("truncated reply is not valid UTF-8")
	}
	if !strings.HasSuffix(got, truncationMarker) {
		t.Errorf("truncated reply missing marker: %q", got[len(got)-40:])
	}
}
