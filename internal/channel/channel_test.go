package channel

import (
	"context"
	"fmt"
	"testing"
)

func TestMessageBuffer_AddAndRecent(t *testing.T) {
	mb := NewMessageBuffer()

	for i := 1; i <= 3; i++ {
		mb.Add("c1", Message{Author: "alice", Content: fmt.Sprintf("msg %d", i)})
	}

	got := mb.Recent("c1", 0)
	if len(got) != 3 {
		t.Fatalf("Recent returned %d messages, want 3", len(got))
	}
	for i, msg := range got {
		if want := fmt.Sprintf("msg %d", i+1); msg.Content != want {
			t.Errorf("got[%d].Content = %q, want %q (chronological order)", i, msg.Content, want)
		}
	}
}

func TestMessageBuffer_EvictsOldest(t *testing.T) {
	mb := NewMessageBuffer()

	for i := 1; i <= MaxBufferMessages+10; i++ {
		mb.Add("c1", Message{Content: fmt.Sprintf("msg %d", i)})
	}

	got := mb.Recent("c1", 0)
	if len(got) != MaxBufferMessages {
		t.Fatalf("buffer holds %d messages, want %d", len(got), MaxBufferMessages)
	}
	if got[0].Content != "msg 11" {
		t.Errorf("oldest retained = %q, want %q", got[0].Content, "msg 11")
	}
	if got[len(got)-1].Content != fmt.Sprintf("msg %d", MaxBufferMessages+10) {
		t.Errorf("newest retained = %q", got[len(got)-1].Content)
	}
}

func TestMessageBuffer_RecentLimit(t *testing.T) {
	mb := NewMessageBuffer()

	for i := 1; i <= 10; i++ {
		mb.Add("c1", Message{Content: fmt.Sprintf("msg %d", i)})
	}

	got := mb.Recent("c1", 4)
	if len(got) != 4 {
		t.Fatalf("Recent(4) returned %d messages", len(got))
	}
	if got[0].Content != "msg 7" || got[3].Content != "msg 10" {
		t.Errorf("Recent(4) = %v, want the 4 newest in order", got)
	}
}

func TestMessageBuffer_ChannelsAreIndependent(t *testing.T) {
	mb := NewMessageBuffer()

	mb.Add("c1", Message{Content: "one"})
	mb.Add("c2", Message{Content: "two"})

	if got := mb.Recent("c1", 0); len(got) != 1 || got[0].Content != "one" {
		t.Errorf("c1 buffer = %v", got)
	}
	if got := mb.Recent("unknown", 0); len(got) != 0 {
		t.Errorf("unknown channel buffer = %v, want empty", got)
	}

	mb.Remove("c1")
	if got := mb.Recent("c1", 0); len(got) != 0 {
		t.Errorf("c1 after Remove = %v, want empty", got)
	}
}

func TestNormalizeCommunityType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"study", "study"},
		{"coding", "coding"},
		{"professional", "professional"},
		{"casual", "casual"},
		{"general", "general"},
		{"gaming", "general"},
		{"", "general"},
		{"STUDY", "study"},
		{"  Coding  ", "coding"},
	}

	for _, tt := range tests {
		if got := NormalizeCommunityType(tt.in); got != tt.want {
			t.Errorf("NormalizeCommunityType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMemorySettings(t *testing.T) {
	s := NewMemorySettings()
	ctx := context.Background()

	ct, err := s.CommunityType(ctx, "c1")
	if err != nil {
		t.Fatal(err)
	}
	if ct != DefaultCommunityType {
		t.Errorf("unset channel type = %q, want %q", ct, DefaultCommunityType)
	}

	if err := s.SetCommunityType(ctx, "c1", "coding"); err != nil {
		t.Fatal(err)
	}
	if ct, _ := s.CommunityType(ctx, "c1"); ct != "coding" {
		t.Errorf("type after set = %q, want coding", ct)
	}

	// Unknown values are normalized on write.
	s.SetCommunityType(ctx, "c1", "gaming")
	if ct, _ := s.CommunityType(ctx, "c1"); ct != DefaultCommunityType {
		t.Errorf("type after invalid set = %q, want %q", ct, DefaultCommunityType)
	}
}
