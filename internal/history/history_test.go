package history

import (
	"context"
	"fmt"
	"testing"

	"github.com/hanghive/hang-bot/internal/prompt"
)

func TestMemoryStore_AppendAndTurns(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		turn := prompt.Turn{Role: prompt.RoleUser, Content: fmt.Sprintf("msg %d", i)}
		if err := s.Append(ctx, "s1", turn); err != nil {
			t.Fatal(err)
		}
	}

	turns, err := s.Turns(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(turns) != 3 {
		t.Fatalf("Turns returned %d entries, want 3", len(turns))
	}
	for i, turn := range turns {
		if want := fmt.Sprintf("msg %d", i+1); turn.Content != want {
			t.Errorf("turns[%d].Content = %q, want %q (chronological order)", i, turn.Content, want)
		}
	}
}

func TestMemoryStore_TrimsToBound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	for i := 1; i <= MaxStoredTurns+5; i++ {
		s.Append(ctx, "s1", prompt.Turn{Role: prompt.RoleUser, Content: fmt.Sprintf("msg %d", i)})
	}

	turns, _ := s.Turns(ctx, "s1")
	if len(turns) != MaxStoredTurns {
		t.Fatalf("stored %d turns, want %d", len(turns), MaxStoredTurns)
	}
	if turns[0].Content != "msg 6" {
		t.Errorf("oldest retained = %q, want msg 6", turns[0].Content)
	}
	if turns[len(turns)-1].Content != fmt.Sprintf("msg %d", MaxStoredTurns+5) {
		t.Errorf("newest retained = %q", turns[len(turns)-1].Content)
	}
}

func TestMemoryStore_SessionsAreIndependent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "s1", prompt.Turn{Role: prompt.RoleUser, Content: "one"})
	s.Append(ctx, "s2", prompt.Turn{Role: prompt.RoleModel, Content: "two"})

	if turns, _ := s.Turns(ctx, "s1"); len(turns) != 1 || turns[0].Content != "one" {
		t.Errorf("s1 turns = %v", turns)
	}
	if turns, _ := s.Turns(ctx, "unknown"); len(turns) != 0 {
		t.Errorf("unknown session turns = %v, want empty", turns)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "s1", prompt.Turn{Role: prompt.RoleUser, Content: "one"})
	if err := s.Clear(ctx, "s1"); err != nil {
		t.Fatal(err)
	}
	if turns, _ := s.Turns(ctx, "s1"); len(turns) != 0 {
		t.Errorf("turns after Clear = %v, want empty", turns)
	}

	// Clearing an unknown session is a no-op.
	if err := s.Clear(ctx, "ghost"); err != nil {
		t.Errorf("Clear(ghost) = %v, want nil", err)
	}
}

func TestMemoryStore_TurnsReturnsCopy(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	s.Append(ctx, "s1", prompt.Turn{Role: prompt.RoleUser, Content: "original"})

	turns, _ := s.Turns(ctx, "s1")
	turns[0].Content = "mutated"

	again, _ := s.Turns(ctx, "s1")
	if again[0].Content != "original" {
		t.Error("mutating the returned slice changed stored history")
	}
}
