package ledger

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestWarn_MonotonicCount(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		rec, err := l.Warn(ctx, "u1", "Alice", fmt.Sprintf("reason %d", i), "Mod")
		if err != nil {
			t.Fatalf("Warn #%d: %v", i, err)
		}
		if rec.Count != i {
			t.Errorf("Warn #%d returned count %d", i, rec.Count)
		}
		want := fmt.Sprintf("Alice has been warned. Reason: reason %d (Warning #%d)", i, i)
		if rec.Message != want {
			t.Errorf("Warn #%d message = %q, want %q", i, rec.Message, want)
		}
	}

	warns, err := l.Warnings(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(warns) != 5 {
		t.Fatalf("Warnings returned %d entries, want 5", len(warns))
	}
	for i, w := range warns {
		if w.Reason != fmt.Sprintf("reason %d", i+1) {
			t.Errorf("warnings[%d].Reason = %q, want insertion order preserved", i, w.Reason)
		}
	}
}

func TestWarn_UsersAreIndependent(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	l.Warn(ctx, "u1", "Alice", "spam", "Mod")
	l.Warn(ctx, "u2", "Bob", "caps", "Mod")
	rec, _ := l.Warn(ctx, "u1", "Alice", "links", "Mod")

	if rec.Count != 2 {
		t.Errorf("u1 count = %d, want 2", rec.Count)
	}
	warns, _ := l.Warnings(ctx, "u2")
	if len(warns) != 1 {
		t.Errorf("u2 has %d warnings, want 1", len(warns))
	}
}

func TestClearWarnings(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		l.Warn(ctx, "u1", "Alice", "spam", "Mod")
	}

	removed, err := l.ClearWarnings(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("ClearWarnings = %d, want 3", removed)
	}

	warns, _ := l.Warnings(ctx, "u1")
	if len(warns) != 0 {
		t.Errorf("Warnings after clear = %d entries, want 0", len(warns))
	}

	// Clearing an unknown user is a no-op returning zero.
	if removed, _ := l.ClearWarnings(ctx, "ghost"); removed != 0 {
		t.Errorf("ClearWarnings(ghost) = %d, want 0", removed)
	}
}

// Concurrent warns for the same user must serialize: every count 1..N is
// observed exactly once.
func TestWarn_ConcurrentSameUser(t *testing.T) {
	l := New(NewMemoryStore())
	ctx := context.Background()

	const n = 100
	counts := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec, err := l.Warn(ctx, "u1", "Alice", "spam", "Mod")
			if err != nil {
				t.Error(err)
				return
			}
			counts <- rec.Count
		}()
	}
	wg.Wait()
	close(counts)

	seen := make(map[int]bool)
	for c := range counts {
		if seen[c] {
			t.Errorf("count %d observed twice", c)
		}
		seen[c] = true
	}
	for i := 1; i <= n; i++ {
		if !seen[i] {
			t.Errorf("count %d never observed", i)
		}
	}
}

func TestMuteRecord(t *testing.T) {
	rec := MuteRecord("Alice", 30, "flooding", "Mod")

	if rec.Action != ActionMute {
		t.Errorf("Action = %q, want %q", rec.Action, ActionMute)
	}
	if rec.Duration != 30*time.Minute {
		t.Errorf("Duration = %v, want 30m", rec.Duration)
	}
	want := "Alice has been muted for 30 minutes. Reason: flooding"
	if rec.Message != want {
		t.Errorf("Message = %q, want %q", rec.Message, want)
	}
}

func TestKickAndBanRecords(t *testing.T) {
	kick := KickRecord("Bob", "spam", "Mod")
	if kick.Action != ActionKick || kick.Message != "Bob has been kicked. Reason: spam" {
		t.Errorf("unexpected kick record: %+v", kick)
	}

	ban := BanRecord("Carol", "scam links", "Mod")
	if ban.Action != ActionBan || ban.Message != "Carol has been banned. Reason: scam links" {
		t.Errorf("unexpected ban record: %+v", ban)
	}
}

func TestFormatModLog(t *testing.T) {
	entry := FormatModLog(ActionBan, "Mod", "Carol", "scam links")

	for _, want := range []string{"MOD ACTION: BAN", "Moderator: Mod", "Target: Carol", "Reason: scam links"} {
		if !strings.Contains(entry, want) {
			t.Errorf("mod log %q missing %q", entry, want)
		}
	}
}
