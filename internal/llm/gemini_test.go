package llm

import (
	"context"
	"testing"

	"google.golang.org/genai"

	"github.com/hanghive/hang-bot/internal/prompt"
)

func TestGenaiRole(t *testing.T) {
	tests := []struct {
		in   prompt.Role
		want genai.Role
	}{
		{prompt.RoleUser, genai.RoleUser},
		{prompt.RoleModel, genai.RoleModel},
		{prompt.Role("system"), genai.RoleUser},
		{prompt.Role(""), genai.RoleUser},
	}

	for _, tt := range tests {
		if got := genaiRole(tt.in); got != tt.want {
			t.Errorf("genaiRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewGeminiBackend_RequiresAPIKey(t *testing.T) {
	if _, err := NewGeminiBackend(context.Background(), "", "any-model"); err == nil {
		t.Error("empty api key accepted")
	}
}
