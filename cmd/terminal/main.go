package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hanghive/hang-bot/internal/automod"
	"github.com/hanghive/hang-bot/internal/bot"
	"github.com/hanghive/hang-bot/internal/channel"
	"github.com/hanghive/hang-bot/internal/history"
	"github.com/hanghive/hang-bot/internal/llm"
	"github.com/hanghive/hang-bot/internal/prompt"
)

const terminalSession = "terminal"

const banner = `
==========================================
  HangHive — Terminal
  Your smart community assistant
==========================================`

var communityLabels = map[string]string{
	"study":        "Study - Academic & educational help",
	"coding":       "Coding - Programming & technical help",
	"professional": "Professional - Formal & office discussions",
	"casual":       "Casual - Friendly & relaxed conversations",
	"general":      "General - All-purpose help",
}

func main() {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = llm.DefaultModel
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	backend, err := llm.NewGeminiBackend(ctx, apiKey, model)
	cancel()
	if err != nil {
		log.Fatalf("failed to create gemini backend: %v", err)
	}
	service := bot.New(llm.NewClient(backend))
	conversation := history.NewMemoryStore()

	fmt.Println(banner)

	reader := bufio.NewScanner(os.Stdin)
	communityType := selectCommunityType(reader)

	fmt.Printf("\nYou can now chat with HangHive (%s mode).\n", communityType)
	fmt.Println("Type 'quit' or 'exit' to stop.")
	fmt.Println(strings.Repeat("-", 50))

	for {
		fmt.Print("\nYou: ")
		if !reader.Scan() {
			fmt.Println("\nGoodbye!")
			return
		}
		input := strings.TrimSpace(reader.Text())
		if input == "" {
			continue
		}

		switch strings.ToLower(input) {
		case "quit", "exit", "bye":
			fmt.Println("\nGoodbye!")
			return
		}

		if strings.HasPrefix(input, "/") {
			if handleCommand(input, communityType, conversation) {
				return
			}
			continue
		}

		// Auto-moderation check before anything reaches the model.
		if verdict := automod.Classify(input); !verdict.Accepted {
			fmt.Printf("\nAutoMod: %s\n", verdict.Reason)
			fmt.Println("   Your message was flagged and not sent to the AI.")
			continue
		}

		ctx := context.Background()
		turns, _ := conversation.Turns(ctx, terminalSession)

		reply, in := service.GenerateReply(ctx, communityType, input, turns)

		_ = conversation.Append(ctx, terminalSession, prompt.Turn{Role: prompt.RoleUser, Content: input})
		_ = conversation.Append(ctx, terminalSession, prompt.Turn{Role: prompt.RoleModel, Content: reply})

		fmt.Printf("\nHangHive [%s]: %s\n", in, reply)
	}
}

// selectCommunityType prompts for a community type by number or name and
// falls back to general for invalid names.
func selectCommunityType(reader *bufio.Scanner) string {
	fmt.Println("\nAvailable community types:")
	for i, ct := range channel.CommunityTypes {
		fmt.Printf("  %d. %s\n", i+1, communityLabels[ct])
	}

	for {
		fmt.Printf("\nSelect community type (1-%d) or type name: ", len(channel.CommunityTypes))
		if !reader.Scan() {
			return channel.DefaultCommunityType
		}
		choice := strings.TrimSpace(reader.Text())

		if n, err := strconv.Atoi(choice); err == nil {
			if n >= 1 && n <= len(channel.CommunityTypes) {
				selected := channel.CommunityTypes[n-1]
				fmt.Printf("\nCommunity type set to: %s\n", selected)
				return selected
			}
			fmt.Printf("  Invalid number. Please enter 1-%d.\n", len(channel.CommunityTypes))
			continue
		}

		validated := channel.NormalizeCommunityType(choice)
		if validated == strings.ToLower(choice) {
			fmt.Printf("\nCommunity type set to: %s\n", validated)
			return validated
		}
		fmt.Printf("  %q is not valid. Defaulting to %q.\n", choice, channel.DefaultCommunityType)
		return channel.DefaultCommunityType
	}
}

// handleCommand processes a slash command. Returns true when the program
// should exit.
func handleCommand(command, communityType string, conversation *history.MemoryStore) bool {
	switch strings.ToLower(strings.TrimSpace(command)) {
	case "/help":
		fmt.Println("\nAvailable commands:")
		fmt.Println("  /help        - Show this help menu")
		fmt.Println("  /community   - Show current community type")
		fmt.Println("  /clear       - Clear conversation history")
		fmt.Println("  /quit        - Exit the chatbot")

	case "/community":
		fmt.Printf("\nCurrent community type: %s\n", communityType)

	case "/clear":
		_ = conversation.Clear(context.Background(), terminalSession)
		fmt.Println("\nConversation history cleared.")

	case "/quit", "/exit":
		fmt.Println("\nGoodbye!")
		return true

	default:
		fmt.Printf("\nUnknown command: %s\n", command)
		fmt.Println("   Type /help to see available commands.")
	}
	return false
}
