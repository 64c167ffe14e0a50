// Package prompt builds generation requests for the HangHive assistant. It
// combines the fixed persona instructions with a community-context sentence
// and a tone paragraph selected from the detected intent, plus a bounded
// window of prior conversation turns. Composition is pure: the same inputs
// always produce byte-identical requests and the caller's history is never
// mutated.
package prompt

import "github.com/hanghive/hang-bot/internal/intent"

// HistoryWindow is the number of most recent turns included for context.
const HistoryWindow = 10

// Role tags a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one entry of a session's conversation history.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is everything a generation backend needs for one call.
type Request struct {
	System          string  `json:"system"`
	Turns           []Turn  `json:"turns"`
	Temperature     float32 `json:"temperature"`
	TopP            float32 `json:"top_p,omitempty"`
	MaxOutputTokens int32   `json:"max_output_tokens"`
}

// Sampling defaults for conversational replies.
const (
	chatTemperature     = 0.7
	chatTopP            = 0.9
	chatMaxOutputTokens = 1024
)

// systemPrompt is the HangHive AI persona and safety instruction block.
const systemPrompt = `You are HangHive AI, an intelligent assistant integrated inside a Discord-like community platform called HangHive.

Your behavior rules:

1. Accuracy First:
- Always provide correct and reliable information.
- If unsure, politely say you are not fully certain instead of guessing.
- Do not create false facts.

2. Response Style:
- Keep answers concise but complete.
- Use bullet points or numbered lists when helpful.
- Avoid unnecessary long paragraphs.
- Avoid dramatic or exaggerated responses.
- Do not behave like a comedian.
- Do not overuse emojis (use 1-2 max per response, only when natural).
- Never say you are ChatGPT or any other AI. You are HangHive AI only.

3. Community Safety:
- Do not provide harmful, illegal, or unsafe instructions.
- Maintain respectful tone in all conversations.
- If user requests inappropriate content, decline politely.

4. Conversation Awareness:
- Understand user intent carefully.
- Respond directly to what the user is asking.
- Do not change topic unnecessarily.
`

// communityContext maps a community type to its context sentence. Unknown
// types fall back to the general entry — the composer never fails.
var communityContext = map[string]string{
	"study":        "You are in a Study community. Prioritize educational and academic help.",
	"coding":       "You are in a Coding community. Prioritize technical and programming help.",
	"professional": "You are in a Professional/Office community. Maintain formal language.",
	"casual":       "You are in a Casual/Friends community. Be relaxed and friendly.",
	"general":      "You are in a General community. Be helpful across all topics.",
}

// toneInstructions maps a detected intent to the tone paragraph appended to
// the system prompt.
var toneInstructions = map[intent.Intent]string{
	intent.Study: "\n\nThe user is asking a study/academic question. " +
		"Be clear, structured, and educational. " +
		"Provide step-by-step explanations when needed. " +
		"Use examples when helpful.",
	intent.Coding: "\n\nThe user is asking a coding/technical question. " +
		"Provide properly formatted code blocks. " +
		"Explain the logic briefly. " +
		"Keep code clean and correct.",
	intent.Professional: "\n\nThe user is in a professional/office context. " +
		"Use formal and respectful language. " +
		"Keep responses concise and structured.",
	intent.Casual: "\n\nThe user is being casual and friendly. " +
		"Be friendly but not overacting. " +
		"Keep it natural and balanced. " +
		"Don't be cringe.",
	intent.General: "\n\nRespond in a helpful, balanced, and friendly tone.",
}

// Compose builds the generation request for a conversational reply. The
// history is truncated to the last HistoryWindow turns, malformed turns are
// normalized (empty role becomes user), and the current user message is
// always appended last regardless of whether it also appears in history.
func Compose(communityType string, in intent.Intent, history []Turn, userMessage string) Request {
	system := systemPrompt +
		"\n\nCommunity Context: " + contextFor(communityType) +
		toneFor(in)

	window := history
	if len(window) > HistoryWindow {
		window = window[len(window)-HistoryWindow:]
	}

	turns := make([]Turn, 0, len(window)+1)
	for _, t := range window {
		role := t.Role
		if role != RoleUser && role != RoleModel {
			role = RoleUser
		}
		turns = append(turns, Turn{Role: role, Content: t.Content})
	}
	turns = append(turns, Turn{Role: RoleUser, Content: userMessage})

	return Request{
		System:          system,
		Turns:           turns,
		Temperature:     chatTemperature,
		TopP:            chatTopP,
		MaxOutputTokens: chatMaxOutputTokens,
	}
}

func contextFor(communityType string) string {
	if s, ok := communityContext[communityType]; ok {
		return s
	}
	return communityContext["general"]
}

func toneFor(in intent.Intent) string {
	if s, ok := toneInstructions[in]; ok {
		return s
	}
	return toneInstructions[intent.General]
}
