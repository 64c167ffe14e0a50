// Package bot wires intent detection, prompt composition, and the generation
// client into the assistant pipeline shared by the botworker and the
// terminal front end.
package bot

import (
	"context"
	"unicode/utf8"

	"github.com/hanghive/hang-bot/internal/intent"
	"github.com/hanghive/hang-bot/internal/llm"
	"github.com/hanghive/hang-bot/internal/prompt"
)

// MaxReplyLength is the delivery limit for a single reply. Longer replies
// are truncated with a marker before they reach the client.
const MaxReplyLength = 1900

const truncationMarker = "... (message truncated)"

// minSummaryLength is the minimum transcript length worth a generation call.
const minSummaryLength = 20

const notEnoughContentMessage = "Not enough content to summarize."

// Service runs the generation pipeline. Every method returns a displayable
// string; backend failures surface as the generation client's fallback
// messages, never as errors.
type Service struct {
	client *llm.Client
}

// New creates a Service around the given generation client.
func New(client *llm.Client) *Service {
	return &Service{client: client}
}

// GenerateReply detects the message's intent, composes the conversational
// prompt with the community context and history window, and runs generation.
// It returns the reply text and the detected intent.
func (s *Service) GenerateReply(ctx context.Context, communityType, message string, history []prompt.Turn) (string, intent.Intent) {
	in := intent.Detect(message)
	req := prompt.Compose(communityType, in, history, message)
	return s.client.Generate(ctx, req), in
}

// Summarize produces a summary of the given channel messages. Transcripts
// too short to be worth a model call come back as a fixed notice.
func (s *Service) Summarize(ctx context.Context, messages []prompt.ChannelMessage) string {
	if len(prompt.FormatMessages(messages)) < minSummaryLength {
		return notEnoughContentMessage
	}
	req := prompt.ComposeSummary(messages)
	return s.client.Generate(ctx, req)
}

// SummarizeTopic produces a summary of what the given messages say about a
// specific topic.
func (s *Service) SummarizeTopic(ctx context.Context, topic string, messages []prompt.ChannelMessage) string {
	req := prompt.ComposeTopicSummary(topic, messages)
	return s.client.Generate(ctx, req)
}

// TruncateReply bounds a reply to the delivery limit, appending a marker
// when content was dropped.
func TruncateReply(text string) string {
	if len(text) <= MaxReplyLength {
		return text
	}
	cut := MaxReplyLength - len(truncationMarker)
	// Back the cut up to a rune boundary so the output stays valid UTF-8.
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + truncationMarker
}
