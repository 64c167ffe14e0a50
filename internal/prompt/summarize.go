package prompt

import (
	"fmt"
	"strings"
)

// Sampling settings for summarization: lower temperature, shorter output.
const (
	summaryTemperature     = 0.3
	summaryMaxOutputTokens = 512
)

const summarySystemPrompt = "You are HangHive AI. Provide concise, accurate summaries."

const topicSummarySystemPrompt = "You are HangHive AI. Provide concise, topic-focused summaries."

const messagesSummaryTemplate = `Summarize the following conversation messages into a concise summary.

Rules:
- Use 3-5 bullet points maximum.
- Capture key topics discussed.
- Mention any decisions or conclusions made.
- Keep it brief and informative.
- Do not add information that wasn't in the messages.

Messages:
%s

Provide a clear, concise summary:`

const topicSummaryTemplate = `Summarize the following discussion about "%s".

Rules:
- Focus specifically on what was said about the topic.
- Use 3-5 bullet points maximum.
- Highlight key points, agreements, and disagreements.
- Keep it brief and informative.

Messages about "%s":
%s

Provide a focused summary:`

// ChannelMessage is one buffered channel message fed into summarization.
type ChannelMessage struct {
	Author  string `json:"author"`
	Content string `json:"content"`
}

// ComposeSummary builds the request for summarizing a slice of channel
// messages.
func ComposeSummary(messages []ChannelMessage) Request {
	body := fmt.Sprintf(messagesSummaryTemplate, FormatMessages(messages))
	return Request{
		System:          summarySystemPrompt,
		Turns:           []Turn{{Role: RoleUser, Content: body}},
		Temperature:     summaryTemperature,
		MaxOutputTokens: summaryMaxOutputTokens,
	}
}

// ComposeTopicSummary builds the request for a summary focused on one topic.
func ComposeTopicSummary(topic string, messages []ChannelMessage) Request {
	body := fmt.Sprintf(topicSummaryTemplate, topic, topic, FormatMessages(messages))
	return Request{
		System:          topicSummarySystemPrompt,
		Turns:           []Turn{{Role: RoleUser, Content: body}},
		Temperature:     summaryTemperature,
		MaxOutputTokens: summaryMaxOutputTokens,
	}
}

// FormatMessages renders channel messages as "author: content" lines.
// Messages with no author are attributed to "User".
func FormatMessages(messages []ChannelMessage) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		author := m.Author
		if author == "" {
			author = "User"
		}
		lines = append(lines, author+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
