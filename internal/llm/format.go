package llm

import "strings"

const emptyResponseMessage = "I'm sorry, I couldn't generate a response. Please try again."

// Role-prefix artifacts the model sometimes prepends despite instructions.
var stripPrefixes = []string{
	"HangHive AI:",
	"HangHive AI :",
	"Assistant:",
	"Bot:",
}

// FormatResponse cleans raw model output for display: trims whitespace and
// strips a known set of leading role prefixes. Empty output maps to a fixed
// apology message so callers always get displayable text.
func FormatResponse(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return emptyResponseMessage
	}

	for _, prefix := range stripPrefixes {
		if strings.HasPrefix(text, prefix) {
			text = strings.TrimSpace(strings.TrimPrefix(text, prefix))
			break
		}
	}
	return text
}
