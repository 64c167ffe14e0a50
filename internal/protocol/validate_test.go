package protocol

import (
	"strings"
	"testing"
)

func TestValidateText(t *testing.T) {
	cases := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"normal message", "hello there", false},
		{"empty", "", true},
		{"max chars", strings.Repeat("a", MaxTextChars), false},
		{"too many chars", strings.Repeat("a", MaxTextChars+1), true},
		{"too many bytes", strings.Repeat("é", MaxMessageBytes/2+1), true},
		{"invalid utf8", string([]byte{0xff, 0xfe}), true},
		{"unicode within limits", strings.Repeat("日", 100), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateText(tc.text)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateText(%s) error = %v, wantErr %v", tc.name, err, tc.wantErr)
			}
		})
	}
}
