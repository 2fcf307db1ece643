package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
		{
			name: "simple",
			text: "The employee shall work. The employer shall pay! Is that fair?",
			want: []string{"The employee shall work.", "The employer shall pay!", "Is that fair?"},
		},
		{
			name: "abbreviations and decimals",
			text: "Dr. Smith signed on behalf of Acme Inc. in 2024. The fee is 3.5 percent, e.g. on each invoice.",
			want: []string{"Dr. Smith signed on behalf of Acme Inc. in 2024.", "The fee is 3.5 percent, e.g. on each invoice."},
		},
		{
			name: "section numbers and initials",
			text: "See Sec. 4.2 of the agreement signed by J. Doe. Payment is due monthly.",
			want: []string{"See Sec. 4.2 of the agreement signed by J. Doe.", "Payment is due monthly."},
		},
		{
			name: "closing quotes",
			text: `He said "this is final." Then he left.`,
			want: []string{`He said "this is final."`, "Then he left."},
		},
		{
			name: "blank line ends a heading",
			text: "TERMINATION\n\nEither party may end this agreement.",
			want: []string{"TERMINATION", "Either party may end this agreement."},
		},
		{
			name: "inner whitespace collapsed",
			text: "The tenant\nshall pay   rent.",
			want: []string{"The tenant shall pay rent."},
		},
		{
			name: "no terminator",
			text: "Standard working hours apply",
			want: []string{"Standard working hours apply"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.text))
		})
	}
}
