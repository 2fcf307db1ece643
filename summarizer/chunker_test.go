package summarizer

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedText(n int) (string, []string) {
	sentences := make([]string, n)
	for i := range sentences {
		sentences[i] = fmt.Sprintf("Clause number %d applies to the employee.", i+1)
	}
	return strings.Join(sentences, " "), sentences
}

func TestChunkText_Empty(t *testing.T) {
	assert.Empty(t, ChunkText("", 5))
	assert.Empty(t, ChunkText(" \n\t ", 5))
}

func TestChunkText_BoundsAndCoverage(t *testing.T) {
	for _, n := range []int{1, 4, 5, 6, 12} {
		t.Run(fmt.Sprintf("%d sentences", n), func(t *testing.T) {
			text, sentences := numberedText(n)

			chunks := ChunkText(text, 5)

			require.Len(t, chunks, (n+4)/5)
			var rebuilt []string
			for _, c := range chunks {
				got := SplitSentences(c)
				assert.LessOrEqual(t, len(got), 5)
				rebuilt = append(rebuilt, got...)
			}
			assert.Equal(t, sentences, rebuilt)
		})
	}
}

func TestChunkText_DefaultSize(t *testing.T) {
	text, _ := numberedText(11)

	assert.Len(t, ChunkText(text, 0), 3)
	assert.Len(t, ChunkText(text, 2), 6)
}

func TestChunkSentences_JoinsWithSingleSpaces(t *testing.T) {
	chunks := ChunkText("One.  Two.\nThree.", 2)
	assert.Equal(t, []string{"One. Two.", "Three."}, chunks)
}
