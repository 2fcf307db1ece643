package summarizer

import "strings"

// DefaultChunkSentences is the chunk size used when none is given.
const DefaultChunkSentences = 5

// ChunkSentences groups consecutive sentences into chunks of at most
// maxSentences each. Chunks partition the input in order.
func ChunkSentences(sentences []string, maxSentences int) [][]string {
	if maxSentences <= 0 {
		maxSentences = DefaultChunkSentences
	}
	chunks := make([][]string, 0, (len(sentences)+maxSentences-1)/maxSentences)
	for i := 0; i < len(sentences); i += maxSentences {
		end := i + maxSentences
		if end > len(sentences) {
			end = len(sentences)
		}
		chunks = append(chunks, sentences[i:end])
	}
	return chunks
}

// ChunkText splits text into sentences and joins every group of at most
// maxSentences sentences with single spaces. Empty input yields no chunks.
func ChunkText(text string, maxSentences int) []string {
	groups := ChunkSentences(SplitSentences(text), maxSentences)
	chunks := make([]string, 0, len(groups))
	for _, g := range groups {
		chunks = append(chunks, strings.Join(g, " "))
	}
	return chunks
}
