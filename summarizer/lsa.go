package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/kljensen/snowball"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/mat"
)

// DefaultSummarySentences is the number of sentences kept per chunk when
// none is given.
const DefaultSummarySentences = 2

const defaultSmoothing = 0.4

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}]+)?`)

// LSA ranks sentences by latent semantic analysis: a smoothed term-frequency
// matrix is factorized with SVD and each sentence is scored by the length of
// its column in the sigma-weighted right singular vectors.
type LSA struct {
	// Language selects the Snowball stemmer.
	Language  string
	StopWords map[string]struct{}
	// Smoothing is added to every term frequency before normalisation.
	Smoothing float64
}

// NewLSA returns an English LSA summarizer with the default stop words.
func NewLSA() *LSA {
	return &LSA{
		Language:  "english",
		StopWords: englishStopWords,
		Smoothing: defaultSmoothing,
	}
}

// Summarize returns the k highest ranked sentences of chunk in their
// original order, joined by single spaces. A chunk with k or fewer sentences
// is returned unchanged.
func (l *LSA) Summarize(chunk string, k int) string {
	if k <= 0 {
		k = DefaultSummarySentences
	}
	sentences := SplitSentences(chunk)
	if len(sentences) <= k {
		return chunk
	}
	return l.SummarizeSentences(sentences, k)
}

// SummarizeSentences is Summarize for text that is already split, such as a
// chunk from ChunkSentences. Splitting again would lose boundaries that only
// existed as blank lines.
func (l *LSA) SummarizeSentences(sentences []string, k int) string {
	if k <= 0 {
		k = DefaultSummarySentences
	}

	picked := l.Select(sentences, k)
	out := make([]string, 0, len(picked))
	for _, i := range picked {
		out = append(out, sentences[i])
	}
	return strings.Join(out, " ")
}

// Select returns the indices of the k best sentences in ascending order.
// Ties go to the earlier sentence.
func (l *LSA) Select(sentences []string, k int) []int {
	if k >= len(sentences) {
		return firstN(len(sentences))
	}

	ranks := l.Rank(sentences)
	if ranks == nil {
		return firstN(k)
	}

	order := firstN(len(sentences))
	sort.SliceStable(order, func(a, b int) bool {
		return ranks[order[a]] > ranks[order[b]]
	})

	picked := order[:k]
	sort.Ints(picked)
	return picked
}

// Rank scores every sentence. It returns nil when no sentence has a usable
// term or the factorization fails.
func (l *LSA) Rank(sentences []string) []float64 {
	terms, counts := l.termCounts(sentences)
	if len(terms) == 0 {
		return nil
	}

	matrix := mat.NewDense(len(terms), len(sentences), nil)
	for col, sentenceCounts := range counts {
		for row, c := range sentenceCounts {
			matrix.Set(row, col, float64(c))
		}
	}
	l.smooth(matrix)

	var svd mat.SVD
	if !svd.Factorize(matrix, mat.SVDThin) {
		return nil
	}
	sigma := svd.Values(nil)
	var v mat.Dense
	svd.VTo(&v)

	// Every singular dimension contributes; the thin SVD has at most
	// min(terms, sentences) of them.
	ranks := make([]float64, len(sentences))
	for j := range sentences {
		var sum float64
		for i, s := range sigma {
			x := v.At(j, i)
			sum += s * s * x * x
		}
		ranks[j] = math.Sqrt(sum)
	}
	return ranks
}

// termCounts returns the vocabulary in first-seen order and, per sentence,
// the count of each term index.
func (l *LSA) termCounts(sentences []string) ([]string, []map[int]int) {
	index := make(map[string]int)
	var terms []string
	counts := make([]map[int]int, len(sentences))
	caser := cases.Fold()

	for j, sentence := range sentences {
		counts[j] = make(map[int]int)
		for _, word := range wordPattern.FindAllString(norm.NFC.String(sentence), -1) {
			word = caser.String(word)
			if _, stop := l.StopWords[word]; stop {
				continue
			}
			term := l.stem(word)
			i, ok := index[term]
			if !ok {
				i = len(terms)
				index[term] = i
				terms = append(terms, term)
			}
			counts[j][i]++
		}
	}
	return terms, counts
}

func (l *LSA) stem(word string) string {
	if l.Language == "" {
		return word
	}
	stemmed, err := snowball.Stem(word, l.Language, true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}

// smooth rescales each column to smoothing + (1-smoothing) * tf/maxTf.
func (l *LSA) smooth(m *mat.Dense) {
	rows, cols := m.Dims()
	for c := 0; c < cols; c++ {
		maxTf := 0.0
		for r := 0; r < rows; r++ {
			if v := m.At(r, c); v > maxTf {
				maxTf = v
			}
		}
		if maxTf == 0 {
			continue
		}
		for r := 0; r < rows; r++ {
			m.Set(r, c, l.Smoothing+(1-l.Smoothing)*m.At(r, c)/maxTf)
		}
	}
}

func firstN(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
