// Package summarizer implements the model-free half of the summary pipeline:
// sentence splitting, sentence-bounded chunking and LSA extractive ranking.
package summarizer

import (
	"strings"
	"unicode"
)

// abbreviations never end a sentence when followed by a period. Keys are
// lowercase and carry no trailing period.
var abbreviations = map[string]struct{}{
	"mr": {}, "mrs": {}, "ms": {}, "dr": {}, "prof": {}, "sr": {}, "jr": {}, "st": {},
	"inc": {}, "ltd": {}, "co": {}, "corp": {}, "llc": {}, "plc": {}, "bros": {},
	"no": {}, "nos": {}, "sec": {}, "secs": {}, "art": {}, "arts": {}, "para": {}, "paras": {},
	"cl": {}, "ch": {}, "pt": {}, "sch": {}, "reg": {}, "subs": {},
	"vs": {}, "v": {}, "e.g": {}, "i.e": {}, "cf": {}, "etc": {}, "viz": {}, "al": {}, "approx": {},
	"u.s": {}, "u.k": {}, "u.s.a": {}, "fig": {}, "dept": {}, "est": {}, "govt": {},
	"jan": {}, "feb": {}, "mar": {}, "apr": {}, "jun": {}, "jul": {}, "aug": {},
	"sep": {}, "sept": {}, "oct": {}, "nov": {}, "dec": {},
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func isCloser(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '”', '’', '»':
		return true
	}
	return false
}

// SplitSentences splits English text into trimmed sentences.
//
// A sentence ends at '.', '!' or '?' (plus any closing quotes or brackets)
// followed by whitespace, or at a blank line. A period does not end a
// sentence after a known abbreviation or a single-letter initial, or when the
// next word starts with a lowercase letter.
func SplitSentences(text string) []string {
	runes := []rune(text)
	n := len(runes)
	var out []string
	start := 0

	emit := func(from, to int) {
		if from >= to {
			return
		}
		s := strings.Join(strings.Fields(string(runes[from:to])), " ")
		if s != "" {
			out = append(out, s)
		}
	}

	for i := 0; i < n; i++ {
		r := runes[i]

		if r == '\n' {
			j := i + 1
			for j < n && (runes[j] == ' ' || runes[j] == '\t' || runes[j] == '\r') {
				j++
			}
			if j < n && runes[j] == '\n' {
				emit(start, i)
				start = j + 1
				i = j
			}
			continue
		}

		if !isTerminator(r) {
			continue
		}

		end := i + 1
		for end < n && (isTerminator(runes[end]) || isCloser(runes[end])) {
			end++
		}
		if end < n && !unicode.IsSpace(runes[end]) {
			i = end - 1
			continue
		}
		if r == '.' && end-i == 1 && !periodEndsSentence(runes, start, i, end) {
			i = end - 1
			continue
		}

		emit(start, end)
		start = end
		i = end - 1
	}
	emit(start, n)

	return out
}

// periodEndsSentence decides whether the lone period at runes[dot] closes the
// sentence that began at start. after is the index just past the period.
func periodEndsSentence(runes []rune, start, dot, after int) bool {
	wordStart := dot
	for wordStart > start && !unicode.IsSpace(runes[wordStart-1]) {
		wordStart--
	}
	word := strings.ToLower(strings.TrimLeft(string(runes[wordStart:dot]), "(\"'“‘["))

	if _, ok := abbreviations[word]; ok {
		return false
	}
	if rs := []rune(word); len(rs) == 1 && unicode.IsLetter(rs[0]) && unicode.IsUpper(runes[dot-1]) {
		return false
	}

	next := after
	for next < len(runes) && unicode.IsSpace(runes[next]) {
		next++
	}
	if next == len(runes) {
		return true
	}
	if unicode.IsLower(runes[next]) {
		return false
	}
	return true
}
