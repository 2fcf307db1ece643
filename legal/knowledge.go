package legal

import "strings"

// Entry is a canned answer for a topic. The topic itself always counts as a
// keyword.
type Entry struct {
	Topic    string   `yaml:"topic" json:"topic"`
	Keywords []string `yaml:"keywords" json:"keywords,omitempty"`
	Answer   string   `yaml:"answer" json:"answer"`
}

func (e Entry) matches(lowered string) bool {
	if strings.Contains(lowered, strings.ToLower(e.Topic)) {
		return true
	}
	for _, kw := range e.Keywords {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// KnowledgeBase is an ordered list of entries.
type KnowledgeBase []Entry

// Lookup returns the first entry, in declaration order, with a keyword
// contained in question. Matching is case-insensitive.
func (kb KnowledgeBase) Lookup(question string) (Entry, bool) {
	lowered := strings.ToLower(question)
	for _, e := range kb {
		if e.matches(lowered) {
			return e, true
		}
	}
	return Entry{}, false
}
