package legal

import (
	"fmt"
	"strings"
)

// Replacement maps a legal phrase to its plain-language wording.
type Replacement struct {
	Phrase string `yaml:"phrase" json:"phrase"`
	Plain  string `yaml:"plain" json:"plain"`
}

// Table is an ordered list of replacements. Order is application order.
type Table []Replacement

// NewTable builds a Table from raw pairs.
//
// A phrase declared more than once keeps the position of its first
// declaration and the wording of its last one. The returned warnings name
// every collapsed duplicate and every phrase that can never match because an
// earlier phrase is contained in it.
func NewTable(pairs []Replacement) (Table, []string) {
	var warnings []string
	index := make(map[string]int, len(pairs))
	table := make(Table, 0, len(pairs))

	for _, p := range pairs {
		if p.Phrase == "" {
			warnings = append(warnings, "ignoring replacement with empty phrase")
			continue
		}
		if i, ok := index[p.Phrase]; ok {
			warnings = append(warnings, fmt.Sprintf("duplicate phrase %q: %q overrides %q", p.Phrase, p.Plain, table[i].Plain))
			table[i].Plain = p.Plain
			continue
		}
		index[p.Phrase] = len(table)
		table = append(table, p)
	}

	for i, later := range table {
		for _, earlier := range table[:i] {
			if strings.Contains(later.Phrase, earlier.Phrase) {
				warnings = append(warnings, fmt.Sprintf("phrase %q is shadowed by earlier phrase %q", later.Phrase, earlier.Phrase))
				break
			}
		}
	}

	return table, warnings
}

// Normalize applies every replacement in order, one literal pass each, over
// the progressively rewritten text. Matching is case-sensitive.
func (t Table) Normalize(text string) string {
	for _, r := range t {
		if r.Phrase == "" {
			continue
		}
		text = strings.ReplaceAll(text, r.Phrase, r.Plain)
	}
	return text
}

// Lookup returns the plain wording for a phrase.
func (t Table) Lookup(phrase string) (string, bool) {
	for _, r := range t {
		if r.Phrase == phrase {
			return r.Plain, true
		}
	}
	return "", false
}
