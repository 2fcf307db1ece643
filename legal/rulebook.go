// Package legal holds the plain-language rulebook: the terminology table,
// the red-flag rules and the small knowledge base used by the chatbot.
//
// A Rulebook is loaded once at startup and never mutated afterwards, so it is
// safe to share between goroutines.
package legal

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed data/rulebook.yaml
var defaultRulebookYAML []byte

// Rulebook bundles every process-wide constant table.
type Rulebook struct {
	Terms     Table
	Rules     []Rule
	Knowledge KnowledgeBase

	// Warnings collects load-time problems (duplicate or shadowed phrases)
	// that do not prevent the rulebook from being used.
	Warnings []string
}

type rulebookFile struct {
	Replacements []Replacement `yaml:"replacements"`
	RedFlags     []Rule        `yaml:"red_flags"`
	Knowledge    []Entry       `yaml:"knowledge"`
}

// Parse decodes a YAML rulebook.
func Parse(data []byte) (*Rulebook, error) {
	var file rulebookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rulebook: %w", err)
	}

	for i, rule := range file.RedFlags {
		if rule.Warning == "" {
			return nil, fmt.Errorf("red flag rule %d (%s) has no warning", i, rule.Name)
		}
		if len(rule.Triggers) == 0 {
			return nil, fmt.Errorf("red flag rule %d (%s) has no triggers", i, rule.Name)
		}
		if rule.Severity == "" {
			file.RedFlags[i].Severity = RiskRisky
		}
	}

	for i, entry := range file.Knowledge {
		if entry.Topic == "" || entry.Answer == "" {
			return nil, fmt.Errorf("knowledge entry %d must have a topic and an answer", i)
		}
	}

	terms, warnings := NewTable(file.Replacements)

	return &Rulebook{
		Terms:     terms,
		Rules:     file.RedFlags,
		Knowledge: KnowledgeBase(file.Knowledge),
		Warnings:  warnings,
	}, nil
}

// LoadFile reads a rulebook from disk.
func LoadFile(path string) (*Rulebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rulebook %s: %w", path, err)
	}
	return Parse(data)
}

// Load returns the rulebook at path, or the embedded default when path is empty.
func Load(path string) (*Rulebook, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

var (
	defaultOnce     sync.Once
	defaultRulebook *Rulebook
)

// Default returns the embedded rulebook. It is parsed on first use.
func Default() *Rulebook {
	defaultOnce.Do(func() {
		rb, err := Parse(defaultRulebookYAML)
		if err != nil {
			// The embedded file is part of the binary; a parse failure is a build defect.
			panic(err)
		}
		defaultRulebook = rb
	})
	return defaultRulebook
}

// Normalize rewrites legal phrasing with the default terminology table.
func Normalize(text string) string {
	return Default().Terms.Normalize(text)
}

// DetectRedFlags runs the default red-flag rules over text.
func DetectRedFlags(text string) string {
	return Default().DetectRedFlags(text)
}
