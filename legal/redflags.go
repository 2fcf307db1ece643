package legal

import "strings"

// NoRedFlagsMessage is returned when no rule triggers.
const NoRedFlagsMessage = "✅ No obvious red flags detected."

// RiskLevel grades how harmful a triggered rule is to the reader.
type RiskLevel string

const (
	RiskSafe      RiskLevel = "safe"
	RiskRisky     RiskLevel = "risky"
	RiskDangerous RiskLevel = "dangerous"
)

func (r RiskLevel) rank() int {
	switch r {
	case RiskRisky:
		return 1
	case RiskDangerous:
		return 2
	default:
		return 0
	}
}

// Rule is a red-flag rule: any trigger phrase found in the text raises Warning.
type Rule struct {
	Name     string    `yaml:"name" json:"name"`
	Triggers []string  `yaml:"triggers" json:"triggers"`
	Warning  string    `yaml:"warning" json:"warning"`
	Severity RiskLevel `yaml:"severity" json:"severity"`
	Scenario string    `yaml:"scenario" json:"scenario,omitempty"`
}

// Matches reports whether any trigger occurs in lowered, which must already
// be lowercase.
func (r Rule) Matches(lowered string) bool {
	for _, trigger := range r.Triggers {
		if trigger != "" && strings.Contains(lowered, strings.ToLower(trigger)) {
			return true
		}
	}
	return false
}

// Triggered returns the rules that fire on text, in declaration order.
func (rb *Rulebook) Triggered(text string) []Rule {
	lowered := strings.ToLower(text)
	var out []Rule
	for _, rule := range rb.Rules {
		if rule.Matches(lowered) {
			out = append(out, rule)
		}
	}
	return out
}

// RedFlags returns one warning per triggered rule, in declaration order.
// The result is empty (never nil) when nothing triggers.
func (rb *Rulebook) RedFlags(text string) []string {
	flags := make([]string, 0)
	for _, rule := range rb.Triggered(text) {
		flags = append(flags, rule.Warning)
	}
	return flags
}

// DetectRedFlags returns the triggered warnings one per line, or
// NoRedFlagsMessage. The result is never empty.
func (rb *Rulebook) DetectRedFlags(text string) string {
	flags := rb.RedFlags(text)
	if len(flags) == 0 {
		return NoRedFlagsMessage
	}
	return strings.Join(flags, "\n")
}
