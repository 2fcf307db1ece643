package legal

// ClauseAssessment grades a single clause.
type ClauseAssessment struct {
	Index     int       `json:"index"`
	Text      string    `json:"text"`
	Risk      RiskLevel `json:"risk"`
	Flags     []string  `json:"flags"`
	Scenarios []string  `json:"scenarios,omitempty"`
}

// AssessClauses grades each clause by the worst rule it triggers. Clauses
// that trigger nothing are safe.
func (rb *Rulebook) AssessClauses(clauses []string) []ClauseAssessment {
	out := make([]ClauseAssessment, 0, len(clauses))
	for i, clause := range clauses {
		a := ClauseAssessment{
			Index: i,
			Text:  clause,
			Risk:  RiskSafe,
			Flags: make([]string, 0),
		}
		for _, rule := range rb.Triggered(clause) {
			a.Flags = append(a.Flags, rule.Warning)
			if rule.Scenario != "" {
				a.Scenarios = append(a.Scenarios, rule.Scenario)
			}
			if rule.Severity.rank() > a.Risk.rank() {
				a.Risk = rule.Severity
			}
		}
		out = append(out, a)
	}
	return out
}

// OverallRisk returns the worst risk among the assessments.
func OverallRisk(assessments []ClauseAssessment) RiskLevel {
	worst := RiskSafe
	for _, a := range assessments {
		if a.Risk.rank() > worst.rank() {
			worst = a.Risk
		}
	}
	return worst
}
