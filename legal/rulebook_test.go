package legal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsDeclarationOrder(t *testing.T) {
	rb, err := Parse([]byte(`
replacements:
  - phrase: "b"
    plain: "2"
  - phrase: "a"
    plain: "1"
red_flags:
  - name: second
    warning: "W2"
    triggers: ["two"]
  - name: first
    severity: dangerous
    warning: "W1"
    triggers: ["one"]
knowledge:
  - topic: "rent"
    answer: "Pay on time."
`))
	require.NoError(t, err)

	require.Len(t, rb.Terms, 2)
	assert.Equal(t, "b", rb.Terms[0].Phrase)
	require.Len(t, rb.Rules, 2)
	assert.Equal(t, "second", rb.Rules[0].Name)
	assert.Equal(t, RiskRisky, rb.Rules[0].Severity, "missing severity defaults to risky")
	assert.Equal(t, RiskDangerous, rb.Rules[1].Severity)
	assert.Equal(t, "W2\nW1", rb.DetectRedFlags("one two"))
}

func TestParse_RejectsInvalidRules(t *testing.T) {
	_, err := Parse([]byte(`
red_flags:
  - name: broken
    triggers: ["x"]
`))
	assert.Error(t, err)

	_, err = Parse([]byte(`
knowledge:
  - topic: "empty"
`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	rb, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), rb)

	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("replacements:\n  - phrase: \"shall\"\n    plain: \"must\"\n"), 0o644))

	rb, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "You must pay.", rb.Terms.Normalize("You shall pay."))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
