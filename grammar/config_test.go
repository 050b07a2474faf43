package grammar

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolRegistry() MapRegistry {
	return MapRegistry{
		"tautology":     func(...any) any { return true },
		"contradiction": func(...any) any { return false },
		"AND": func(args ...any) any {
			return args[0].(bool) && args[1].(bool)
		},
	}
}

const boolGrammarDoc = `
start: B
rules:
  - name: T1
    lhs: B
    function: tautology
  - name: T2
    lhs: B
    function: contradiction
    weight: 3.5
  - name: AND
    lhs: B
    rhs: [B, B]
`

func TestLoad(t *testing.T) {
	g, err := Load(strings.NewReader(boolGrammarDoc), boolRegistry())
	require.NoError(t, err)

	assert.Equal(t, Symbol("B"), g.Start())
	require.Len(t, g.AllRules(), 3)
	require.Len(t, g.Rules("B"), 3)

	t1, ok := g.RuleNamed("T1")
	require.True(t, ok)
	assert.True(t, t1.IsTerminal())
	assert.Equal(t, true, t1.fn())
	assert.Equal(t, 1.0, t1.Weight(), "weight defaults to 1")

	t2, ok := g.RuleNamed("T2")
	require.True(t, ok)
	assert.Equal(t, 3.5, t2.Weight())

	and, ok := g.RuleNamed("AND")
	require.True(t, ok)
	assert.False(t, and.IsTerminal())
	assert.Equal(t, []Symbol{"B", "B"}, and.RHS())
	// the function key defaulted to the rule name
	assert.Equal(t, true, and.fn(true, true))
	assert.Equal(t, false, and.fn(true, false))
}

func TestLoadErrors(t *testing.T) {
	testCases := []struct {
		name        string
		doc         string
		expectedErr string
	}{
		{
			name:        "not_yaml",
			doc:         ":",
			expectedErr: "decoding grammar document",
		},
		{
			name:        "unknown_field",
			doc:         "start: B\nbanana: yes\n",
			expectedErr: "banana",
		},
		{
			name:        "missing_start",
			doc:         "rules:\n  - name: T1\n    lhs: B\n    function: tautology\n",
			expectedErr: "must declare a start symbol",
		},
		{
			name:        "missing_name",
			doc:         "start: B\nrules:\n  - lhs: B\n    function: tautology\n",
			expectedErr: "rule 0 must have a name",
		},
		{
			name:        "missing_lhs",
			doc:         "start: B\nrules:\n  - name: T1\n    function: tautology\n",
			expectedErr: `rule "T1" must have an lhs`,
		},
		{
			name:        "unknown_function",
			doc:         "start: B\nrules:\n  - name: T1\n    lhs: B\n    function: nope\n",
			expectedErr: `rule "T1" references unknown function "nope"`,
		},
		{
			name:        "unknown_default_function",
			doc:         "start: B\nrules:\n  - name: XOR\n    lhs: B\n    rhs: [B, B]\n",
			expectedErr: `rule "XOR" references unknown function "XOR"`,
		},
		{
			name:        "negative_weight",
			doc:         "start: B\nrules:\n  - name: T1\n    lhs: B\n    function: tautology\n    weight: -2\n",
			expectedErr: `rule "T1" has negative weight -2`,
		},
		{
			name:        "duplicate_name",
			doc:         "start: B\nrules:\n  - name: T1\n    lhs: B\n    function: tautology\n  - name: T1\n    lhs: B\n    function: contradiction\n",
			expectedErr: `already have a rule named "T1"`,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.doc), boolRegistry())
			assert.ErrorContains(t, err, tc.expectedErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bool.yaml")
	require.NoError(t, os.WriteFile(path, []byte(boolGrammarDoc), 0644))

	g, err := LoadFile(path, boolRegistry())
	require.NoError(t, err)
	assert.Len(t, g.AllRules(), 3)

	_, err = LoadFile(filepath.Join(t.TempDir(), "absent.yaml"), boolRegistry())
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("start: ''\n"), 0644))
	_, err = LoadFile(bad, boolRegistry())
	assert.ErrorContains(t, err, bad)
}
