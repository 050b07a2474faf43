package gramsynth

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/semantics"
)

const predicateGrammar = `
start: P
rules:
  - name: hot
    lhs: P
  - name: cold
    lhs: P
  - name: and
    lhs: P
    rhs: [P, P]
  - name: not
    lhs: P
    rhs: [P]
`

func testRegistry() grammar.MapRegistry {
	return grammar.MapRegistry{
		"hot": func(args ...any) any {
			return args[0].(*semantics.Referent).BoolProperty("hot")
		},
		"cold": func(args ...any) any {
			return !args[0].(*semantics.Referent).BoolProperty("hot")
		},
		"and": func(args ...any) any {
			return args[0].(bool) && args[1].(bool)
		},
		"not": func(args ...any) any {
			return !args[0].(bool)
		},
	}
}

func testUniverse(t *testing.T) *semantics.Universe {
	t.Helper()
	u, err := semantics.NewUniverse([]*semantics.Referent{
		semantics.NewReferent("a", map[string]any{"hot": true}),
		semantics.NewReferent("b", map[string]any{"hot": false}),
		semantics.NewReferent("c", map[string]any{"hot": true}),
	}, nil)
	require.NoError(t, err)
	return u
}

func writeGrammar(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSynthesizeFile(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "predicates.yaml", predicateGrammar)
	s := New(testRegistry(), testUniverse(t), WithDepth(2), WithLogger(quietLogger()))

	res, err := s.SynthesizeFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, res.GrammarFile)
	assert.Equal(t, 2, res.Depth)
	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)

	// three distinct denotations are reachable within the depth bound:
	// the hot referents, the non-hot ones, and the empty set; each is
	// represented by its shortest expression, sorted by length then form
	expected := []Record{
		{Expression: "cold", Length: 1, Referents: []string{"b"}},
		{Expression: "hot", Length: 1, Referents: []string{"a", "c"}},
		{Expression: "and(hot, cold)", Length: 3, Referents: []string{}},
	}
	assert.Equal(t, expected, res.Records)
}

func TestSynthesizeFileMaxSize(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "predicates.yaml", predicateGrammar)
	s := New(testRegistry(), testUniverse(t), WithDepth(2), WithMaxSize(2), WithLogger(quietLogger()))

	res, err := s.SynthesizeFile(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 2)
	assert.Equal(t, "cold", res.Records[0].Expression)
	assert.Equal(t, "hot", res.Records[1].Expression)
}

func TestSynthesizeFileLoadError(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "broken.yaml", "start: P\nrules:\n  - name: warm\n    lhs: P\n")
	s := New(testRegistry(), testUniverse(t), WithLogger(quietLogger()))

	_, err := s.SynthesizeFile(context.Background(), path)
	require.Error(t, err)
	assert.ErrorContains(t, err, path)
	assert.ErrorContains(t, err, `unknown function "warm"`)
}

func TestSynthesize(t *testing.T) {
	dir := t.TempDir()
	writeGrammar(t, dir, "b.yaml", predicateGrammar)
	writeGrammar(t, dir, "a.yaml", predicateGrammar)
	s := New(testRegistry(), testUniverse(t), WithDepth(2), WithParallelism(2), WithLogger(quietLogger()))

	results, err := s.Synthesize(context.Background(), filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	require.Len(t, results, 2)
	// results come back in file order regardless of completion order
	assert.Equal(t, filepath.Join(dir, "a.yaml"), results[0].GrammarFile)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), results[1].GrammarFile)
	assert.NotEqual(t, results[0].RunID, results[1].RunID)
	assert.Equal(t, results[0].Records, results[1].Records)
}

func TestSynthesizeNoMatches(t *testing.T) {
	s := New(testRegistry(), testUniverse(t), WithLogger(quietLogger()))
	_, err := s.Synthesize(context.Background(), filepath.Join(t.TempDir(), "*.yaml"))
	assert.ErrorContains(t, err, "no grammar files match")
}

func TestSynthesizeDeduplicatesOverlappingPatterns(t *testing.T) {
	dir := t.TempDir()
	path := writeGrammar(t, dir, "a.yaml", predicateGrammar)
	s := New(testRegistry(), testUniverse(t), WithDepth(2), WithLogger(quietLogger()))

	results, err := s.Synthesize(context.Background(), path, filepath.Join(dir, "*.yaml"))
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestWriteResults(t *testing.T) {
	path := writeGrammar(t, t.TempDir(), "predicates.yaml", predicateGrammar)
	s := New(testRegistry(), testUniverse(t), WithDepth(2), WithLogger(quietLogger()))
	res, err := s.SynthesizeFile(context.Background(), path)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteResults(&buf, []*FileResult{res, res}))

	out := buf.String()
	assert.Contains(t, out, "run_id: "+res.RunID)
	assert.Contains(t, out, "expression: hot")
	assert.Contains(t, out, "expression: and(hot, cold)")
	assert.Contains(t, out, "- a\n")
	// one YAML document per result
	assert.Contains(t, out, "\n---\n")
}
