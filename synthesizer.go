package gramsynth

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"github.com/tidwall/btree"
	"golang.org/x/sync/errgroup"

	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/semantics"
)

// A Synthesizer runs capped unique enumeration for a batch of grammar
// files against one universe: every grammar file is loaded with the same
// function registry, enumerated to the configured depth, and
// deduplicated by denotation, keeping the shortest expression per
// meaning.
type Synthesizer struct {
	registry    grammar.Registry
	universe    *semantics.Universe
	depth       int
	maxSize     int
	parallelism int
	logger      *slog.Logger
}

// An Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithDepth sets the exclusive depth bound for enumeration (default 3).
func WithDepth(depth int) Option {
	return func(s *Synthesizer) { s.depth = depth }
}

// WithMaxSize caps the number of distinct meanings retained per grammar;
// zero means unlimited.
func WithMaxSize(maxSize int) Option {
	return func(s *Synthesizer) { s.maxSize = maxSize }
}

// WithParallelism bounds how many grammar files are synthesized
// concurrently (default GOMAXPROCS). Enumeration within one grammar is
// always sequential.
func WithParallelism(n int) Option {
	return func(s *Synthesizer) { s.parallelism = n }
}

// WithLogger sets the progress logger (default slog.Default).
func WithLogger(logger *slog.Logger) Option {
	return func(s *Synthesizer) { s.logger = logger }
}

// New returns a Synthesizer resolving grammar functions through registry
// and evaluating expressions against universe.
func New(registry grammar.Registry, universe *semantics.Universe, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		registry:    registry,
		universe:    universe,
		depth:       3,
		parallelism: runtime.GOMAXPROCS(0),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// A Record is one synthesized expression in exportable form.
type Record struct {
	Expression string   `yaml:"expression"`
	Length     int      `yaml:"length"`
	Referents  []string `yaml:"referents"`
}

// A FileResult holds the synthesis output for one grammar file: the
// minimal expression for each distinct meaning reachable within the
// depth bound, sorted by length then canonical form.
type FileResult struct {
	RunID       string   `yaml:"run_id"`
	GrammarFile string   `yaml:"grammar_file"`
	Depth       int      `yaml:"depth"`
	Records     []Record `yaml:"expressions"`
}

// SynthesizeFile loads one grammar file and synthesizes its unique
// expressions.
func (s *Synthesizer) SynthesizeFile(ctx context.Context, path string) (*FileResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g, err := grammar.LoadFile(path, s.registry)
	if err != nil {
		return nil, err
	}
	byMeaning := func(e *grammar.Expression) (any, error) {
		meaning, err := e.Evaluate(s.universe)
		if err != nil {
			return nil, err
		}
		return meaning.Key(), nil
	}
	shorter := func(candidate, incumbent *grammar.Expression) bool {
		return candidate.Len() < incumbent.Len()
	}
	table, err := g.UniqueExpressions(s.depth, "", s.maxSize, byMeaning, shorter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	sorted := btree.NewBTreeG(func(a, b *grammar.Expression) bool {
		if a.Len() != b.Len() {
			return a.Len() < b.Len()
		}
		return a.Compare(b) < 0
	})
	for _, e := range table {
		sorted.Set(e)
	}

	result := &FileResult{
		RunID:       uuid.NewString(),
		GrammarFile: path,
		Depth:       s.depth,
		Records:     make([]Record, 0, sorted.Len()),
	}
	sorted.Scan(func(e *grammar.Expression) bool {
		refs := e.Meaning().Referents()
		names := make([]string, len(refs))
		for i, ref := range refs {
			names[i] = ref.Name()
		}
		result.Records = append(result.Records, Record{
			Expression: e.String(),
			Length:     e.Len(),
			Referents:  names,
		})
		return true
	})
	s.logger.Debug("synthesized grammar",
		slog.String("file", path),
		slog.String("run_id", result.RunID),
		slog.Int("unique_meanings", len(result.Records)))
	return result, nil
}

// Synthesize globs the given patterns (doublestar syntax) for grammar
// files and synthesizes each, fanning out across files up to the
// configured parallelism. Results come back in sorted file order
// regardless of completion order.
func (s *Synthesizer) Synthesize(ctx context.Context, patterns ...string) ([]*FileResult, error) {
	seen := make(map[string]bool)
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad grammar pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				files = append(files, match)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no grammar files match %v", patterns)
	}
	sort.Strings(files)

	results := make([]*FileResult, len(files))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(s.parallelism)
	for i, path := range files {
		grp.Go(func() error {
			res, err := s.SynthesizeFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
