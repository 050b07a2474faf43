package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gramsynth/gramsynth"
	"github.com/gramsynth/gramsynth/grammar"
	"github.com/gramsynth/gramsynth/parser"
	"github.com/gramsynth/gramsynth/reporter"
	"github.com/gramsynth/gramsynth/semantics"
)

func enumerateCmd() *cobra.Command {
	var (
		universePath string
		depth        int
		maxSize      int
		outPath      string
		watch        bool
	)
	cmd := &cobra.Command{
		Use:   "enumerate <grammar-glob>...",
		Short: "Synthesize unique expressions from grammar files",
		Long: `Enumerate every expression of each grammar up to the depth bound,
deduplicate by meaning over the universe, and write the shortest
expression per meaning as YAML.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, patterns []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			universe, err := semantics.UniverseFromCSVFile(universePath)
			if err != nil {
				return err
			}
			synth := gramsynth.New(builtinRegistry{}, universe,
				gramsynth.WithDepth(depth),
				gramsynth.WithMaxSize(maxSize),
				gramsynth.WithLogger(slog.Default()),
			)
			run := func() error {
				results, err := synth.Synthesize(ctx, patterns...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if outPath != "" {
					f, err := os.Create(outPath)
					if err != nil {
						return err
					}
					defer f.Close()
					out = f
				}
				return gramsynth.WriteResults(out, results)
			}
			if !watch {
				return run()
			}
			return watchAndRun(ctx, patterns, run)
		},
	}
	cmd.Flags().StringVarP(&universePath, "universe", "u", "", "CSV file describing the universe of discourse")
	cmd.Flags().IntVarP(&depth, "depth", "d", 3, "exclusive depth bound for enumeration")
	cmd.Flags().IntVar(&maxSize, "max-size", 0, "stop after this many distinct meanings (0 = unlimited)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-synthesize when grammar files change")
	_ = cmd.MarkFlagRequired("universe")
	return cmd
}

func generateCmd() *cobra.Command {
	var (
		count int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "generate <grammar-file>",
		Short: "Randomly generate expressions from a grammar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.LoadFile(args[0], builtinRegistry{})
			if err != nil {
				return err
			}
			var rng *rand.Rand
			if seed != 0 {
				rng = rand.New(rand.NewPCG(seed, 0))
			}
			for i := 0; i < count; i++ {
				expr, err := g.Generate(rng)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), expr)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of expressions to generate")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = nondeterministic)")
	return cmd
}

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <grammar-file> <expression>",
		Short: "Parse a canonical-form expression against a grammar",
		Long: `Parse an expression string, report any syntax errors with positions,
and print the canonical form of the resulting tree.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.LoadFile(args[0], builtinRegistry{})
			if err != nil {
				return err
			}
			// Collect every syntax error rather than stopping at the
			// first one.
			var reported []reporter.ErrorWithPos
			rep := reporter.NewReporter(
				func(err reporter.ErrorWithPos) error {
					reported = append(reported, err)
					return nil
				},
				func(warn reporter.ErrorWithPos) {
					slog.Warn(warn.Unwrap().Error(), slog.String("pos", warn.GetPosition().String()))
				},
			)
			expr, err := parser.Parse(g, args[1], reporter.NewHandler(rep))
			if err != nil {
				for _, rerr := range reported {
					fmt.Fprintln(cmd.ErrOrStderr(), rerr)
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), expr)
			return nil
		},
	}
	return cmd
}
