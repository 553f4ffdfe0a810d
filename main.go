package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"btree/btree"
	"btree/cli"
	"btree/config"
	"btree/logging"
	"btree/sim"
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cfg := config.Default()
	var logger *slog.Logger

	rootCmd := &cobra.Command{
		Use:   "btree",
		Short: "Interactive in-memory B-tree",
		Long: `Insert, delete and search integer keys in a B-tree of configurable
minimum degree and watch it split, borrow and merge as it changes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			level, _ := logging.ParseLevel(cfg.LogLevel)
			logger = logging.New(errOut, level)
			if cfg.NoColor {
				color.NoColor = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepl(cfg, in, out, logger)
		},
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.IntVarP(&cfg.Degree, "degree", "t", cfg.Degree, "Minimum degree of the tree (at least 2)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: trace, debug, info, warn or error")
	flags.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "Disable coloured output")
	flags.Uint64Var(&cfg.RandSeed, "rand-seed", cfg.RandSeed, "Seed for generated keys and the operation mix")

	rootCmd.Flags().BoolVar(&cfg.Seed, "seed", cfg.Seed, "Seed the tree with random keys created with go-faker")
	rootCmd.Flags().IntVar(&cfg.Records, "records", cfg.Records, "Number of keys to seed the tree with")

	simCmd := &cobra.Command{
		Use:   "sim",
		Short: "Run a random insert/delete workload and check every step",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := sim.Run(sim.OptionsFrom(cfg, logger))
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "ops: %d, inserts: %d (duplicates %d), deletes: %d (misses %d)\n",
				rep.Ops, rep.Inserts, rep.Duplicates, rep.Deletes, rep.Misses)
			fmt.Fprintf(out, "splits: %d, merges: %d, borrows: %d, max height: %d, final size: %d\n",
				rep.Events[btree.OpSplit], rep.Events[btree.OpMerge],
				rep.Events[btree.OpBorrowLeft]+rep.Events[btree.OpBorrowRight],
				rep.MaxHeight, rep.FinalLen)
			return nil
		},
	}
	simCmd.Flags().IntVar(&cfg.Ops, "ops", cfg.Ops, "Number of operations to run")
	simCmd.Flags().IntVar(&cfg.KeySpace, "keys", cfg.KeySpace, "Number of distinct keys to draw from")
	simCmd.Flags().Float64Var(&cfg.InsertRatio, "insert-ratio", cfg.InsertRatio, "Share of operations that are inserts")

	rootCmd.AddCommand(simCmd)
	return rootCmd
}

func runRepl(cfg config.Config, in io.Reader, out io.Writer, logger *slog.Logger) error {
	rec := btree.NewRecorder[int]()
	tree, err := btree.New[int](cfg.Degree,
		btree.WithObserver[int](rec),
		btree.WithObserver[int](btree.LogObserver[int](logger)),
	)
	if err != nil {
		return err
	}

	demo := cli.NewCli(bufio.NewScanner(in), out, tree, rec, logger)
	if cfg.Seed {
		keys, err := sim.FakerKeys(cfg.Records, cfg.RandSeed)
		if err != nil {
			return fmt.Errorf("seed keys: %w", err)
		}
		demo.Seed(keys)
	}
	demo.Start()
	return nil
}
