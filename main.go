package main

import (
	"fmt"
	"os"
	"os/signal"

	"gensearch/experiments"
	"gensearch/experiments/metrics"
	"gensearch/searcher"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "gensearch",
		Short:        "Search a generation grammar for the best-scoring sentence",
		RunE:         runSearchCommand,
		SilenceUsage: true,
	}

	experimentCmd = &cobra.Command{
		Use:   "experiment",
		Short: "Run a benchmark suite and store its records as CSV",
	}
	strategyCmd = &cobra.Command{
		Use:   "strategy",
		Short: "Compare budget strategies, restart counts and buffer sizes",
		Run: func(cmd *cobra.Command, args []string) {
			experiments.RunStrategyExperiment()
		},
	}
	batchingCmd = &cobra.Command{
		Use:   "batching",
		Short: "Measure how the buffer size changes scorer call counts",
		Run: func(cmd *cobra.Command, args []string) {
			experiments.RunBatchingExperiment()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file")
	rootCmd.AddCommand(experimentCmd)
	experimentCmd.AddCommand(strategyCmd)
	experimentCmd.AddCommand(batchingCmd)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Msgf("%v", err)
	}
}

func runSearchCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	strategy, err := cfg.strategy()
	if err != nil {
		return err
	}
	g, err := cfg.buildGrammar()
	if err != nil {
		return err
	}
	s, err := cfg.buildScorer()
	if err != nil {
		return err
	}

	mcts := searcher.NewMCTS(s,
		searcher.WithStrategy(strategy),
		searcher.WithBufferSize(cfg.BufferSize),
		searcher.WithRestarts(cfg.Restarts),
		searcher.WithDeadEndReward(cfg.DeadEndReward),
		searcher.WithMetrics(),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	log.Info().Msgf("searching with strategy=%s walks=%d buffer=%d restarts=%d",
		strategy, cfg.Walks, cfg.BufferSize, cfg.Restarts)

	result, err := mcts.Search(ctx, g.Root(), cfg.Walks)
	if err != nil {
		return err
	}

	metric := mcts.Metric()
	summary := metrics.Summarize(mcts.ScoreHistory())
	log.Info().Msgf("finished %d walks in %s: %d scorer calls for %d leaves, %d dead ends",
		metric.Walks, metric.Duration, metric.Flushes, metric.ScoredLeaves, metric.DeadEnds)
	log.Info().Msgf("scores: mean=%.4f stddev=%.4f median=%.4f max=%.4f",
		summary.Mean, summary.StdDev, summary.Median, summary.Max)

	if result.Score < 0 {
		log.Warn().Msg("no sentence was ever scored")
		return nil
	}
	fmt.Printf("%.4f\t%s\n", result.Score, result.Text)
	return nil
}
