package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tweet-processor/src/filter"
	"tweet-processor/src/pipeline"

	"github.com/spf13/cobra"
)

// runFlags holds the command line flags of one invocation.
type runFlags struct {
	configPath string
	inputDir   string
	outputDir  string
	window     int
	verbose    bool
}

// newRootCmd builds the batch command.
func newRootCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "tweet_processor [path-to-input-file]",
		Short: "Clean tweet text and track the rolling hashtag graph",
		Long: `tweet_processor reads JSON tweets, one per line, and writes two files:

  ft1.txt  each tweet's text with non-ASCII removed, plus its timestamp,
           followed by the number of tweets that contained unicode
  ft2.txt  the average degree of the hashtag graph built from the tweets
           of the last 60 seconds, after each tweet

With no argument every tweet file in the input directory (tweet_input) is read.
With one argument only that file is read.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd, &f, args)
		},
	}

	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to YAML config file")
	cmd.Flags().StringVar(&f.inputDir, "input-dir", pipeline.DefaultInputDir, "Directory read when no input file is given")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", pipeline.DefaultOutputDir, "Directory that receives ft1.txt and ft2.txt")
	cmd.Flags().IntVar(&f.window, "window", pipeline.DefaultWindowSeconds, "Rolling window in seconds")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Enable debug logging")
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func runBatch(cmd *cobra.Command, f *runFlags, args []string) error {
	cfg, err := loadConfig(f.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, f, cfg)
	if err := cfg.validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, logCloser, err := setupLogger(cfg.LogDir, cfg.Verbose, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	opts := pipeline.Options{
		InputDir:      cfg.InputDir,
		OutputDir:     cfg.OutputDir,
		WindowSeconds: cfg.WindowSeconds,
	}
	if len(args) == 1 {
		opts.InputFile = args[0]
	}

	if cfg.HashtagFilterFile != "" {
		hf := filter.NewHashtagFilter()
		if err := hf.LoadFromFile(cfg.HashtagFilterFile); err != nil {
			return err
		}
		slog.Info("Loaded hashtag filter", "file", cfg.HashtagFilterFile, "hashtags", hf.Count())
		opts.ExcludeHashtag = hf.IsFiltered
	}
	if cfg.Dedupe {
		opts.Deduper = pipeline.NewDeduper(cfg.DedupeCapacity, cfg.DedupeFPRate)
	}
	if cfg.MQ.Enabled {
		// Resolve inputs first so a bad path is reported before touching the broker.
		if _, err := pipeline.ResolveInputs(opts.InputFile, opts.InputDir); err != nil {
			return err
		}
		mq, err := NewRabbitMQ(cfg.MQ.rabbitMQConfig())
		if err != nil {
			return err
		}
		defer mq.Close()
		slog.Info("Publishing results to RabbitMQ", "host", cfg.MQ.Host, "queue", cfg.MQ.Queue)
		opts.Sinks = append(opts.Sinks, mq)
	}

	slog.Info("Starting batch run",
		"input_file", opts.InputFile,
		"input_dir", opts.InputDir,
		"output_dir", opts.OutputDir,
		"window_seconds", opts.WindowSeconds)

	start := time.Now()
	summary, err := pipeline.NewProcessor(opts).Run(cmd.Context())
	if err != nil {
		slog.Error("Batch run failed", "error", err)
		return err
	}

	slog.Info("Batch run complete",
		"duration", time.Since(start),
		"files", summary.Files,
		"tweets", summary.TweetsWritten,
		"malformed", summary.SkippedMalformed,
		"duplicates", summary.SkippedDuplicate,
		"too_old", summary.TooOldForWindow,
		"unicode", summary.UnicodeTweets,
		"nodes", summary.FinalNodes,
		"avg_degree", pipeline.FormatDegree(summary.FinalAvgDegree))

	if cfg.LogDir != "" {
		if err := appendStats(filepath.Join(cfg.LogDir, "stats.csv"), time.Now(), summary); err != nil {
			slog.Warn("Failed to record run stats", "error", err)
		}
	}
	return nil
}

// applyFlags lets explicitly set flags override the config file.
func applyFlags(cmd *cobra.Command, f *runFlags, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("input-dir") {
		cfg.InputDir = f.inputDir
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("window") {
		cfg.WindowSeconds = f.window
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// setupLogger returns a slog.Logger writing to log_dir/pipeline.log, or to
// fallback when no log_dir is configured.
func setupLogger(logDir string, verbose bool, fallback io.Writer) (*slog.Logger, io.Closer, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if logDir == "" {
		return slog.New(slog.NewTextHandler(fallback, opts)), nopCloser{}, nil
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, err
	}
	logPath := filepath.Join(logDir, "pipeline.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(logFile, opts)), logFile, nil
}
