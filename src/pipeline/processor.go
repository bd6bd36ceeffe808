package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"tweet-processor/src/tweets"
)

const DefaultOutputDir = "tweet_output"

// Result is what a run produces for one tweet.
type Result struct {
	IDStr         string  `json:"id_str"`
	CreatedAt     string  `json:"created_at"`
	Unix          int64   `json:"unix"`
	CleanText     string  `json:"clean_text"`
	HadUnicode    bool    `json:"had_unicode"`
	AverageDegree float64 `json:"average_degree"`
	Nodes         int     `json:"nodes"`
}

// ResultSink receives every result after it has been written to the outputs.
type ResultSink interface {
	Publish(ctx context.Context, r Result) error
}

// Options configures a Processor.
type Options struct {
	InputFile     string
	InputDir      string
	OutputDir     string
	WindowSeconds int

	// ExcludeHashtag drops hashtags before they reach the graph. Optional.
	ExcludeHashtag func(string) bool
	// Deduper skips redelivered tweets. Optional.
	Deduper *Deduper
	// Sinks get each result in input order. Optional.
	Sinks []ResultSink
}

// Summary describes a finished run.
type Summary struct {
	Files            int
	LinesRead        int
	TweetsWritten    int
	SkippedMalformed int
	SkippedDuplicate int
	TooOldForWindow  int
	UnicodeTweets    int
	FinalNodes       int
	FinalEdges       int
	FinalAvgDegree   float64
}

// Processor runs one batch over the resolved inputs.
type Processor struct {
	opts    Options
	graph   *RollingGraph
	summary Summary
}

// NewProcessor creates a Processor with defaults filled in.
func NewProcessor(opts Options) *Processor {
	if opts.InputDir == "" {
		opts.InputDir = DefaultInputDir
	}
	if opts.OutputDir == "" {
		opts.OutputDir = DefaultOutputDir
	}
	if opts.WindowSeconds <= 0 {
		opts.WindowSeconds = DefaultWindowSeconds
	}
	return &Processor{
		opts:  opts,
		graph: NewRollingGraph(opts.WindowSeconds),
	}
}

// Run reads every input, writes ft1.txt and ft2.txt into the output directory
// and returns the run summary. Nothing in the output directory is replaced
// unless the whole run succeeds.
func (p *Processor) Run(ctx context.Context) (Summary, error) {
	files, err := ResolveInputs(p.opts.InputFile, p.opts.InputDir)
	if err != nil {
		return p.summary, err
	}
	if err := checkWritable(p.opts.OutputDir); err != nil {
		return p.summary, err
	}

	out, err := openOutputs(p.opts.OutputDir)
	if err != nil {
		return p.summary, err
	}

	for _, path := range files {
		slog.Info("Processing input", "file", path)
		if err := p.processFile(ctx, path, out); err != nil {
			out.abort()
			return p.summary, err
		}
		p.summary.Files++
	}

	if err := out.writeText(fmt.Sprintf("\n%d tweets contained unicode.", p.summary.UnicodeTweets)); err != nil {
		out.abort()
		return p.summary, fmt.Errorf("failed to write %s: %w", TextOutputName, err)
	}
	if err := out.commit(); err != nil {
		return p.summary, err
	}

	g := p.graph.Graph()
	p.summary.FinalNodes = g.NodeCount()
	p.summary.FinalEdges = g.EdgeCount()
	p.summary.FinalAvgDegree = g.AverageDegree()
	return p.summary, nil
}

func (p *Processor) processFile(ctx context.Context, path string, out *outputSet) error {
	in, err := openInput(path)
	if err != nil {
		return err
	}
	defer in.Close()

	scanner := newLineScanner(in)
	lineNum := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("run cancelled at %s line %d: %w", path, lineNum, err)
		}
		lineNum++
		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		p.summary.LinesRead++

		tweet, err := tweets.ParseLine(line)
		if err != nil {
			p.summary.SkippedMalformed++
			if !errors.Is(err, tweets.ErrNotATweet) {
				slog.Debug("Skipping malformed line", "file", path, "line", lineNum, "error", err)
			}
			continue
		}

		if err := p.processTweet(ctx, tweet, out); err != nil {
			return fmt.Errorf("%s line %d: %w", path, lineNum, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s at line %d: %w", path, lineNum, err)
	}
	return nil
}

func (p *Processor) processTweet(ctx context.Context, tweet *tweets.Tweet, out *outputSet) error {
	if p.opts.Deduper != nil && p.opts.Deduper.Seen(tweet.IDStr) {
		p.summary.SkippedDuplicate++
		slog.Debug("Skipping duplicate tweet", "id_str", tweet.IDStr)
		return nil
	}

	if !p.graph.Update(tweet.Unix, tweet.GraphHashtags(p.opts.ExcludeHashtag)) {
		p.summary.TooOldForWindow++
	}
	if tweet.HadUnicode {
		p.summary.UnicodeTweets++
	}

	avg := p.graph.AverageDegree()
	if err := out.writeText(fmt.Sprintf("%s (timestamp: %s)\n", tweet.CleanText, tweet.CreatedAtRaw)); err != nil {
		return fmt.Errorf("failed to write %s: %w", TextOutputName, err)
	}
	if err := out.writeDegree(FormatDegree(avg) + "\n"); err != nil {
		return fmt.Errorf("failed to write %s: %w", DegreeOutputName, err)
	}
	p.summary.TweetsWritten++

	result := Result{
		IDStr:         tweet.IDStr,
		CreatedAt:     tweet.CreatedAtRaw,
		Unix:          tweet.Unix,
		CleanText:     tweet.CleanText,
		HadUnicode:    tweet.HadUnicode,
		AverageDegree: avg,
		Nodes:         p.graph.Graph().NodeCount(),
	}
	for _, sink := range p.opts.Sinks {
		if err := sink.Publish(ctx, result); err != nil {
			return fmt.Errorf("failed to publish result: %w", err)
		}
	}
	return nil
}
