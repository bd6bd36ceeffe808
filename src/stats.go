package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"tweet-processor/src/pipeline"
)

var statsHeader = []string{
	"timestamp",
	"files",
	"lines_read",
	"tweets_written",
	"skipped_malformed",
	"skipped_duplicate",
	"too_old_for_window",
	"unicode_tweets",
	"final_nodes",
	"final_edges",
	"final_avg_degree",
}

// appendStats writes one summary row to the stats CSV, adding the header when
// the file is new.
func appendStats(path string, now time.Time, s pipeline.Summary) error {
	_, statErr := os.Stat(path)
	isNew := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open stats CSV: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if isNew {
		writer.Write(statsHeader)
	}
	writer.Write([]string{
		now.Format(time.RFC3339),
		strconv.Itoa(s.Files),
		strconv.Itoa(s.LinesRead),
		strconv.Itoa(s.TweetsWritten),
		strconv.Itoa(s.SkippedMalformed),
		strconv.Itoa(s.SkippedDuplicate),
		strconv.Itoa(s.TooOldForWindow),
		strconv.Itoa(s.UnicodeTweets),
		strconv.Itoa(s.FinalNodes),
		strconv.Itoa(s.FinalEdges),
		pipeline.FormatDegree(s.FinalAvgDegree),
	})
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write stats CSV: %w", err)
	}
	return nil
}
