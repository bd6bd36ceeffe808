package pipeline

import (
	"log/slog"
)

// DefaultWindowSeconds is how far back tweets stay in the graph.
const DefaultWindowSeconds = 60

// RollingGraph is a HashtagGraph restricted to the tweets whose timestamp lies
// within windowSeconds of the newest tweet seen so far.
type RollingGraph struct {
	graph         *HashtagGraph
	queue         *WindowQueue
	windowSeconds int64
	newest        int64
	started       bool
}

// NewRollingGraph creates an empty rolling graph.
func NewRollingGraph(windowSeconds int) *RollingGraph {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}
	return &RollingGraph{
		graph:         NewHashtagGraph(),
		queue:         NewWindowQueue(),
		windowSeconds: int64(windowSeconds),
	}
}

// Update feeds one tweet into the window and evicts whatever fell out of it.
// It reports false when the tweet was already too old to enter the window.
// Tweets without graph hashtags still advance the clock.
func (rg *RollingGraph) Update(unix int64, hashtags []string) bool {
	if rg.started && rg.newest-unix > rg.windowSeconds {
		slog.Debug("Tweet older than window, ignored for graph",
			"tweet_unix", unix, "newest_unix", rg.newest, "window_seconds", rg.windowSeconds)
		return false
	}

	if len(hashtags) > 0 {
		rg.graph.AddTags(hashtags)
		rg.queue.Insert(windowEntry{Unix: unix, Hashtags: hashtags})
	}

	if !rg.started || unix > rg.newest {
		rg.newest = unix
		rg.started = true
	}
	rg.evict()
	return true
}

// evict drops entries that are more than windowSeconds older than newest.
func (rg *RollingGraph) evict() {
	removed := 0
	for {
		front, ok := rg.queue.Front()
		if !ok || rg.newest-front.Unix <= rg.windowSeconds {
			break
		}
		rg.queue.PopFront()
		rg.graph.RemoveTags(front.Hashtags)
		removed++
	}
	if removed > 0 {
		slog.Debug("Sliding window management",
			"entries_removed", removed,
			"queue_size", rg.queue.Len(),
			"window_seconds", rg.windowSeconds)
	}
}

// AverageDegree returns the current average degree rounded to two decimals.
func (rg *RollingGraph) AverageDegree() float64 {
	return rg.graph.AverageDegree()
}

// Graph exposes the underlying graph for inspection.
func (rg *RollingGraph) Graph() *HashtagGraph {
	return rg.graph
}

// Len returns the number of tweets currently contributing edges.
func (rg *RollingGraph) Len() int {
	return rg.queue.Len()
}
