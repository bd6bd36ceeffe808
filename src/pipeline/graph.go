package pipeline

import (
	"fmt"
	"math"
	"sort"
)

// edgeKey is an undirected edge with A < B.
type edgeKey struct {
	A, B string
}

func newEdgeKey(a, b string) edgeKey {
	if b < a {
		a, b = b, a
	}
	return edgeKey{A: a, B: b}
}

// HashtagGraph keeps an undirected hashtag co-occurrence graph.
// Each edge carries the number of window tweets that contributed it, so an
// edge only disappears once the last of those tweets leaves the window.
type HashtagGraph struct {
	edges       map[edgeKey]int
	degree      map[string]int
	totalDegree int
}

// NewHashtagGraph creates an empty graph.
func NewHashtagGraph() *HashtagGraph {
	return &HashtagGraph{
		edges:  make(map[edgeKey]int),
		degree: make(map[string]int),
	}
}

// AddTags increments every pair formed by tags.
// Call this when a tweet enters the window.
func (g *HashtagGraph) AddTags(tags []string) {
	forEachPair(tags, func(k edgeKey) {
		g.edges[k]++
		if g.edges[k] == 1 {
			g.degree[k.A]++
			g.degree[k.B]++
			g.totalDegree += 2
		}
	})
}

// RemoveTags decrements every pair formed by tags.
// Call this when a tweet leaves the window.
func (g *HashtagGraph) RemoveTags(tags []string) {
	forEachPair(tags, func(k edgeKey) {
		count, ok := g.edges[k]
		if !ok {
			return
		}
		if count > 1 {
			g.edges[k] = count - 1
			return
		}
		delete(g.edges, k)
		g.dropDegree(k.A)
		g.dropDegree(k.B)
		g.totalDegree -= 2
	})
}

func (g *HashtagGraph) dropDegree(node string) {
	g.degree[node]--
	if g.degree[node] <= 0 {
		delete(g.degree, node) // nodes without neighbours leave the graph
	}
}

// NodeCount returns the number of hashtags with at least one neighbour.
func (g *HashtagGraph) NodeCount() int {
	return len(g.degree)
}

// EdgeCount returns the number of distinct edges.
func (g *HashtagGraph) EdgeCount() int {
	return len(g.edges)
}

// Degree returns the number of neighbours of a hashtag.
func (g *HashtagGraph) Degree(tag string) int {
	return g.degree[tag]
}

// AverageDegree returns the mean node degree rounded to two decimals.
func (g *HashtagGraph) AverageDegree() float64 {
	if len(g.degree) == 0 {
		return 0
	}
	avg := float64(g.totalDegree) / float64(len(g.degree))
	return math.Round(avg*100) / 100
}

// Adjacency returns a snapshot of the graph as sorted neighbour lists.
func (g *HashtagGraph) Adjacency() map[string][]string {
	adj := make(map[string][]string, len(g.degree))
	for k := range g.edges {
		adj[k.A] = append(adj[k.A], k.B)
		adj[k.B] = append(adj[k.B], k.A)
	}
	for node := range adj {
		sort.Strings(adj[node])
	}
	return adj
}

// FormatDegree renders an average degree the way ft2.txt expects it.
func FormatDegree(avg float64) string {
	return fmt.Sprintf("%.2f", avg)
}

func forEachPair(tags []string, fn func(edgeKey)) {
	for i := 0; i < len(tags); i++ {
		for j := i + 1; j < len(tags); j++ {
			if tags[i] == tags[j] {
				continue
			}
			fn(newEdgeKey(tags[i], tags[j]))
		}
	}
}
