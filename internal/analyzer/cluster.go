package analyzer

import (
	"fmt"
	"sort"

	"github.com/loglens/loglens/internal/patterns"
	"github.com/loglens/loglens/pkg/models"
)

// maxClusters caps how many patterns a run reports.
const maxClusters = 20

// Clusterer groups parsed entries into recurring message shapes by masking
// variable content. One Clusterer serves exactly one analysis run and is
// not safe for concurrent use.
type Clusterer struct {
	patterns []patterns.CompiledPattern
	clusters map[string]*models.Cluster
	order    []string
}

// NewClusterer creates a clusterer with the given masking rules, falling
// back to the defaults when none are provided.
func NewClusterer(pats []patterns.CompiledPattern) *Clusterer {
	if len(pats) == 0 {
		pats = patterns.DefaultPatterns()
	}
	return &Clusterer{
		patterns: pats,
		clusters: make(map[string]*models.Cluster),
	}
}

// Mask replaces variable substrings in a message with fixed placeholders.
// Rules apply in order; masking an already-masked message is a no-op.
func (c *Clusterer) Mask(message string) string {
	masked := message
	for _, p := range c.patterns {
		masked = p.Regex.ReplaceAllString(masked, p.Placeholder)
	}
	return masked
}

// Add folds one entry into its cluster. The signature is the masked
// message qualified by level, so identical templates at different levels
// stay separate.
func (c *Clusterer) Add(entry models.LogEntry) {
	masked := c.Mask(entry.Message)
	signature := fmt.Sprintf("[%s] %s", entry.Level, masked)

	cluster, ok := c.clusters[signature]
	if !ok {
		cluster = &models.Cluster{
			Pattern: masked,
			Level:   entry.Level,
			Example: entry.Message,
		}
		c.clusters[signature] = cluster
		c.order = append(c.order, signature)
	}
	cluster.Count++
	cluster.Timestamps = append(cluster.Timestamps, entry.Timestamp)
}

// Top returns up to n clusters sorted by descending count. Ties keep
// encounter order.
func (c *Clusterer) Top(n int) []*models.Cluster {
	result := make([]*models.Cluster, 0, len(c.order))
	for _, signature := range c.order {
		result = append(result, c.clusters[signature])
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Count > result[j].Count
	})

	if len(result) > n {
		result = result[:n]
	}
	return result
}
