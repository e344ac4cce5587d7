// Package analyzer implements the deterministic log sensing pipeline:
// input normalization, line parsing, masking-based pattern clustering,
// metric extraction, threshold anomaly detection, correlation inference,
// health scoring, and compact context composition for the reasoning layer.
package analyzer

import (
	"fmt"
	"strings"

	"github.com/loglens/loglens/internal/patterns"
	"github.com/loglens/loglens/pkg/models"
)

// Anomaly thresholds. Checks run once per run against the run-wide maxima,
// never per sample.
const (
	cpuSpikeThreshold    = 80
	highLatencyThreshold = 2000
)

// Health score weights.
const (
	errorWeight   = 5
	anomalyWeight = 10
)

// Analyzer runs the full sensing pipeline over one raw input. It holds
// only fixed configuration (the masking rules), so a single Analyzer may
// serve concurrent callers: every Analyze call builds fresh state.
type Analyzer struct {
	patterns []patterns.CompiledPattern
}

// New creates an analyzer with the given masking rules, falling back to
// the defaults when none are provided.
func New(pats []patterns.CompiledPattern) *Analyzer {
	if len(pats) == 0 {
		pats = patterns.DefaultPatterns()
	}
	return &Analyzer{patterns: pats}
}

// Analyze runs all pipeline stages sequentially over the raw input and
// returns the complete report. Malformed input never fails: unrecognized
// shapes pass through normalization unchanged and unparseable lines are
// dropped, so the zero-entry report with health 100 is the worst case.
func (a *Analyzer) Analyze(raw string) *models.Report {
	normalized := normalizeInput(raw)
	entries, dropped := parseLines(normalized)

	clusterer := NewClusterer(a.patterns)
	for _, entry := range entries {
		clusterer.Add(entry)
	}
	clusters := clusterer.Top(maxClusters)

	metrics := extractMetrics(entries)
	anomalies := detectAnomalies(metrics)
	correlations := findCorrelations(anomalies, clusters)

	levelCounts, components := summarize(entries)

	return &models.Report{
		EntryCount:   len(entries),
		LevelCounts:  levelCounts,
		Components:   components,
		Clusters:     clusters,
		Metrics:      metrics,
		Anomalies:    anomalies,
		Correlations: correlations,
		HealthScore:  healthScore(clusters, anomalies),
		LLMContext:   composeContext(clusters, anomalies, metrics),
		DroppedLines: dropped,
	}
}

// detectAnomalies applies the fixed thresholds to the metric summary. At
// most one anomaly per category per run.
func detectAnomalies(metrics models.MetricsSummary) []string {
	anomalies := []string{}
	if metrics.MaxCPU > cpuSpikeThreshold {
		anomalies = append(anomalies, fmt.Sprintf("Critical CPU Spike detected: %d%%", metrics.MaxCPU))
	}
	if metrics.MaxLatency > highLatencyThreshold {
		anomalies = append(anomalies, fmt.Sprintf("High Latency detected: %dms", metrics.MaxLatency))
	}
	return anomalies
}

// findCorrelations cross-references anomalies against cluster contents.
// The single rule: a latency anomaly combined with ERROR-level database
// patterns points at the database as the likely cause.
func findCorrelations(anomalies []string, clusters []*models.Cluster) []string {
	correlations := []string{}

	hasLatency := false
	for _, a := range anomalies {
		if strings.Contains(a, "Latency") {
			hasLatency = true
			break
		}
	}

	hasDBErrors := false
	for _, c := range clusters {
		if c.Level == "ERROR" && strings.Contains(strings.ToLower(c.Pattern), "database") {
			hasDBErrors = true
			break
		}
	}

	if hasLatency && hasDBErrors {
		correlations = append(correlations, "Strong correlation: Database Errors are likely causing Latency spikes.")
	}
	return correlations
}

// healthScore reduces error volume and anomaly count to a 0-100 figure.
func healthScore(clusters []*models.Cluster, anomalies []string) int {
	score := 100
	for _, c := range clusters {
		if c.Level == "ERROR" || c.Level == "CRITICAL" {
			score -= c.Count * errorWeight
		}
	}
	score -= len(anomalies) * anomalyWeight
	if score < 0 {
		score = 0
	}
	return score
}

// summarize tallies level counts and collects component names in
// first-seen order.
func summarize(entries []models.LogEntry) (map[string]int, []string) {
	levelCounts := map[string]int{}
	components := []string{}
	seen := map[string]bool{}

	for _, entry := range entries {
		levelCounts[entry.Level]++
		if entry.Component != "" && !seen[entry.Component] {
			seen[entry.Component] = true
			components = append(components, entry.Component)
		}
	}
	return levelCounts, components
}
