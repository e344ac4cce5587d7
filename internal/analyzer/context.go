package analyzer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/loglens/loglens/pkg/models"
)

// composeContext renders the fixed-structure plain-text report handed to
// the reasoning layer. The anomaly list is serialized as a JSON array for
// readability only; nothing in this system parses it back.
func composeContext(clusters []*models.Cluster, anomalies []string, metrics models.MetricsSummary) string {
	anomaliesJSON, err := json.MarshalIndent(anomalies, "", "  ")
	if err != nil {
		anomaliesJSON = []byte("[]")
	}

	return fmt.Sprintf(`
AUTOMATED ANALYSIS REPORT:

1. TOP LOG PATTERNS (Clustered):
%s

2. DETECTED METRICS:
- Max CPU: %d%%
- Max Latency: %dms

3. DETECTED ANOMALIES:
%s
`, formatClusters(clusters), metrics.MaxCPU, metrics.MaxLatency, anomaliesJSON)
}

// formatClusters renders one line per cluster, most frequent first.
func formatClusters(clusters []*models.Cluster) string {
	var b strings.Builder
	for _, c := range clusters {
		fmt.Fprintf(&b, "- [%s] x%d: %s\n", c.Level, c.Count, c.Pattern)
	}
	return b.String()
}
