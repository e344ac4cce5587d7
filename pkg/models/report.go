// Package models defines the data types produced by the log analysis core
// and exchanged with the reasoning layer.
package models

// LogEntry is one structured log line produced by the parser.
type LogEntry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Component string `json:"component"`
	Message   string `json:"message"`
	Raw       string `json:"raw"`
}

// Cluster is a group of log entries sharing the same masked message shape.
type Cluster struct {
	Pattern    string   `json:"pattern"`
	Level      string   `json:"level"`
	Count      int      `json:"count"`
	Example    string   `json:"example"`
	Timestamps []string `json:"timestamps"`
}

// MetricsSummary holds the numeric telemetry extracted from log messages.
// The three series are independent: values are appended in document order
// as they are found and carry no per-timestamp alignment between series.
type MetricsSummary struct {
	AvgCPU        float64 `json:"avg_cpu"`
	MaxCPU        int     `json:"max_cpu"`
	AvgMemory     float64 `json:"avg_memory"`
	MaxLatency    int     `json:"max_latency"`
	MetricPoints  int     `json:"metric_points"`
	CPUSeries     []int   `json:"cpu_series"`
	MemorySeries  []int   `json:"memory_series"`
	LatencySeries []int   `json:"latency_series"`
}

// Report is the complete result of one analysis run. It has no lifecycle
// beyond the call that produced it: nothing is cached or shared across runs.
type Report struct {
	EntryCount   int            `json:"parsed_entries"`
	LevelCounts  map[string]int `json:"log_levels"`
	Components   []string       `json:"components"`
	Clusters     []*Cluster     `json:"clusters"`
	Metrics      MetricsSummary `json:"metrics_summary"`
	Anomalies    []string       `json:"anomalies"`
	Correlations []string       `json:"correlations"`
	HealthScore  int            `json:"health_score"`
	LLMContext   string         `json:"llm_context"`

	// DroppedLines counts non-blank lines that did not match the expected
	// bracket shape. Diagnostic only: dropped lines contribute nothing to
	// entries, clusters, or metrics.
	DroppedLines int `json:"dropped_lines"`
}

// FileSummary describes one uploaded file in a multi-file analysis request.
type FileSummary struct {
	Filename string `json:"filename"`
	Type     string `json:"type,omitempty"`
	Rows     int    `json:"rows,omitempty"`
	Bytes    int    `json:"bytes,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Bottleneck is one issue identified by the reasoning layer.
type Bottleneck struct {
	Title             string `json:"title"`
	Severity          string `json:"severity"`
	Description       string `json:"description"`
	RootCause         string `json:"root_cause"`
	Recommendation    string `json:"recommendation"`
	AffectedComponent string `json:"affected_component"`
}

// ReasoningMetrics is the peak-usage block of the reasoning response.
type ReasoningMetrics struct {
	CPUPeak       string `json:"cpu_peak"`
	MemoryPeak    string `json:"memory_peak"`
	DBConnections string `json:"db_connections"`
}

// Reasoning is the structured bottleneck report returned by the LLM.
type Reasoning struct {
	Summary            string           `json:"summary"`
	OverallHealthScore float64          `json:"overall_health_score"`
	Bottlenecks        []Bottleneck     `json:"bottlenecks"`
	MetricsSummary     ReasoningMetrics `json:"metrics_summary"`
}
