// Package ingest flattens multi-file uploads into one analyzable log blob.
// Files are classified by extension: CSV rows are re-emitted as METRICS
// lines with their numeric columns harvested into side series, JSON and
// plain text pass through for the analyzer's own normalization.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/loglens/loglens/pkg/models"
)

var firstNumber = regexp.MustCompile(`\d+`)

// File is one uploaded file.
type File struct {
	Name string
	Data []byte
}

// MergeResult is the flattened form of a multi-file upload: the combined
// log text plus metric series harvested from CSV columns that the log-line
// patterns would not catch.
type MergeResult struct {
	Text    string
	Files   []models.FileSummary
	CPU     []int
	Memory  []int
	Latency []int
}

// Merge flattens the uploaded files in order into one text blob. Files
// that cannot be processed are recorded in the summaries and skipped;
// Merge itself never fails.
func Merge(files []File) MergeResult {
	var result MergeResult
	var texts []string

	for _, f := range files {
		name := strings.ToLower(f.Name)
		text := string(f.Data)

		switch {
		case strings.HasSuffix(name, ".csv"):
			lines, rows := flattenCSV(text, &result)
			result.Files = append(result.Files, models.FileSummary{
				Filename: f.Name,
				Type:     "csv",
				Rows:     rows,
			})
			if lines != "" {
				texts = append(texts, lines)
			}
		case strings.HasSuffix(name, ".json"):
			// The analyzer's normalizer knows how to flatten JSON.
			result.Files = append(result.Files, models.FileSummary{
				Filename: f.Name,
				Type:     "json",
			})
			texts = append(texts, text)
		default:
			result.Files = append(result.Files, models.FileSummary{
				Filename: f.Name,
				Type:     "log",
				Bytes:    len(text),
			})
			texts = append(texts, text)
		}
	}

	result.Text = strings.Join(texts, "\n")
	return result
}

// flattenCSV re-emits each data row as a METRICS line and harvests
// cpu/memory/latency values from heuristically matched columns.
func flattenCSV(text string, result *MergeResult) (string, int) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return "", 0
	}

	var lines []string
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		rows++

		ts := columnValue(header, record, "timestamp")
		var values []string
		for i := range header {
			if i < len(record) && record[i] != "" {
				values = append(values, record[i])
			}
		}
		lines = append(lines, fmt.Sprintf("[%s] [METRICS] %s", ts, strings.Join(values, " ")))

		harvestColumn(header, record, &result.CPU, "cpu")
		harvestColumn(header, record, &result.Memory, "mem", "memory")
		harvestColumn(header, record, &result.Latency, "lat", "time")
	}

	return strings.Join(lines, "\n"), rows
}

// columnValue returns the named column's value, or empty.
func columnValue(header, record []string, name string) string {
	for i, col := range header {
		if col == name && i < len(record) {
			return record[i]
		}
	}
	return ""
}

// harvestColumn appends the first integer found in the first column whose
// name contains one of the given substrings. At most one value per row
// per series.
func harvestColumn(header, record []string, series *[]int, substrings ...string) {
	for i, col := range header {
		if i >= len(record) || record[i] == "" {
			continue
		}
		lower := strings.ToLower(col)
		matched := false
		for _, sub := range substrings {
			if strings.Contains(lower, sub) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if m := firstNumber.FindString(record[i]); m != "" {
			if v, err := strconv.Atoi(m); err == nil {
				*series = append(*series, v)
				return
			}
		}
	}
}

// CombineMetrics appends the harvested side series to the analyzer's own
// series and recomputes the derived summary values over the combined data.
func CombineMetrics(core models.MetricsSummary, result MergeResult) models.MetricsSummary {
	cpu := append(append([]int{}, core.CPUSeries...), result.CPU...)
	memory := append(append([]int{}, core.MemorySeries...), result.Memory...)
	latency := append(append([]int{}, core.LatencySeries...), result.Latency...)

	return models.MetricsSummary{
		AvgCPU:        roundedMean(cpu),
		MaxCPU:        maxValue(cpu),
		AvgMemory:     roundedMean(memory),
		MaxLatency:    maxValue(latency),
		MetricPoints:  len(cpu),
		CPUSeries:     cpu,
		MemorySeries:  memory,
		LatencySeries: latency,
	}
}

// AggregatedContext renders the block appended to the LLM context when
// multiple files contribute metric series beyond the core extraction.
func AggregatedContext(metrics models.MetricsSummary) string {
	var b strings.Builder
	b.WriteString("\n\nAGGREGATED_METRICS:\n")
	fmt.Fprintf(&b, "- cpu_points: %d, max_cpu: %d, avg_cpu: %g\n",
		len(metrics.CPUSeries), metrics.MaxCPU, metrics.AvgCPU)
	fmt.Fprintf(&b, "- latency_points: %d, max_latency: %d\n",
		len(metrics.LatencySeries), metrics.MaxLatency)
	return b.String()
}

// roundedMean and maxValue mirror the analyzer's derivations so combined
// summaries stay consistent with single-input reports.
func roundedMean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	mean := float64(sum) / float64(len(values))
	return math.Round(mean*100) / 100
}

func maxValue(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
