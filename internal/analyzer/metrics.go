package analyzer

import (
	"math"
	"regexp"
	"strconv"

	"github.com/loglens/loglens/pkg/models"
)

// Metric extraction patterns. A message may contribute to several series
// if it matches more than one.
var (
	cpuPattern     = regexp.MustCompile(`CPU:\s*(\d+)%`)
	memoryPattern  = regexp.MustCompile(`MEM:\s*(\d+)`)
	latencyPattern = regexp.MustCompile(`(?i)(?:Duration|latency|time):\s*(\d+)ms`)
)

// extractMetrics scans every parsed entry's message for embedded numeric
// telemetry and builds the per-metric series plus derived summary values.
func extractMetrics(entries []models.LogEntry) models.MetricsSummary {
	cpu := []int{}
	memory := []int{}
	latency := []int{}

	for _, entry := range entries {
		if m := cpuPattern.FindStringSubmatch(entry.Message); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				cpu = append(cpu, v)
			}
		}
		if m := memoryPattern.FindStringSubmatch(entry.Message); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				memory = append(memory, v)
			}
		}
		if m := latencyPattern.FindStringSubmatch(entry.Message); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				latency = append(latency, v)
			}
		}
	}

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

// roundedMean returns the mean rounded to 2 decimal places, or 0 for an
// empty series.
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

// maxValue returns the largest value, or 0 for an empty series.
func maxValue(values []int) int {
	max := 0
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return max
}
