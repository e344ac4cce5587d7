package analyzer

import (
	"fmt"
	"testing"

	"github.com/loglens/loglens/internal/patterns"
	"github.com/loglens/loglens/pkg/models"
)

func TestClustererMask(t *testing.T) {
	c := NewClusterer(nil)

	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "IP address",
			message:  "Connection from 192.168.1.100 refused",
			expected: "Connection from {IP} refused",
		},
		{
			name:     "UUID",
			message:  "Request 550e8400-e29b-41d4-a716-446655440000 failed",
			expected: "Request {UUID} failed",
		},
		{
			name:     "standalone numbers",
			message:  "User 123 retried 5 times",
			expected: "User {NUM} retried {NUM} times",
		},
		{
			name:     "quoted string",
			message:  "Unknown key 'session_token' in payload",
			expected: "Unknown key '{STR}' in payload",
		},
		{
			name:     "hyphenated id",
			message:  "Connection failed to db-7",
			expected: "Connection failed to db-{NUM}",
		},
		{
			name:     "no variables",
			message:  "database connection pool exhausted",
			expected: "database connection pool exhausted",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Mask(tt.message); got != tt.expected {
				t.Errorf("\nExpected: %s\nGot:      %s", tt.expected, got)
			}
		})
	}
}

func TestClustererMaskIdempotent(t *testing.T) {
	c := NewClusterer(nil)
	messages := []string{
		"Connection from 192.168.1.100 refused",
		"Request 550e8400-e29b-41d4-a716-446655440000 took 120 ms",
		"Unknown key 'session_token' with value 42",
	}
	for _, msg := range messages {
		once := c.Mask(msg)
		twice := c.Mask(once)
		if once != twice {
			t.Errorf("masking not idempotent:\nonce:  %s\ntwice: %s", once, twice)
		}
	}
}

func TestClustererEmptyRulesFallBackToDefaults(t *testing.T) {
	// A patterns file that parses but defines no rules must not disable
	// masking.
	c := NewClusterer([]patterns.CompiledPattern{})
	if got := c.Mask("User 123 logged in"); got != "User {NUM} logged in" {
		t.Errorf("Mask = %q, want default rules applied", got)
	}
}

func TestClustererCollapsesVariants(t *testing.T) {
	c := NewClusterer(nil)
	for i := 0; i < 10; i++ {
		c.Add(models.LogEntry{
			Timestamp: fmt.Sprintf("t%d", i),
			Level:     "ERROR",
			Message:   fmt.Sprintf("Connection failed to db-%d", i),
		})
	}

	clusters := c.Top(maxClusters)
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}

	cluster := clusters[0]
	if cluster.Count != 10 {
		t.Errorf("Count = %d, want 10", cluster.Count)
	}
	if cluster.Pattern != "Connection failed to db-{NUM}" {
		t.Errorf("Pattern = %q", cluster.Pattern)
	}
	if cluster.Example != "Connection failed to db-0" {
		t.Errorf("Example = %q, want first message", cluster.Example)
	}
	if len(cluster.Timestamps) != 10 || cluster.Timestamps[0] != "t0" || cluster.Timestamps[9] != "t9" {
		t.Errorf("Timestamps not in encounter order: %v", cluster.Timestamps)
	}
}

func TestClustererLevelSeparatesSignatures(t *testing.T) {
	c := NewClusterer(nil)
	c.Add(models.LogEntry{Level: "INFO", Message: "Cache refresh done"})
	c.Add(models.LogEntry{Level: "WARN", Message: "Cache refresh done"})

	if got := len(c.Top(maxClusters)); got != 2 {
		t.Errorf("clusters = %d, want 2 (same pattern, different levels)", got)
	}
}

func TestClustererTopSortsByCountWithStableTies(t *testing.T) {
	c := NewClusterer(nil)
	c.Add(models.LogEntry{Level: "INFO", Message: "first once"})
	c.Add(models.LogEntry{Level: "INFO", Message: "second twice"})
	c.Add(models.LogEntry{Level: "INFO", Message: "second twice"})
	c.Add(models.LogEntry{Level: "INFO", Message: "third once"})

	clusters := c.Top(maxClusters)
	if len(clusters) != 3 {
		t.Fatalf("clusters = %d, want 3", len(clusters))
	}
	if clusters[0].Pattern != "second twice" {
		t.Errorf("clusters[0] = %q, want most frequent first", clusters[0].Pattern)
	}
	// Tied clusters keep encounter order.
	if clusters[1].Pattern != "first once" || clusters[2].Pattern != "third once" {
		t.Errorf("tie order broken: %q, %q", clusters[1].Pattern, clusters[2].Pattern)
	}
}

func TestClustererTopTruncates(t *testing.T) {
	c := NewClusterer(nil)
	for i := 0; i < 30; i++ {
		c.Add(models.LogEntry{Level: "INFO", Message: fmt.Sprintf("unique message variant %c", 'a'+i)})
	}
	if got := len(c.Top(maxClusters)); got != maxClusters {
		t.Errorf("Top = %d clusters, want %d", got, maxClusters)
	}
}

func TestClustererCountsSumToEntries(t *testing.T) {
	c := NewClusterer(nil)
	messages := []string{
		"User 1 logged in",
		"User 2 logged in",
		"Payment 9 processed",
		"User 3 logged in",
		"Payment 4 processed",
	}
	for _, msg := range messages {
		c.Add(models.LogEntry{Level: "INFO", Message: msg})
	}

	total := 0
	for _, cluster := range c.Top(maxClusters) {
		total += cluster.Count
	}
	if total != len(messages) {
		t.Errorf("cluster counts sum to %d, want %d", total, len(messages))
	}
}
