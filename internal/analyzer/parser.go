package analyzer

import (
	"regexp"
	"strings"

	"github.com/loglens/loglens/pkg/models"
)

// linePattern captures timestamp, level, optional component, and message
// from bracket-format lines: "[TIMESTAMP] [LEVEL] [COMPONENT] MESSAGE"
// with the component group optional.
var linePattern = regexp.MustCompile(`^\[(.*?)\]\s+\[(\w+)\]\s+(?:\[(.*?)\]\s+)?(.*)$`)

// defaultComponent is used when a line carries no component group.
const defaultComponent = "System"

// parseLines splits normalized text into structured entries. Blank lines
// are skipped; non-blank lines that do not match the bracket shape are
// silently dropped and only reflected in the returned drop count.
func parseLines(normalized string) ([]models.LogEntry, int) {
	var entries []models.LogEntry
	dropped := 0

	for _, line := range strings.Split(strings.TrimSpace(normalized), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		match := linePattern.FindStringSubmatch(strings.TrimSpace(line))
		if match == nil {
			dropped++
			continue
		}

		component := match[3]
		if component == "" {
			component = defaultComponent
		}

		entries = append(entries, models.LogEntry{
			Timestamp: match[1],
			Level:     match[2],
			Component: component,
			Message:   match[4],
			Raw:       line,
		})
	}

	return entries, dropped
}
