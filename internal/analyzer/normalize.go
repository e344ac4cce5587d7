package analyzer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// normalizeStrategy converts one input shape into newline-separated log
// lines. It reports false when the shape does not apply, letting the next
// strategy try.
type normalizeStrategy func(input string) (string, bool)

// normalizeInput detects JSON or CSV payloads (often uploaded as text) and
// converts them into unified log-line strings so the parser can process
// them deterministically. Strategies run in fixed priority order; input
// that matches none is treated as already being raw log text.
func normalizeInput(input string) string {
	strategies := []normalizeStrategy{normalizeJSON, normalizeCSV}
	for _, strategy := range strategies {
		if lines, ok := strategy(input); ok {
			return lines
		}
	}
	return input
}

// normalizeJSON handles a top-level JSON object or array. An object with a
// string "logs" field is already multi-line log text and passes through
// verbatim; any other object becomes exactly one synthesized line. Array
// elements become one line each.
func normalizeJSON(input string) (string, bool) {
	var parsed any
	if err := json.Unmarshal([]byte(input), &parsed); err != nil {
		return "", false
	}

	switch v := parsed.(type) {
	case map[string]any:
		if logs, ok := v["logs"].(string); ok {
			return logs, true
		}
		return synthesizeLine(v, v), true
	case []any:
		lines := make([]string, 0, len(v))
		for _, elem := range v {
			if obj, ok := elem.(map[string]any); ok {
				lines = append(lines, synthesizeLine(obj, obj))
			} else {
				lines = append(lines, fmt.Sprintf("%v", elem))
			}
		}
		if len(lines) == 0 {
			return "", false
		}
		return strings.Join(lines, "\n"), true
	}

	// Scalar JSON (string, number, bool, null) is not log-shaped.
	return "", false
}

// synthesizeLine builds a bracket-format line from an object using
// best-effort field aliases. The message defaults to fallback serialized
// as compact JSON.
func synthesizeLine(obj map[string]any, fallback any) string {
	ts := fieldAlias(obj, "timestamp", "time", "date")
	level := fieldAlias(obj, "level", "severity")
	if level == "" {
		level = "INFO"
	}
	component := fieldAlias(obj, "component", "service")
	message := fieldAlias(obj, "message", "msg")
	if message == "" {
		if data, err := json.Marshal(fallback); err == nil {
			message = string(data)
		}
	}
	return fmt.Sprintf("[%s] [%s] [%s] %s", ts, level, component, message)
}

// fieldAlias returns the first non-empty value among the aliased keys,
// converted to its string form.
func fieldAlias(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		var s string
		if str, isStr := v.(string); isStr {
			s = str
		} else {
			s = fmt.Sprintf("%v", v)
		}
		if s != "" {
			return s
		}
	}
	return ""
}

// normalizeCSV handles header-row CSV. It only applies when the text
// contains both a comma and a newline; each data row becomes one
// synthesized line in row order.
func normalizeCSV(input string) (string, bool) {
	if !strings.Contains(input, ",") || !strings.Contains(input, "\n") {
		return "", false
	}

	reader := csv.NewReader(strings.NewReader(input))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return "", false
	}

	var lines []string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed rows must not fail the whole input.
			break
		}

		ts := columnAlias(header, record, "timestamp", "time", "date")
		level := columnAlias(header, record, "level", "severity")
		if level == "" {
			level = "INFO"
		}
		component := columnAlias(header, record, "component", "service")
		message := columnAlias(header, record, "message", "msg")
		if message == "" {
			message = joinDataColumns(header, record)
		}
		lines = append(lines, fmt.Sprintf("[%s] [%s] [%s] %s", ts, level, component, message))
	}

	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// columnAlias returns the first non-empty value among the aliased columns.
func columnAlias(header, record []string, names ...string) string {
	for _, name := range names {
		for i, col := range header {
			if col == name && i < len(record) && record[i] != "" {
				return record[i]
			}
		}
	}
	return ""
}

// joinDataColumns concatenates every non-empty value whose column is not
// one of the structural timestamp/level/component columns.
func joinDataColumns(header, record []string) string {
	var parts []string
	for i, col := range header {
		if i >= len(record) || record[i] == "" {
			continue
		}
		switch strings.ToLower(col) {
		case "timestamp", "level", "component":
			continue
		}
		parts = append(parts, record[i])
	}
	return strings.Join(parts, " ")
}
