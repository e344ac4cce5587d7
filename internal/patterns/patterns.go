// Package patterns defines the masking rules that collapse variable
// substrings in log messages into fixed placeholders.
package patterns

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Pattern represents a single masking rule
type Pattern struct {
	Name        string `yaml:"name"`
	Regex       string `yaml:"regex"`
	Placeholder string `yaml:"placeholder"`
	Description string `yaml:"description"`
}

// PatternsConfig represents the masking rules configuration file
type PatternsConfig struct {
	Patterns []Pattern `yaml:"patterns"`
}

// CompiledPattern is a masking rule with compiled regex
type CompiledPattern struct {
	Name        string
	Regex       *regexp.Regexp
	Placeholder string
	Description string
}

// LoadPatterns loads masking rules from a YAML file. File order is
// preserved: rules are applied in sequence, so earlier placeholders must
// not be re-masked by later rules.
func LoadPatterns(filepath string) ([]CompiledPattern, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file: %w", err)
	}

	var config PatternsConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing patterns YAML: %w", err)
	}

	compiled := make([]CompiledPattern, 0, len(config.Patterns))
	for _, p := range config.Patterns {
		regex, err := regexp.Compile(p.Regex)
		if err != nil {
			return nil, fmt.Errorf("compiling pattern %s: %w", p.Name, err)
		}

		compiled = append(compiled, CompiledPattern{
			Name:        p.Name,
			Regex:       regex,
			Placeholder: p.Placeholder,
			Description: p.Description,
		})
	}

	return compiled, nil
}

// DefaultPatterns returns the default compiled masking rules (fallback if
// config file not found). Numbers are masked after UUIDs so a UUID's digit
// runs are never partially replaced.
func DefaultPatterns() []CompiledPattern {
	return []CompiledPattern{
		{
			Name:        "ip",
			Regex:       regexp.MustCompile(`\d+\.\d+\.\d+\.\d+`),
			Placeholder: "{IP}",
			Description: "IPv4 addresses",
		},
		{
			Name:        "uuid",
			Regex:       regexp.MustCompile(`\b[0-9a-fA-F-]{36}\b`),
			Placeholder: "{UUID}",
			Description: "UUID-shaped hex/hyphen sequences",
		},
		{
			Name:        "number",
			Regex:       regexp.MustCompile(`\b\d+\b`),
			Placeholder: "{NUM}",
			Description: "Standalone digit runs",
		},
		{
			Name:        "quoted",
			Regex:       regexp.MustCompile(`'.*?'`),
			Placeholder: "'{STR}'",
			Description: "Single-quoted strings",
		},
	}
}
