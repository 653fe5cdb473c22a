package config

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var ownerRepoRe = regexp.MustCompile(`^\w+/[\w.-]+$`)

// Load reads and validates a config.yml tool manifest.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes and validates a config document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	for name, t := range cfg.Tools {
		t.Name = name
		cfg.Tools[name] = t
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}
	return &cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if len(cfg.Tools) == 0 {
		errs = append(errs, "at least one tool is required")
	}

	names := make([]string, 0, len(cfg.Tools))
	for name := range cfg.Tools {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		t := cfg.Tools[name]
		prefix := fmt.Sprintf("tool '%s'", name)

		if strings.ContainsAny(name, " /") {
			errs = append(errs, fmt.Sprintf("%s: name must not contain spaces or slashes", prefix))
		}
		if t.Source == "" {
			errs = append(errs, fmt.Sprintf("%s: 'source' is required", prefix))
		} else if !ownerRepoRe.MatchString(t.Source) {
			errs = append(errs, fmt.Sprintf("%s: invalid source '%s' — must be 'owner/repo'", prefix, t.Source))
		}
	}

	for i, repo := range cfg.Canaries {
		if !ownerRepoRe.MatchString(repo) {
			errs = append(errs, fmt.Sprintf("canary[%d]: invalid repository '%s' — must be 'owner/repo'", i, repo))
		}
	}

	return errs
}
