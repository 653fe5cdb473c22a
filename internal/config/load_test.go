package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validConfig = `
tools:
  oasis:
    source: oasislabs/oasis-cli
    builder: make release
  oasis-chain:
    source: oasislabs/oasis-cli
  compiler:
    source: oasislabs/compiler
    env:
      RUSTFLAGS: -C target-cpu=native
canaries:
  - oasislabs/quickstart
`

func TestParseValidConfig(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(cfg.Tools) != 3 {
		t.Fatalf("expected 3 tools, got %d", len(cfg.Tools))
	}

	oasis := cfg.Tools["oasis"]
	if oasis.Name != "oasis" {
		t.Errorf("tool name not filled from map key: %q", oasis.Name)
	}
	if oasis.Builder != "make release" {
		t.Errorf("builder = %q", oasis.Builder)
	}
	if got := oasis.SourceURL(); got != "https://github.com/oasislabs/oasis-cli" {
		t.Errorf("SourceURL = %q", got)
	}

	if got := cfg.Tools["compiler"].Env["RUSTFLAGS"]; got != "-C target-cpu=native" {
		t.Errorf("env not parsed: %q", got)
	}
}

func TestSourcesDeduplicated(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	sources := cfg.Sources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 distinct sources, got %d: %v", len(sources), sources)
	}
	// Sorted, so the result is deterministic.
	if sources[0] != "https://github.com/oasislabs/compiler" {
		t.Errorf("sources[0] = %q", sources[0])
	}
}

func TestCanaryURLs(t *testing.T) {
	cfg, err := Parse([]byte(validConfig))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	urls := cfg.CanaryURLs()
	if len(urls) != 1 || urls[0] != "https://github.com/oasislabs/quickstart" {
		t.Errorf("CanaryURLs = %v", urls)
	}
}

func TestValidateFailures(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"no tools", `canaries: []`, "at least one tool is required"},
		{"missing source", "tools:\n  oasis: {}", "'source' is required"},
		{"malformed source", "tools:\n  oasis:\n    source: not-a-repo", "must be 'owner/repo'"},
		{"malformed canary", validConfig + "  - http://example.com/x\n", "must be 'owner/repo'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(validConfig), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Tools) != 3 {
		t.Errorf("expected 3 tools, got %d", len(cfg.Tools))
	}
}
