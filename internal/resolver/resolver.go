// Package resolver maps declared tools to their current upstream revisions.
package resolver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/oasislabs/toolstate/internal/config"
)

// RevisionLen is the number of leading commit-hash characters used as a
// revision identifier in artifact keys.
const RevisionLen = 7

// ResolutionError represents a failure to resolve an upstream head.
// Resolution failures are fatal for the whole run: the planner needs a
// complete picture to avoid spuriously rebuilding a subset of tools.
type ResolutionError struct {
	Source string
	Err    error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving %s: %s", e.Source, e.Err)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// GitResolver resolves upstream heads with git ls-remote.
type GitResolver struct{}

// HeadVersions returns the tool→revision map for every declared tool.
// Tools sharing a source repository are resolved with a single remote query.
func (g *GitResolver) HeadVersions(ctx context.Context, cfg *config.Config) (map[string]string, error) {
	sourceRevs := make(map[string]string)
	for _, source := range cfg.Sources() {
		rev, err := lsRemoteHead(ctx, source)
		if err != nil {
			return nil, &ResolutionError{Source: source, Err: err}
		}
		sourceRevs[source] = rev
	}

	head := make(map[string]string, len(cfg.Tools))
	for name, t := range cfg.Tools {
		head[name] = sourceRevs[t.SourceURL()]
	}
	return head, nil
}

func lsRemoteHead(ctx context.Context, url string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-remote", url, "HEAD")
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git ls-remote failed: %w", err)
	}
	return parseLsRemote(string(output))
}

func parseLsRemote(output string) (string, error) {
	line := strings.TrimSpace(output)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", fmt.Errorf("empty ls-remote response")
	}
	hash := fields[0]
	if len(hash) < RevisionLen || !isHex(hash) {
		return "", fmt.Errorf("malformed ref response %q", hash)
	}
	return hash[:RevisionLen], nil
}

func isHex(s string) bool {
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
