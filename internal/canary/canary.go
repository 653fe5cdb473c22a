// Package canary gates promotion on an external integration-test run.
package canary

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Gate reports whether a freshly built batch is fit for promotion.
// A nil error passes the gate; any error vetoes promotion for the run
// (cache uploads still happen).
type Gate interface {
	Run(ctx context.Context) error
}

// CommandGate runs an external test harness command as the gate.
type CommandGate struct {
	Command string
	Dir     string
	Env     []string
	Output  io.Writer
}

func (g *CommandGate) Run(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", g.Command)
	cmd.Dir = g.Dir
	if len(g.Env) > 0 {
		cmd.Env = g.Env
	}
	if g.Output != nil {
		fmt.Fprintf(g.Output, "+ %s\n", g.Command)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("canary gate failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}
