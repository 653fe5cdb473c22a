package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// run executes a command in dir with BinDir prepended to PATH, so builds
// can invoke tools staged earlier in the same batch.
func (o *Orchestrator) run(ctx context.Context, dir string, env map[string]string, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = o.buildEnv(env)

	o.echo(name + " " + strings.Join(args, " "))

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %s: %w", name, strings.TrimSpace(string(output)), err)
	}
	return nil
}

// runShell executes a shell command line, used for explicit builder
// declarations which may contain pipelines or arguments.
func (o *Orchestrator) runShell(ctx context.Context, dir string, env map[string]string, command string) error {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = dir
	cmd.Env = o.buildEnv(env)

	o.echo(command)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("builder command failed: %s: %w", strings.TrimSpace(string(output)), err)
	}
	return nil
}

func (o *Orchestrator) buildEnv(extra map[string]string) []string {
	env := os.Environ()
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + o.BinDir + string(os.PathListSeparator) + kv[len("PATH="):]
		}
	}
	env = append(env, "GIT_TERMINAL_PROMPT=0")
	for k, v := range extra {
		env = append(env, k+"="+v)
	}
	return env
}

func (o *Orchestrator) echo(command string) {
	out := o.Output
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "+ %s\n", command)
}
