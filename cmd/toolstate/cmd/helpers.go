package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oasislabs/toolstate/internal/builder"
	"github.com/oasislabs/toolstate/internal/canary"
	"github.com/oasislabs/toolstate/internal/config"
	"github.com/oasislabs/toolstate/internal/engine"
	"github.com/oasislabs/toolstate/internal/history"
	"github.com/oasislabs/toolstate/internal/resolver"
	"github.com/oasislabs/toolstate/internal/store"
)

// loadConfig reads and validates the tool manifest.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", configPath, err)
	}
	return cfg, nil
}

// newStore opens the shared artifact bucket.
func newStore() (store.ObjectStore, error) {
	return store.NewS3Store(store.S3ConfigFromEnv(bucket))
}

// newEngine wires a pipeline engine for the current platform.
func newEngine(s store.ObjectStore, workDir string, gateCommand string) *engine.Engine {
	binDir := filepath.Join(workDir, "bin")

	var gate canary.Gate
	if gateCommand != "" {
		gate = &canary.CommandGate{Command: gateCommand, Dir: workDir, Output: commandOutput()}
	}

	return &engine.Engine{
		Store:    s,
		Log:      history.NewLog(s),
		Resolver: &resolver.GitResolver{},
		Builder:  &builder.Orchestrator{WorkDir: workDir, BinDir: binDir, Output: commandOutput()},
		Gate:     gate,
		Platform: platform,
		BinDir:   binDir,
	}
}

// commandOutput returns the writer for external-command echoes.
func commandOutput() io.Writer {
	if quiet {
		return io.Discard
	}
	return os.Stdout
}

// info prints a line unless quiet mode is active.
func info(format string, args ...any) {
	if !quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// detail prints a line only in verbose mode.
func detail(format string, args ...any) {
	if verbose {
		fmt.Printf("  "+format+"\n", args...)
	}
}

// errorf prints an error message to stderr.
func errorf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
