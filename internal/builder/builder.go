// Package builder checks out tool sources and produces staged binaries.
package builder

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/oasislabs/toolstate/internal/config"
)

// ToolBuild pairs a tool with the revision to build.
type ToolBuild struct {
	Tool     config.Tool
	Revision string
}

// BuildError represents a failed build for a single tool. A build failure
// aborts the batch; binaries already staged for sibling tools remain in the
// staging directory for cache upload.
type BuildError struct {
	Tool string
	Err  error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("building %s: %s", e.Tool, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// UnsupportedProjectError means a tool declares no builder and its project
// type could not be inferred from a recognized manifest.
type UnsupportedProjectError struct {
	Tool string
	Dir  string
}

func (e *UnsupportedProjectError) Error() string {
	return fmt.Sprintf("building %s: unable to auto-detect project type in %s — specify 'builder' in the config", e.Tool, e.Dir)
}

// Orchestrator builds tools into a local staging directory.
type Orchestrator struct {
	// WorkDir holds one checkout per source repository, reused across runs.
	WorkDir string

	// BinDir is the staging directory for built binaries. It is also
	// prepended to PATH for build invocations so tools can depend on
	// freshly built siblings.
	BinDir string

	// Output receives a "+ <command>" echo per invocation. Defaults to
	// io.Discard.
	Output io.Writer
}

// Reset clears and recreates the staging directory.
func (o *Orchestrator) Reset() error {
	if err := os.RemoveAll(o.BinDir); err != nil {
		return fmt.Errorf("clearing staging dir %s: %w", o.BinDir, err)
	}
	if err := os.MkdirAll(o.BinDir, 0755); err != nil {
		return fmt.Errorf("creating staging dir %s: %w", o.BinDir, err)
	}
	return nil
}

// BuildAll builds each tool in order, staging binaries under BinDir by tool
// name. The first failure aborts the batch and is returned; earlier staged
// binaries are left in place.
func (o *Orchestrator) BuildAll(ctx context.Context, builds []ToolBuild) error {
	for _, b := range builds {
		if err := o.buildOne(ctx, b); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) buildOne(ctx context.Context, b ToolBuild) error {
	repoDir := filepath.Join(o.WorkDir, repoBase(b.Tool.SourceURL()))

	if err := o.checkout(ctx, b.Tool.SourceURL(), b.Revision, repoDir); err != nil {
		return &BuildError{Tool: b.Tool.Name, Err: err}
	}

	binary, err := o.invokeBuild(ctx, b, repoDir)
	if err != nil {
		return err
	}

	staged := filepath.Join(o.BinDir, b.Tool.Name)
	if err := copyFile(binary, staged, 0755); err != nil {
		return &BuildError{Tool: b.Tool.Name, Err: fmt.Errorf("staging binary: %w", err)}
	}
	return nil
}

// invokeBuild runs the tool's explicit builder if declared, otherwise walks
// the detection table for a recognized manifest. Returns the path of the
// produced binary.
func (o *Orchestrator) invokeBuild(ctx context.Context, b ToolBuild, repoDir string) (string, error) {
	if b.Tool.Builder != "" {
		if err := o.runShell(ctx, repoDir, b.Tool.Env, b.Tool.Builder); err != nil {
			return "", &BuildError{Tool: b.Tool.Name, Err: err}
		}
		return filepath.Join(repoDir, b.Tool.Name), nil
	}

	for _, s := range strategies {
		if _, err := os.Stat(filepath.Join(repoDir, s.manifest)); err != nil {
			continue
		}
		binary, err := s.build(ctx, o, b, repoDir)
		if err != nil {
			return "", &BuildError{Tool: b.Tool.Name, Err: err}
		}
		return binary, nil
	}

	return "", &UnsupportedProjectError{Tool: b.Tool.Name, Dir: repoDir}
}

// strategies is the ordered manifest-detection table. New project types are
// added here, not as branches in the build path.
var strategies = []struct {
	manifest string
	build    func(ctx context.Context, o *Orchestrator, b ToolBuild, repoDir string) (string, error)
}{
	{"Cargo.toml", buildCargo},
	{"go.mod", buildGo},
}

func buildCargo(ctx context.Context, o *Orchestrator, b ToolBuild, repoDir string) (string, error) {
	err := o.run(ctx, repoDir, b.Tool.Env,
		"cargo", "build", "-q", "--locked", "--release", "--bin", b.Tool.Name)
	if err != nil {
		return "", err
	}
	return filepath.Join(repoDir, "target", "release", b.Tool.Name), nil
}

func buildGo(ctx context.Context, o *Orchestrator, b ToolBuild, repoDir string) (string, error) {
	// Module layouts vary too much to pick a main package safely.
	return "", fmt.Errorf("auto go builds are not supported — specify 'builder' in the config")
}

func repoBase(url string) string {
	return url[strings.LastIndex(url, "/")+1:]
}

func copyFile(src, dst string, perm os.FileMode) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, perm)
}
