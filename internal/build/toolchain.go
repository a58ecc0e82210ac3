// Package build drives the host C compiler over generated C sources.
package build

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Platform identifies the host the executable is built for.
type Platform struct {
	GOOS   string
	GOARCH string
}

func (p Platform) String() string { return p.GOOS + "/" + p.GOARCH }

// ExeSuffix is the file name suffix executables need on p.
func (p Platform) ExeSuffix() string {
	if p.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// HostPlatform returns the current runtime's GOOS/GOARCH.
func HostPlatform() Platform { return Platform{GOOS: runtime.GOOS, GOARCH: runtime.GOARCH} }

// CommandSpec describes a build command to be executed by Run.
type CommandSpec struct {
	WorkDir string
	Cmd     string
	Args    []string
}

func (s CommandSpec) String() string {
	return strings.TrimSpace(s.Cmd + " " + strings.Join(s.Args, " "))
}

// CToolchain builds commands for a cc-compatible compiler driver.
type CToolchain struct {
	CC     string
	CFlags []string
}

// Compile creates a CommandSpec that compiles source into output and links
// libs, given without the -l prefix.
func (tc CToolchain) Compile(source, output string, libs []string) (CommandSpec, error) {
	if tc.CC == "" {
		return CommandSpec{}, errors.New("no C compiler configured")
	}
	if source == "" || output == "" {
		return CommandSpec{}, errors.New("source and output must be non-empty")
	}

	args := append([]string{}, tc.CFlags...)
	args = append(args, source, "-o", output)
	for _, lib := range libs {
		args = append(args, "-l"+lib)
	}
	return CommandSpec{Cmd: tc.CC, Args: args}, nil
}

// Run executes spec, failing once timeout elapses when timeout is positive.
// The combined output of a failed command is appended to the error.
func Run(ctx context.Context, spec CommandSpec, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, spec.Cmd, spec.Args...)
	cmd.Dir = spec.WorkDir
	cmd.Stdout = &output
	cmd.Stderr = &output
	// Children that inherit the pipes must not keep Wait blocked.
	cmd.WaitDelay = time.Second

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%s timed out after %s", spec.Cmd, timeout)
		}
		return fmt.Errorf("%s failed: %w\n%s", spec.Cmd, err, strings.TrimSpace(output.String()))
	}
	return nil
}
