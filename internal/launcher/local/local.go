package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/agnilab/gluesweep/internal/launcher"
)

// Launcher runs trainer processes directly on the host.
type Launcher struct{}

// New creates a new local launcher.
func New() *Launcher {
	return &Launcher{}
}

// Name returns the launcher name.
func (l *Launcher) Name() string {
	return "local"
}

// Run executes the command on the host via os/exec.
func (l *Launcher) Run(ctx context.Context, cmd launcher.Command, stdout, stderr io.Writer) (int, error) {
	if cmd.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cmd.Timeout)
		defer cancel()
	}

	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	execCmd.Stdout = stdout
	execCmd.Stderr = stderr
	execCmd.Dir = cmd.WorkDir

	// Child sees the host environment plus the exported sweep variables.
	execCmd.Env = os.Environ()
	for k, v := range cmd.Env {
		execCmd.Env = append(execCmd.Env, fmt.Sprintf("%s=%s", k, v))
	}

	err := execCmd.Run()
	if err != nil {
		// A process killed by the timeout also surfaces as an ExitError, so
		// the deadline check has to come first.
		if ctx.Err() == context.DeadlineExceeded {
			return -1, fmt.Errorf("%w after %s", launcher.ErrTimeout, cmd.Timeout)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("executing command: %w", err)
	}

	return 0, nil
}
