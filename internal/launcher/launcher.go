package launcher

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrTimeout reports that a run exceeded its configured timeout. Launchers
// wrap it so callers can classify timeouts with errors.Is.
var ErrTimeout = errors.New("command timed out")

// Command describes one trainer invocation.
type Command struct {
	// Program is the executable to run (e.g. "python").
	Program string
	// Args are the arguments passed to the program.
	Args []string
	// Env holds environment variables exported to the process, in addition
	// to the launcher's ambient environment.
	Env map[string]string
	// WorkDir is the working directory for the process.
	WorkDir string
	// Timeout bounds the run. Zero means no timeout.
	Timeout time.Duration
}

// Launcher starts trainer processes and reports their exit codes.
type Launcher interface {
	// Name returns the launcher name (e.g. "local", "modal").
	Name() string

	// Run executes the command, streaming stdout and stderr to the provided
	// writers. Returns the exit code, or an error if the process could not
	// be started or timed out.
	Run(ctx context.Context, cmd Command, stdout, stderr io.Writer) (int, error)
}
