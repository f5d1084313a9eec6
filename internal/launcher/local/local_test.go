package local_test

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agnilab/gluesweep/internal/launcher"
	"github.com/agnilab/gluesweep/internal/launcher/local"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("test relies on unix shell utilities")
	}
}

func TestRunCapturesOutputAndEnv(t *testing.T) {
	requireUnix(t)

	var stdout, stderr bytes.Buffer
	code, err := local.New().Run(context.Background(), launcher.Command{
		Program: "sh",
		Args:    []string{"-c", "echo model=$MODEL; echo oops >&2"},
		Env:     map[string]string{"MODEL": "bert-base-cased"},
	}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if code != 0 {
		t.Errorf("expected exit code 0, got %d", code)
	}
	if got := strings.TrimSpace(stdout.String()); got != "model=bert-base-cased" {
		t.Errorf("unexpected stdout: %q", got)
	}
	if got := strings.TrimSpace(stderr.String()); got != "oops" {
		t.Errorf("unexpected stderr: %q", got)
	}
}

func TestRunReportsExitCode(t *testing.T) {
	requireUnix(t)

	code, err := local.New().Run(context.Background(), launcher.Command{
		Program: "sh",
		Args:    []string{"-c", "exit 3"},
	}, nil, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != 3 {
		t.Errorf("expected exit code 3, got %d", code)
	}
}

func TestRunTimeout(t *testing.T) {
	requireUnix(t)

	_, err := local.New().Run(context.Background(), launcher.Command{
		Program: "sleep",
		Args:    []string{"5"},
		Timeout: 50 * time.Millisecond,
	}, nil, nil)
	if !errors.Is(err, launcher.ErrTimeout) {
		t.Errorf("expected launcher.ErrTimeout, got: %v", err)
	}
}
