package modal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/modal-labs/libmodal/modal-go"

	"github.com/agnilab/gluesweep/internal/launcher"
)

// Config holds Modal-specific launcher configuration.
type Config struct {
	// AppName is the name of the Modal app to use. If empty, a unique name
	// is generated per launcher.
	AppName string
	// Image is the registry image reference the trainer runs in. Required.
	// The image is expected to contain the training program and to sync its
	// saves directory through a Modal volume or external storage.
	Image string
	// Regions specifies the Modal regions (e.g. "us-east", "us-west").
	Regions []string
	// CPU and MemoryMiB size the sandbox.
	CPU       float64
	MemoryMiB int
	// Verbose enables detailed sandbox logging.
	Verbose bool
}

// ParseConfig extracts Modal-specific config from the generic provider
// config map of the sweep configuration.
func ParseConfig(raw map[string]any) Config {
	cfg := Config{}
	if raw == nil {
		return cfg
	}
	if v, ok := raw["app_name"].(string); ok {
		cfg.AppName = v
	}
	if v, ok := raw["image"].(string); ok {
		cfg.Image = v
	}
	if v, ok := raw["region"].(string); ok {
		cfg.Regions = []string{v}
	}
	if v, ok := raw["regions"].([]any); ok {
		for _, r := range v {
			if s, ok := r.(string); ok {
				cfg.Regions = append(cfg.Regions, s)
			}
		}
	}
	if v, ok := raw["cpu"].(float64); ok {
		cfg.CPU = v
	}
	if v, ok := raw["cpu"].(int); ok {
		cfg.CPU = float64(v)
	}
	if v, ok := raw["memory_mib"].(float64); ok {
		cfg.MemoryMiB = int(v)
	}
	if v, ok := raw["memory_mib"].(int); ok {
		cfg.MemoryMiB = v
	}
	if v, ok := raw["verbose"].(bool); ok {
		cfg.Verbose = v
	}
	return cfg
}

// Launcher runs trainer processes in Modal sandboxes.
type Launcher struct {
	client *modal.Client
	cfg    Config
}

// New creates a new Modal launcher.
func New(cfg Config) (*Launcher, error) {
	if cfg.Image == "" {
		return nil, fmt.Errorf("modal launcher: image is required")
	}
	if cfg.CPU <= 0 {
		cfg.CPU = 1
	}
	if cfg.MemoryMiB <= 0 {
		cfg.MemoryMiB = 2048
	}

	slog.Debug("initializing modal client")
	client, err := modal.NewClient()
	if err != nil {
		return nil, fmt.Errorf("creating modal client: %w", err)
	}

	return &Launcher{client: client, cfg: cfg}, nil
}

// Name returns the launcher name.
func (l *Launcher) Name() string {
	return "modal"
}

// Run executes the command in a fresh Modal sandbox. The sandbox is
// terminated when the command finishes.
func (l *Launcher) Run(ctx context.Context, cmd launcher.Command, stdout, stderr io.Writer) (int, error) {
	appName := l.cfg.AppName
	if appName == "" {
		appName = fmt.Sprintf("gluesweep-%d", time.Now().UnixNano())
	}

	app, err := l.client.Apps.FromName(ctx, appName, &modal.AppFromNameParams{
		CreateIfMissing: true,
	})
	if err != nil {
		return -1, fmt.Errorf("creating modal app: %w", err)
	}

	image := l.client.Images.FromRegistry(l.cfg.Image, nil)

	sandboxTimeout := 24 * time.Hour // maximum allowed
	if cmd.Timeout > 0 {
		sandboxTimeout = cmd.Timeout
	}

	slog.Debug("creating modal sandbox",
		"app", appName,
		"image", l.cfg.Image,
		"cpu", l.cfg.CPU,
		"memory_mib", l.cfg.MemoryMiB,
		"regions", l.cfg.Regions)

	sandbox, err := l.client.Sandboxes.Create(ctx, app, image, &modal.SandboxCreateParams{
		CPU:       l.cfg.CPU,
		MemoryMiB: l.cfg.MemoryMiB,
		Env:       cmd.Env,
		Timeout:   sandboxTimeout,
		Verbose:   l.cfg.Verbose,
		Regions:   l.cfg.Regions,
	})
	if err != nil {
		return -1, fmt.Errorf("creating modal sandbox: %w", err)
	}

	defer func() {
		if err := sandbox.Terminate(context.Background()); err != nil {
			if !strings.Contains(err.Error(), "already terminated") &&
				!strings.Contains(err.Error(), "not found") {
				slog.Warn("terminating modal sandbox", "sandbox_id", sandbox.SandboxID, "error", err)
			}
		}
	}()

	execParams := &modal.SandboxExecParams{
		Env: cmd.Env,
	}
	if cmd.Timeout > 0 {
		execParams.Timeout = cmd.Timeout
	}
	if cmd.WorkDir != "" {
		execParams.Workdir = cmd.WorkDir
	}

	argv := append([]string{cmd.Program}, cmd.Args...)
	slog.Debug("executing trainer in modal sandbox",
		"sandbox_id", sandbox.SandboxID,
		"program", cmd.Program)

	process, err := sandbox.Exec(ctx, argv, execParams)
	if err != nil {
		return -1, fmt.Errorf("executing command: %w", err)
	}

	// Stream stdout and stderr concurrently
	done := make(chan struct{}, 2)

	go func() {
		if stdout != nil {
			io.Copy(stdout, process.Stdout)
		} else {
			io.Copy(io.Discard, process.Stdout)
		}
		done <- struct{}{}
	}()

	go func() {
		if stderr != nil {
			io.Copy(stderr, process.Stderr)
		} else {
			io.Copy(io.Discard, process.Stderr)
		}
		done <- struct{}{}
	}()

	<-done
	<-done

	exitCode, err := process.Wait(ctx)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return -1, fmt.Errorf("%w after %s", launcher.ErrTimeout, cmd.Timeout)
		}
		return -1, fmt.Errorf("waiting for process: %w", err)
	}

	return exitCode, nil
}
