package capture

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gofrs/flock"

	"aircheck/internal/logging"
	"aircheck/internal/services"
)

const (
	// userAgent is the fixed browser identity the stream hosts expect.
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/117.0.0.0 Safari/537.36"

	// safetyMarginSeconds pads the requested duration so the tail of a
	// broadcast is not clipped by clock skew.
	safetyMarginSeconds = 5

	defaultBinary   = "ffmpeg"
	defaultLoglevel = "warning"
)

// State tracks one capture through its lifecycle.
type State string

const (
	StateNotStarted State = "not_started"
	StateRunning    State = "running"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// Executor abstracts command execution for the recorder.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

// commandExecutor executes commands using os/exec. The child runs in its own
// process group so cancellation reaps ffmpeg's helpers too.
type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	configureProcessGroup(cmd)
	return cmd.CombinedOutput()
}

// Request describes one stream to record.
type Request struct {
	StreamURL       string
	Headers         map[string]string
	OutputPath      string
	DurationSeconds int
}

// Recorder builds and supervises ffmpeg runs. Zero value is not usable;
// construct with New.
type Recorder struct {
	binary   string
	loglevel string
	margin   int
	exec     Executor
	logger   *slog.Logger
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithBinary overrides the ffmpeg binary path.
func WithBinary(binary string) Option {
	return func(r *Recorder) {
		if binary != "" {
			r.binary = binary
		}
	}
}

// WithLoglevel sets the -loglevel passed to ffmpeg.
func WithLoglevel(level string) Option {
	return func(r *Recorder) {
		if level != "" {
			r.loglevel = level
		}
	}
}

// WithSafetyMargin overrides the seconds added to every capture duration.
func WithSafetyMargin(seconds int) Option {
	return func(r *Recorder) {
		if seconds >= 0 {
			r.margin = seconds
		}
	}
}

// WithExecutor injects a custom executor (tests).
func WithExecutor(exec Executor) Option {
	return func(r *Recorder) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithLogger attaches a logger; a nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Recorder) {
		r.logger = logging.NewComponentLogger(logger, "capture")
	}
}

// New constructs a Recorder.
func New(opts ...Option) *Recorder {
	r := &Recorder{
		binary:   defaultBinary,
		loglevel: defaultLoglevel,
		margin:   safetyMarginSeconds,
		exec:     commandExecutor{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture is one recording run. States only advance: NotStarted to Running,
// then exactly one of Succeeded or Failed.
type Capture struct {
	recorder *Recorder
	request  Request

	mu    sync.Mutex
	state State
}

// NewCapture stages a recording without starting it.
func (r *Recorder) NewCapture(req Request) *Capture {
	return &Capture{recorder: r, request: req, state: StateNotStarted}
}

// State returns the current lifecycle state.
func (c *Capture) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Capture) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// Record stages and runs a capture in one call.
func (r *Recorder) Record(ctx context.Context, req Request) error {
	return r.NewCapture(req).Run(ctx)
}

// Run executes ffmpeg for the staged request. The output path is guarded by
// an advisory lock so two runs cannot write the same file; tool output is
// surfaced verbatim in the failure message, never parsed.
func (c *Capture) Run(ctx context.Context) error {
	r := c.recorder

	if c.State() != StateNotStarted {
		return services.Wrap(services.ErrCapture, "capture", "start", "capture already started", nil)
	}
	if c.request.StreamURL == "" {
		c.setState(StateFailed)
		return services.Wrap(services.ErrValidation, "capture", "start", "no stream URL", nil)
	}
	if c.request.OutputPath == "" {
		c.setState(StateFailed)
		return services.Wrap(services.ErrValidation, "capture", "start", "no output path", nil)
	}
	if c.request.DurationSeconds <= 0 {
		c.setState(StateFailed)
		return services.Wrap(services.ErrValidation, "capture", "start", "duration must be positive", nil)
	}

	lock := flock.New(lockPath(c.request.OutputPath))
	locked, err := lock.TryLock()
	if err != nil {
		c.setState(StateFailed)
		return services.Wrap(services.ErrCapture, "capture", "lock output", "", err)
	}
	if !locked {
		c.setState(StateFailed)
		return services.Wrap(services.ErrCapture, "capture", "lock output", "another capture owns this output file", nil)
	}
	defer func() { _ = lock.Unlock() }()

	args := r.buildArgs(c.request)
	c.setState(StateRunning)
	r.logger.Info("capture started", logging.Args(
		logging.String("output", c.request.OutputPath),
		logging.Int("duration_seconds", c.request.DurationSeconds),
	)...)

	output, err := r.exec.Run(ctx, r.binary, args)
	if err != nil {
		c.setState(StateFailed)
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return services.Wrap(services.ErrCapture, "capture", "run ffmpeg", detail, err)
		}
		return services.Wrap(services.ErrCapture, "capture", "run ffmpeg", "", err)
	}

	c.setState(StateSucceeded)
	r.logger.Info("capture finished", logging.Args(logging.String("output", c.request.OutputPath))...)
	return nil
}

// buildArgs assembles the ffmpeg invocation. Header order is sorted so the
// command line is deterministic.
func (r *Recorder) buildArgs(req Request) []string {
	args := []string{
		"-loglevel", r.loglevel,
		"-y",
		"-reconnect", "1",
		"-reconnect_at_eof", "0",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "600",
		"-user_agent", userAgent,
	}
	if len(req.Headers) > 0 {
		args = append(args, "-headers", headerBlock(req.Headers))
	}
	args = append(args,
		"-i", req.StreamURL,
		"-t", strconv.Itoa(req.DurationSeconds+r.margin),
		"-acodec", "copy",
		req.OutputPath,
	)
	return args
}

func headerBlock(headers map[string]string) string {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	return b.String()
}

func lockPath(outputPath string) string {
	dir, name := filepath.Split(outputPath)
	return filepath.Join(dir, "."+name+".lock")
}
