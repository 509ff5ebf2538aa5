package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"aircheck/internal/capture"
	"aircheck/internal/config"
	"aircheck/internal/logging"
	"aircheck/internal/nhk"
	"aircheck/internal/program"
	"aircheck/internal/radiko"
	"aircheck/internal/services"
	"aircheck/internal/timetext"
)

// broadcastAPI is the slice of the radiko client a run needs.
type broadcastAPI interface {
	Authorize(ctx context.Context) (radiko.Session, error)
	IsStationAvailable(ctx context.Context, station, areaID string) (bool, error)
	NowProgram(ctx context.Context, station, areaID string) (program.Program, error)
	ProgramAt(ctx context.Context, station, at, areaID string) (program.Program, error)
	ResolveLive(ctx context.Context, station string, session radiko.Session) (radiko.StreamReference, error)
	ResolveTimefree(station, ft, to string, session radiko.Session) radiko.StreamReference
}

// ondemandAPI is the slice of the nhk client a run needs.
type ondemandAPI interface {
	Series(ctx context.Context, siteID, cornerSiteID string) (nhk.Series, error)
}

type recorder interface {
	Record(ctx context.Context, req capture.Request) error
}

type tagger interface {
	Tag(ctx context.Context, path string, p program.Program, trackNum int) error
}

// Runner sequences one recording end to end: resolve, capture, tag. Each run
// gets a fresh id so its log lines correlate.
type Runner struct {
	cfg      *config.Config
	logger   *slog.Logger
	radiko   broadcastAPI
	nhk      ondemandAPI
	recorder recorder
	tagger   tagger
	now      func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		if now != nil {
			r.now = now
		}
	}
}

// New constructs a Runner. logger may be nil.
func New(cfg *config.Config, logger *slog.Logger, broadcast broadcastAPI, ondemand ondemandAPI, rec recorder, tag tagger, opts ...Option) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	r := &Runner{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		radiko:   broadcast,
		nhk:      ondemand,
		recorder: rec,
		tagger:   tag,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RecordLive authorizes, resolves the station's live stream, and records it
// for the given number of minutes. Returns the output path.
func (r *Runner) RecordLive(ctx context.Context, station string, durationMinutes int) (string, error) {
	logger := r.runLogger()
	if durationMinutes <= 0 {
		return "", services.Wrap(services.ErrValidation, "workflow", "record live", "duration must be positive", nil)
	}

	session, err := r.radiko.Authorize(ctx)
	if err != nil {
		return "", err
	}

	available, err := r.radiko.IsStationAvailable(ctx, station, session.AreaID)
	if err != nil {
		return "", err
	}
	if !available {
		return "", services.Wrap(services.ErrValidation, "workflow", "record live",
			fmt.Sprintf("station %s is not available in area %s", station, session.AreaID), nil)
	}

	prog, err := r.radiko.NowProgram(ctx, station, session.AreaID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			return "", err
		}
		logger.Warn("no program metadata for tagging", logging.Args(logging.String("station", station))...)
		prog = program.Program{Station: station, Source: program.SourceRadiko}
	}

	ref, err := r.radiko.ResolveLive(ctx, station, session)
	if err != nil {
		return "", err
	}

	outputPath := filepath.Join(r.cfg.Paths.OutputDir, program.Filename(station, r.now().Format("20060102150405")))
	if err := r.capture(ctx, logger, capture.Request{
		StreamURL:       ref.URL,
		Headers:         ref.Headers,
		OutputPath:      outputPath,
		DurationSeconds: durationMinutes * 60,
	}); err != nil {
		return "", err
	}

	r.tag(ctx, logger, outputPath, prog)
	return outputPath, nil
}

// RecordTimefree records a finished broadcast from the time-shift window
// [ft, to), both 14-digit timestamps. Returns the output path.
func (r *Runner) RecordTimefree(ctx context.Context, station, ft, to string) (string, error) {
	logger := r.runLogger()
	ft = timetext.CanonicalAt(ft, timetext.ServiceRadiko, r.now())
	to = timetext.CanonicalAt(to, timetext.ServiceRadiko, r.now())
	if !timetext.Canonicalized(ft) || !timetext.Canonicalized(to) {
		return "", services.Wrap(services.ErrValidation, "workflow", "record timefree",
			fmt.Sprintf("window %s-%s is not canonical", ft, to), nil)
	}

	window := program.Program{StartTime: ft, EndTime: to}
	durationSeconds := window.DurationSeconds()
	if durationSeconds <= 0 {
		return "", services.Wrap(services.ErrValidation, "workflow", "record timefree", "empty window", nil)
	}

	session, err := r.radiko.Authorize(ctx)
	if err != nil {
		return "", err
	}

	prog, err := r.radiko.ProgramAt(ctx, station, ft, session.AreaID)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			return "", err
		}
		logger.Warn("no program metadata for tagging", logging.Args(logging.String("station", station))...)
		prog = program.Program{Station: station, StartTime: ft, EndTime: to, Source: program.SourceRadiko}
	}

	ref := r.radiko.ResolveTimefree(station, ft, to, session)

	outputPath := filepath.Join(r.cfg.Paths.OutputDir, program.Filename(station, ft))
	if err := r.capture(ctx, logger, capture.Request{
		StreamURL:       ref.URL,
		Headers:         ref.Headers,
		OutputPath:      outputPath,
		DurationSeconds: durationSeconds,
	}); err != nil {
		return "", err
	}

	r.tag(ctx, logger, outputPath, prog)
	return outputPath, nil
}

// RecordOndemand records one episode from a series detail payload. episode
// is a zero-based index into the published episode list. Returns the output
// path.
func (r *Runner) RecordOndemand(ctx context.Context, siteID, cornerSiteID string, episode int) (string, error) {
	logger := r.runLogger()

	series, err := r.nhk.Series(ctx, siteID, cornerSiteID)
	if err != nil {
		return "", err
	}

	programs := nhk.Programs(series, r.now())
	if len(programs) == 0 {
		return "", services.Wrap(services.ErrNotFound, "workflow", "record ondemand",
			fmt.Sprintf("series %s-%s has no episodes", siteID, cornerSiteID), nil)
	}
	if episode < 0 || episode >= len(programs) {
		return "", services.Wrap(services.ErrValidation, "workflow", "record ondemand",
			fmt.Sprintf("episode %d out of range (0-%d)", episode, len(programs)-1), nil)
	}

	prog := programs[episode]
	if !prog.IsRecordable() {
		return "", services.Wrap(services.ErrValidation, "workflow", "record ondemand",
			fmt.Sprintf("episode %q has no stream", prog.Title), nil)
	}

	outputPath := filepath.Join(r.cfg.Paths.OutputDir, prog.OutputFilename())
	if err := r.capture(ctx, logger, capture.Request{
		StreamURL:       prog.StreamURL,
		OutputPath:      outputPath,
		DurationSeconds: r.cfg.NHK.DurationMinutes * 60,
	}); err != nil {
		return "", err
	}

	r.tag(ctx, logger, outputPath, prog)
	return outputPath, nil
}

func (r *Runner) capture(ctx context.Context, logger *slog.Logger, req capture.Request) error {
	logger.Info("recording", logging.Args(
		logging.String("output", req.OutputPath),
		logging.Int("duration_seconds", req.DurationSeconds),
	)...)
	return r.recorder.Record(ctx, req)
}

// tag writes metadata after a successful capture. A tagging failure leaves
// the recording on disk and the run successful.
func (r *Runner) tag(ctx context.Context, logger *slog.Logger, path string, prog program.Program) {
	if err := r.tagger.Tag(ctx, path, prog, 0); err != nil {
		logger.Warn("tagging failed", logging.Args(logging.Error(err))...)
	}
}

func (r *Runner) runLogger() *slog.Logger {
	return r.logger.With("run_id", uuid.NewString())
}
