package tagging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"aircheck/internal/fileutil"
	"aircheck/internal/httpx"
	"aircheck/internal/logging"
	"aircheck/internal/program"
	"aircheck/internal/services"
)

const (
	defaultBinary = "ffmpeg"
	defaultGenre  = "Radio"
)

// Executor abstracts command execution for the tagger.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.CombinedOutput()
}

// Tagger writes program metadata into a finished capture. ffmpeg rewrites the
// container to a sibling temp file with `-c copy` plus `-metadata` pairs, and
// the temp file replaces the original on success.
type Tagger struct {
	binary   string
	genre    string
	coverArt bool
	exec     Executor
	http     *httpx.Client
	logger   *slog.Logger
}

// Option configures a Tagger.
type Option func(*Tagger)

// WithBinary overrides the ffmpeg binary path.
func WithBinary(binary string) Option {
	return func(t *Tagger) {
		if binary != "" {
			t.binary = binary
		}
	}
}

// WithGenre overrides the genre tag.
func WithGenre(genre string) Option {
	return func(t *Tagger) {
		if genre != "" {
			t.genre = genre
		}
	}
}

// WithCoverArt toggles cover art embedding.
func WithCoverArt(enabled bool) Option {
	return func(t *Tagger) { t.coverArt = enabled }
}

// WithExecutor injects a custom executor (tests).
func WithExecutor(exec Executor) Option {
	return func(t *Tagger) {
		if exec != nil {
			t.exec = exec
		}
	}
}

// WithHTTPClient supplies the client used for cover art fetches. Without one,
// cover art is skipped.
func WithHTTPClient(client *httpx.Client) Option {
	return func(t *Tagger) { t.http = client }
}

// WithLogger attaches a logger; a nil logger keeps the no-op default.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tagger) {
		t.logger = logging.NewComponentLogger(logger, "tagging")
	}
}

// New constructs a Tagger.
func New(opts ...Option) *Tagger {
	t := &Tagger{
		binary:   defaultBinary,
		genre:    defaultGenre,
		coverArt: true,
		exec:     commandExecutor{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tag writes the program's metadata into the file at path. trackNum <= 0
// omits the track tag. All failures come back tagged so callers can treat
// them as non-fatal; the captured audio is never at risk because the rewrite
// targets a temp file.
func (t *Tagger) Tag(ctx context.Context, path string, p program.Program, trackNum int) error {
	if !fileutil.FileExists(path) {
		return services.Wrap(services.ErrTagging, "tagging", "open file", fmt.Sprintf("%s does not exist", path), nil)
	}

	coverPath := ""
	if t.coverArt && p.ImageURL != "" {
		fetched, err := t.fetchCover(ctx, path, p.ImageURL)
		if err != nil {
			t.logger.Warn("cover art fetch failed", logging.Args(logging.Error(err))...)
		} else {
			coverPath = fetched
			defer os.Remove(coverPath)
		}
	}

	tmp := tempOutputPath(path)
	args := t.buildArgs(path, tmp, coverPath, p, trackNum)

	output, err := t.exec.Run(ctx, t.binary, args)
	if err != nil {
		_ = os.Remove(tmp)
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return services.Wrap(services.ErrTagging, "tagging", "run ffmpeg", detail, err)
		}
		return services.Wrap(services.ErrTagging, "tagging", "run ffmpeg", "", err)
	}

	if err := fileutil.ReplaceFile(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return services.Wrap(services.ErrTagging, "tagging", "replace file", "", err)
	}
	t.logger.Info("metadata written", logging.Args(logging.String("file", path))...)
	return nil
}

func (t *Tagger) buildArgs(input, output, coverPath string, p program.Program, trackNum int) []string {
	args := []string{"-loglevel", "error", "-y", "-i", input}
	if coverPath != "" {
		args = append(args,
			"-i", coverPath,
			"-map", "0",
			"-map", "1",
			"-c", "copy",
			"-disposition:v:0", "attached_pic",
		)
	} else {
		args = append(args, "-c", "copy")
	}

	for _, pair := range t.metadataPairs(p, trackNum) {
		args = append(args, "-metadata", pair)
	}
	return append(args, output)
}

// metadataPairs mirrors the MP4 atom mapping: title, album from the station,
// artist and album_artist from the performer, a slash-joined comment, genre,
// optional track, and a fixed disc.
func (t *Tagger) metadataPairs(p program.Program, trackNum int) []string {
	var pairs []string
	if p.Title != "" {
		pairs = append(pairs, "title="+p.Title)
	}
	pairs = append(pairs, "album="+p.Station)
	if p.Performer != "" {
		pairs = append(pairs,
			"artist="+p.Performer,
			"album_artist="+p.Performer,
		)
	}
	if comment := p.Comment(); comment != "" {
		pairs = append(pairs, "comment="+comment)
	}
	pairs = append(pairs, "genre="+t.genre)
	if trackNum > 0 {
		pairs = append(pairs, fmt.Sprintf("track=%d", trackNum))
	}
	return append(pairs, "disc=1/1")
}

func (t *Tagger) fetchCover(ctx context.Context, audioPath, imageURL string) (string, error) {
	if t.http == nil {
		return "", fmt.Errorf("no HTTP client configured")
	}
	status, body, err := t.http.GetBytes(ctx, imageURL, nil)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", fmt.Errorf("status %d", status)
	}

	f, err := os.CreateTemp(filepath.Dir(audioPath), ".cover-*.img")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(body); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func tempOutputPath(path string) string {
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+name+".tagging"+filepath.Ext(name))
}
