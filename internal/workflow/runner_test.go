package workflow

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aircheck/internal/capture"
	"aircheck/internal/config"
	"aircheck/internal/nhk"
	"aircheck/internal/program"
	"aircheck/internal/radiko"
	"aircheck/internal/services"
)

type fakeBroadcast struct {
	session     radiko.Session
	authErr     error
	available   bool
	availErr    error
	prog        program.Program
	progErr     error
	liveRef     radiko.StreamReference
	liveErr     error
	timefreeRef radiko.StreamReference

	timefreeFT string
	timefreeTo string
}

func (f *fakeBroadcast) Authorize(context.Context) (radiko.Session, error) {
	return f.session, f.authErr
}

func (f *fakeBroadcast) IsStationAvailable(context.Context, string, string) (bool, error) {
	return f.available, f.availErr
}

func (f *fakeBroadcast) NowProgram(context.Context, string, string) (program.Program, error) {
	return f.prog, f.progErr
}

func (f *fakeBroadcast) ProgramAt(context.Context, string, string, string) (program.Program, error) {
	return f.prog, f.progErr
}

func (f *fakeBroadcast) ResolveLive(context.Context, string, radiko.Session) (radiko.StreamReference, error) {
	return f.liveRef, f.liveErr
}

func (f *fakeBroadcast) ResolveTimefree(_, ft, to string, _ radiko.Session) radiko.StreamReference {
	f.timefreeFT, f.timefreeTo = ft, to
	return f.timefreeRef
}

type fakeOndemand struct {
	series nhk.Series
	err    error
}

func (f *fakeOndemand) Series(context.Context, string, string) (nhk.Series, error) {
	return f.series, f.err
}

type fakeRecorder struct {
	err error
	req capture.Request
}

func (f *fakeRecorder) Record(_ context.Context, req capture.Request) error {
	f.req = req
	return f.err
}

type fakeTagger struct {
	err   error
	path  string
	prog  program.Program
	calls int
}

func (f *fakeTagger) Tag(_ context.Context, path string, p program.Program, _ int) error {
	f.path = path
	f.prog = p
	f.calls++
	return f.err
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.OutputDir = t.TempDir()
	cfg.NHK.DurationMinutes = 50
	return &cfg
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 1, 25, 13, 30, 0, 0, time.Local)
	}
}

func TestRecordLive(t *testing.T) {
	broadcast := &fakeBroadcast{
		session:   radiko.Session{Token: "tok-1", AreaID: "JP13"},
		available: true,
		prog: program.Program{
			Title:     "昼の音楽便",
			Station:   "TBS",
			StartTime: "20260125130000",
			EndTime:   "20260125140000",
			Source:    program.SourceRadiko,
		},
		liveRef: radiko.StreamReference{
			URL:     "https://stream.example/chunklist.m3u8",
			Headers: map[string]string{"X-Radiko-AuthToken": "tok-1"},
		},
	}
	rec := &fakeRecorder{}
	tag := &fakeTagger{}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, rec, tag, WithClock(fixedClock()))

	path, err := r.RecordLive(context.Background(), "TBS", 30)
	if err != nil {
		t.Fatalf("RecordLive: %v", err)
	}
	if filepath.Base(path) != "TBS_2026-01-25-13_30.mp4" {
		t.Errorf("output %q", path)
	}
	if rec.req.StreamURL != broadcast.liveRef.URL {
		t.Errorf("recorded %q", rec.req.StreamURL)
	}
	if rec.req.DurationSeconds != 1800 {
		t.Errorf("DurationSeconds = %d", rec.req.DurationSeconds)
	}
	if rec.req.Headers["X-Radiko-AuthToken"] != "tok-1" {
		t.Errorf("headers not forwarded: %v", rec.req.Headers)
	}
	if tag.calls != 1 || tag.prog.Title != "昼の音楽便" {
		t.Errorf("tagger saw %+v (%d calls)", tag.prog, tag.calls)
	}
}

func TestRecordLiveUnavailableStation(t *testing.T) {
	broadcast := &fakeBroadcast{
		session:   radiko.Session{Token: "tok-1", AreaID: "JP13"},
		available: false,
	}
	rec := &fakeRecorder{}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, rec, &fakeTagger{})

	_, err := r.RecordLive(context.Background(), "HBC", 30)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if rec.req.StreamURL != "" {
		t.Error("capture must not run for unavailable station")
	}
}

func TestRecordLiveMissingProgramIsSoft(t *testing.T) {
	broadcast := &fakeBroadcast{
		session:   radiko.Session{Token: "tok-1", AreaID: "JP13"},
		available: true,
		progErr:   services.Wrap(services.ErrNotFound, "programs", "lookup", "nothing on air", nil),
		liveRef:   radiko.StreamReference{URL: "https://stream.example/c.m3u8"},
	}
	tag := &fakeTagger{}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, &fakeRecorder{}, tag, WithClock(fixedClock()))

	if _, err := r.RecordLive(context.Background(), "TBS", 5); err != nil {
		t.Fatalf("missing metadata must not fail the run: %v", err)
	}
	if tag.prog.Station != "TBS" {
		t.Errorf("fallback program should carry the station, got %+v", tag.prog)
	}
}

func TestRecordLiveCaptureFailure(t *testing.T) {
	broadcast := &fakeBroadcast{
		session:   radiko.Session{Token: "tok-1", AreaID: "JP13"},
		available: true,
		liveRef:   radiko.StreamReference{URL: "https://stream.example/c.m3u8"},
	}
	tag := &fakeTagger{}
	rec := &fakeRecorder{err: services.Wrap(services.ErrCapture, "capture", "run ffmpeg", "exit status 1", nil)}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, rec, tag, WithClock(fixedClock()))

	_, err := r.RecordLive(context.Background(), "TBS", 5)
	if !errors.Is(err, services.ErrCapture) {
		t.Fatalf("expected ErrCapture, got %v", err)
	}
	if tag.calls != 0 {
		t.Error("tagger must not run after a failed capture")
	}
}

func TestRecordLiveTaggingFailureIsSoft(t *testing.T) {
	broadcast := &fakeBroadcast{
		session:   radiko.Session{Token: "tok-1", AreaID: "JP13"},
		available: true,
		liveRef:   radiko.StreamReference{URL: "https://stream.example/c.m3u8"},
	}
	tag := &fakeTagger{err: services.Wrap(services.ErrTagging, "tagging", "run ffmpeg", "boom", nil)}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, &fakeRecorder{}, tag, WithClock(fixedClock()))

	if _, err := r.RecordLive(context.Background(), "TBS", 5); err != nil {
		t.Fatalf("tagging failure must not fail the run: %v", err)
	}
}

func TestRecordTimefree(t *testing.T) {
	broadcast := &fakeBroadcast{
		session: radiko.Session{Token: "tok-2", AreaID: "JP13"},
		prog: program.Program{
			Title:     "深夜便",
			Station:   "TBS",
			StartTime: "20260125093000",
			EndTime:   "20260125100000",
		},
		timefreeRef: radiko.StreamReference{
			URL:     "https://radiko.jp/v2/api/ts/playlist.m3u8?station_id=TBS&l=15&ft=20260125093000&to=20260125100000",
			Headers: map[string]string{"X-Radiko-AuthToken": "tok-2"},
		},
	}
	rec := &fakeRecorder{}
	r := New(testConfig(t), nil, broadcast, &fakeOndemand{}, rec, &fakeTagger{}, WithClock(fixedClock()))

	path, err := r.RecordTimefree(context.Background(), "TBS", "20260125093000", "20260125100000")
	if err != nil {
		t.Fatalf("RecordTimefree: %v", err)
	}
	if filepath.Base(path) != "TBS_2026-01-25-09_30.mp4" {
		t.Errorf("output %q", path)
	}
	if rec.req.DurationSeconds != 1800 {
		t.Errorf("DurationSeconds = %d, want window length", rec.req.DurationSeconds)
	}
	if broadcast.timefreeFT != "20260125093000" || broadcast.timefreeTo != "20260125100000" {
		t.Errorf("resolver saw %s-%s", broadcast.timefreeFT, broadcast.timefreeTo)
	}
}

func TestRecordTimefreeRejectsBadWindow(t *testing.T) {
	r := New(testConfig(t), nil, &fakeBroadcast{}, &fakeOndemand{}, &fakeRecorder{}, &fakeTagger{})

	cases := []struct{ ft, to string }{
		{"notatime", "20260125100000"},
		{"20260125100000", "20260125100000"},
	}
	for _, tc := range cases {
		if _, err := r.RecordTimefree(context.Background(), "TBS", tc.ft, tc.to); !errors.Is(err, services.ErrValidation) {
			t.Errorf("window %s-%s: expected ErrValidation, got %v", tc.ft, tc.to, err)
		}
	}
}

func TestRecordOndemand(t *testing.T) {
	ondemand := &fakeOndemand{
		series: nhk.Series{
			Title:          "眠れない貴女へ",
			RadioBroadcast: "FM",
			Episodes: []nhk.Episode{
				{
					ProgramTitle: "第42回",
					OnairDate:    "1月18日(日)午後11:30放送",
					StreamURL:    "https://vod-stream.nhk.example/a/master.m3u8",
				},
				{ProgramTitle: "第41回", OnairDate: "1月11日(日)午後11:30放送"},
			},
		},
	}
	rec := &fakeRecorder{}
	tag := &fakeTagger{}
	r := New(testConfig(t), nil, &fakeBroadcast{}, ondemand, rec, tag, WithClock(fixedClock()))

	path, err := r.RecordOndemand(context.Background(), "47Q5W9WQK9", "01", 0)
	if err != nil {
		t.Fatalf("RecordOndemand: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "FM_2026-01-18") {
		t.Errorf("output %q", path)
	}
	if rec.req.StreamURL != "https://vod-stream.nhk.example/a/master.m3u8" {
		t.Errorf("recorded %q", rec.req.StreamURL)
	}
	if rec.req.DurationSeconds != 50*60 {
		t.Errorf("DurationSeconds = %d, want configured fallback", rec.req.DurationSeconds)
	}
	if len(rec.req.Headers) != 0 {
		t.Errorf("ondemand capture must not send auth headers, got %v", rec.req.Headers)
	}
	if tag.prog.Title != "眠れない貴女へ 第42回" {
		t.Errorf("tagger saw title %q", tag.prog.Title)
	}
}

func TestRecordOndemandUnplayableEpisode(t *testing.T) {
	ondemand := &fakeOndemand{
		series: nhk.Series{
			Title:    "x",
			Episodes: []nhk.Episode{{ProgramTitle: "回", OnairDate: "20260118"}},
		},
	}
	r := New(testConfig(t), nil, &fakeBroadcast{}, ondemand, &fakeRecorder{}, &fakeTagger{}, WithClock(fixedClock()))

	_, err := r.RecordOndemand(context.Background(), "s", "01", 0)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRecordOndemandEpisodeOutOfRange(t *testing.T) {
	ondemand := &fakeOndemand{
		series: nhk.Series{
			Title:    "x",
			Episodes: []nhk.Episode{{ProgramTitle: "回", OnairDate: "20260118", StreamURL: "https://s/x.m3u8"}},
		},
	}
	r := New(testConfig(t), nil, &fakeBroadcast{}, ondemand, &fakeRecorder{}, &fakeTagger{}, WithClock(fixedClock()))

	_, err := r.RecordOndemand(context.Background(), "s", "01", 5)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
