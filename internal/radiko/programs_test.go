package radiko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"aircheck/internal/program"
	"aircheck/internal/services"
)

const scheduleFixture = `<?xml version="1.0" encoding="UTF-8"?>
<radiko>
  <stations>
    <station id="TBS">
      <progs>
        <prog ft="20260125130000" to="20260125133000" dur="1800">
          <title>昼の音楽便</title>
          <pfm>山田太郎</pfm>
          <desc>午後の音楽をお届けします。</desc>
          <info>提供: レコード会社</info>
          <img>https://img.example/one.jpg</img>
          <url>https://www.tbsradio.jp/one/</url>
        </prog>
        <prog ft="20260125133000" to="20260125140000" dur="1800">
          <title>ニュース</title>
        </prog>
      </progs>
    </station>
  </stations>
</radiko>`

const stationListFixture = `<?xml version="1.0" encoding="UTF-8"?>
<stations area_id="JP13">
  <station>
    <id>TBS</id>
    <name>TBSラジオ</name>
  </station>
  <station>
    <id>QRR</id>
    <name>文化放送</name>
  </station>
</stations>`

func scheduleServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProgramsByDate(t *testing.T) {
	srv := scheduleServer(t, scheduleFixture)

	programs, err := newTestClient(srv).ProgramsByDate(context.Background(), "TBS", "20260125", "JP13")
	if err != nil {
		t.Fatalf("ProgramsByDate: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("got %d programs, want 2", len(programs))
	}

	first := programs[0]
	if first.Title != "昼の音楽便" || first.Station != "TBS" || first.Area != "JP13" {
		t.Errorf("unexpected first program %+v", first)
	}
	if first.StartTime != "20260125130000" || first.EndTime != "20260125133000" {
		t.Errorf("unexpected window %s-%s", first.StartTime, first.EndTime)
	}
	if first.Duration != 30 {
		t.Errorf("Duration = %d, want 30", first.Duration)
	}
	if first.Source != program.SourceRadiko {
		t.Errorf("Source = %q", first.Source)
	}

	second := programs[1]
	if second.Performer != "" || second.Description != "" || second.ImageURL != "" {
		t.Errorf("missing children should stay empty, got %+v", second)
	}
}

func TestProgramsByDateMalformedXML(t *testing.T) {
	srv := scheduleServer(t, `{"not": "xml"}`)

	_, err := newTestClient(srv).ProgramsByDate(context.Background(), "TBS", "20260125", "JP13")
	if !errors.Is(err, services.ErrNormalization) {
		t.Fatalf("expected ErrNormalization, got %v", err)
	}
}

func TestProgramAt(t *testing.T) {
	srv := scheduleServer(t, scheduleFixture)
	c := newTestClient(srv)

	p, err := c.ProgramAt(context.Background(), "TBS", "20260125131500", "JP13")
	if err != nil {
		t.Fatalf("ProgramAt: %v", err)
	}
	if p.Title != "昼の音楽便" {
		t.Fatalf("Title = %q", p.Title)
	}

	// end boundary belongs to the next program
	p, err = c.ProgramAt(context.Background(), "TBS", "20260125133000", "JP13")
	if err != nil {
		t.Fatalf("ProgramAt boundary: %v", err)
	}
	if p.Title != "ニュース" {
		t.Fatalf("boundary Title = %q", p.Title)
	}

	_, err = c.ProgramAt(context.Background(), "TBS", "20260125200000", "JP13")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNowProgramUsesClock(t *testing.T) {
	srv := scheduleServer(t, scheduleFixture)
	hc := newTestClient(srv)
	fixed := time.Date(2026, 1, 25, 13, 45, 0, 0, time.Local)
	c := New(hc.http, WithBaseURL(srv.URL), WithClock(func() time.Time { return fixed }))

	p, err := c.NowProgram(context.Background(), "TBS", "JP13")
	if err != nil {
		t.Fatalf("NowProgram: %v", err)
	}
	if p.Title != "ニュース" {
		t.Fatalf("Title = %q", p.Title)
	}
}

func TestStationList(t *testing.T) {
	srv := scheduleServer(t, stationListFixture)
	c := newTestClient(srv)

	stations, err := c.StationList(context.Background(), "JP13")
	if err != nil {
		t.Fatalf("StationList: %v", err)
	}
	if len(stations) != 2 || stations[0].ID != "TBS" || stations[1].Name != "文化放送" {
		t.Fatalf("unexpected stations %+v", stations)
	}

	ok, err := c.IsStationAvailable(context.Background(), "QRR", "JP13")
	if err != nil || !ok {
		t.Fatalf("IsStationAvailable(QRR) = %v, %v", ok, err)
	}
	ok, err = c.IsStationAvailable(context.Background(), "HBC", "JP13")
	if err != nil || ok {
		t.Fatalf("IsStationAvailable(HBC) = %v, %v", ok, err)
	}
}
