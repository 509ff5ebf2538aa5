package radiko

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"aircheck/internal/httpx"
	"aircheck/internal/services"
)

const searchFixture = `{
  "meta": {"result_count": 2},
  "data": [
    {
      "title": "深夜便",
      "station_id": "TBS",
      "performer": "佐藤花子",
      "description": "夜のトーク番組",
      "info": "",
      "img": "https://img.example/late.jpg",
      "start_time": "2026-01-25 09:30:00",
      "end_time": "2026-01-25 10:00:00"
    },
    {
      "title": "朝の番組",
      "station_id": "QRR",
      "start_time": "2026-01-26 07:00:00",
      "end_time": "2026-01-26 08:30:00"
    }
  ]
}`

func searchServer(t *testing.T, body string, capture *string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if capture != nil {
			*capture = r.URL.RawQuery
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSearch(t *testing.T) {
	var query string
	srv := searchServer(t, searchFixture, &query)
	hc := httpx.NewWithHTTPClient(srv.Client(), httpx.NoRetry)
	ref := time.Date(2026, 1, 25, 12, 0, 0, 0, time.Local)
	c := New(hc, WithBaseURL(srv.URL), WithClock(func() time.Time { return ref }))

	programs, err := c.Search(context.Background(), "深夜", FilterPast, "JP13")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(programs) != 2 {
		t.Fatalf("got %d programs, want 2", len(programs))
	}

	first := programs[0]
	if first.Title != "深夜便" || first.Station != "TBS" || first.Area != "JP13" {
		t.Errorf("unexpected first result %+v", first)
	}
	if first.StartTime != "20260125093000" || first.EndTime != "20260125100000" {
		t.Errorf("times not canonical: %s-%s", first.StartTime, first.EndTime)
	}

	second := programs[1]
	if second.Performer != "" || second.Description != "" {
		t.Errorf("missing keys should stay empty, got %+v", second)
	}

	parsed, err := url.ParseQuery(query)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}
	if parsed.Get("keyword") != "深夜" || parsed.Get("time_filter") != "past" || parsed.Get("area_id") != "JP13" {
		t.Errorf("unexpected query %q", query)
	}
}

func TestSearchRejectsTopLevelList(t *testing.T) {
	srv := searchServer(t, `[{"title": "x"}]`, nil)
	hc := httpx.NewWithHTTPClient(srv.Client(), httpx.NoRetry)
	c := New(hc, WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "x", FilterToday, "JP13")
	if !errors.Is(err, services.ErrNormalization) {
		t.Fatalf("expected ErrNormalization, got %v", err)
	}
}

func TestSearchHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	hc := httpx.NewWithHTTPClient(srv.Client(), httpx.NoRetry)
	c := New(hc, WithBaseURL(srv.URL))

	_, err := c.Search(context.Background(), "x", FilterFuture, "JP13")
	if !errors.Is(err, services.ErrStreamHTTP) {
		t.Fatalf("expected ErrStreamHTTP, got %v", err)
	}
}
