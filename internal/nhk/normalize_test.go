package nhk

import (
	"testing"
	"time"

	"aircheck/internal/program"
)

func TestPrograms(t *testing.T) {
	series := Series{
		Title:          "眠れない貴女へ",
		RadioBroadcast: "FM",
		Schedule:       "日曜 午後11時30分",
		ThumbnailURL:   "https://img.nhk.example/a.jpg",
		Episodes: []Episode{
			{
				ProgramTitle:    "第42回",
				ProgramSubTitle: "冬の手紙",
				OnairDate:       "1月18日(日)午後11:30放送",
				ClosedAt:        "2026-02-01T23:55:00+09:00",
				StreamURL:       "https://vod-stream.nhk.example/a/master.m3u8",
			},
			{
				ProgramTitle: "第41回",
				OnairDate:    "1月11日(日)午前9:45放送",
			},
		},
	}
	ref := time.Date(2026, 1, 20, 0, 0, 0, 0, time.Local)

	programs := Programs(series, ref)
	if len(programs) != 2 {
		t.Fatalf("got %d programs, want 2", len(programs))
	}

	first := programs[0]
	if first.Title != "眠れない貴女へ 第42回 冬の手紙" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Station != "FM" || first.Source != program.SourceNHK {
		t.Errorf("unexpected station/source %+v", first)
	}
	if first.StartTime != "20260118233000" {
		t.Errorf("StartTime = %q", first.StartTime)
	}
	if first.EndTime != first.StartTime {
		t.Errorf("EndTime should mirror StartTime, got %q", first.EndTime)
	}
	if !first.IsRecordable() {
		t.Error("episode with stream_url should be recordable")
	}
	if first.ClosedAt != "2026-02-01T23:55:00+09:00" {
		t.Errorf("ClosedAt = %q", first.ClosedAt)
	}

	second := programs[1]
	if second.Title != "眠れない貴女へ 第41回" {
		t.Errorf("Title = %q", second.Title)
	}
	if second.StartTime != "20260111094500" {
		t.Errorf("StartTime = %q", second.StartTime)
	}
	if second.IsRecordable() {
		t.Error("episode without stream_url must not be recordable")
	}
}

func TestProgramsDefaultStation(t *testing.T) {
	series := Series{
		Title:    "タイトルのみ",
		Episodes: []Episode{{ProgramTitle: "回", OnairDate: "20260118"}},
	}
	programs := Programs(series, time.Date(2026, 1, 20, 0, 0, 0, 0, time.Local))
	if programs[0].Station != "NHK" {
		t.Fatalf("Station = %q, want NHK", programs[0].Station)
	}
}

func TestFromCorner(t *testing.T) {
	corner := Corner{
		Title:          "朗読の時間",
		RadioBroadcast: "R2",
		OnairDate:      "1月19日(月)午前9:45放送",
		SeriesSiteID:   "XK2M8Z9Q4W",
		CornerSiteID:   "02",
	}
	p := FromCorner(corner, time.Date(2026, 1, 20, 0, 0, 0, 0, time.Local))
	if p.Title != "朗読の時間" || p.Station != "R2" {
		t.Errorf("unexpected program %+v", p)
	}
	if p.StartTime != "20260119094500" {
		t.Errorf("StartTime = %q", p.StartTime)
	}
	if p.SeriesSiteID != "XK2M8Z9Q4W" || p.CornerSiteID != "02" {
		t.Errorf("series ids not carried: %+v", p)
	}
	if p.IsRecordable() {
		t.Error("listing entries must not be recordable")
	}
}
