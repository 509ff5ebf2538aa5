package program

import (
	"fmt"
	"time"
)

// Source identifies which upstream a Program came from. It is fixed at
// construction and decides both the capture path and whether authentication
// is required.
type Source string

const (
	SourceRadiko Source = "radiko"
	SourceNHK    Source = "nhk"
)

// stampLayout is the canonical 14-digit timestamp form.
const stampLayout = "20060102150405"

// Program is the unified description of one broadcast program, sourced from
// either upstream. It lives for a single run: the normalizer constructs it,
// the resolver may back-fill StreamURL once, and capture/tagging consume it.
type Program struct {
	Title     string
	Station   string
	Area      string
	StartTime string // YYYYMMDDHHMMSS once canonical
	EndTime   string // YYYYMMDDHHMMSS once canonical
	Source    Source

	// Duration overrides the derived start/end difference when positive.
	// Expressed in minutes.
	Duration int

	Performer   string
	Description string
	Info        string
	Subtitle    string
	ImageURL    string
	PageURL     string
	StreamURL   string

	// NHK ondemand identifiers kept only for requerying that service.
	SeriesSiteID string
	CornerSiteID string
	OnairDate    string
	ClosedAt     string
}

// IsRecordable reports whether a stream URL has been resolved. This is always
// derived, never stored.
func (p Program) IsRecordable() bool {
	return p.StreamURL != ""
}

func (p Program) IsRadiko() bool { return p.Source == SourceRadiko }

func (p Program) IsNHK() bool { return p.Source == SourceNHK }

// DurationMinutes returns the explicit duration when set, otherwise the
// difference between the canonical end and start times. Windows that cross
// midnight still yield a non-negative value modulo one day.
func (p Program) DurationMinutes() int {
	if p.Duration > 0 {
		return p.Duration
	}
	start, err := p.StartDateTime()
	if err != nil {
		return 0
	}
	end, err := p.EndDateTime()
	if err != nil {
		return 0
	}
	d := end.Sub(start)
	if d < 0 {
		d += 24 * time.Hour
	}
	return int(d.Minutes())
}

// DurationSeconds is the capture-facing form of DurationMinutes.
func (p Program) DurationSeconds() int {
	return p.DurationMinutes() * 60
}

// StartDateTime parses the canonical start timestamp.
func (p Program) StartDateTime() (time.Time, error) {
	return time.ParseInLocation(stampLayout, p.StartTime, time.Local)
}

// EndDateTime parses the canonical end timestamp.
func (p Program) EndDateTime() (time.Time, error) {
	return time.ParseInLocation(stampLayout, p.EndTime, time.Local)
}

// String renders the one-line log form: "[TBS] title (13:30-13:55)".
func (p Program) String() string {
	return fmt.Sprintf("[%s] %s (%s-%s)", p.Station, p.Title, clock(p.StartTime), clock(p.EndTime))
}

func clock(stamp string) string {
	if len(stamp) < 12 {
		return stamp
	}
	return stamp[8:10] + ":" + stamp[10:12]
}
