package timetext

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// Service identifies which upstream's date formats apply.
type Service string

const (
	ServiceRadiko Service = "radiko"
	ServiceNHK    Service = "nhk"
)

// pattern is one entry in the ordered format table. Adding a new upstream
// format means appending one entry, not growing a conditional chain.
type pattern struct {
	re       *regexp.Regexp
	services []Service
	build    func(m []string, ref time.Time) string
}

var patterns = []pattern{
	{
		re:       regexp.MustCompile(`^\d{14}$`),
		services: []Service{ServiceRadiko, ServiceNHK},
		build:    func(m []string, _ time.Time) string { return m[0] },
	},
	{
		re:       regexp.MustCompile(`^\d{8}$`),
		services: []Service{ServiceRadiko, ServiceNHK},
		build:    func(m []string, _ time.Time) string { return m[0] + "000000" },
	},
	{
		re:       regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2}):(\d{2})$`),
		services: []Service{ServiceRadiko, ServiceNHK},
		build: func(m []string, _ time.Time) string {
			return m[1] + m[2] + m[3] + m[4] + m[5] + m[6]
		},
	},
	{
		re:       regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})[ T](\d{2}):(\d{2})$`),
		services: []Service{ServiceRadiko, ServiceNHK},
		build: func(m []string, _ time.Time) string {
			return m[1] + m[2] + m[3] + m[4] + m[5] + "00"
		},
	},
	{
		re:       regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`),
		services: []Service{ServiceRadiko, ServiceNHK},
		build: func(m []string, _ time.Time) string {
			return m[1] + m[2] + m[3] + "000000"
		},
	},
	// NHK broadcast fragments: "1月18日(日)午後11:30放送" and the dashed
	// variant "2026-01-18(日)午前9:00放送". The weekday is ignored.
	{
		re:       regexp.MustCompile(`^(?:(\d{4})年)?(\d{1,2})月(\d{1,2})日(?:\([^)]*\))?(午前|午後)(\d{1,2}):(\d{2})放送?$`),
		services: []Service{ServiceNHK},
		build:    buildJapaneseBroadcast,
	},
	{
		re:       regexp.MustCompile(`^(?:(\d{4})-)?(\d{1,2})-(\d{1,2})(?:\([^)]*\))?(午前|午後)(\d{1,2}):(\d{2})放送?$`),
		services: []Service{ServiceNHK},
		build:    buildJapaneseBroadcast,
	},
}

// Canonical converts raw into the 14-digit YYYYMMDDHHMMSS form using the
// current clock for year substitution.
func Canonical(raw string, svc Service) string {
	return CanonicalAt(raw, svc, time.Now())
}

// CanonicalAt is the pure form of Canonical: ref supplies the year substituted
// into formats that carry none. When no pattern in the table matches, the
// original text is returned unchanged and the caller must treat duration and
// ordering derivations as unavailable.
func CanonicalAt(raw string, svc Service, ref time.Time) string {
	text := width.Fold.String(strings.TrimSpace(raw))
	for _, p := range patterns {
		if !p.appliesTo(svc) {
			continue
		}
		if m := p.re.FindStringSubmatch(text); m != nil {
			return p.build(m, ref)
		}
	}
	return raw
}

// Canonicalized reports whether value is a 14-digit timestamp.
func Canonicalized(value string) bool {
	if len(value) != 14 {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p pattern) appliesTo(svc Service) bool {
	for _, s := range p.services {
		if s == svc {
			return true
		}
	}
	return false
}

// buildJapaneseBroadcast maps groups (year?, month, day, 午前|午後, hour,
// minute). 午後 adds 12 hours unless the hour is already 12; 午前 maps hour 12
// to 0.
func buildJapaneseBroadcast(m []string, ref time.Time) string {
	year := m[1]
	if year == "" {
		year = strconv.Itoa(ref.Year())
	}
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[5])
	minute, _ := strconv.Atoi(m[6])

	switch m[4] {
	case "午後":
		if hour != 12 {
			hour += 12
		}
	case "午前":
		if hour == 12 {
			hour = 0
		}
	}
	return fmt.Sprintf("%s%02d%02d%02d%02d00", year, month, day, hour, minute)
}
