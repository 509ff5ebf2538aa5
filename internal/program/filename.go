package program

import (
	"fmt"

	"aircheck/internal/textutil"
)

// Extension is the container extension for every capture output.
const Extension = ".mp4"

// Filename builds the output file name for a capture:
// <prefix>_<YYYY-MM-DD-HH_MM><ext>, e.g. "TBS_2026-01-25-09_30.mp4".
// The prefix is sanitized for filesystem use; a start value that is not a
// canonical timestamp is used verbatim.
func Filename(prefix, start string) string {
	cleaned := textutil.SanitizeFileName(prefix)
	if cleaned == "" {
		cleaned = "aircheck"
	}
	if len(start) < 12 {
		return cleaned + "_" + start + Extension
	}
	stamp := fmt.Sprintf(
		"%s-%s-%s-%s_%s",
		start[0:4], start[4:6], start[6:8], start[8:10], start[10:12],
	)
	return cleaned + "_" + stamp + Extension
}

// OutputFilename derives the capture file name from the program itself.
func (p Program) OutputFilename() string {
	prefix := p.Station
	if prefix == "" {
		prefix = p.Title
	}
	return Filename(prefix, p.StartTime)
}
