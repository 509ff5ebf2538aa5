package program

import "strings"

// Comment joins the description and info fields with a slash, skipping absent
// parts. Used as the container comment tag.
func (p Program) Comment() string {
	parts := make([]string, 0, 2)
	if d := strings.TrimSpace(p.Description); d != "" {
		parts = append(parts, d)
	}
	if i := strings.TrimSpace(p.Info); i != "" {
		parts = append(parts, i)
	}
	return strings.Join(parts, " / ")
}

// DisplayTitle appends the performer in parentheses when present.
func (p Program) DisplayTitle() string {
	if p.Performer != "" {
		return p.Title + " (" + p.Performer + ")"
	}
	return p.Title
}
