package util

import (
	"fmt"
	"strings"
	"time"
)

// Input layouts are tried in order; the first parse wins.
var dateLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"01/02/2006",
	"2006/01/02",
}

// NormalizeDate converts a sheet date to DD/MM/YYYY. Unparseable input
// is returned trimmed so the review output keeps the original text.
func NormalizeDate(input string) string {
	s := CleanCell(input)
	if s == "" {
		return ""
	}
	candidates := []string{s}
	if idx := strings.IndexByte(s, ' '); idx > 0 {
		// Datetime cells carry a time-of-day after the date.
		candidates = append(candidates, s[:idx])
	}
	for _, c := range candidates {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c); err == nil {
				return t.Format("02/01/2006")
			}
		}
	}
	return s
}

// Today returns the current date in the layout format.
func Today() string {
	return time.Now().Format("02/01/2006")
}

// Timestamp returns the compact date used in generated file names.
func Timestamp(t time.Time) string {
	return fmt.Sprintf("%04d%02d%02d", t.Year(), int(t.Month()), t.Day())
}
