package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces      = regexp.MustCompile(`\s+`)
	reWholeFloat  = regexp.MustCompile(`^(\d+)\.0+$`)
	reFieldJunk   = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "|", " ", ";", " ")
	accentReplace = strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
		"ñ", "n", "Ñ", "N",
	)
)

// CleanCell trims a cell and collapses the textual empty markers the
// spreadsheets carry ("nan", "none", "NaN") to the empty string.
func CleanCell(input string) string {
	s := strings.TrimSpace(input)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// NormalizeKey prepares a header for fuzzy comparison: lowercase,
// separators flattened to single spaces, accents stripped.
func NormalizeKey(input string) string {
	s := strings.ToLower(input)
	s = strings.NewReplacer("\n", " ", "_", " ", "-", " ").Replace(s)
	s = StripAccents(s)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// StripAccents replaces Spanish accented vowels and enne with their
// plain ASCII counterparts.
func StripAccents(input string) string {
	return accentReplace.Replace(input)
}

// NormalizeWholeNumber drops a spurious decimal tail from whole numbers
// read back from spreadsheet cells, so "200067.0" equals "200067".
func NormalizeWholeNumber(input string) string {
	s := strings.TrimSpace(input)
	if m := reWholeFloat.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

// CleanFieldValue prepares a value for a pipe-delimited layout: control
// characters and the delimiters themselves become spaces, runs collapse.
func CleanFieldValue(input string) string {
	s := reFieldJunk.Replace(input)
	s = reSpaces.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeQuantity maps spreadsheet quantity cells to the layout form:
// whole floats lose their tail and empty defaults to a single unit.
func NormalizeQuantity(input string) string {
	s := NormalizeWholeNumber(CleanCell(input))
	if s == "" {
		return "1"
	}
	return s
}
