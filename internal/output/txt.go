package output

import (
	"fmt"
	"os"
	"strings"

	"cargue/internal/util"
)

const fieldSeparator = "|"

// WriteTXT writes a pipe-delimited load file: a BOM, one header line, then
// one line per row with every value cleaned of separators and control
// characters. Returns arity warnings found when reading the file back.
func WriteTXT(path string, columns []string, rows [][]string) ([]string, error) {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString(strings.Join(columns, fieldSeparator))
	b.WriteString("\n")

	for _, row := range rows {
		cleaned := make([]string, len(row))
		for i, v := range row {
			cleaned[i] = util.CleanFieldValue(v)
		}
		b.WriteString(strings.Join(cleaned, fieldSeparator))
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return nil, err
	}

	return verifyArity(path, len(columns))
}

// verifyArity re-reads a written file and reports lines whose field
// count disagrees with the header. Warnings never fail the write.
func verifyArity(path string, want int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var warnings []string
	content := strings.TrimPrefix(string(data), "\uFEFF")
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	for i, line := range lines {
		if got := len(strings.Split(line, fieldSeparator)); got != want {
			warnings = append(warnings, fmt.Sprintf("%s: linea %d tiene %d campos, se esperaban %d", path, i+1, got, want))
		}
	}
	return warnings, nil
}
