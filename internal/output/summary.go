package output

import (
	"os"
	"strings"
)

// Summary describes one generated load file for pre-load review.
type Summary struct {
	Path    string
	Records int
	Fields  int
	Size    int64
	Sample  []string
}

const sampleRows = 3

// Summarize reads a generated flat file back and reports its record
// count, field arity, size and the first data rows.
func Summarize(path string) (Summary, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Summary{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, err
	}

	content := strings.TrimPrefix(string(data), "\uFEFF")
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")

	s := Summary{Path: path, Size: info.Size()}
	if len(lines) == 0 {
		return s, nil
	}
	s.Fields = len(strings.Split(lines[0], fieldSeparator))
	s.Records = len(lines) - 1
	for _, line := range lines[1:] {
		if len(s.Sample) == sampleRows {
			break
		}
		s.Sample = append(s.Sample, line)
	}
	return s, nil
}
