package output

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"cargue/internal/util"
)

// NextFileName derives the name of the next load file of a kind for
// the given day: <kind>_<YYYYMMDD>_<NNN>.<ext>, where NNN continues
// from the highest index already present in the directory.
func NextFileName(dir, kind, ext string, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	stamp := util.Timestamp(t)
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(kind) + `_` + stamp + `_(\d{3})\.` + regexp.QuoteMeta(ext) + `$`)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	max := 0
	for _, entry := range entries {
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > max {
			max = n
		}
	}

	name := fmt.Sprintf("%s_%s_%03d.%s", kind, stamp, max+1, ext)
	return filepath.Join(dir, name), nil
}
