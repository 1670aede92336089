// Package backup writes the day's processed commands to a dated text file.
package backup

import (
	"path/filepath"
	"strings"
	"time"

	"clipper/internal/fileutil"
	"clipper/internal/services"
)

// DateLayout names backup files.
const DateLayout = "2006-01-02"

// Path returns <root>/<YYYY-MM-DD>.txt for now's local date.
func Path(root string, now time.Time) string {
	return filepath.Join(root, now.Format(DateLayout)+".txt")
}

// Write replaces the backup file for now's date with lines, one per line.
// Each line is newline-terminated. An empty slice still truncates the file.
func Write(root string, now time.Time, lines []string) (string, error) {
	path := Path(root, now)
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(strings.TrimRight(line, "\r\n"))
		b.WriteByte('\n')
	}
	if err := fileutil.WriteFileAtomic(path, []byte(b.String()), 0o644); err != nil {
		return path, services.Wrap(services.ErrConfiguration, "backup", "write", path, err)
	}
	return path, nil
}
