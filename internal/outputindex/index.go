// Package outputindex records which output files already exist so a rerun of
// the same instruction file skips work that is done.
//
// Lookups compare base names only. Base names are expected to be unique across
// all scanned roots; when they are not, the first root listed wins and the
// collision is reported through Duplicates.
package outputindex

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"clipper/internal/logging"
)

// Index maps output base names to the file that carries them.
type Index struct {
	entries    map[string]string
	duplicates map[string][]string
}

// Build walks roots recursively and records every file whose extension is in
// extensions. Missing roots are skipped.
func Build(ctx context.Context, roots, extensions []string, logger *slog.Logger) (*Index, error) {
	logger = logging.NewComponentLogger(logger, "outputindex")
	wanted := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		wanted[strings.ToLower(ext)] = struct{}{}
	}

	idx := &Index{entries: map[string]string{}, duplicates: map[string][]string{}}
	for _, root := range roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == root && errors.Is(err, fs.ErrNotExist) {
					logger.Debug("index root missing", logging.String("root", root))
					return filepath.SkipDir
				}
				logging.WarnWithContext(logger, "index walk error", "index_walk",
					logging.String("path", path),
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "check directory permissions"),
					logging.String(logging.FieldImpact, "outputs below this path may be produced again"),
				)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if d.IsDir() {
				return nil
			}
			if _, ok := wanted[strings.ToLower(filepath.Ext(path))]; !ok {
				return nil
			}
			idx.add(path)
			return nil
		})
		if err != nil && !errors.Is(err, filepath.SkipDir) {
			return nil, err
		}
	}

	logger.Debug("output index built",
		logging.Int("files", idx.Len()),
		logging.Int("roots", len(roots)),
		logging.Int("duplicates", len(idx.duplicates)),
	)
	return idx, nil
}

// FromPaths builds an index from an explicit file list.
func FromPaths(paths ...string) *Index {
	idx := &Index{entries: map[string]string{}, duplicates: map[string][]string{}}
	for _, path := range paths {
		idx.add(path)
	}
	return idx
}

func (i *Index) add(path string) {
	key := normalizeKey(filepath.Base(path))
	if existing, ok := i.entries[key]; ok {
		if len(i.duplicates[key]) == 0 {
			i.duplicates[key] = []string{existing}
		}
		i.duplicates[key] = append(i.duplicates[key], path)
		return
	}
	i.entries[key] = path
}

// Exists reports whether an output with the same base name was indexed.
func (i *Index) Exists(outputName string) bool {
	_, ok := i.Lookup(outputName)
	return ok
}

// Lookup returns the indexed file sharing outputName's base name.
func (i *Index) Lookup(outputName string) (string, bool) {
	if i == nil {
		return "", false
	}
	path, ok := i.entries[normalizeKey(filepath.Base(outputName))]
	return path, ok
}

func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.entries)
}

// Duplicates lists base names found under more than one path, sorted.
func (i *Index) Duplicates() []string {
	if i == nil {
		return nil
	}
	names := make([]string, 0, len(i.duplicates))
	for _, paths := range i.duplicates {
		names = append(names, filepath.Base(paths[0]))
	}
	sort.Strings(names)
	return names
}

// normalizeKey folds composed and decomposed Unicode forms together so names
// typed on one platform match files written on another.
func normalizeKey(name string) string {
	return norm.NFC.String(name)
}
