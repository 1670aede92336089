package resolve

import (
	"context"
	"os"
	"path/filepath"

	"clipper/internal/services"
)

// Local resolves references relative to an input root.
type Local struct {
	Root string
}

func (Local) Name() string { return "local" }

func (l Local) Resolve(_ context.Context, ref string) Outcome {
	path := ref
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.Root, ref)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return Outcome{
			Status: NotFound,
			Err:    services.Wrap(services.ErrNotFound, "resolve", "local", sourceNotFound(ref), err),
		}
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Outcome{Status: Resolved, Path: abs}
}
