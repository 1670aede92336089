package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"clipper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose roots live in a per-test temp directory.
// Input, output and backup directories are created; the instruction file is
// not.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.InputDir = filepath.Join(base, "input")
	cfgVal.Paths.OutputDir = filepath.Join(base, "output")
	cfgVal.Paths.BackupDir = filepath.Join(base, "backup")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.InstructionFile = filepath.Join(base, "instructions.txt")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}

	for _, dir := range []string{cfgVal.Paths.InputDir, cfgVal.Paths.OutputDir, cfgVal.Paths.BackupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return builder.cfg
}

// WithExistingRoot adds an extra directory scanned by the output index.
func WithExistingRoot(name string) ConfigOption {
	return func(b *configBuilder) {
		root := filepath.Join(b.baseDir, name)
		if err := os.MkdirAll(root, 0o755); err != nil {
			b.t.Fatalf("mkdir %s: %v", root, err)
		}
		b.cfg.Paths.ExistingRoots = append(b.cfg.Paths.ExistingRoots, root)
	}
}

// WithMinOutputBytes overrides the verification threshold.
func WithMinOutputBytes(size int64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.MinOutputBytes = size
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg, ffprobe and yt-dlp are
// stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe", "yt-dlp"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.InputDir)
}
