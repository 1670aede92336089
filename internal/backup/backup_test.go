package backup_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clipper/internal/backup"
	"clipper/internal/services"
)

func TestWriteCreatesDatedFileAndOverwrites(t *testing.T) {
	root := filepath.Join(t.TempDir(), "backups")
	now := time.Date(2026, 3, 7, 22, 15, 0, 0, time.Local)

	path, err := backup.Write(root, now, []string{"first"})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(root, "2026-03-07.txt") {
		t.Fatalf("path = %q", path)
	}

	if _, err := backup.Write(root, now, []string{`ffmpeg -i "a" "b"`, "raw\tline\n"}); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "ffmpeg -i \"a\" \"b\"\nraw\tline\n"
	if string(got) != want {
		t.Fatalf("content = %q, want %q", got, want)
	}
}

func TestWriteUnwritableRootIsConfigurationError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := backup.Write(filepath.Join(blocker, "sub"), time.Now(), nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
