package resolve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"clipper/internal/services"
)

// Downloader fetches a remote reference into a local directory and returns the
// written file. Access refusals are reported with services.ErrDenied.
type Downloader interface {
	Download(ctx context.Context, ref, destDir string) (string, error)
}

// Remote downloads references that contain one of Patterns.
type Remote struct {
	Patterns   []string
	DestDir    string
	Downloader Downloader
}

func (Remote) Name() string { return "remote" }

// Matches reports whether ref names a remote source.
func (r Remote) Matches(ref string) bool {
	for _, pattern := range r.Patterns {
		if pattern != "" && strings.Contains(ref, pattern) {
			return true
		}
	}
	return false
}

func (r Remote) Resolve(ctx context.Context, ref string) Outcome {
	if r.Downloader == nil || !r.Matches(ref) {
		return Outcome{Status: Skipped}
	}
	path, err := r.Downloader.Download(ctx, ref, r.DestDir)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr != nil || info.IsDir() {
			return Outcome{
				Status: NotFound,
				Err:    services.Wrap(services.ErrNotFound, "resolve", "remote", sourceNotFound(ref), statErr),
			}
		}
		return Outcome{Status: Resolved, Path: path}
	case errors.Is(err, services.ErrDenied):
		return Outcome{Status: Denied, Err: err}
	default:
		return Outcome{Status: Failed, Err: err}
	}
}

// deniedMarkers are stderr fragments yt-dlp prints when a site blocks the
// request as automated or private.
var deniedMarkers = []string{
	"confirm you're not a bot",
	"confirm you’re not a bot",
	"sign in to confirm",
	"http error 403",
	"private video",
}

// YTDLP downloads with the yt-dlp command line tool.
type YTDLP struct {
	Binary string
}

func (y YTDLP) Download(ctx context.Context, ref, destDir string) (string, error) {
	binary := strings.TrimSpace(y.Binary)
	if binary == "" {
		binary = "yt-dlp"
	}
	args := []string{
		"--no-progress",
		"--no-simulate",
		"--print", "after_move:filepath",
		"-o", filepath.Join(destDir, "%(title)s.%(ext)s"),
		ref,
	}
	cmd := exec.CommandContext(ctx, binary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if isDenied(detail) {
			return "", services.Wrap(services.ErrDenied, "resolve", "download", ref, errors.New(detail))
		}
		return "", services.Wrap(services.ErrExternalTool, "resolve", "download", ref, fmt.Errorf("%w: %s", err, detail))
	}
	path := lastLine(stdout.String())
	if path == "" {
		return "", services.Wrap(services.ErrExternalTool, "resolve", "download", ref, errors.New("downloader did not report a file"))
	}
	return path, nil
}

func isDenied(stderr string) bool {
	lower := strings.ToLower(stderr)
	for _, marker := range deniedMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
