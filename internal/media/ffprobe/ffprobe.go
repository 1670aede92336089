package ffprobe

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Report is the first video stream's dimension line as printed by ffprobe,
// for example "1920x1080".
type Report struct {
	Raw    string
	Width  int
	Height int
}

// HasHeight reports whether a numeric height was parsed.
func (r Report) HasHeight() bool {
	return r.Height > 0
}

// DimensionArgs returns the ffprobe arguments that print the first video
// stream's size as WIDTHxHEIGHT.
func DimensionArgs(path string) []string {
	return []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height",
		"-of", "csv=s=x:p=0",
		path,
	}
}

// Dimensions runs ffprobe against path and returns the parsed report.
func Dimensions(ctx context.Context, binary, path string) (Report, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Report{}, errors.New("ffprobe dimensions: empty path")
	}

	cmd := exec.CommandContext(ctx, binary, DimensionArgs(path)...)
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Report{}, fmt.Errorf("ffprobe dimensions: %w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return Report{}, fmt.Errorf("ffprobe dimensions: %w", err)
	}
	return ParseReport(string(output)), nil
}

// ParseReport reads WIDTHxHEIGHT from ffprobe output. Raw keeps the trimmed
// text even when the numbers cannot be parsed.
func ParseReport(output string) Report {
	raw := strings.TrimSpace(output)
	report := Report{Raw: raw}
	first, _, _ := strings.Cut(raw, "\n")
	widthText, heightText, ok := strings.Cut(strings.TrimSpace(first), "x")
	if !ok {
		return report
	}
	if width, err := strconv.Atoi(strings.TrimSpace(widthText)); err == nil && width > 0 {
		report.Width = width
	}
	if height, err := strconv.Atoi(strings.TrimSpace(heightText)); err == nil && height > 0 {
		report.Height = height
	}
	return report
}
