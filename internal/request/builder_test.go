package request_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"clipper/internal/config"
	"clipper/internal/instructions"
	"clipper/internal/media/ffprobe"
	"clipper/internal/outputindex"
	"clipper/internal/request"
	"clipper/internal/services"
)

type stubResolver struct {
	paths map[string]string
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, ref string) (string, error) {
	s.calls++
	if path, ok := s.paths[ref]; ok {
		return path, nil
	}
	return "", services.Wrap(services.ErrNotFound, "resolve", "local", ref+": Source not found.", nil)
}

type stubProber struct {
	report ffprobe.Report
	err    error
	calls  int
}

func (s *stubProber) Dimensions(context.Context, string) (ffprobe.Report, error) {
	s.calls++
	return s.report, s.err
}

func newBuilder(t *testing.T, prober *stubProber, index request.Index) (*request.Builder, *stubResolver, string) {
	t.Helper()
	out := t.TempDir()
	resolver := &stubResolver{paths: map[string]string{"source.mkv": "/in/source.mkv"}}
	settings := request.Settings{
		OutputDir:      out,
		AudioExtension: ".mp3",
		VideoExtension: ".mkv",
		ResizeRule:     config.ResizeRuleMarker,
	}
	if prober == nil {
		prober = &stubProber{report: ffprobe.ParseReport("1920x1080")}
	}
	return request.NewBuilder(settings, resolver, prober, index, nil), resolver, out
}

func optionStrings(options []request.Option) []string {
	rendered := make([]string, 0, len(options))
	for _, opt := range options {
		rendered = append(rendered, opt.String())
	}
	return rendered
}

func job(output, start, end, input string) instructions.Job {
	return instructions.Job{OutputName: output, StartTime: start, EndTime: end, InputRef: input}
}

func TestBuildVideoRequest(t *testing.T) {
	builder, _, out := newBuilder(t, nil, nil)

	req, err := builder.Build(context.Background(), job("A/Clip.mkv", "00:16:41", "00:22:35", "source.mkv"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !req.Ready {
		t.Fatal("expected ready request")
	}
	if req.InputPath != "/in/source.mkv" || req.OutputPath != filepath.Join(out, "A", "Clip.mkv") {
		t.Fatalf("unexpected paths: %q -> %q", req.InputPath, req.OutputPath)
	}
	if req.Seek.String() != "-ss 00:16:41" {
		t.Fatalf("seek = %q", req.Seek.String())
	}
	if req.Duration.String() != "-t 00:05:54" {
		t.Fatalf("duration = %q", req.Duration.String())
	}

	rendered := optionStrings(req.Options)
	want := []string{
		"-v quiet",
		"-c:v libsvtav1",
		"-c:s copy",
		"-c:a copy",
		"-map 0:a",
		"-map 0:v:0",
		"-map 0:s?",
		"-force_key_frames 0",
		"-crf 32",
		"-threads 3",
		"-pix_fmt yuv420p10le",
		`-vf "scale=trunc(iw/2)*2:720"`,
	}
	if diff := cmp.Diff(want, rendered); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildAudioRequestAddsTitle(t *testing.T) {
	prober := &stubProber{}
	builder, _, _ := newBuilder(t, prober, nil)

	req, err := builder.Build(context.Background(), job("Songs/My Song.mp3", "00:00:00", "00:00:00", "source.mkv"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	rendered := optionStrings(req.Options)
	want := []string{"-v quiet", "-codec:a libmp3lame", "-qscale:a 3", `-metadata title="My Song"`}
	if diff := cmp.Diff(want, rendered); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if !req.Seek.IsZero() || !req.Duration.IsZero() {
		t.Fatalf("sentinel times must not produce options: %+v", req)
	}
	if prober.calls != 0 {
		t.Fatal("audio outputs must not be probed")
	}
}

func TestBuildOtherExtensionHasOnlyBaseOptions(t *testing.T) {
	builder, _, _ := newBuilder(t, nil, nil)
	req, err := builder.Build(context.Background(), job("clip.mp4", "00:00:05", "00:00:00", "source.mkv"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]string{"-v quiet"}, optionStrings(req.Options)); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if req.Seek.String() != "-ss 00:00:05" || !req.Duration.IsZero() {
		t.Fatalf("unexpected request: %+v", req)
	}
}

func TestBuildRejectsNonPositiveDuration(t *testing.T) {
	builder, _, _ := newBuilder(t, nil, nil)
	for _, end := range []string{"00:10:00", "00:09:59"} {
		req, err := builder.Build(context.Background(), job("Clip.mkv", "00:10:00", end, "source.mkv"))
		if !errors.Is(err, services.ErrValidation) {
			t.Fatalf("end %s: expected validation error, got %v", end, err)
		}
		if req.Ready {
			t.Fatalf("end %s: request must not be ready", end)
		}
		if got := err.Error(); !strings.Contains(got, "Clip.mkv") {
			t.Fatalf("error should name output: %s", got)
		}
	}
}

func TestBuildRejectsMalformedTime(t *testing.T) {
	builder, _, _ := newBuilder(t, nil, nil)
	_, err := builder.Build(context.Background(), job("Clip.mkv", "0:10", "00:11:00", "source.mkv"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBuildMissingInput(t *testing.T) {
	prober := &stubProber{}
	builder, _, _ := newBuilder(t, prober, nil)
	req, err := builder.Build(context.Background(), job("Clip.mkv", "00:00:00", "00:00:10", "missing.mkv"))
	if !errors.Is(err, services.ErrNotFound) || req.Ready {
		t.Fatalf("expected not found, got ready=%v err=%v", req.Ready, err)
	}
	if prober.calls != 0 {
		t.Fatal("unresolved inputs must not be probed")
	}
}

func TestBuildRejectsFlagLikeOutput(t *testing.T) {
	builder, _, _ := newBuilder(t, nil, nil)
	for _, name := range []string{"-y.mkv", "dir/-y.mkv"} {
		req, err := builder.Build(context.Background(), job(name, "00:00:00", "00:00:10", "source.mkv"))
		if err == nil || req.Ready {
			t.Fatalf("%s: expected rejection, got ready=%v err=%v", name, req.Ready, err)
		}
	}
}

func TestBuildIndexedOutputSkipsResolution(t *testing.T) {
	index := outputindex.FromPaths("/archive/Clip.mkv")
	builder, resolver, _ := newBuilder(t, nil, index)

	req, err := builder.Build(context.Background(), job("A/Clip.mkv", "00:00:00", "00:00:10", "source.mkv"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !req.Existing() || req.ExistingPath != "/archive/Clip.mkv" || req.Ready {
		t.Fatalf("unexpected request: %+v", req)
	}
	if resolver.calls != 0 {
		t.Fatal("indexed outputs must not resolve inputs")
	}
}

func TestBuildProbeFailureFallsBackToEvenScale(t *testing.T) {
	builder, _, _ := newBuilder(t, &stubProber{err: errors.New("no ffprobe")}, nil)
	req, err := builder.Build(context.Background(), job("Clip.mkv", "00:00:00", "00:00:10", "source.mkv"))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	last := req.Options[len(req.Options)-1]
	if last.Value != request.ScaleEven {
		t.Fatalf("resize = %q, want %q", last.Value, request.ScaleEven)
	}
}
