package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"clipper/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(tempHome, "clips", "input"); cfg.Paths.InputDir != want {
		t.Fatalf("unexpected input dir: got %q want %q", cfg.Paths.InputDir, want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "clipper", "backup"); cfg.Paths.BackupDir != want {
		t.Fatalf("unexpected backup dir: got %q want %q", cfg.Paths.BackupDir, want)
	}
	if cfg.Transcode.MinOutputBytes != 1024 {
		t.Fatalf("unexpected min output bytes: %d", cfg.Transcode.MinOutputBytes)
	}
	if cfg.Transcode.ResizeRule != config.ResizeRuleMarker {
		t.Fatalf("expected marker resize rule by default, got %q", cfg.Transcode.ResizeRule)
	}
	if got := cfg.IndexRoots(); len(got) != 1 || got[0] != cfg.Paths.OutputDir {
		t.Fatalf("unexpected index roots: %v", got)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.BackupDir, cfg.Paths.LogDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clipper.toml")
	extra := filepath.Join(tempDir, "archive")

	type payload struct {
		Paths struct {
			InputDir      string   `toml:"input_dir"`
			OutputDir     string   `toml:"output_dir"`
			ExistingRoots []string `toml:"existing_roots"`
		} `toml:"paths"`
		Transcode struct {
			MinOutputBytes  int64    `toml:"min_output_bytes"`
			IndexExtensions []string `toml:"index_extensions"`
			ResizeRule      string   `toml:"resize_rule"`
		} `toml:"transcode"`
	}
	custom := payload{}
	custom.Paths.InputDir = filepath.Join(tempDir, "in")
	custom.Paths.OutputDir = filepath.Join(tempDir, "out")
	custom.Paths.ExistingRoots = []string{extra, " ", extra}
	custom.Transcode.MinOutputBytes = 4096
	custom.Transcode.IndexExtensions = []string{"MKV", ".mp3", ".mkv"}
	custom.Transcode.ResizeRule = " Height "
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Transcode.MinOutputBytes != 4096 {
		t.Fatalf("expected min size override, got %d", cfg.Transcode.MinOutputBytes)
	}
	if cfg.Transcode.ResizeRule != config.ResizeRuleHeight {
		t.Fatalf("expected normalized resize rule, got %q", cfg.Transcode.ResizeRule)
	}
	exts := cfg.Transcode.IndexExtensions
	if len(exts) != 2 || exts[0] != ".mkv" || exts[1] != ".mp3" {
		t.Fatalf("unexpected index extensions: %v", exts)
	}
	roots := cfg.IndexRoots()
	if len(roots) != 2 || roots[0] != custom.Paths.OutputDir || roots[1] != extra {
		t.Fatalf("unexpected index roots: %v", roots)
	}
}

func TestEnvFallbackForEmptyRoots(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "clipper.toml")
	body := "[paths]\ninput_dir = \"\"\noutput_dir = \"\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CLIPPER_INPUT_DIR", filepath.Join(tempDir, "env-in"))
	t.Setenv("CLIPPER_OUTPUT_DIR", filepath.Join(tempDir, "env-out"))

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.InputDir != filepath.Join(tempDir, "env-in") {
		t.Errorf("expected input dir from env, got %q", cfg.Paths.InputDir)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempDir, "env-out") {
		t.Errorf("expected output dir from env, got %q", cfg.Paths.OutputDir)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "min_output_bytes") {
		t.Fatalf("sample config missing size threshold: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if !strings.Contains(cfg.Paths.BackupDir, "clipper") {
		t.Fatalf("expected backup dir to contain clipper, got %q", cfg.Paths.BackupDir)
	}
	if cfg.Transcode.VideoExtension != ".mkv" {
		t.Fatalf("unexpected sample video extension %q", cfg.Transcode.VideoExtension)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := map[string]func(*config.Config){
		"negative size":     func(c *config.Config) { c.Transcode.MinOutputBytes = -1 },
		"empty output dir":  func(c *config.Config) { c.Paths.OutputDir = "" },
		"bad audio ext":     func(c *config.Config) { c.Transcode.AudioExtension = "mp3" },
		"same extensions":   func(c *config.Config) { c.Transcode.AudioExtension = ".mkv" },
		"unknown rule":      func(c *config.Config) { c.Transcode.ResizeRule = "guess" },
		"bad index ext":     func(c *config.Config) { c.Transcode.IndexExtensions = []string{".tar.gz"} },
		"empty instruction": func(c *config.Config) { c.Paths.InstructionFile = " " },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}

	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFFprobeBinaryDerivesFromFFmpegPath(t *testing.T) {
	binDir := t.TempDir()
	ffmpeg := filepath.Join(binDir, "ffmpeg")
	ffprobe := filepath.Join(binDir, "ffprobe")
	for _, path := range []string{ffmpeg, ffprobe} {
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755); err != nil {
			t.Fatalf("write stub: %v", err)
		}
	}

	cfg := config.Default()
	cfg.Tools.FFmpeg = ffmpeg
	if got := cfg.FFprobeBinary(); got != ffprobe {
		t.Fatalf("expected derived ffprobe %q, got %q", ffprobe, got)
	}

	cfg.Tools.FFprobe = "/opt/probe"
	if got := cfg.FFprobeBinary(); got != "/opt/probe" {
		t.Fatalf("expected explicit ffprobe, got %q", got)
	}

	cfg = config.Default()
	if got := cfg.FFprobeBinary(); got != "ffprobe" {
		t.Fatalf("expected PATH fallback, got %q", got)
	}
}
