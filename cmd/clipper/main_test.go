package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clipper/internal/config"
	"clipper/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "source.mkv"), 4096)
	testsupport.WriteFile(t, filepath.Join(cfg.Paths.InputDir, "leftover.mkv"), 16)
	testsupport.WriteInstructions(t, cfg.Paths.InstructionFile,
		"Intro.mp3\t00:00:05\t00:00:10\tsource.mkv",
		"Scene.mkv\t00:01:00\t00:00:00\tsource.mkv",
		"Lost.mp3\t00:00:00\t00:00:00\tnowhere.mkv",
	)
	writeTranscoderStub(t, filepath.Join(base, "bin", "ffmpeg"))

	configPath := filepath.Join(base, "clipper.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeTranscoderStub installs an ffmpeg stand-in that writes 2 KiB to its
// last argument.
func writeTranscoderStub(t *testing.T, path string) {
	t.Helper()
	script := "#!/bin/sh\nfor last; do :; done\nhead -c 2048 /dev/zero > \"$last\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write ffmpeg stub: %v", err)
	}
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func TestArgsListsParsedJobs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"args"}, env.configPath)
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	requireContains(t, out, "Intro.mp3")
	requireContains(t, out, "Scene.mkv")
	requireContains(t, out, "nowhere.mkv")
	requireContains(t, out, "00:01:00")
}

func TestPlanShowsCommandsWithoutRunning(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"plan"}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "libmp3lame")
	requireContains(t, out, "rejected")
	requireContains(t, out, "nowhere.mkv")
	if _, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, "Intro.mp3")); !os.IsNotExist(err) {
		t.Fatalf("plan must not produce outputs, stat err = %v", err)
	}
}

func TestRunProcessesBatchAndRecordsHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Succeeded")
	requireContains(t, out, "Backup: ")
	requireContains(t, out, "Source not found")

	for _, name := range []string{"Intro.mp3", "Scene.mkv"} {
		info, err := os.Stat(filepath.Join(env.cfg.Paths.OutputDir, name))
		if err != nil {
			t.Fatalf("expected output %s: %v", name, err)
		}
		if info.Size() != 2048 {
			t.Fatalf("unexpected size for %s: %d", name, info.Size())
		}
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "Rejected")

	// A second run finds both outputs and executes nothing.
	out, _, err = runCLI(t, []string{"run"}, env.configPath)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	requireContains(t, out, "Skipped")
}

func TestRunDryRunLeavesOutputDirEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
	requireContains(t, out, "Dry run")
	entries, err := os.ReadDir(env.cfg.Paths.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty output dir, found %d entries", len(entries))
	}
}

func TestUnusedListsUnreferencedInputs(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"unused"}, env.configPath)
	if err != nil {
		t.Fatalf("unused: %v", err)
	}
	requireContains(t, out, "leftover.mkv")
	if strings.Contains(out, "source.mkv") {
		t.Fatalf("referenced input listed as unused: %q", out)
	}
}

func TestStatusReportsToolsAndPaths(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "FFmpeg:")
	requireContains(t, out, "Instruction file:")
	requireContains(t, out, "[OK]")
}
