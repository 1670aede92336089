package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains the directory layout of a batch run.
type Paths struct {
	InputDir        string   `toml:"input_dir"`
	OutputDir       string   `toml:"output_dir"`
	BackupDir       string   `toml:"backup_dir"`
	InstructionFile string   `toml:"instruction_file"`
	LogDir          string   `toml:"log_dir"`
	ExistingRoots   []string `toml:"existing_roots"`
}

// Tools names the external executables the batch drives.
type Tools struct {
	FFmpeg     string `toml:"ffmpeg"`
	FFprobe    string `toml:"ffprobe"`
	Downloader string `toml:"downloader"`
}

// Transcode contains option-selection and verification settings.
type Transcode struct {
	// MinOutputBytes is the size below which a produced file is treated as broken.
	MinOutputBytes  int64    `toml:"min_output_bytes"`
	AudioExtension  string   `toml:"audio_extension"`
	VideoExtension  string   `toml:"video_extension"`
	IndexExtensions []string `toml:"index_extensions"`
	// ResizeRule selects the 720-line classification: "marker" or "height".
	ResizeRule     string   `toml:"resize_rule"`
	RemotePatterns []string `toml:"remote_patterns"`
}

// Hooks contains optional commands run around the batch.
type Hooks struct {
	PostRun string `toml:"post_run"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipper.
//
// Configuration sections:
//   - Paths: input, output, backup, and log roots plus the instruction file
//   - Tools: ffmpeg, ffprobe, and remote downloader executables
//   - Transcode: extension routing, size threshold, resize rule
//   - Hooks: post-run command
//   - Logging: log format and level
type Config struct {
	Paths     Paths     `toml:"paths"`
	Tools     Tools     `toml:"tools"`
	Transcode Transcode `toml:"transcode"`
	Hooks     Hooks     `toml:"hooks"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into. A failure here
// is fatal to the batch: nothing can be produced or backed up.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.BackupDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the ffmpeg executable used for transcoding.
func (c *Config) FFmpegBinary() string {
	if bin := strings.TrimSpace(c.Tools.FFmpeg); bin != "" {
		return bin
	}
	return defaultFFmpeg
}

// FFprobeBinary returns the ffprobe executable used for resolution probing.
func (c *Config) FFprobeBinary() string {
	if resolved := ResolveFFprobeBin(c.Tools.FFprobe, c.Tools.FFmpeg); resolved != "" {
		return resolved
	}
	return defaultFFprobe
}

// DownloaderBinary returns the remote fetch executable.
func (c *Config) DownloaderBinary() string {
	if bin := strings.TrimSpace(c.Tools.Downloader); bin != "" {
		return bin
	}
	return defaultDownloader
}

// IndexRoots returns the directories scanned for already-produced outputs,
// output_dir first, without duplicates.
func (c *Config) IndexRoots() []string {
	roots := make([]string, 0, 1+len(c.Paths.ExistingRoots))
	seen := make(map[string]struct{}, cap(roots))
	for _, root := range append([]string{c.Paths.OutputDir}, c.Paths.ExistingRoots...) {
		if root == "" {
			continue
		}
		if _, ok := seen[root]; ok {
			continue
		}
		seen[root] = struct{}{}
		roots = append(roots, root)
	}
	return roots
}

// ResolveFFprobeBin returns an effective ffprobe binary path based on configured values.
//
// Resolution order:
// 1) Explicit ffprobeBin
// 2) Derive from ffmpegBin (.../ffmpeg -> .../ffprobe) if the derived binary exists
// 3) Empty string (caller may fall back to PATH resolution)
func ResolveFFprobeBin(ffprobeBin, ffmpegBin string) string {
	return resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin, os.Stat)
}

func resolveFFprobeBinWithStat(ffprobeBin, ffmpegBin string, stat func(string) (os.FileInfo, error)) string {
	ffprobeBin = strings.TrimSpace(ffprobeBin)
	if ffprobeBin != "" {
		return ffprobeBin
	}

	ffmpegBin = strings.TrimSpace(ffmpegBin)
	if ffmpegBin == "" || !strings.ContainsRune(ffmpegBin, filepath.Separator) {
		return ""
	}
	name := strings.TrimSuffix(filepath.Base(ffmpegBin), ".exe")
	if name != "ffmpeg" {
		return ""
	}

	candidate := filepath.Join(filepath.Dir(ffmpegBin), strings.Replace(filepath.Base(ffmpegBin), "ffmpeg", "ffprobe", 1))
	if fi, err := stat(candidate); err == nil && fi != nil && !fi.IsDir() {
		return candidate
	}
	return ""
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
