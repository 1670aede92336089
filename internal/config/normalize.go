package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTools()
	c.normalizeTranscode()
	c.normalizeLogging()
	c.Hooks.PostRun = strings.TrimSpace(c.Hooks.PostRun)
	return nil
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.InputDir) == "" {
		if value, ok := os.LookupEnv("CLIPPER_INPUT_DIR"); ok {
			c.Paths.InputDir = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		if value, ok := os.LookupEnv("CLIPPER_OUTPUT_DIR"); ok {
			c.Paths.OutputDir = strings.TrimSpace(value)
		}
	}

	var err error
	if c.Paths.InputDir, err = expandPath(strings.TrimSpace(c.Paths.InputDir)); err != nil {
		return fmt.Errorf("paths.input_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.BackupDir, err = expandPath(strings.TrimSpace(c.Paths.BackupDir)); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	if c.Paths.InstructionFile, err = expandPath(strings.TrimSpace(c.Paths.InstructionFile)); err != nil {
		return fmt.Errorf("paths.instruction_file: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	roots := make([]string, 0, len(c.Paths.ExistingRoots))
	for i, root := range c.Paths.ExistingRoots {
		root = strings.TrimSpace(root)
		if root == "" {
			continue
		}
		expanded, err := expandPath(root)
		if err != nil {
			return fmt.Errorf("paths.existing_roots[%d]: %w", i, err)
		}
		roots = append(roots, expanded)
	}
	c.Paths.ExistingRoots = roots
	return nil
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = strings.TrimSpace(c.Tools.FFmpeg)
	if c.Tools.FFmpeg == "" {
		c.Tools.FFmpeg = defaultFFmpeg
	}
	c.Tools.FFprobe = strings.TrimSpace(c.Tools.FFprobe)
	c.Tools.Downloader = strings.TrimSpace(c.Tools.Downloader)
	if c.Tools.Downloader == "" {
		c.Tools.Downloader = defaultDownloader
	}
}

func (c *Config) normalizeTranscode() {
	if c.Transcode.MinOutputBytes == 0 {
		c.Transcode.MinOutputBytes = defaultMinOutputBytes
	}
	c.Transcode.AudioExtension = normalizeExtension(c.Transcode.AudioExtension)
	if c.Transcode.AudioExtension == "" {
		c.Transcode.AudioExtension = defaultAudioExtension
	}
	c.Transcode.VideoExtension = normalizeExtension(c.Transcode.VideoExtension)
	if c.Transcode.VideoExtension == "" {
		c.Transcode.VideoExtension = defaultVideoExtension
	}

	exts := make([]string, 0, len(c.Transcode.IndexExtensions))
	seen := make(map[string]struct{}, len(c.Transcode.IndexExtensions))
	for _, ext := range c.Transcode.IndexExtensions {
		normalized := normalizeExtension(ext)
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = []string{c.Transcode.VideoExtension}
	}
	c.Transcode.IndexExtensions = exts

	c.Transcode.ResizeRule = strings.ToLower(strings.TrimSpace(c.Transcode.ResizeRule))
	if c.Transcode.ResizeRule == "" {
		c.Transcode.ResizeRule = ResizeRuleMarker
	}

	patterns := make([]string, 0, len(c.Transcode.RemotePatterns))
	for _, pattern := range c.Transcode.RemotePatterns {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	c.Transcode.RemotePatterns = patterns
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeExtension lowercases ext and keeps it dot-prefixed when it is a
// bare word; values that are otherwise malformed are left for Validate.
func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" {
		return ""
	}
	if !strings.HasPrefix(ext, ".") && !strings.ContainsAny(ext, `/\ `) {
		ext = "." + ext
	}
	return ext
}
