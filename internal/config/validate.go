package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateTranscode(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	required := []struct {
		key   string
		value string
	}{
		{"paths.input_dir", c.Paths.InputDir},
		{"paths.output_dir", c.Paths.OutputDir},
		{"paths.backup_dir", c.Paths.BackupDir},
		{"paths.instruction_file", c.Paths.InstructionFile},
	}
	for _, entry := range required {
		if strings.TrimSpace(entry.value) == "" {
			return fmt.Errorf("%s must be set", entry.key)
		}
	}
	return nil
}

func (c *Config) validateTranscode() error {
	if c.Transcode.MinOutputBytes <= 0 {
		return errors.New("transcode.min_output_bytes must be positive")
	}
	if err := ensureExtension("transcode.audio_extension", c.Transcode.AudioExtension); err != nil {
		return err
	}
	if err := ensureExtension("transcode.video_extension", c.Transcode.VideoExtension); err != nil {
		return err
	}
	if c.Transcode.AudioExtension == c.Transcode.VideoExtension {
		return errors.New("transcode.audio_extension and transcode.video_extension must differ")
	}
	for _, ext := range c.Transcode.IndexExtensions {
		if err := ensureExtension("transcode.index_extensions", ext); err != nil {
			return err
		}
	}
	switch c.Transcode.ResizeRule {
	case ResizeRuleMarker, ResizeRuleHeight:
	default:
		return fmt.Errorf("transcode.resize_rule: unsupported value %q (use %q or %q)", c.Transcode.ResizeRule, ResizeRuleMarker, ResizeRuleHeight)
	}
	return nil
}

func ensureExtension(key, ext string) error {
	if len(ext) < 2 || !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext[1:], `./\ `) {
		return fmt.Errorf("%s: %q is not a file extension", key, ext)
	}
	return nil
}
