package config

const (
	defaultConfigPath      = "~/.config/clipper/config.toml"
	defaultInputDir        = "~/clips/input"
	defaultOutputDir       = "~/clips/output"
	defaultBackupDir       = "~/.local/share/clipper/backup"
	defaultInstructionFile = "~/clips/instructions.txt"
	defaultLogDir          = "~/.local/share/clipper/logs"
	defaultFFmpeg          = "ffmpeg"
	defaultFFprobe         = "ffprobe"
	defaultDownloader      = "yt-dlp"
	defaultMinOutputBytes  = 1024
	defaultAudioExtension  = ".mp3"
	defaultVideoExtension  = ".mkv"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"

	// ResizeRuleMarker classifies a source as 1080-line when the probe report
	// contains the marker digits anywhere.
	ResizeRuleMarker = "marker"
	// ResizeRuleHeight classifies a source as 1080-line by its parsed height.
	ResizeRuleHeight = "height"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:        defaultInputDir,
			OutputDir:       defaultOutputDir,
			BackupDir:       defaultBackupDir,
			InstructionFile: defaultInstructionFile,
			LogDir:          defaultLogDir,
		},
		Tools: Tools{
			FFmpeg:     defaultFFmpeg,
			Downloader: defaultDownloader,
		},
		Transcode: Transcode{
			MinOutputBytes:  defaultMinOutputBytes,
			AudioExtension:  defaultAudioExtension,
			VideoExtension:  defaultVideoExtension,
			IndexExtensions: []string{defaultVideoExtension},
			ResizeRule:      ResizeRuleMarker,
			RemotePatterns:  []string{"youtube.com"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
