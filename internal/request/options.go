package request

import (
	"path/filepath"
	"strings"

	"clipper/internal/config"
	"clipper/internal/media/ffprobe"
)

const (
	// ScaleTo720 scales to 720 lines and forces an even width.
	ScaleTo720 = "scale=trunc(iw/2)*2:720"
	// ScaleEven rounds both source dimensions down to even values.
	ScaleEven = "scale=trunc(iw/2)*2:trunc(ih/2)*2"

	fullHDMarker = "1080"
	fullHDHeight = 1080
)

func baseOptions() []Option {
	return []Option{Flag("-v", "quiet")}
}

func videoOptions() []Option {
	return []Option{
		Flag("-c:v", "libsvtav1"),
		Flag("-c:s", "copy"),
		Flag("-c:a", "copy"),
		Flag("-map", "0:a"),
		Flag("-map", "0:v:0"),
		Flag("-map", "0:s?"),
		Flag("-force_key_frames", "0"),
		Flag("-crf", "32"),
		Flag("-threads", "3"),
		Flag("-pix_fmt", "yuv420p10le"),
	}
}

func audioOptions(outputName string) []Option {
	return []Option{
		Flag("-codec:a", "libmp3lame"),
		Flag("-qscale:a", "3"),
		Metadata("title", titleFor(outputName)),
	}
}

// titleFor strips directory and extension from the output name.
func titleFor(outputName string) string {
	base := filepath.Base(outputName)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// IsFullHD classifies a probe report into the 1080-line class using rule.
// The marker rule matches the digits anywhere in the report text; the height
// rule compares the parsed height.
func IsFullHD(report ffprobe.Report, rule string) bool {
	if rule == config.ResizeRuleHeight {
		return report.Height >= fullHDHeight
	}
	return strings.Contains(report.Raw, fullHDMarker)
}

// ResizeFilter returns the -vf option for a probe report.
func ResizeFilter(report ffprobe.Report, rule string) Option {
	if IsFullHD(report, rule) {
		return QuotedFlag("-vf", ScaleTo720)
	}
	return QuotedFlag("-vf", ScaleEven)
}
