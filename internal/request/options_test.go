package request

import (
	"testing"

	"clipper/internal/config"
	"clipper/internal/media/ffprobe"
)

func TestResizeClassification(t *testing.T) {
	tests := []struct {
		report string
		rule   string
		want   string
	}{
		{"1920x1080", config.ResizeRuleMarker, ScaleTo720},
		{"1440x1080", config.ResizeRuleMarker, ScaleTo720},
		{"1280x720", config.ResizeRuleMarker, ScaleEven},
		{"3840x2160", config.ResizeRuleMarker, ScaleEven},
		// The marker rule matches digits in the width as well.
		{"1080x1920", config.ResizeRuleMarker, ScaleTo720},
		{"", config.ResizeRuleMarker, ScaleEven},
		{"1920x1080", config.ResizeRuleHeight, ScaleTo720},
		{"1080x1920", config.ResizeRuleHeight, ScaleTo720},
		{"1080x608", config.ResizeRuleHeight, ScaleEven},
		{"1280x720", config.ResizeRuleHeight, ScaleEven},
	}
	for _, tt := range tests {
		got := ResizeFilter(ffprobe.ParseReport(tt.report), tt.rule)
		if got.Flag != "-vf" || got.Value != tt.want {
			t.Errorf("ResizeFilter(%q, %s) = %+v, want %s", tt.report, tt.rule, got, tt.want)
		}
	}
}

func TestOptionRendering(t *testing.T) {
	tests := []struct {
		opt  Option
		str  string
		args []string
	}{
		{Flag("-ss", "00:01:00"), "-ss 00:01:00", []string{"-ss", "00:01:00"}},
		{QuotedFlag("-vf", ScaleEven), `-vf "` + ScaleEven + `"`, []string{"-vf", ScaleEven}},
		{Metadata("title", "It's"), `-metadata title="It's"`, []string{"-metadata", "title=It's"}},
		{Option{}, "", nil},
	}
	for _, tt := range tests {
		if got := tt.opt.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
		got := tt.opt.Args()
		if len(got) != len(tt.args) {
			t.Errorf("Args() = %v, want %v", got, tt.args)
			continue
		}
		for i := range got {
			if got[i] != tt.args[i] {
				t.Errorf("Args() = %v, want %v", got, tt.args)
			}
		}
	}
}

func TestTitleFor(t *testing.T) {
	if got := titleFor("Albums/Live Set.mp3"); got != "Live Set" {
		t.Fatalf("titleFor = %q", got)
	}
}
