package textutil

import "testing"

func TestSanitizeOutputName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a?b", "ab"},
		{`a"b`, "a'b"},
		{"it's.mkv", "its.mkv"},
		{`12" Mix?.mp3`, "12' Mix.mp3"},
		{"  Clip.mkv ", "  Clip.mkv "},
		{"A/Clip.mkv", "A/Clip.mkv"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SanitizeOutputName(tt.in); got != tt.want {
			t.Errorf("SanitizeOutputName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLooksLikeFlag(t *testing.T) {
	if !LooksLikeFlag("-y.mkv") {
		t.Fatal("expected dash prefix to look like a flag")
	}
	if LooksLikeFlag("clip-1.mkv") {
		t.Fatal("inner dash should not look like a flag")
	}
}
