package ingest

import "testing"

func TestIsTranscriptFile(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"data/transcripts/abc123.json", true},
		{"abc123.JSON", true},
		{"abc123_raw.json", false},
		{"ABC123_RAW.JSON", false},
		{"abc123.txt", false},
		{"abc123.json.tmp", false},
	}
	for _, tt := range tests {
		if got := IsTranscriptFile(tt.path); got != tt.want {
			t.Errorf("IsTranscriptFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestVideoIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/transcripts/dQw4w9WgXcQ.json", "dQw4w9WgXcQ"},
		{"abc123.json", "abc123"},
		{"/abs/path/xyz.json", "xyz"},
	}
	for _, tt := range tests {
		if got := VideoIDFromPath(tt.path); got != tt.want {
			t.Errorf("VideoIDFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
