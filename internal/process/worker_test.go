package process

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/snarg/atc-engine/internal/filter"
	"github.com/snarg/atc-engine/internal/normalize"
	"github.com/snarg/atc-engine/internal/transcript"
)

func testPool(t *testing.T, outputDir string) *Pool {
	t.Helper()
	return NewPool(Options{
		Writer:     NewWriter(outputDir),
		Filter:     filter.MustDefault(),
		NormConfig: normalize.DefaultConfig(),
		Workers:    2,
		QueueSize:  8,
		Log:        zerolog.Nop(),
	})
}

func TestPool_ProcessVideo(t *testing.T) {
	dir := t.TempDir()
	p := testPool(t, dir)
	p.Start()

	ok := p.Enqueue(Job{
		Source: "abc123.json",
		Video: transcript.VideoTranscript{
			VideoID:       "abc123",
			TotalSegments: 3,
			Segments: []transcript.Segment{
				{VideoID: "abc123", SegmentNum: 1, Transcript: "Runway 27L taxi via Alpha"},
				{VideoID: "abc123", SegmentNum: 2, Transcript: "[UNINTELLIGIBLE] ???"},
				{VideoID: "abc123", SegmentNum: 3, Transcript: "Contact tower 118.3"},
			},
		},
	})
	if !ok {
		t.Fatal("Enqueue returned false")
	}
	p.Stop()

	qs := p.Stats()
	if qs.Completed != 1 || qs.Failed != 0 {
		t.Fatalf("queue stats = %+v, want 1 completed", qs)
	}

	data, err := os.ReadFile(filepath.Join(dir, "abc123.json"))
	if err != nil {
		t.Fatalf("output file: %v", err)
	}

	var out transcript.ProcessedVideo
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if out.TotalSegments != 2 || out.FilteredSegments != 1 {
		t.Errorf("output = total %d filtered %d, want 2/1", out.TotalSegments, out.FilteredSegments)
	}
	if out.Segments[0].Transcript != "RUNWAY TWO SEVEN LEFT TAXI VIA ALPHA" {
		t.Errorf("normalized = %q", out.Segments[0].Transcript)
	}
	if out.Segments[0].OriginalTranscript != "Runway 27L taxi via Alpha" {
		t.Errorf("original not preserved: %q", out.Segments[0].OriginalTranscript)
	}
	if out.Segments[1].Transcript != "CONTACT TOWER ONE ONE EIGHT DECIMAL THREE" {
		t.Errorf("normalized = %q", out.Segments[1].Transcript)
	}
	if out.PreprocessingDate == "" {
		t.Error("preprocessing date missing")
	}

	fs := p.FilterStats()
	if fs.Total != 3 || fs.Kept != 2 || fs.Excluded != 1 {
		t.Errorf("filter stats = %+v, want total=3 kept=2 excluded=1", fs)
	}
	if fs.Reasons[`exclusion_tag: \[UNINTELLIGIBLE\]`] != 1 {
		t.Errorf("reasons = %v", fs.Reasons)
	}
}

func TestPool_EnqueueFullQueue(t *testing.T) {
	p := NewPool(Options{
		Filter:     filter.MustDefault(),
		NormConfig: normalize.DefaultConfig(),
		Workers:    1,
		QueueSize:  1,
		Log:        zerolog.Nop(),
	})
	// Workers not started: second enqueue must fail instead of blocking.
	if !p.Enqueue(Job{Video: transcript.VideoTranscript{VideoID: "a"}}) {
		t.Fatal("first enqueue failed")
	}
	if p.Enqueue(Job{Video: transcript.VideoTranscript{VideoID: "b"}}) {
		t.Fatal("second enqueue should have failed on a full queue")
	}
}

func TestReasonRule(t *testing.T) {
	tests := []struct{ reason, want string }{
		{`exclusion_tag: \[NO_ENG\]`, "exclusion_tag"},
		{"too_short: 2 words", "too_short"},
		{"manual_exclusion", "manual_exclusion"},
		{"custom_filter", "custom_filter"},
	}
	for _, tt := range tests {
		if got := reasonRule(tt.reason); got != tt.want {
			t.Errorf("reasonRule(%q) = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestFormatStats(t *testing.T) {
	s := filter.Stats{
		Total:         10,
		Kept:          7,
		Excluded:      3,
		ExclusionRate: 0.3,
		Reasons: map[string]int{
			"too_short: 2 words":          1,
			`exclusion_tag: \[NO_ENG\]`: 2,
		},
	}
	report := FormatStats(s)

	for _, want := range []string{
		"total:    10",
		"kept:     7",
		"excluded: 3 (30.0%)",
		`exclusion_tag: \[NO_ENG\]`,
		"too_short: 2 words",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}

	// Highest count listed first.
	if strings.Index(report, `\[NO_ENG\]`) > strings.Index(report, "too_short") {
		t.Errorf("reasons not sorted by count:\n%s", report)
	}
}
