package filter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestShouldExclude_Tags(t *testing.T) {
	f := MustDefault()

	d := f.ShouldExclude("[NO_ENG] Non-English communication")
	if !d.Excluded {
		t.Fatal("expected exclusion")
	}
	if d.Reason != `exclusion_tag: \[NO_ENG\]` {
		t.Errorf("reason = %q, want exclusion_tag: \\[NO_ENG\\]", d.Reason)
	}
}

func TestShouldExclude_FirstMatchWins(t *testing.T) {
	f, err := New(Options{
		ExclusionTags: []string{`\[NOISE\]`, `\[STATIC\]`},
		MinWords:      1,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// Both patterns match; the earlier one in the configured order names
	// the reason.
	d := f.ShouldExclude("[STATIC] [NOISE] garbled transmission")
	if d.Reason != `exclusion_tag: \[NOISE\]` {
		t.Errorf("reason = %q, want the first configured pattern", d.Reason)
	}
}

func TestShouldExclude_QualityMarkers(t *testing.T) {
	f := MustDefault()

	tests := []struct {
		text   string
		reason string
	}{
		{"cleared for [?] runway", `quality_issue: \[.*\?\]`},
		{"say again (?) tower", `quality_issue: \(\?\)`},
		{"contact <UNK> on final", `quality_issue: <UNK>`},
		{"hold short *** of runway", `quality_issue: \*\*\*`},
		{"roger --- continue approach", `quality_issue: ---`},
	}
	for _, tt := range tests {
		d := f.ShouldExclude(tt.text)
		if !d.Excluded || d.Reason != tt.reason {
			t.Errorf("ShouldExclude(%q) = %+v, want reason %q", tt.text, d, tt.reason)
		}
	}
}

func TestShouldExclude_Length(t *testing.T) {
	f := MustDefault()

	d := f.ShouldExclude("roger wilco")
	if !d.Excluded || d.Reason != "too_short: 2 words" {
		t.Errorf("two words: %+v, want too_short: 2 words", d)
	}

	d = f.ShouldExclude("cleared for takeoff")
	if d.Excluded {
		t.Errorf("three words excluded: %+v", d)
	}

	d = f.ShouldExclude("")
	if !d.Excluded || d.Reason != "too_short: 0 words" {
		t.Errorf("empty: %+v, want too_short: 0 words", d)
	}

	long, err := New(Options{MinWords: 1, MaxWords: 4})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	d = long.ShouldExclude("one two three four five")
	if !d.Excluded || d.Reason != "too_long: 5 words" {
		t.Errorf("five words: %+v, want too_long: 5 words", d)
	}
}

func TestShouldExclude_Manual(t *testing.T) {
	f := MustDefault()
	f.AddManualExclusion("  test transmission ignore this  ")

	d := f.ShouldExclude("TEST TRANSMISSION IGNORE THIS")
	if !d.Excluded || d.Reason != "manual_exclusion" {
		t.Errorf("got %+v, want manual_exclusion", d)
	}

	if d := f.ShouldExclude("test transmission keep this one"); d.Excluded {
		t.Errorf("non-matching text excluded: %+v", d)
	}
}

func TestShouldExclude_CustomPredicate(t *testing.T) {
	f, err := New(Options{
		MinWords: 1,
		Custom:   func(text string) bool { return !strings.Contains(text, "drop") },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if d := f.ShouldExclude("please drop this"); !d.Excluded || d.Reason != "custom_filter" {
		t.Errorf("got %+v, want custom_filter", d)
	}
	if d := f.ShouldExclude("please keep this"); d.Excluded {
		t.Errorf("got %+v, want kept", d)
	}
}

func TestNew_InvalidPattern(t *testing.T) {
	if _, err := New(Options{ExclusionTags: []string{`[unclosed`}}); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestFilterTexts_PreservesOrder(t *testing.T) {
	f := MustDefault()
	in := []string{
		"American 123 contact tower",
		"[UNINTELLIGIBLE] ???",
		"Cleared for takeoff",
	}

	kept := f.FilterTexts(in)
	if len(kept) != 2 {
		t.Fatalf("kept %d texts, want 2", len(kept))
	}
	if kept[0] != in[0] || kept[1] != in[2] {
		t.Errorf("kept = %v, relative order not preserved", kept)
	}
}

func TestFilterStats(t *testing.T) {
	f := MustDefault()
	in := []string{
		"American 123 contact tower",
		"[UNINTELLIGIBLE] ???",
		"Cleared for takeoff",
	}

	s := f.FilterStats(in)
	if s.Total != 3 || s.Kept != 2 || s.Excluded != 1 {
		t.Errorf("stats = %+v, want total=3 kept=2 excluded=1", s)
	}
	if s.ExclusionRate < 0.33 || s.ExclusionRate > 0.34 {
		t.Errorf("exclusion rate = %f, want 1/3", s.ExclusionRate)
	}
	if s.Reasons[`exclusion_tag: \[UNINTELLIGIBLE\]`] != 1 {
		t.Errorf("reasons = %v, want exact reason key", s.Reasons)
	}

	empty := f.FilterStats(nil)
	if empty.Total != 0 || empty.ExclusionRate != 0 {
		t.Errorf("empty stats = %+v", empty)
	}
}

func TestExcludedWithReasons(t *testing.T) {
	f := MustDefault()
	out := f.ExcludedWithReasons([]string{"keep this one please", "[NOISE] bad"})
	if len(out) != 1 || out[0].Text != "[NOISE] bad" {
		t.Fatalf("out = %v", out)
	}
	if out[0].Reason != `exclusion_tag: \[NOISE\]` {
		t.Errorf("reason = %q", out[0].Reason)
	}
}

func TestAddExclusionTag(t *testing.T) {
	f := MustDefault()
	if err := f.AddExclusionTag(`\[TEST_TAG\]`); err != nil {
		t.Fatalf("AddExclusionTag: %v", err)
	}
	if d := f.ShouldExclude("[TEST_TAG] some transmission"); !d.Excluded {
		t.Error("added tag did not exclude")
	}

	if err := f.AddExclusionTag(`[bad`); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestManualExclusions_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "exclusions.txt")

	f := MustDefault()
	f.AddManualExclusion("bad transmission one")
	f.AddManualExclusion("bad transmission two")
	if err := f.SaveManualExclusions(path); err != nil {
		t.Fatalf("SaveManualExclusions: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "#") {
		t.Error("saved file missing comment header")
	}

	g := MustDefault()
	if err := g.LoadManualExclusions(path); err != nil {
		t.Fatalf("LoadManualExclusions: %v", err)
	}
	if d := g.ShouldExclude("BAD TRANSMISSION ONE"); !d.Excluded || d.Reason != "manual_exclusion" {
		t.Errorf("loaded exclusion not applied: %+v", d)
	}

	// Missing file is not an error.
	if err := g.LoadManualExclusions(filepath.Join(dir, "missing.txt")); err != nil {
		t.Errorf("missing file: %v", err)
	}
}
