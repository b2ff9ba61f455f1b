// Package filter decides which raw transmissions are usable at all.
// Decisions are made on original (pre-normalization) text so normalization
// can never hide or create an exclusion-triggering pattern.
package filter

import (
	"fmt"
	"regexp"
	"strings"
)

// DefaultExclusionTags returns the built-in ordered pattern set: language
// tags, quality tags, and redaction markers. Patterns are tested in order
// and the first match names the exclusion reason.
func DefaultExclusionTags() []string {
	return []string{
		`\[NO_ENG\]`,
		`\[\|_NO_ENG\]`,
		`\[CZECH_\]`,
		`\[FRENCH_\]`,
		`\[GERMAN_\]`,
		`\[SPANISH_\]`,
		`\[UNINTELLIGIBLE\]`,
		`\[\|_UNINTELLIGIBLE\]`,
		`\[CROSSTALK\]`,
		`\[NOISE\]`,
		`\[STATIC\]`,
		`\[REDACTED\]`,
		`\[UNCLEAR\]`,
	}
}

// qualityPatterns mark transcriber uncertainty: a distinguished sub-case of
// tag exclusion reported under its own reason prefix.
var qualityPatterns = []string{
	`\[.*\?\]`,
	`\(\?\)`,
	`<UNK>`,
	`\*\*\*`,
	`---`,
}

// Options configures a Filter. Use DefaultOptions as the starting point.
type Options struct {
	// ExclusionTags is the ordered list of regex patterns; evaluation order
	// is preserved so exclusion reasons are deterministic.
	ExclusionTags []string

	// ExcludeQualityIssues enables the uncertainty-marker checks.
	ExcludeQualityIssues bool

	// MinWords excludes transmissions shorter than this many words.
	// MaxWords, when > 0, excludes longer ones.
	MinWords int
	MaxWords int

	// Custom, when set, is consulted last; return false to exclude.
	Custom func(text string) bool

	// ManualExclusionsFile, when set, is loaded at construction time.
	ManualExclusionsFile string
}

// DefaultOptions returns the standard filter configuration: built-in tag
// set, quality checks on, minimum three words, no maximum.
func DefaultOptions() Options {
	return Options{
		ExclusionTags:        DefaultExclusionTags(),
		ExcludeQualityIssues: true,
		MinWords:             3,
	}
}

// Decision is the outcome of an exclusion check. Reason is empty iff the
// transmission is kept.
type Decision struct {
	Excluded bool   `json:"excluded"`
	Reason   string `json:"reason,omitempty"`
}

// Stats summarizes a batch filtering run. Reasons is keyed by exact reason
// string, not rule category, so reports can name the specific tag or
// threshold that drove each exclusion.
type Stats struct {
	Total         int            `json:"total"`
	Kept          int            `json:"kept"`
	Excluded      int            `json:"excluded"`
	ExclusionRate float64        `json:"exclusion_rate"`
	Reasons       map[string]int `json:"exclusion_reasons"`
}

// Filter applies exclusion rules to transmissions. Construct with New; a
// built Filter is safe for concurrent use as long as the mutation methods
// (AddExclusionTag, AddManualExclusion, LoadManualExclusions) are not called
// while decisions run.
type Filter struct {
	tags     []string
	patterns []*regexp.Regexp
	quality  []*regexp.Regexp
	minWords int
	maxWords int
	custom   func(string) bool
	manual   map[string]struct{}
}

// New builds a Filter from opts, compiling all patterns case-insensitively.
// An invalid pattern is a construction error; decisions never fail.
func New(opts Options) (*Filter, error) {
	f := &Filter{
		minWords: opts.MinWords,
		maxWords: opts.MaxWords,
		custom:   opts.Custom,
		manual:   make(map[string]struct{}),
	}

	for _, tag := range opts.ExclusionTags {
		re, err := regexp.Compile(`(?i)` + tag)
		if err != nil {
			return nil, fmt.Errorf("compile exclusion tag %q: %w", tag, err)
		}
		f.tags = append(f.tags, tag)
		f.patterns = append(f.patterns, re)
	}

	if opts.ExcludeQualityIssues {
		for _, p := range qualityPatterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return nil, fmt.Errorf("compile quality pattern %q: %w", p, err)
			}
			f.quality = append(f.quality, re)
		}
	}

	if opts.ManualExclusionsFile != "" {
		if err := f.LoadManualExclusions(opts.ManualExclusionsFile); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// MustDefault returns a Filter built from DefaultOptions. The built-in
// patterns always compile.
func MustDefault() *Filter {
	f, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return f
}

// ShouldExclude evaluates the exclusion rules in fixed order; the first rule
// that fires determines the reason and later rules are not evaluated.
func (f *Filter) ShouldExclude(text string) Decision {
	// 1. Exclusion tags, in configured order.
	for i, re := range f.patterns {
		if re.MatchString(text) {
			return Decision{Excluded: true, Reason: "exclusion_tag: " + f.tags[i]}
		}
	}

	// 2. Uncertainty markers.
	for i, re := range f.quality {
		if re.MatchString(text) {
			return Decision{Excluded: true, Reason: "quality_issue: " + qualityPatterns[i]}
		}
	}

	// 3. Length constraints.
	words := len(strings.Fields(text))
	if words < f.minWords {
		return Decision{Excluded: true, Reason: fmt.Sprintf("too_short: %d words", words)}
	}
	if f.maxWords > 0 && words > f.maxWords {
		return Decision{Excluded: true, Reason: fmt.Sprintf("too_long: %d words", words)}
	}

	// 4. Manual exclusions: exact match, case-insensitive, trimmed.
	if _, ok := f.manual[manualKey(text)]; ok {
		return Decision{Excluded: true, Reason: "manual_exclusion"}
	}

	// 5. Custom predicate.
	if f.custom != nil && !f.custom(text) {
		return Decision{Excluded: true, Reason: "custom_filter"}
	}

	return Decision{}
}

// FilterTexts drops excluded texts, preserving the relative order of the
// kept ones.
func (f *Filter) FilterTexts(texts []string) []string {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if !f.ShouldExclude(t).Excluded {
			kept = append(kept, t)
		}
	}
	return kept
}

// ExcludedText pairs an excluded transmission with the reason it was dropped.
type ExcludedText struct {
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ExcludedWithReasons returns the excluded texts with their reasons, in
// input order.
func (f *Filter) ExcludedWithReasons(texts []string) []ExcludedText {
	var out []ExcludedText
	for _, t := range texts {
		if d := f.ShouldExclude(t); d.Excluded {
			out = append(out, ExcludedText{Text: t, Reason: d.Reason})
		}
	}
	return out
}

// FilterStats runs the decision over every text and tallies a histogram
// keyed by exact reason string.
func (f *Filter) FilterStats(texts []string) Stats {
	s := Stats{Total: len(texts), Reasons: make(map[string]int)}
	for _, t := range texts {
		if d := f.ShouldExclude(t); d.Excluded {
			s.Excluded++
			s.Reasons[d.Reason]++
		}
	}
	s.Kept = s.Total - s.Excluded
	if s.Total > 0 {
		s.ExclusionRate = float64(s.Excluded) / float64(s.Total)
	}
	return s
}

// AddExclusionTag appends a pattern to the end of the evaluation order.
func (f *Filter) AddExclusionTag(pattern string) error {
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return fmt.Errorf("compile exclusion tag %q: %w", pattern, err)
	}
	f.tags = append(f.tags, pattern)
	f.patterns = append(f.patterns, re)
	return nil
}

// AddManualExclusion registers a transmission for exact-match exclusion.
func (f *Filter) AddManualExclusion(text string) {
	f.manual[manualKey(text)] = struct{}{}
}

func manualKey(text string) string {
	return strings.ToUpper(strings.TrimSpace(text))
}
