// Package normalize converts raw ATC transcript text into canonical,
// model-ready form: uppercasing, diacritic stripping, annotation-tag removal,
// runway-designator and digit-by-digit number expansion, NATO phonetic
// expansion of single letters, contraction expansion, spelling correction,
// and punctuation/whitespace cleanup.
//
// Normalization is a pure function of (text, Config). It never consults
// segment identity and never fails: malformed or empty input produces
// well-defined (possibly empty) output.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// OutputCase selects the final casing of normalized text.
type OutputCase string

const (
	OutputUpper    OutputCase = "upper"
	OutputLower    OutputCase = "lower"
	OutputPreserve OutputCase = "preserve"
)

// Config holds the normalization switches. The zero value disables
// everything; use DefaultConfig for the standard pipeline. Configs are
// immutable during processing and safe to share across goroutines.
type Config struct {
	Uppercase                bool
	StripDiacritics          bool
	RemoveTags               bool
	ExpandPhoneticLetters    bool
	ExpandNumbers            bool
	ExpandContractions       bool
	ApplySpellingCorrections bool
	RemovePunctuation        bool
	OutputCase               OutputCase

	// CustomCorrections and CustomContractions are merged over the built-in
	// tables, custom entries winning on conflict.
	CustomCorrections  map[string]string
	CustomContractions map[string]string
}

// DefaultConfig returns the standard configuration: every stage enabled,
// uppercase output.
func DefaultConfig() Config {
	return Config{
		Uppercase:                true,
		StripDiacritics:          true,
		RemoveTags:               true,
		ExpandPhoneticLetters:    true,
		ExpandNumbers:            true,
		ExpandContractions:       true,
		ApplySpellingCorrections: true,
		RemovePunctuation:        true,
		OutputCase:               OutputUpper,
	}
}

// stage is one step of the normalization pipeline: a pure rewrite gated by
// the configuration. Order is fixed; toggles are not.
type stage struct {
	name    string
	enabled func(Config) bool
	apply   func(string, Config) string
}

var pipeline = []stage{
	{"uppercase", func(c Config) bool { return c.Uppercase }, applyUppercase},
	{"strip_diacritics", func(c Config) bool { return c.StripDiacritics }, applyStripDiacritics},
	{"remove_tags", func(c Config) bool { return c.RemoveTags }, applyRemoveTags},
	{"rewrite_tokens", func(c Config) bool { return c.ExpandNumbers || c.ExpandPhoneticLetters }, applyRewriteTokens},
	{"expand_contractions", func(c Config) bool { return c.ExpandContractions }, applyExpandContractions},
	{"spelling_corrections", func(c Config) bool { return c.ApplySpellingCorrections }, applySpellingCorrections},
	{"remove_punctuation", func(c Config) bool { return c.RemovePunctuation }, applyRemovePunctuation},
	{"whitespace", func(Config) bool { return true }, applyWhitespace},
	{"output_case", func(Config) bool { return true }, applyOutputCase},
}

// Normalize runs the full pipeline over text. Deterministic and total; an
// empty result is valid (callers wanting minimum-length guarantees must
// filter before normalizing, not after).
func Normalize(text string, cfg Config) string {
	if text == "" {
		return ""
	}
	for _, st := range pipeline {
		if st.enabled(cfg) {
			text = st.apply(text, cfg)
		}
	}
	return text
}

// BatchNormalize normalizes each text in order.
func BatchNormalize(texts []string, cfg Config) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = Normalize(t, cfg)
	}
	return out
}

func applyUppercase(text string, _ Config) string {
	return strings.ToUpper(text)
}

// stripMarks decomposes to NFD and drops combining marks, so "é" becomes
// "e". Non-Latin scripts without combining marks pass through unchanged.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func applyStripDiacritics(text string, _ Config) string {
	out, _, err := transform.String(stripMarks, text)
	if err != nil {
		return text
	}
	return out
}

// removableTagRe matches any tag on the removal allow-list, case-insensitive
// so the stage behaves the same with Uppercase off.
var removableTagRe = func() *regexp.Regexp {
	quoted := make([]string, len(removableTags))
	for i, tag := range removableTags {
		quoted[i] = regexp.QuoteMeta(tag)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}()

func applyRemoveTags(text string, _ Config) string {
	return removableTagRe.ReplaceAllString(text, " ")
}

// applyRewriteTokens classifies each token once and applies at most one
// rewrite: runway designators first (a trailing L/R/C is a direction, not a
// phonetic letter), then pure numbers, then single letters. Designator
// rewriting runs whenever either expansion toggle is on.
func applyRewriteTokens(text string, cfg Config) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for _, word := range words {
		core, trail := splitTrailingPunct(word)
		if core == "" {
			out = append(out, word)
			continue
		}
		switch classifyToken(core) {
		case tokenDesignator:
			out = append(out, expandDesignator(core)+trail)
		case tokenNumeric:
			if cfg.ExpandNumbers {
				out = append(out, expandNumeric(core)+trail)
			} else {
				out = append(out, word)
			}
		case tokenSingleLetter:
			if cfg.ExpandPhoneticLetters {
				out = append(out, expandSingleLetter(core)+trail)
			} else {
				out = append(out, word)
			}
		default:
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

// applyExpandContractions expands whole-token contractions (I'M -> I AM).
// Possessives ending in 'S are left for punctuation removal.
func applyExpandContractions(text string, cfg Config) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for _, word := range words {
		if exp, ok := cfg.CustomContractions[word]; ok {
			out = append(out, exp)
		} else if exp, ok := contractions[word]; ok {
			out = append(out, exp)
		} else {
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

// applySpellingCorrections fixes known ATC misspellings by whole-token exact
// match. No fuzzy matching: partial replacement would corrupt callsigns and
// already-expanded numbers.
func applySpellingCorrections(text string, cfg Config) string {
	words := strings.Fields(text)
	out := make([]string, 0, len(words))

	for _, word := range words {
		if fixed, ok := cfg.CustomCorrections[word]; ok {
			out = append(out, fixed)
		} else if fixed, ok := spellingCorrections[word]; ok {
			out = append(out, fixed)
		} else {
			out = append(out, word)
		}
	}
	return strings.Join(out, " ")
}

// applyRemovePunctuation keeps letters, digits, underscores and whitespace,
// dropping everything else without collapsing adjacent words.
func applyRemovePunctuation(text string, _ Config) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) || r == '_' {
			return r
		}
		return -1
	}, text)
}

func applyWhitespace(text string, _ Config) string {
	return strings.Join(strings.Fields(text), " ")
}

func applyOutputCase(text string, cfg Config) string {
	switch cfg.OutputCase {
	case OutputLower:
		return strings.ToLower(text)
	case OutputPreserve:
		return text
	default:
		return strings.ToUpper(text)
	}
}
