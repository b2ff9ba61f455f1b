package normalize

import (
	"regexp"
	"strings"
)

// tokenKind classifies a whitespace-delimited token. Each token belongs to
// exactly one kind, so at most one rewrite rule ever consumes it.
type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenDesignator
	tokenNumeric
	tokenSingleLetter
)

var (
	// designatorRe matches runway designators: a 1-2 digit heading followed
	// immediately by a parallel-runway suffix ("27L", "09R", "4C"). A trailing
	// L/R/C here means direction, not a phonetic letter.
	designatorRe = regexp.MustCompile(`^\d{1,2}[LRC]$`)

	// numericRe matches pure numeric tokens with at most one decimal point.
	numericRe = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// classifyToken decides which rewrite rule, if any, applies to a token.
// The token must already have trailing punctuation peeled off.
func classifyToken(tok string) tokenKind {
	switch {
	case designatorRe.MatchString(strings.ToUpper(tok)):
		return tokenDesignator
	case numericRe.MatchString(tok):
		return tokenNumeric
	case len(tok) == 1 && isASCIILetter(tok[0]):
		return tokenSingleLetter
	default:
		return tokenLiteral
	}
}

// splitTrailingPunct peels non-alphanumeric runes off the end of a token so
// "27L," classifies like "27L". The peeled suffix is re-appended after
// rewriting and removed later by the punctuation stage if enabled.
func splitTrailingPunct(tok string) (core, trail string) {
	end := len(tok)
	for end > 0 {
		c := tok[end-1]
		if isASCIILetter(c) || c >= '0' && c <= '9' {
			break
		}
		end--
	}
	return tok[:end], tok[end:]
}

// expandDigits spells out a digit string one digit at a time.
func expandDigits(digits string) string {
	words := make([]string, 0, len(digits))
	for i := 0; i < len(digits); i++ {
		words = append(words, digitWords[digits[i]])
	}
	return strings.Join(words, " ")
}

// expandNumeric spells out a pure numeric token, mapping the decimal point to
// the word DECIMAL: "118.3" -> "ONE ONE EIGHT DECIMAL THREE".
func expandNumeric(tok string) string {
	if before, after, ok := strings.Cut(tok, "."); ok {
		return expandDigits(before) + " DECIMAL " + expandDigits(after)
	}
	return expandDigits(tok)
}

// expandDesignator rewrites a runway designator as expanded digits plus the
// directional word: "27L" -> "TWO SEVEN LEFT".
func expandDesignator(tok string) string {
	up := strings.ToUpper(tok)
	return expandDigits(up[:len(up)-1]) + " " + runwayDirections[up[len(up)-1]]
}

// expandSingleLetter replaces a one-letter token with its NATO phonetic word.
// Letters outside A-Z pass through unchanged.
func expandSingleLetter(tok string) string {
	if word, ok := phoneticAlphabet[strings.ToUpper(tok)]; ok {
		return word
	}
	return tok
}

func isASCIILetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}
