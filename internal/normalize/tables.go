package normalize

// Static lookup tables for ATC text normalization. All tables are read-only
// after init; lookups happen against uppercased tokens.

// phoneticAlphabet maps single letters to their NATO phonetic words.
var phoneticAlphabet = map[string]string{
	"A": "ALPHA", "B": "BRAVO", "C": "CHARLIE", "D": "DELTA",
	"E": "ECHO", "F": "FOXTROT", "G": "GOLF", "H": "HOTEL",
	"I": "INDIA", "J": "JULIET", "K": "KILO", "L": "LIMA",
	"M": "MIKE", "N": "NOVEMBER", "O": "OSCAR", "P": "PAPA",
	"Q": "QUEBEC", "R": "ROMEO", "S": "SIERRA", "T": "TANGO",
	"U": "UNIFORM", "V": "VICTOR", "W": "WHISKEY", "X": "XRAY",
	"Y": "YANKEE", "Z": "ZULU",
}

// digitWords maps digits to their spoken forms. 9 is NINER by radio
// convention to avoid confusion with "five" on a noisy channel.
var digitWords = map[byte]string{
	'0': "ZERO", '1': "ONE", '2': "TWO", '3': "THREE", '4': "FOUR",
	'5': "FIVE", '6': "SIX", '7': "SEVEN", '8': "EIGHT", '9': "NINER",
}

// runwayDirections maps a parallel-runway suffix letter to its spoken word.
var runwayDirections = map[byte]string{
	'L': "LEFT", 'R': "RIGHT", 'C': "CENTER",
}

// spellingCorrections maps known ATC transcription misspellings to their
// canonical forms. Whole-token exact match only.
var spellingCorrections = map[string]string{
	"RODGER":     "ROGER",
	"WILKO":      "WILCO",
	"AFIRMATIVE": "AFFIRMATIVE",
	"NEGITIVE":   "NEGATIVE",
	"CLEARD":     "CLEARED",
	"RUNAWAY":    "RUNWAY",
	"TAXIE":      "TAXI",
	"FREQ":       "FREQUENCY",
	"SQWAWK":     "SQUAWK",
	"ALT":        "ALTITUDE",
	"DECENT":     "DESCENT",
	"APROACH":    "APPROACH",
	"DEPATURE":   "DEPARTURE",
	"MANTAIN":    "MAINTAIN",
	"TRAFIC":     "TRAFFIC",
	"CONTIUE":    "CONTINUE",
}

// contractions maps contracted forms to their expansions. Applied before
// punctuation removal so the apostrophes are still present. Possessives
// (PILOT'S) are not listed and pass through to punctuation removal.
var contractions = map[string]string{
	"I'M": "I AM", "I'VE": "I HAVE", "I'LL": "I WILL", "I'D": "I WOULD",
	"YOU'RE": "YOU ARE", "YOU'VE": "YOU HAVE", "YOU'LL": "YOU WILL", "YOU'D": "YOU WOULD",
	"HE'S": "HE IS", "HE'LL": "HE WILL", "HE'D": "HE WOULD",
	"SHE'S": "SHE IS", "SHE'LL": "SHE WILL", "SHE'D": "SHE WOULD",
	"IT'S": "IT IS", "IT'LL": "IT WILL", "IT'D": "IT WOULD",
	"WE'RE": "WE ARE", "WE'VE": "WE HAVE", "WE'LL": "WE WILL", "WE'D": "WE WOULD",
	"THEY'RE": "THEY ARE", "THEY'VE": "THEY HAVE", "THEY'LL": "THEY WILL", "THEY'D": "THEY WOULD",
	"THAT'S": "THAT IS", "THAT'LL": "THAT WILL", "THAT'D": "THAT WOULD",
	"WHO'S": "WHO IS", "WHO'LL": "WHO WILL", "WHO'D": "WHO WOULD",
	"WHAT'S": "WHAT IS", "WHAT'LL": "WHAT WILL", "WHAT'D": "WHAT WOULD",
	"WHERE'S": "WHERE IS", "WHERE'LL": "WHERE WILL", "WHERE'D": "WHERE WOULD",
	"WHEN'S": "WHEN IS", "WHEN'LL": "WHEN WILL", "WHEN'D": "WHEN WOULD",
	"WHY'S": "WHY IS", "WHY'LL": "WHY WILL", "WHY'D": "WHY WOULD",
	"HOW'S": "HOW IS", "HOW'LL": "HOW WILL", "HOW'D": "HOW WOULD",
	"CAN'T": "CANNOT", "WON'T": "WILL NOT", "DON'T": "DO NOT",
	"DOESN'T": "DOES NOT", "DIDN'T": "DID NOT",
	"HAVEN'T": "HAVE NOT", "HASN'T": "HAS NOT", "HADN'T": "HAD NOT",
	"AREN'T": "ARE NOT", "ISN'T": "IS NOT", "WASN'T": "WAS NOT", "WEREN'T": "WERE NOT",
	"SHOULDN'T": "SHOULD NOT", "WOULDN'T": "WOULD NOT", "COULDN'T": "COULD NOT",
	"MIGHTN'T": "MIGHT NOT", "MUSTN'T": "MUST NOT", "NEEDN'T": "NEED NOT",
	"LET'S": "LET US", "AIN'T": "IS NOT",
}

// removableTags are bracketed speaker/channel annotations that carry no
// linguistic content. This list is intentionally disjoint from the filter
// package's exclusion tags: a segment carrying an exclusion tag should have
// been filtered out before normalization runs.
var removableTags = []string{
	"[GROUND]",
	"[AIR]",
	"[SPEAKER]",
	"[PILOT]",
	"[ATC]",
	"[TOWER]",
	"[CENTER]",
	"[APPROACH]",
	"[DEPARTURE]",
	"[CLEARANCE]",
}
