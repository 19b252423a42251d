package chords

import (
	"strings"
	"unicode/utf8"
)

const vowels = "aeiouáéíóúAEIOUÁÉÍÓÚ"

// Classification is the token tally behind a chord-line decision
type Classification struct {
	Chords      int  `json:"chords"`
	Words       int  `json:"words"`
	Neutral     int  `json:"neutral"`
	IsChordLine bool `json:"is_chord_line"`
}

// ClassifyLine decides whether an undelimited line holds chords or lyrics.
// Punctuation is removed from each token; pure punctuation is skipped. A token
// is a chord candidate if it matches the chord grammar, either whole or up to
// a parenthesized extension. It is a lyric word if it has a vowel and more
// than one character, and neutral otherwise. The line is a chord line when
// there are chords and no words, or more chords than words.
func ClassifyLine(line string) Classification {
	var c Classification
	for _, tok := range strings.Fields(line) {
		clean := strings.Map(func(r rune) rune {
			if isPunct(r) {
				return -1
			}
			return r
		}, tok)
		if clean == "" {
			continue
		}

		switch {
		case MatchesGrammar(clean) || matchesBeforeParen(tok):
			c.Chords++
		case strings.ContainsAny(clean, vowels) && utf8.RuneCountInString(clean) > 1:
			c.Words++
		default:
			c.Neutral++
		}
	}

	c.IsChordLine = (c.Words == 0 && c.Chords > 0) || c.Chords > c.Words
	return c
}

// matchesBeforeParen reports whether the part of tok ahead of a parenthesized
// extension ("Am7" in "Am7(9)") has the chord shape
func matchesBeforeParen(tok string) bool {
	core := strings.TrimLeftFunc(tok, isPunct)
	paren := strings.IndexByte(core, '(')
	return paren > 0 && MatchesGrammar(core[:paren])
}

// IsChordLine is shorthand for ClassifyLine(line).IsChordLine
func IsChordLine(line string) bool {
	return ClassifyLine(line).IsChordLine
}
