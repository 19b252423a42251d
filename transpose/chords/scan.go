package chords

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// punctuation stripped around tokens before matching
const punctuation = ".,:;[]()|-"

func isPunct(r rune) bool {
	return strings.ContainsRune(punctuation, r)
}

// TrimPunctuation strips the punctuation the scanner ignores around tokens
func TrimPunctuation(token string) string {
	return strings.TrimFunc(token, isPunct)
}

// ScanDelimited splits line into text and chord segments, where chords are the
// parsable contents of open...close pairs. Delimiters stay in text segments.
// An opening delimiter whose contents do not parse is kept as text and scanning
// resumes right after it, so "[[C]]" still finds the inner chord.
func ScanDelimited(line, open, close string) []Segment {
	if open == "" || close == "" {
		return []Segment{textSegment(line)}
	}

	var segments []Segment
	var pending strings.Builder
	flush := func() {
		if pending.Len() > 0 {
			segments = append(segments, textSegment(pending.String()))
			pending.Reset()
		}
	}

	rest := line
	for rest != "" {
		i := strings.Index(rest, open)
		if i < 0 {
			break
		}
		afterOpen := rest[i+len(open):]
		j := strings.Index(afterOpen, close)
		if j < 0 {
			break
		}

		inner := afterOpen[:j]
		c, ok := ParseDelimited(inner)
		if !ok {
			pending.WriteString(rest[:i+len(open)])
			rest = afterOpen
			continue
		}

		pending.WriteString(rest[:i+len(open)])
		flush()
		segments = append(segments, Segment{Kind: SegmentChord, Text: inner, Chord: c})
		pending.WriteString(close)
		rest = afterOpen[j+len(close):]
	}
	pending.WriteString(rest)
	flush()
	return segments
}

// ScanUndelimited splits line on whitespace and turns every token that parses
// as a chord (after trimming surrounding punctuation) into a chord segment.
// Callers decide whether the line is a chord line before trusting the result.
func ScanUndelimited(line string) []Segment {
	var segments []Segment
	start := 0
	for start < len(line) {
		r, size := utf8.DecodeRuneInString(line[start:])
		end := start + size
		space := unicode.IsSpace(r)
		for end < len(line) {
			r, size = utf8.DecodeRuneInString(line[end:])
			if unicode.IsSpace(r) != space {
				break
			}
			end += size
		}

		if space {
			segments = append(segments, textSegment(line[start:end]))
		} else {
			segments = append(segments, scanToken(line[start:end])...)
		}
		start = end
	}
	return segments
}

func scanToken(token string) []Segment {
	core := strings.TrimLeftFunc(token, isPunct)
	lead := token[:len(token)-len(core)]
	trimmed := strings.TrimRightFunc(core, isPunct)
	trail := core[len(trimmed):]
	core = trimmed

	c, ok := ParseToken(core)
	if !ok {
		// "Am7(9)": the chord ends where a parenthesized extension begins
		paren := strings.IndexByte(core, '(')
		if paren <= 0 {
			return []Segment{textSegment(token)}
		}
		if c, ok = ParseToken(core[:paren]); !ok {
			return []Segment{textSegment(token)}
		}
		trail = core[paren:] + trail
		core = core[:paren]
	}

	segments := make([]Segment, 0, 3)
	if lead != "" {
		segments = append(segments, textSegment(lead))
	}
	segments = append(segments, Segment{Kind: SegmentChord, Text: core, Chord: c})
	if trail != "" {
		segments = append(segments, textSegment(trail))
	}
	return segments
}

// Chords extracts the chord values from segments in order
func Chords(segments []Segment) []Chord {
	var out []Chord
	for _, seg := range segments {
		if seg.Kind == SegmentChord {
			out = append(out, seg.Chord)
		}
	}
	return out
}
