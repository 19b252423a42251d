package chords

import (
	"strings"

	"github.com/alabanza/alabanza/algorithms/chroma"
)

// qualityMarkers is the undelimited-mode vocabulary, longest first so that
// "maj" wins over "m"
var qualityMarkers = []string{"maj", "min", "sus", "aug", "dim", "add", "m", "M", "o", "ø", "°"}

// splitRoot cuts a leading note name (A-G plus an optional # or b) off s
func splitRoot(s string, accidentals string) (root, rest string, ok bool) {
	if s == "" || s[0] < 'A' || s[0] > 'G' {
		return "", s, false
	}
	n := 1
	if len(s) > 1 && strings.IndexByte(accidentals, s[1]) >= 0 {
		n = 2
	}
	return s[:n], s[n:], true
}

// ParseDelimited parses the text between a delimiter pair. Anything after the
// root up to an optional slash is the suffix; a slash followed by text that
// does not start with a note leaves that text inside the suffix untouched.
func ParseDelimited(inner string) (Chord, bool) {
	root, rest, ok := splitRoot(inner, "#b")
	if !ok {
		return Chord{}, false
	}
	rootPC, ok := chroma.Resolve(root)
	if !ok {
		return Chord{}, false
	}

	c := Chord{Root: root, Suffix: rest, RootPC: rootPC}
	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return c, true
	}

	bass, bassRest, ok := splitRoot(rest[slash+1:], "#b")
	if !ok {
		return c, true
	}
	bassPC, ok := chroma.Resolve(bass)
	if !ok {
		return c, true
	}
	c.Suffix = rest[:slash]
	c.Bass = bass
	c.BassSuffix = bassRest
	c.BassPC = bassPC
	return c, true
}

// consumeQuality eats quality markers and digits, returning what is left
func consumeQuality(s string) string {
	for s != "" {
		if s[0] >= '0' && s[0] <= '9' {
			s = s[1:]
			continue
		}
		matched := false
		for _, m := range qualityMarkers {
			if strings.HasPrefix(s, m) {
				s = s[len(m):]
				matched = true
				break
			}
		}
		if !matched {
			return s
		}
	}
	return s
}

// MatchesGrammar reports whether token has the shape of an undelimited chord:
// root [#|b|x] (quality|digits)* (/root (quality|digits)*)?
// It does not check that the notes resolve.
func MatchesGrammar(token string) bool {
	_, rest, ok := splitRoot(token, "#bx")
	if !ok {
		return false
	}
	rest = consumeQuality(rest)
	if rest == "" {
		return true
	}
	if rest[0] != '/' {
		return false
	}
	_, rest, ok = splitRoot(rest[1:], "#bx")
	if !ok {
		return false
	}
	return consumeQuality(rest) == ""
}

// ParseToken parses a whole whitespace-free token in undelimited mode. A token
// whose root does not resolve is rejected; an unresolvable bass stays in the
// suffix as text, the same as in ParseDelimited.
func ParseToken(token string) (Chord, bool) {
	if !MatchesGrammar(token) {
		return Chord{}, false
	}

	root, rest, _ := splitRoot(token, "#bx")
	rootPC, ok := chroma.Resolve(root)
	if !ok {
		return Chord{}, false
	}
	c := Chord{Root: root, RootPC: rootPC, Suffix: rest}

	slash := strings.IndexByte(rest, '/')
	if slash < 0 {
		return c, true
	}
	bass, bassRest, _ := splitRoot(rest[slash+1:], "#bx")
	bassPC, ok := chroma.Resolve(bass)
	if !ok {
		return c, true
	}
	c.Suffix = rest[:slash]
	c.Bass = bass
	c.BassSuffix = bassRest
	c.BassPC = bassPC
	return c, true
}
