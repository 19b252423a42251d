package chords

import (
	"strings"

	"github.com/alabanza/alabanza/algorithms/chroma"
)

// Triad returns root, third and fifth implied by the suffix. Only the leading
// quality marker is looked at: sus2/sus4, minor, diminished and augmented.
func (c Chord) Triad() [3]chroma.PitchClass {
	s := c.Suffix
	third, fifth := 4, 7

	switch {
	case strings.HasPrefix(s, "sus2"):
		third = 2
	case strings.HasPrefix(s, "sus"):
		third = 5
	case strings.HasPrefix(s, "dim"), strings.HasPrefix(s, "o"), strings.HasPrefix(s, "°"):
		third, fifth = 3, 6
	case strings.HasPrefix(s, "ø"), strings.HasPrefix(s, "m7b5"):
		third, fifth = 3, 6
	case strings.HasPrefix(s, "aug"), strings.HasPrefix(s, "+"):
		fifth = 8
	case strings.HasPrefix(s, "maj"), strings.HasPrefix(s, "M"):
	case strings.HasPrefix(s, "min"), strings.HasPrefix(s, "m"), strings.HasPrefix(s, "-"):
		third = 3
	}

	return [3]chroma.PitchClass{
		c.RootPC,
		c.RootPC.Transpose(third),
		c.RootPC.Transpose(fifth),
	}
}
