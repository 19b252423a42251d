package chords

import (
	"strings"

	"github.com/alabanza/alabanza/algorithms/chroma"
)

// Chord is one parsed chord symbol: root, free-form suffix and optional slash bass
type Chord struct {
	Root       string            `json:"root"`
	Suffix     string            `json:"suffix,omitempty"`
	Bass       string            `json:"bass,omitempty"`
	BassSuffix string            `json:"bass_suffix,omitempty"`
	RootPC     chroma.PitchClass `json:"root_pc"`
	BassPC     chroma.PitchClass `json:"bass_pc,omitempty"`
}

// HasBass reports whether the chord carries a slash bass note
func (c Chord) HasBass() bool {
	return c.Bass != ""
}

// String reassembles the symbol as root+suffix(+/bass)
func (c Chord) String() string {
	var b strings.Builder
	b.WriteString(c.Root)
	b.WriteString(c.Suffix)
	if c.HasBass() {
		b.WriteByte('/')
		b.WriteString(c.Bass)
		b.WriteString(c.BassSuffix)
	}
	return b.String()
}

// Speller names a pitch class, e.g. tonal.SpellForKey bound to a target key
type Speller func(chroma.PitchClass) string

// Transpose shifts root and bass by the same amount and respells both with spell.
// Suffixes are carried over untouched.
func (c Chord) Transpose(semitones int, spell Speller) Chord {
	out := c
	out.RootPC = c.RootPC.Transpose(semitones)
	out.Root = spell(out.RootPC)
	if c.HasBass() {
		out.BassPC = c.BassPC.Transpose(semitones)
		out.Bass = spell(out.BassPC)
	}
	return out
}

// SegmentKind tags a Segment as plain text or a chord
type SegmentKind int

const (
	SegmentText SegmentKind = iota
	SegmentChord
)

// Segment is a slice of a line. Text always holds the original bytes; Chord is
// set only for SegmentChord.
type Segment struct {
	Kind  SegmentKind
	Text  string
	Chord Chord
}

func textSegment(s string) Segment {
	return Segment{Kind: SegmentText, Text: s}
}

// Render concatenates segments, letting fn rewrite chord segments
func Render(segments []Segment, fn func(Chord) string) string {
	var b strings.Builder
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentChord:
			if fn != nil {
				b.WriteString(fn(seg.Chord))
			} else {
				b.WriteString(seg.Text)
			}
		default:
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}
