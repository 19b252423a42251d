package chords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alabanza/alabanza/algorithms/chroma"
)

func TestParseDelimited(t *testing.T) {
	tests := []struct {
		inner string
		want  Chord
		ok    bool
	}{
		{"C", Chord{Root: "C", RootPC: 0}, true},
		{"F#m7", Chord{Root: "F#", Suffix: "m7", RootPC: 6}, true},
		{"Bbsus4", Chord{Root: "Bb", Suffix: "sus4", RootPC: 10}, true},
		{"D/F#", Chord{Root: "D", Bass: "F#", RootPC: 2, BassPC: 6}, true},
		{"Am7/G", Chord{Root: "A", Suffix: "m7", Bass: "G", RootPC: 9, BassPC: 7}, true},
		{"C/E/G", Chord{Root: "C", Bass: "E", BassSuffix: "/G", RootPC: 0, BassPC: 4}, true},
		{"G/x", Chord{Root: "G", Suffix: "/x", RootPC: 7}, true},
		{"Cb", Chord{Root: "Cb", RootPC: 11}, true},
		{"Intro", Chord{}, false},
		{"", Chord{}, false},
		{"h7", Chord{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.inner, func(t *testing.T) {
			got, ok := ParseDelimited(tt.inner)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			if ok {
				assert.Equal(t, tt.inner, got.String())
			}
		})
	}
}

func TestMatchesGrammar(t *testing.T) {
	chordsOK := []string{"C", "Am", "C#m7", "Dsus4", "Gmaj7", "Bbadd9", "F/G", "G/B", "Cdim", "Bø", "Co7", "Eaug", "D5", "CM7", "Cx", "Am7/G", "E°"}
	for _, tok := range chordsOK {
		assert.True(t, MatchesGrammar(tok), tok)
	}

	notChords := []string{"Coro", "Dios", "gracia", "Hm", "C7b9", "G/", "C/H", "Amen", "", "c"}
	for _, tok := range notChords {
		assert.False(t, MatchesGrammar(tok), tok)
	}
}

func TestParseToken(t *testing.T) {
	c, ok := ParseToken("C#m7/G#")
	require.True(t, ok)
	assert.Equal(t, Chord{Root: "C#", Suffix: "m7", Bass: "G#", RootPC: 1, BassPC: 8}, c)

	// matches the grammar but the root cannot be resolved
	_, ok = ParseToken("Cx")
	assert.False(t, ok)

	// an unresolvable bass is kept as text while the root still parses
	c, ok = ParseToken("G/Bx")
	require.True(t, ok)
	assert.Equal(t, Chord{Root: "G", Suffix: "/Bx", RootPC: 7}, c)
	assert.Equal(t, "A/Bx", c.Transpose(2, chroma.SpellSharp).String())

	_, ok = ParseToken("Coro")
	assert.False(t, ok)
}

func TestChord_Transpose(t *testing.T) {
	c, ok := ParseDelimited("D/F#")
	require.True(t, ok)

	got := c.Transpose(2, chroma.SpellSharp)
	assert.Equal(t, "E/G#", got.String())
	assert.Equal(t, chroma.PitchClass(4), got.RootPC)
	assert.Equal(t, chroma.PitchClass(8), got.BassPC)

	// malformed bass stays inside the suffix
	c, _ = ParseDelimited("G/x")
	assert.Equal(t, "A/x", c.Transpose(2, chroma.SpellSharp).String())
}

func TestScanDelimited(t *testing.T) {
	line := "[C]Sublime gracia [F]del Señor"
	segs := ScanDelimited(line, "[", "]")

	assert.Equal(t, line, Render(segs, nil))
	got := Chords(segs)
	require.Len(t, got, 2)
	assert.Equal(t, "C", got[0].Root)
	assert.Equal(t, "F", got[1].Root)

	rendered := Render(segs, func(c Chord) string { return "<" + c.String() + ">" })
	assert.Equal(t, "[<C>]Sublime gracia [<F>]del Señor", rendered)
}

func TestScanDelimited_EdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		chords int
	}{
		{"no delimiters", "Sublime gracia", 0},
		{"unterminated", "[C Sublime", 0},
		{"non chord label", "[Coro] [Intro]", 1}, // "Coro" has root C and suffix "oro"
		{"label without note", "[Intro] [G]", 1},
		{"nested", "[[C]]", 1},
		{"empty", "[]", 0},
		{"adjacent", "[C][G][Am]", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := ScanDelimited(tt.line, "[", "]")
			assert.Equal(t, tt.line, Render(segs, nil))
			assert.Len(t, Chords(segs), tt.chords)
		})
	}
}

func TestScanDelimited_CustomDelimiters(t *testing.T) {
	segs := ScanDelimited("{{G}} Cristo {{D/F#}}", "{{", "}}")
	got := Chords(segs)
	require.Len(t, got, 2)
	assert.Equal(t, "D/F#", got[1].String())

	assert.Len(t, ScanDelimited("[C]", "", "]"), 1)
}

func TestScanUndelimited(t *testing.T) {
	line := "  C   Am   (F)   G/B,\r"
	segs := ScanUndelimited(line)

	assert.Equal(t, line, Render(segs, nil))
	got := Chords(segs)
	require.Len(t, got, 4)
	assert.Equal(t, "F", got[2].Root)
	assert.Equal(t, "B", got[3].Bass)

	rendered := Render(segs, func(c Chord) string { return c.Transpose(2, chroma.SpellSharp).String() })
	assert.Equal(t, "  D   Bm   (G)   A/C#,\r", rendered)
}

func TestScanUndelimited_ParenthesizedExtensions(t *testing.T) {
	line := "Am7(9)  C7(b9)  Dsus4(add9)  (G)"
	segs := ScanUndelimited(line)

	assert.Equal(t, line, Render(segs, nil))
	got := Chords(segs)
	require.Len(t, got, 4)
	assert.Equal(t, "m7", got[0].Suffix)
	assert.Equal(t, "7", got[1].Suffix)
	assert.Equal(t, "sus4", got[2].Suffix)

	rendered := Render(segs, func(c Chord) string { return c.Transpose(2, chroma.SpellSharp).String() })
	assert.Equal(t, "Bm7(9)  D7(b9)  Esus4(add9)  (A)", rendered)
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		line    string
		chords  int
		words   int
		isChord bool
	}{
		{"C   Am   F   G", 4, 0, true},
		{"Sublime gracia del Señor", 0, 4, false},
		{"Intro: C G D A", 4, 1, true},
		{"A Dios sea la gloria", 1, 4, false},
		{"| C | G | Am |", 3, 0, true},
		{"", 0, 0, false},
		{"   ", 0, 0, false},
		{"x y z", 0, 0, false},
		{"Em mi corazón", 1, 2, false},
		{"C G tú", 2, 1, true},
		{"Am7(9)  C7(b9)  Dsus4(add9)", 3, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := ClassifyLine(tt.line)
			assert.Equal(t, tt.chords, got.Chords)
			assert.Equal(t, tt.words, got.Words)
			assert.Equal(t, tt.isChord, got.IsChordLine)
			assert.Equal(t, tt.isChord, IsChordLine(tt.line))
		})
	}
}

func TestChord_Triad(t *testing.T) {
	tests := []struct {
		symbol string
		want   [3]chroma.PitchClass
	}{
		{"C", [3]chroma.PitchClass{0, 4, 7}},
		{"Am7", [3]chroma.PitchClass{9, 0, 4}},
		{"Gmaj7", [3]chroma.PitchClass{7, 11, 2}},
		{"Dsus4", [3]chroma.PitchClass{2, 7, 9}},
		{"Dsus2", [3]chroma.PitchClass{2, 4, 9}},
		{"Bdim", [3]chroma.PitchClass{11, 2, 5}},
		{"Caug", [3]chroma.PitchClass{0, 4, 8}},
	}
	for _, tt := range tests {
		c, ok := ParseDelimited(tt.symbol)
		require.True(t, ok)
		assert.Equal(t, tt.want, c.Triad(), tt.symbol)
	}
}
