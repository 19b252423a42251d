package tonal

import (
	"github.com/alabanza/alabanza/algorithms/chroma"
)

// Scale lists the seven canonical spellings of a key, tonic first
type Scale [7]string

// scales is read-only after package init and shared by all callers
var scales = map[string]Scale{
	// major
	"C":  {"C", "D", "E", "F", "G", "A", "B"},
	"G":  {"G", "A", "B", "C", "D", "E", "F#"},
	"D":  {"D", "E", "F#", "G", "A", "B", "C#"},
	"A":  {"A", "B", "C#", "D", "E", "F#", "G#"},
	"E":  {"E", "F#", "G#", "A", "B", "C#", "D#"},
	"B":  {"B", "C#", "D#", "E", "F#", "G#", "A#"},
	"F":  {"F", "G", "A", "Bb", "C", "D", "E"},
	"Bb": {"Bb", "C", "D", "Eb", "F", "G", "A"},
	"Eb": {"Eb", "F", "G", "Ab", "Bb", "C", "D"},
	"Ab": {"Ab", "Bb", "C", "Db", "Eb", "F", "G"},
	"Db": {"Db", "Eb", "F", "Gb", "Ab", "Bb", "C"},
	"Gb": {"Gb", "Ab", "Bb", "Cb", "Db", "Eb", "F"},

	// natural minor
	"Am":  {"A", "B", "C", "D", "E", "F", "G"},
	"Em":  {"E", "F#", "G", "A", "B", "C", "D"},
	"Bm":  {"B", "C#", "D", "E", "F#", "G", "A"},
	"F#m": {"F#", "G#", "A", "B", "C#", "D", "E"},
	"C#m": {"C#", "D#", "E", "F#", "G#", "A", "B"},
	"G#m": {"G#", "A#", "B", "C#", "D#", "E", "F#"},
	"Dm":  {"D", "E", "F", "G", "A", "Bb", "C"},
	"Gm":  {"G", "A", "Bb", "C", "D", "Eb", "F"},
	"Cm":  {"C", "D", "Eb", "F", "G", "Ab", "Bb"},
	"Fm":  {"F", "G", "Ab", "Bb", "C", "Db", "Eb"},
	"Bbm": {"Bb", "C", "Db", "Eb", "F", "Gb", "Ab"},
	"Ebm": {"Eb", "F", "Gb", "Ab", "Bb", "Cb", "Db"},

	// extra chromatic keys, reachable only when named explicitly
	"C#": {"C#", "D#", "E#", "F#", "G#", "A#", "B#"},
	"D#": {"D#", "E#", "F#", "G#", "A#", "B#", "C#"},
	"F#": {"F#", "G#", "A#", "B", "C#", "D#", "E#"},
	"G#": {"G#", "A#", "B#", "C#", "D#", "E#", "F#"},
	"A#": {"A#", "B#", "C#", "D#", "E#", "F#", "G#"},
	"Cb": {"Cb", "Db", "Eb", "Fb", "Gb", "Ab", "Bb"},
	"Fb": {"Fb", "Gb", "Ab", "Bbb", "Cb", "Db", "Eb"},
}

// canonical key names a transposition lands on, indexed by pitch class
var (
	majorKeyNames = [chroma.NumPitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}
	minorKeyRoots = [chroma.NumPitchClasses]string{"C", "C#", "D", "Eb", "E", "F", "F#", "G", "G#", "A", "Bb", "B"}
)

// flatKeys is the one prefers-flats set: the flat-side majors and their relative minors
var flatKeys = map[string]bool{
	"F": true, "Bb": true, "Eb": true, "Ab": true, "Db": true, "Gb": true,
	"Dm": true, "Gm": true, "Cm": true, "Fm": true, "Bbm": true, "Ebm": true,
}

// MajorKeys is the display order of major keys offered to users
var MajorKeys = []string{"C", "C#", "Db", "D", "Eb", "E", "F", "F#", "Gb", "G", "Ab", "A", "Bb", "B"}

// MinorKeys is the display order of minor keys offered to users
var MinorKeys = []string{"Cm", "C#m", "Dm", "Ebm", "Em", "Fm", "F#m", "Gm", "G#m", "Am", "Bbm", "Bm"}

// KeyForPitchClass returns the conventional key name for a tonic pitch class
func KeyForPitchClass(pc chroma.PitchClass, mode KeyMode) Key {
	pc = chroma.Normalize(int(pc))
	if mode == KeyModeMinor {
		return Key{Root: minorKeyRoots[pc], Mode: KeyModeMinor}
	}
	return Key{Root: majorKeyNames[pc], Mode: KeyModeMajor}
}

// ScaleFor returns the scale table entry for key, if any
func ScaleFor(key Key) (Scale, bool) {
	s, ok := scales[key.Name()]
	return s, ok
}

// IsFlatPreferring reports membership in the prefers-flats set
func IsFlatPreferring(key Key) bool {
	return flatKeys[key.Name()]
}

// SpellForKey spells pc the way key's scale does. Pitch classes outside the
// scale use flats for flat-preferring keys and sharps otherwise.
func SpellForKey(pc chroma.PitchClass, key Key) string {
	if scale, ok := ScaleFor(key); ok {
		for _, note := range scale {
			if npc, ok := chroma.Resolve(note); ok && npc == chroma.Normalize(int(pc)) {
				return note
			}
		}
	}
	return SpellByPreference(pc, key)
}

// SpellByPreference ignores the scale and only applies the flat/sharp preference
func SpellByPreference(pc chroma.PitchClass, key Key) string {
	return chroma.Spell(pc, IsFlatPreferring(key))
}
