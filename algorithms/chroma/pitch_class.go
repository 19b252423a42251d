package chroma

// PitchClass is a chromatic position in the octave (0=C, 1=C#/Db, ..., 11=B)
type PitchClass int

// NumPitchClasses is the size of the chromatic octave
const NumPitchClasses = 12

var sharpNames = [NumPitchClasses]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}
var flatNames = [NumPitchClasses]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// enharmonic spellings that appear in neither 12-entry table
var enharmonicAliases = map[string]string{
	"Cb": "B",
	"E#": "F",
	"Fb": "E",
	"B#": "C",
}

// Normalize folds any integer onto [0, 11]
func Normalize(n int) PitchClass {
	n %= NumPitchClasses
	if n < 0 {
		n += NumPitchClasses
	}
	return PitchClass(n)
}

// Transpose shifts the pitch class by a signed number of semitones
func (pc PitchClass) Transpose(semitones int) PitchClass {
	return Normalize(int(pc) + semitones)
}

// Valid reports whether pc lies in [0, 11]
func (pc PitchClass) Valid() bool {
	return pc >= 0 && pc < NumPitchClasses
}

// String returns the sharp spelling
func (pc PitchClass) String() string {
	if !pc.Valid() {
		return "?"
	}
	return sharpNames[pc]
}

// Resolve maps a note spelling such as "C#", "Db" or "Cb" to its pitch class.
// Only a single letter A-G with at most one accidental (# or b) resolves.
func Resolve(spelling string) (PitchClass, bool) {
	if alias, ok := enharmonicAliases[spelling]; ok {
		spelling = alias
	}
	for i, name := range sharpNames {
		if name == spelling {
			return PitchClass(i), true
		}
	}
	for i, name := range flatNames {
		if name == spelling {
			return PitchClass(i), true
		}
	}
	return 0, false
}

// SpellSharp returns the sharp-based spelling of pc
func SpellSharp(pc PitchClass) string {
	return sharpNames[Normalize(int(pc))]
}

// SpellFlat returns the flat-based spelling of pc
func SpellFlat(pc PitchClass) string {
	return flatNames[Normalize(int(pc))]
}

// Spell picks the flat or sharp table
func Spell(pc PitchClass, flats bool) string {
	if flats {
		return SpellFlat(pc)
	}
	return SpellSharp(pc)
}

// Histogram is a 12-bin pitch class weight vector
type Histogram [NumPitchClasses]float64

// Add accumulates weight on pc
func (h *Histogram) Add(pc PitchClass, weight float64) {
	h[Normalize(int(pc))] += weight
}

// Total returns the sum of all bins
func (h Histogram) Total() float64 {
	sum := 0.0
	for _, v := range h {
		sum += v
	}
	return sum
}

// Values returns the bins as a slice
func (h Histogram) Values() []float64 {
	out := make([]float64, NumPitchClasses)
	copy(out, h[:])
	return out
}
