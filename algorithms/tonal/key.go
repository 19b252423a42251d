package tonal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alabanza/alabanza/algorithms/chroma"
)

// ErrUnknownKey is returned by ParseKeyStrict for names that do not resolve
var ErrUnknownKey = errors.New("unknown key")

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	if m == KeyModeMinor {
		return "minor"
	}
	return "major"
}

// Key is a tonal center: a root spelling plus a mode
type Key struct {
	Root string  `json:"root"`
	Mode KeyMode `json:"mode"`
}

// Name renders the short form used throughout the repertoire ("Bb", "F#m")
func (k Key) Name() string {
	if k.Mode == KeyModeMinor {
		return k.Root + "m"
	}
	return k.Root
}

func (k Key) String() string {
	return k.Name()
}

// IsZero reports whether k is the zero Key
func (k Key) IsZero() bool {
	return k.Root == ""
}

// PitchClass resolves the root
func (k Key) PitchClass() (chroma.PitchClass, bool) {
	return chroma.Resolve(k.Root)
}

// Transpose returns the canonical key name a semitone shift lands on,
// keeping the mode. The second result is false when k does not resolve.
func (k Key) Transpose(semitones int) (Key, bool) {
	pc, ok := k.PitchClass()
	if !ok {
		return Key{}, false
	}
	return KeyForPitchClass(pc.Transpose(semitones), k.Mode), true
}

// Relative returns the relative major/minor key
func (k Key) Relative() (Key, bool) {
	pc, ok := k.PitchClass()
	if !ok {
		return Key{}, false
	}
	if k.Mode == KeyModeMajor {
		return KeyForPitchClass(pc.Transpose(-3), KeyModeMinor), true
	}
	return KeyForPitchClass(pc.Transpose(3), KeyModeMajor), true
}

// Parallel returns the parallel major/minor key on the same root
func (k Key) Parallel() (Key, bool) {
	pc, ok := k.PitchClass()
	if !ok {
		return Key{}, false
	}
	if k.Mode == KeyModeMajor {
		return KeyForPitchClass(pc, KeyModeMinor), true
	}
	return KeyForPitchClass(pc, KeyModeMajor), true
}

// Dominant returns the key a fifth above
func (k Key) Dominant() (Key, bool) {
	return k.Transpose(7)
}

// Subdominant returns the key a fifth below
func (k Key) Subdominant() (Key, bool) {
	return k.Transpose(-7)
}

// ParseKey reads names such as "C", "F#m", "Bbmin", "Eb major" or "A minor".
// The root must be a letter A-G with at most one accidental.
func ParseKey(name string) (Key, bool) {
	name = strings.TrimSpace(name)
	if name == "" || name[0] < 'A' || name[0] > 'G' {
		return Key{}, false
	}

	rootLen := 1
	if len(name) > 1 && (name[1] == '#' || name[1] == 'b') {
		rootLen = 2
	}
	root := name[:rootLen]
	if _, ok := chroma.Resolve(root); !ok {
		return Key{}, false
	}

	mode, ok := parseMode(name[rootLen:])
	if !ok {
		return Key{}, false
	}
	return Key{Root: root, Mode: mode}, true
}

// ParseKeyStrict is ParseKey with an error for callers validating user input
func ParseKeyStrict(name string) (Key, error) {
	k, ok := ParseKey(name)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrUnknownKey, name)
	}
	return k, nil
}

func parseMode(suffix string) (KeyMode, bool) {
	// "M" alone is the conventional uppercase major marker
	if suffix == "M" {
		return KeyModeMajor, true
	}
	switch strings.ToLower(strings.TrimSpace(suffix)) {
	case "", "maj", "major":
		return KeyModeMajor, true
	case "m", "min", "minor", "-":
		return KeyModeMinor, true
	}
	return KeyModeMajor, false
}
