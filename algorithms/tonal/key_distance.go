package tonal

// Distance returns the signed semitone difference from one key's root to
// another's, mode ignored. The difference is raw (toPC - fromPC), so it can
// range over [-11, 11] even where a shorter path exists. Unresolvable keys
// yield 0.
func Distance(from, to string) int {
	fromKey, ok := ParseKey(from)
	if !ok {
		return 0
	}
	toKey, ok := ParseKey(to)
	if !ok {
		return 0
	}

	fromPC, _ := fromKey.PitchClass()
	toPC, _ := toKey.PitchClass()
	return int(toPC) - int(fromPC)
}

// NormalizeDistance folds a semitone distance onto the shortest path in [-6, 5]
func NormalizeDistance(d int) int {
	d %= 12
	if d < 0 {
		d += 12
	}
	if d > 5 {
		d -= 12
	}
	return d
}

// FifthsDistance counts steps around the circle of fifths between two roots
func FifthsDistance(from, to Key) int {
	fromPC, ok := from.PitchClass()
	if !ok {
		return 0
	}
	toPC, ok := to.PitchClass()
	if !ok {
		return 0
	}

	// 7 semitones is one step; 7 is its own inverse mod 12
	steps := (int(toPC-fromPC)*7%12 + 12) % 12
	return min(steps, 12-steps)
}
