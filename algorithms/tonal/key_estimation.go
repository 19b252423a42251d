package tonal

import (
	"sort"

	"github.com/alabanza/alabanza/algorithms/chroma"
	"github.com/alabanza/alabanza/algorithms/common"
	"github.com/alabanza/alabanza/algorithms/stats"
)

// KeyProfile represents different key detection profiles
type KeyProfile int

const (
	KeyProfileKrumhansl KeyProfile = iota
	KeyProfileTemperley
	KeyProfileDiatonic
)

// KeyProfileTemplate contains template for key profile
type KeyProfileTemplate struct {
	MajorProfile []float64 `json:"major_profile"`
	MinorProfile []float64 `json:"minor_profile"`
	Name         string    `json:"name"`
}

// weights are indexed by interval above the tonic
var profileTemplates = map[KeyProfile]KeyProfileTemplate{
	// Krumhansl-Schmuckler probe-tone ratings
	KeyProfileKrumhansl: {
		MajorProfile: []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88},
		MinorProfile: []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17},
		Name:         "Krumhansl-Schmuckler",
	},
	KeyProfileTemperley: {
		MajorProfile: []float64{5.0, 2.0, 3.5, 2.0, 4.5, 4.0, 2.0, 4.5, 2.0, 3.5, 1.5, 4.0},
		MinorProfile: []float64{5.0, 2.0, 3.5, 4.5, 2.0, 4.0, 2.0, 4.5, 3.5, 2.0, 1.5, 4.0},
		Name:         "Temperley",
	},
	KeyProfileDiatonic: {
		MajorProfile: []float64{5.0, 0.0, 3.0, 0.0, 4.0, 3.5, 0.0, 4.5, 0.0, 3.0, 0.0, 2.0},
		MinorProfile: []float64{5.0, 0.0, 3.0, 3.5, 0.0, 3.5, 0.0, 4.5, 3.0, 0.0, 2.0, 0.0},
		Name:         "Diatonic",
	},
}

// KeyCandidate represents a potential key with its correlation score
type KeyCandidate struct {
	Key        Key     `json:"key"`
	Confidence float64 `json:"confidence"` // Pearson correlation, -1..1
}

// KeyEstimate is the outcome of correlating a pitch class histogram with key profiles
type KeyEstimate struct {
	Key        Key            `json:"key"`
	Confidence float64        `json:"confidence"`
	Clarity    float64        `json:"clarity"` // (best - runner-up) / best
	Candidates []KeyCandidate `json:"candidates"`
	Profile    string         `json:"profile"`
}

// KeyEstimator ranks the 24 major/minor keys against a pitch class histogram
type KeyEstimator struct {
	profile       KeyProfile
	maxCandidates int
}

// NewKeyEstimator uses the Krumhansl profile and returns the top 5 candidates
func NewKeyEstimator() *KeyEstimator {
	return NewKeyEstimatorWithProfile(KeyProfileKrumhansl, 5)
}

// NewKeyEstimatorWithProfile creates an estimator for a specific profile
func NewKeyEstimatorWithProfile(profile KeyProfile, maxCandidates int) *KeyEstimator {
	if _, ok := profileTemplates[profile]; !ok {
		profile = KeyProfileKrumhansl
	}
	if maxCandidates <= 0 {
		maxCandidates = 5
	}
	return &KeyEstimator{profile: profile, maxCandidates: maxCandidates}
}

// Estimate returns the best-fitting key. The second result is false when the
// histogram carries no usable information (empty or perfectly flat).
func (ke *KeyEstimator) Estimate(h chroma.Histogram) (KeyEstimate, bool) {
	values := h.Values()
	if h.Total() <= 0 || common.StandardDeviation(values) < 1e-12 {
		return KeyEstimate{}, false
	}
	values = common.NormalizeSum(values)

	tmpl := profileTemplates[ke.profile]
	candidates := make([]KeyCandidate, 0, 2*chroma.NumPitchClasses)
	for _, mode := range []KeyMode{KeyModeMajor, KeyModeMinor} {
		profile := tmpl.MajorProfile
		if mode == KeyModeMinor {
			profile = tmpl.MinorProfile
		}
		for tonic := chroma.PitchClass(0); tonic < chroma.NumPitchClasses; tonic++ {
			candidates = append(candidates, KeyCandidate{
				Key:        KeyForPitchClass(tonic, mode),
				Confidence: stats.PearsonCorrelation(values, rotateProfile(profile, tonic)),
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})

	best := candidates[0]
	clarity := 0.0
	if best.Confidence > 0 {
		clarity = common.Clamp((best.Confidence-candidates[1].Confidence)/best.Confidence, 0, 1)
	}

	if len(candidates) > ke.maxCandidates {
		candidates = candidates[:ke.maxCandidates]
	}

	return KeyEstimate{
		Key:        best.Key,
		Confidence: best.Confidence,
		Clarity:    clarity,
		Candidates: candidates,
		Profile:    tmpl.Name,
	}, true
}

// rotateProfile lays an interval profile onto absolute pitch classes for tonic
func rotateProfile(profile []float64, tonic chroma.PitchClass) []float64 {
	out := make([]float64, chroma.NumPitchClasses)
	for pc := 0; pc < chroma.NumPitchClasses; pc++ {
		interval := chroma.Normalize(pc - int(tonic))
		out[pc] = profile[interval]
	}
	return out
}

// EstimateKey is a convenience wrapper around a default KeyEstimator
func EstimateKey(h chroma.Histogram) (KeyEstimate, bool) {
	return NewKeyEstimator().Estimate(h)
}
