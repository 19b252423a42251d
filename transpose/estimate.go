package transpose

import (
	"github.com/alabanza/alabanza/algorithms/chroma"
	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/transpose/chords"
)

// Histogram counts the triad notes of every chord the engine recognizes
func Histogram(cs []chords.Chord) chroma.Histogram {
	var h chroma.Histogram
	for _, c := range cs {
		for _, pc := range c.Triad() {
			h.Add(pc, 1)
		}
	}
	return h
}

// EstimateKey guesses the key of content from its chords. The second result
// is false when there are no chords or the chords carry no tonal information.
func (e *Engine) EstimateKey(content string) (tonal.KeyEstimate, bool) {
	cs := e.Chords(content)
	if len(cs) == 0 {
		return tonal.KeyEstimate{}, false
	}

	est, ok := tonal.EstimateKey(Histogram(cs))
	if ok {
		e.logger.Debug("Key estimated", logging.Fields{
			"chords":     len(cs),
			"key":        est.Key.Name(),
			"confidence": est.Confidence,
			"clarity":    est.Clarity,
		})
	}
	return est, ok
}

// EstimateKey delegates to the wrapped engine
func (c *CachedEngine) EstimateKey(content string) (tonal.KeyEstimate, bool) {
	return c.engine.EstimateKey(content)
}
