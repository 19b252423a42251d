package transpose

import (
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/transpose/chords"
	"github.com/alabanza/alabanza/transpose/config"
)

type cacheKey struct {
	content   string
	semitones int
	origin    string
	target    string
	mode      config.Mode
}

// CachedEngine memoizes Engine results. Transposition is a pure function of
// its inputs, so entries never need invalidation.
type CachedEngine struct {
	engine *Engine
	cache  *lru.Cache[cacheKey, Result]
}

// NewCachedEngine wraps engine with an LRU of size entries
func NewCachedEngine(engine *Engine, size int) (*CachedEngine, error) {
	if engine == nil {
		engine = NewEngine(nil)
	}
	cache, err := lru.New[cacheKey, Result](size)
	if err != nil {
		return nil, err
	}
	return &CachedEngine{engine: engine, cache: cache}, nil
}

// NewTransposer returns a CachedEngine when cfg asks for a cache, otherwise a
// plain Engine
func NewTransposer(cfg *config.EngineConfig) (Transposer, error) {
	engine := NewEngine(cfg)
	if engine.config.CacheSize <= 0 {
		return engine, nil
	}
	return NewCachedEngine(engine, engine.config.CacheSize)
}

func (c *CachedEngine) Transpose(content string, semitones int, originKey string) Result {
	key := cacheKey{content: content, semitones: semitones, origin: originKey, mode: c.engine.config.Mode}
	if res, ok := c.cache.Get(key); ok {
		return clone(res)
	}
	res := c.engine.Transpose(content, semitones, originKey)
	c.cache.Add(key, clone(res))
	return res
}

func (c *CachedEngine) TransposeTo(content, originKey, targetKey string) Result {
	key := cacheKey{
		content:   content,
		semitones: tonal.Distance(originKey, targetKey),
		origin:    originKey,
		target:    targetKey,
		mode:      c.engine.config.Mode,
	}
	if res, ok := c.cache.Get(key); ok {
		return clone(res)
	}
	res := c.engine.TransposeTo(content, originKey, targetKey)
	c.cache.Add(key, clone(res))
	return res
}

// Chords is not cached
func (c *CachedEngine) Chords(content string) []chords.Chord {
	return c.engine.Chords(content)
}

// Len reports the number of cached results
func (c *CachedEngine) Len() int {
	return c.cache.Len()
}

func clone(res Result) Result {
	res.Unresolved = slices.Clone(res.Unresolved)
	return res
}
