package transpose

import (
	"strings"

	"github.com/alabanza/alabanza/algorithms/chroma"
	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/transpose/chords"
	"github.com/alabanza/alabanza/transpose/config"
)

// Result is the transposed content plus what the engine did to produce it
type Result struct {
	Content     string   `json:"content"`
	OriginKey   string   `json:"origin_key,omitempty"`
	TargetKey   string   `json:"target_key,omitempty"`
	KeyResolved bool     `json:"key_resolved"`
	Semitones   int      `json:"semitones"`
	Lines       int      `json:"lines"`
	ChordLines  int      `json:"chord_lines"`
	Transposed  int      `json:"transposed"`
	Unresolved  []string `json:"unresolved,omitempty"` // chord-shaped tokens left verbatim
}

// Transposer is implemented by Engine and CachedEngine
type Transposer interface {
	Transpose(content string, semitones int, originKey string) Result
	TransposeTo(content, originKey, targetKey string) Result
	Chords(content string) []chords.Chord
	EstimateKey(content string) (tonal.KeyEstimate, bool)
}

// Engine shifts every recognized chord in multi-line content and respells it
// for the target key. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config config.EngineConfig
	logger logging.Logger
}

// NewEngine creates an engine; a nil config uses DefaultEngineConfig. Mode
// aliases are normalized and an unknown mode falls back to the default.
func NewEngine(cfg *config.EngineConfig) *Engine {
	if cfg == nil {
		cfg = config.DefaultEngineConfig()
	}

	logger := logging.WithFields(logging.Fields{
		"component": "transpose_engine",
	})
	if _, err := config.ParseMode(string(cfg.Mode)); err != nil {
		logger.Warn("Unknown mode, using default", logging.Fields{
			"mode":    cfg.Mode,
			"default": config.DefaultEngineConfig().Mode,
		})
	}

	return &Engine{
		config: cfg.WithDefaults(),
		logger: logger,
	}
}

// Config returns a copy of the engine configuration
func (e *Engine) Config() config.EngineConfig {
	return e.config
}

// Transpose shifts content by semitones. The target key is originKey moved by
// the same amount and drives spelling; when originKey does not resolve, notes
// are spelled with sharps. A zero shift still respells every chord.
func (e *Engine) Transpose(content string, semitones int, originKey string) Result {
	target, ok := targetKey(originKey, semitones)
	return e.transpose(content, semitones, originKey, target, ok)
}

// TransposeTo converts "change to key X" into a shift with tonal.Distance and
// spells the result against the requested key, keeping the origin's mode.
// An unresolvable origin or target gives a zero shift.
func (e *Engine) TransposeTo(content, originKey, targetName string) Result {
	semitones := tonal.Distance(originKey, targetName)

	origin, originOK := tonal.ParseKey(originKey)
	target, targetOK := tonal.ParseKey(targetName)
	if !originOK || !targetOK {
		return e.Transpose(content, semitones, originKey)
	}
	if _, ok := target.PitchClass(); !ok {
		return e.Transpose(content, semitones, originKey)
	}
	target.Mode = origin.Mode
	return e.transpose(content, semitones, originKey, target, true)
}

// Chords lists every chord the engine would transpose, in reading order
func (e *Engine) Chords(content string) []chords.Chord {
	var out []chords.Chord
	for _, line := range strings.Split(content, "\n") {
		segs, _, _ := e.scanLine(line)
		out = append(out, chords.Chords(segs)...)
	}
	return out
}

func (e *Engine) transpose(content string, semitones int, originKey string, target tonal.Key, keyOK bool) Result {
	res := Result{
		OriginKey: originKey,
		Semitones: semitones,
	}

	spell := chords.Speller(chroma.SpellSharp)
	if keyOK {
		res.TargetKey = target.Name()
		res.KeyResolved = true
		spell = e.speller(target)
	}

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		segs, chordLine, unresolved := e.scanLine(line)
		if chordLine {
			res.ChordLines++
		}
		res.Unresolved = append(res.Unresolved, unresolved...)

		lines[i] = chords.Render(segs, func(c chords.Chord) string {
			res.Transposed++
			return c.Transpose(semitones, spell).String()
		})
	}
	res.Lines = len(lines)
	res.Content = strings.Join(lines, "\n")

	e.logger.Debug("Transposition completed", logging.Fields{
		"mode":        e.config.Mode,
		"semitones":   semitones,
		"origin_key":  originKey,
		"target_key":  res.TargetKey,
		"lines":       res.Lines,
		"chord_lines": res.ChordLines,
		"transposed":  res.Transposed,
		"unresolved":  len(res.Unresolved),
	})

	return res
}

// scanLine picks the scanning strategy for one line. chordLine reports whether
// the line carried chords; unresolved lists chord-shaped tokens whose notes
// could not be resolved.
func (e *Engine) scanLine(line string) (segs []chords.Segment, chordLine bool, unresolved []string) {
	switch e.config.Mode {
	case config.ModeDelimited:
		return e.scanDelimited(line)
	case config.ModeUndelimited:
		return e.scanUndelimited(line)
	default:
		if e.config.OpenDelimiter != "" && strings.Contains(line, e.config.OpenDelimiter) {
			return e.scanDelimited(line)
		}
		return e.scanUndelimited(line)
	}
}

func (e *Engine) scanDelimited(line string) ([]chords.Segment, bool, []string) {
	segs := chords.ScanDelimited(line, e.config.OpenDelimiter, e.config.CloseDelimiter)
	return segs, hasChord(segs), nil
}

func (e *Engine) scanUndelimited(line string) ([]chords.Segment, bool, []string) {
	if !chords.IsChordLine(line) {
		return []chords.Segment{{Kind: chords.SegmentText, Text: line}}, false, nil
	}

	segs := chords.ScanUndelimited(line)
	var unresolved []string
	for _, seg := range segs {
		if seg.Kind != chords.SegmentText {
			continue
		}
		tok := chords.TrimPunctuation(seg.Text)
		if paren := strings.IndexByte(tok, '('); paren > 0 {
			tok = tok[:paren]
		}
		if tok != "" && chords.MatchesGrammar(tok) {
			unresolved = append(unresolved, tok)
		}
	}
	return segs, true, unresolved
}

func (e *Engine) speller(target tonal.Key) chords.Speller {
	if e.config.Spelling == config.SpellingPreference {
		return func(pc chroma.PitchClass) string {
			return tonal.SpellByPreference(pc, target)
		}
	}
	return func(pc chroma.PitchClass) string {
		return tonal.SpellForKey(pc, target)
	}
}

// targetKey moves originKey by semitones onto the canonical key name. Whole
// octaves keep the origin key itself when it has a scale, so F# stays F#.
func targetKey(originKey string, semitones int) (tonal.Key, bool) {
	origin, ok := tonal.ParseKey(originKey)
	if !ok {
		return tonal.Key{}, false
	}
	if semitones%12 == 0 {
		if _, ok := tonal.ScaleFor(origin); ok {
			return origin, true
		}
	}
	return origin.Transpose(semitones)
}

func hasChord(segs []chords.Segment) bool {
	for _, seg := range segs {
		if seg.Kind == chords.SegmentChord {
			return true
		}
	}
	return false
}

// Transpose runs a default engine in the given mode and returns only the text
func Transpose(content string, semitones int, originKey string, mode config.Mode) string {
	return NewEngine(config.EngineConfigForMode(mode)).Transpose(content, semitones, originKey).Content
}
