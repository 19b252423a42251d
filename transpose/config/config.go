package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidMode is returned for unknown input modes or spelling policies
var ErrInvalidMode = errors.New("invalid mode")

// Mode selects how chords are found in content
type Mode string

const (
	// ModeDelimited only transposes chords wrapped in a delimiter pair, e.g. [Am]
	ModeDelimited Mode = "delimited"
	// ModeUndelimited classifies each line and transposes bare chord tokens on chord lines
	ModeUndelimited Mode = "undelimited"
	// ModeAuto scans lines containing the open delimiter as delimited, the rest as undelimited
	ModeAuto Mode = "auto"
)

// ParseMode accepts the mode names case-insensitively
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeDelimited, "bracket", "brackets":
		return ModeDelimited, nil
	case ModeUndelimited, "plain", "text":
		return ModeUndelimited, nil
	case ModeAuto, "":
		return ModeAuto, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// SpellingPolicy selects how transposed notes are named
type SpellingPolicy string

const (
	// SpellingScale looks notes up in the target key's scale, falling back to the flat/sharp preference
	SpellingScale SpellingPolicy = "scale"
	// SpellingPreference only uses the flat/sharp preference of the target key
	SpellingPreference SpellingPolicy = "preference"
)

// EngineConfig configures the transposition engine
type EngineConfig struct {
	Mode           Mode           `json:"mode" yaml:"mode"`
	OpenDelimiter  string         `json:"open_delimiter" yaml:"open_delimiter"`
	CloseDelimiter string         `json:"close_delimiter" yaml:"close_delimiter"`
	Spelling       SpellingPolicy `json:"spelling" yaml:"spelling"`

	// CacheSize bounds the memoizing engine; 0 disables caching
	CacheSize int `json:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

// DefaultEngineConfig returns bracket delimiters, auto mode and scale spelling
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Mode:           ModeAuto,
		OpenDelimiter:  "[",
		CloseDelimiter: "]",
		Spelling:       SpellingScale,
		CacheSize:      256,
	}
}

// EngineConfigForMode returns the default configuration switched to mode
func EngineConfigForMode(mode Mode) *EngineConfig {
	cfg := DefaultEngineConfig()
	cfg.Mode = mode
	return cfg
}

// Validate checks the mode, the spelling policy and the delimiters
func (c *EngineConfig) Validate() error {
	if _, err := ParseMode(string(c.Mode)); err != nil {
		return err
	}
	switch c.Spelling {
	case SpellingScale, SpellingPreference, "":
	default:
		return fmt.Errorf("%w: spelling %q", ErrInvalidMode, c.Spelling)
	}
	if c.Mode != ModeUndelimited && (c.OpenDelimiter == "" || c.CloseDelimiter == "") {
		return fmt.Errorf("%w: %s mode needs both delimiters", ErrInvalidMode, c.Mode)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache_size must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// WithDefaults fills zero fields from DefaultEngineConfig and normalizes the
// mode; a mode ParseMode rejects becomes the default one
func (c EngineConfig) WithDefaults() EngineConfig {
	def := DefaultEngineConfig()
	mode, err := ParseMode(string(c.Mode))
	if err != nil {
		mode = def.Mode
	}
	c.Mode = mode
	if c.OpenDelimiter == "" && c.CloseDelimiter == "" {
		c.OpenDelimiter = def.OpenDelimiter
		c.CloseDelimiter = def.CloseDelimiter
	}
	if c.Spelling == "" {
		c.Spelling = def.Spelling
	}
	return c
}
