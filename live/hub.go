package live

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/alabanza/alabanza/logging"
)

var (
	// ErrEmptySignal is returned by SendSignal for a blank cue
	ErrEmptySignal = errors.New("signal is required")
	// ErrUnknownCommand is returned by Apply for unsupported command types
	ErrUnknownCommand = errors.New("unsupported command")
)

// Signals are the director cues offered to the worship team
var Signals = []string{
	"Ministrar",
	"Fluir",
	"Coro",
	"Intro",
	"Verso",
	"Puente",
	"TERMINAR",
	"Predicador subiendo",
	"Nueva Canción Solicitada",
}

// IsKnownSignal reports whether s is one of Signals
func IsKnownSignal(s string) bool {
	for _, sig := range Signals {
		if sig == s {
			return true
		}
	}
	return false
}

// State is the shared live-session blob every viewer sees
type State struct {
	ActiveSongID string    `json:"active_song_id,omitempty"`
	ActiveMixID  string    `json:"active_mix_id,omitempty"`
	Signal       string    `json:"signal,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	Version      uint64    `json:"version"`
}

// Hub holds the current live state and fans changes out to subscribers
type Hub struct {
	mu      sync.Mutex
	state   State
	changed chan struct{}
	logger  logging.Logger
}

// NewHub creates a hub with an empty state
func NewHub() *Hub {
	return &Hub{
		state:   State{Timestamp: time.Now().UTC()},
		changed: make(chan struct{}),
		logger: logging.WithFields(logging.Fields{
			"component": "live_hub",
		}),
	}
}

// Current returns a snapshot of the state
func (h *Hub) Current() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// SetActiveSong points every viewer at songID
func (h *Hub) SetActiveSong(songID string) State {
	return h.update("set_active_song", func(s *State) {
		s.ActiveSongID = strings.TrimSpace(songID)
	})
}

// SetActiveMix selects the set list being played
func (h *Hub) SetActiveMix(mixID string) State {
	return h.update("set_active_mix", func(s *State) {
		s.ActiveMixID = strings.TrimSpace(mixID)
	})
}

// SendSignal broadcasts a director cue. Cues persist until replaced or cleared.
func (h *Hub) SendSignal(signal string) (State, error) {
	signal = strings.TrimSpace(signal)
	if signal == "" {
		return h.Current(), ErrEmptySignal
	}
	return h.update("send_signal", func(s *State) {
		s.Signal = signal
	}), nil
}

// ClearSignal removes the current cue
func (h *Hub) ClearSignal() State {
	return h.update("clear_signal", func(s *State) {
		s.Signal = ""
	})
}

// ClearActiveSong removes the active song
func (h *Hub) ClearActiveSong() State {
	return h.update("clear_active_song", func(s *State) {
		s.ActiveSongID = ""
	})
}

// Apply runs a client command (set_song, set_mix, signal, clear_signal,
// clear_song) and returns the resulting state
func (h *Hub) Apply(cmd Inbound) (State, error) {
	switch strings.ToLower(strings.TrimSpace(cmd.Type)) {
	case "set_song":
		return h.SetActiveSong(cmd.ID), nil
	case "set_mix":
		return h.SetActiveMix(cmd.ID), nil
	case "signal":
		return h.SendSignal(cmd.Signal)
	case "clear_signal":
		return h.ClearSignal(), nil
	case "clear_song":
		return h.ClearActiveSong(), nil
	}
	return h.Current(), fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Type)
}

func (h *Hub) update(op string, fn func(*State)) State {
	h.mu.Lock()
	fn(&h.state)
	h.state.Timestamp = time.Now().UTC()
	h.state.Version++
	st := h.state
	close(h.changed)
	h.changed = make(chan struct{})
	h.mu.Unlock()

	h.logger.Debug("Live state updated", logging.Fields{
		"op":      op,
		"version": st.Version,
		"song_id": st.ActiveSongID,
		"signal":  st.Signal,
	})
	return st
}

// Subscribe emits the current state immediately and then every change until
// ctx is canceled, when the channel is closed. A slow reader only misses
// intermediate states, never the latest one.
func (h *Hub) Subscribe(ctx context.Context) <-chan State {
	out := make(chan State, 1)

	go func() {
		defer close(out)
		for {
			h.mu.Lock()
			st := h.state
			ch := h.changed
			h.mu.Unlock()

			pushState(out, st)

			select {
			case <-ctx.Done():
				return
			case <-ch:
			}
		}
	}()

	return out
}

// pushState replaces any unread state so the buffer always holds the newest
func pushState(out chan State, st State) {
	select {
	case out <- st:
		return
	default:
	}
	select {
	case <-out:
	default:
	}
	select {
	case out <- st:
	default:
	}
}
