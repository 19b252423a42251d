package live

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func receiveUntil(t *testing.T, ch <-chan State, match func(State) bool) State {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case st, ok := <-ch:
			require.True(t, ok, "subscription closed early")
			if match(st) {
				return st
			}
		case <-timeout:
			t.Fatal("timed out waiting for state")
			return State{}
		}
	}
}

func TestHub_Updates(t *testing.T) {
	hub := NewHub()
	assert.Zero(t, hub.Current().Version)
	assert.Empty(t, hub.Current().ActiveSongID)

	st := hub.SetActiveSong(" song-1 ")
	assert.Equal(t, "song-1", st.ActiveSongID)
	assert.Equal(t, uint64(1), st.Version)

	st = hub.SetActiveMix("mix-1")
	assert.Equal(t, "mix-1", st.ActiveMixID)
	assert.Equal(t, "song-1", st.ActiveSongID)

	st, err := hub.SendSignal("Coro")
	require.NoError(t, err)
	assert.Equal(t, "Coro", st.Signal)

	_, err = hub.SendSignal("   ")
	assert.ErrorIs(t, err, ErrEmptySignal)
	assert.Equal(t, "Coro", hub.Current().Signal)

	st = hub.ClearSignal()
	assert.Empty(t, st.Signal)
	st = hub.ClearActiveSong()
	assert.Empty(t, st.ActiveSongID)
	assert.Equal(t, "mix-1", st.ActiveMixID)
	assert.Equal(t, uint64(5), st.Version)
	assert.Equal(t, st, hub.Current())
}

func TestHub_Subscribe(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx)
	initial := receiveUntil(t, ch, func(State) bool { return true })
	assert.Zero(t, initial.Version)

	hub.SetActiveSong("song-1")
	st := receiveUntil(t, ch, func(s State) bool { return s.ActiveSongID == "song-1" })
	assert.Equal(t, uint64(1), st.Version)

	_, err := hub.SendSignal("TERMINAR")
	require.NoError(t, err)
	receiveUntil(t, ch, func(s State) bool { return s.Signal == "TERMINAR" })

	cancel()
	for range ch {
	}
}

func TestHub_Subscribe_SlowReaderSeesLatest(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := hub.Subscribe(ctx)
	for _, sig := range Signals {
		_, err := hub.SendSignal(sig)
		require.NoError(t, err)
	}

	last := Signals[len(Signals)-1]
	st := receiveUntil(t, ch, func(s State) bool { return s.Signal == last })
	assert.Equal(t, uint64(len(Signals)), st.Version)

	cancel()
	for range ch {
	}
}

func TestHub_ConcurrentSubscribers(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		ch := hub.Subscribe(ctx)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for st := range ch {
				if st.ActiveSongID == "final" {
					return
				}
			}
		}()
	}

	for i := 0; i < 20; i++ {
		hub.SetActiveMix("mix")
	}
	hub.SetActiveSong("final")
	wg.Wait()
	cancel()
}

func TestIsKnownSignal(t *testing.T) {
	assert.True(t, IsKnownSignal("Predicador subiendo"))
	assert.False(t, IsKnownSignal("coro"))
}

func TestHub_Apply(t *testing.T) {
	hub := NewHub()

	st, err := hub.Apply(Inbound{Type: "SET_SONG", ID: "song-1"})
	require.NoError(t, err)
	assert.Equal(t, "song-1", st.ActiveSongID)

	st, err = hub.Apply(Inbound{Type: "signal", Signal: "Fluir"})
	require.NoError(t, err)
	assert.Equal(t, "Fluir", st.Signal)

	_, err = hub.Apply(Inbound{Type: "signal"})
	assert.ErrorIs(t, err, ErrEmptySignal)

	st, err = hub.Apply(Inbound{Type: "clear_song"})
	require.NoError(t, err)
	assert.Empty(t, st.ActiveSongID)

	_, err = hub.Apply(Inbound{Type: "reboot"})
	assert.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, uint64(3), hub.Current().Version)
}
