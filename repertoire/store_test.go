package repertoire

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	mem, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	file, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "alabanza.db"))
	require.NoError(t, err)

	all := map[string]Store{
		"memory":        NewMemoryStore(),
		"sqlite-memory": mem,
		"sqlite-file":   file,
	}
	t.Cleanup(func() {
		for _, s := range all {
			_ = s.Close()
		}
	})
	return all
}

func TestStore_SongLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			created, err := store.CreateSong(ctx, Song{
				Title:   "Sublime Gracia",
				Artist:  "Himnario",
				Key:     "C",
				Content: "[C]Sublime gracia [F]del Señor",
				BPM:     72,
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)
			assert.False(t, created.CreatedAt.IsZero())

			got, err := store.GetSong(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)

			got.Key = "D"
			got.BestSinger = "Ana"
			updated, err := store.UpdateSong(ctx, got)
			require.NoError(t, err)
			assert.Equal(t, created.CreatedAt, updated.CreatedAt)
			assert.False(t, updated.UpdatedAt.Before(created.UpdatedAt))

			got, err = store.GetSong(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, "D", got.Key)
			assert.Equal(t, "Ana", got.BestSinger)

			require.NoError(t, store.DeleteSong(ctx, created.ID))
			_, err = store.GetSong(ctx, created.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, store.DeleteSong(ctx, created.ID), ErrNotFound)
		})
	}
}

func TestStore_SongErrors(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := store.CreateSong(ctx, Song{Title: "  "})
			assert.ErrorIs(t, err, ErrInvalid)

			_, err = store.CreateSong(ctx, Song{Title: "Negativo", BPM: -1})
			assert.ErrorIs(t, err, ErrInvalid)

			_, err = store.UpdateSong(ctx, Song{ID: "missing", Title: "Nada"})
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStore_ListSongsByTitle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, title := range []string{"Cuán Grande Es Él", "al que está sentado", "Sublime Gracia"} {
				_, err := store.CreateSong(ctx, Song{Title: title})
				require.NoError(t, err)
			}

			songs, err := store.ListSongs(ctx)
			require.NoError(t, err)
			require.Len(t, songs, 3)
			assert.Equal(t, "al que está sentado", songs[0].Title)
			assert.Equal(t, "Cuán Grande Es Él", songs[1].Title)
			assert.Equal(t, "Sublime Gracia", songs[2].Title)
		})
	}
}

func TestStore_MixLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sunday := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

			created, err := store.CreateMix(ctx, Mix{
				Title: "Domingo",
				Date:  sunday,
				Songs: []string{"a", "b", "c"},
			})
			require.NoError(t, err)
			assert.NotEmpty(t, created.ID)

			got, err := store.GetMix(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, created, got)

			got.Songs = []string{"c", "a"}
			got.Date = time.Time{}
			updated, err := store.UpdateMix(ctx, got)
			require.NoError(t, err)
			assert.True(t, sunday.Equal(updated.Date), "zero date keeps the stored one")

			got, err = store.GetMix(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"c", "a"}, got.Songs)

			empty, err := store.CreateMix(ctx, Mix{Title: "Vacío"})
			require.NoError(t, err)
			assert.NotNil(t, empty.Songs)
			assert.False(t, empty.Date.IsZero())

			require.NoError(t, store.DeleteMix(ctx, created.ID))
			_, err = store.GetMix(ctx, created.ID)
			assert.ErrorIs(t, err, ErrNotFound)

			_, err = store.CreateMix(ctx, Mix{})
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestStore_ListMixesNewestFirst(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			base := time.Date(2026, 1, 4, 10, 0, 0, 0, time.UTC)
			for i, title := range []string{"Enero", "Febrero", "Marzo"} {
				_, err := store.CreateMix(ctx, Mix{Title: title, Date: base.AddDate(0, i, 0)})
				require.NoError(t, err)
			}

			mixes, err := store.ListMixes(ctx)
			require.NoError(t, err)
			require.Len(t, mixes, 3)
			assert.Equal(t, "Marzo", mixes[0].Title)
			assert.Equal(t, "Enero", mixes[2].Title)
		})
	}
}

func TestMemoryStore_MixSongsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	ids := []string{"a", "b"}
	mix, err := store.CreateMix(ctx, Mix{Title: "Domingo", Songs: ids})
	require.NoError(t, err)
	ids[0] = "mutated"

	got, err := store.GetMix(ctx, mix.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.Songs)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryStore().ListSongs(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
