package repertoire

import (
	"context"
	"sync"
)

// MemoryStore keeps records in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	songs map[string]Song
	mixes map[string]Mix
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		songs: make(map[string]Song),
		mixes: make(map[string]Mix),
	}
}

func (m *MemoryStore) ListSongs(ctx context.Context) ([]Song, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Song, 0, len(m.songs))
	for _, s := range m.songs {
		out = append(out, s)
	}
	sortSongs(out)
	return out, nil
}

func (m *MemoryStore) GetSong(ctx context.Context, id string) (Song, error) {
	if err := ctx.Err(); err != nil {
		return Song{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.songs[id]
	if !ok {
		return Song{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) CreateSong(ctx context.Context, song Song) (Song, error) {
	if err := ctx.Err(); err != nil {
		return Song{}, err
	}
	if err := song.Validate(); err != nil {
		return Song{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if song.ID == "" {
		song.ID = newID()
	}
	song.CreatedAt = now()
	song.UpdatedAt = song.CreatedAt
	m.songs[song.ID] = song
	return song, nil
}

func (m *MemoryStore) UpdateSong(ctx context.Context, song Song) (Song, error) {
	if err := ctx.Err(); err != nil {
		return Song{}, err
	}
	if err := song.Validate(); err != nil {
		return Song{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.songs[song.ID]
	if !ok {
		return Song{}, ErrNotFound
	}
	song.CreatedAt = prev.CreatedAt
	song.UpdatedAt = now()
	m.songs[song.ID] = song
	return song, nil
}

func (m *MemoryStore) DeleteSong(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.songs[id]; !ok {
		return ErrNotFound
	}
	delete(m.songs, id)
	return nil
}

func (m *MemoryStore) ListMixes(ctx context.Context) ([]Mix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Mix, 0, len(m.mixes))
	for _, mix := range m.mixes {
		mix.Songs = cloneIDs(mix.Songs)
		out = append(out, mix)
	}
	sortMixes(out)
	return out, nil
}

func (m *MemoryStore) GetMix(ctx context.Context, id string) (Mix, error) {
	if err := ctx.Err(); err != nil {
		return Mix{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	mix, ok := m.mixes[id]
	if !ok {
		return Mix{}, ErrNotFound
	}
	mix.Songs = cloneIDs(mix.Songs)
	return mix, nil
}

func (m *MemoryStore) CreateMix(ctx context.Context, mix Mix) (Mix, error) {
	if err := ctx.Err(); err != nil {
		return Mix{}, err
	}
	if err := mix.Validate(); err != nil {
		return Mix{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if mix.ID == "" {
		mix.ID = newID()
	}
	if mix.Date.IsZero() {
		mix.Date = now()
	}
	mix.Songs = cloneIDs(mix.Songs)
	m.mixes[mix.ID] = mix
	return mix, nil
}

func (m *MemoryStore) UpdateMix(ctx context.Context, mix Mix) (Mix, error) {
	if err := ctx.Err(); err != nil {
		return Mix{}, err
	}
	if err := mix.Validate(); err != nil {
		return Mix{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	prev, ok := m.mixes[mix.ID]
	if !ok {
		return Mix{}, ErrNotFound
	}
	if mix.Date.IsZero() {
		mix.Date = prev.Date
	}
	mix.Songs = cloneIDs(mix.Songs)
	m.mixes[mix.ID] = mix
	return mix, nil
}

func (m *MemoryStore) DeleteMix(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.mixes[id]; !ok {
		return ErrNotFound
	}
	delete(m.mixes, id)
	return nil
}

// Close is a no-op
func (m *MemoryStore) Close() error {
	return nil
}
