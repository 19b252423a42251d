package repertoire

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a song or mix id does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalid wraps validation failures on incoming records
	ErrInvalid = errors.New("invalid record")
)

// Song is one repertoire entry: lyrics with inline chords plus metadata
type Song struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	BPM         int       `json:"bpm,omitempty"`
	Content     string    `json:"content"`
	Key         string    `json:"key"`
	OriginalKey string    `json:"original_key,omitempty"`
	BestSinger  string    `json:"best_singer,omitempty"`
	YoutubeURL  string    `json:"youtube_url,omitempty"`
	AddedBy     string    `json:"added_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Validate checks the fields every stored song must have
func (s Song) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("%w: song title is required", ErrInvalid)
	}
	if s.BPM < 0 {
		return fmt.Errorf("%w: bpm must not be negative", ErrInvalid)
	}
	return nil
}

// Mix is an ordered set list of song ids
type Mix struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Songs       []string  `json:"songs"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// Validate checks the fields every stored mix must have
func (m Mix) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: mix title is required", ErrInvalid)
	}
	return nil
}

// Store persists songs and mixes. Songs are listed by title, mixes by date
// with the newest first.
type Store interface {
	ListSongs(ctx context.Context) ([]Song, error)
	GetSong(ctx context.Context, id string) (Song, error)
	CreateSong(ctx context.Context, song Song) (Song, error)
	UpdateSong(ctx context.Context, song Song) (Song, error)
	DeleteSong(ctx context.Context, id string) error

	ListMixes(ctx context.Context) ([]Mix, error)
	GetMix(ctx context.Context, id string) (Mix, error)
	CreateMix(ctx context.Context, mix Mix) (Mix, error)
	UpdateMix(ctx context.Context, mix Mix) (Mix, error)
	DeleteMix(ctx context.Context, id string) error

	Close() error
}

// cloneIDs copies a mix's song list, never returning nil
func cloneIDs(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func sortSongs(songs []Song) {
	sort.SliceStable(songs, func(i, j int) bool {
		a, b := strings.ToLower(songs[i].Title), strings.ToLower(songs[j].Title)
		if a != b {
			return a < b
		}
		return songs[i].ID < songs[j].ID
	})
}

func sortMixes(mixes []Mix) {
	sort.SliceStable(mixes, func(i, j int) bool {
		if !mixes[i].Date.Equal(mixes[j].Date) {
			return mixes[i].Date.After(mixes[j].Date)
		}
		return mixes[i].ID < mixes[j].ID
	})
}
