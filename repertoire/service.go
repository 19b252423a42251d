package repertoire

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/alabanza/alabanza/algorithms/tonal"
	"github.com/alabanza/alabanza/logging"
	"github.com/alabanza/alabanza/transpose"
)

// Transposition pairs a stored song with its transposed rendering
type Transposition struct {
	Song   Song             `json:"song"`
	Result transpose.Result `json:"result"`
}

// Service joins the record store with the transposition engine
type Service struct {
	store  Store
	engine transpose.Transposer
	logger logging.Logger
}

// NewService creates a service; a nil engine uses transpose.NewEngine(nil)
func NewService(store Store, engine transpose.Transposer) *Service {
	if engine == nil {
		engine = transpose.NewEngine(nil)
	}
	return &Service{
		store:  store,
		engine: engine,
		logger: logging.WithFields(logging.Fields{
			"component": "repertoire_service",
		}),
	}
}

// Store returns the underlying record store
func (s *Service) Store() Store {
	return s.store
}

// CreateSong stores a new song, estimating its key from the chords when none
// is given. OriginalKey defaults to Key.
func (s *Service) CreateSong(ctx context.Context, song Song) (Song, error) {
	s.fillKeys(&song)
	return s.store.CreateSong(ctx, song)
}

// UpdateSong replaces a stored song, applying the same key defaults as CreateSong
func (s *Service) UpdateSong(ctx context.Context, song Song) (Song, error) {
	s.fillKeys(&song)
	return s.store.UpdateSong(ctx, song)
}

func (s *Service) fillKeys(song *Song) {
	if song.Key == "" {
		if est, ok := s.engine.EstimateKey(song.Content); ok {
			song.Key = est.Key.Name()
			s.logger.Info("Estimated song key", logging.Fields{
				"title":      song.Title,
				"key":        song.Key,
				"confidence": est.Confidence,
			})
		}
	}
	if song.OriginalKey == "" {
		song.OriginalKey = song.Key
	}
}

// TransposeSong shifts a stored song by semitones from its key
func (s *Service) TransposeSong(ctx context.Context, id string, semitones int) (Transposition, error) {
	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return Transposition{}, fmt.Errorf("song %s: %w", id, err)
	}
	return Transposition{
		Song:   song,
		Result: s.engine.Transpose(song.Content, semitones, song.Key),
	}, nil
}

// TransposeSongToKey moves a stored song to the named key. Unlike the engine,
// which degrades silently, an unknown target key is an error here.
func (s *Service) TransposeSongToKey(ctx context.Context, id, key string) (Transposition, error) {
	if _, err := tonal.ParseKeyStrict(key); err != nil {
		return Transposition{}, err
	}
	song, err := s.store.GetSong(ctx, id)
	if err != nil {
		return Transposition{}, fmt.Errorf("song %s: %w", id, err)
	}
	return Transposition{
		Song:   song,
		Result: s.engine.TransposeTo(song.Content, song.Key, key),
	}, nil
}

// TransposeMix transposes every song of a mix concurrently, shifting each by
// shifts[songID] (zero when absent). Results keep the mix order; songs that
// no longer exist are skipped.
func (s *Service) TransposeMix(ctx context.Context, mixID string, shifts map[string]int) (Mix, []Transposition, error) {
	mix, err := s.store.GetMix(ctx, mixID)
	if err != nil {
		return Mix{}, nil, fmt.Errorf("mix %s: %w", mixID, err)
	}

	logger := s.logger.WithFields(logging.Fields{
		"function": "TransposeMix",
		"mix_id":   mixID,
		"songs":    len(mix.Songs),
	})

	slots := make([]*Transposition, len(mix.Songs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))

	for i, songID := range mix.Songs {
		eg.Go(func() error {
			t, err := s.TransposeSong(egCtx, songID, shifts[songID])
			if errors.Is(err, ErrNotFound) {
				logger.Warn("Skipping missing song", logging.Fields{"song_id": songID})
				return nil
			}
			if err != nil {
				return err
			}
			slots[i] = &t
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Mix{}, nil, err
	}

	out := make([]Transposition, 0, len(slots))
	for _, t := range slots {
		if t != nil {
			out = append(out, *t)
		}
	}

	logger.Debug("Mix transposed", logging.Fields{"transposed": len(out)})
	return mix, out, nil
}
