package repertoire

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists songs and mixes in a SQLite database file
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and creates if needed) the database at path.
// ":memory:" opens a private in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// every pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db, dbPath: path}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// initialize creates the required tables.
func (s *SQLiteStore) initialize() error {
	songsTable := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		artist TEXT NOT NULL DEFAULT '',
		bpm INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL DEFAULT '',
		song_key TEXT NOT NULL DEFAULT '',
		original_key TEXT NOT NULL DEFAULT '',
		best_singer TEXT NOT NULL DEFAULT '',
		youtube_url TEXT NOT NULL DEFAULT '',
		added_by TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title COLLATE NOCASE);
	`

	mixesTable := `
	CREATE TABLE IF NOT EXISTS mixes (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		mix_date INTEGER NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		songs_json TEXT NOT NULL DEFAULT '[]',
		created_by TEXT NOT NULL DEFAULT ''
	);
	CREATE INDEX IF NOT EXISTS idx_mixes_date ON mixes(mix_date);
	`

	for _, table := range []string{songsTable, mixesTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ========== Songs ==========

const songColumns = `id, title, artist, bpm, content, song_key, original_key, best_singer, youtube_url, added_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSong(row rowScanner) (Song, error) {
	var (
		s                Song
		created, updated int64
	)
	err := row.Scan(&s.ID, &s.Title, &s.Artist, &s.BPM, &s.Content, &s.Key, &s.OriginalKey,
		&s.BestSinger, &s.YoutubeURL, &s.AddedBy, &created, &updated)
	if err != nil {
		return Song{}, err
	}
	s.CreatedAt = fromMillis(created)
	s.UpdatedAt = fromMillis(updated)
	return s, nil
}

func (s *SQLiteStore) ListSongs(ctx context.Context) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+songColumns+` FROM songs`)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}
	defer rows.Close()

	songs := []Song{}
	for rows.Next() {
		song, err := scanSong(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song: %w", err)
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list songs: %w", err)
	}

	// same collation as MemoryStore rather than SQLite's NOCASE
	sortSongs(songs)
	return songs, nil
}

func (s *SQLiteStore) GetSong(ctx context.Context, id string) (Song, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM songs WHERE id = ?`, id)
	song, err := scanSong(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Song{}, ErrNotFound
	}
	if err != nil {
		return Song{}, fmt.Errorf("failed to get song: %w", err)
	}
	return song, nil
}

func (s *SQLiteStore) CreateSong(ctx context.Context, song Song) (Song, error) {
	if err := song.Validate(); err != nil {
		return Song{}, err
	}
	if song.ID == "" {
		song.ID = newID()
	}
	song.CreatedAt = now()
	song.UpdatedAt = song.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO songs (`+songColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		song.ID, song.Title, song.Artist, song.BPM, song.Content, song.Key, song.OriginalKey,
		song.BestSinger, song.YoutubeURL, song.AddedBy, toMillis(song.CreatedAt), toMillis(song.UpdatedAt))
	if err != nil {
		return Song{}, fmt.Errorf("failed to create song: %w", err)
	}
	return song, nil
}

func (s *SQLiteStore) UpdateSong(ctx context.Context, song Song) (Song, error) {
	if err := song.Validate(); err != nil {
		return Song{}, err
	}
	prev, err := s.GetSong(ctx, song.ID)
	if err != nil {
		return Song{}, err
	}
	song.CreatedAt = prev.CreatedAt
	song.UpdatedAt = now()

	_, err = s.db.ExecContext(ctx, `
		UPDATE songs SET title = ?, artist = ?, bpm = ?, content = ?, song_key = ?, original_key = ?,
			best_singer = ?, youtube_url = ?, added_by = ?, updated_at = ?
		WHERE id = ?`,
		song.Title, song.Artist, song.BPM, song.Content, song.Key, song.OriginalKey,
		song.BestSinger, song.YoutubeURL, song.AddedBy, toMillis(song.UpdatedAt), song.ID)
	if err != nil {
		return Song{}, fmt.Errorf("failed to update song: %w", err)
	}
	return song, nil
}

func (s *SQLiteStore) DeleteSong(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "songs", id)
}

// ========== Mixes ==========

const mixColumns = `id, title, mix_date, description, songs_json, created_by`

func scanMix(row rowScanner) (Mix, error) {
	var (
		m         Mix
		date      int64
		songsJSON string
	)
	if err := row.Scan(&m.ID, &m.Title, &date, &m.Description, &songsJSON, &m.CreatedBy); err != nil {
		return Mix{}, err
	}
	m.Date = fromMillis(date)
	if err := json.Unmarshal([]byte(songsJSON), &m.Songs); err != nil {
		return Mix{}, fmt.Errorf("failed to decode mix songs: %w", err)
	}
	if m.Songs == nil {
		m.Songs = []string{}
	}
	return m, nil
}

func encodeSongs(ids []string) (string, error) {
	data, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode mix songs: %w", err)
	}
	return string(data), nil
}

func (s *SQLiteStore) ListMixes(ctx context.Context) ([]Mix, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+mixColumns+` FROM mixes ORDER BY mix_date DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list mixes: %w", err)
	}
	defer rows.Close()

	mixes := []Mix{}
	for rows.Next() {
		mix, err := scanMix(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mix: %w", err)
		}
		mixes = append(mixes, mix)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list mixes: %w", err)
	}
	return mixes, nil
}

func (s *SQLiteStore) GetMix(ctx context.Context, id string) (Mix, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+mixColumns+` FROM mixes WHERE id = ?`, id)
	mix, err := scanMix(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Mix{}, ErrNotFound
	}
	if err != nil {
		return Mix{}, fmt.Errorf("failed to get mix: %w", err)
	}
	return mix, nil
}

func (s *SQLiteStore) CreateMix(ctx context.Context, mix Mix) (Mix, error) {
	if err := mix.Validate(); err != nil {
		return Mix{}, err
	}
	if mix.ID == "" {
		mix.ID = newID()
	}
	if mix.Date.IsZero() {
		mix.Date = now()
	}
	mix.Songs = cloneIDs(mix.Songs)
	songs, err := encodeSongs(mix.Songs)
	if err != nil {
		return Mix{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO mixes (`+mixColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		mix.ID, mix.Title, toMillis(mix.Date), mix.Description, songs, mix.CreatedBy)
	if err != nil {
		return Mix{}, fmt.Errorf("failed to create mix: %w", err)
	}
	return mix, nil
}

func (s *SQLiteStore) UpdateMix(ctx context.Context, mix Mix) (Mix, error) {
	if err := mix.Validate(); err != nil {
		return Mix{}, err
	}
	prev, err := s.GetMix(ctx, mix.ID)
	if err != nil {
		return Mix{}, err
	}
	if mix.Date.IsZero() {
		mix.Date = prev.Date
	}
	mix.Songs = cloneIDs(mix.Songs)
	songs, err := encodeSongs(mix.Songs)
	if err != nil {
		return Mix{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE mixes SET title = ?, mix_date = ?, description = ?, songs_json = ?, created_by = ? WHERE id = ?`,
		mix.Title, toMillis(mix.Date), mix.Description, songs, mix.CreatedBy, mix.ID)
	if err != nil {
		return Mix{}, fmt.Errorf("failed to update mix: %w", err)
	}
	return mix, nil
}

func (s *SQLiteStore) DeleteMix(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "mixes", id)
}

// table is always one of the package's own table names
func (s *SQLiteStore) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
