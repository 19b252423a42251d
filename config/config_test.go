package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transposecfg "github.com/alabanza/alabanza/transpose/config"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, transposecfg.ModeAuto, cfg.Engine.Mode)
	assert.Equal(t, "[", cfg.Engine.OpenDelimiter)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	require.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alabanza.yaml")
	data := `
engine:
  mode: undelimited
  spelling: preference
  cache_size: 16
storage:
  driver: memory
server:
  addr: ":9090"
  ping_interval: 5s
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, transposecfg.ModeUndelimited, cfg.Engine.Mode)
	assert.Equal(t, transposecfg.SpellingPreference, cfg.Engine.Spelling)
	assert.Equal(t, 16, cfg.Engine.CacheSize)
	assert.Equal(t, "]", cfg.Engine.CloseDelimiter, "unset fields keep defaults")
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.PingInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("engine: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ALABANZA_MODE", "delimited")
	t.Setenv("ALABANZA_SPELLING", "preference")
	t.Setenv("ALABANZA_CACHE_SIZE", "8")
	t.Setenv("ALABANZA_DB", "/tmp/songs.db")
	t.Setenv("ALABANZA_STORAGE", "memory")
	t.Setenv("ALABANZA_ADDR", "127.0.0.1:7000")
	t.Setenv("ALABANZA_LOG_LEVEL", "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, transposecfg.ModeDelimited, cfg.Engine.Mode)
	assert.Equal(t, transposecfg.SpellingPreference, cfg.Engine.Spelling)
	assert.Equal(t, 8, cfg.Engine.CacheSize)
	assert.Equal(t, "/tmp/songs.db", cfg.Storage.Path)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestEnvOverrides_BadCacheSizeIgnored(t *testing.T) {
	t.Setenv("ALABANZA_CACHE_SIZE", "lots")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()
	assert.Equal(t, 256, cfg.Engine.CacheSize)
}

func TestValidate(t *testing.T) {
	t.Run("mode aliases are normalized", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.Mode = "Brackets"
		require.NoError(t, cfg.Validate())
		assert.Equal(t, transposecfg.ModeDelimited, cfg.Engine.Mode)
	})

	t.Run("unknown mode", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Engine.Mode = "html"
		assert.ErrorIs(t, cfg.Validate(), transposecfg.ErrInvalidMode)
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage.Driver = "firestore"
		assert.Error(t, cfg.Validate())
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Storage.Path = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("unknown log level", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Logging.Level = "chatty"
		assert.Error(t, cfg.Validate())
	})
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "alabanza.yaml")

	cfg := DefaultConfig()
	cfg.Server.Addr = ":1234"
	cfg.Engine.Mode = transposecfg.ModeUndelimited
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
