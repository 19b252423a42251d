package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alabanza/alabanza/config"
	"github.com/alabanza/alabanza/repertoire"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--config", cfgPath}, args...))

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestTransposeCmd_Semitones(t *testing.T) {
	out, errOut, err := run(t, "[C]Sublime [F]gracia\n", "transpose", "-s", "2", "-k", "C", "--summary")
	require.NoError(t, err)
	assert.Equal(t, "[D]Sublime [G]gracia\n", out)
	assert.Contains(t, errOut, "C -> D (+2)")
}

func TestTransposeCmd_ToKeyEstimatesOrigin(t *testing.T) {
	out, _, err := run(t, "[C]Sublime [F]gracia\n[G]del [Am]Señor", "transpose", "--to", "Bb")
	require.NoError(t, err)
	assert.Equal(t, "[Bb]Sublime [Eb]gracia\n[F]del [Gm]Señor\n", out)
}

func TestTransposeCmd_FileAndMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	require.NoError(t, os.WriteFile(path, []byte("C G Am\nCantaré de tu amor\n"), 0644))

	out, _, err := run(t, "", "transpose", path, "-s", "2", "-k", "C", "--mode", "undelimited")
	require.NoError(t, err)
	assert.Equal(t, "D A Bm\nCantaré de tu amor\n", out)

	out, _, err = run(t, "", "transpose", path, "-s", "2", "-k", "C", "--mode", "delimited")
	require.NoError(t, err)
	assert.Equal(t, "C G Am\nCantaré de tu amor\n", out)
}

func TestTransposeCmd_Errors(t *testing.T) {
	_, _, err := run(t, "[C]", "transpose", "--to", "H")
	assert.Error(t, err)

	_, _, err = run(t, "[C]", "transpose", "--mode", "sideways")
	assert.Error(t, err)

	_, _, err = run(t, "", "transpose", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestKeyCmd(t *testing.T) {
	out, _, err := run(t, "[C]Sublime [F]gracia\n[G]del [Am]Señor", "key")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "C (confidence "), out)

	_, _, err = run(t, "sin acordes", "key")
	assert.Error(t, err)
}

func TestDistanceCmd(t *testing.T) {
	out, _, err := run(t, "", "distance", "G", "F")
	require.NoError(t, err)
	assert.Equal(t, "G -> F: -2 semitones (shortest -2, 2 steps on the circle of fifths)\n", out)

	_, _, err = run(t, "", "distance", "G", "Do")
	assert.Error(t, err)
}

func TestKeysCmd(t *testing.T) {
	out, _, err := run(t, "", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "major: C C# Db D")
	assert.Contains(t, out, "minor: Cm C#m")
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	t.Setenv("ALABANZA_MODE", "sideways")
	_, _, err := run(t, "", "keys")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestInitLogger(t *testing.T) {
	assert.NoError(t, initLogger(config.LoggingConfig{Level: "debug", Format: "json"}))
	assert.NoError(t, initLogger(config.LoggingConfig{}))
	assert.Error(t, initLogger(config.LoggingConfig{Format: "xml"}))
	assert.Error(t, initLogger(config.LoggingConfig{Level: "loud"}))
}

func TestOpenStore(t *testing.T) {
	store, err := openStore(config.StorageConfig{Driver: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &repertoire.MemoryStore{}, store)
	require.NoError(t, store.Close())

	store, err = openStore(config.StorageConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "db", "alabanza.db")})
	require.NoError(t, err)
	assert.IsType(t, &repertoire.SQLiteStore{}, store)
	require.NoError(t, store.Close())

	_, err = openStore(config.StorageConfig{Driver: "postgres"})
	assert.Error(t, err)
}
