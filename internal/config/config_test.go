package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithValidConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := `{
		"logLevel": "debug",
		"api": { "baseUrl": "https://den.example/api", "timeout": "2s" },
		"board": { "width": 640, "height": 480 },
		"share": { "port": 9000, "advertise": false }
	}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(cfg), 0644))

	got, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "debug", got.LogLevel)
	assert.Equal(t, "https://den.example/api", got.APIBaseURL)
	assert.Equal(t, 2*time.Second, got.APITimeout)
	assert.Equal(t, 640, got.BoardWidth)
	assert.Equal(t, 480, got.BoardHeight)
	assert.Equal(t, 9000, got.SharePort)
	assert.False(t, got.ShareAdvertise)
	assert.Equal(t, 44100, got.SampleRate)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	got, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", got.LogLevel)
	assert.Equal(t, "http://localhost:5000/api", got.APIBaseURL)
	assert.Equal(t, 8*time.Second, got.APITimeout)
	assert.Equal(t, 1200, got.BoardWidth)
	assert.Equal(t, 800, got.BoardHeight)
	assert.Equal(t, 8888, got.SharePort)
	assert.True(t, got.ShareAdvertise)
	assert.Equal(t, "decodingden.db", got.StorePath)
	assert.Equal(t, 140, got.WordsPerMinute)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"logLevel":`), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_RejectsEmptyBoard(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(`{"board":{"width":0}}`), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("DECODINGDEN_API_BASEURL", "http://lessons.local/api")
	t.Setenv("DECODINGDEN_SHARE_PORT", "9100")
	t.Setenv("DECODINGDEN_LOGLEVEL", "warn")

	got, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "http://lessons.local/api", got.APIBaseURL)
	assert.Equal(t, 9100, got.SharePort)
	assert.Equal(t, "warn", got.LogLevel)
}
