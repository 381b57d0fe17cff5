package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPPort)
	assert.Equal(t, 80, cfg.PassThreshold)
	assert.Equal(t, 70.0, cfg.CertMinScore)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.Origins())
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	content := "DB_HOST=db\nDB_NAME=courses\nPASS_THRESHOLD=75\nALLOWED_ORIGINS=https://a.example, https://b.example\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	t.Setenv("DB_NAME", "override")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "override", cfg.DBName)
	assert.Equal(t, 75, cfg.PassThreshold)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Origins())
	assert.Contains(t, cfg.DSN(), "dbname=override")
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ACCESS_SECRET=from-dotenv\n"), 0o600))
	t.Setenv("ACCESS_SECRET", "")
	os.Unsetenv("ACCESS_SECRET")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.AccessSecret)
}
