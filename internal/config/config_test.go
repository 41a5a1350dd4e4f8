package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PLAYMAT_CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "127.0.0.1:8080", cfg.Server.Address())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playmat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
transport:
  mode: stdio
db:
  path: ${PLAYMAT_TEST_DIR}/mat.db
editor:
  save_debounce: 1s
  history_limit: 20
`), 0o644))
	t.Setenv("PLAYMAT_TEST_DIR", "/data")
	t.Setenv("PLAYMAT_SERVER_PORT", "9100")
	t.Setenv("PLAYMAT_LOG_LEVEL", "debug")
	t.Setenv("PLAYMAT_EXPORT_DIR", "/out")
	t.Setenv("PLAYMAT_ASSET_DIR", "/assets")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9100, cfg.Server.Port)
	require.Equal(t, TransportStdio, cfg.Transport.Mode)
	require.Equal(t, "/data/mat.db", cfg.DB.Path)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, time.Second, cfg.Editor.SaveDebounce)
	require.Equal(t, 20, cfg.Editor.HistoryLimit)
	require.Equal(t, "/out", cfg.Export.Dir)
	require.Equal(t, "/assets", cfg.Assets.Dir)
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "playmat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: other.db\n"), 0o644))
	t.Setenv("PLAYMAT_CONFIG_PATH", path)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "other.db", cfg.DB.Path)
}

func TestLoadRejectsBadEnv(t *testing.T) {
	t.Setenv("PLAYMAT_CONFIG_PATH", "")

	t.Setenv("PLAYMAT_SERVER_PORT", "eighty")
	_, err := Load("")
	require.ErrorContains(t, err, "PLAYMAT_SERVER_PORT")

	t.Setenv("PLAYMAT_SERVER_PORT", "")
	t.Setenv("PLAYMAT_SAVE_DEBOUNCE", "soon")
	_, err = Load("")
	require.ErrorContains(t, err, "PLAYMAT_SAVE_DEBOUNCE")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"server":    func(c *Config) { c.Server.Port = 70000 },
		"transport": func(c *Config) { c.Transport.Mode = "carrier-pigeon" },
		"db":        func(c *Config) { c.DB.Path = "" },
		"log":       func(c *Config) { c.Log.Level = "loud" },
		"editor":    func(c *Config) { c.Editor.SaveDebounce = -time.Second },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), name)
		})
	}

	cfg := Default()
	require.NoError(t, cfg.Validate())
}
