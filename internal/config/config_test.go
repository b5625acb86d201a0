package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, StorageFS, cfg.Storage.Backend)
	require.Equal(t, "Asia/Tokyo", cfg.Timezone)
	require.Equal(t, 7, cfg.Dashboard.HorizonDays)
	require.Equal(t, "karte.db", filepath.Base(cfg.DB.Path))
	require.Equal(t, "Asia/Tokyo", cfg.Location().String())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "karte.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
db:
  path: /tmp/file.db
storage:
  backend: minio
  minio:
    endpoint: localhost:9000
    bucket: from-file
dashboard:
  horizon_days: 14
timezone: UTC
`), 0o644))

	t.Setenv("KARTE_CONFIG_PATH", path)
	t.Setenv("KARTE_DB_PATH", "/tmp/env.db")
	t.Setenv("KARTE_MINIO_USE_SSL", "true")
	t.Setenv("KARTE_AUTH_TOKEN", "secret")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 9000, cfg.Server.Port)
	require.Equal(t, "/tmp/env.db", cfg.DB.Path)
	require.Equal(t, StorageMinio, cfg.Storage.Backend)
	require.Equal(t, "from-file", cfg.Storage.Minio.Bucket)
	require.True(t, cfg.Storage.Minio.UseSSL)
	require.Equal(t, 14, cfg.Dashboard.HorizonDays)
	require.Equal(t, "secret", cfg.Auth.Token)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("KARTE_SERVER_PORT", "eighty")
	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"port":     func(c *Config) { c.Server.Port = 0 },
		"level":    func(c *Config) { c.Log.Level = "loud" },
		"backend":  func(c *Config) { c.Storage.Backend = "s3" },
		"minio":    func(c *Config) { c.Storage.Backend = StorageMinio },
		"horizon":  func(c *Config) { c.Dashboard.HorizonDays = 0 },
		"timezone": func(c *Config) { c.Timezone = "Mars/Olympus" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			require.Error(t, cfg.Validate())
		})
	}
	require.NoError(t, Default().Validate())
}
