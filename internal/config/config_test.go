package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "cfg")
	dataDir := t.TempDir()

	cfg, err := Load(configDir, dataDir)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, statErr, "default config.yaml should be written")

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dataDir, "hikari.db"), cfg.Database.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 15*time.Minute, cfg.Alerts.Lead)
	assert.Equal(t, 64, cfg.Alerts.Buffer)
	assert.True(t, cfg.Alerts.Enabled)
	assert.Equal(t, configDir, cfg.ConfigDir)
}

func TestLoadReadsConfigFile(t *testing.T) {
	configDir := t.TempDir()
	content := `database:
  driver: sqlite
  path: /tmp/elsewhere.db
log:
  level: debug
  format: json
timezone: UTC
alerts:
  enabled: false
  lead: 1h
  buffer: 8
`
	require.NoError(t, os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load(configDir, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/elsewhere.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Alerts.Enabled)
	assert.Equal(t, time.Hour, cfg.Alerts.Lead)
	assert.Equal(t, 8, cfg.Alerts.Buffer)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HIKARI_DATABASE_DRIVER", "sqlite")
	t.Setenv("HIKARI_LOG_LEVEL", "WARN")
	t.Setenv("HIKARI_ALERTS_BUFFER", "128")

	cfg, err := Load(t.TempDir(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 128, cfg.Alerts.Buffer)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "postgres" }, want: ErrDriverUnknown},
		{name: "empty path", mutate: func(c *Config) { c.Database.Path = " " }, want: ErrPathEmpty},
		{name: "bad timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, want: ErrTimezoneInvalid},
		{name: "bad buffer", mutate: func(c *Config) { c.Alerts.Buffer = 0 }, want: ErrAlertsInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default(t.TempDir())
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}

	assert.NoError(t, Default(t.TempDir()).Validate())
}

func TestResolveDirs(t *testing.T) {
	flagDir := t.TempDir()
	got, err := ResolveConfigDir(flagDir)
	require.NoError(t, err)
	assert.Equal(t, flagDir, got)

	envDir := t.TempDir()
	t.Setenv(EnvDataDir, envDir)
	got, err = ResolveDataDir("")
	require.NoError(t, err)
	assert.Equal(t, envDir, got)

	xdg := t.TempDir()
	t.Setenv(EnvConfigDir, "")
	t.Setenv("XDG_CONFIG_HOME", xdg)
	orig := platformDir.userConfigDir
	platformDir.userConfigDir = func() (string, error) { return xdg, nil }
	defer func() { platformDir.userConfigDir = orig }()

	got, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(xdg, AppName), got)
}
