// Package config loads hikari settings from config.yaml and HIKARI_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sandeepkv93/hikari/internal/storage"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "HIKARI"
	databaseFile   = "hikari.db"
)

const (
	KeyDatabaseDriver = "database.driver"
	KeyDatabasePath   = "database.path"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogFile        = "log.file"
	KeyTimezone       = "timezone"
	KeyAlertsEnabled  = "alerts.enabled"
	KeyAlertsLead     = "alerts.lead"
	KeyAlertsBuffer   = "alerts.buffer"
)

var (
	ErrDriverUnknown   = errors.New("config: unknown database driver")
	ErrPathEmpty       = errors.New("config: database path is empty")
	ErrTimezoneInvalid = errors.New("config: invalid timezone")
	ErrAlertsInvalid   = errors.New("config: invalid alert settings")
)

const defaultConfigYAML = `# hikari configuration
# Every key can be overridden with HIKARI_<SECTION>_<KEY>, e.g. HIKARI_DATABASE_DRIVER.

database:
  # sqlite3 (cgo) or sqlite (pure Go)
  driver: sqlite3
  # path: defaults to <data dir>/hikari.db

log:
  level: info
  format: text
  # file: defaults to <data dir>/hikari.log for the terminal UI

# IANA zone that decides which day is "today"; empty means the system zone.
timezone: ""

alerts:
  enabled: true
  lead: 15m
  buffer: 64
`

type Database struct {
	Driver string
	Path   string
}

type Log struct {
	Level  string
	Format string
	File   string
}

type Alerts struct {
	Enabled bool
	Lead    time.Duration
	Buffer  int
}

type Config struct {
	ConfigDir string
	DataDir   string
	Database  Database
	Log       Log
	Timezone  string
	Alerts    Alerts
}

func Default(dataDir string) Config {
	return Config{
		DataDir: dataDir,
		Database: Database{
			Driver: storage.DriverCGO,
			Path:   filepath.Join(dataDir, databaseFile),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(dataDir, AppName+".log"),
		},
		Alerts: Alerts{
			Enabled: true,
			Lead:    15 * time.Minute,
			Buffer:  64,
		},
	}
}

// Load reads config.yaml from configDir, writing a default one on first
// run, and layers HIKARI_* environment variables on top.
func Load(configDir, dataDir string) (Config, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return Config{}, fmt.Errorf("ensure default config: %w", err)
	}

	def := Default(dataDir)
	v := viper.New()
	v.SetDefault(KeyDatabaseDriver, def.Database.Driver)
	v.SetDefault(KeyDatabasePath, "")
	v.SetDefault(KeyLogLevel, def.Log.Level)
	v.SetDefault(KeyLogFormat, def.Log.Format)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyTimezone, "")
	v.SetDefault(KeyAlertsEnabled, def.Alerts.Enabled)
	v.SetDefault(KeyAlertsLead, def.Alerts.Lead)
	v.SetDefault(KeyAlertsBuffer, def.Alerts.Buffer)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := def
	cfg.ConfigDir = configDir
	cfg.Database.Driver = strings.TrimSpace(v.GetString(KeyDatabaseDriver))
	if p := strings.TrimSpace(v.GetString(KeyDatabasePath)); p != "" {
		cfg.Database.Path = p
	}
	cfg.Log.Level = strings.ToLower(v.GetString(KeyLogLevel))
	cfg.Log.Format = strings.ToLower(v.GetString(KeyLogFormat))
	if f := strings.TrimSpace(v.GetString(KeyLogFile)); f != "" {
		cfg.Log.File = f
	}
	cfg.Timezone = strings.TrimSpace(v.GetString(KeyTimezone))
	cfg.Alerts.Enabled = v.GetBool(KeyAlertsEnabled)
	cfg.Alerts.Lead = v.GetDuration(KeyAlertsLead)
	cfg.Alerts.Buffer = v.GetInt(KeyAlertsBuffer)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if !storage.ValidDriver(c.Database.Driver) {
		return fmt.Errorf("%w: %q", ErrDriverUnknown, c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return ErrPathEmpty
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Alerts.Lead < 0 || c.Alerts.Buffer <= 0 {
		return fmt.Errorf("%w: lead=%s buffer=%d", ErrAlertsInvalid, c.Alerts.Lead, c.Alerts.Buffer)
	}
	return nil
}

// Location resolves Timezone, falling back to the system zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTimezoneInvalid, c.Timezone)
	}
	return loc, nil
}

func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
