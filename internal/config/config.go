package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. SELLER_LOG_LEVEL.
const EnvPrefix = "SELLER"

// Store manages the runtime configuration for the console.
type Store struct {
	path   string
	Config Data
}

// Data represents persisted user preferences.
type Data struct {
	Name          string `json:"name" mapstructure:"name"`
	Timezone      string `json:"timezone" mapstructure:"timezone"`
	DataPath      string `json:"data_path" mapstructure:"data_path"`
	LogLevel      string `json:"log_level" mapstructure:"log_level"`
	LogFile       string `json:"log_file" mapstructure:"log_file"`
	LoadDelayMS   int    `json:"load_delay_ms" mapstructure:"load_delay_ms"`
	ActionDelayMS int    `json:"action_delay_ms" mapstructure:"action_delay_ms"`
}

// Load retrieves the config from the default location, creating defaults if needed.
func Load() (*Store, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	dir, err := resolveDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(dir, "config.json"))
}

// LoadFrom reads the config at cfgPath, writing defaults first when the file
// does not exist. SELLER_* environment variables override file values.
func LoadFrom(cfgPath string) (*Store, error) {
	if _, err := os.Stat(cfgPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		if err := writeConfig(cfgPath, defaultConfig(cfgPath)); err != nil {
			return nil, err
		}
	}

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("json")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	for key, value := range defaultValues(cfgPath) {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg := Data{}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone()
	}
	if cfg.Name == "" {
		cfg.Name = defaultName()
	}
	if cfg.LoadDelayMS < 0 {
		cfg.LoadDelayMS = 0
	}
	if cfg.ActionDelayMS < 0 {
		cfg.ActionDelayMS = 0
	}

	return &Store{path: cfgPath, Config: cfg}, nil
}

// Save writes the current config values to disk.
func (s *Store) Save() error {
	if s == nil {
		return errors.New("nil config store")
	}
	return writeConfig(s.path, s.Config)
}

// Path returns the config file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

func resolveDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			return "", fmt.Errorf("cannot resolve config directory: %w", err)
		}
	}
	dir := filepath.Join(base, "sellerconsole")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return dir, nil
}

func writeConfig(path string, cfg Data) error {
	bytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultConfig(cfgPath string) Data {
	return Data{
		Name:          defaultName(),
		Timezone:      defaultTimezone(),
		LogLevel:      "info",
		LogFile:       filepath.Join(filepath.Dir(cfgPath), "console.log"),
		LoadDelayMS:   800,
		ActionDelayMS: 500,
	}
}

func defaultValues(cfgPath string) map[string]interface{} {
	d := defaultConfig(cfgPath)
	return map[string]interface{}{
		"name":            d.Name,
		"timezone":        d.Timezone,
		"data_path":       d.DataPath,
		"log_level":       d.LogLevel,
		"log_file":        d.LogFile,
		"load_delay_ms":   d.LoadDelayMS,
		"action_delay_ms": d.ActionDelayMS,
	}
}

func defaultName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	return "Seller"
}

func defaultTimezone() string {
	if locName := time.Now().Location().String(); locName != "Local" && locName != "" {
		return locName
	}
	return "UTC"
}

// Location returns the configured timezone Location, defaulting to UTC on error.
func (s *Store) Location() *time.Location {
	if s == nil {
		return time.UTC
	}
	if loc, err := time.LoadLocation(s.Config.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// LoadDelay is the simulated latency before the dataset appears.
func (s *Store) LoadDelay() time.Duration {
	if s == nil {
		return 800 * time.Millisecond
	}
	return time.Duration(s.Config.LoadDelayMS) * time.Millisecond
}

// ActionDelay is the simulated latency of save and convert.
func (s *Store) ActionDelay() time.Duration {
	if s == nil {
		return 500 * time.Millisecond
	}
	return time.Duration(s.Config.ActionDelayMS) * time.Millisecond
}
