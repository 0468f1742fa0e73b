package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/spf13/viper"
)

const (
	KeyDBPath          = "db_path"
	KeyHistoryScan     = "history.scan_limit"
	KeyHistoryFeed     = "history.feed_limit"
	KeyDisplayBarWidth = "display.bar_width"
)

type HistoryConfig struct {
	ScanLimit int `mapstructure:"scan_limit" yaml:"scan_limit"`
	FeedLimit int `mapstructure:"feed_limit" yaml:"feed_limit"`
}

type DisplayConfig struct {
	BarWidth int `mapstructure:"bar_width" yaml:"bar_width"`
}

// Config is the YAML-backed runtime configuration.
type Config struct {
	DBPath  string        `mapstructure:"db_path" yaml:"db_path"`
	History HistoryConfig `mapstructure:"history" yaml:"history"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

func DefaultConfig() *Config {
	return &Config{
		History: HistoryConfig{ScanLimit: 500, FeedLimit: 100},
		Display: DisplayConfig{BarWidth: 40},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyDBPath, d.DBPath)
	v.SetDefault(KeyHistoryScan, d.History.ScanLimit)
	v.SetDefault(KeyHistoryFeed, d.History.FeedLimit)
	v.SetDefault(KeyDisplayBarWidth, d.Display.BarWidth)
}

// LoadConfig reads the YAML file at path. A missing file yields defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.History.ScanLimit <= 0 {
		return fmt.Errorf("%s must be > 0", KeyHistoryScan)
	}
	if c.History.FeedLimit <= 0 {
		return fmt.Errorf("%s must be > 0", KeyHistoryFeed)
	}
	if c.History.FeedLimit > c.History.ScanLimit {
		return fmt.Errorf("%s must not exceed %s", KeyHistoryFeed, KeyHistoryScan)
	}
	if c.Display.BarWidth < 10 || c.Display.BarWidth > 200 {
		return fmt.Errorf("%s must be between 10 and 200", KeyDisplayBarWidth)
	}
	return nil
}

// SaveConfig writes cfg to path as YAML, creating parent directories.
func SaveConfig(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.Set(KeyDBPath, cfg.DBPath)
	v.Set(KeyHistoryScan, cfg.History.ScanLimit)
	v.Set(KeyHistoryFeed, cfg.History.FeedLimit)
	v.Set(KeyDisplayBarWidth, cfg.Display.BarWidth)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config to %s: %w", path, err)
	}
	return nil
}

// Set assigns one key from its string form.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyDBPath:
		c.DBPath = value
		return nil
	case KeyHistoryScan, KeyHistoryFeed, KeyDisplayBarWidth:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q", key, value)
		}
		switch key {
		case KeyHistoryScan:
			c.History.ScanLimit = n
		case KeyHistoryFeed:
			c.History.FeedLimit = n
		default:
			c.Display.BarWidth = n
		}
		return c.Validate()
	default:
		return fmt.Errorf("unknown config key %q (valid: %v)", key, Keys())
	}
}

// Values returns every key with its current value rendered as a string.
func (c *Config) Values() map[string]string {
	return map[string]string{
		KeyDBPath:          c.DBPath,
		KeyHistoryScan:     strconv.Itoa(c.History.ScanLimit),
		KeyHistoryFeed:     strconv.Itoa(c.History.FeedLimit),
		KeyDisplayBarWidth: strconv.Itoa(c.Display.BarWidth),
	}
}

func Keys() []string {
	keys := []string{KeyDBPath, KeyHistoryScan, KeyHistoryFeed, KeyDisplayBarWidth}
	sort.Strings(keys)
	return keys
}
