package app

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "kcal-ledger"
	dbFileName     = "ledger.db"
	configFileName = "config.yaml"
)

func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, dbFileName), nil
}

func DefaultConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, appDirName, configFileName), nil
}

func EnsureDBDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db directory: %w", err)
	}
	return nil
}

// ResolveDBPath picks the database file: explicit flag, then config, then the
// per-user default.
func ResolveDBPath(flag string, cfg *Config) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, nil
	}
	return DefaultDBPath()
}
