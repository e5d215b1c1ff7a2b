package config

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const defaultRefreshSeconds = 3

type Config struct {
	Workspace      string   `mapstructure:"workspace"`
	CommonDirs     []string `mapstructure:"common_dirs"`
	RefreshSeconds int      `mapstructure:"refresh_interval_seconds"`
}

func defaultConfig() *Config {
	return &Config{
		RefreshSeconds: defaultRefreshSeconds,
	}
}

func Load() (*Config, error) {
	cfg := defaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "scrn"))
	v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "scrn"))
	v.SetConfigType("yaml")

	v.SetDefault("refresh_interval_seconds", defaultRefreshSeconds)

	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return expanded(cfg), nil
	}

	// fallback to TOML if yaml missing
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err == nil {
		if err := v.Unmarshal(&cfg); err != nil {
			return nil, err
		}
		return expanded(cfg), nil
	}

	// legacy plain-text config
	if legacyCfg, err := loadLegacy(); err == nil && legacyCfg != nil {
		return expanded(legacyCfg), nil
	}

	return cfg, nil
}

func expanded(cfg *Config) *Config {
	cfg.Workspace = ExpandTilde(cfg.Workspace)
	for i, d := range cfg.CommonDirs {
		cfg.CommonDirs[i] = ExpandTilde(d)
	}
	if cfg.RefreshSeconds <= 0 {
		cfg.RefreshSeconds = defaultRefreshSeconds
	}
	return cfg
}

func loadLegacy() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "scrn", "config")
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cfg := defaultConfig()
	found := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), "\"'")
		switch key {
		case "workspace":
			if val != "" {
				cfg.Workspace = val
				found = true
			}
		case "common_dirs":
			for _, d := range strings.Split(val, ":") {
				if d = strings.TrimSpace(d); d != "" {
					cfg.CommonDirs = append(cfg.CommonDirs, d)
					found = true
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("no legacy keys")
	}
	return cfg, nil
}

func ExpandTilde(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return os.ExpandEnv(path)
}
