package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultPath returns the default config file path.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ebookstore", "config.yml")
}

// SessionPath returns the default session state file path.
func SessionPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ebookstore", "session.yml")
}

// ContentIndexPath returns the local fingerprint-to-content-id index path.
func ContentIndexPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ebookstore", "contents.yml")
}

// Load reads the config from disk (or env). A missing file is not an error —
// defaults target the local devnet so the client works out of the box.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("network", "devnet")
	v.SetDefault("contract.name", "ebook-store")
	v.SetDefault("wallet.agent_url", "http://127.0.0.1:3888")
	v.SetDefault("gateway.url", "https://ipfs.io")
	v.SetDefault("defaults.cache_dir", defaultCacheDir())

	v.SetEnvPrefix("EBOOKSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath := os.Getenv("EBOOKSTORE_CONFIG")
	if configPath == "" {
		configPath = DefaultPath()
	}
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) {
			if _, isCfgNotFound := err.(viper.ConfigFileNotFoundError); !isCfgNotFound {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Contract address override beats the config file.
	if addr := os.Getenv("EBOOKSTORE_CONTRACT_ADDRESS"); addr != "" {
		cfg.Contract.Address = addr
	}

	cfg.Defaults.CacheDir = ExpandHome(cfg.Defaults.CacheDir)

	return &cfg, nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(cfg)
}

// ExpandHome expands a leading ~/ in a path.
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

func defaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "ebookstore", "cache")
}
