// Package config loads the casperflow configuration file.
//
// The file is TOML, read from $XDG_CONFIG_HOME/casperflow/config.toml (or
// ~/.config/casperflow/config.toml) unless a path is given explicitly:
//
//	[server]
//	addr = ":8080"
//
//	[store]
//	backend = "redis"          # file, redis, mongodb or null
//	dir = "/var/lib/casperflow"
//	namespace = "team-a:"
//	redis_url = "redis://localhost:6379/0"
//	mongo_uri = "mongodb://localhost:27017"
//	mongo_database = "casperflow"
//	mongo_collection = "library"
//
//	[log]
//	level = "debug"
//
// Missing keys keep their defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/casperflow/pkg/store"
)

const appName = "casperflow"

// Config is the full configuration.
type Config struct {
	Server Server `toml:"server"`
	Store  Store  `toml:"store"`
	Log    Log    `toml:"log"`
}

// Server configures the HTTP API.
type Server struct {
	Addr string `toml:"addr"`
}

// Store selects the library backend.
type Store struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	Namespace       string `toml:"namespace"`
	RedisURL        string `toml:"redis_url"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Server: Server{Addr: "localhost:8080"},
		Store: Store{
			Backend:         store.BackendFile,
			MongoDatabase:   store.DefaultMongoDatabase,
			MongoCollection: store.DefaultMongoCollection,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults. An empty path means
// [DefaultPath]; a missing default file is not an error, a missing
// explicit one is.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	_, err := toml.DecodeFile(path, cfg)
	switch {
	case err == nil:
	case !explicit && errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	default:
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	if _, err := cfg.LogLevel(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (log.Level, error) {
	if c.Log.Level == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log level: %w", err)
	}
	return level, nil
}

// StoreConfig converts the [store] table for store.Open, defaulting the
// file store directory to [DataDir].
func (c *Config) StoreConfig() (store.Config, error) {
	sc := store.Config{
		Backend:         c.Store.Backend,
		Dir:             c.Store.Dir,
		RedisURL:        c.Store.RedisURL,
		MongoURI:        c.Store.MongoURI,
		MongoDatabase:   c.Store.MongoDatabase,
		MongoCollection: c.Store.MongoCollection,
	}
	if sc.Dir == "" && (sc.Backend == "" || sc.Backend == store.BackendFile) {
		dir, err := DataDir()
		if err != nil {
			return sc, fmt.Errorf("config: store dir: %w", err)
		}
		sc.Dir = dir
	}
	return sc, nil
}

// DefaultPath returns the config file location using XDG standard
// (~/.config/casperflow/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// DataDir returns the library directory using XDG standard
// (~/.local/share/casperflow/).
func DataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName), nil
}
