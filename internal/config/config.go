package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "SANCTIONS_EXPLORER_CONFIG"
	feedURLEnv    = "SANCTIONS_FEED_URL"
	listenAddrEnv = "SANCTIONS_LISTEN_ADDR"
	logLevelEnv   = "SANCTIONS_LOG_LEVEL"

	defaultFeedURL      = "https://webgate.ec.europa.eu/fsd/fsf/public/rss"
	defaultCacheTTL     = 7 * 24 * time.Hour
	defaultFetchTimeout = 10 * time.Second
	defaultListenAddr   = ":8080"
	defaultPageSize     = 50
)

// Duration accepts YAML scalars like "168h" or "10s".
type Duration time.Duration

// UnmarshalYAML parses the scalar with time.ParseDuration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config holds high-level settings required across the application.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// FeedConfig describes the upstream sanctions feed and caching behavior.
type FeedConfig struct {
	URL          string   `yaml:"url"`
	CacheTTL     Duration `yaml:"cacheTtl"`
	FetchTimeout Duration `yaml:"fetchTimeout"`
}

// ServerConfig defines the HTTP listener for the query API.
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	DefaultPageSize int      `yaml:"defaultPageSize"`
	ShutdownTimeout Duration `yaml:"shutdownTimeout"`
}

// LoggingConfig selects slog level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}

	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.CacheTTL > 0 {
		base.Feed.CacheTTL = override.Feed.CacheTTL
	}
	if override.Feed.FetchTimeout > 0 {
		base.Feed.FetchTimeout = override.Feed.FetchTimeout
	}

	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.DefaultPageSize > 0 {
		base.Server.DefaultPageSize = override.Server.DefaultPageSize
	}
	if override.Server.ShutdownTimeout > 0 {
		base.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Format != "" {
		base.Logging.Format = override.Logging.Format
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Feed: FeedConfig{
			URL:          defaultFeedURL,
			CacheTTL:     Duration(defaultCacheTTL),
			FetchTimeout: Duration(defaultFetchTimeout),
		},
		Server: ServerConfig{
			Addr:            defaultListenAddr,
			DefaultPageSize: defaultPageSize,
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
