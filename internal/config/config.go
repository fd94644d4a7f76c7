package config

import (
	"fmt"
	"time"
)

// Handle store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreS3     = "s3"
)

// Defaults applied before the config file and environment are read.
const (
	DefaultAPIURL         = "https://api.notion.com/v1"
	DefaultAPIVersion     = "2022-06-28"
	DefaultRequestTimeout = 30 * time.Second
	DefaultConcurrency    = 3
	DefaultServerAddr     = ":8080"
	DefaultHandleFile     = ".notionkit/workspace.yaml"
	DefaultRedisPrefix    = "notionkit"
	DefaultLockTTL        = 10 * time.Minute
	DefaultS3Prefix       = "notionkit/handles"

	// MaxConcurrency caps per-stage parallelism to stay under the API rate limit.
	MaxConcurrency = 10
)

// Config is the runtime configuration for the CLI and the setup server.
type Config struct {
	Notion NotionConfig `yaml:"notion"`

	// ParentPageID is the default parent page for `setup` and the server.
	ParentPageID string `yaml:"parentPageId,omitempty"`

	// Concurrency bounds parallel item creation within a stage.
	Concurrency int `yaml:"concurrency,omitempty"`

	Store  StoreConfig  `yaml:"store"`
	Server ServerConfig `yaml:"server"`
}

// NotionConfig holds the content API connection settings.
// The token is never read from or written to the config file.
type NotionConfig struct {
	APIURL         string        `yaml:"apiURL,omitempty"`
	APIVersion     string        `yaml:"apiVersion,omitempty"`
	RequestTimeout time.Duration `yaml:"requestTimeout,omitempty"`
	TokenFile      string        `yaml:"tokenFile,omitempty"`

	Token string `yaml:"-"`
}

// StoreConfig selects where workspace handles are persisted between runs.
type StoreConfig struct {
	Backend string      `yaml:"backend,omitempty"`
	File    string      `yaml:"file,omitempty"`
	Redis   RedisConfig `yaml:"redis,omitempty"`
	S3      S3Config    `yaml:"s3,omitempty"`
}

// RedisConfig configures the Redis handle store.
type RedisConfig struct {
	Addr    string        `yaml:"addr,omitempty"`
	DB      int           `yaml:"db,omitempty"`
	Prefix  string        `yaml:"prefix,omitempty"`
	LockTTL time.Duration `yaml:"lockTTL,omitempty"`

	Password string `yaml:"-"`
}

// S3Config configures the S3 handle store.
type S3Config struct {
	Bucket   string `yaml:"bucket,omitempty"`
	Region   string `yaml:"region,omitempty"`
	Endpoint string `yaml:"endpoint,omitempty"`
	Prefix   string `yaml:"prefix,omitempty"`
}

// ServerConfig configures the setup trigger endpoint.
type ServerConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Notion.APIURL == "" {
		c.Notion.APIURL = DefaultAPIURL
	}
	if c.Notion.APIVersion == "" {
		c.Notion.APIVersion = DefaultAPIVersion
	}
	if c.Notion.RequestTimeout == 0 {
		c.Notion.RequestTimeout = DefaultRequestTimeout
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreMemory
	}
	if c.Store.File == "" {
		c.Store.File = DefaultHandleFile
	}
	if c.Store.Redis.Prefix == "" {
		c.Store.Redis.Prefix = DefaultRedisPrefix
	}
	if c.Store.Redis.LockTTL == 0 {
		c.Store.Redis.LockTTL = DefaultLockTTL
	}
	if c.Store.S3.Prefix == "" {
		c.Store.S3.Prefix = DefaultS3Prefix
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate checks the configuration for errors. It does not require a token;
// call ResolveToken for that.
func (c *Config) Validate() error {
	if c.Notion.APIURL == "" {
		return fmt.Errorf("notion.apiURL is required")
	}
	if c.Notion.RequestTimeout <= 0 {
		return fmt.Errorf("notion.requestTimeout must be positive, got %s", c.Notion.RequestTimeout)
	}
	if c.Concurrency < 1 || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("concurrency must be between 1 and %d, got %d", MaxConcurrency, c.Concurrency)
	}
	if err := c.Store.validate(); err != nil {
		return fmt.Errorf("store validation failed: %w", err)
	}
	return nil
}

func (s StoreConfig) validate() error {
	switch s.Backend {
	case StoreMemory:
	case StoreFile:
		if s.File == "" {
			return fmt.Errorf("file path is required for the file backend")
		}
	case StoreRedis:
		if s.Redis.Addr == "" {
			return fmt.Errorf("redis.addr is required for the redis backend")
		}
		if s.Redis.LockTTL <= 0 {
			return fmt.Errorf("redis.lockTTL must be positive")
		}
	case StoreS3:
		if s.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s, %s or %s)", s.Backend, StoreMemory, StoreFile, StoreRedis, StoreS3)
	}
	return nil
}
