package wizard

import (
	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/platform/notion"
)

// BuildConfig creates a Config struct from the wizard result.
func BuildConfig(result *Result) *config.Config {
	cfg := config.Default()

	if id, err := notion.NormalizeID(result.ParentPageID); err == nil {
		cfg.ParentPageID = id
	}
	cfg.Notion.TokenFile = result.TokenFile

	if result.Concurrency > 0 {
		cfg.Concurrency = result.Concurrency
	}

	if result.StoreBackend != "" {
		cfg.Store.Backend = result.StoreBackend
	}
	switch cfg.Store.Backend {
	case config.StoreRedis:
		cfg.Store.Redis.Addr = result.RedisAddr
	case config.StoreS3:
		cfg.Store.S3.Bucket = result.S3Bucket
		cfg.Store.S3.Region = result.S3Region
		cfg.Store.S3.Endpoint = result.S3Endpoint
	}

	return cfg
}
