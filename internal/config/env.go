package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIURL         = "NOTION_API_URL"
	EnvAPIVersion     = "NOTION_API_VERSION"
	EnvRequestTimeout = "NOTION_TIMEOUT_REQUEST"
	EnvConcurrency    = "NOTION_MAX_CONCURRENCY"
	EnvToken          = "NOTION_TOKEN"
	EnvTokenFile      = "NOTION_TOKEN_FILE"
	EnvParentPageID   = "NOTION_PARENT_PAGE_ID"
	EnvStoreBackend   = "NOTIONKIT_STORE"
	EnvRedisAddr      = "NOTIONKIT_REDIS_ADDR"
	EnvRedisPassword  = "NOTIONKIT_REDIS_PASSWORD"
	EnvS3Bucket       = "NOTIONKIT_S3_BUCKET"
	EnvServerAddr     = "NOTIONKIT_ADDR"
)

// ApplyEnv overrides config values from environment variables.
// Unset or unparsable values leave the current setting in place.
func (c *Config) ApplyEnv() {
	c.Notion.APIURL = parseString(EnvAPIURL, c.Notion.APIURL)
	c.Notion.APIVersion = parseString(EnvAPIVersion, c.Notion.APIVersion)
	c.Notion.RequestTimeout = parseDuration(EnvRequestTimeout, c.Notion.RequestTimeout)
	c.Notion.TokenFile = parseString(EnvTokenFile, c.Notion.TokenFile)
	c.Concurrency = parseInt(EnvConcurrency, c.Concurrency)
	c.ParentPageID = parseString(EnvParentPageID, c.ParentPageID)
	c.Store.Backend = parseString(EnvStoreBackend, c.Store.Backend)
	c.Store.Redis.Addr = parseString(EnvRedisAddr, c.Store.Redis.Addr)
	c.Store.Redis.Password = parseString(EnvRedisPassword, c.Store.Redis.Password)
	c.Store.S3.Bucket = parseString(EnvS3Bucket, c.Store.S3.Bucket)
	c.Server.Addr = parseString(EnvServerAddr, c.Server.Addr)
}

func parseString(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
