package testing

import (
	"path/filepath"

	"github.com/soulscript/notionkit/internal/config"
)

// ConfigBuilder provides a fluent interface for constructing test configs.
// Each method returns a new builder (immutable) for chaining.
type ConfigBuilder struct {
	cfg config.Config
}

// NewConfigBuilder creates a builder starting from the defaults and an
// in-memory handle store.
func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{cfg: *config.Default()}
}

// WithAPIURL points the content client at url, usually FakeNotion.Server.URL.
func (b *ConfigBuilder) WithAPIURL(url string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Notion.APIURL = url
	return nb
}

// WithFake points the content client at a fake service.
func (b *ConfigBuilder) WithFake(f *FakeNotion) *ConfigBuilder {
	return b.WithAPIURL(f.Server.URL)
}

// WithTokenFile sets the token file.
func (b *ConfigBuilder) WithTokenFile(path string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Notion.TokenFile = path
	return nb
}

// WithParent sets the default parent page.
func (b *ConfigBuilder) WithParent(id string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.ParentPageID = id
	return nb
}

// WithConcurrency sets the per-stage concurrency.
func (b *ConfigBuilder) WithConcurrency(n int) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Concurrency = n
	return nb
}

// WithFileStore selects the file handle store inside dir.
func (b *ConfigBuilder) WithFileStore(dir string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Store.Backend = config.StoreFile
	nb.cfg.Store.File = filepath.Join(dir, "workspace.yaml")
	return nb
}

// WithRedisStore selects the Redis handle store at addr.
func (b *ConfigBuilder) WithRedisStore(addr string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Store.Backend = config.StoreRedis
	nb.cfg.Store.Redis.Addr = addr
	return nb
}

// WithServerAddr sets the listen address of the setup server.
func (b *ConfigBuilder) WithServerAddr(addr string) *ConfigBuilder {
	nb := b.clone()
	nb.cfg.Server.Addr = addr
	return nb
}

// Build returns a copy of the built config.
func (b *ConfigBuilder) Build() *config.Config {
	cfg := b.cfg // copy
	return &cfg
}

// Write saves the built config to notionkit.yaml in dir and returns its path.
func (b *ConfigBuilder) Write(tb TB, dir string) string {
	tb.Helper()
	path := filepath.Join(dir, config.DefaultConfigFilename)
	if err := config.Save(b.Build(), path); err != nil {
		tb.Fatalf("write config: %v", err)
	}
	return path
}

// clone copies the builder; Config holds no reference types.
func (b *ConfigBuilder) clone() *ConfigBuilder {
	return &ConfigBuilder{cfg: b.cfg}
}

// MinimalConfig returns a minimal valid config for simple tests.
func MinimalConfig() *config.Config {
	return NewConfigBuilder().Build()
}

// ClearEnv unsets every variable config.ApplyEnv reads, so tests do not
// pick up the developer's environment.
func ClearEnv(tb interface{ Setenv(key, value string) }) {
	for _, v := range []string{
		config.EnvAPIURL, config.EnvAPIVersion, config.EnvRequestTimeout,
		config.EnvConcurrency, config.EnvToken, config.EnvTokenFile,
		config.EnvParentPageID, config.EnvStoreBackend, config.EnvRedisAddr,
		config.EnvRedisPassword, config.EnvS3Bucket, config.EnvServerAddr,
	} {
		tb.Setenv(v, "")
	}
}
