package wizard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soulscript/notionkit/internal/config"
)

// Function variable for dependency injection in tests.
var confirmOverwrite = defaultConfirmOverwrite

// WriteConfig writes the config to a YAML file with a descriptive header.
// If fullOutput is false, only values that differ from the defaults are written.
func WriteConfig(cfg *config.Config, outputPath string, fullOutput bool) error {
	var yamlBytes []byte
	var err error

	if fullOutput {
		yamlBytes, err = yaml.Marshal(cfg)
	} else {
		yamlBytes, err = yaml.Marshal(buildMinimalConfig(cfg))
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(generateHeader(outputPath, fullOutput))
	sb.WriteString("\n")
	sb.Write(yamlBytes)

	if err := os.WriteFile(outputPath, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}

// MinimalConfig is the YAML shape written in minimal mode.
type MinimalConfig struct {
	Notion       *MinimalNotionConfig `yaml:"notion,omitempty"`
	ParentPageID string               `yaml:"parentPageId,omitempty"`
	Concurrency  int                  `yaml:"concurrency,omitempty"`
	Store        *config.StoreConfig  `yaml:"store,omitempty"`
}

// MinimalNotionConfig holds the API settings worth writing.
type MinimalNotionConfig struct {
	TokenFile string `yaml:"tokenFile,omitempty"`
}

func buildMinimalConfig(cfg *config.Config) *MinimalConfig {
	minCfg := &MinimalConfig{ParentPageID: cfg.ParentPageID}

	if cfg.Notion.TokenFile != "" {
		minCfg.Notion = &MinimalNotionConfig{TokenFile: cfg.Notion.TokenFile}
	}
	if cfg.Concurrency != config.DefaultConcurrency {
		minCfg.Concurrency = cfg.Concurrency
	}

	switch cfg.Store.Backend {
	case config.StoreMemory, "":
	case config.StoreFile:
		minCfg.Store = &config.StoreConfig{Backend: config.StoreFile, File: cfg.Store.File}
	case config.StoreRedis:
		minCfg.Store = &config.StoreConfig{Backend: config.StoreRedis, Redis: config.RedisConfig{Addr: cfg.Store.Redis.Addr}}
	case config.StoreS3:
		minCfg.Store = &config.StoreConfig{Backend: config.StoreS3, S3: config.S3Config{
			Bucket:   cfg.Store.S3.Bucket,
			Region:   cfg.Store.S3.Region,
			Endpoint: cfg.Store.S3.Endpoint,
		}}
	}

	return minCfg
}

// generateHeader creates the YAML file header comment.
func generateHeader(outputPath string, fullOutput bool) string {
	mode := "minimal"
	note := "\n# Note: This is a minimal config. Use --full flag for all options."
	if fullOutput {
		mode = "full"
		note = ""
	}
	return fmt.Sprintf(`# notionkit configuration
# Generated by: notionkit init
# Generated at: %s
# Output mode: %s%s
#
# The integration token is never stored here. Provide it as:
#   %s - the token itself, or
#   %s / notion.tokenFile - a file containing it
#
# Usage:
#   export %s=<your-token>
#   notionkit setup -c %s
`, time.Now().Format(time.RFC3339), mode, note, config.EnvToken, config.EnvTokenFile, config.EnvToken, outputPath)
}

// FileExists checks if a file exists at the given path.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ConfirmOverwrite prompts the user to confirm overwriting an existing file.
func ConfirmOverwrite(path string) (bool, error) {
	return confirmOverwrite(path)
}

// defaultConfirmOverwrite is the default implementation that prompts via stdin.
func defaultConfirmOverwrite(path string) (bool, error) {
	fmt.Printf("\nFile already exists: %s\n", path)
	fmt.Print("Overwrite? (y/n): ")

	var response string
	if _, err := fmt.Scanln(&response); err != nil {
		return false, err
	}

	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes", nil
}
