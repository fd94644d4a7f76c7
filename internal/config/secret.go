package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrNoToken is returned when no integration token can be found.
var ErrNoToken = errors.New("no integration token: set " + EnvToken + " or " + EnvTokenFile)

// ResolveToken loads the integration token from the runtime secret store:
// the NOTION_TOKEN variable first, then the token file. The resolved token is
// stored on the config and never written back to disk.
func (c *Config) ResolveToken() (string, error) {
	if c.Notion.Token != "" {
		return c.Notion.Token, nil
	}
	if tok := strings.TrimSpace(os.Getenv(EnvToken)); tok != "" {
		c.Notion.Token = tok
		return tok, nil
	}
	if c.Notion.TokenFile == "" {
		return "", ErrNoToken
	}

	data, err := os.ReadFile(c.Notion.TokenFile)
	if err != nil {
		// The path is safe to report, the contents are not.
		return "", fmt.Errorf("failed to read token file %s: %w", c.Notion.TokenFile, err)
	}
	tok := strings.TrimSpace(string(data))
	if tok == "" {
		return "", fmt.Errorf("token file %s is empty", c.Notion.TokenFile)
	}
	c.Notion.Token = tok
	return tok, nil
}
