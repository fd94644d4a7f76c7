// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/mattn/go-isatty"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/platform/notion"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads, defaults and validates a config file.
	loadConfigFile = config.Load

	// findConfigFile locates notionkit.yaml in the working directory or a parent.
	findConfigFile = config.FindConfigFile

	// newContentClient creates the content service client for a resolved token.
	newContentClient = func(cfg *config.Config, token string) *notion.Client {
		return notion.NewClient(token,
			notion.WithBaseURL(cfg.Notion.APIURL),
			notion.WithVersion(cfg.Notion.APIVersion),
			notion.WithTimeout(cfg.Notion.RequestTimeout),
			notion.WithMetrics(true),
		)
	}

	// newHandleStore opens the configured workspace handle store.
	newHandleStore = handlestore.New

	// isInteractiveTTY reports whether stdout is a terminal.
	isInteractiveTTY = func() bool {
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
)

var logVerbosity int

// SetLogVerbosity sets the verbosity of the logger handed to the
// orchestrator and the server. Higher values print more detail.
func SetLogVerbosity(v int) {
	logVerbosity = v
}

// newLogger returns a logger writing key/value lines to stderr.
func newLogger(name string) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(os.Stderr, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(os.Stderr, args)
	}, funcr.Options{
		LogTimestamp: true,
		Verbosity:    logVerbosity,
	}).WithName(name)
}

// loadConfig loads the config from configPath, or from notionkit.yaml in the
// working directory or a parent when configPath is empty. Without any config
// file, defaults and environment variables are used.
func loadConfig(configPath string) (*config.Config, error) {
	if configPath == "" {
		found, err := findConfigFile()
		switch {
		case err == nil:
			configPath = found
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// connect loads the config and builds a client from the resolved token.
func connect(configPath string) (*config.Config, *notion.Client, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	token, err := cfg.ResolveToken()
	if err != nil {
		return nil, nil, fmt.Errorf("%w (run 'notionkit init' or export %s)", err, config.EnvToken)
	}

	return cfg, newContentClient(cfg, token), nil
}
