// Package main is the entry point for the notionkit CLI.
//
// notionkit provisions a project-management workspace (issue, task and
// feature databases, documentation pages and sample entries) under a page of
// a Notion workspace, and serves the same setup over HTTP.
//
// Commands: init, setup, verify, query, archive, serve, version.
//
// For detailed usage information, run:
//
//	notionkit --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soulscript/notionkit/cmd/notionkit/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := commands.Root().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
