package handlers

import (
	"context"
	"fmt"

	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/server"
)

// startServer runs the HTTP server until ctx is cancelled. Replaced in tests.
var startServer = func(ctx context.Context, srv *server.Server, addr string) error {
	return srv.Start(ctx, addr)
}

// Serve runs the setup trigger endpoint. Runs share one content client and
// persist workspace handles in the configured handle store.
func Serve(ctx context.Context, configPath, addr string) error {
	cfg, client, err := connect(configPath)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := newHandleStore(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open handle store: %w", err)
	}

	log := newLogger("serve")
	orchestrator := provisioning.NewOrchestrator(client,
		provisioning.WithObserver(provisioning.NewLogObserver(log.WithName("provisioning"))))

	srv := server.New(orchestrator, store,
		server.WithLogger(log),
		server.WithConcurrency(cfg.Concurrency),
	)

	log.Info("listening", "addr", addr, "store", cfg.Store.Backend)
	return startServer(ctx, srv, addr)
}
