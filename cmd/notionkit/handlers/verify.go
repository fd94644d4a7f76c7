package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/util/retry"
)

// verifyRetryOptions bounds the connectivity retries. Replaced in tests.
var verifyRetryOptions = []retry.Option{
	retry.WithMaxRetries(3),
	retry.WithInitialDelay(time.Second),
	retry.WithMaxDelay(8 * time.Second),
}

// Verify checks that the integration token is accepted and, when a parent
// page is configured, reports it. Rate limiting and server errors are
// retried with backoff; authentication failures are not.
func Verify(ctx context.Context, configPath string) error {
	cfg, client, err := connect(configPath)
	if err != nil {
		return err
	}

	log := newLogger("verify")

	var account notion.AccountInfo
	opts := append([]retry.Option{
		retry.WithRetryIf(notion.IsRetryable),
		retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			log.Info("connectivity check failed, retrying", "attempt", attempt, "delay", delay.String(), "error", err.Error())
		}),
	}, verifyRetryOptions...)

	err = retry.WithExponentialBackoff(ctx, func(ctx context.Context) error {
		var err error
		account, err = client.Identity(ctx)
		var authErr *notion.AuthError
		if errors.As(err, &authErr) {
			return retry.Fatal(err)
		}
		return err
	}, opts...)
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}

	fmt.Println("Connection OK")
	fmt.Printf("  Integration: %s (%s)\n", account.Name, account.Type)
	if account.WorkspaceName != "" {
		fmt.Printf("  Workspace:   %s\n", account.WorkspaceName)
	}
	fmt.Printf("  API:         %s (version %s)\n", cfg.Notion.APIURL, cfg.Notion.APIVersion)
	if cfg.ParentPageID != "" {
		fmt.Printf("  Parent page: %s\n", cfg.ParentPageID)
	}
	return nil
}
