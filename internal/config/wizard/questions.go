package wizard

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/soulscript/notionkit/internal/config"
	"github.com/soulscript/notionkit/internal/platform/notion"
)

func parentInput(value *string) *huh.Input {
	return huh.NewInput().
		Title("Parent Page").
		Description("Page ID or share link of the page the workspace is created under. The integration must have access to it.").
		Placeholder("https://www.notion.so/My-Project-0123456789abcdef0123456789abcdef").
		Value(value).
		Validate(validateParentID)
}

// runWorkspaceGroup prompts for the parent page and the token file.
func runWorkspaceGroup(ctx context.Context, result *Result) error {
	return huh.NewForm(
		huh.NewGroup(
			parentInput(&result.ParentPageID),
			huh.NewInput().
				Title("Token File (Optional)").
				Description("File holding the integration token. Leave empty to use "+config.EnvToken+".").
				Placeholder("/run/secrets/notion-token").
				Value(&result.TokenFile).
				Validate(validateTokenFile),
		).Title("Workspace"),
	).RunWithContext(ctx)
}

// runStoreGroup prompts for the handle store backend and its settings.
func runStoreGroup(ctx context.Context, result *Result) error {
	result.StoreBackend = config.StoreFile

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Handle Store").
				Description("Where workspace handles are kept so re-runs resume instead of duplicating").
				Options(StoreBackendsToOptions()...).
				Value(&result.StoreBackend),
		).Title("State"),
	).RunWithContext(ctx)
	if err != nil {
		return err
	}

	switch result.StoreBackend {
	case config.StoreRedis:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Redis Address").
					Placeholder("localhost:6379").
					Value(&result.RedisAddr).
					Validate(required(errAddrRequired)),
			).Title("Redis"),
		).RunWithContext(ctx)
	case config.StoreS3:
		return huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Bucket").
					Value(&result.S3Bucket).
					Validate(required(errBucketRequired)),
				huh.NewInput().
					Title("Region").
					Placeholder("eu-central-1").
					Value(&result.S3Region),
				huh.NewInput().
					Title("Endpoint (Optional)").
					Description("Only for S3-compatible services other than AWS").
					Value(&result.S3Endpoint),
			).Title("S3"),
		).RunWithContext(ctx)
	}
	return nil
}

// runTuningGroup prompts for the per-stage concurrency.
func runTuningGroup(ctx context.Context, result *Result) error {
	result.Concurrency = config.DefaultConcurrency

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Concurrency").
				Description("Pages and entries created in parallel within a stage. The API allows about 3 requests per second.").
				Options(ConcurrencyToOptions()...).
				Value(&result.Concurrency),
		).Title("Tuning"),
	).RunWithContext(ctx)
}

func validateParentID(s string) error {
	if strings.TrimSpace(s) == "" {
		return errParentRequired
	}
	_, err := notion.NormalizeID(s)
	return err
}

func validateTokenFile(s string) error {
	if s == "" {
		return nil
	}
	if _, err := os.Stat(s); err != nil {
		return errTokenFileNotFound
	}
	return nil
}

func required(err error) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return err
		}
		return nil
	}
}
