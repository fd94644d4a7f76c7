package wizard

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/soulscript/notionkit/internal/platform/notion"
)

// Result holds all the answers from the interactive wizard.
type Result struct {
	ParentPageID string
	TokenFile    string

	StoreBackend string
	RedisAddr    string
	S3Bucket     string
	S3Region     string
	S3Endpoint   string

	Concurrency int
}

// RunWizard runs the interactive configuration wizard.
// The context is used for cancellation support (e.g., Ctrl+C).
func RunWizard(ctx context.Context) (*Result, error) {
	result := &Result{}

	if err := runWorkspaceGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("workspace: %w", err)
	}

	if err := runStoreGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("handle store: %w", err)
	}

	if err := runTuningGroup(ctx, result); err != nil {
		return nil, fmt.Errorf("tuning: %w", err)
	}

	return result, nil
}

// AskParent prompts for the parent page and returns its normalized ID.
func AskParent(ctx context.Context) (string, error) {
	var raw string
	err := huh.NewForm(huh.NewGroup(parentInput(&raw))).RunWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("parent page: %w", err)
	}
	return notion.NormalizeID(raw)
}
