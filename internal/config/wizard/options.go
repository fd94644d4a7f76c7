package wizard

import (
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/soulscript/notionkit/internal/config"
)

// StoreOption describes a handle store backend.
type StoreOption struct {
	Value       string
	Label       string
	Description string
}

// StoreBackends lists the handle store backends offered by the wizard.
var StoreBackends = []StoreOption{
	{Value: config.StoreFile, Label: "Local file", Description: "YAML file next to the config (single machine)"},
	{Value: config.StoreMemory, Label: "In memory", Description: "Nothing persisted; re-runs rely on title lookup"},
	{Value: config.StoreRedis, Label: "Redis", Description: "Shared between server replicas"},
	{Value: config.StoreS3, Label: "S3 bucket", Description: "S3-compatible object storage"},
}

// ConcurrencyLevels are the offered per-stage concurrency values.
var ConcurrencyLevels = []int{1, 2, 3, 5}

// StoreBackendsToOptions converts StoreBackends to huh options.
func StoreBackendsToOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], len(StoreBackends))
	for i, s := range StoreBackends {
		opts[i] = huh.NewOption(s.Label+" - "+s.Description, s.Value)
	}
	return opts
}

// ConcurrencyToOptions converts ConcurrencyLevels to huh options, marking
// the default.
func ConcurrencyToOptions() []huh.Option[int] {
	opts := make([]huh.Option[int], len(ConcurrencyLevels))
	for i, n := range ConcurrencyLevels {
		label := strconv.Itoa(n)
		if n == config.DefaultConcurrency {
			label += " (default)"
		}
		opts[i] = huh.NewOption(label, n)
	}
	return opts
}
