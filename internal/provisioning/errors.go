package provisioning

import (
	"fmt"
	"strings"

	"github.com/soulscript/notionkit/internal/schema"
)

// TrackerEmptyError is returned by Resolve when no step has begun.
type TrackerEmptyError struct{}

func (*TrackerEmptyError) Error() string { return "tracker has no step to resolve" }

// PartialProvisioningError reports that database creation stopped part way.
// Databases already created are kept and listed in Handle so a later run can
// resume from them.
type PartialProvisioningError struct {
	Created []schema.Key
	Missing []schema.Key
	Handle  Workspace
	Err     error
}

func (e *PartialProvisioningError) Error() string {
	return fmt.Sprintf("database creation incomplete (created: %s; missing: %s): %v",
		joinKeys(e.Created), joinKeys(e.Missing), e.Err)
}

func (e *PartialProvisioningError) Unwrap() error { return e.Err }

// IncompletePageError reports a page that was created but whose body could
// not be written in full. The page exists and is not removed.
type IncompletePageError struct {
	PageID string
	Err    error
}

func (e *IncompletePageError) Error() string {
	return fmt.Sprintf("page %s created with an incomplete body: %v", e.PageID, e.Err)
}

func (e *IncompletePageError) Unwrap() error { return e.Err }

// ItemFailure is a non-fatal failure of one item in a stage.
type ItemFailure struct {
	Stage Stage
	Item  string
	Err   error
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s %q: %v", f.Stage, f.Item, f.Err)
}

func joinKeys(keys []schema.Key) string {
	if len(keys) == 0 {
		return "none"
	}
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = string(k)
	}
	return strings.Join(s, ", ")
}
