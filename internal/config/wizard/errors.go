package wizard

import "errors"

// Validation errors for the interactive wizard.
var (
	errParentRequired    = errors.New("parent page is required")
	errTokenFileNotFound = errors.New("token file does not exist")
	errAddrRequired      = errors.New("address is required")
	errBucketRequired    = errors.New("bucket name is required")
)
