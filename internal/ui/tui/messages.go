// Package tui provides a Bubble Tea-based terminal UI for workspace provisioning.
package tui

import "github.com/soulscript/notionkit/internal/provisioning"

// StepsMsg carries the latest tracker snapshot.
type StepsMsg struct {
	Steps []provisioning.StepStatus
}

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries the error that ended the run and whatever it created.
type ErrMsg struct {
	Err    error
	Result *provisioning.Result
}

// DoneMsg signals that the run finished.
type DoneMsg struct {
	Result *provisioning.Result
}
