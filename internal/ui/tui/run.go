package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// RunFunc executes the provisioning run the TUI displays.
type RunFunc func(ctx context.Context) (*provisioning.Result, error)

// RunSetupTUI runs fn while rendering tracker snapshots in a Bubble Tea
// program. Quitting the TUI cancels the run; RunSetupTUI always waits for fn
// to return and passes its result through.
func RunSetupTUI(
	ctx context.Context,
	tracker *provisioning.Tracker,
	parentID string,
	testOnly bool,
	fn RunFunc,
) (*provisioning.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewSetupModel(parentID, testOnly), tea.WithAltScreen())

	snapshots, unsubscribe := tracker.Subscribe()
	go func() {
		for steps := range snapshots {
			p.Send(StepsMsg{Steps: steps})
		}
	}()

	type outcome struct {
		res *provisioning.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := fn(ctx)
		done <- outcome{res: res, err: err}
		if err != nil {
			p.Send(ErrMsg{Err: err, Result: res})
			return
		}
		p.Send(DoneMsg{Result: res})
	}()

	_, tuiErr := p.Run()
	cancel()
	out := <-done
	unsubscribe()

	if tuiErr != nil && out.err == nil {
		return out.res, fmt.Errorf("TUI error: %w", tuiErr)
	}
	return out.res, out.err
}
