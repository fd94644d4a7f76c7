package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// Follow prints tracker progress to w as plain lines, for terminals without
// a TTY. Call the returned stop function once the run has finished; it
// prints any remaining transitions before returning.
func Follow(tracker *provisioning.Tracker, w io.Writer) (stop func()) {
	snapshots, unsubscribe := tracker.Subscribe()
	p := &linePrinter{w: w}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for steps := range snapshots {
			p.print(steps)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			unsubscribe()
			wg.Wait()
			p.print(tracker.History())
		})
	}
}

// linePrinter writes one line per observed step transition.
type linePrinter struct {
	w       io.Writer
	printed []provisioning.StepState
}

func (p *linePrinter) print(steps []provisioning.StepStatus) {
	for i, st := range steps {
		if i >= len(p.printed) {
			p.printed = append(p.printed, "")
		}
		if p.printed[i] == st.State {
			continue
		}
		// A step seen for the first time already resolved skips its loading line.
		if st.State == provisioning.StateLoading && p.printed[i] != "" {
			continue
		}
		p.printed[i] = st.State
		fmt.Fprintln(p.w, FormatStep(st))
	}
}

// FormatStep renders one step as a plain status line.
func FormatStep(st provisioning.StepStatus) string {
	icon := plainPending
	switch st.State {
	case provisioning.StateLoading:
		icon = plainRunning
	case provisioning.StateSuccess:
		icon = plainDone
	case provisioning.StateError:
		icon = plainFailed
	}
	line := fmt.Sprintf("%s %s", icon, st.Step)
	if st.Message != "" {
		line += ": " + st.Message
	}
	if st.FinishedAt != nil {
		line += fmt.Sprintf(" (%s)", formatDuration(st.FinishedAt.Sub(st.StartedAt)))
	}
	return line
}
