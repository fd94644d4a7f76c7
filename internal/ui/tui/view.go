package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/schema"
)

// styleFunc is a single-string styling function.
type styleFunc func(string) string

// sf wraps a lipgloss.Style into a styleFunc.
func sf(s lipgloss.Style) styleFunc {
	return func(str string) string { return s.Render(str) }
}

func renderView(m Model) string {
	var b strings.Builder

	renderHeader(&b, m)
	renderProgressBar(&b, m)
	renderStages(&b, m)

	if failed := failedItems(m.Steps); len(failed) > 0 {
		renderFailedItems(&b, failed)
	}

	if m.Result != nil && !m.Result.Workspace.IsZero() {
		renderWorkspace(&b, m.Result)
	}

	renderFooter(&b, m)

	return b.String()
}

func renderHeader(b *strings.Builder, m Model) {
	title := "notionkit: workspace setup"
	if m.TestOnly {
		title = "notionkit: connection test"
	}
	if m.ParentID != "" {
		title += fmt.Sprintf(" (%s)", m.ParentID)
	}
	b.WriteString(titleStyle.Render(title))

	status := " "
	switch {
	case m.Err != nil:
		status += failedStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case m.Done && len(failedItems(m.Steps)) > 0:
		status += warningStyle.Render("Ready with failures")
	case m.Done:
		status += readyStyle.Render("Ready")
	case m.Cancelled:
		status += warningStyle.Render("Cancelling...")
	default:
		if cur, ok := m.current(); ok {
			status += activeStyle.Render(currentSpinner(m.SpinnerFrame)+" ") + warningStyle.Render(cur.Step)
		} else {
			status += dimStyle.Render("Starting...")
		}
	}
	b.WriteString(status)
	b.WriteString("\n")
}

func renderProgressBar(b *strings.Builder, m Model) {
	progress := calculateProgress(m)
	barWidth := 40
	if m.Width > 0 && m.Width < 80 {
		barWidth = m.Width - 30
		if barWidth < 10 {
			barWidth = 10
		}
	}
	filled := int(float64(barWidth) * progress)
	if filled > barWidth {
		filled = barWidth
	}

	bar := progressBarFull.Render(strings.Repeat("█", filled)) +
		progressBarEmpty.Render(strings.Repeat("░", barWidth-filled))

	pct := int(progress * 100)
	eta := ""
	if m.EstimatedRemaining > 0 {
		eta = fmt.Sprintf(" ETA %s", formatDuration(m.EstimatedRemaining))
	}
	if m.PerformanceScale != 0 && m.PerformanceScale != 1.0 {
		eta += fmt.Sprintf("  speed x%.2f", m.PerformanceScale)
	}

	fmt.Fprintf(b, "  %s %d%%%s\n", bar, pct, eta)
}

func renderStages(b *strings.Builder, m Model) {
	b.WriteString(sectionStyle.Render("  Stages"))
	b.WriteString("\n")

	for _, stage := range m.Stages {
		st, seen := lastStep(m.Steps, string(stage))

		var icon string
		var style styleFunc
		switch {
		case !seen:
			icon, style = pending, sf(dimStyle)
		case st.State == provisioning.StateError:
			icon, style = crossMark, sf(failedStyle)
		case st.State == provisioning.StateSuccess:
			icon, style = checkMark, sf(readyStyle)
		default:
			icon, style = currentSpinner(m.SpinnerFrame), sf(activeStyle)
		}

		dur := ""
		if seen {
			dur = formatDuration(stepDuration(st))
		}
		fmt.Fprintf(b, "    %s %-18s %s %s\n", style(icon), style(string(stage)), st.Message, dimStyle.Render(dur))
	}
}

func renderFailedItems(b *strings.Builder, failed []provisioning.StepStatus) {
	b.WriteString(sectionStyle.Render("  Failed Items"))
	b.WriteString("\n")

	for _, st := range failed {
		fmt.Fprintf(b, "    %s %s %s\n", failedStyle.Render(crossMark), st.Step, dimStyle.Render(st.Message))
	}
}

func renderWorkspace(b *strings.Builder, res *provisioning.Result) {
	b.WriteString(sectionStyle.Render("  Workspace"))
	b.WriteString("\n")

	for _, db := range schema.All() {
		id := res.Workspace.ID(db.Key)
		icon, style := statusIcon(id != "")
		if id == "" {
			id = "missing"
		}
		fmt.Fprintf(b, "    %s %-20s %s\n", style(icon), style(db.Name), dimStyle.Render(id))
	}
	if len(res.Documentation) > 0 || len(res.Samples) > 0 {
		fmt.Fprintf(b, "    %d documentation pages, %d sample entries\n", len(res.Documentation), len(res.Samples))
	}
}

func renderFooter(b *strings.Builder, m Model) {
	parts := []string{fmt.Sprintf("elapsed: %s", formatDuration(time.Since(m.StartTime)))}
	if m.EstimatedRemaining > 0 {
		parts = append(parts, fmt.Sprintf("remaining: ~%s", formatDuration(m.EstimatedRemaining)))
	}
	b.WriteString(footerStyle.Render(fmt.Sprintf("  %s  |  q: cancel", strings.Join(parts, "  |  "))))
	b.WriteString("\n")
}

// Helper functions

func statusIcon(ready bool) (string, styleFunc) {
	if ready {
		return checkMark, sf(readyStyle)
	}
	return crossMark, sf(failedStyle)
}

func currentSpinner(frame int) string {
	if frame < 0 {
		frame = -frame
	}
	return spinnerFrames[frame%len(spinnerFrames)]
}

// lastStep returns the most recent entry for step.
func lastStep(steps []provisioning.StepStatus, step string) (provisioning.StepStatus, bool) {
	for i := len(steps) - 1; i >= 0; i-- {
		if steps[i].Step == step {
			return steps[i], true
		}
	}
	return provisioning.StepStatus{}, false
}

// failedItems returns the per-item failure entries, named "Stage: Item".
func failedItems(steps []provisioning.StepStatus) []provisioning.StepStatus {
	var out []provisioning.StepStatus
	for _, st := range steps {
		if st.State == provisioning.StateError && strings.Contains(st.Step, ": ") {
			out = append(out, st)
		}
	}
	return out
}

func stepDuration(st provisioning.StepStatus) time.Duration {
	if st.FinishedAt != nil {
		return st.FinishedAt.Sub(st.StartedAt)
	}
	return time.Since(st.StartedAt)
}

func calculateProgress(m Model) float64 {
	if m.Done {
		return 1.0
	}
	if len(m.Stages) == 0 {
		return 0
	}

	done := 0
	for _, stage := range m.Stages {
		if st, ok := lastStep(m.Steps, string(stage)); ok && st.State.Terminal() {
			done++
		}
	}
	return float64(done) / float64(len(m.Stages))
}

func formatDuration(d time.Duration) string {
	d = d.Round(100 * time.Millisecond)
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}
