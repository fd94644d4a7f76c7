package tui

import "github.com/charmbracelet/lipgloss"

// Palette follows the workspace's own select-option colors so the timeline
// matches what the databases show. Each color adapts to light and dark
// terminals.
var (
	inkColor    = lipgloss.AdaptiveColor{Light: "#37352f", Dark: "#e3e2e0"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#9b9a97", Dark: "#7f7d7a"}
	greenColor  = lipgloss.AdaptiveColor{Light: "#448361", Dark: "#6fbf8e"}
	redColor    = lipgloss.AdaptiveColor{Light: "#d44c47", Dark: "#ff7369"}
	orangeColor = lipgloss.AdaptiveColor{Light: "#d9730d", Dark: "#ffa344"}
	purpleColor = lipgloss.AdaptiveColor{Light: "#9065b0", Dark: "#b38ad6"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(inkColor).
			Underline(true)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(purpleColor).
			MarginTop(1)

	readyStyle   = lipgloss.NewStyle().Foreground(greenColor)
	failedStyle  = lipgloss.NewStyle().Foreground(redColor)
	warningStyle = lipgloss.NewStyle().Foreground(orangeColor)
	dimStyle     = lipgloss.NewStyle().Foreground(mutedColor)
	activeStyle  = lipgloss.NewStyle().Foreground(inkColor).Bold(true)

	progressBarFull  = lipgloss.NewStyle().Foreground(purpleColor)
	progressBarEmpty = lipgloss.NewStyle().Foreground(mutedColor)

	footerStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(1)
)

// Marks drawn in the interactive timeline.
const (
	checkMark = "✓"
	crossMark = "✗"
	pending   = "·"
)

// Plain status lines stay ASCII so they read well in CI logs.
const (
	plainDone    = "[OK]"
	plainFailed  = "[!!]"
	plainRunning = "[..]"
	plainPending = "[  ]"
)

var spinnerFrames = []string{"◐", "◓", "◑", "◒"}
