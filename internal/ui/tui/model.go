package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/ui/benchmarks"
)

// Model is the Bubble Tea model for the setup timeline.
type Model struct {
	ParentID string
	TestOnly bool

	// Stages lists the stages the run will execute, in order.
	Stages []provisioning.Stage
	Steps  []provisioning.StepStatus
	Result *provisioning.Result

	// ETA
	EstimatedRemaining time.Duration
	PerformanceScale   float64
	StartTime          time.Time

	// Animation
	SpinnerFrame int

	// UI state
	Width     int
	Height    int
	Err       error
	Done      bool
	Cancelled bool
}

// NewSetupModel creates a model for a run under parentID.
func NewSetupModel(parentID string, testOnly bool) Model {
	var stages []provisioning.Stage
	for _, p := range provisioning.Phases(provisioning.Options{TestOnly: testOnly}) {
		stages = append(stages, p.Name())
	}
	return Model{
		ParentID:         parentID,
		TestOnly:         testOnly,
		Stages:           stages,
		StartTime:        time.Now(),
		PerformanceScale: 1.0,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case StepsMsg:
		m.Steps = msg.Steps
		m.updateETA()

	case TickMsg:
		m.SpinnerFrame++
		m.updateETA()
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		m.Result = msg.Result
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		m.Result = msg.Result
		return m, tea.Quit
	}

	return m, nil
}

// current returns the stage in progress, if any.
func (m *Model) current() (provisioning.StepStatus, bool) {
	for i := len(m.Steps) - 1; i >= 0; i-- {
		if m.Steps[i].State == provisioning.StateLoading {
			return m.Steps[i], true
		}
	}
	return provisioning.StepStatus{}, false
}

func (m *Model) updateETA() {
	cur, ok := m.current()
	if !ok || m.Done || m.Err != nil {
		m.EstimatedRemaining = 0
		return
	}
	stage := provisioning.Stage(cur.Step)
	elapsed := time.Since(cur.StartedAt)
	m.PerformanceScale = benchmarks.PerformanceScale(stage, elapsed, m.Steps)
	m.EstimatedRemaining = benchmarks.EstimateRemainingWithScale(stage, elapsed, m.Steps, m.PerformanceScale)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
