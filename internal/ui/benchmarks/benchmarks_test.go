package benchmarks

import (
	"testing"
	"time"

	"github.com/soulscript/notionkit/internal/provisioning"
)

func step(stage provisioning.Stage, took time.Duration) provisioning.StepStatus {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(took)
	return provisioning.StepStatus{Step: string(stage), State: provisioning.StateSuccess, StartedAt: start, FinishedAt: &end}
}

func TestEstimateRemaining_NoHistory(t *testing.T) {
	remaining := EstimateRemaining(provisioning.StageConnectivity, 100*time.Millisecond, nil)

	// (600-100) + 3500 + 4000 + 2500 + 0 = 10500
	expected := 10500 * time.Millisecond
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_MidwayStage(t *testing.T) {
	history := []provisioning.StepStatus{
		step(provisioning.StageConnectivity, 1200*time.Millisecond),
		step(provisioning.StageDatabaseCreation, 7000*time.Millisecond),
		{Step: string(provisioning.StageDocumentation), State: provisioning.StateLoading},
	}

	remaining := EstimateRemaining(provisioning.StageDocumentation, time.Second, history)

	// Earlier stages took twice the default: (4000*2 - 1000) + 2500*2
	expected := 12000 * time.Millisecond
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_ElapsedExceedsExpected(t *testing.T) {
	remaining := EstimateRemaining(provisioning.StageConnectivity, 1200*time.Millisecond, nil)

	// Overrun scales future predictions: 1200/600 = 2x
	expected := (3500 + 4000 + 2500) * 2 * time.Millisecond
	if remaining != expected {
		t.Errorf("expected %v, got %v", expected, remaining)
	}
}

func TestEstimateRemaining_UnknownStage(t *testing.T) {
	if got := EstimateRemaining("Documentation: API Documentation", time.Second, nil); got != 0 {
		t.Errorf("expected 0 for an item step, got %v", got)
	}
}

func TestPerformanceScale(t *testing.T) {
	tests := []struct {
		name    string
		history []provisioning.StepStatus
		want    float64
	}{
		{"no history", nil, 1.0},
		{"on par", []provisioning.StepStatus{step(provisioning.StageDatabaseCreation, 3500*time.Millisecond)}, 1.0},
		{"clamped slow", []provisioning.StepStatus{step(provisioning.StageConnectivity, time.Minute)}, 4.0},
		{"clamped fast", []provisioning.StepStatus{step(provisioning.StageDatabaseCreation, time.Millisecond)}, 0.5},
		{"item steps ignored", []provisioning.StepStatus{step("Documentation: API Documentation", time.Minute)}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PerformanceScale(provisioning.StageDocumentation, 0, tt.history)
			if got != tt.want {
				t.Errorf("PerformanceScale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTotalEstimate(t *testing.T) {
	if got := TotalEstimate(); got != 10600*time.Millisecond {
		t.Errorf("TotalEstimate() = %v, want 10.6s", got)
	}
}
