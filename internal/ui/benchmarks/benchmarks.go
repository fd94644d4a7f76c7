// Package benchmarks provides timing estimates for workspace provisioning stages.
package benchmarks

import (
	"time"

	"github.com/soulscript/notionkit/internal/provisioning"
)

// DefaultTimings are typical stage durations against the public API, in
// milliseconds, with the default concurrency of 3.
var DefaultTimings = map[provisioning.Stage]int{
	provisioning.StageConnectivity:     600,
	provisioning.StageDatabaseCreation: 3500,
	provisioning.StageDocumentation:    4000,
	provisioning.StageSampleData:       2500,
	provisioning.StageCompletion:       0,
}

// StageOrder is the sequence of stages used for ETA calculation.
var StageOrder = []provisioning.Stage{
	provisioning.StageConnectivity,
	provisioning.StageDatabaseCreation,
	provisioning.StageDocumentation,
	provisioning.StageSampleData,
	provisioning.StageCompletion,
}

func expected(stage provisioning.Stage) (time.Duration, bool) {
	ms, ok := DefaultTimings[stage]
	return time.Duration(ms) * time.Millisecond, ok
}

// EstimateRemaining calculates the estimated time remaining based on the
// current stage, its elapsed time and the finished steps so far.
func EstimateRemaining(current provisioning.Stage, elapsed time.Duration, history []provisioning.StepStatus) time.Duration {
	return EstimateRemainingWithScale(current, elapsed, history, PerformanceScale(current, elapsed, history))
}

// EstimateRemainingWithScale calculates ETA while applying a performance scale factor.
func EstimateRemainingWithScale(
	current provisioning.Stage,
	elapsed time.Duration,
	history []provisioning.StepStatus,
	scale float64,
) time.Duration {
	currentIdx := -1
	for i, s := range StageOrder {
		if s == current {
			currentIdx = i
			break
		}
	}
	if currentIdx < 0 {
		return 0
	}

	var remaining time.Duration

	// For the current stage: max(0, expected - elapsed)
	if exp, ok := expected(current); ok {
		exp = time.Duration(float64(exp) * scale)
		if exp > elapsed {
			remaining += exp - elapsed
		}
	}

	finished := finishedStages(history)
	for _, stage := range StageOrder[currentIdx+1:] {
		if finished[stage] {
			continue
		}
		if exp, ok := expected(stage); ok {
			remaining += time.Duration(float64(exp) * scale)
		}
	}

	return remaining
}

// PerformanceScale derives a speed multiplier from observed-vs-expected durations.
// Example: expected 4s, observed 6s => scale=1.5 (future ETAs are stretched by 50%).
func PerformanceScale(current provisioning.Stage, elapsed time.Duration, history []provisioning.StepStatus) float64 {
	var expectedTotal, actualTotal time.Duration

	for _, st := range history {
		exp, ok := expected(provisioning.Stage(st.Step))
		if !ok || st.FinishedAt == nil || exp == 0 {
			continue
		}
		expectedTotal += exp
		actualTotal += st.FinishedAt.Sub(st.StartedAt)
	}

	// If the current stage is overrunning, fold it in immediately so ETA adapts quickly.
	if exp, ok := expected(current); ok && elapsed > exp && exp > 0 {
		expectedTotal += exp
		actualTotal += elapsed
	}

	if expectedTotal == 0 || actualTotal == 0 {
		return 1.0
	}

	scale := float64(actualTotal) / float64(expectedTotal)
	if scale < 0.5 {
		return 0.5
	}
	if scale > 4.0 {
		return 4.0
	}
	return scale
}

// TotalEstimate returns the total estimated provisioning time.
func TotalEstimate() time.Duration {
	var total time.Duration
	for _, stage := range StageOrder {
		if exp, ok := expected(stage); ok {
			total += exp
		}
	}
	return total
}

func finishedStages(history []provisioning.StepStatus) map[provisioning.Stage]bool {
	done := make(map[provisioning.Stage]bool)
	for _, st := range history {
		if st.State.Terminal() {
			done[provisioning.Stage(st.Step)] = true
		}
	}
	return done
}
