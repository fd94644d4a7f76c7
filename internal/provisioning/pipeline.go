package provisioning

import (
	"fmt"
	"time"
)

const cancelledMessage = "cancelled"

// RunPhases executes stages in order. Each stage is begun and resolved on
// the tracker; item failures recorded by a stage are appended as their own
// error entries after it resolves. The first stage error stops the run and
// is returned wrapped.
func RunPhases(ctx *Context, phases []Phase) error {
	for _, phase := range phases {
		name := string(phase.Name())
		start := time.Now()
		failedBefore := ctx.State.failureCount()

		ctx.Tracker.Begin(name, phase.Describe())
		LogPhaseStart(ctx.Observer, name)

		summary, err := runPhase(ctx, phase)
		if err != nil {
			message := err.Error()
			if ctx.Err() != nil {
				message = cancelledMessage
			}
			_ = ctx.Tracker.Resolve(StateError, message)
			LogPhaseFailed(ctx.Observer, name, err)
			recordStage(name, stageFailed, time.Since(start))
			return fmt.Errorf("%s stage failed: %w", name, err)
		}

		_ = ctx.Tracker.Resolve(StateSuccess, summary)
		LogPhaseComplete(ctx.Observer, name, time.Since(start))
		recordStage(name, stageSucceeded, time.Since(start))

		for _, f := range ctx.State.failures(failedBefore) {
			ctx.Tracker.Begin(fmt.Sprintf("%s: %s", f.Stage, f.Item), fmt.Sprintf("Creating %s", f.Item))
			_ = ctx.Tracker.Resolve(StateError, f.Err.Error())
			recordItemFailure(name)
		}
	}
	return nil
}

// runPhase refuses to start a stage on a done context, so the tracker still
// gets an entry for the stage that was about to run.
func runPhase(ctx *Context, phase Phase) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return phase.Provision(ctx)
}
