package async

import (
	"context"
	"fmt"
)

// DefaultLimit bounds how many tasks RunAll runs at once when no limit is given.
const DefaultLimit = 3

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// Result is the outcome of one task.
type Result struct {
	Name string
	Err  error
}

// RunAll executes tasks concurrently, at most limit at a time, and waits for
// all of them. A failing task never cancels its siblings. Results are returned
// in task order. A limit below one means DefaultLimit.
//
// Tasks not yet started when ctx is done are not run; their result carries
// ctx.Err().
//
// Example:
//
//	results := RunAll(ctx, []Task{
//	    {Name: "overview", Func: createOverview},
//	    {Name: "api", Func: createAPIDocs},
//	}, 3)
func RunAll(ctx context.Context, tasks []Task, limit int) []Result {
	if len(tasks) == 0 {
		return nil
	}
	if limit < 1 {
		limit = DefaultLimit
	}

	type indexed struct {
		i   int
		err error
	}

	sem := make(chan struct{}, limit)
	resultChan := make(chan indexed, len(tasks))

	for i, task := range tasks {
		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				resultChan <- indexed{i: i, err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				resultChan <- indexed{i: i, err: err}
				return
			}
			resultChan <- indexed{i: i, err: run(ctx, task)}
		}()
	}

	results := make([]Result, len(tasks))
	for range len(tasks) {
		res := <-resultChan
		results[res.i] = Result{Name: tasks[res.i].Name, Err: res.err}
	}
	return results
}

// run calls the task, turning a panic into an error so one task cannot take
// down the batch.
func run(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task %s panicked: %v", task.Name, r)
		}
	}()
	return task.Func(ctx)
}

// Failed returns the results that carry an error.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Err != nil {
			out = append(out, r)
		}
	}
	return out
}
