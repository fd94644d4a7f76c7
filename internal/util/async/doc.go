// Package async provides utilities for parallel task execution.
//
// The helpers run independent operations concurrently, wait for all of them,
// and report each outcome separately, so a failure in one task never aborts
// the others.
package async
