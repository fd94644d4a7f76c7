// Package handlestore persists workspace handles between provisioning runs
// and serializes runs against the same parent location.
//
// A handle is keyed by the parent location it was provisioned under. The
// CLI and the setup server load it before a run, pass it to the orchestrator
// as the existing workspace, and save whatever the run created, including
// the partial handle of a failed run. Backends: in-memory, a local YAML file,
// Redis and S3-compatible object storage.
package handlestore
