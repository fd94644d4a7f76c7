// Package server exposes workspace provisioning over HTTP.
//
// POST /api/notion-setup runs the orchestrator synchronously and answers
// with the result and the full step log. A caller that supplies its own
// runId can poll GET /api/notion-setup/runs/:id for the step log while the
// run is in progress. Runs against the same parent location are serialized
// through the handle store lock, and the workspace handle of every run,
// partial or complete, is saved so the next run resumes instead of creating
// duplicates.
package server
