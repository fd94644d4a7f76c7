// Package provisioning builds a project workspace in the content service.
//
// # Stages
//
// A run executes ordered stages through [RunPhases]:
//
//   - Connectivity: verify the credential (fatal on failure)
//   - DatabaseCreation: issues, tasks and features databases (fatal, no rollback)
//   - Documentation: three pages in the features database (non-fatal per page)
//   - SampleData: one record per database (non-fatal per record)
//   - Completion
//
// Items inside Documentation and SampleData run concurrently and are joined
// before the stage resolves.
//
// # Core Types
//
// [Tracker] is the append-only progress log observed by callers.
// [Context] carries the client, options, state, tracker and observer.
// [Phase] defines a stage with Name, Describe and Provision.
// [State] accumulates results (account, workspace, pages, failures).
package provisioning
