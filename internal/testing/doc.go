// Package testing provides test utilities, fakes, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - FakeNotion: in-memory content service served over httptest, with fault injection
//   - MockResourceClient: testify mock of the client used by the orchestrator
//   - SeedDatabases, SeedPage: workspace state pre-created in a FakeNotion for re-run scenarios
//   - FakeS3: path-style object store for the S3 handle store
//   - ConfigBuilder: config files for handler tests
//
// Usage:
//
//	fake := testing.NewFakeNotion(t)
//	fake.FailPage("API Documentation", http.StatusInternalServerError)
//	orch := provisioning.NewOrchestrator(fake.Client())
package testing
