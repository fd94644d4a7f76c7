// Package retry provides exponential backoff retry logic for transient failures.
//
// [WithExponentialBackoff] is used at the caller level only, for example by
// the verify command; the provisioning run itself never retries a call.
package retry
