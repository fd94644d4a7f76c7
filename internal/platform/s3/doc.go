// Package s3 provides a bucket-scoped client for S3-compatible object storage.
//
// It is used to persist workspace handles between provisioning runs. Besides
// plain get/put/delete it offers a create-only put (If-None-Match: *) that
// the handle store uses as a lock primitive.
package s3
