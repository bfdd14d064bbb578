// Package s3 provides an Amazon S3 implementation of the blobstore.Store
// interface, plus a DynamoDB-backed registry of archived runs.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", func(o *s3.Options) {
//	    o.Prefix = "kmc/"
//	    o.Region = "us-east-1"
//	})
//
//	arch := archive.New(store)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Streaming multipart uploads for large trajectory logs
//   - CRC32C integrity validation on uploads
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - RunRegistry: optimistic-concurrency commit log backed by DynamoDB
package s3
