// Package storage reads runtime resources from S3-compatible object storage.
//
// The runtime can be served straight from a bucket: manifests, language
// tables and stylesheets are objects under a common prefix.
//
//	reader, err := storage.New(storage.Config{
//		Bucket:    "assets",
//		Prefix:    "awesome",
//		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
//		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
//	})
//
//	body, err := reader.ReadAll(ctx, "language/default.yaml")
//
// For MinIO or other S3-compatible services set Endpoint and PathStyle.
// Keys containing ".." segments are rejected with [ErrInvalidKey].
//
// Errors from S3 are mapped to [ErrNotFound], [ErrAccessDenied] or
// [ErrReadFailed]; match them with errors.Is.
package storage
