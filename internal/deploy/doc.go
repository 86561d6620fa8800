// Package deploy syncs the build output directory to an S3 bucket.
//
// The syncer walks the local output, uploads new or changed files with
// content types derived from their extensions, and can optionally remove
// remote objects that no longer exist locally. Change detection compares
// the local MD5 with the remote ETag, so unchanged files are not
// re-uploaded.
package deploy
