// Package s3 provides a driver for brim stores kept in S3 compatible object storage.
//
// Stores and schemas are addressed as s3://bucket/prefix.  Node metadata documents are the
// objects whose keys end in zarr.json underneath the prefix; everything underneath an array
// node is chunk data and is ignored.
package s3
