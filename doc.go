// Package brimval defines an API for validating the consolidated metadata of a brim
// (Zarr v3) array store.
//
// A validation run checks two independent things: that the metadata document conforms to a
// JSON Schema, and that a configured set of arrays agree on their leading dimension.  Each
// run produces a single Outcome.  Access to stores and schema documents is provided by one of
// more Driver implementations.  Drivers may read a local filesystem, an S3 bucket, etc.  See
// individual driver documentation under drivers/ for more information.
package brimval
