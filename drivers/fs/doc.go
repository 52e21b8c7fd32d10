// Package fs provides a driver for brim stores on a local filesystem.
//
// A store is a directory tree in which every group or array node is a directory holding a
// zarr.json document.  Chunks live underneath array directories and are never read.
//
// Consolidation walks the tree, collects the metadata of every node, and atomically rewrites
// the root zarr.json with an inline consolidated metadata block.
package fs
