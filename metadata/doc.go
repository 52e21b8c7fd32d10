// Package metadata contains facilities for working with the metadata of brim (Zarr v3) stores.
// At the moment, it is mostly a reflection of the root zarr.json document.
//
// The Document type exposes two views of the same decoded JSON: the whole tree, which is what
// gets evaluated against a JSON schema, and the consolidated node map, which associates each
// array or group path in the store with its metadata (shape, data type, chunking, attributes).
//
// Values are decoded with json.Number for numbers, so integer shapes survive a decode
// without floating point conversion.
package metadata
