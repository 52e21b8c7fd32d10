package fspath

import (
	"path"
	"strings"

	"github.com/birkland/brimval/metadata"
)

// Generator generates a relative, solidus delimited storage key
// from a given node path.  The resulting keys are used by drivers for
// locating node metadata documents within a store, whether the store
// is a directory or an object storage prefix.
type Generator interface {
	Generate(string) string
}

// GeneratorFunc is a function that can be used to satisfy the Generator interface
type GeneratorFunc func(string) string

// Generate a key from a given node path
func (g GeneratorFunc) Generate(node string) string {
	return g(node)
}

// NodeMetadata maps a node path to the key of its metadata document.  The empty
// path is the store root.
var NodeMetadata Generator = GeneratorFunc(func(node string) string {
	return path.Join(strings.Trim(node, "/"), metadata.RootFile)
})

// NodePath is the inverse of NodeMetadata.  It returns false if the key does not
// name a node metadata document.
func NodePath(key string) (string, bool) {
	key = strings.Trim(key, "/")
	if key == metadata.RootFile {
		return "", true
	}

	if !strings.HasSuffix(key, "/"+metadata.RootFile) {
		return "", false
	}
	return strings.TrimSuffix(key, "/"+metadata.RootFile), true
}
