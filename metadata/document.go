package metadata

import (
	"fmt"
	"io"
	"math"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// RootFile is the name of the metadata document of every node in a store
const RootFile = "zarr.json"

// ConsolidatedKey is the key of the consolidated metadata block in a root group document
const ConsolidatedKey = "consolidated_metadata"

// Document is the consolidated root metadata document of a store
type Document struct {
	Tree  map[string]interface{} // The whole decoded zarr.json
	Nodes map[string]Node        // Consolidated node metadata, by slash delimited node path
}

// Node is the metadata of a single array or group, as found in the consolidated metadata.
type Node map[string]interface{}

// MalformedError indicates a document that could be read, but does not have the expected structure
type MalformedError struct {
	Reason string
	Err    error
}

func (e *MalformedError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed metadata: %s: %s", e.Reason, e.Err)
	}
	return "malformed metadata: " + e.Reason
}

// IsMalformed tells whether the cause of an error is a MalformedError
func IsMalformed(err error) bool {
	_, ok := errors.Cause(err).(*MalformedError)
	return ok
}

func malformed(format string, args ...interface{}) error {
	return &MalformedError{Reason: fmt.Sprintf(format, args...)}
}

// Decode decodes a single JSON object from a byte stream.
func Decode(r io.Reader) (map[string]interface{}, error) {
	var v interface{}

	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, &MalformedError{Reason: "could not decode json", Err: err}
	}

	obj, ok := v.(map[string]interface{})
	if !ok {
		return nil, malformed("expected a json object, found %T", v)
	}
	return obj, nil
}

// Parse parses a byte stream into consolidated store metadata.  The document must
// carry a consolidated metadata block.
func Parse(r io.Reader, d *Document) error {
	tree, err := Decode(r)
	if err != nil {
		return errors.Wrap(err, "could not parse root metadata")
	}

	nodes, err := consolidatedNodes(tree)
	if err != nil {
		return err
	}

	d.Tree = tree
	d.Nodes = nodes
	return nil
}

func consolidatedNodes(tree map[string]interface{}) (map[string]Node, error) {
	block, ok := tree[ConsolidatedKey].(map[string]interface{})
	if !ok {
		return nil, malformed("no %s block in root metadata, is the store consolidated?", ConsolidatedKey)
	}

	entries, ok := block["metadata"].(map[string]interface{})
	if !ok {
		return nil, malformed("%s has no metadata map", ConsolidatedKey)
	}

	nodes := make(map[string]Node, len(entries))
	for path, entry := range entries {
		node, ok := entry.(map[string]interface{})
		if !ok {
			return nil, malformed("metadata of %s is a %T, not an object", path, entry)
		}
		nodes[strings.Trim(path, "/")] = node
	}
	return nodes, nil
}

// Serialize writes a metadata tree as indented json
func Serialize(w io.Writer, tree map[string]interface{}) error {
	b, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return errors.Wrap(err, "could not encode metadata")
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Node returns the metadata of the node at the given path, if present
func (d *Document) Node(path string) (Node, bool) {
	n, ok := d.Nodes[strings.Trim(path, "/")]
	return n, ok
}

// Instance is the value evaluated against a json schema
func (d *Document) Instance() interface{} {
	return d.Tree
}

// NodeType is the declared node type, e.g. "array" or "group"
func (n Node) NodeType() string {
	t, _ := n["node_type"].(string)
	return t
}

// Shape returns the shape of an array node.  It is an error if the shape is
// absent, empty, or contains anything other than non-negative integers.
func (n Node) Shape() ([]int, error) {
	raw, ok := n["shape"]
	if !ok {
		return nil, malformed("no shape")
	}

	var dims []interface{}
	switch s := raw.(type) {
	case []interface{}:
		dims = s
	case []int:
		for _, d := range s {
			dims = append(dims, d)
		}
	default:
		return nil, malformed("shape is a %T, not a list", raw)
	}

	if len(dims) == 0 {
		return nil, malformed("shape is empty")
	}

	shape := make([]int, len(dims))
	for i, d := range dims {
		v, err := dimension(d)
		if err != nil {
			return nil, errors.Wrapf(err, "dimension %d", i)
		}
		shape[i] = v
	}
	return shape, nil
}

func dimension(v interface{}) (int, error) {
	var i int64

	switch n := v.(type) {
	case interface{ Int64() (int64, error) }:
		var err error
		if i, err = n.Int64(); err != nil {
			return 0, malformed("%v is not an integer", v)
		}
	case float64:
		if n != math.Trunc(n) {
			return 0, malformed("%v is not an integer", v)
		}
		if n < 0 {
			return 0, malformed("%v is negative", v)
		}
		if n >= math.MaxInt64 {
			return 0, malformed("%v is too large", v)
		}
		i = int64(n)
	case int:
		i = int64(n)
	case int64:
		i = n
	default:
		return 0, malformed("%v (%T) is not an integer", v, v)
	}

	if i < 0 {
		return 0, malformed("%d is negative", i)
	}
	if i > math.MaxInt {
		return 0, malformed("%d is too large", i)
	}
	return int(i), nil
}
