package s3

import (
	"bytes"
	"context"
	"sort"
	"strings"

	"github.com/birkland/brimval/fspath"
	"github.com/birkland/brimval/metadata"
	"github.com/pkg/errors"
)

// Driver represents the S3 driver for brim stores
type Driver struct {
	objects ObjectStore
	keys    fspath.Generator
}

// NewDriver connects a driver to the S3 endpoint described by the config
func NewDriver(cfg Config) (*Driver, error) {
	store, err := newMinioStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewDriverWith(store), nil
}

// NewDriverWith creates a driver on top of an arbitrary object store
func NewDriverWith(objects ObjectStore) *Driver {
	return &Driver{
		objects: objects,
		keys:    fspath.NodeMetadata,
	}
}

// Consolidate gathers the metadata of every node under the store location, and
// rewrites the root metadata object with the result.
func (d *Driver) Consolidate(ctx context.Context, loc string) error {
	store, err := ParseLocation(loc)
	if err != nil {
		return err
	}

	rootKey := store.Key(d.keys.Generate(""))
	root, err := d.read(ctx, store.Bucket, rootKey)
	if err != nil {
		return err
	}

	nodes, err := d.readNodes(ctx, store)
	if err != nil {
		return errors.Wrapf(err, "could not read node metadata of %s", store)
	}

	if err := metadata.Consolidate(root, nodes); err != nil {
		return errors.Wrapf(err, "could not consolidate %s", store)
	}

	var buf bytes.Buffer
	if err := metadata.Serialize(&buf, root); err != nil {
		return err
	}
	return d.objects.Put(ctx, store.Bucket, rootKey, buf.Bytes())
}

// LoadMetadata reads the consolidated metadata of the store at the given location
func (d *Driver) LoadMetadata(ctx context.Context, loc string) (*metadata.Document, error) {
	store, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}

	r, err := d.objects.Get(ctx, store.Bucket, store.Key(d.keys.Generate("")))
	if err != nil {
		return nil, errors.Wrapf(err, "could not open metadata at %s", store)
	}
	defer r.Close()

	doc := metadata.Document{}
	if err := metadata.Parse(r, &doc); err != nil {
		return nil, errors.Wrapf(err, "could not parse metadata at %s", store)
	}
	return &doc, nil
}

// LoadSchema reads a json schema object
func (d *Driver) LoadSchema(ctx context.Context, loc string) (interface{}, error) {
	l, err := ParseLocation(loc)
	if err != nil {
		return nil, err
	}
	return d.read(ctx, l.Bucket, l.Prefix)
}

func (d *Driver) read(ctx context.Context, bucket, key string) (map[string]interface{}, error) {
	r, err := d.objects.Get(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc, err := metadata.Decode(r)
	if err != nil {
		return nil, errors.Wrapf(err, "could not parse %s/%s", bucket, key)
	}
	return doc, nil
}

// readNodes reads every node metadata document under the store, except for
// anything underneath an array.
func (d *Driver) readNodes(ctx context.Context, store Location) (map[string]map[string]interface{}, error) {
	listPrefix := ""
	if store.Prefix != "" {
		listPrefix = store.Prefix + "/"
	}

	keys, err := d.objects.List(ctx, store.Bucket, listPrefix)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, key := range keys {
		rel, ok := store.Rel(key)
		if !ok {
			continue
		}
		if node, ok := fspath.NodePath(rel); ok && node != "" {
			paths = append(paths, node)
		}
	}

	// Parents sort before their children
	sort.Strings(paths)

	nodes := make(map[string]map[string]interface{}, len(paths))
	var arrays []string
	for _, node := range paths {
		if underAny(node, arrays) {
			continue
		}

		doc, err := d.read(ctx, store.Bucket, store.Key(d.keys.Generate(node)))
		if err != nil {
			return nil, err
		}

		nodes[node] = doc
		if metadata.Node(doc).NodeType() == "array" {
			arrays = append(arrays, node)
		}
	}

	return nodes, nil
}

func underAny(node string, parents []string) bool {
	for _, p := range parents {
		if strings.HasPrefix(node, p+"/") {
			return true
		}
	}
	return false
}
