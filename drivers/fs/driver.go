package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/birkland/brimval/fspath"
	"github.com/birkland/brimval/metadata"
	"github.com/pkg/errors"
)

// Driver represents the filesystem driver for brim stores
type Driver struct {
	cfg Config
}

// Config encapsulates a filesystem driver config.
//
// The metadata key generator maps node paths to the relative location of their
// metadata documents.  If not provided, fspath.NodeMetadata is used.
type Config struct {
	MetadataKeys fspath.Generator
}

// NewDriver initializes a new filesystem driver
func NewDriver(cfg Config) *Driver {
	if cfg.MetadataKeys == nil {
		cfg.MetadataKeys = fspath.NodeMetadata
	}
	return &Driver{cfg: cfg}
}

// Consolidate gathers the metadata of every node in the store containing loc, and
// rewrites the root metadata document with the result.
func (d *Driver) Consolidate(ctx context.Context, loc string) error {
	store, err := LocateStore(loc)
	if err != nil {
		return err
	}

	rootFile := d.metadataFile(store, "")
	root, err := ReadDocument(rootFile)
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

	return WriteDocument(rootFile, root)
}

// LoadMetadata reads the consolidated metadata of the store containing loc
func (d *Driver) LoadMetadata(ctx context.Context, loc string) (*metadata.Document, error) {
	store, err := LocateStore(loc)
	if err != nil {
		return nil, err
	}

	rootFile := d.metadataFile(store, "")
	file, err := os.Open(rootFile)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open metadata at %s", store)
	}
	defer file.Close()

	doc := metadata.Document{}
	if err := metadata.Parse(file, &doc); err != nil {
		return nil, errors.Wrapf(err, "could not parse metadata at %s", rootFile)
	}

	return &doc, nil
}

// LoadSchema reads a json schema file
func (d *Driver) LoadSchema(ctx context.Context, loc string) (interface{}, error) {
	return ReadDocument(loc)
}

func (d *Driver) metadataFile(store, node string) string {
	return filepath.Join(store, filepath.FromSlash(d.cfg.MetadataKeys.Generate(node)))
}
