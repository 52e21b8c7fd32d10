package fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/birkland/brimval/metadata"
	"github.com/pkg/errors"
)

// LocateStore finds the root directory of the store containing the given location.
// The location may be the store root itself, or any node, chunk, or file within it.
// The root is the uppermost directory of the unbroken chain of node directories
// above the location.
func LocateStore(loc string) (string, error) {
	addr, err := filepath.Abs(loc)
	if err != nil {
		return "", errors.Wrapf(err, "could not calculate absolute path of %s", loc)
	}

	node, err := isNode(addr)
	if err != nil {
		return "", errors.Wrapf(err, "error locating store at %s", loc)
	}

	if !node {
		addr, err = crawlForNode(addr)
		if err != nil {
			return "", errors.Wrapf(err, "error locating store at %s", loc)
		}
	}

	for {
		parent := filepath.Dir(addr)
		if parent == addr {
			return addr, nil
		}

		node, err := isNode(parent)
		if err != nil {
			return "", errors.Wrapf(err, "error locating store at %s", loc)
		}
		if !node {
			return addr, nil
		}
		addr = parent
	}
}

// Crawl up a directory hierarchy until we reach a node directory.
// Returns an error if no nodes are found.
func crawlForNode(addr string) (string, error) {
	parent := filepath.Dir(addr)

	found, err := isNode(parent)
	if err != nil {
		return "", errors.Wrapf(err, "error detecting store node")
	}

	if !found && parent == addr {
		return "", fmt.Errorf("no store found crawling up to /")
	}

	if !found {
		return crawlForNode(parent)
	}

	return parent, nil
}

// Detect if this is a node directory, i.e. a directory containing a zarr.json.
// returns an error if the given path is not found or otherwise
// there is a problem accessing it.
func isNode(path string) (bool, error) {
	dir, err := os.Stat(path)
	if err != nil {
		return false, err
	}

	if !dir.IsDir() {
		return false, nil
	}

	md, err := os.Stat(filepath.Join(path, metadata.RootFile))

	// We expect a "file not found" error if this isn't a node,
	// and simply return false in that case.  Anything else (e.g. "permission denied"),
	// we should truly return as an error
	if err != nil && !os.IsNotExist(err) {
		return false, errors.Wrapf(err, "error detecting %s in %s", metadata.RootFile, path)
	}

	return err == nil && md.Mode().IsRegular(), nil
}
