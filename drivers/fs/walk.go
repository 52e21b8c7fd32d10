package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/birkland/brimval/metadata"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

const (
	dontGoDeeper = true
	goDeeper     = false
)

// readNodes collects the metadata documents of every node underneath the store
// root, keyed by slash delimited node path.
//
// Only node directories are descended into.  Arrays are leaves: whatever is
// underneath them is chunk data.  Symbolic links are not followed.
func (d *Driver) readNodes(ctx context.Context, store string) (map[string]map[string]interface{}, error) {
	nodes := make(map[string]map[string]interface{})

	err := fsWalk(store, func(ospath string, e *godirwalk.Dirent) (bool, error) {
		if err := ctx.Err(); err != nil {
			return dontGoDeeper, err
		}

		// We don't care about regular files, and links may form cycles
		if !e.IsDir() {
			return dontGoDeeper, nil
		}

		if ospath == store {
			return goDeeper, nil
		}

		rel, err := filepath.Rel(store, ospath)
		if err != nil {
			return dontGoDeeper, errors.Wrapf(err, "could not relativize %s", ospath)
		}
		node := filepath.ToSlash(rel)

		if found, err := isNode(ospath); err != nil {
			return dontGoDeeper, err
		} else if !found {
			return dontGoDeeper, nil
		}

		doc, err := ReadDocument(d.metadataFile(store, node))
		if err != nil {
			return dontGoDeeper, err
		}

		nodes[node] = doc

		if metadata.Node(doc).NodeType() == "array" {
			return dontGoDeeper, nil
		}
		return goDeeper, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "error performing walk")
	}

	return nodes, nil
}

type skip struct {
	action godirwalk.ErrorAction
}

func (skip) Error() string {
	return "node is skipped"
}

// Callback to be invoked each time a fs entry is encountered.
// Returns a Boolean indicating whether the current fs entry should be a
// considered a terminal (leaf) node.  If true, any children will not be
// walked.  Any error will terminate a walk entirely.
type fsCallback func(ospath string, e *godirwalk.Dirent) (terminal bool, err error)

func fsWalk(dir string, f fsCallback) error {

	if _, err := os.Stat(dir); err != nil {
		return errors.Wrapf(err, "error walking directory %s", dir)
	}

	return godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(ospath string, dirent *godirwalk.Dirent) error {
			terminal, err := f(ospath, dirent)
			if err != nil {
				return errors.Wrap(err, "terminating walk due to error")
			}
			if terminal {
				return skip{godirwalk.SkipNode}
			}
			return nil
		},
		ErrorCallback: func(ospath string, err error) godirwalk.ErrorAction {
			s, skip := errors.Cause(err).(skip)
			if skip {
				return s.action
			}

			return godirwalk.Halt
		},
		Unsorted: true,
	},
	)
}
