package shape

import (
	"fmt"

	"github.com/birkland/brimval"
	"github.com/birkland/brimval/metadata"
	"github.com/pkg/errors"
)

// Check verifies that every dependent array of every group has the same leading
// dimension as the group's reference array.
//
// The check stops at the first problem found, in iteration order.  An array
// missing from the document is a MissingArrayError, a differing leading
// dimension is a ShapeMismatchError, and an unreadable shape is an UnexpectedError.
func Check(doc *metadata.Document, groups Groups) brimval.Outcome {
	if doc == nil {
		return brimval.Fail(brimval.ShapeCheck, brimval.UnexpectedError, fmt.Errorf("no metadata document"))
	}

	for _, g := range groups {
		ref := g.Path(g.Reference)
		want, outcome := leading(doc, ref)
		if !outcome.Valid() {
			return outcome
		}

		for _, d := range g.Dependents {
			dep := g.Path(d)
			got, outcome := leading(doc, dep)
			if !outcome.Valid() {
				return outcome
			}

			if got != want {
				return brimval.Outcome{
					Kind:     brimval.ShapeMismatchError,
					Stage:    brimval.ShapeCheck,
					Path:     dep,
					Expected: want,
					Value:    got,
					Reason:   fmt.Sprintf("leading dimension does not match reference array %s", ref),
				}
			}
		}
	}

	return brimval.Pass(brimval.ShapeCheck)
}

// leading returns the first dimension of the array at the given path
func leading(doc *metadata.Document, path string) (int, brimval.Outcome) {
	node, ok := doc.Node(path)
	if !ok {
		return 0, brimval.Outcome{
			Kind:   brimval.MissingArrayError,
			Stage:  brimval.ShapeCheck,
			Path:   path,
			Reason: "array is not present in the consolidated metadata",
		}
	}

	shape, err := node.Shape()
	if err != nil {
		o := brimval.Fail(brimval.ShapeCheck, brimval.UnexpectedError, errors.Wrapf(err, "bad shape of %s", path))
		o.Path = path
		return 0, o
	}

	return shape[0], brimval.Pass(brimval.ShapeCheck)
}
