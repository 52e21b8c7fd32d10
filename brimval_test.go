package brimval_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/birkland/brimval"
)

func TestParseKind(t *testing.T) {
	kinds := []brimval.Kind{
		brimval.Valid,
		brimval.IOError,
		brimval.ConsolidationError,
		brimval.SchemaDefinitionError,
		brimval.MissingArrayError,
		brimval.ShapeMismatchError,
		brimval.ConformanceError,
		brimval.UnexpectedError,
	}

	for _, k := range kinds {
		k := k
		t.Run(k.String(), func(t *testing.T) {
			if parsed := brimval.ParseKind(k.String()); parsed != k {
				t.Errorf("Expected %s, got %s", k, parsed)
			}
			if parsed := brimval.ParseKind(strings.ToLower(k.String())); parsed != k {
				t.Errorf("Parsing should be case insensitive, got %s", parsed)
			}
		})
	}

	if k := brimval.ParseKind("nonsense"); k != brimval.UnexpectedError {
		t.Errorf("Unknown names should parse as %s, got %s", brimval.UnexpectedError, k)
	}
}

func TestOutcomeString(t *testing.T) {
	cases := []struct {
		name     string
		outcome  brimval.Outcome
		expected string
	}{
		{"valid", brimval.Pass(brimval.SchemaConformance), "valid"},
		{"failed", brimval.Fail(brimval.Load, brimval.IOError, fmt.Errorf("no such file")),
			"load failed: IOError: no such file"},
		{"mismatch", brimval.Outcome{
			Kind:     brimval.ShapeMismatchError,
			Stage:    brimval.ShapeCheck,
			Path:     "Brillouin_data/Data_0/PSD",
			Reason:   "leading dimension differs",
			Expected: 100,
			Value:    90,
		}, `shape-check failed: ShapeMismatchError at "Brillouin_data/Data_0/PSD": leading dimension differs; expected 100, got 90`},
		{"conformance", brimval.Outcome{
			Kind:  brimval.ConformanceError,
			Stage: brimval.SchemaConformance,
			Path:  "/zarr_format",
			Rule:  "const",
			Value: 2,
		}, `schema-conformance failed: ConformanceError at "/zarr_format" (rule const); offending value 2`},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			if s := c.outcome.String(); s != c.expected {
				t.Errorf("Expected %q, got %q", c.expected, s)
			}
		})
	}
}
