package brimval

import (
	"context"
	"fmt"
	"strings"

	"github.com/birkland/brimval/metadata"
)

// Kind names the category of a validation outcome
type Kind int

// Outcome kinds.  Valid is the only successful kind.
const (
	Valid Kind = iota
	IOError
	ConsolidationError
	SchemaDefinitionError
	MissingArrayError
	ShapeMismatchError
	ConformanceError
	UnexpectedError
)

var kindNames = map[Kind]string{
	Valid:                 "Valid",
	IOError:               "IOError",
	ConsolidationError:    "ConsolidationError",
	SchemaDefinitionError: "SchemaDefinitionError",
	MissingArrayError:     "MissingArrayError",
	ShapeMismatchError:    "ShapeMismatchError",
	ConformanceError:      "ConformanceError",
	UnexpectedError:       "UnexpectedError",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a kind name, case insensitive.  Unknown names parse as UnexpectedError.
func ParseKind(name string) Kind {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k
		}
	}
	return UnexpectedError
}

// Stage names a step of a validation run, in execution order
type Stage int

// Validation stages
const (
	Consolidate Stage = iota
	Load
	SchemaSelfCheck
	ShapeCheck
	SchemaConformance
)

var stageNames = []string{"consolidate", "load", "schema-self-check", "shape-check", "schema-conformance"}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("Stage(%d)", int(s))
	}
	return stageNames[s]
}

// Outcome is the result of a single check, or of a whole validation run.
//
// Path is an array path for shape failures, or a JSON pointer for conformance failures.
// Expected and Value hold the expected and actual values when a comparison failed.
type Outcome struct {
	Kind     Kind
	Stage    Stage
	Reason   string
	Path     string
	Rule     string
	Value    interface{}
	Expected interface{}
	Err      error
}

// Pass returns a Valid outcome for the given stage
func Pass(stage Stage) Outcome {
	return Outcome{Kind: Valid, Stage: stage}
}

// Fail returns a failed outcome of the given kind
func Fail(stage Stage, kind Kind, err error) Outcome {
	o := Outcome{Kind: kind, Stage: stage, Err: err}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}

// Valid tells whether the outcome is a success
func (o Outcome) Valid() bool {
	return o.Kind == Valid
}

// String renders a single line diagnostic
func (o Outcome) String() string {
	if o.Valid() {
		return "valid"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s failed: %s", o.Stage, o.Kind)
	if o.Path != "" {
		fmt.Fprintf(&b, " at %q", o.Path)
	}
	if o.Rule != "" {
		fmt.Fprintf(&b, " (rule %s)", o.Rule)
	}
	if o.Reason != "" {
		fmt.Fprintf(&b, ": %s", o.Reason)
	}
	if o.Expected != nil {
		fmt.Fprintf(&b, "; expected %v, got %v", o.Expected, o.Value)
	} else if o.Value != nil && o.Kind == ConformanceError {
		fmt.Fprintf(&b, "; offending value %v", o.Value)
	}
	return b.String()
}

// MetadataAccessor consolidates and reads the metadata of array stores
type MetadataAccessor interface {

	// Consolidate aggregates the metadata of every node in the store into the
	// store's root metadata document.
	Consolidate(ctx context.Context, store string) error

	// LoadMetadata reads the consolidated root metadata document of a store
	LoadMetadata(ctx context.Context, store string) (*metadata.Document, error)
}

// SchemaAccessor reads schema documents
type SchemaAccessor interface {
	LoadSchema(ctx context.Context, loc string) (interface{}, error)
}

// Driver provides access to stores and schemas in some storage medium
type Driver interface {
	MetadataAccessor
	SchemaAccessor
}
