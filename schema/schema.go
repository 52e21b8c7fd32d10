package schema

import (
	"fmt"
	"strings"

	"github.com/birkland/brimval"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// Draft is the JSON Schema draft schema documents are checked against
const Draft = gojsonschema.Draft6

// Detail keys holding the expected side of a comparison, in order of preference
var expectedKeys = []string{"expected", "allowed", "min", "max", "multiple", "pattern", "format"}

// DefinitionError indicates a schema document that is not itself a valid schema
type DefinitionError struct {
	Err error
}

func (e *DefinitionError) Error() string {
	return "invalid schema definition: " + strings.TrimSpace(e.Err.Error())
}

// IsDefinitionError tells whether the cause of an error is a DefinitionError
func IsDefinitionError(err error) bool {
	_, ok := errors.Cause(err).(*DefinitionError)
	return ok
}

// Schema is a meta-validated, compiled schema document
type Schema struct {
	compiled *gojsonschema.Schema
}

// Compile meta-validates a decoded schema document and compiles it.
func Compile(doc interface{}) (*Schema, error) {
	if doc == nil {
		return nil, &DefinitionError{Err: fmt.Errorf("schema document is empty")}
	}

	sl := gojsonschema.NewSchemaLoader()
	sl.Validate = true
	sl.AutoDetect = false
	sl.Draft = Draft

	compiled, err := sl.Compile(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, &DefinitionError{Err: err}
	}

	return &Schema{compiled: compiled}, nil
}

// Check evaluates an instance against the schema.  When the instance violates
// several constraints, the one with the least JSON pointer is returned, ties
// broken by rule, field and description.
func (s *Schema) Check(instance interface{}) brimval.Outcome {
	result, err := s.compiled.Validate(gojsonschema.NewGoLoader(instance))
	if err != nil {
		return brimval.Fail(brimval.SchemaConformance, brimval.UnexpectedError,
			errors.Wrap(err, "could not evaluate metadata against schema"))
	}

	if result.Valid() {
		return brimval.Pass(brimval.SchemaConformance)
	}

	// The evaluator reports violations in no stable order
	errs := result.Errors()
	first := errs[0]
	for _, e := range errs[1:] {
		if precedes(e, first) {
			first = e
		}
	}
	return violation(first)
}

func precedes(a, b gojsonschema.ResultError) bool {
	if pa, pb := pointer(a), pointer(b); pa != pb {
		return pa < pb
	}
	if a.Type() != b.Type() {
		return a.Type() < b.Type()
	}
	if a.Field() != b.Field() {
		return a.Field() < b.Field()
	}
	return a.Description() < b.Description()
}

func violation(e gojsonschema.ResultError) brimval.Outcome {
	details := e.Details()

	o := brimval.Outcome{
		Kind:   brimval.ConformanceError,
		Stage:  brimval.SchemaConformance,
		Rule:   e.Type(),
		Reason: e.Description(),
		Path:   pointer(e),
		Value:  e.Value(),
	}

	for _, k := range expectedKeys {
		if v, ok := details[k]; ok {
			o.Expected = v
			break
		}
	}

	return o
}

// pointer locates a violation.  The context of a missing property is its
// parent object, so the property is appended.
func pointer(e gojsonschema.ResultError) string {
	p := Pointer(e.Context())
	if property, ok := e.Details()["property"].(string); ok && e.Type() == "required" {
		p = p + "/" + escape(property)
	}
	return p
}

// Pointer renders an evaluation context as an RFC 6901 JSON pointer.  The root
// of the instance is the empty pointer.
func Pointer(ctx *gojsonschema.JsonContext) string {
	if ctx == nil {
		return ""
	}

	// The first token is the evaluator's name for the root
	tokens := strings.Split(ctx.String("\x00"), "\x00")[1:]

	var b strings.Builder
	for _, t := range tokens {
		b.WriteString("/")
		b.WriteString(escape(t))
	}
	return b.String()
}

func escape(token string) string {
	return strings.NewReplacer("~", "~0", "/", "~1").Replace(token)
}
