package validate

import (
	"context"
	"io"

	"github.com/birkland/brimval"
	"github.com/birkland/brimval/metadata"
	"github.com/birkland/brimval/schema"
	"github.com/birkland/brimval/shape"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Config encapsulates a validator config.
//
// Metadata and Schemas are mandatory.  If Groups is nil, shape.DefaultGroups is
// used; an empty, non-nil Groups disables the shape check in effect.  Consolidation
// can be skipped for stores that are read only, or consolidated elsewhere.
type Config struct {
	Metadata        brimval.MetadataAccessor
	Schemas         brimval.SchemaAccessor
	Groups          shape.Groups
	SkipConsolidate bool
	Logger          *log.Logger
}

// Validator validates stores against schemas.  It is safe for concurrent use.
type Validator struct {
	cfg Config
}

// run holds what the stages of a single validation pass along to each other
type run struct {
	ctx       context.Context
	store     string
	schemaLoc string
	log       *log.Logger

	doc    *metadata.Document
	raw    interface{}
	schema *schema.Schema
}

type stage struct {
	id  brimval.Stage
	run func(*Validator, *run) brimval.Outcome
}

// Stages in order of execution
var stages = []stage{
	{brimval.Consolidate, (*Validator).consolidate},
	{brimval.Load, (*Validator).load},
	{brimval.SchemaSelfCheck, (*Validator).selfCheck},
	{brimval.ShapeCheck, (*Validator).shapeCheck},
	{brimval.SchemaConformance, (*Validator).conformance},
}

// NewValidator initializes a new validator
func NewValidator(cfg Config) *Validator {
	if cfg.Groups == nil {
		cfg.Groups = shape.DefaultGroups
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Validator{cfg: cfg}
}

// Validate validates the store at the given location against the schema at the
// given location.  The outcome is Valid only if every stage passed.
func (v *Validator) Validate(ctx context.Context, store, schemaLoc string) brimval.Outcome {
	r := &run{
		ctx:       ctx,
		store:     store,
		schemaLoc: schemaLoc,
		log:       v.cfg.Logger.With("run", uuid.NewString(), "store", store),
	}

	r.log.Info("validating", "schema", schemaLoc)

	for _, s := range stages {
		r.log.Debug("starting stage", "stage", s.id)
		if o := v.do(s, r); !o.Valid() {
			r.log.Error("validation failed", "stage", o.Stage, "kind", o.Kind, "path", o.Path)
			return o
		}
	}

	r.log.Info("validation successful")
	return brimval.Pass(brimval.SchemaConformance)
}

// do runs a single stage, converting a panic into a failed outcome
func (v *Validator) do(s stage, r *run) (o brimval.Outcome) {
	defer func() {
		if p := recover(); p != nil {
			o = brimval.Fail(s.id, brimval.UnexpectedError, errors.Errorf("panic: %v", p))
		}
	}()

	o = s.run(v, r)
	o.Stage = s.id
	return o
}

func (v *Validator) consolidate(r *run) brimval.Outcome {
	if v.cfg.SkipConsolidate {
		return brimval.Pass(brimval.Consolidate)
	}

	if err := v.cfg.Metadata.Consolidate(r.ctx, r.store); err != nil {
		return brimval.Fail(brimval.Consolidate, brimval.ConsolidationError, err)
	}
	return brimval.Pass(brimval.Consolidate)
}

func (v *Validator) load(r *run) brimval.Outcome {
	var err error

	r.doc, err = v.cfg.Metadata.LoadMetadata(r.ctx, r.store)
	if err != nil {
		return loadFailure(errors.Wrapf(err, "could not load metadata of %s", r.store))
	}

	r.raw, err = v.cfg.Schemas.LoadSchema(r.ctx, r.schemaLoc)
	if err != nil {
		return loadFailure(errors.Wrapf(err, "could not load schema %s", r.schemaLoc))
	}

	return brimval.Pass(brimval.Load)
}

// Documents that were read but could not be understood are not I/O errors
func loadFailure(err error) brimval.Outcome {
	if metadata.IsMalformed(err) {
		return brimval.Fail(brimval.Load, brimval.UnexpectedError, err)
	}
	return brimval.Fail(brimval.Load, brimval.IOError, err)
}

func (v *Validator) selfCheck(r *run) brimval.Outcome {
	var err error
	if r.schema, err = schema.Compile(r.raw); schema.IsDefinitionError(err) {
		return brimval.Fail(brimval.SchemaSelfCheck, brimval.SchemaDefinitionError, err)
	} else if err != nil {
		return brimval.Fail(brimval.SchemaSelfCheck, brimval.UnexpectedError, err)
	}
	return brimval.Pass(brimval.SchemaSelfCheck)
}

func (v *Validator) shapeCheck(r *run) brimval.Outcome {
	return shape.Check(r.doc, v.cfg.Groups)
}

func (v *Validator) conformance(r *run) brimval.Outcome {
	return r.schema.Check(r.doc.Instance())
}
