package validate_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"testing"

	"github.com/birkland/brimval"
	"github.com/birkland/brimval/drivers/fs"
	"github.com/birkland/brimval/metadata"
	"github.com/birkland/brimval/shape"
	"github.com/birkland/brimval/validate"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

const (
	root  = `{"zarr_format": 3, "node_type": "group", "attributes": {"brim_version": "0.1"}}`
	group = `{"zarr_format": 3, "node_type": "group", "attributes": {}}`

	testSchema = "testdata/brim_schema.json"
)

func array(shape ...int) string {
	dims := ""
	for i, d := range shape {
		if i > 0 {
			dims += ", "
		}
		dims += fmt.Sprint(d)
	}
	return fmt.Sprintf(`{"zarr_format": 3, "node_type": "array", "shape": [%s], "data_type": "float32"}`, dims)
}

// brimNodes describes a store holding every array of the default groups, each with
// the given leading dimension
func brimNodes(leading int) map[string]string {
	nodes := map[string]string{"": root}
	for _, p := range shape.DefaultGroups.Paths() {
		nodes[p] = array(leading, 4)
		for dir := path.Dir(p); dir != "."; dir = path.Dir(dir) {
			nodes[dir] = group
		}
	}
	nodes[path.Join(shape.BrillouinData, "PSD")] = array(leading, 4, 512)
	return nodes
}

func writeStore(t *testing.T, nodes map[string]string) string {
	t.Helper()
	store := filepath.Join(t.TempDir(), "test.brim")

	for node, doc := range nodes {
		dir := filepath.Join(store, filepath.FromSlash(node))
		require.NoError(t, os.MkdirAll(dir, 0775))
		require.NoError(t, os.WriteFile(filepath.Join(dir, metadata.RootFile), []byte(doc), 0664))
	}
	return store
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(file, []byte(content), 0664))
	return file
}

func newValidator(cfg validate.Config) *validate.Validator {
	d := fs.NewDriver(fs.Config{})
	if cfg.Metadata == nil {
		cfg.Metadata = d
	}
	if cfg.Schemas == nil {
		cfg.Schemas = d
	}
	return validate.NewValidator(cfg)
}

func TestValidStore(t *testing.T) {
	store := writeStore(t, brimNodes(100))

	o := newValidator(validate.Config{}).Validate(context.Background(), store, testSchema)

	require.True(t, o.Valid(), o.String())
	require.Equal(t, brimval.Valid, o.Kind)
	require.Equal(t, brimval.SchemaConformance, o.Stage)
	require.Equal(t, "valid", o.String())
}

func TestShapeMismatch(t *testing.T) {
	nodes := brimNodes(100)
	nodes[path.Join(shape.BrillouinData, "PSD")] = array(90, 4, 512)
	store := writeStore(t, nodes)

	o := newValidator(validate.Config{}).Validate(context.Background(), store, testSchema)

	require.Equal(t, brimval.ShapeMismatchError, o.Kind)
	require.Equal(t, brimval.ShapeCheck, o.Stage)
	require.Equal(t, "Brillouin_data/Data_0/PSD", o.Path)
	require.Equal(t, 100, o.Expected)
	require.Equal(t, 90, o.Value)
}

func TestMissingArray(t *testing.T) {
	nodes := brimNodes(100)
	delete(nodes, path.Join(shape.BrillouinData, "Analyzed_data", "Width_S"))
	store := writeStore(t, nodes)

	o := newValidator(validate.Config{}).Validate(context.Background(), store, testSchema)

	require.Equal(t, brimval.MissingArrayError, o.Kind)
	require.Equal(t, brimval.ShapeCheck, o.Stage)
	require.Equal(t, "Brillouin_data/Data_0/Analyzed_data/Width_S", o.Path)
}

func TestConformance(t *testing.T) {
	cases := []struct {
		name string
		root string
		rule string
		path string
	}{
		{
			name: "missingVersion",
			root: `{"zarr_format": 3, "node_type": "group", "attributes": {}}`,
			rule: "required",
			path: "/attributes/brim_version",
		},
		{
			name: "badVersion",
			root: `{"zarr_format": 3, "node_type": "group", "attributes": {"brim_version": "one"}}`,
			rule: "pattern",
			path: "/attributes/brim_version",
		},
		{
			name: "wrongFormat",
			root: `{"zarr_format": 2, "node_type": "group", "attributes": {"brim_version": "0.1"}}`,
			rule: "const",
			path: "/zarr_format",
		},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			nodes := brimNodes(100)
			nodes[""] = c.root
			store := writeStore(t, nodes)

			o := newValidator(validate.Config{}).Validate(context.Background(), store, testSchema)

			require.Equal(t, brimval.ConformanceError, o.Kind, o.String())
			require.Equal(t, brimval.SchemaConformance, o.Stage)
			require.Equal(t, c.rule, o.Rule)
			require.Equal(t, c.path, o.Path)
			require.NotEmpty(t, o.Reason)
		})
	}
}

func TestFailFast(t *testing.T) {
	nodes := brimNodes(100)
	nodes[""] = group
	nodes[path.Join(shape.BrillouinData, "Spatial_map", "z")] = array(3)
	store := writeStore(t, nodes)

	o := newValidator(validate.Config{}).Validate(context.Background(), store, testSchema)

	require.Equal(t, brimval.ShapeMismatchError, o.Kind)
	require.Equal(t, "Brillouin_data/Data_0/Spatial_map/z", o.Path)
}

func TestIdempotent(t *testing.T) {
	mismatch := brimNodes(100)
	mismatch[path.Join(shape.BrillouinData, "PSD")] = array(90)

	// Several simultaneous violations
	nonconforming := brimNodes(100)
	nonconforming[""] = `{"zarr_format": 2, "node_type": "group", "attributes": {"brim_version": 1}}`
	nonconforming[path.Join(shape.BrillouinData, "Frequency")] = `{"zarr_format": 3, "node_type": "array", "shape": [100]}`

	cases := []struct {
		name  string
		nodes map[string]string
		kind  brimval.Kind
		path  string
	}{
		{"mismatch", mismatch, brimval.ShapeMismatchError, "Brillouin_data/Data_0/PSD"},
		{"nonconforming", nonconforming, brimval.ConformanceError, "/attributes/brim_version"},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			store := writeStore(t, c.nodes)
			v := newValidator(validate.Config{})

			first := v.Validate(context.Background(), store, testSchema)
			require.Equal(t, c.kind, first.Kind, first.String())
			require.Equal(t, c.path, first.Path)

			for i := 0; i < 20; i++ {
				o := v.Validate(context.Background(), store, testSchema)
				require.Equal(t, first.String(), o.String())
				require.Equal(t, first.Stage, o.Stage)
				require.Equal(t, first.Rule, o.Rule)
			}
		})
	}
}

func TestConsolidationError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nothing", "here")

	o := newValidator(validate.Config{}).Validate(context.Background(), missing, testSchema)

	require.Equal(t, brimval.ConsolidationError, o.Kind)
	require.Equal(t, brimval.Consolidate, o.Stage)
	require.Error(t, o.Err)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name   string
		schema string
		kind   brimval.Kind
	}{
		{"missingSchema", filepath.Join(t.TempDir(), "missing.json"), brimval.IOError},
		{"undecodableSchema", writeFile(t, `{"type": `), brimval.UnexpectedError},
		{"schemaNotAnObject", writeFile(t, `[true]`), brimval.UnexpectedError},
	}

	for _, c := range cases {
		c := c
		t.Run(c.name, func(t *testing.T) {
			store := writeStore(t, brimNodes(10))

			o := newValidator(validate.Config{}).Validate(context.Background(), store, c.schema)

			require.Equal(t, c.kind, o.Kind, o.String())
			require.Equal(t, brimval.Load, o.Stage)
		})
	}
}

func TestSkipConsolidate(t *testing.T) {
	store := writeStore(t, brimNodes(10))
	v := newValidator(validate.Config{SkipConsolidate: true})

	// Never consolidated, so there is no consolidated block to load
	o := v.Validate(context.Background(), store, testSchema)
	require.Equal(t, brimval.UnexpectedError, o.Kind)
	require.Equal(t, brimval.Load, o.Stage)

	require.NoError(t, fs.NewDriver(fs.Config{}).Consolidate(context.Background(), store))

	o = v.Validate(context.Background(), store, testSchema)
	require.True(t, o.Valid(), o.String())
}

func TestSchemaDefinitionError(t *testing.T) {
	store := writeStore(t, brimNodes(100))
	invalid := writeFile(t, `{"type": 5, "required": "attributes"}`)

	o := newValidator(validate.Config{}).Validate(context.Background(), store, invalid)

	require.Equal(t, brimval.SchemaDefinitionError, o.Kind)
	require.Equal(t, brimval.SchemaSelfCheck, o.Stage)
}

// Meta-validation happens before the metadata is looked at
func TestSchemaDefinitionBeforeShape(t *testing.T) {
	nodes := brimNodes(100)
	nodes[path.Join(shape.BrillouinData, "PSD")] = array(90)
	store := writeStore(t, nodes)
	invalid := writeFile(t, `{"minimum": "zero"}`)

	o := newValidator(validate.Config{}).Validate(context.Background(), store, invalid)

	require.Equal(t, brimval.SchemaDefinitionError, o.Kind)
}

func TestCustomGroups(t *testing.T) {
	nodes := brimNodes(100)
	nodes[path.Join(shape.BrillouinData, "PSD")] = array(90)
	store := writeStore(t, nodes)

	groups := shape.Groups{{
		Prefix:     shape.BrillouinData,
		Reference:  "Frequency",
		Dependents: []string{"Spatial_map/x"},
	}}

	o := newValidator(validate.Config{Groups: groups}).Validate(context.Background(), store, testSchema)
	require.True(t, o.Valid(), o.String())

	o = newValidator(validate.Config{Groups: shape.Groups{}}).Validate(context.Background(), store, testSchema)
	require.True(t, o.Valid(), o.String())
}

type panicky struct {
	brimval.MetadataAccessor
}

func (panicky) LoadMetadata(context.Context, string) (*metadata.Document, error) {
	panic("boom")
}

func TestPanicRecovered(t *testing.T) {
	store := writeStore(t, brimNodes(100))

	o := newValidator(validate.Config{
		Metadata: panicky{fs.NewDriver(fs.Config{})},
	}).Validate(context.Background(), store, testSchema)

	require.Equal(t, brimval.UnexpectedError, o.Kind)
	require.Equal(t, brimval.Load, o.Stage)
	require.Contains(t, o.Reason, "boom")
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)
	logger.SetLevel(log.DebugLevel)

	store := writeStore(t, brimNodes(100))

	o := newValidator(validate.Config{Logger: logger}).Validate(context.Background(), store, testSchema)
	require.True(t, o.Valid(), o.String())

	out := buf.String()
	require.Contains(t, out, "run=")
	require.Contains(t, out, "schema-conformance")
	require.Contains(t, out, "validation successful")
}
