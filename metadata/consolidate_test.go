package metadata_test

import (
	"testing"

	"github.com/birkland/brimval/metadata"
	"github.com/go-test/deep"
)

func TestConsolidate(t *testing.T) {
	root := map[string]interface{}{
		"zarr_format": 3,
		"node_type":   "group",
	}

	nodes := map[string]map[string]interface{}{
		"Brillouin_data": {
			"node_type": "group",
			metadata.ConsolidatedKey: map[string]interface{}{
				"kind": "inline",
			},
		},
		"Brillouin_data/Data_0/PSD": {
			"node_type": "array",
			"shape":     []interface{}{100, 50},
		},
	}

	if err := metadata.Consolidate(root, nodes); err != nil {
		t.Fatal(err)
	}

	expected := map[string]interface{}{
		"kind":            "inline",
		"must_understand": false,
		"metadata": map[string]interface{}{
			"Brillouin_data": map[string]interface{}{
				"node_type": "group",
			},
			"Brillouin_data/Data_0/PSD": map[string]interface{}{
				"node_type": "array",
				"shape":     []interface{}{100, 50},
			},
		},
	}

	if diff := deep.Equal(root[metadata.ConsolidatedKey], expected); diff != nil {
		t.Error(diff)
	}

	// The nested group's own block must survive in the input
	if _, ok := nodes["Brillouin_data"][metadata.ConsolidatedKey]; !ok {
		t.Error("Consolidate should not modify node documents")
	}
}

func TestConsolidateIdempotent(t *testing.T) {
	root := map[string]interface{}{"node_type": "group"}
	nodes := map[string]map[string]interface{}{
		"a": {"node_type": "array", "shape": []interface{}{1}},
	}

	_ = metadata.Consolidate(root, nodes)
	first := root[metadata.ConsolidatedKey]

	_ = metadata.Consolidate(root, nodes)
	if diff := deep.Equal(first, root[metadata.ConsolidatedKey]); diff != nil {
		t.Error(diff)
	}
}

func TestConsolidateArrayRoot(t *testing.T) {
	root := map[string]interface{}{"node_type": "array", "shape": []interface{}{1}}
	if err := metadata.Consolidate(root, nil); err == nil {
		t.Error("Consolidating an array root should have thrown an error")
	}
}
