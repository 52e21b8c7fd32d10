package metadata

import "fmt"

// Consolidate aggregates node metadata into the consolidated metadata block of
// a root group document, replacing any previous block.  nodes is keyed by node
// path relative to the store root.  Consolidated blocks of nested groups are not
// carried over.
func Consolidate(root map[string]interface{}, nodes map[string]map[string]interface{}) error {
	if t := Node(root).NodeType(); t != "group" {
		return fmt.Errorf("root node type is %q, only groups can be consolidated", t)
	}

	entries := make(map[string]interface{}, len(nodes))
	for path, node := range nodes {
		entry := make(map[string]interface{}, len(node))
		for k, v := range node {
			if k != ConsolidatedKey {
				entry[k] = v
			}
		}
		entries[path] = entry
	}

	root[ConsolidatedKey] = map[string]interface{}{
		"kind":            "inline",
		"must_understand": false,
		"metadata":        entries,
	}
	return nil
}
