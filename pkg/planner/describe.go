package planner

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chainloom/chainloom/pkg/graph"
)

// DescribeSchema renders a human-readable summary of the store: each
// label with the property keys of its first node, each relationship
// type with the endpoint labels of its first instance, and totals. The
// external planner embeds this text in its prompts.
func DescribeSchema(store *graph.Store) string {
	schema := store.Schema()

	var nodeLines []string
	for _, label := range schema.Labels {
		nodes := store.AllNodes(label)
		if len(nodes) == 0 {
			continue
		}
		keys := make([]string, 0, len(nodes[0]))
		for k := range nodes[0] {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		nodeLines = append(nodeLines, fmt.Sprintf("  - %s: %s", label, strings.Join(keys, ", ")))
	}

	var relLines []string
	for _, relType := range schema.RelationshipTypes {
		rels := store.AllRelationships(relType)
		if len(rels) == 0 {
			continue
		}
		from, okFrom := store.NodeByID(rels[0].From)
		to, okTo := store.NodeByID(rels[0].To)
		if !okFrom || !okTo {
			continue
		}
		relLines = append(relLines, fmt.Sprintf("  - (%s)-[%s]->(%s)", from.Label, relType, to.Label))
	}

	var b strings.Builder
	b.WriteString("Supply Chain Graph Schema:\n\n")
	b.WriteString("Node Types:\n")
	b.WriteString(strings.Join(nodeLines, "\n"))
	b.WriteString("\n\nRelationship Types:\n")
	b.WriteString(strings.Join(relLines, "\n"))
	fmt.Fprintf(&b, "\n\nTotal Nodes: %d\nTotal Relationships: %d\n",
		schema.NodeCount, schema.RelationshipCount)
	return b.String()
}
