package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainloom/chainloom/pkg/graph"
)

// seedLineage builds:
//
//	SUP001 -PROVIDES-> MAT001, MAT002   (one supplier, two materials)
//	SUP002 -PROVIDES-> MAT002
//	MAT001, MAT002 -SUPPLIED_TO-> FAC001
//	FAC001 -MANUFACTURES-> PRD001
//	FAC001 -HAS_CERTIFICATION-> CRT001, CRT002
//	PRD002 has no manufacturer
func seedLineage(t *testing.T) (*graph.Store, *Tracer) {
	t.Helper()
	s := graph.NewStore()

	s.CreateNode("Supplier", graph.Properties{"id": "SUP001", "name": "Tuscany Leather Co."})
	s.CreateNode("Supplier", graph.Properties{"id": "SUP002", "name": "Como Silk Mills"})
	s.CreateNode("Material", graph.Properties{"id": "MAT001", "name": "Premium Calf Leather"})
	s.CreateNode("Material", graph.Properties{"id": "MAT002", "name": "Mulberry Silk"})
	s.CreateNode("Factory", graph.Properties{"id": "FAC001", "name": "Atelier Milano"})
	s.CreateNode("Product", graph.Properties{"id": "PRD001", "name": "Heritage Handbag"})
	s.CreateNode("Product", graph.Properties{"id": "PRD002", "name": "Orphan Scarf"})
	s.CreateNode("Certification", graph.Properties{"id": "CRT001", "name": "ISO 9001"})
	s.CreateNode("Certification", graph.Properties{"id": "CRT002", "name": "Leather Working Group"})

	for _, r := range [][3]string{
		{"SUP001", "MAT001", "PROVIDES"},
		{"SUP001", "MAT002", "PROVIDES"},
		{"SUP002", "MAT002", "PROVIDES"},
		{"MAT001", "FAC001", "SUPPLIED_TO"},
		{"MAT002", "FAC001", "SUPPLIED_TO"},
		{"FAC001", "PRD001", "MANUFACTURES"},
		{"FAC001", "CRT001", "HAS_CERTIFICATION"},
		{"FAC001", "CRT002", "HAS_CERTIFICATION"},
	} {
		require.NoError(t, s.CreateRelationship(r[0], r[1], r[2], nil))
	}

	return s, NewTracer(s, graph.NewIndex(s))
}

func TestTraceFullLineage(t *testing.T) {
	_, tracer := seedLineage(t)

	lineage, err := tracer.Trace("PRD001")
	require.NoError(t, err)

	assert.Equal(t, "Heritage Handbag", lineage.Product["name"])
	require.NotNil(t, lineage.Factory)
	assert.Equal(t, "FAC001", lineage.Factory["id"])

	require.Len(t, lineage.Certifications, 2)
	assert.Equal(t, "ISO 9001", lineage.Certifications[0]["name"])
	assert.Equal(t, "Leather Working Group", lineage.Certifications[1]["name"])

	require.Len(t, lineage.Materials, 2)
	assert.Equal(t, "MAT001", lineage.Materials[0]["id"])
	assert.Equal(t, "MAT002", lineage.Materials[1]["id"])

	leatherSuppliers := lineage.Materials[0]["suppliers"].([]graph.Properties)
	require.Len(t, leatherSuppliers, 1)
	silkSuppliers := lineage.Materials[1]["suppliers"].([]graph.Properties)
	require.Len(t, silkSuppliers, 2)
}

// SUP001 provides both materials but must appear once in the aggregate,
// in first-seen order.
func TestTraceDeduplicatesSuppliers(t *testing.T) {
	_, tracer := seedLineage(t)

	lineage, err := tracer.Trace("PRD001")
	require.NoError(t, err)

	require.Len(t, lineage.Suppliers, 2)
	assert.Equal(t, "SUP001", lineage.Suppliers[0]["id"])
	assert.Equal(t, "SUP002", lineage.Suppliers[1]["id"])
}

func TestTraceNoManufacturer(t *testing.T) {
	_, tracer := seedLineage(t)

	lineage, err := tracer.Trace("PRD002")
	require.NoError(t, err)

	assert.Nil(t, lineage.Factory)
	assert.Empty(t, lineage.Materials)
	assert.Empty(t, lineage.Suppliers)
	assert.Empty(t, lineage.Certifications)
	assert.Equal(t, "Orphan Scarf", lineage.Product["name"])
}

func TestTraceUnknownProduct(t *testing.T) {
	_, tracer := seedLineage(t)

	lineage, err := tracer.Trace("PRD404")
	assert.Nil(t, lineage)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

// With two MANUFACTURES edges targeting one product, the first in
// creation order wins.
func TestTraceFirstManufacturerWins(t *testing.T) {
	s, tracer := seedLineage(t)

	s.CreateNode("Factory", graph.Properties{"id": "FAC002", "name": "Second Works"})
	require.NoError(t, s.CreateRelationship("FAC002", "PRD001", "MANUFACTURES", nil))

	lineage, err := tracer.Trace("PRD001")
	require.NoError(t, err)
	assert.Equal(t, "FAC001", lineage.Factory["id"])
}
