package clinic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrich_ResolvesAgainstSnapshot(t *testing.T) {
	mats := []Material{
		{ID: "1", Name: "Anestésico", Quantity: 50, Value: 15.50},
		{ID: "3", Name: "Espelho Bucal", Quantity: 10, Value: 25.00, Reusable: true},
	}
	p := Procedure{
		ID:   "10",
		Name: "Restauração",
		Materials: []MaterialUsage{
			{MaterialID: "1", Quantity: 2},
			{MaterialID: "99", Quantity: 1}, // dangling reference
		},
	}

	e := Enrich(p, mats)
	require.Len(t, e.Resolved, 2)

	require.NotNil(t, e.Resolved[0].Material)
	assert.Equal(t, "Anestésico", e.Resolved[0].Material.Name)
	assert.Equal(t, 2, e.Resolved[0].Quantity, "usage quantity intact")

	assert.Nil(t, e.Resolved[1].Material, "unresolved reference yields absent snapshot, not an error")
	assert.Equal(t, 1, e.Resolved[1].Quantity)
}

func TestEnrich_SnapshotIsACopy(t *testing.T) {
	mats := []Material{{ID: "1", Name: "Resina", Value: 85}}
	p := Procedure{Materials: []MaterialUsage{{MaterialID: "1", Quantity: 1}}}

	e := Enrich(p, mats)
	e.Resolved[0].Material.Name = "mutated"
	assert.Equal(t, "Resina", mats[0].Name, "enrichment must not alias the materials slice")
}

func TestWireRoundTrip(t *testing.T) {
	p := Procedure{
		ID:        "2",
		Name:      "Limpeza Dental",
		Assistant: true,
		Duration:  30,
		Price:     150.00,
		PatientID: "2",
		Materials: []MaterialUsage{{MaterialID: "3", Quantity: 1}},
	}
	w := p.ToWire()
	assert.Equal(t, "S", w.Assistant)
	assert.Equal(t, p, w.FromWire())

	m := Material{ID: "4", Name: "Broca Diamantada", Quantity: 15, Value: 45, Reusable: true}
	assert.Equal(t, "S", m.ToWire().Reusable)
	assert.Equal(t, m, m.ToWire().FromWire())
}

func TestKindEndpoint(t *testing.T) {
	assert.Equal(t, "/pacientes", KindPatient.Endpoint())
	assert.Equal(t, "/materiais", KindMaterial.Endpoint())
	assert.Equal(t, "/procedimentos", KindProcedure.Endpoint())
}
