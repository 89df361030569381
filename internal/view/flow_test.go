package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitalthread/internal/domain"
)

func flowShape(groups []FlowGroup) map[domain.Kind][]string {
	out := make(map[domain.Kind][]string, len(groups))
	for _, g := range groups {
		out[g.Kind] = artifactIDs(g.Artifacts)
	}
	return out
}

func flowKinds(groups []FlowGroup) []domain.Kind {
	out := make([]domain.Kind, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Kind)
	}
	return out
}

func TestFlowDefaultOrder(t *testing.T) {
	store := build(t,
		art("TST-1", domain.KindTest, "2023-01-01"),
		art("REQ-1", domain.KindRequirement, "2023-01-01"),
		art("REQ-2", domain.KindRequirement, "2023-01-02"),
		art("CAD-1", domain.KindCAD, "2023-01-03"),
	)

	groups := BuildFlowView(store, nil)

	assert.Equal(t, domain.CanonicalKindOrder(), flowKinds(groups))
	want := map[domain.Kind][]string{
		domain.KindScenario:    {},
		domain.KindRequirement: {"REQ-1", "REQ-2"},
		domain.KindFunction:    {},
		domain.KindLogical:     {},
		domain.KindCAD:         {"CAD-1"},
		domain.KindBOM:         {},
		domain.KindSimulation:  {},
		domain.KindTest:        {"TST-1"},
		domain.KindResult:      {},
	}
	if diff := cmp.Diff(want, flowShape(groups)); diff != "" {
		t.Errorf("flow groups mismatch (-want +got):\n%s", diff)
	}
}

func TestFlowCustomOrder(t *testing.T) {
	store := build(t,
		art("REQ-1", domain.KindRequirement, "2023-01-01"),
		art("FN-1", domain.KindFunction, "2023-01-01"),
		art("TST-1", domain.KindTest, "2023-01-01"),
		art("IF-1", domain.Kind("Interface"), "2023-01-01"),
	)

	t.Run("caller order first then leftovers", func(t *testing.T) {
		groups := testBuilder().Flow(store, []domain.Kind{domain.KindTest, domain.KindRequirement})
		assert.Equal(t, []domain.Kind{
			domain.KindTest, domain.KindRequirement, domain.KindFunction, domain.Kind("Interface"),
		}, flowKinds(groups))
	})

	t.Run("repeated kinds are ignored", func(t *testing.T) {
		groups := testBuilder().Flow(store, []domain.Kind{domain.KindFunction, domain.KindFunction})
		assert.Equal(t, domain.KindFunction, groups[0].Kind)
		assert.NotEqual(t, domain.KindFunction, groups[1].Kind)
	})
}

func TestFlowPartitionCompleteness(t *testing.T) {
	input := []domain.Artifact{
		art("SCN-1", domain.KindScenario, "2023-01-01"),
		art("REQ-1", domain.KindRequirement, "2023-01-01"),
		art("BOM-1", domain.KindBOM, "2023-01-01"),
		art("RES-1", domain.KindResult, "2023-01-01"),
		art("RES-2", domain.KindResult, "2023-01-01"),
		art("ODD-1", domain.Kind("Odd"), "2023-01-01"),
	}
	store := build(t, input...)

	orders := [][]domain.Kind{
		nil,
		{domain.KindResult},
		{domain.KindBOM, domain.KindScenario, domain.KindBOM},
	}
	for _, order := range orders {
		seen := make(map[string]int)
		for _, g := range testBuilder().Flow(store, order) {
			for _, a := range g.Artifacts {
				require.Equal(t, g.Kind, a.Kind)
				seen[a.ID]++
			}
		}
		require.Len(t, seen, len(input), "order %v", order)
		for id, n := range seen {
			assert.Equal(t, 1, n, "artifact %s placed %d times with order %v", id, n, order)
		}
	}
}

func TestParseKindOrder(t *testing.T) {
	got := ParseKindOrder([]string{"Requirement", "", "Test", "Custom"})
	assert.Equal(t, []domain.Kind{domain.KindRequirement, domain.KindTest, domain.Kind("Custom")}, got)
}
