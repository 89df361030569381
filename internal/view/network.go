package view

import (
	"digitalthread/internal/domain"
)

// NetworkView is the adjacency projection of the thread.
//
// Edges keep direction and multiplicity. Connected treats them as undirected
// for display and is answered from an endpoint index built with the view.
type NetworkView struct {
	NodesByKind []FlowGroup   `json:"nodesByKind"`
	Edges       []domain.Edge `json:"edges"`

	// endpoints maps an artifact id to the positions of edges touching it
	endpoints map[string][]int
}

// Network resolves every linkedItems reference into a typed edge, dropping
// references to ids absent from the snapshot.
func (b *Builder) Network(src Source) *NetworkView {
	nv := &NetworkView{
		NodesByKind: b.Flow(src, nil),
		Edges:       make([]domain.Edge, 0),
		endpoints:   make(map[string][]int),
	}

	for _, a := range src.All() {
		for _, target := range a.LinkedItems {
			to, ok := src.GetByID(target)
			if !ok {
				continue
			}
			nv.Edges = append(nv.Edges, domain.Edge{
				From:     a.ID,
				To:       to.ID,
				FromKind: a.Kind,
				ToKind:   to.Kind,
			})
			pos := len(nv.Edges) - 1
			nv.endpoints[a.ID] = append(nv.endpoints[a.ID], pos)
			if to.ID != a.ID {
				nv.endpoints[to.ID] = append(nv.endpoints[to.ID], pos)
			}
		}
	}

	return nv
}

// Connected returns the ids on the other end of every edge touching id,
// de-duplicated, in first-occurrence edge order
func (nv *NetworkView) Connected(id string) []string {
	positions := nv.endpoints[id]
	out := make([]string, 0, len(positions))
	seen := make(map[string]bool, len(positions))
	for _, pos := range positions {
		other := nv.Edges[pos].OtherEnd(id)
		if seen[other] {
			continue
		}
		seen[other] = true
		out = append(out, other)
	}
	return out
}

// HasEdge reports whether any edge runs from an artifact of kind from into
// an artifact of kind to
func (nv *NetworkView) HasEdge(from, to domain.Kind) bool {
	for _, e := range nv.Edges {
		if e.FromKind == from && e.ToKind == to {
			return true
		}
	}
	return false
}

// KindAdjacency counts edges per (from kind, to kind) pair
func (nv *NetworkView) KindAdjacency() map[domain.KindPair]int {
	out := make(map[domain.KindPair]int)
	for _, e := range nv.Edges {
		out[domain.KindPair{From: e.FromKind, To: e.ToKind}]++
	}
	return out
}
