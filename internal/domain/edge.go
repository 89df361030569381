package domain

import "fmt"

// Edge is one resolved directed link of the network view.
//
// Edges are not deduplicated: two artifacts linking to the same pair yield
// two edges, and a symmetric A->B / B->A pair yields one edge each way.
type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	FromKind Kind   `json:"fromKind"`
	ToKind   Kind   `json:"toKind"`
}

// OtherEnd returns the artifact id on the other end of this edge
func (e Edge) OtherEnd(id string) string {
	if e.From == id {
		return e.To
	}
	return e.From
}

// String renders the edge as "from(Kind) -> to(Kind)"
func (e Edge) String() string {
	return fmt.Sprintf("%s(%s) -> %s(%s)", e.From, e.FromKind, e.To, e.ToKind)
}

// KindPair is an ordered pair of kinds used by adjacency summaries
type KindPair struct {
	From Kind `json:"from"`
	To   Kind `json:"to"`
}
