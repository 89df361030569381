package view

import (
	"digitalthread/internal/domain"
)

// FlowGroup is one column of the flow view
type FlowGroup struct {
	Kind      domain.Kind       `json:"kind"`
	Artifacts []domain.Artifact `json:"artifacts"`
}

// Flow partitions the snapshot by kind.
//
// Groups follow kindOrder (the canonical lifecycle order when empty). Every
// kind named in kindOrder gets a group, even an empty one; repeats are
// ignored. Kinds present in the snapshot but missing from kindOrder are
// appended afterwards so that every artifact lands in exactly one group.
// Within a group artifacts keep snapshot order.
func (b *Builder) Flow(src Source, kindOrder []domain.Kind) []FlowGroup {
	if len(kindOrder) == 0 {
		kindOrder = domain.CanonicalKindOrder()
	}

	buckets := make(map[domain.Kind][]domain.Artifact)
	var seenKinds []domain.Kind
	for _, a := range src.All() {
		if _, ok := buckets[a.Kind]; !ok {
			seenKinds = append(seenKinds, a.Kind)
		}
		buckets[a.Kind] = append(buckets[a.Kind], a)
	}

	groups := make([]FlowGroup, 0, len(kindOrder))
	placed := make(map[domain.Kind]bool, len(kindOrder))
	add := func(k domain.Kind) {
		if placed[k] {
			return
		}
		placed[k] = true
		items := buckets[k]
		if items == nil {
			items = []domain.Artifact{}
		}
		groups = append(groups, FlowGroup{Kind: k, Artifacts: items})
	}

	for _, k := range kindOrder {
		add(k)
	}

	// Leftovers: canonical kinds first, then unknown kinds as first seen
	for _, k := range domain.CanonicalKindOrder() {
		if _, ok := buckets[k]; ok {
			add(k)
		}
	}
	for _, k := range seenKinds {
		add(k)
	}

	return groups
}

// ParseKindOrder converts kind names into an order for Flow. Unknown names
// are kept as-is so callers can group custom kinds.
func ParseKindOrder(names []string) []domain.Kind {
	out := make([]domain.Kind, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		out = append(out, domain.Kind(n))
	}
	return out
}
