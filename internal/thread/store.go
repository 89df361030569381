// Package thread provides the artifact graph store of the digital thread.
//
// A Store is an immutable index over a fixed snapshot of artifacts. It answers
// identity lookups in O(1) and forward/reverse adjacency queries in
// O(out-degree)/O(in-degree) using indexes computed once by Build.
//
// # Thread Safety
//
// A Store is never mutated after Build returns and may be shared freely
// between goroutines. Artifacts returned from queries share their LinkedItems
// and Changes slices with the store and MUST NOT be modified by callers; use
// Artifact.Clone when a mutable copy is needed. To change the data, build a new
// Store.
//
// # Missing Referents
//
// linkedItems may name ids that are not in the snapshot. Lookups report such
// ids as absent and adjacency queries silently drop them; only Build can fail.
package thread

import (
	"digitalthread/internal/domain"
)

// Store is the read-only artifact graph index
type Store struct {
	artifacts []domain.Artifact
	byID      map[string]int
	byKind    map[domain.Kind][]int

	// incoming maps a target id to the positions of artifacts linking to it.
	// Keys include dangling targets.
	incoming map[string][]int

	totalLinks int
}

// Build constructs a Store from artifacts. The input is copied; later changes
// to the caller's slice or to the artifacts' slices do not affect the store.
// It fails with a *DuplicateIDError if two artifacts share an id.
func Build(artifacts []domain.Artifact) (*Store, error) {
	s := &Store{
		artifacts: make([]domain.Artifact, 0, len(artifacts)),
		byID:      make(map[string]int, len(artifacts)),
		byKind:    make(map[domain.Kind][]int),
		incoming:  make(map[string][]int),
	}

	for i, a := range artifacts {
		if first, exists := s.byID[a.ID]; exists {
			return nil, &DuplicateIDError{ID: a.ID, First: first, Second: i}
		}
		s.byID[a.ID] = i
		s.artifacts = append(s.artifacts, a.Clone())
		s.byKind[a.Kind] = append(s.byKind[a.Kind], i)
	}

	for i, a := range s.artifacts {
		s.totalLinks += len(a.LinkedItems)

		// Record each (source, target) pair once even if the target repeats
		seen := make(map[string]struct{}, len(a.LinkedItems))
		for _, target := range a.LinkedItems {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			s.incoming[target] = append(s.incoming[target], i)
		}
	}

	return s, nil
}

// MustBuild is like Build but panics on error. Intended for fixtures.
func MustBuild(artifacts []domain.Artifact) *Store {
	s, err := Build(artifacts)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of artifacts in the store
func (s *Store) Len() int {
	return len(s.artifacts)
}

// All returns every artifact in insertion order
func (s *Store) All() []domain.Artifact {
	out := make([]domain.Artifact, len(s.artifacts))
	copy(out, s.artifacts)
	return out
}

// GetByID returns the artifact with the given id. The second result is false
// when the id is not in the snapshot.
func (s *Store) GetByID(id string) (domain.Artifact, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Artifact{}, false
	}
	return s.artifacts[i], true
}

// Has reports whether an artifact with the given id is in the snapshot
func (s *Store) Has(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// GetLinked resolves the linkedItems of the artifact at id, preserving their
// order and dropping dangling references. Unknown ids yield an empty result.
func (s *Store) GetLinked(id string) []domain.Artifact {
	i, ok := s.byID[id]
	if !ok {
		return []domain.Artifact{}
	}

	links := s.artifacts[i].LinkedItems
	out := make([]domain.Artifact, 0, len(links))
	for _, target := range links {
		if j, ok := s.byID[target]; ok {
			out = append(out, s.artifacts[j])
		}
	}
	return out
}

// GetIncoming returns every artifact whose linkedItems contains id, in
// insertion order, each at most once. The id itself need not be in the
// snapshot.
func (s *Store) GetIncoming(id string) []domain.Artifact {
	refs := s.incoming[id]
	out := make([]domain.Artifact, 0, len(refs))
	for _, i := range refs {
		out = append(out, s.artifacts[i])
	}
	return out
}

// AllOfKind returns the artifacts of the given kind in insertion order
func (s *Store) AllOfKind(kind domain.Kind) []domain.Artifact {
	idx := s.byKind[kind]
	out := make([]domain.Artifact, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.artifacts[i])
	}
	return out
}

// Kinds returns the distinct kinds present in the store, canonical kinds
// first in lifecycle order, followed by any unknown kinds in first-seen order
func (s *Store) Kinds() []domain.Kind {
	out := make([]domain.Kind, 0, len(s.byKind))
	for _, k := range domain.CanonicalKindOrder() {
		if len(s.byKind[k]) > 0 {
			out = append(out, k)
		}
	}
	seen := make(map[domain.Kind]bool)
	for _, a := range s.artifacts {
		if a.Kind.Valid() || seen[a.Kind] {
			continue
		}
		seen[a.Kind] = true
		out = append(out, a.Kind)
	}
	return out
}

// Counts returns the number of artifacts per kind. Every canonical kind is
// present in the result, with zero for kinds that have no artifacts.
func (s *Store) Counts() map[domain.Kind]int {
	counts := make(map[domain.Kind]int, len(s.byKind))
	for _, k := range domain.CanonicalKindOrder() {
		counts[k] = 0
	}
	for k, idx := range s.byKind {
		counts[k] = len(idx)
	}
	return counts
}

// TotalLinkCount returns the sum of len(linkedItems) over all artifacts,
// dangling references included
func (s *Store) TotalLinkCount() int {
	return s.totalLinks
}
