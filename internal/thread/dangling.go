package thread

// DanglingLink is a linkedItems reference to an id absent from the snapshot
type DanglingLink struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// DanglingLinks lists every unresolved reference in insertion order.
// Dangling links are expected; this is a diagnostic, not a validation.
func (s *Store) DanglingLinks() []DanglingLink {
	out := make([]DanglingLink, 0)
	for _, a := range s.artifacts {
		for _, target := range a.LinkedItems {
			if _, ok := s.byID[target]; !ok {
				out = append(out, DanglingLink{From: a.ID, To: target})
			}
		}
	}
	return out
}
