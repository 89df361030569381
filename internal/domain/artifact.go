package domain

// Kind represents the type of engineering artifact
type Kind string

const (
	KindScenario    Kind = "Scenario"
	KindRequirement Kind = "Requirement"
	KindFunction    Kind = "Function"
	KindLogical     Kind = "Logical"
	KindCAD         Kind = "CAD"
	KindBOM         Kind = "BOM"
	KindSimulation  Kind = "Simulation"
	KindTest        Kind = "Test"
	KindResult      Kind = "Result"
)

// canonicalKindOrder is the advisory lifecycle order of the thread
var canonicalKindOrder = []Kind{
	KindScenario,
	KindRequirement,
	KindFunction,
	KindLogical,
	KindCAD,
	KindBOM,
	KindSimulation,
	KindTest,
	KindResult,
}

// CanonicalKindOrder returns the lifecycle order Scenario -> ... -> Result.
// The returned slice is a copy and may be modified by the caller.
func CanonicalKindOrder() []Kind {
	out := make([]Kind, len(canonicalKindOrder))
	copy(out, canonicalKindOrder)
	return out
}

// Valid reports whether k is one of the known artifact kinds
func (k Kind) Valid() bool {
	return k.Rank() >= 0
}

// Rank returns the position of k in the canonical order, or -1 if unknown
func (k Kind) Rank() int {
	for i, c := range canonicalKindOrder {
		if c == k {
			return i
		}
	}
	return -1
}

// ParseKind converts a string into a Kind, reporting whether it is known
func ParseKind(s string) (Kind, bool) {
	k := Kind(s)
	return k, k.Valid()
}

// Status represents the lifecycle status of an artifact
type Status string

const (
	StatusCurrent    Status = "Current"
	StatusModified   Status = "Modified"
	StatusNew        Status = "New"
	StatusDeprecated Status = "Deprecated"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusCurrent, StatusModified, StatusNew, StatusDeprecated:
		return true
	}
	return false
}

// ChangeKind describes what a ChangeEvent did to its artifact
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "Added"
	ChangeModified ChangeKind = "Modified"
	ChangeRemoved  ChangeKind = "Removed"
)

// Valid reports whether c is one of the known change kinds
func (c ChangeKind) Valid() bool {
	switch c {
	case ChangeAdded, ChangeModified, ChangeRemoved:
		return true
	}
	return false
}

// ChangeEvent is a discrete modification record attached to an artifact
type ChangeEvent struct {
	Date        string     `json:"date" yaml:"date"`
	User        string     `json:"user" yaml:"user"`
	Description string     `json:"description" yaml:"description"`
	ChangeKind  ChangeKind `json:"changeKind" yaml:"changeKind"`
}

// Artifact represents one engineering item tracked in the digital thread.
//
// LinkedItems are directed references to other artifact ids. They may name
// artifacts that are not loaded (dangling links) and are not assumed to be
// symmetric. Status and Changes are independent signals: a non-empty change
// log does not imply StatusModified.
type Artifact struct {
	ID           string        `json:"id" yaml:"id"`
	Kind         Kind          `json:"kind" yaml:"kind"`
	Name         string        `json:"name,omitempty" yaml:"name,omitempty"`
	Status       Status        `json:"status" yaml:"status"`
	Version      string        `json:"version,omitempty" yaml:"version,omitempty"`
	LastModified string        `json:"lastModified" yaml:"lastModified"`
	ModifiedBy   string        `json:"modifiedBy,omitempty" yaml:"modifiedBy,omitempty"`
	Description  string        `json:"description,omitempty" yaml:"description,omitempty"`
	LinkedItems  []string      `json:"linkedItems,omitempty" yaml:"linkedItems,omitempty"`
	Changes      []ChangeEvent `json:"changes,omitempty" yaml:"changes,omitempty"`
}

// DisplayName returns the artifact name, falling back to its id
func (a Artifact) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// HasChanges reports whether the artifact carries any change records
func (a Artifact) HasChanges() bool {
	return len(a.Changes) > 0
}

// Clone returns a deep copy whose slices do not alias the receiver's
func (a Artifact) Clone() Artifact {
	out := a
	if a.LinkedItems != nil {
		out.LinkedItems = make([]string, len(a.LinkedItems))
		copy(out.LinkedItems, a.LinkedItems)
	}
	if a.Changes != nil {
		out.Changes = make([]ChangeEvent, len(a.Changes))
		copy(out.Changes, a.Changes)
	}
	return out
}
