package domain

// DatasetVersion is the serialization version written by exporters
const DatasetVersion = "1.0"

// Dataset is the serialized form of a thread snapshot exchanged with data
// sources. The order of Artifacts is the store insertion order.
type Dataset struct {
	Version   string     `json:"version,omitempty" yaml:"version,omitempty"`
	Artifacts []Artifact `json:"artifacts" yaml:"artifacts"`

	// Digest identifies the source bytes the dataset was decoded from.
	// It is filled in by the loader and never serialized.
	Digest string `json:"-" yaml:"-"`
}

// NewDataset creates an empty dataset
func NewDataset() *Dataset {
	return &Dataset{
		Version:   DatasetVersion,
		Artifacts: make([]Artifact, 0),
	}
}

// Add appends an artifact to the dataset
func (d *Dataset) Add(a Artifact) {
	d.Artifacts = append(d.Artifacts, a)
}

// Merge appends all artifacts of other, preserving their order
func (d *Dataset) Merge(other *Dataset) {
	if other == nil {
		return
	}
	d.Artifacts = append(d.Artifacts, other.Artifacts...)
}
