package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"digitalthread/internal/domain"
)

// JSONCodec handles JSON import/export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Parse imports a dataset from JSON
func (c *JSONCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON: %w", err)
	}

	ds := domain.NewDataset()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &ds.Artifacts); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return ds, nil
	}

	if err := json.Unmarshal(trimmed, ds); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if ds.Artifacts == nil {
		ds.Artifacts = make([]domain.Artifact, 0)
	}
	return ds, nil
}

// Export exports a dataset to JSON
func (c *JSONCodec) Export(ds *domain.Dataset, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(withVersion(ds)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}

// withVersion returns ds with the version filled in when missing
func withVersion(ds *domain.Dataset) *domain.Dataset {
	if ds == nil {
		return domain.NewDataset()
	}
	if ds.Version != "" {
		return ds
	}
	out := *ds
	out.Version = domain.DatasetVersion
	return &out
}
