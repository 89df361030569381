package codec

import (
	"errors"
	"fmt"
	"io"

	"digitalthread/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse imports a dataset from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*domain.Dataset, error) {
	var root yaml.Node
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewDataset(), nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ds := domain.NewDataset()
	doc := &root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		if err := doc.Decode(&ds.Artifacts); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case yaml.MappingNode:
		if err := doc.Decode(ds); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to parse YAML: expected a mapping or a list at line %d", doc.Line)
	}

	if ds.Artifacts == nil {
		ds.Artifacts = make([]domain.Artifact, 0)
	}
	return ds, nil
}

// Export exports a dataset to YAML
func (c *YAMLCodec) Export(ds *domain.Dataset, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(withVersion(ds)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
