// Package codec converts artifact datasets to and from their serialized forms.
//
// Both JSON and YAML accept either a dataset document
// ({version, artifacts: [...]}) or a bare list of artifacts.
package codec

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"digitalthread/internal/domain"
)

// ErrUnsupportedFormat is returned when no codec handles a format or file
var ErrUnsupportedFormat = errors.New("unsupported format")

// Importer interface for importing artifact datasets from various formats
type Importer interface {
	Parse(r io.Reader) (*domain.Dataset, error)
	Format() string
}

// Exporter interface for exporting artifact datasets to various formats
type Exporter interface {
	Export(ds *domain.Dataset, w io.Writer) error
	Format() string
}

// Codec both imports and exports one format
type Codec interface {
	Importer
	Exporter
}

// ForFormat returns the codec registered under a format name
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// ForPath picks a codec from a file extension
func ForPath(path string) (Codec, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, path)
	}
	return ForFormat(ext)
}
