// Package loader reads artifact datasets from files.
//
// A dataset may be split across several files; paths may be doublestar glob
// patterns ("data/**/*.yaml"). Files are decoded with the codec matching
// their extension and concatenated in path order. Duplicate ids across files
// are not resolved here: the store rejects them at build time.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"

	"digitalthread/internal/codec"
	"digitalthread/internal/domain"

	"github.com/bmatcuk/doublestar/v4"
	"lukechampine.com/blake3"
)

// Load expands patterns and merges every matching file into one dataset.
// A pattern without glob syntax must name an existing file; a glob that
// matches nothing is an error as well.
func Load(ctx context.Context, patterns []string) (*domain.Dataset, error) {
	paths, err := Resolve(patterns)
	if err != nil {
		return nil, err
	}

	merged := domain.NewDataset()
	hasher := blake3.New(32, nil)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		ds, err := parseFile(path, data)
		if err != nil {
			return nil, err
		}

		merged.Merge(ds)
		writeDigest(hasher, path, data)
	}

	merged.Digest = fmt.Sprintf("%x", hasher.Sum(nil))
	return merged, nil
}

// Resolve expands patterns into a de-duplicated list of files. Matches of
// each pattern are sorted; patterns keep their given order.
func Resolve(patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		return nil, fmt.Errorf("no dataset paths configured")
	}

	var out []string
	seen := make(map[string]bool)

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("no dataset files match %q", pattern)
		}

		sort.Strings(matches)
		for _, m := range matches {
			if seen[m] {
				continue
			}
			info, err := os.Stat(m)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", m, err)
			}
			if info.IsDir() {
				continue
			}
			seen[m] = true
			out = append(out, m)
		}
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no dataset files match %v", patterns)
	}
	return out, nil
}

func parseFile(path string, data []byte) (*domain.Dataset, error) {
	c, err := codec.ForPath(path)
	if err != nil {
		return nil, err
	}

	ds, err := c.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// writeDigest folds one file into the dataset digest
func writeDigest(h *blake3.Hasher, path string, data []byte) {
	h.Write([]byte(path))
	h.Write([]byte("\n"))
	h.Write(data)
	h.Write([]byte("\n"))
}

// FileSource loads the dataset from a fixed set of path patterns
type FileSource struct {
	patterns []string
}

// NewFileSource creates a source over the given patterns
func NewFileSource(patterns ...string) *FileSource {
	return &FileSource{patterns: patterns}
}

// Load reads and merges the current contents of the source files
func (s *FileSource) Load(ctx context.Context) (*domain.Dataset, error) {
	return Load(ctx, s.patterns)
}

// Paths returns the files the patterns currently resolve to
func (s *FileSource) Paths() ([]string, error) {
	return Resolve(s.patterns)
}
