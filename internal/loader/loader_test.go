package loader

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const requirementsYAML = `
artifacts:
  - id: REQ-1
    kind: Requirement
    lastModified: "2023-01-01"
    linkedItems: [FN-1]
`

const functionsJSON = `[{"id":"FN-1","kind":"Function","lastModified":"2023-01-05","linkedItems":["REQ-1"]}]`

func TestLoadSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "thread.yaml", requirementsYAML)

	ds, err := Load(context.Background(), []string{path})
	require.NoError(t, err)
	require.Len(t, ds.Artifacts, 1)
	assert.Equal(t, "REQ-1", ds.Artifacts[0].ID)
	assert.Len(t, ds.Digest, 64)

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(context.Background(), []string{filepath.Join(dir, "nope.yaml")})
		assert.Error(t, err)
	})

	t.Run("unknown extension", func(t *testing.T) {
		bad := writeFile(t, dir, "thread.txt", "x")
		_, err := Load(context.Background(), []string{bad})
		assert.Error(t, err)
	})
}

func TestLoadMergesGlobMatches(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a/requirements.yaml", requirementsYAML)
	writeFile(t, dir, "b/functions.json", functionsJSON)
	writeFile(t, dir, "b/notes.md", "ignored")

	ds, err := Load(context.Background(), []string{
		filepath.Join(dir, "**", "*.yaml"),
		filepath.Join(dir, "**", "*.json"),
	})
	require.NoError(t, err)

	var ids []string
	for _, a := range ds.Artifacts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"REQ-1", "FN-1"}, ids)
	assert.NotEmpty(t, ds.Digest)
}

func TestLoadDigest(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "thread.yaml", requirementsYAML)

	single, err := Load(context.Background(), []string{path})
	require.NoError(t, err)
	again, err := Load(context.Background(), []string{path})
	require.NoError(t, err)
	assert.Equal(t, single.Digest, again.Digest)

	writeFile(t, dir, "thread.yaml", requirementsYAML+"\n# touched\n")
	changed, err := Load(context.Background(), []string{path})
	require.NoError(t, err)
	assert.NotEqual(t, single.Digest, changed.Digest)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", requirementsYAML)
	b := writeFile(t, dir, "b.yaml", requirementsYAML)

	t.Run("overlapping patterns are de-duplicated", func(t *testing.T) {
		paths, err := Resolve([]string{b, filepath.Join(dir, "*.yaml")})
		require.NoError(t, err)
		assert.Equal(t, []string{b, a}, paths)
	})

	t.Run("no patterns", func(t *testing.T) {
		_, err := Resolve(nil)
		assert.Error(t, err)
	})

	t.Run("pattern without matches", func(t *testing.T) {
		_, err := Resolve([]string{filepath.Join(dir, "*.json")})
		assert.Error(t, err)
	})
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "thread.yaml", requirementsYAML)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, []string{path})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "thread.json", functionsJSON)

	src := NewFileSource(path)
	ds, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Artifacts, 1)

	paths, err := src.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}
