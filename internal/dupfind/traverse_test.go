package dupfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraverser_AppliesSizeFilterAtIngest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.txt"), []byte("xxxxxxxxxx"), 0o644))

	cfg := NewConfig()
	cfg.MinSize = 5
	tr := NewTraverser(cfg)

	var found []*FileRecord
	require.NoError(t, tr.Walk(dir, 0, "", func(r *FileRecord) {
		found = append(found, r)
	}))

	require.Len(t, found, 1)
	assert.Equal(t, "big.txt", filepath.Base(found[0].Path))
}

func TestTraverser_ExcludesResultsFile(t *testing.T) {
	dir := t.TempDir()
	resultsPath := filepath.Join(dir, "results.txt")
	require.NoError(t, os.WriteFile(resultsPath, []byte("# report"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))

	cfg := NewConfig()
	tr := NewTraverser(cfg)

	var found []*FileRecord
	require.NoError(t, tr.Walk(dir, 0, resultsPath, func(r *FileRecord) {
		found = append(found, r)
	}))

	for _, r := range found {
		assert.NotEqual(t, resultsPath, r.Path)
	}
}

func TestTraverser_SkipsSymlinksByDefault(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	require.NoError(t, os.WriteFile(target, []byte("a"), 0o644))
	link := filepath.Join(dir, "link.txt")
	require.NoError(t, os.Symlink(target, link))

	cfg := NewConfig()
	tr := NewTraverser(cfg)

	var found []*FileRecord
	require.NoError(t, tr.Walk(dir, 0, "", func(r *FileRecord) {
		found = append(found, r)
	}))

	require.Len(t, found, 1)
	assert.Equal(t, "real.txt", filepath.Base(found[0].Path))
}
