package dupfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) *FileRecord {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	info, err := os.Stat(path)
	require.NoError(t, err)
	rec := &FileRecord{Path: path, Size: uint64(info.Size())}
	populateIdentity(rec, info)
	return rec
}

func runPipeline(t *testing.T, cfg *Config, records []*FileRecord) *RecordList {
	t.Helper()
	rl := NewRecordList(records)
	require.NoError(t, rl.Run(cfg, NoopProgress{}))
	return rl
}

func TestPipeline_FindsExactDuplicates(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "same content")
	b := writeFile(t, dir, "b.txt", "same content")
	c := writeFile(t, dir, "c.txt", "different content entirely")

	cfg := NewConfig()
	cfg.RemoveIdenticalInode = false
	rl := runPipeline(t, cfg, []*FileRecord{a, b, c})

	groups := rl.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Len(t, groups[0], 2)
	paths := []string{groups[0][0].Path, groups[0][1].Path}
	assert.Contains(t, paths, a.Path)
	assert.Contains(t, paths, b.Path)
}

func TestPipeline_UniqueSizesNeverCompared(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "x")
	b := writeFile(t, dir, "b.txt", "yy")

	cfg := NewConfig()
	cfg.RemoveIdenticalInode = false
	rl := runPipeline(t, cfg, []*FileRecord{a, b})

	assert.Empty(t, rl.DuplicateGroups())
	assert.Equal(t, DupUnique, a.Dup)
	assert.Equal(t, DupUnique, b.Dup)
}

func TestPipeline_TieBreakKeepsEarliestRank(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "dup")
	b := writeFile(t, dir, "b.txt", "dup")
	a.CmdlineIndex, a.Depth = 0, 0
	b.CmdlineIndex, b.Depth = 0, 1

	cfg := NewConfig()
	cfg.RemoveIdenticalInode = false
	rl := runPipeline(t, cfg, []*FileRecord{a, b})

	groups := rl.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, a.Path, groups[0][0].Path)
	assert.Equal(t, DupFirstOccurrence, a.Dup)
	assert.Equal(t, DupWithinSameTree, b.Dup)
	assert.Same(t, a, b.DuplicateOf)
}

func TestPipeline_DuplicateAcrossRootsIsOutsideTree(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	a := writeFile(t, dirA, "x.txt", "dup")
	b := writeFile(t, dirB, "x.txt", "dup")
	a.CmdlineIndex, a.Depth = 0, 0
	b.CmdlineIndex, b.Depth = 1, 0

	cfg := NewConfig()
	cfg.RemoveIdenticalInode = false
	rl := runPipeline(t, cfg, []*FileRecord{a, b})

	groups := rl.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Equal(t, a.Path, groups[0][0].Path)
	assert.Equal(t, DupFirstOccurrence, a.Dup)
	assert.Equal(t, DupOutsideTree, b.Dup)
	assert.Same(t, a, b.DuplicateOf)
}

func TestPipeline_ChecksumNoneSkipsChecksumStage(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "same content")
	b := writeFile(t, dir, "b.txt", "same content")

	cfg := NewConfig()
	cfg.RemoveIdenticalInode = false
	cfg.Checksum = ChecksumNone
	rl := runPipeline(t, cfg, []*FileRecord{a, b})

	groups := rl.DuplicateGroups()
	require.Len(t, groups, 1)
	assert.Nil(t, a.Checksum)
	assert.Nil(t, b.Checksum)
}

func TestPipeline_RemoveIdenticalInodesKeepsHardlinksOut(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", "content")
	linkPath := filepath.Join(dir, "a-hardlink.txt")
	require.NoError(t, os.Link(a.Path, linkPath))
	info, err := os.Stat(linkPath)
	require.NoError(t, err)
	link := &FileRecord{Path: linkPath, Size: uint64(info.Size())}
	populateIdentity(link, info)

	rl := NewRecordList([]*FileRecord{a, link})
	rl.MarkItems()
	removed := rl.RemoveIdenticalInodes()

	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, rl.Len())
}
