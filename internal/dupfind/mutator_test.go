package dupfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionalMutator_MakeHardlink(t *testing.T) {
	dir := t.TempDir()
	canonical := filepath.Join(dir, "a.txt")
	dup := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(canonical, []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(dup, []byte("hello"), 0o644))

	m := &TransactionalMutator{}
	require.NoError(t, m.MakeHardlink(dup, canonical))

	canonStat, err := os.Stat(canonical)
	require.NoError(t, err)
	dupStat, err := os.Stat(dup)
	require.NoError(t, err)
	assert.True(t, os.SameFile(canonStat, dupStat))
}

func TestTransactionalMutator_RollsBackOnFailure(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

	m := &TransactionalMutator{}
	err := m.Execute(target, func(path string) error {
		return assertErr
	})
	require.Error(t, err)

	contents, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(contents))
}

func TestTransactionalMutator_DryRunChangesNothing(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(target, []byte("hello"), 0o644))

	m := &TransactionalMutator{DryRun: true}
	require.NoError(t, m.Delete(target))

	_, err := os.Stat(target)
	assert.NoError(t, err)
}

func TestSimplifyPath_NeverCollapsesDotDot(t *testing.T) {
	resolved, err := simplifyPath("/a/./b//c/../d")
	require.NoError(t, err)
	assert.Contains(t, resolved, "..")
	assert.NotContains(t, resolved, "/./")
	assert.NotContains(t, resolved, "//")
}

var assertErr = os.ErrInvalid
