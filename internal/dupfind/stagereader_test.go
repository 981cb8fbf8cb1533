package dupfind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReadStage_ChecksumSkipReusesLastBytesDigest exercises the skip
// optimization described in spec.md §4.C: when the checksum configured
// for first/last-bytes comparison matches the primary checksum, and the
// file fits entirely in the LAST_BYTES window, the checksum stage must
// reuse the LAST_BYTES digest instead of re-reading the file, and the
// reused value must equal what a direct full-file digest would produce.
func TestReadStage_ChecksumSkipReusesLastBytesDigest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")
	content := []byte("tiny file")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg := NewConfig()
	cfg.Checksum = ChecksumXXH128
	cfg.ChecksumForFirstLast = ChecksumXXH128
	require.Less(t, uint64(len(content)), cfg.LastBytesSize)

	rec := &FileRecord{Path: path, Size: uint64(len(content))}
	buf := make([]byte, cfg.BufferSize)

	require.NoError(t, ReadStage(rec, StageFirstBytes, cfg, nil, buf))
	require.NoError(t, ReadStage(rec, StageLastBytes, cfg, nil, buf))

	digest, err := NewDigestFacade(cfg.Checksum)
	require.NoError(t, err)
	require.NoError(t, ReadStage(rec, StageChecksum, cfg, digest, buf))

	want, err := NewDigestFacade(cfg.Checksum)
	require.NoError(t, err)
	_, err = want.Update(content)
	require.NoError(t, err)
	wantSum := want.FinalizeInto(nil)

	assert.Equal(t, wantSum, rec.Checksum)
}

// TestReadStage_ChecksumSkipDoesNotFireAcrossDifferentKinds confirms the
// skip only applies when the first/last-bytes checksum kind matches the
// primary checksum kind, per spec.md §4.C.
func TestReadStage_ChecksumSkipDoesNotFireAcrossDifferentKinds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "small.txt")
	content := []byte("tiny file")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg := NewConfig()
	cfg.Checksum = ChecksumSHA256
	cfg.ChecksumForFirstLast = ChecksumXXH128

	rec := &FileRecord{Path: path, Size: uint64(len(content))}
	buf := make([]byte, cfg.BufferSize)

	require.NoError(t, ReadStage(rec, StageFirstBytes, cfg, nil, buf))
	require.NoError(t, ReadStage(rec, StageLastBytes, cfg, nil, buf))

	digest, err := NewDigestFacade(cfg.Checksum)
	require.NoError(t, err)
	require.NoError(t, ReadStage(rec, StageChecksum, cfg, digest, buf))

	want, err := NewDigestFacade(cfg.Checksum)
	require.NoError(t, err)
	_, err = want.Update(content)
	require.NoError(t, err)
	wantSum := want.FinalizeInto(nil)

	assert.Equal(t, wantSum, rec.Checksum)
}
