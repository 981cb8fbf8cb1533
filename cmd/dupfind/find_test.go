package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindCommand_ReportsDuplicates(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("same"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("same"), 0o644))

	var out bytes.Buffer
	var logBuf bytes.Buffer

	cmd := &FindCommand{
		Roots:           []string{dir},
		Checksum:        "sha1",
		BufferSize:      4096,
		Deterministic:   true,
		MakeResultsFile: true,
		OutputName:      filepath.Join(dir, "results.txt"),
		Overwrite:       true,
	}

	code, err := cmd.Run(&PlainOutput{Device: &out}, &PlainOutput{Device: &logBuf})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), "->")

	_, err = os.Stat(cmd.OutputName)
	assert.NoError(t, err)
}

func TestFindCommand_ConfigOutputShortCircuits(t *testing.T) {
	var out bytes.Buffer
	cmd := &FindCommand{
		Roots:        []string{"."},
		ConfigOutput: true,
	}
	code, err := cmd.Run(&PlainOutput{Device: &out}, &PlainOutput{Device: &bytes.Buffer{}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Contains(t, out.String(), `"roots"`)
}

func TestFindCommand_IgnoreEmptySetsMinSize(t *testing.T) {
	cmd := &FindCommand{Roots: []string{"."}, IgnoreEmpty: true, Checksum: "sha1", BufferSize: 4096}
	cfg, err := cmd.buildConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), cfg.MinSize)

	cmd = &FindCommand{Roots: []string{"."}, IgnoreEmpty: false, Checksum: "sha1", BufferSize: 4096}
	cfg, err = cmd.buildConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.MinSize)
}

func TestFindCommand_ExplicitMinSizeOverridesIgnoreEmpty(t *testing.T) {
	cmd := &FindCommand{
		Roots:           []string{"."},
		IgnoreEmpty:     true,
		MinSize:         42,
		minSizeExplicit: true,
		Checksum:        "sha1",
		BufferSize:      4096,
	}
	cfg, err := cmd.buildConfig()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), cfg.MinSize)
}

func TestFindCommand_RejectsUnknownChecksum(t *testing.T) {
	cmd := &FindCommand{
		Roots:      []string{"."},
		Checksum:   "bogus",
		BufferSize: 4096,
	}
	_, err := cmd.Run(&PlainOutput{Device: &bytes.Buffer{}}, &PlainOutput{Device: &bytes.Buffer{}})
	assert.Error(t, err)
}
