package dupfind

import (
	"crypto/md5"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDigestFacade_MatchesStdlib(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog")

	d, err := NewDigestFacade(ChecksumMD5)
	require.NoError(t, err)
	_, err = d.Update(data)
	require.NoError(t, err)

	want := md5.Sum(data)
	got := d.FinalizeInto(nil)
	assert.Equal(t, want[:], got)
}

func TestDigestFacade_CloneIsIndependent(t *testing.T) {
	for _, kind := range []ChecksumKind{ChecksumMD5, ChecksumSHA1, ChecksumSHA256, ChecksumSHA512, ChecksumXXH128} {
		kind := kind
		t.Run(kind.String(), func(t *testing.T) {
			d, err := NewDigestFacade(kind)
			require.NoError(t, err)
			_, err = d.Update([]byte("partial-"))
			require.NoError(t, err)

			clone := d.Clone()

			_, err = d.Update([]byte("original"))
			require.NoError(t, err)
			_, err = clone.Update([]byte("clone"))
			require.NoError(t, err)

			assert.NotEqual(t, d.FinalizeInto(nil), clone.FinalizeInto(nil))
		})
	}
}

func TestChecksumKindFromString(t *testing.T) {
	k, err := ChecksumKindFromString("sha256")
	require.NoError(t, err)
	assert.Equal(t, ChecksumSHA256, k)

	_, err = ChecksumKindFromString("bogus")
	assert.Error(t, err)
}
