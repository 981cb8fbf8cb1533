package dupfind

import (
	"encoding"
	"fmt"
	"hash"
)

// ChecksumKind is the closed set of checksum algorithms dupfind supports,
// mirroring original_source/ChecksumTypes.hh's `enum class checksumtypes`
// exactly: NOTSET, MD5, SHA1, SHA256, SHA512, XXH128.
type ChecksumKind int

const (
	ChecksumNone ChecksumKind = iota
	ChecksumMD5
	ChecksumSHA1
	ChecksumSHA256
	ChecksumSHA512
	ChecksumXXH128
)

var checksumNames = [...]string{
	ChecksumNone:   "none",
	ChecksumMD5:    "md5",
	ChecksumSHA1:   "sha1",
	ChecksumSHA256: "sha256",
	ChecksumSHA512: "sha512",
	ChecksumXXH128: "xxh128",
}

func (k ChecksumKind) String() string {
	if int(k) < 0 || int(k) >= len(checksumNames) {
		return "unknown"
	}
	return checksumNames[k]
}

// ChecksumKindFromString resolves a CLI-supplied checksum name, following
// the teacher's hash.go FromString lookup pattern. The match is
// case-sensitive: only the lower-case names are recognized.
func ChecksumKindFromString(name string) (ChecksumKind, error) {
	for k, n := range checksumNames {
		if n == name {
			return ChecksumKind(k), nil
		}
	}
	return ChecksumNone, fmt.Errorf("dupfind: unrecognized checksum kind %q", name)
}

// ChecksumKindNames lists all supported checksum names in stable order,
// for the `hashalgos` subcommand.
func ChecksumKindNames() []string {
	return []string{
		ChecksumMD5.String(),
		ChecksumSHA1.String(),
		ChecksumSHA256.String(),
		ChecksumSHA512.String(),
		ChecksumXXH128.String(),
	}
}

// DigestFacade is the uniform wrapper spec.md's component B names over
// all supported checksum algorithms, so the Pipeline and StageReader
// never need to type-switch on the underlying hash implementation.
//
// Implementations wrap a hash.Hash (crypto/md5, crypto/sha1,
// crypto/sha256, crypto/sha512) or, for XXH128, zeebo/xxh3's Hasher,
// following the one-file-per-algorithm pattern the teacher uses in
// internals/hash_md5.go, hash_sha-1.go, hash_sha-256.go, hash_sha-512.go.
type DigestFacade interface {
	Kind() ChecksumKind
	Reset()
	Update(p []byte) (int, error)
	DigestLength() int
	// FinalizeInto appends the current digest to dst and returns the
	// extended slice, without mutating internal state (mirrors
	// hash.Hash.Sum's append semantics).
	FinalizeInto(dst []byte) []byte
	// Clone returns an independent copy of the facade's current state,
	// so a partially-fed digest (e.g. after FIRST_BYTES) can seed more
	// than one downstream computation without re-reading the file.
	Clone() DigestFacade
}

// NewDigestFacade constructs the DigestFacade for kind. ChecksumNone is
// invalid here; RecordList.Run never asks for it, since it skips the
// checksum stage entirely when cfg.Checksum is ChecksumNone.
func NewDigestFacade(kind ChecksumKind) (DigestFacade, error) {
	switch kind {
	case ChecksumMD5:
		return newCryptoDigest(kind), nil
	case ChecksumSHA1:
		return newCryptoDigest(kind), nil
	case ChecksumSHA256:
		return newCryptoDigest(kind), nil
	case ChecksumSHA512:
		return newCryptoDigest(kind), nil
	case ChecksumXXH128:
		return newXXH128Digest(), nil
	default:
		return nil, fmt.Errorf("dupfind: no digest facade for checksum kind %s", kind)
	}
}

// cryptoDigest backs MD5/SHA1/SHA256/SHA512 with the stdlib crypto
// package's hash.Hash, cloned via encoding.BinaryMarshaler/Unmarshaler
// the way the standard library's own hash implementations support —
// they exist specifically so callers can snapshot a partially-written
// hash and continue it more than once (see crypto/sha256's doc comment
// on (*digest).MarshalBinary).
type cryptoDigest struct {
	kind ChecksumKind
	h    hash.Hash
}

func newCryptoDigest(kind ChecksumKind) *cryptoDigest {
	return &cryptoDigest{kind: kind, h: newStdlibHash(kind)}
}

func (d *cryptoDigest) Kind() ChecksumKind { return d.kind }

func (d *cryptoDigest) Reset() { d.h.Reset() }

func (d *cryptoDigest) Update(p []byte) (int, error) { return d.h.Write(p) }

func (d *cryptoDigest) DigestLength() int { return d.h.Size() }

func (d *cryptoDigest) FinalizeInto(dst []byte) []byte { return d.h.Sum(dst) }

func (d *cryptoDigest) Clone() DigestFacade {
	marshaler, ok := d.h.(encoding.BinaryMarshaler)
	if !ok {
		// every stdlib crypto hash used here implements this; a
		// missing implementation is a programming error, not a
		// runtime condition to recover from gracefully.
		panic(fmt.Sprintf("dupfind: %s hash.Hash does not support state cloning", d.kind))
	}
	state, err := marshaler.MarshalBinary()
	if err != nil {
		panic(fmt.Sprintf("dupfind: marshal %s hash state: %v", d.kind, err))
	}
	clone := newStdlibHash(d.kind)
	if err := clone.(encoding.BinaryUnmarshaler).UnmarshalBinary(state); err != nil {
		panic(fmt.Sprintf("dupfind: unmarshal %s hash state: %v", d.kind, err))
	}
	return &cryptoDigest{kind: d.kind, h: clone}
}
