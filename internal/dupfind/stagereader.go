package dupfind

import (
	"errors"
	"io"
	"os"
)

// StageKind enumerates the fingerprint stages the Pipeline runs in order,
// mirroring original_source/Fileinfo.hh's readtobuffermode enum
// (NOT_DEFINED, READ_FIRST_BYTES, READ_LAST_BYTES, then the selected
// checksum stage).
type StageKind int

const (
	StageFirstBytes StageKind = iota
	StageLastBytes
	StageChecksum
)

// ReadStage fills the FileRecord's field for the given stage by reading
// from path, applying the skip-optimization rdfind's
// Fileinfo::fillwithbytes implements at the checksum stage: if the
// checksum configured for first/last-bytes comparison is the same kind
// selected as the primary checksum, and the file is entirely contained
// within the LAST_BYTES window (the stage immediately preceding the
// checksum stage), that window read already digested the whole file, so
// the checksum stage reuses its output instead of re-reading.
//
// buf is a caller-owned scratch buffer of cfg.BufferSize bytes, reused
// across calls the way rdfind reuses a single buffer across its
// fillwithbytes loop to avoid repeated allocation.
func ReadStage(rec *FileRecord, stage StageKind, cfg *Config, digest DigestFacade, buf []byte) error {
	switch stage {
	case StageFirstBytes:
		return readWindow(rec, cfg.ChecksumForFirstLast, cfg.FirstBytesSize, false, buf)
	case StageLastBytes:
		return readWindow(rec, cfg.ChecksumForFirstLast, cfg.LastBytesSize, true, buf)
	case StageChecksum:
		if cfg.ChecksumForFirstLast == cfg.Checksum && rec.Size <= cfg.LastBytesSize {
			rec.Checksum = append([]byte(nil), rec.LastBytes[:digest.DigestLength()]...)
			return nil
		}
		return readFull(rec, digest, buf)
	default:
		return errors.New("dupfind: unknown stage kind")
	}
}

// readWindow hashes at most windowSize bytes from the front or back of
// the file using kind's digest, storing the zero-padded result on rec.
func readWindow(rec *FileRecord, kind ChecksumKind, windowSize uint64, fromEnd bool, buf []byte) error {
	f, err := os.Open(rec.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	toRead := windowSize
	if rec.Size < toRead {
		toRead = rec.Size
	}
	if fromEnd && rec.Size > toRead {
		if _, err := f.Seek(int64(rec.Size-toRead), io.SeekStart); err != nil {
			return err
		}
	}

	digest, err := NewDigestFacade(kind)
	if err != nil {
		return err
	}
	digest.Reset()
	if err := streamInto(digest, f, toRead, buf); err != nil {
		return err
	}

	out := make([]byte, 0, windowSize)
	out = digest.FinalizeInto(out)
	// zero-pad to a fixed window size the way Fileinfo::fillwithbytes
	// zeroes m_somebytes before writing the digest into it, so two
	// files whose checksum output differs in length never compare
	// falsely equal/unequal by byte-slice length alone.
	padded := make([]byte, windowSize)
	copy(padded, out)

	if fromEnd {
		rec.LastBytes = padded
	} else {
		rec.FirstBytes = padded
	}
	return nil
}

// readFull streams the entire file into digest and stores the result as
// the record's primary checksum.
func readFull(rec *FileRecord, digest DigestFacade, buf []byte) error {
	f, err := os.Open(rec.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	digest.Reset()
	if err := streamInto(digest, f, rec.Size, buf); err != nil {
		return err
	}
	rec.Checksum = digest.FinalizeInto(nil)
	return nil
}

// streamInto reads up to n bytes from r into digest using buf as scratch
// space, rdfind-style (fixed-size buffered reads rather than ioutil
// whole-file slurps, so -buffersize actually bounds memory use).
func streamInto(digest DigestFacade, r io.Reader, n uint64, buf []byte) error {
	remaining := n
	for remaining > 0 {
		chunk := buf
		if uint64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}
		read, err := r.Read(chunk)
		if read > 0 {
			if _, werr := digest.Update(chunk[:read]); werr != nil {
				return werr
			}
			remaining -= uint64(read)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
	}
	return nil
}
