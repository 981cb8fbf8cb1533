package dupfind

import "fmt"

// DupType classifies what is currently known about a FileRecord's
// duplicate status as the pipeline narrows candidates down.
type DupType int

const (
	// DupUnknown is the initial state before any pruning pass has run.
	DupUnknown DupType = iota
	// DupUnique means the record has been proven to have no duplicate.
	DupUnique
	// DupCandidate means the record still shares its current key
	// (size, or size+buffer) with at least one other record.
	DupCandidate
	// DupFirstOccurrence marks the one record markDuplicates preserves
	// per equivalence class: lowest (cmdline_index, depth, identity_number).
	DupFirstOccurrence
	// DupWithinSameTree marks a duplicate sharing cmdline_index with its
	// class's DupFirstOccurrence record.
	DupWithinSameTree
	// DupOutsideTree marks a duplicate whose cmdline_index differs from
	// its class's DupFirstOccurrence record.
	DupOutsideTree
)

func (d DupType) String() string {
	switch d {
	case DupUnique:
		return "unique"
	case DupCandidate:
		return "candidate"
	case DupFirstOccurrence:
		return "first_occurrence"
	case DupWithinSameTree:
		return "within_same_tree"
	case DupOutsideTree:
		return "outside_tree"
	default:
		return "unknown"
	}
}

// FileRecord is a single regular file seen during traversal, carrying
// everything the pipeline needs to decide whether it duplicates another
// record, without re-touching the filesystem more than necessary.
//
// Fields are exported because Pipeline, Reporter and ActionDriver all
// read and (outside of the pipeline's own passes) never mutate them in
// place — callers treat a *FileRecord as effectively append-only once
// Pipeline.Run has completed a stage.
type FileRecord struct {
	Path string // as given by the Traverser; never ..-normalized

	Size  uint64
	Inode uint64
	Dev   uint64

	CmdlineIndex int // index of the root this record was found under
	Depth        int // path separator count relative to that root

	FirstBytes []byte // populated by the FIRST_BYTES stage
	LastBytes  []byte // populated by the LAST_BYTES stage
	Checksum   []byte // populated by the selected checksum stage

	Dup DupType

	// DuplicateOf points at the record this one was marked a duplicate
	// of by markDuplicates. nil unless Dup == DupWithinSameTree or
	// DupOutsideTree.
	DuplicateOf *FileRecord
}

// rank is the lexicographic tie-break key spec.md mandates:
// (cmdline_index, depth, identity_number). identity_number is the
// record's position in the RecordList at the moment the ranks are
// computed; pruning passes keep the survivors' relative order, so it
// always reflects ingest order (after any per-root depth sort) — it
// stands in for rdfind's "earlier in filelist vector sorts first" rule.
type rank struct {
	cmdlineIndex int
	depth        int
	identity     int
}

func (r rank) less(o rank) bool {
	if r.cmdlineIndex != o.cmdlineIndex {
		return r.cmdlineIndex < o.cmdlineIndex
	}
	if r.depth != o.depth {
		return r.depth < o.depth
	}
	return r.identity < o.identity
}

func (f *FileRecord) String() string {
	return fmt.Sprintf("FileRecord{%s size=%d dup=%s}", f.Path, f.Size, f.Dup)
}
