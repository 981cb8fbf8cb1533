package dupfind

import (
	"sort"
	"time"
)

// RecordList holds the flat list of FileRecords under construction and
// exposes the Pipeline's passes as methods, the way the teacher favors a
// receiver type over free functions operating on a slice (e.g.
// internals.DigestData, internals.Report). It corresponds to rdfind's
// Rdutil, which wraps the same global filelist vector.
type RecordList struct {
	records []*FileRecord
}

// NewRecordList wraps an existing slice of records without copying it.
// The slice order is the ingest order the tie-break rank's identity is
// derived from (see ranks).
func NewRecordList(records []*FileRecord) *RecordList {
	return &RecordList{records: records}
}

func (rl *RecordList) Records() []*FileRecord { return rl.records }
func (rl *RecordList) Len() int                { return len(rl.records) }

func (rl *RecordList) ranks() map[*FileRecord]rank {
	out := make(map[*FileRecord]rank, len(rl.records))
	for i, r := range rl.records {
		out[r] = rank{cmdlineIndex: r.CmdlineIndex, depth: r.Depth, identity: i}
	}
	return out
}

// SortOnDepthAndName sorts the suffix of the list starting at fromIndex
// by (depth, path), matching rdfind's sort_on_depth_and_name(lastsize)
// call after each command-line root is ingested under -deterministic.
func (rl *RecordList) SortOnDepthAndName(fromIndex int) {
	suffix := rl.records[fromIndex:]
	sort.SliceStable(suffix, func(i, j int) bool {
		a, b := suffix[i], suffix[j]
		if a.Depth != b.Depth {
			return a.Depth < b.Depth
		}
		return a.Path < b.Path
	})
}

// RemoveIdenticalInodes drops every record sharing a (dev, inode) pair
// with an earlier-ranked record, keeping exactly one representative per
// inode — multiple paths pointing at the same inode (hardlinks) can
// never be "duplicates" of each other in any meaningful sense, so they
// are never candidates to begin with.
func (rl *RecordList) RemoveIdenticalInodes() int {
	type key struct {
		dev, inode uint64
	}
	ranks := rl.ranks()
	byInode := make(map[key]*FileRecord)
	kept := rl.records[:0:0]
	removed := 0

	// process in rank order so the representative kept for each inode
	// is always the earliest-ranked one, independent of slice order.
	ordered := append([]*FileRecord(nil), rl.records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ranks[ordered[i]].less(ranks[ordered[j]])
	})
	keepSet := make(map[*FileRecord]bool, len(rl.records))
	for _, r := range ordered {
		k := key{r.Dev, r.Inode}
		if k == (key{}) {
			// no platform identity was recorded (see populateIdentity),
			// so the record cannot be matched to another by inode.
			keepSet[r] = true
			continue
		}
		if _, seen := byInode[k]; seen {
			removed++
			continue
		}
		byInode[k] = r
		keepSet[r] = true
	}
	for _, r := range rl.records {
		if keepSet[r] {
			kept = append(kept, r)
		}
	}
	rl.records = kept
	return removed
}

// MarkItems initializes every record's duplicate state to DupCandidate,
// corresponding to rdfind's markitems() — the starting assumption before
// any pruning pass runs is "everything might be a duplicate of
// something".
func (rl *RecordList) MarkItems() {
	for _, r := range rl.records {
		r.Dup = DupCandidate
	}
}

// TotalSizeInBytes sums Size across every record currently in the list.
func (rl *RecordList) TotalSizeInBytes() uint64 {
	var total uint64
	for _, r := range rl.records {
		total += r.Size
	}
	return total
}

// RemoveUniqueSizes drops every record whose size matches no other
// record's, leaving the order of the survivors unchanged, mirroring rdfind's removeUniqueSizes: a
// file can only be a duplicate of another file of the identical size.
func (rl *RecordList) RemoveUniqueSizes() int {
	return rl.pruneByKey(func(r *FileRecord) string {
		return sizeKey(r.Size)
	})
}

// RemoveUniqueSizeAndBuffer drops every record whose (size, current
// fingerprint buffer) key is unique, after a fingerprint stage has run.
// which buffer to key on is selected by stage.
func (rl *RecordList) RemoveUniqueSizeAndBuffer(stage StageKind) int {
	return rl.pruneByKey(func(r *FileRecord) string {
		switch stage {
		case StageFirstBytes:
			return sizeKey(r.Size) + "|" + string(r.FirstBytes)
		case StageLastBytes:
			return sizeKey(r.Size) + "|" + string(r.FirstBytes) + "|" + string(r.LastBytes)
		default:
			return sizeKey(r.Size) + "|" + string(r.FirstBytes) + "|" + string(r.LastBytes) + "|" + string(r.Checksum)
		}
	})
}

// pruneByKey removes every record whose key function output occurs
// exactly once in the current list.
func (rl *RecordList) pruneByKey(keyFn func(*FileRecord) string) int {
	counts := make(map[string]int, len(rl.records))
	for _, r := range rl.records {
		counts[keyFn(r)]++
	}
	kept := rl.records[:0:0]
	removed := 0
	for _, r := range rl.records {
		if counts[keyFn(r)] > 1 {
			kept = append(kept, r)
		} else {
			r.Dup = DupUnique
			removed++
		}
	}
	rl.records = kept
	return removed
}

// MarkDuplicates assumes every remaining record shares its full
// fingerprint key with at least one other record (RemoveUniqueSizes and
// RemoveUniqueSizeAndBuffer have already pruned everything else), sorts
// by that key, and within each group tags the lowest-rank record
// DupFirstOccurrence and every other member DupWithinSameTree (shares
// cmdline_index with the first occurrence) or DupOutsideTree (does
// not) — matching rdfind's markduplicates, which operates on a
// size-then-buffer-sorted list and distinguishes duplicates found under
// the same command-line root from ones found under a different one.
func (rl *RecordList) MarkDuplicates() {
	ranks := rl.ranks()
	ordered := append([]*FileRecord(nil), rl.records...)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		ka, kb := fullKey(a), fullKey(b)
		if ka != kb {
			return ka < kb
		}
		return ranks[a].less(ranks[b])
	})

	var groupStart int
	for i := 1; i <= len(ordered); i++ {
		if i < len(ordered) && fullKey(ordered[i]) == fullKey(ordered[groupStart]) {
			continue
		}
		group := ordered[groupStart:i]
		first := group[0]
		first.Dup = DupFirstOccurrence
		for _, r := range group[1:] {
			if r.CmdlineIndex == first.CmdlineIndex {
				r.Dup = DupWithinSameTree
			} else {
				r.Dup = DupOutsideTree
			}
			r.DuplicateOf = first
		}
		groupStart = i
	}
}

func fullKey(r *FileRecord) string {
	return sizeKey(r.Size) + "|" + string(r.FirstBytes) + "|" + string(r.LastBytes) + "|" + string(r.Checksum)
}

func sizeKey(size uint64) string {
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(size >> (56 - 8*i))
	}
	return string(buf)
}

// DuplicateGroups returns every set of records sharing a DuplicateOf
// target, the original first included, in rank order within each group —
// this is the shape the Reporter and ActionDriver consume.
func (rl *RecordList) DuplicateGroups() [][]*FileRecord {
	byFirst := make(map[*FileRecord][]*FileRecord)
	var order []*FileRecord
	for _, r := range rl.records {
		if r.Dup != DupWithinSameTree && r.Dup != DupOutsideTree {
			continue
		}
		if _, ok := byFirst[r.DuplicateOf]; !ok {
			order = append(order, r.DuplicateOf)
		}
		byFirst[r.DuplicateOf] = append(byFirst[r.DuplicateOf], r)
	}
	groups := make([][]*FileRecord, 0, len(order))
	for _, first := range order {
		groups = append(groups, append([]*FileRecord{first}, byFirst[first]...))
	}
	return groups
}

// Run executes the full staged pipeline described in spec.md §4.D and
// original_source/rdfind.cc's main(): mark, optional inode-dedup,
// size-pruning, then FIRST_BYTES / LAST_BYTES / checksum stages each
// followed by a prune, then final duplicate-marking. If cfg.Checksum is
// ChecksumNone, the checksum stage is skipped entirely and duplicate
// classes are decided from first/last bytes alone — spec.md §6's
// documented unsafe mode.
//
// A fresh DigestFacade is constructed per record in the checksum stage
// (rather than shared) because reuse would require resetting shared
// state between records, and concurrent-safe reuse is out of scope (see
// spec.md's "no concurrency across files" non-goal).
func (rl *RecordList) Run(cfg *Config, progress Progress) error {
	rl.MarkItems()
	if cfg.RemoveIdenticalInode {
		removed := rl.RemoveIdenticalInodes()
		progress.Logf("removed %d files due to nonunique device and inode", removed)
	}
	progress.Logf("total size is %d bytes (%s)", rl.TotalSizeInBytes(), humanBytes(rl.TotalSizeInBytes()))

	removed := rl.RemoveUniqueSizes()
	progress.Logf("removed %d files due to unique sizes, %d left", removed, rl.Len())

	stages := []StageKind{StageFirstBytes, StageLastBytes}
	if cfg.Checksum != ChecksumNone {
		stages = append(stages, StageChecksum)
	}
	buf := make([]byte, cfg.BufferSize)
	for _, stage := range stages {
		total := rl.Len()
		progress.StartStage(stage, total)
		for i, r := range rl.records {
			var digest DigestFacade
			if stage == StageChecksum {
				d, err := NewDigestFacade(cfg.Checksum)
				if err != nil {
					return err
				}
				digest = d
			}
			if err := ReadStage(r, stage, cfg, digest, buf); err != nil {
				return err
			}
			progress.Step(i + 1)
			if cfg.SleepBetweenFiles > 0 {
				time.Sleep(cfg.SleepBetweenFiles)
			}
		}
		progress.FinishStage()
		removed := rl.RemoveUniqueSizeAndBuffer(stage)
		progress.Logf("removed %d files from list, %d left", removed, rl.Len())
	}

	rl.MarkDuplicates()
	return nil
}
