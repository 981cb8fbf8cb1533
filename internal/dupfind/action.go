package dupfind

import "fmt"

// ActionDriver walks the Pipeline's duplicate groups and applies the
// configured mutation to every duplicate in each group, keeping the
// group's first (lowest-rank) record untouched as the canonical copy —
// mirroring rdfind's makesymlinks/makehardlinks/deleteduplicates, which
// all iterate filelist once and act on every DUPTYPE_OUTPUT_DUPLICATE
// entry relative to the preceding non-duplicate entry.
type ActionDriver struct {
	Mutator *TransactionalMutator
}

// ActionResult tallies what happened; the CLI logs one line per entry in
// Failed.
type ActionResult struct {
	Applied int
	Failed  []ActionFailure
}

type ActionFailure struct {
	Path string
	Err  error
}

// Run applies cfg's single configured action (MakeSymlinks, MakeHardlinks
// or DeleteDuplicates — Config.Validate already enforces they are
// mutually exclusive) across every duplicate group. It is a no-op if none
// of those three flags is set, since -makeresultsfile alone requires no
// mutation.
func (a *ActionDriver) Run(groups [][]*FileRecord, cfg *Config) (*ActionResult, error) {
	result := &ActionResult{}
	if !cfg.MakeSymlinks && !cfg.MakeHardlinks && !cfg.DeleteDuplicates {
		return result, nil
	}

	for _, group := range groups {
		canonical := group[0]
		for _, dup := range group[1:] {
			var err error
			switch {
			case cfg.MakeSymlinks:
				err = a.Mutator.MakeSymlink(dup.Path, canonical.Path)
			case cfg.MakeHardlinks:
				err = a.Mutator.MakeHardlink(dup.Path, canonical.Path)
			case cfg.DeleteDuplicates:
				err = a.Mutator.Delete(dup.Path)
			}
			if err != nil {
				result.Failed = append(result.Failed, ActionFailure{Path: dup.Path, Err: err})
				continue
			}
			result.Applied++
		}
	}
	return result, nil
}

func (r ActionFailure) String() string {
	return fmt.Sprintf("%s: %v", r.Path, r.Err)
}
