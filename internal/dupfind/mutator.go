package dupfind

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// TransactionalMutator performs a destructive single-file operation
// (replace with symlink, replace with hardlink, delete) crash-safely by
// first renaming the target out of the way, attempting the operation,
// and either removing the temporary on success or renaming it back on
// failure — the same shape as original_source/Fileinfo.cc's
// transactional_operation<Func> plus its UndoableUnlink scope guard.
type TransactionalMutator struct {
	DryRun bool
}

// MutateFunc performs the actual replacement at path, once path has
// already been vacated by the transaction. It returns an error if the
// operation could not complete.
type MutateFunc func(path string) error

// Execute renames path aside, invokes fn, and commits or rolls back.
// On dry-run, fn is never called and no filesystem changes occur.
func (m *TransactionalMutator) Execute(path string, fn MutateFunc) error {
	if m.DryRun {
		return nil
	}

	tmp, err := tempSibling(path)
	if err != nil {
		return fmt.Errorf("dupfind: preparing transaction for %s: %w", path, err)
	}
	if err := os.Rename(path, tmp); err != nil {
		return fmt.Errorf("dupfind: moving %s aside: %w", path, err)
	}

	if err := fn(path); err != nil {
		// rollback: put the original back exactly where it was,
		// mirroring UndoableUnlink's destructor running because
		// ret != 0 in transactional_operation.
		if rerr := os.Rename(tmp, path); rerr != nil {
			return fmt.Errorf("dupfind: %s failed (%v) and rollback also failed: %w", path, err, rerr)
		}
		return fmt.Errorf("dupfind: %s failed, rolled back: %w", path, err)
	}

	if err := os.Remove(tmp); err != nil {
		return fmt.Errorf("dupfind: operation on %s succeeded but removing backup %s failed: %w", path, tmp, err)
	}
	return nil
}

// tempSibling picks a name in the same directory as path that does not
// currently exist, the way UndoableUnlink's constructor finds a free
// temporary name next to the original file (so the rename stays on the
// same filesystem and os.Rename cannot fail with EXDEV).
func tempSibling(path string) (string, error) {
	dir, base := filepath.Split(path)
	for i := 0; i < 1<<16; i++ {
		candidate := filepath.Join(dir, "."+base+".dupfind.tmp."+strconv.Itoa(i))
		if _, err := os.Lstat(candidate); os.IsNotExist(err) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("could not find a free temporary name for %s", path)
}

// MakeSymlink replaces target with a symlink pointing at canonical,
// resolving canonical to an absolute, simplified path first — rdfind's
// makeAbsolute + simplifyPath, which collapses "/./" and "//" but
// deliberately never touches ".." segments because doing so correctly
// in the presence of symlinks is not straightforward
// (see original_source/Fileinfo.cc).
func (m *TransactionalMutator) MakeSymlink(target, canonical string) error {
	resolved, err := simplifyPath(canonical)
	if err != nil {
		return err
	}
	return m.Execute(target, func(path string) error {
		return os.Symlink(resolved, path)
	})
}

// MakeHardlink replaces target with a hardlink to canonical.
func (m *TransactionalMutator) MakeHardlink(target, canonical string) error {
	return m.Execute(target, func(path string) error {
		return os.Link(canonical, path)
	})
}

// Delete removes target transactionally (so a failed unlink still leaves
// the original file recoverable from its temporary name).
func (m *TransactionalMutator) Delete(target string) error {
	return m.Execute(target, func(path string) error {
		return nil
	})
}

// simplifyPath makes p absolute against the current working directory if
// it is relative, then repeatedly collapses "/./" and "//" until no more
// such sequences remain. It never collapses "..".
func simplifyPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		abs = filepath.Join(cwd, abs)
		// filepath.Join already cleans the path, which would collapse
		// ".." segments — rebuild using plain concatenation so we
		// match rdfind's deliberately weaker simplification exactly.
		abs = cwd + "/" + p
	}
	for {
		collapsed := strings.ReplaceAll(strings.ReplaceAll(abs, "/./", "/"), "//", "/")
		if collapsed == abs {
			return abs, nil
		}
		abs = collapsed
	}
}
