//go:build !unix

package dupfind

import "io/fs"

// populateIdentity is a no-op on platforms without a POSIX stat_t;
// inode-based hardlink detection (-removeidentinode) has no equivalent
// there, so every file is treated as having a unique identity.
func populateIdentity(rec *FileRecord, info fs.FileInfo) {}
