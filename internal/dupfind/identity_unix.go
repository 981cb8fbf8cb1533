//go:build unix

package dupfind

import (
	"io/fs"
	"syscall"
)

// populateIdentity fills Inode/Dev from the platform stat_t, the same
// fields original_source/Fileinfo.cc's readfileinfo() pulls from struct
// stat to detect hardlinks across paths.
func populateIdentity(rec *FileRecord, info fs.FileInfo) {
	if sys, ok := info.Sys().(*syscall.Stat_t); ok {
		rec.Inode = uint64(sys.Ino)
		rec.Dev = uint64(sys.Dev)
	}
}
