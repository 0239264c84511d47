//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

package format

import (
	"github.com/andreax79/go-ext2fs/backend"
	"github.com/andreax79/go-ext2fs/backend/unixfile"
)

// openRaw opens a plain (non-xz) image through backend/unixfile, so
// every core read goes through unix.Pread rather than an os.File whose
// shared seek pointer would need external locking under concurrent
// callers (spec §5).
func openRaw(pathName string) (backend.Storage, error) {
	return unixfile.Open(pathName)
}
