//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris)
// +build !aix,!darwin,!dragonfly,!freebsd,!linux,!netbsd,!openbsd,!solaris

package format

import (
	"github.com/andreax79/go-ext2fs/backend"
	"github.com/andreax79/go-ext2fs/backend/file"
)

// openRaw opens a plain (non-xz) image through backend/file on
// platforms unixfile's pread-based backend does not target.
func openRaw(pathName string) (backend.Storage, error) {
	return file.OpenFromPath(pathName, true)
}
