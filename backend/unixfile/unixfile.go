//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris
// +build aix darwin dragonfly freebsd linux netbsd openbsd solaris

// Package unixfile provides a backend.Storage that positions reads
// with unix.Pread instead of the fs.File/io.ReaderAt path, avoiding
// the backing file's shared seek pointer the way disk/disk_unix.go
// uses golang.org/x/sys/unix for a different fd-level operation
// (ioctl rather than pread), the same dependency put to the use the
// concurrency model recommends (spec §5).
package unixfile

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"

	"github.com/andreax79/go-ext2fs/backend"
)

type pread struct {
	f *os.File
}

// Open opens pathName read-only and returns a backend.Storage whose
// ReadAt goes through unix.Pread.
func Open(pathName string) (backend.Storage, error) {
	f, err := os.OpenFile(pathName, os.O_RDONLY, 0)
	if err != nil {
		return nil, err
	}
	return pread{f: f}, nil
}

var _ backend.Storage = pread{}

func (p pread) Sys() (*os.File, error) { return p.f, nil }

func (p pread) Writable() (backend.WritableFile, error) {
	return nil, backend.ErrIncorrectOpenMode
}

func (p pread) Stat() (fs.FileInfo, error) { return p.f.Stat() }

func (p pread) Read(b []byte) (int, error) { return p.f.Read(b) }

func (p pread) Close() error { return p.f.Close() }

func (p pread) ReadAt(b []byte, off int64) (int, error) {
	return unix.Pread(int(p.f.Fd()), b, off)
}

func (p pread) Seek(offset int64, whence int) (int64, error) {
	return p.f.Seek(offset, whence)
}
