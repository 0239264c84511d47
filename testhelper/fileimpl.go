package testhelper

import (
	"fmt"
	"os"

	"github.com/andreax79/go-ext2fs/backend"
)

type reader func(b []byte, offset int64) (int, error)
type writer func(b []byte, offset int64) (int, error)

// FileImpl implements backend.Storage, used by ext2 package tests to
// stub out a backing file over an in-memory byte slice instead of a
// real path on disk.
type FileImpl struct {
	Reader reader
	Writer writer
}

var _ backend.Storage = (*FileImpl)(nil)

// Sys has no OS-level file to hand back for a stubbed backend.
func (f *FileImpl) Sys() (*os.File, error) {
	return nil, backend.ErrNotSuitable
}

// Writable has no read-write path for a stubbed, read-only backend.
func (f *FileImpl) Writable() (backend.WritableFile, error) {
	return nil, backend.ErrIncorrectOpenMode
}

func (f *FileImpl) Stat() (os.FileInfo, error) {
	return nil, nil
}

func (f *FileImpl) Read(b []byte) (int, error) {
	return f.Reader(b, 0)
}

func (f *FileImpl) Close() error {
	return nil
}

// ReadAt read at a particular offset
func (f *FileImpl) ReadAt(b []byte, offset int64) (int, error) {
	return f.Reader(b, offset)
}

// WriteAt write at a particular offset
func (f *FileImpl) WriteAt(b []byte, offset int64) (int, error) {
	return f.Writer(b, offset)
}

// Seek seek a particular offset - does not actually work
//
//nolint:unused,revive // to implement the interface
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	return 0, fmt.Errorf("FileImpl does not implement Seek()")
}

// FromBytes builds a FileImpl whose Reader serves ReadAt calls out of
// an in-memory byte slice, for constructing synthetic ext2 images in
// tests without touching the filesystem.
func FromBytes(b []byte) *FileImpl {
	return &FileImpl{
		Reader: func(buf []byte, offset int64) (int, error) {
			if offset >= int64(len(b)) {
				return 0, fmt.Errorf("offset %d beyond end of %d-byte image", offset, len(b))
			}
			n := copy(buf, b[offset:])
			return n, nil
		},
	}
}
