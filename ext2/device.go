package ext2

import (
	"io"

	"github.com/andreax79/go-ext2fs/backend"
)

// device is the block-device component (spec component 1): random
// access reads of N bytes at a byte offset, translating logical
// offsets via the offset tagged variant. It deliberately never seeks
// the backing handle; every read is positional (backend.Storage.ReadAt),
// so a device can be shared by value without a mutex guarding a shared
// seek pointer, per the concurrency model.
type device struct {
	storage backend.Storage
}

func newDevice(storage backend.Storage) *device {
	return &device{storage: storage}
}

// read reads exactly size bytes at off. A short read is reported as
// *UnexpectedEOFError; any other I/O failure is surfaced unmodified.
func (d *device) read(size int, off offset) ([]byte, error) {
	buf := make([]byte, size)
	n, err := d.storage.ReadAt(buf, off.bytes())
	if err != nil && err != io.EOF && n < size {
		return nil, err
	}
	if n < size {
		return nil, newUnexpectedEOFError(size, n)
	}
	return buf, nil
}
