// Package format auto-detects the container format of a backing image
// file, generalizing the teacher's disk/formats + disk/formats/raw
// pattern (a Format enum with a single Raw member) to also recognize
// an xz-compressed image and transparently decompress it before the
// core ever reads a block.
package format

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/andreax79/go-ext2fs/backend"
)

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Open opens pathName and returns a backend.Storage ready for
// ext2.Read. Plain images pass through unchanged (Raw); an
// xz-compressed image is spooled to a temporary file and that
// decompressed copy is opened instead — the decompressed result is an
// ordinary uncompressed ext2 image from the core's point of view
// (SPEC_FULL.md §9 "Non-goals" expansion note).
func Open(pathName string) (backend.Storage, error) {
	f, err := os.Open(pathName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	magic := make([]byte, len(xzMagic))
	n, err := io.ReadFull(f, magic)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, err
	}

	if n == len(xzMagic) && bytes.Equal(magic, xzMagic) {
		return openXZ(pathName)
	}
	return openRaw(pathName)
}

func openXZ(pathName string) (backend.Storage, error) {
	src, err := os.Open(pathName)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r, err := xz.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("reading xz header of %s: %w", pathName, err)
	}

	tmp, err := os.CreateTemp("", "ext2-image-*.img")
	if err != nil {
		return nil, err
	}
	tmpPath := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("decompressing %s: %w", pathName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, err
	}

	return openRaw(tmpPath)
}
