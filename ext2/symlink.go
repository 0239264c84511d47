package ext2

import "unicode/utf8"

// readSymlink returns the target of a symbolic-link inode. Targets of
// 60 bytes or fewer are stored in-place inside the 15-entry pointer
// array; they must be read byte-by-byte rather than as a reinterpreted
// [15]uint32, so the result is correct regardless of host byte order
// (spec §9, second open question). Longer targets are ordinary file
// content, read through the data-block iterator.
func readSymlink(dev *device, sb *superblock, in *inode) (string, error) {
	if !in.raw.isSymlink() {
		return "", newInvalidInputError("not a symbolic link")
	}
	var raw []byte
	if in.size <= iBlockBytes {
		buf := make([]byte, iBlockBytes)
		for i, v := range in.raw.IBlock {
			buf[i*4+0] = byte(v)
			buf[i*4+1] = byte(v >> 8)
			buf[i*4+2] = byte(v >> 16)
			buf[i*4+3] = byte(v >> 24)
		}
		raw = buf[:in.size]
	} else {
		content, err := readAll(dev, sb, in)
		if err != nil {
			return "", err
		}
		if uint64(len(content)) < in.size {
			return "", newUnexpectedEOFError(int(in.size), len(content))
		}
		raw = content[:in.size]
	}
	if !utf8.Valid(raw) {
		return "", newInvalidDataError("symlink target is not valid UTF-8")
	}
	return string(raw), nil
}
