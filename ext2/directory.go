package ext2

import (
	"unicode/utf8"
)

const dirEntryHeaderSize = 8 // inode(4) + rec_len(2) + name_len(1) + file_type(1)

// fileType byte values, valid only when the volume's superblock sets
// EXT2_FEATURE_INCOMPAT_FILETYPE; see superblock.supportsFileType.
const (
	dirFileTypeUnknown  = 0
	dirFileTypeRegular  = 1
	dirFileTypeDir      = 2
	dirFileTypeChardev  = 3
	dirFileTypeBlockdev = 4
	dirFileTypeFifo     = 5
	dirFileTypeSocket   = 6
	dirFileTypeSymlink  = 7
)

// DirEntry is a directory entry: the inode number, the bare file
// name, and — when a parent path was supplied to readDirectory — the
// entry's full path (spec §3, "parent-path tracking").
type DirEntry struct {
	Name     string
	InodeNum uint32
	FileType uint8
	Path     string
}

// dirEntryFromBytes decodes one entry at offset within buf, returning
// the entry and the number of bytes consumed (rec_len). Invalid UTF-8
// in the name is reported as *InvalidDataError rather than a panic
// (spec §7).
func dirEntryFromBytes(buf []byte, off int) (*DirEntry, int, error) {
	if off+dirEntryHeaderSize > len(buf) {
		return nil, 0, newInvalidDataError("directory entry header runs past end of block")
	}
	inodeNum := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	recLen := int(buf[off+4]) | int(buf[off+5])<<8
	nameLen := int(buf[off+6])
	fileType := buf[off+7]

	if recLen < dirEntryHeaderSize || off+recLen > len(buf) {
		return nil, 0, newInvalidDataError("directory entry rec_len runs past end of block")
	}
	nameStart := off + dirEntryHeaderSize
	nameEnd := nameStart + nameLen
	if nameEnd > len(buf) || nameEnd > off+recLen {
		return nil, 0, newInvalidDataError("directory entry name_len runs past rec_len")
	}
	nameBytes := buf[nameStart:nameEnd]
	if !utf8.Valid(nameBytes) {
		return nil, 0, newInvalidDataError("directory entry name is not valid UTF-8")
	}
	return &DirEntry{
		Name:     string(nameBytes),
		InodeNum: inodeNum,
		FileType: fileType,
	}, recLen, nil
}

// readDirectory walks every data block of a directory inode and
// returns its entries in on-disk order (FileSystem.SortedReadDir
// orders them by name). Entries whose
// inode number is 0 denote deleted/reserved slots and are skipped
// (spec §4.4).
func readDirectory(dev *device, sb *superblock, in *inode, parentPath string) ([]*DirEntry, error) {
	if !in.raw.isDir() {
		return nil, newNotADirectoryError(parentPath)
	}
	it := newDataBlockIterator(dev, sb, in)
	var entries []*DirEntry
	for {
		buf, ok := it.next()
		if !ok {
			break
		}
		off := 0
		for off < len(buf) {
			entry, recLen, err := dirEntryFromBytes(buf, off)
			if err != nil {
				return nil, err
			}
			off += recLen
			if entry.InodeNum == 0 {
				continue
			}
			entry.Path = joinPath(parentPath, entry.Name)
			entries = append(entries, entry)
		}
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	return entries, nil
}

// joinPath implements the parent-path rule from spec §4.4: P + "/" +
// name, with P == "/" yielding "/name" (no doubled separator). An
// empty parentPath means "no path tracking requested".
func joinPath(parentPath, name string) string {
	if parentPath == "" {
		return ""
	}
	if parentPath == "/" {
		return "/" + name
	}
	return parentPath + "/" + name
}
