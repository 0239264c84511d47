package ext2

import "io/fs"

// Metadata is a POSIX-stat-shaped record derived purely from an
// already-decoded inode, grounded on original_source/src/metadata.rs's
// Metadata/MetadataExt. Dev and Rdev are always zero for this
// read-only backing (spec §3).
type Metadata struct {
	Dev        uint64
	Ino        uint64
	Mode       uint32
	Nlink      uint64
	UID        uint32
	GID        uint32
	Rdev       uint64
	Size       uint64
	Atime      int64
	AtimeNsec  int64
	Mtime      int64
	MtimeNsec  int64
	Ctime      int64
	CtimeNsec  int64
	Blksize    uint64
	Blocks     uint64
}

func metadataFromInode(in *inode) *Metadata {
	ri := in.raw
	return &Metadata{
		Ino:   uint64(in.num),
		Mode:  uint32(ri.Mode),
		Nlink: uint64(ri.LinksCount),
		UID:   ri.uidCombined(),
		GID:   ri.gidCombined(),
		Size:  in.size,
		Atime: int64(ri.Atime),
		Mtime: int64(ri.Mtime),
		Ctime: int64(ri.Ctime),
		// ext2 stores no sub-second resolution. The original source
		// computes nsec = seconds * 1_000_000, which is wrong; these
		// are left at zero (spec §9 nanosecond-timestamps bug-fix).
		AtimeNsec: 0,
		MtimeNsec: 0,
		CtimeNsec: 0,
		Blksize:   uint64(in.blockSize),
		Blocks:    uint64(ri.Blocks),
	}
}

func (ri *rawInode) uidCombined() uint32 {
	return uint32(ri.UID) | uint32(ri.UIDHigh)<<16
}

func (ri *rawInode) gidCombined() uint32 {
	return uint32(ri.GID) | uint32(ri.GIDHigh)<<16
}

func (m *Metadata) IsDir() bool     { return m.Mode&modeFormatMask == modeTypeDir }
func (m *Metadata) IsRegular() bool { return m.Mode&modeFormatMask == modeTypeRegular }
func (m *Metadata) IsSymlink() bool { return m.Mode&modeFormatMask == modeTypeSymlink }

// FileMode converts the raw ext2 mode field to an io/fs.FileMode,
// carrying over the permission bits and mapping the ext2 type bits to
// their fs.ModeType equivalents, for callers (the ls/stat commands)
// that want Go's standard mode-string formatting.
func (m *Metadata) FileMode() fs.FileMode {
	perm := fs.FileMode(m.Mode & 0o7777)
	switch m.Mode & modeFormatMask {
	case modeTypeDir:
		perm |= fs.ModeDir
	case modeTypeSymlink:
		perm |= fs.ModeSymlink
	case modeTypeChar:
		perm |= fs.ModeCharDevice | fs.ModeDevice
	case modeTypeBlock:
		perm |= fs.ModeDevice
	case modeTypeFifo:
		perm |= fs.ModeNamedPipe
	case modeTypeSocket:
		perm |= fs.ModeSocket
	}
	return perm
}
