package ext2

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	times "gopkg.in/djherbis/times.v1"

	"github.com/andreax79/go-ext2fs/backend"
	"github.com/andreax79/go-ext2fs/image/format"
)

const (
	rootInodeNum = 2

	// maxSymlinkDepth bounds symlink-resolution recursion, recommended
	// by POSIX and used here rather than path memoization (spec §9,
	// "do not attempt to detect cycles by path memoization").
	maxSymlinkDepth = 40
)

// Log is the package-level logger, overridable by callers the way a
// library exposes a *logrus.Logger rather than writing to stdout
// directly.
var Log = logrus.New()

// FileSystem is the mounted volume — the filesystem façade (spec
// component 5). It owns the backing device and the decoded geometry;
// all other values (inode handles, directory entries, file readers)
// borrow it read-only. It is immutable after Read returns.
type FileSystem struct {
	dev        *device
	storage    backend.Storage
	superblock *superblock
	groups     []*groupDescriptor
}

// Read mounts an ext2 volume: opens the device, reads the superblock,
// reads the group descriptor table. Grounded on
// filesystem/ext4.Read / original_source/src/ext2.rs's
// Ext2Filesystem::open.
func Read(storage backend.Storage) (*FileSystem, error) {
	dev := newDevice(storage)

	sbBuf, err := dev.read(superblockSize, blockOffset(superblockOffset, 1))
	if err != nil {
		return nil, err
	}
	sb, err := superblockFromBytes(sbBuf)
	if err != nil {
		return nil, err
	}

	gdtBlock := groupDescriptorTableOffset(sb.BlockSize)
	gdtSize := int(groupDescriptorSize * sb.GroupsCount)
	gdtBuf, err := dev.read(gdtSize, blockOffset(sb.BlockSize, gdtBlock))
	if err != nil {
		return nil, err
	}
	groups, err := groupDescriptorTableFromBytes(gdtBuf, sb.GroupsCount, int64(sb.InodesPerGroup))
	if err != nil {
		return nil, err
	}

	Log.WithFields(logrus.Fields{
		"block_size":   sb.BlockSize,
		"groups_count": sb.GroupsCount,
		"volume_name":  sb.VolumeName,
		"uuid":         sb.UUID.String(),
	}).Debug("mounted ext2 volume")

	return &FileSystem{
		dev:        dev,
		storage:    storage,
		superblock: sb,
		groups:     groups,
	}, nil
}

// ReadFromPath auto-detects the image's container format (plain or
// xz-compressed), opens the resulting backend, logs the host-level
// provenance of the backing file as an operational diagnostic (never
// a substitute for in-image inode timestamps), and mounts it.
func ReadFromPath(pathName string) (*FileSystem, error) {
	if t, err := times.Stat(pathName); err == nil {
		fields := logrus.Fields{"path": pathName, "mtime": t.ModTime()}
		if t.HasBirthTime() {
			fields["birthtime"] = t.BirthTime()
		}
		Log.WithFields(fields).Debug("opening backing image file")
	}

	storage, err := format.Open(pathName)
	if err != nil {
		return nil, err
	}
	return Read(storage)
}

// BlockSize returns the volume's block size in bytes.
func (fs *FileSystem) BlockSize() int64 { return fs.superblock.BlockSize }

// BlocksCount returns the total number of blocks on the volume.
func (fs *FileSystem) BlocksCount() uint32 { return fs.superblock.BlocksCount }

// FreeBlocksCount returns the number of unallocated blocks, as
// reported by the superblock — the input the free-space reporter
// consumes (spec §4.3).
func (fs *FileSystem) FreeBlocksCount() uint32 { return fs.superblock.FreeBlocksCount }

// UUID returns the volume's 128-bit identifier.
func (fs *FileSystem) UUID() string { return fs.superblock.UUID.String() }

// Label returns the volume name stored in the superblock.
func (fs *FileSystem) Label() string { return fs.superblock.VolumeName }

// GroupReport summarizes one block group's allocation state (SPEC_FULL.md
// §3 expansion). The df subcommand does not print it; df reports only
// the volume-wide totals.
type GroupReport struct {
	Index           int64
	FreeBlocksCount uint16
	FreeInodesCount uint16
	UsedDirsCount   uint16
}

// Groups returns a per-group allocation report.
func (fs *FileSystem) Groups() []GroupReport {
	out := make([]GroupReport, len(fs.groups))
	for i, g := range fs.groups {
		out[i] = GroupReport{
			Index:           g.groupIndex,
			FreeBlocksCount: g.FreeBlocksCount,
			FreeInodesCount: g.FreeInodesCount,
			UsedDirsCount:   g.UsedDirsCount,
		}
	}
	return out
}

func (fs *FileSystem) readInode(n uint32) (*inode, error) {
	return readInode(fs.dev, fs.superblock, fs.groups, n)
}

// resolveRelative implements the path-resolution algorithm of spec
// §4.5: split on "/", absolute paths restart at root, each component
// is looked up as a directory entry of the current inode, and
// symlinks are followed unless the component is terminal and
// noFollowTerminal is set. Recursion is bounded by maxSymlinkDepth.
func (fs *FileSystem) resolveRelative(path string, start *inode, noFollowTerminal bool, depth int) (*inode, error) {
	if depth > maxSymlinkDepth {
		return nil, newTooManyLinksError(path, maxSymlinkDepth)
	}
	cur := start
	if strings.HasPrefix(path, "/") {
		root, err := fs.readInode(rootInodeNum)
		if err != nil {
			return nil, err
		}
		cur = root
	}
	parts := strings.Split(path, "/")
	last := len(parts) - 1
	for i, part := range parts {
		if part == "" {
			continue
		}
		child, err := fs.lookupChild(cur, part)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, newNotFoundError(path)
		}
		if child.raw.isSymlink() && (!noFollowTerminal || i != last) {
			target, err := readSymlink(fs.dev, fs.superblock, child)
			if err != nil {
				return nil, err
			}
			cur, err = fs.resolveRelative(target, cur, noFollowTerminal, depth+1)
			if err != nil {
				return nil, err
			}
		} else {
			cur = child
		}
	}
	return cur, nil
}

func (fs *FileSystem) lookupChild(parent *inode, name string) (*inode, error) {
	entries, err := readDirectory(fs.dev, fs.superblock, parent, "")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return fs.readInode(e.InodeNum)
		}
	}
	return nil, nil
}

// resolve resolves path to an inode, following every symlink
// component including the terminal one.
func (fs *FileSystem) resolve(path string) (*inode, error) {
	root, err := fs.readInode(rootInodeNum)
	if err != nil {
		return nil, err
	}
	return fs.resolveRelative(path, root, false, 0)
}

// resolveNoFollow resolves path to an inode without following a
// terminal symlink component (symlink_metadata semantics).
func (fs *FileSystem) resolveNoFollow(path string) (*inode, error) {
	root, err := fs.readInode(rootInodeNum)
	if err != nil {
		return nil, err
	}
	return fs.resolveRelative(path, root, true, 0)
}

// Open resolves path and returns a streamable reader over its data
// blocks. Directories are refused with *IsADirectoryError.
func (fs *FileSystem) Open(path string) (*FileReader, error) {
	in, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	if in.raw.isDir() {
		return nil, newIsADirectoryError(path)
	}
	fr, err := newFileReader(fs.dev, fs.superblock, in)
	if err != nil {
		return nil, err
	}
	fr.name = baseName(path)
	return fr, nil
}

// ReadDir resolves path (following symlinks) and returns its entries
// in on-disk order, including "." and ".." as they appear, per spec
// §4.5. Use SortedReadDir for a name-ordered listing.
func (fs *FileSystem) ReadDir(path string) ([]*DirEntry, error) {
	in, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return readDirectory(fs.dev, fs.superblock, in, path)
}

// SortedReadDir is ReadDir with entries ordered lexicographically by
// name, the presentation `ls` relies on.
func (fs *FileSystem) SortedReadDir(path string) ([]*DirEntry, error) {
	entries, err := fs.ReadDir(path)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// Metadata stats path after resolving every component, including a
// terminal symlink.
func (fs *FileSystem) Metadata(path string) (*Metadata, error) {
	in, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return metadataFromInode(in), nil
}

// SymlinkMetadata stats the final path component as-is: a terminal
// symlink is not followed.
func (fs *FileSystem) SymlinkMetadata(path string) (*Metadata, error) {
	in, err := fs.resolveNoFollow(path)
	if err != nil {
		return nil, err
	}
	return metadataFromInode(in), nil
}

// ReadLink reads a symlink's target; it fails with
// *InvalidInputError if path does not resolve to a symlink.
func (fs *FileSystem) ReadLink(path string) (string, error) {
	in, err := fs.resolveNoFollow(path)
	if err != nil {
		return "", err
	}
	return readSymlink(fs.dev, fs.superblock, in)
}

// Read is the read(path) -> bytes convenience wrapper.
func (fs *FileSystem) Read(path string) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	return f.ReadAll()
}

// ReadToString is the read_to_string(path) -> string convenience
// wrapper. Content is returned verbatim (no UTF-8 validation —
// arbitrary file content is not required to be text).
func (fs *FileSystem) ReadToString(path string) (string, error) {
	b, err := fs.Read(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// TryExists reports whether path resolves to anything, swallowing
// *NotFoundError as false and surfacing any other error.
func (fs *FileSystem) TryExists(path string) (bool, error) {
	_, err := fs.resolve(path)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*NotFoundError); ok {
		return false, nil
	}
	return false, err
}
