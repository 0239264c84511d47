package ext2

import (
	"io"
	iofs "io/fs"
	"os"
	"time"
)

// Type identifies the kind of filesystem a FileSystem mounts, mirroring
// the teacher's filesystem.Type enum (filesystem/filesystem.go) pared
// down to the one member this package ever returns.
type Type int

// TypeExt2 is the only Type this package knows how to mount.
const TypeExt2 Type = 0

func (t Type) String() string { return "ext2" }

// Type satisfies the Type() method of the teacher's
// filesystem.FileSystem interface shape (SPEC_FULL.md §4.5).
func (fs *FileSystem) Type() Type { return TypeExt2 }

// ioFSFile mirrors the teacher's filesystem.File interface
// (filesystem/file.go: fs.ReadDirFile + io.Writer + io.Seeker),
// reproduced locally since this package does not import the teacher's
// module. *FileReader satisfies it so OpenFile can hand callers a
// handle usable by io/fs-shaped tooling.
type ioFSFile interface {
	iofs.ReadDirFile
	io.Writer
	io.Seeker
}

var _ ioFSFile = (*FileReader)(nil)

// fileInfo adapts Metadata to iofs.FileInfo, generalized from
// filesystem/ext4/ext4.go's FileInfo.
type fileInfo struct {
	name string
	meta *Metadata
}

func (fi *fileInfo) Name() string        { return fi.name }
func (fi *fileInfo) Size() int64         { return int64(fi.meta.Size) }
func (fi *fileInfo) Mode() iofs.FileMode { return fi.meta.FileMode() }
func (fi *fileInfo) ModTime() time.Time  { return time.Unix(fi.meta.Mtime, fi.meta.MtimeNsec) }
func (fi *fileInfo) IsDir() bool         { return fi.meta.IsDir() }
func (fi *fileInfo) Sys() interface{}    { return fi.meta }

// dirEntry adapts a directory listing row to iofs.DirEntry, generalized
// from filesystem/ext4/ext4.go's directoryEntryInfo.
type dirEntry struct {
	name string
	meta *Metadata
}

func (d *dirEntry) Name() string       { return d.name }
func (d *dirEntry) IsDir() bool        { return d.meta.IsDir() }
func (d *dirEntry) Type() iofs.FileMode { return d.meta.FileMode().Type() }
func (d *dirEntry) Info() (iofs.FileInfo, error) {
	return &fileInfo{name: d.name, meta: d.meta}, nil
}

// Stat resolves path — following a terminal symlink, as os.Stat does —
// and returns an iofs.FileInfo, the shape filesystem/ext4/ext4.go's
// Stat returns, so this package can back iofs.StatFS through IOFS.
func (fs *FileSystem) Stat(path string) (iofs.FileInfo, error) {
	in, err := fs.resolve(path)
	if err != nil {
		return nil, err
	}
	return &fileInfo{name: baseName(path), meta: metadataFromInode(in)}, nil
}

// OpenFile implements the teacher's filesystem.FileSystem.OpenFile
// shape (filesystem/ext4/ext4.go's OpenFile): only a pure read-only
// flag combination is accepted, since the volume this package mounts
// is never writable.
func (fs *FileSystem) OpenFile(path string, flag int) (*FileReader, error) {
	if flag&^os.O_RDONLY != 0 {
		return nil, newErrReadOnlyFilesystem("open")
	}
	return fs.Open(path)
}

// IOFS adapts a mounted FileSystem to io/fs.FS, plus the StatFS and
// ReadDirFS extension interfaces, generalized from
// filesystem/ext4/ext4.go's Open/OpenFile/Stat/ReadDir so the
// read-only core can be driven by fs.WalkDir, fs.Glob, and other
// io/fs-shaped tooling without the caller working in ext2 path
// semantics at all.
type IOFS struct {
	fs *FileSystem
}

// AsIOFS wraps volume for io/fs consumption.
func AsIOFS(volume *FileSystem) *IOFS { return &IOFS{fs: volume} }

var (
	_ iofs.FS        = (*IOFS)(nil)
	_ iofs.StatFS    = (*IOFS)(nil)
	_ iofs.ReadDirFS = (*IOFS)(nil)
)

func ioFSPath(name string) (string, error) {
	if !iofs.ValidPath(name) {
		return "", &iofs.PathError{Op: "open", Path: name, Err: iofs.ErrInvalid}
	}
	if name == "." {
		return "/", nil
	}
	return "/" + name, nil
}

// Open implements iofs.FS. Directories are refused, matching the
// underlying FileSystem.Open contract; fs.WalkDir never needs it for
// directories once ReadDirFS is implemented.
func (i *IOFS) Open(name string) (iofs.File, error) {
	p, err := ioFSPath(name)
	if err != nil {
		return nil, err
	}
	f, err := i.fs.Open(p)
	if err != nil {
		return nil, &iofs.PathError{Op: "open", Path: name, Err: err}
	}
	return ioFSReader{f}, nil
}

// ioFSReader ends a FileReader's stream with io.EOF, as io/fs.File
// readers must, instead of the zero-length read FileReader.Read
// returns past end-of-file.
type ioFSReader struct{ *FileReader }

func (r ioFSReader) Read(buf []byte) (int, error) {
	n, err := r.FileReader.Read(buf)
	if n == 0 && err == nil && len(buf) > 0 {
		return 0, io.EOF
	}
	return n, err
}

// Stat implements iofs.StatFS.
func (i *IOFS) Stat(name string) (iofs.FileInfo, error) {
	p, err := ioFSPath(name)
	if err != nil {
		return nil, err
	}
	info, err := i.fs.Stat(p)
	if err != nil {
		return nil, &iofs.PathError{Op: "stat", Path: name, Err: err}
	}
	return info, nil
}

// ReadDir implements iofs.ReadDirFS, skipping "." and ".." the way
// filesystem/ext4/ext4.go's ReadDir does.
func (i *IOFS) ReadDir(name string) ([]iofs.DirEntry, error) {
	p, err := ioFSPath(name)
	if err != nil {
		return nil, err
	}
	entries, err := i.fs.SortedReadDir(p)
	if err != nil {
		return nil, &iofs.PathError{Op: "readdir", Path: name, Err: err}
	}
	out := make([]iofs.DirEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name == "." || e.Name == ".." {
			continue
		}
		in, err := i.fs.readInode(e.InodeNum)
		if err != nil {
			return nil, &iofs.PathError{Op: "readdir", Path: name, Err: err}
		}
		out = append(out, &dirEntry{name: e.Name, meta: metadataFromInode(in)})
	}
	return out, nil
}
