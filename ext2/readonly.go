package ext2

// The volume this package mounts never writes. Every mutating
// operation a richer filesystem interface might expect is present
// only to satisfy such an interface and always fails, mirroring the
// teacher's filesystem.ErrReadonlyFilesystem shape (disk/error.go's
// sibling in filesystem/filesystem.go).

func (fs *FileSystem) Mkdir(string) error           { return newErrReadOnlyFilesystem("mkdir") }
func (fs *FileSystem) Mknod(string, uint32) error   { return newErrReadOnlyFilesystem("mknod") }
func (fs *FileSystem) Link(string, string) error    { return newErrReadOnlyFilesystem("link") }
func (fs *FileSystem) Symlink(string, string) error { return newErrReadOnlyFilesystem("symlink") }
func (fs *FileSystem) Chmod(string, uint32) error   { return newErrReadOnlyFilesystem("chmod") }
func (fs *FileSystem) Chown(string, int, int) error { return newErrReadOnlyFilesystem("chown") }
func (fs *FileSystem) Rename(string, string) error  { return newErrReadOnlyFilesystem("rename") }
func (fs *FileSystem) Remove(string) error          { return newErrReadOnlyFilesystem("remove") }
func (fs *FileSystem) SetLabel(string) error        { return newErrReadOnlyFilesystem("set label") }
