package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreax79/go-ext2fs/ext2"
)

func fileTypeName(meta *ext2.Metadata) string {
	switch {
	case meta.IsDir():
		return "directory"
	case meta.IsSymlink():
		return "symbolic link"
	case meta.IsRegular():
		return "regular file"
	default:
		return "special file"
	}
}

var statCmd = &cobra.Command{
	Use:   "stat <image> <path>",
	Short: "Display file status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, path := args[0], args[1]
		volume, err := mountArg(image)
		if err != nil {
			return cmdError("stat", path, err)
		}
		meta, err := volume.SymlinkMetadata(path)
		if err != nil {
			return cmdError("stat", path, err)
		}
		fmt.Printf("  File: %s\n", path)
		fmt.Printf("  Size: %-14d  Blocks: %-9d  IO Block: %-8d %s\n",
			meta.Size, meta.Blocks, meta.Blksize, fileTypeName(meta))
		fmt.Printf("Device: %04xh/%-6dd   Inode: %-10d  Links: %d\n",
			meta.Dev, meta.Dev, meta.Ino, meta.Nlink)
		fmt.Printf("Access: (%04o/%s)  Uid: (%d)   Gid: (%d)\n",
			meta.Mode&0o7777, meta.FileMode().String(), meta.UID, meta.GID)
		fmt.Printf("Access: %s\n", formatTime(meta.Atime))
		fmt.Printf("Modify: %s\n", formatTime(meta.Mtime))
		fmt.Printf("Change: %s\n", formatTime(meta.Ctime))
		return nil
	},
}
