package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var (
	lsLong  bool
	lsInode bool
	lsSize  bool
)

var lsCmd = &cobra.Command{
	Use:   "ls <image> [path]",
	Short: "List directory contents",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		path := "/"
		if len(args) == 2 {
			path = args[1]
		}
		volume, err := mountArg(image)
		if err != nil {
			return cmdError("ls", path, err)
		}
		entries, err := volume.SortedReadDir(path)
		if err != nil {
			return cmdError("ls", path, err)
		}
		if lsLong || lsInode || lsSize {
			fmt.Println("  Inode    Mode    Link   Uid   Gid     Size Last modification   File name")
			fmt.Println("---------------------------------------------------------------------------")
		}
		for _, entry := range entries {
			if !lsLong && !lsInode && !lsSize {
				fmt.Println(entry.Name)
				continue
			}
			meta, err := volume.SymlinkMetadata(entry.Path)
			if err != nil {
				return cmdError("ls", entry.Path, err)
			}
			suffix := ""
			if meta.IsSymlink() {
				target, err := volume.ReadLink(entry.Path)
				if err != nil {
					return cmdError("ls", entry.Path, err)
				}
				suffix = " -> " + target
			}
			fmt.Printf("%7d %10s %4d %5d %5d %8d %19s %s%s\n",
				entry.InodeNum,
				meta.FileMode().String(),
				meta.Nlink,
				meta.UID,
				meta.GID,
				meta.Size,
				formatTime(meta.Mtime),
				entry.Name,
				suffix,
			)
		}
		return nil
	},
}

func formatTime(sec int64) string {
	return time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05")
}

func init() {
	lsCmd.Flags().BoolVarP(&lsLong, "long", "l", false, "use a long listing format")
	lsCmd.Flags().BoolVarP(&lsInode, "inode", "i", false, "print the inode number of each file")
	lsCmd.Flags().BoolVarP(&lsSize, "size", "s", false, "print the size of each file")
}
