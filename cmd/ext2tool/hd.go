package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andreax79/go-ext2fs/util"
)

var hdCmd = &cobra.Command{
	Use:   "hd <image> <path>",
	Short: "Hex-dump the contents of a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, path := args[0], args[1]
		fs, err := mountArg(image)
		if err != nil {
			return cmdError("hd", path, err)
		}
		content, err := fs.Read(path)
		if err != nil {
			return cmdError("hd", path, err)
		}
		fmt.Print(util.DumpByteSlice(content, 16, true, true, false, nil))
		return nil
	},
}
