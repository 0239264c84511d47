package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var errIsADirectory = errors.New("is a directory")

var catCmd = &cobra.Command{
	Use:   "cat <image> <path>",
	Short: "Print the contents of a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, path := args[0], args[1]
		fs, err := mountArg(image)
		if err != nil {
			return cmdError("cat", path, err)
		}
		meta, err := fs.Metadata(path)
		if err != nil {
			return cmdError("cat", path, err)
		}
		if meta.IsDir() {
			return cmdError("cat", path, errIsADirectory)
		}
		content, err := fs.Read(path)
		if err != nil {
			return cmdError("cat", path, err)
		}
		if _, err := os.Stdout.Write(content); err != nil {
			return cmdError("cat", path, err)
		}
		return nil
	},
}
