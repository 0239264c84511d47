package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/andreax79/go-ext2fs/ext2"
)

var rootCmd = &cobra.Command{
	Use:           "ext2tool <subcommand> <image> [args...]",
	Short:         "Inspect a read-only ext2 filesystem image",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func run() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func init() {
	rootCmd.AddCommand(catCmd, hdCmd, lsCmd, dfCmd, statCmd)
}

// mountArg mounts the image named by the first positional argument,
// reporting failures the way every subcommand's RunE wants to: a
// plain error the caller formats as "<command>: <path>: <message>".
func mountArg(image string) (*ext2.FileSystem, error) {
	return ext2.ReadFromPath(image)
}

func cmdError(command, path string, err error) error {
	return fmt.Errorf("%s: %s: %s", command, path, err)
}
