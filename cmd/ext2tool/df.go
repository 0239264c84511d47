package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var dfCmd = &cobra.Command{
	Use:   "df <image>",
	Short: "Report free-space usage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image := args[0]
		volume, err := mountArg(image)
		if err != nil {
			return cmdError("df", image, err)
		}
		size := uint64(volume.BlocksCount()) * uint64(volume.BlockSize())
		avail := uint64(volume.FreeBlocksCount()) * uint64(volume.BlockSize())
		used := size - avail
		usePercent := 0.0
		if size > 0 {
			usePercent = 100 * float64(used) / float64(size)
		}
		fmt.Println("Filesystem                        Size     Used    Avail Use%")
		fmt.Printf("%-30s %8s %8s %8s %.0f%%\n",
			image,
			humanSize(size),
			humanSize(used),
			humanSize(avail),
			usePercent,
		)
		return nil
	},
}

// humanSize reports a byte count the way traditional df does: grouped
// by powers of 1024 (humanize.IBytes's binary math) but labeled with
// the decimal unit names (kB, MB, ...) df's short output uses instead
// of IBytes's KiB/MiB.
func humanSize(n uint64) string {
	s := humanize.IBytes(n)
	s = strings.ReplaceAll(s, "KiB", "kB")
	s = strings.ReplaceAll(s, "iB", "B")
	return s
}
