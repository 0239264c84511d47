// Command ext2tool is a small inspection toolbox over a read-only
// ext2 image: cat, hex-dump, list, stat, and a free-space report. It
// is an external collaborator of the core engine in
// github.com/andreax79/go-ext2fs/ext2 and binds to its façade
// operations; none of the logic here belongs to the core.
package main

import "os"

func main() {
	os.Exit(run())
}
