package ext2

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const groupDescriptorSize = 32

// groupDescriptor mirrors a 32-byte ext2 block-group descriptor,
// grounded on original_source/src/group.rs. Only InodeTable is
// consumed by traversal; the rest is decoded for reporting through
// FileSystem.Groups (the df subcommand prints only volume-wide totals).
type groupDescriptor struct {
	BlockBitmap     uint32
	InodeBitmap     uint32
	InodeTable      uint32
	FreeBlocksCount uint16
	FreeInodesCount uint16
	UsedDirsCount   uint16

	// derived
	groupIndex    int64
	firstInodeNum int64
}

// groupDescriptorTableFromBytes decodes groupsCount consecutive
// 32-byte descriptors out of b.
func groupDescriptorTableFromBytes(b []byte, groupsCount, inodesPerGroup int64) ([]*groupDescriptor, error) {
	table := make([]*groupDescriptor, groupsCount)
	for i := int64(0); i < groupsCount; i++ {
		start := i * groupDescriptorSize
		end := start + groupDescriptorSize
		if end > int64(len(b)) {
			return nil, newUnexpectedEOFError(int(end), len(b))
		}
		gd, err := groupDescriptorFromBytes(b[start:end])
		if err != nil {
			return nil, fmt.Errorf("group descriptor %d: %w", i, err)
		}
		gd.groupIndex = i
		gd.firstInodeNum = i*inodesPerGroup + 1
		table[i] = gd
	}
	return table, nil
}

func groupDescriptorFromBytes(b []byte) (*groupDescriptor, error) {
	r := bytes.NewReader(b)
	gd := &groupDescriptor{}
	fields := []interface{}{
		&gd.BlockBitmap, &gd.InodeBitmap, &gd.InodeTable,
		&gd.FreeBlocksCount, &gd.FreeInodesCount, &gd.UsedDirsCount,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, err
		}
	}
	return gd, nil
}

// groupDescriptorTableOffset returns the block at which the group
// descriptor table begins: block 2 when the block size is 1024,
// otherwise block 1 (spec §4.3).
func groupDescriptorTableOffset(blockSize int64) int64 {
	if blockSize == 1024 {
		return 2
	}
	return 1
}
