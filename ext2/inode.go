package ext2

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Classic ext2 i_block layout: 12 direct pointers, then singly,
// doubly, and triply indirect index-block pointers.
const (
	numDirectBlocks = 12
	indBlockIndex   = numDirectBlocks
	dindBlockIndex  = indBlockIndex + 1
	tindBlockIndex  = dindBlockIndex + 1
	numBlockSlots   = tindBlockIndex + 1 // 15

	blockPointerSize = 4 // bytes per block number
	iBlockBytes      = numBlockSlots * blockPointerSize

	modeFormatMask  = 0xF000
	modeTypeFifo    = 0x1000
	modeTypeChar    = 0x2000
	modeTypeDir     = 0x4000
	modeTypeBlock   = 0x6000
	modeTypeRegular = 0x8000
	modeTypeSymlink = 0xA000
	modeTypeSocket  = 0xC000
)

// rawInode is the on-disk inode record, decoded field-by-field with
// encoding/binary (never via a reinterpret cast — the input is
// untrusted per spec §9), grounded on
// original_source/src/ext2/inode.rs's Ext2InodeStruct layout.
type rawInode struct {
	Mode        uint16
	UID         uint16
	SizeLow     uint32
	Atime       uint32
	Ctime       uint32
	Mtime       uint32
	Dtime       uint32
	GID         uint16
	LinksCount  uint16
	Blocks      uint32
	Flags       uint32
	Reserved1   uint32
	IBlock      [numBlockSlots]uint32
	Generation  uint32
	FileACL     uint32
	SizeHighDir uint32 // i_size_high for regular files, i_dir_acl for directories
	FragAddr    uint32
	FragNum     uint8
	FragSize    uint8
	Pad1        uint16
	UIDHigh     uint16
	GIDHigh     uint16
	Reserved2   uint32
}

func rawInodeFromBytes(b []byte) (*rawInode, error) {
	r := bytes.NewReader(b)
	ri := &rawInode{}
	fields := []interface{}{
		&ri.Mode, &ri.UID, &ri.SizeLow, &ri.Atime, &ri.Ctime, &ri.Mtime,
		&ri.Dtime, &ri.GID, &ri.LinksCount, &ri.Blocks, &ri.Flags,
		&ri.Reserved1, &ri.IBlock, &ri.Generation, &ri.FileACL,
		&ri.SizeHighDir, &ri.FragAddr, &ri.FragNum, &ri.FragSize, &ri.Pad1,
		&ri.UIDHigh, &ri.GIDHigh, &ri.Reserved2,
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("reading inode: %w", err)
		}
	}
	return ri, nil
}

func (ri *rawInode) fileType() uint16 {
	return ri.Mode & modeFormatMask
}

func (ri *rawInode) isDir() bool     { return ri.fileType() == modeTypeDir }
func (ri *rawInode) isRegular() bool { return ri.fileType() == modeTypeRegular }
func (ri *rawInode) isSymlink() bool { return ri.fileType() == modeTypeSymlink }

// size returns the inode's byte size: the combined 64-bit value for
// regular files (i_size | i_size_high<<32), i_size alone otherwise
// (spec §3).
func (ri *rawInode) size() uint64 {
	if ri.isRegular() {
		return uint64(ri.SizeLow) | uint64(ri.SizeHighDir)<<32
	}
	return uint64(ri.SizeLow)
}

// inode is the decoded inode handle: (inode_num, raw_inode_fields,
// block_size, inode_size, size_in_bytes, data_blocks_count) per spec §3.
type inode struct {
	num             uint32
	raw             *rawInode
	blockSize       int64
	inodeSize       int64
	size            uint64
	dataBlocksCount int64
}

// readInode reads inode number n, computing its byte offset via the
// §3 invariant-3 formula: group g = (n-1)/inodesPerGroup, in-group
// index i = (n-1) mod inodesPerGroup, byte offset =
// group_descriptor[g].InodeTable*blockSize + i*inodeSize.
func readInode(dev *device, sb *superblock, groups []*groupDescriptor, n uint32) (*inode, error) {
	if n == 0 {
		return nil, newInvalidInputError("inode number 0 is not valid")
	}
	idx := int64(n) - 1
	groupIndex := idx / int64(sb.InodesPerGroup)
	inGroupIndex := idx % int64(sb.InodesPerGroup)
	if groupIndex < 0 || groupIndex >= int64(len(groups)) {
		return nil, newInvalidInputError(fmt.Sprintf("inode %d: group %d out of range", n, groupIndex))
	}
	group := groups[groupIndex]
	inodeSize := int64(sb.InodeSize)
	off := blockDeltaOffset(sb.BlockSize, int64(group.InodeTable), inGroupIndex*inodeSize)
	buf, err := dev.read(int(inodeSize), off)
	if err != nil {
		return nil, fmt.Errorf("reading inode %d: %w", n, err)
	}
	ri, err := rawInodeFromBytes(buf)
	if err != nil {
		return nil, err
	}
	sz := ri.size()
	dataBlocksCount := ceilDiv(int64(sz), sb.BlockSize)
	return &inode{
		num:             n,
		raw:             ri,
		blockSize:       sb.BlockSize,
		inodeSize:       inodeSize,
		size:            sz,
		dataBlocksCount: dataBlocksCount,
	}, nil
}
