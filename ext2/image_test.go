package ext2

import (
	"encoding/binary"
)

// This file builds a minimal, valid, 1-MiB ext2 image entirely in
// memory, byte-by-byte, following the exact field layouts this
// package decodes. No genmkfs-equivalent tool is available in this
// module's dependency closure (nor may the Go toolchain run to build
// one), so integration tests construct their fixture the same way the
// package under test would interpret it — the approach the teacher's
// own ext4 integration tests take (building then reading back a
// filesystem they assembled themselves).

const (
	testBlockSize      = 1024
	testImageBlocks    = 1024 // 1 MiB
	testInodeSize      = 128
	testInodesCount    = 128
	testInodeTableSize = 16 // blocks: ceil(128*128/1024)

	testGroupDescBlock = 2
	testBlockBitmap    = 3
	testInodeBitmap    = 4
	testInodeTable     = 5                          // blocks 5..20
	testFirstDataBlock = testInodeTable + testInodeTableSize // 21

	rootInode       = 2
	lostFoundInode  = 11
	etcDirInode     = 12
	hostnameInode   = 13
	linkInode       = 14
)

// imageBuilder assembles the image in a flat byte slice and hands out
// data blocks from a bump allocator starting at testFirstDataBlock.
type imageBuilder struct {
	buf      []byte
	nextData int64
}

func newImageBuilder() *imageBuilder {
	return &imageBuilder{
		buf:      make([]byte, testImageBlocks*testBlockSize),
		nextData: testFirstDataBlock,
	}
}

func (b *imageBuilder) allocBlock() int64 {
	n := b.nextData
	b.nextData++
	return n
}

func (b *imageBuilder) blockBytes(blockNum int64) []byte {
	start := blockNum * testBlockSize
	return b.buf[start : start+testBlockSize]
}

func (b *imageBuilder) putU16(blockNum, off int64, v uint16) {
	binary.LittleEndian.PutUint16(b.blockBytes(blockNum)[off:], v)
}

func (b *imageBuilder) putU32(blockNum, off int64, v uint32) {
	binary.LittleEndian.PutUint32(b.blockBytes(blockNum)[off:], v)
}

// writeSuperblock writes the superblock at byte offset 1024 (block 1
// at block_size 1024).
func (b *imageBuilder) writeSuperblock() {
	sb := b.blockBytes(1)
	le := binary.LittleEndian
	le.PutUint32(sb[0:], testInodesCount)                  // s_inodes_count
	le.PutUint32(sb[4:], testImageBlocks)                  // s_blocks_count
	le.PutUint32(sb[8:], 0)                                // s_r_blocks_count
	le.PutUint32(sb[12:], uint32(testImageBlocks-b.nextData)) // s_free_blocks_count (blocks past the allocator)
	le.PutUint32(sb[16:], 0)                               // s_free_inodes_count
	le.PutUint32(sb[20:], 1)                               // s_first_data_block (block size 1024)
	le.PutUint32(sb[24:], 0)                               // s_log_block_size -> 1024<<0
	le.PutUint32(sb[28:], 0)                               // s_log_frag_size
	le.PutUint32(sb[32:], testImageBlocks)                 // s_blocks_per_group (single group)
	le.PutUint32(sb[36:], testImageBlocks)                 // s_frags_per_group
	le.PutUint32(sb[40:], testInodesCount)                 // s_inodes_per_group
	le.PutUint32(sb[44:], 0)                               // s_mtime
	le.PutUint32(sb[48:], 0)                               // s_wtime
	le.PutUint16(sb[52:], 0)                               // s_mnt_count
	le.PutUint16(sb[54:], 0xFFFF)                          // s_max_mnt_count
	le.PutUint16(sb[56:], ext2Magic)                       // s_magic
	le.PutUint16(sb[58:], 1)                               // s_state
	le.PutUint16(sb[60:], 0)                               // s_pad (errors behavior)
	le.PutUint16(sb[62:], 0)                               // s_minor_rev_level
	le.PutUint32(sb[64:], 0)                               // s_lastcheck
	le.PutUint32(sb[68:], 0)                               // s_checkinterval
	le.PutUint32(sb[72:], 0)                               // s_creator_os
	le.PutUint32(sb[76:], 1)                               // s_rev_level (dynamic, so InodeSize below is honored)
	le.PutUint16(sb[80:], 0)                               // s_def_resuid
	le.PutUint16(sb[82:], 0)                               // s_def_resgid
	le.PutUint32(sb[84:], 11)                              // s_first_ino
	le.PutUint16(sb[88:], testInodeSize)                   // s_inode_size
	le.PutUint16(sb[90:], 0)                               // s_block_group_nr
	le.PutUint32(sb[92:], 0)                                // s_feature_compat
	le.PutUint32(sb[96:], featureIncompatFiletype)          // s_feature_incompat
	le.PutUint32(sb[100:], 0)                               // s_feature_ro_compat
	copy(sb[104:120], make([]byte, 16))                     // s_uuid
	copy(sb[120:136], []byte("test-volume\x00\x00\x00\x00\x00"))
}

func (b *imageBuilder) setFreeBlocksCount(n uint32) {
	b.putU32(1, 12, n)
}

// writeGroupDescriptor writes the single group descriptor at block 2.
func (b *imageBuilder) writeGroupDescriptor() {
	gd := b.blockBytes(testGroupDescBlock)
	le := binary.LittleEndian
	le.PutUint32(gd[0:], testBlockBitmap)
	le.PutUint32(gd[4:], testInodeBitmap)
	le.PutUint32(gd[8:], testInodeTable)
	le.PutUint16(gd[12:], 0) // free_blocks_count
	le.PutUint16(gd[14:], 0) // free_inodes_count
	le.PutUint16(gd[16:], 3) // used_dirs_count: root, lost+found, etc
}

// inodeByteOffset returns (blockNum, byteOffsetWithinBlock) for inode n.
func inodeByteOffset(n int64) (int64, int64) {
	idx := n - 1
	byteOff := idx * testInodeSize
	return testInodeTable + byteOff/testBlockSize, byteOff % testBlockSize
}

type testInodeSpec struct {
	num        int64
	mode       uint16
	size       uint32
	linksCount uint16
	mtime      uint32
	blocks     []int64 // direct block numbers (<=12 for these fixtures)
}

func (b *imageBuilder) writeInode(spec testInodeSpec) {
	blockNum, off := inodeByteOffset(spec.num)
	buf := b.blockBytes(blockNum)
	le := binary.LittleEndian
	p := off
	le.PutUint16(buf[p:], spec.mode)
	p += 2
	le.PutUint16(buf[p:], 0) // uid
	p += 2
	le.PutUint32(buf[p:], spec.size)
	p += 4
	le.PutUint32(buf[p:], 0) // atime
	p += 4
	le.PutUint32(buf[p:], 0) // ctime
	p += 4
	le.PutUint32(buf[p:], spec.mtime)
	p += 4
	le.PutUint32(buf[p:], 0) // dtime
	p += 4
	le.PutUint16(buf[p:], 0) // gid
	p += 2
	le.PutUint16(buf[p:], spec.linksCount)
	p += 2
	le.PutUint32(buf[p:], 0) // i_blocks (sector count, unused by these tests)
	p += 4
	le.PutUint32(buf[p:], 0) // flags
	p += 4
	le.PutUint32(buf[p:], 0) // reserved1
	p += 4
	for i := 0; i < numBlockSlots; i++ {
		var v uint32
		if i < len(spec.blocks) {
			v = uint32(spec.blocks[i])
		}
		le.PutUint32(buf[p:], v)
		p += 4
	}
	// generation, file_acl, size_high/dir_acl, frag fields, uid/gid
	// high, reserved2 are left zero for these fixtures.
}

// writeShortSymlinkInode writes a symlink inode whose target is
// stored in-place inside the pointer array, byte-by-byte.
func (b *imageBuilder) writeShortSymlinkInode(num int64, target string) {
	blockNum, off := inodeByteOffset(num)
	buf := b.blockBytes(blockNum)
	le := binary.LittleEndian
	le.PutUint16(buf[off:], modeTypeSymlink|0o777)
	le.PutUint32(buf[off+4:], uint32(len(target)))
	le.PutUint16(buf[off+26:], 1) // links_count
	copy(buf[off+40:off+40+int64(len(target))], target)
}

type dirEntSpec struct {
	inodeNum uint32
	name     string
	fileType uint8
}

// writeDirectoryBlock lays out dirEntSpec entries sequentially into
// one block, with the final entry's rec_len extended to the end of
// the block (standard ext2 directory packing).
func (b *imageBuilder) writeDirectoryBlock(blockNum int64, entries []dirEntSpec) {
	buf := b.blockBytes(blockNum)
	off := 0
	for i, e := range entries {
		nameLen := len(e.name)
		recLen := dirEntryHeaderSize + nameLen
		recLen = (recLen + 3) &^ 3 // 4-byte align
		if i == len(entries)-1 {
			recLen = testBlockSize - off
		}
		binary.LittleEndian.PutUint32(buf[off:], e.inodeNum)
		binary.LittleEndian.PutUint16(buf[off+4:], uint16(recLen))
		buf[off+6] = uint8(nameLen)
		buf[off+7] = e.fileType
		copy(buf[off+8:off+8+nameLen], e.name)
		off += recLen
	}
}

// buildTestImage assembles the 1-MiB fixture used by the integration
// tests: a root directory containing "lost+found" and "etc", "etc"
// containing a "hostname" file with content "hello\n", and a root-level
// symlink "link" -> "/etc/hostname".
func buildTestImage() []byte {
	b := newImageBuilder()

	rootBlock := b.allocBlock()
	lostFoundBlock := b.allocBlock()
	etcBlock := b.allocBlock()
	hostnameBlock := b.allocBlock()

	hostnameContent := "hello\n"
	copy(b.blockBytes(hostnameBlock), hostnameContent)

	b.writeDirectoryBlock(rootBlock, []dirEntSpec{
		{inodeNum: rootInode, name: ".", fileType: dirFileTypeDir},
		{inodeNum: rootInode, name: "..", fileType: dirFileTypeDir},
		{inodeNum: lostFoundInode, name: "lost+found", fileType: dirFileTypeDir},
		{inodeNum: etcDirInode, name: "etc", fileType: dirFileTypeDir},
		{inodeNum: linkInode, name: "link", fileType: dirFileTypeSymlink},
	})
	b.writeDirectoryBlock(lostFoundBlock, []dirEntSpec{
		{inodeNum: lostFoundInode, name: ".", fileType: dirFileTypeDir},
		{inodeNum: rootInode, name: "..", fileType: dirFileTypeDir},
	})
	b.writeDirectoryBlock(etcBlock, []dirEntSpec{
		{inodeNum: etcDirInode, name: ".", fileType: dirFileTypeDir},
		{inodeNum: rootInode, name: "..", fileType: dirFileTypeDir},
		{inodeNum: hostnameInode, name: "hostname", fileType: dirFileTypeRegular},
	})

	b.writeInode(testInodeSpec{num: rootInode, mode: modeTypeDir | 0o755, size: testBlockSize, linksCount: 3, blocks: []int64{rootBlock}})
	b.writeInode(testInodeSpec{num: lostFoundInode, mode: modeTypeDir | 0o700, size: testBlockSize, linksCount: 2, blocks: []int64{lostFoundBlock}})
	b.writeInode(testInodeSpec{num: etcDirInode, mode: modeTypeDir | 0o755, size: testBlockSize, linksCount: 2, blocks: []int64{etcBlock}})
	b.writeInode(testInodeSpec{
		num: hostnameInode, mode: modeTypeRegular | 0o644, size: uint32(len(hostnameContent)),
		linksCount: 1, blocks: []int64{hostnameBlock},
	})
	b.writeShortSymlinkInode(linkInode, "/etc/hostname")

	b.writeGroupDescriptor()
	b.setFreeBlocksCount(uint32(testImageBlocks - b.nextData))
	b.writeSuperblock()

	return b.buf
}

// buildHoleImage builds an image holding a single 1-block file whose
// only data block is a hole (block pointer 0), used to test zero-fill
// behavior.
func buildHoleImage() []byte {
	b := newImageBuilder()
	b.writeInode(testInodeSpec{num: rootInode, mode: modeTypeDir | 0o755, size: testBlockSize, linksCount: 2, blocks: []int64{b.allocBlock()}})
	b.writeDirectoryBlock(testFirstDataBlock, []dirEntSpec{
		{inodeNum: rootInode, name: ".", fileType: dirFileTypeDir},
		{inodeNum: rootInode, name: "..", fileType: dirFileTypeDir},
		{inodeNum: hostnameInode, name: "holey", fileType: dirFileTypeRegular},
	})
	// A 1-block file whose only pointer is 0: a hole.
	b.writeInode(testInodeSpec{num: hostnameInode, mode: modeTypeRegular | 0o644, size: testBlockSize, linksCount: 1, blocks: []int64{0}})

	b.writeGroupDescriptor()
	b.setFreeBlocksCount(uint32(testImageBlocks - b.nextData))
	b.writeSuperblock()
	return b.buf
}

// buildBadMagicImage returns an otherwise-zeroed 1-MiB buffer whose
// superblock magic is wrong.
func buildBadMagicImage() []byte {
	return make([]byte, testImageBlocks*testBlockSize)
}
