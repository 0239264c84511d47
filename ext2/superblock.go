package ext2

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/google/uuid"
)

const (
	superblockOffset = 1024
	superblockSize   = 1024
	ext2Magic        = 0xEF53

	featureIncompatFiletype = 0x0002
)

// superblock holds the decoded ext2 superblock, consumed for
// traversal (s_inodes_count, s_blocks_count, s_free_blocks_count,
// s_first_data_block, s_log_block_size, s_blocks_per_group,
// s_inodes_per_group, s_magic, s_inode_size) plus a handful of fields
// decoded only for reporting, mirrored from the on-disk layout in
// original_source/src/ext2/superblock.rs.
type superblock struct {
	InodesCount      uint32
	BlocksCount      uint32
	RBlocksCount     uint32
	FreeBlocksCount  uint32
	FreeInodesCount  uint32
	FirstDataBlock   uint32
	LogBlockSize     uint32
	LogFragSize      uint32
	BlocksPerGroup   uint32
	FragsPerGroup    uint32
	InodesPerGroup   uint32
	Mtime            uint32
	Wtime            uint32
	MntCount         uint16
	MaxMntCount      uint16
	Magic            uint16
	State            uint16
	Errors           uint16
	MinorRevLevel    uint16
	Lastcheck        uint32
	Checkinterval    uint32
	CreatorOS        uint32
	RevLevel         uint32
	DefResuid        uint16
	DefResgid        uint16
	FirstIno         uint32
	InodeSize        uint16
	BlockGroupNr     uint16
	FeatureCompat    uint32
	FeatureIncompat  uint32
	FeatureROCompat  uint32
	UUID             uuid.UUID
	VolumeName       string
	LastMounted      string
	AlgorithmUsageBM uint32

	// derived
	BlockSize   int64
	GroupsCount int64
}

// superblockFromBytes parses a 1024-byte buffer read from absolute
// offset 1024, validating the magic number. Every scalar is read
// field-by-field with encoding/binary, never via a reinterpreted
// struct cast, because the input is untrusted (spec §9).
func superblockFromBytes(b []byte) (*superblock, error) {
	if len(b) < superblockSize {
		return nil, newUnexpectedEOFError(superblockSize, len(b))
	}
	r := bytes.NewReader(b)
	sb := &superblock{}

	fields := []struct {
		ptr interface{}
	}{
		{&sb.InodesCount}, {&sb.BlocksCount}, {&sb.RBlocksCount},
		{&sb.FreeBlocksCount}, {&sb.FreeInodesCount}, {&sb.FirstDataBlock},
		{&sb.LogBlockSize}, {&sb.LogFragSize}, {&sb.BlocksPerGroup},
		{&sb.FragsPerGroup}, {&sb.InodesPerGroup}, {&sb.Mtime}, {&sb.Wtime},
		{&sb.MntCount}, {&sb.MaxMntCount}, {&sb.Magic}, {&sb.State},
		{&sb.Errors}, {&sb.MinorRevLevel}, {&sb.Lastcheck}, {&sb.Checkinterval},
		{&sb.CreatorOS}, {&sb.RevLevel}, {&sb.DefResuid}, {&sb.DefResgid},
		{&sb.FirstIno}, {&sb.InodeSize}, {&sb.BlockGroupNr}, {&sb.FeatureCompat},
		{&sb.FeatureIncompat}, {&sb.FeatureROCompat},
	}
	for _, f := range fields {
		if err := binary.Read(r, binary.LittleEndian, f.ptr); err != nil {
			return nil, fmt.Errorf("reading superblock: %w", err)
		}
	}

	var rawUUID [16]byte
	if err := binary.Read(r, binary.LittleEndian, &rawUUID); err != nil {
		return nil, fmt.Errorf("reading superblock uuid: %w", err)
	}
	sb.UUID = uuid.UUID(rawUUID)

	var rawVolumeName [16]byte
	if err := binary.Read(r, binary.LittleEndian, &rawVolumeName); err != nil {
		return nil, fmt.Errorf("reading superblock volume name: %w", err)
	}
	sb.VolumeName = nullTerminatedString(rawVolumeName[:])

	var rawLastMounted [64]byte
	if err := binary.Read(r, binary.LittleEndian, &rawLastMounted); err != nil {
		return nil, fmt.Errorf("reading superblock last-mounted path: %w", err)
	}
	sb.LastMounted = nullTerminatedString(rawLastMounted[:])

	if err := binary.Read(r, binary.LittleEndian, &sb.AlgorithmUsageBM); err != nil {
		return nil, fmt.Errorf("reading superblock: %w", err)
	}

	if sb.Magic != ext2Magic {
		return nil, newInvalidFilesystemError(fmt.Sprintf("bad magic %#04x, want %#04x", sb.Magic, ext2Magic))
	}

	// Revision 0 superblocks have no dynamic fields; inode size is
	// always 128 and s_first_ino is meaningless, matching the
	// always-128 assumption in original_source/src/superblock.rs.
	if sb.RevLevel == 0 {
		sb.InodeSize = 128
		sb.FirstIno = 11
	}

	sb.BlockSize = 1024 << sb.LogBlockSize
	sb.GroupsCount = ceilDiv(int64(sb.BlocksCount), int64(sb.BlocksPerGroup))
	return sb, nil
}

// supportsFileType reports whether directory entries on this volume
// carry a valid file_type byte (EXT2_FEATURE_INCOMPAT_FILETYPE).
func (sb *superblock) supportsFileType() bool {
	return sb.FeatureIncompat&featureIncompatFiletype != 0
}

func nullTerminatedString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}

func ceilDiv(a, b int64) int64 {
	if b == 0 {
		return 0
	}
	return (a + b - 1) / b
}
