package ext2

import (
	"testing"

	"github.com/go-test/deep"
)

func TestSuperblockFromBytes(t *testing.T) {
	img := buildTestImage()
	sb, err := superblockFromBytes(img[superblockOffset : superblockOffset+superblockSize])
	if err != nil {
		t.Fatalf("superblockFromBytes() failed: %v", err)
	}
	if sb.Magic != ext2Magic {
		t.Errorf("Magic = %#04x, want %#04x", sb.Magic, ext2Magic)
	}
	if sb.BlockSize != 1024 {
		t.Errorf("BlockSize = %d, want 1024", sb.BlockSize)
	}
	if sb.GroupsCount != 1 {
		t.Errorf("GroupsCount = %d, want 1", sb.GroupsCount)
	}
	if sb.InodeSize != testInodeSize {
		t.Errorf("InodeSize = %d, want %d", sb.InodeSize, testInodeSize)
	}
	if !sb.supportsFileType() {
		t.Error("supportsFileType() = false, want true")
	}
}

func TestSuperblockFromBytesBadMagic(t *testing.T) {
	img := buildBadMagicImage()
	_, err := superblockFromBytes(img[superblockOffset : superblockOffset+superblockSize])
	if _, ok := err.(*InvalidFilesystemError); !ok {
		t.Errorf("error = %T(%v), want *InvalidFilesystemError", err, err)
	}
}

func TestGroupDescriptorTableOffset(t *testing.T) {
	tests := []struct {
		blockSize int64
		want      int64
	}{
		{1024, 2},
		{2048, 1},
		{4096, 1},
	}
	for _, tt := range tests {
		if got := groupDescriptorTableOffset(tt.blockSize); got != tt.want {
			t.Errorf("groupDescriptorTableOffset(%d) = %d, want %d", tt.blockSize, got, tt.want)
		}
	}
}

// TestRawInodeFromBytesDeterministic checks that decoding the same
// inode record twice yields field-for-field identical structs, using
// deep.Equal for a readable diff on failure (teacher's
// superblock_test.go style).
func TestRawInodeFromBytesDeterministic(t *testing.T) {
	img := buildTestImage()
	blockNum, blockOff := inodeByteOffset(hostnameInode)
	off := blockNum*testBlockSize + blockOff
	raw := img[off : off+testInodeSize]

	first, err := rawInodeFromBytes(raw)
	if err != nil {
		t.Fatalf("rawInodeFromBytes() failed: %v", err)
	}
	second, err := rawInodeFromBytes(raw)
	if err != nil {
		t.Fatalf("rawInodeFromBytes() failed: %v", err)
	}
	if diff := deep.Equal(first, second); diff != nil {
		t.Errorf("rawInodeFromBytes() not deterministic: %v", diff)
	}
}

func TestCeilDiv(t *testing.T) {
	tests := []struct{ a, b, want int64 }{
		{1024, 1024, 1},
		{1025, 1024, 2},
		{0, 1024, 0},
		{2048, 1024, 2},
	}
	for _, tt := range tests {
		if got := ceilDiv(tt.a, tt.b); got != tt.want {
			t.Errorf("ceilDiv(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
