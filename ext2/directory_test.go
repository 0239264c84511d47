package ext2

import "testing"

func TestDirEntryFromBytesInvalidUTF8(t *testing.T) {
	buf := make([]byte, dirEntryHeaderSize+4)
	buf[0] = 2 // inode num
	buf[4] = byte(len(buf))
	buf[6] = 4          // name_len
	buf[8] = 0xFF        // invalid UTF-8 byte
	buf[9], buf[10], buf[11] = 'a', 'b', 'c'

	_, _, err := dirEntryFromBytes(buf, 0)
	if _, ok := err.(*InvalidDataError); !ok {
		t.Errorf("dirEntryFromBytes() error = %T(%v), want *InvalidDataError", err, err)
	}
}

func TestDirEntryFromBytesRecLenOverrun(t *testing.T) {
	buf := make([]byte, dirEntryHeaderSize)
	buf[4] = 200 // rec_len beyond buffer
	_, _, err := dirEntryFromBytes(buf, 0)
	if _, ok := err.(*InvalidDataError); !ok {
		t.Errorf("dirEntryFromBytes() error = %T(%v), want *InvalidDataError", err, err)
	}
}

func TestJoinPath(t *testing.T) {
	tests := []struct{ parent, name, want string }{
		{"/", "etc", "/etc"},
		{"/etc", "hostname", "/etc/hostname"},
		{"", "etc", ""},
	}
	for _, tt := range tests {
		if got := joinPath(tt.parent, tt.name); got != tt.want {
			t.Errorf("joinPath(%q, %q) = %q, want %q", tt.parent, tt.name, got, tt.want)
		}
	}
}

// Round-trip property (spec §8): for every directory, the entries
// plus rec_len sum to exactly block_size per block.
func TestDirectoryBlockEntriesFillBlock(t *testing.T) {
	b := newImageBuilder()
	b.writeDirectoryBlock(testFirstDataBlock, []dirEntSpec{
		{inodeNum: 2, name: ".", fileType: dirFileTypeDir},
		{inodeNum: 2, name: "..", fileType: dirFileTypeDir},
		{inodeNum: 11, name: "lost+found", fileType: dirFileTypeDir},
	})
	buf := b.blockBytes(testFirstDataBlock)
	off := 0
	count := 0
	for off < len(buf) {
		_, recLen, err := dirEntryFromBytes(buf, off)
		if err != nil {
			t.Fatalf("dirEntryFromBytes at %d failed: %v", off, err)
		}
		off += recLen
		count++
	}
	if off != testBlockSize {
		t.Errorf("sum of rec_len = %d, want %d", off, testBlockSize)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
}
