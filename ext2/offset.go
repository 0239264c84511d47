package ext2

// offset is a tagged variant describing how a byte position on the
// backing device is computed, grounded on the Offset enum of the
// original ext2 reader: a whole block, or a block plus a byte delta.
// Modeling it this way keeps callers expressing intent (block N, or
// N bytes into block group descriptor M) rather than raw arithmetic.
type offset struct {
	blockSize    int64
	blockNum     int64
	baseBlockNum int64
	delta        int64
	isDelta      bool
}

// blockOffset addresses the start of block blockNum.
func blockOffset(blockSize, blockNum int64) offset {
	return offset{blockSize: blockSize, blockNum: blockNum}
}

// blockDeltaOffset addresses delta bytes into baseBlockNum.
func blockDeltaOffset(blockSize, baseBlockNum, delta int64) offset {
	return offset{blockSize: blockSize, baseBlockNum: baseBlockNum, delta: delta, isDelta: true}
}

func (o offset) bytes() int64 {
	if o.isDelta {
		return o.baseBlockNum*o.blockSize + o.delta
	}
	return o.blockNum * o.blockSize
}
