package ext2

// blockCache is a lookaside for read blocks, keyed by block number. It
// exists so indirect-pointer traversal does not re-read the same
// singly/doubly/triply indirect index block once per entry it
// contains. It never evicts. One instance is owned by a single
// block-number walk (a data-block iterator, or the walk newFileReader
// runs at open) and discarded with it; there is no cross-request cache,
// per the concurrency model (spec component 2).
type blockCache struct {
	dev       *device
	blockSize int64
	blocks    map[int64][]byte
}

func newBlockCache(dev *device, blockSize int64) *blockCache {
	return &blockCache{
		dev:       dev,
		blockSize: blockSize,
		blocks:    make(map[int64][]byte),
	}
}

// get returns the contents of blockNum, reading through the device on
// a miss and caching the result. Correctness never depends on the
// cache being evicted or retained; an unbounded map for the lifetime of
// one iterator is acceptable.
func (c *blockCache) get(blockNum int64) ([]byte, error) {
	if buf, ok := c.blocks[blockNum]; ok {
		return buf, nil
	}
	buf, err := c.dev.read(int(c.blockSize), blockOffset(c.blockSize, blockNum))
	if err != nil {
		return nil, err
	}
	c.blocks[blockNum] = buf
	return buf, nil
}
