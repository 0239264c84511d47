package ext2

import "fmt"

// blockNumberAt returns the physical block number holding the k-th
// data block (0-based) of an inode, per the canonical ext2 rule in
// spec §4.4. P = block_size/4 is the number of pointers per index
// block. Index-block reads go through cache. A value of 0 anywhere in
// the chain is a hole and is returned as 0 unchanged — callers decide
// what a hole means (the data-block iterator below zero-fills).
func blockNumberAt(ri *rawInode, blockSize int64, cache *blockCache, k int64) (int64, error) {
	p := blockSize / blockPointerSize
	index := k

	if k < numDirectBlocks {
		return int64(ri.IBlock[k]), nil
	}

	k -= numDirectBlocks
	if k < p {
		return indirectLookup(cache, int64(ri.IBlock[indBlockIndex]), k)
	}

	k -= p
	if k < p*p {
		hi := k / p
		lo := k % p
		l1, err := indirectLookup(cache, int64(ri.IBlock[dindBlockIndex]), hi)
		if err != nil || l1 == 0 {
			return 0, err
		}
		return indirectLookup(cache, l1, lo)
	}

	k -= p * p
	if k < p*p*p {
		hi := k / (p * p)
		rem := k % (p * p)
		mid := rem / p
		lo := rem % p
		l1, err := indirectLookup(cache, int64(ri.IBlock[tindBlockIndex]), hi)
		if err != nil || l1 == 0 {
			return 0, err
		}
		l2, err := indirectLookup(cache, l1, mid)
		if err != nil || l2 == 0 {
			return 0, err
		}
		return indirectLookup(cache, l2, lo)
	}

	return 0, newInvalidDataError(fmt.Sprintf("block index %d beyond triply-indirect reach", index))
}

// indirectLookup reads index block blockNum (through the cache, a
// no-op/zero result when blockNum is itself a hole) and returns the
// 32-bit block number stored at pointer slot idx within it.
func indirectLookup(cache *blockCache, blockNum, idx int64) (int64, error) {
	if blockNum == 0 {
		return 0, nil
	}
	buf, err := cache.get(blockNum)
	if err != nil {
		return 0, err
	}
	off := idx * blockPointerSize
	if off+blockPointerSize > int64(len(buf)) {
		return 0, newInvalidDataError("indirect pointer offset out of range")
	}
	v := uint32(buf[off]) | uint32(buf[off+1])<<8 | uint32(buf[off+2])<<16 | uint32(buf[off+3])<<24
	return int64(v), nil
}

// dataBlockIterator is a lazy, finite, non-restartable sequence of
// block_size byte buffers for one inode. A hole (block number 0)
// anywhere in the chain yields a zero-filled buffer rather than
// terminating iteration early or reading device block zero — this is
// the documented bug-fix relative to the source (spec §9).
type dataBlockIterator struct {
	dev   *device
	ri    *rawInode
	sb    *superblock
	cache *blockCache
	n     int64 // total blocks
	cur   int64
	err   error
}

func newDataBlockIterator(dev *device, sb *superblock, in *inode) *dataBlockIterator {
	return &dataBlockIterator{
		dev:   dev,
		ri:    in.raw,
		sb:    sb,
		cache: newBlockCache(dev, sb.BlockSize),
		n:     in.dataBlocksCount,
	}
}

// next returns the next block's contents, or ok=false once the
// iterator is exhausted or has hit an error (retrievable via Err).
func (it *dataBlockIterator) next() (buf []byte, ok bool) {
	if it.err != nil || it.cur >= it.n {
		return nil, false
	}
	blockNum, err := blockNumberAt(it.ri, it.sb.BlockSize, it.cache, it.cur)
	if err != nil {
		it.err = err
		return nil, false
	}
	it.cur++
	if blockNum == 0 {
		return make([]byte, it.sb.BlockSize), true
	}
	buf, err = it.dev.read(int(it.sb.BlockSize), blockOffset(it.sb.BlockSize, blockNum))
	if err != nil {
		it.err = err
		return nil, false
	}
	return buf, true
}

func (it *dataBlockIterator) Err() error { return it.err }

// readAll consumes the iterator, concatenating block buffers and
// truncating the result to size bytes. Used by symlink and small-file
// reads that materialize the full content.
func readAll(dev *device, sb *superblock, in *inode) ([]byte, error) {
	it := newDataBlockIterator(dev, sb, in)
	out := make([]byte, 0, in.dataBlocksCount*sb.BlockSize)
	for {
		buf, ok := it.next()
		if !ok {
			break
		}
		out = append(out, buf...)
	}
	if it.Err() != nil {
		return nil, it.Err()
	}
	if uint64(len(out)) > in.size {
		out = out[:in.size]
	}
	return out, nil
}
