package tlsf

import "github.com/joshuapare/tlsfkit/internal/bits"

// freeIndex is the two-level bitmap index plus the head table of free
// lists. It is shared across every pool an Allocator owns: a class's free
// list may contain blocks from more than one pool.
type freeIndex struct {
	c classifier

	firstBitmap  uint32
	secondBitmap []uint32 // len == c.flCount
	heads        []block  // len == c.flCount * c.slCount, row-major [fl*slCount+sl]
}

func newFreeIndex(c classifier) *freeIndex {
	return &freeIndex{
		c:            c,
		secondBitmap: make([]uint32, c.flCount),
		heads:        make([]block, c.flCount*c.slCount),
	}
}

func (ix *freeIndex) headIdx(fl, sl int32) int { return int(fl)*int(ix.c.slCount) + int(sl) }

func (ix *freeIndex) head(fl, sl int32) block { return ix.heads[ix.headIdx(fl, sl)] }

func (ix *freeIndex) setHead(fl, sl int32, b block) { ix.heads[ix.headIdx(fl, sl)] = b }

// insertFree pushes b onto the head of its class's free list (computed via
// classForInsert) and marks the corresponding bitmap bits.
func (ix *freeIndex) insertFree(b block) {
	fl, sl := ix.c.classForInsert(b.size())
	ix.insertFreeClass(b, fl, sl)
}

func (ix *freeIndex) insertFreeClass(b block, fl, sl int32) {
	b.setSizeFree(b.size(), true)

	head := ix.head(fl, sl)
	b.setPrevFree(noLink)
	if head.valid() {
		b.setNextFree(head.off)
		head.setPrevFree(b.off)
	} else {
		b.setNextFree(noLink)
	}
	ix.setHead(fl, sl, b)

	ix.secondBitmap[fl] |= 1 << uint(sl)
	ix.firstBitmap |= 1 << uint(fl)
}

// removeFree unlinks b from its free list, recomputing its class.
func (ix *freeIndex) removeFree(b block) {
	fl, sl := ix.c.classForInsert(b.size())
	ix.removeFreeClass(b, fl, sl)
}

// removeFreeClass unlinks b from the free list at (fl,sl), which the
// caller already knows to be b's class.
func (ix *freeIndex) removeFreeClass(b block, fl, sl int32) {
	prevOff := b.prevFree()
	nextOff := b.nextFree()

	if prevOff != noLink {
		prev := block{pool: b.pool, off: prevOff}
		prev.setNextFree(nextOff)
	} else {
		if nextOff != noLink {
			ix.setHead(fl, sl, block{pool: b.pool, off: nextOff})
		} else {
			ix.setHead(fl, sl, block{})
		}
	}
	if nextOff != noLink {
		next := block{pool: b.pool, off: nextOff}
		next.setPrevFree(prevOff)
	}

	if !ix.head(fl, sl).valid() {
		ix.secondBitmap[fl] &^= 1 << uint(sl)
		if ix.secondBitmap[fl] == 0 {
			ix.firstBitmap &^= 1 << uint(fl)
		}
	}
}

// findSuitable finds the smallest non-empty class at or above (fl,sl),
// per spec 4.E: first try sub-classes >= sl within fl, then any fl' > fl.
func (ix *freeIndex) findSuitable(fl, sl int32) (rfl, rsl int32, ok bool) {
	if fl >= ix.c.flCount {
		return 0, 0, false
	}

	if sl < ix.c.slCount {
		mask := ix.secondBitmap[fl] & (^uint32(0) << uint(sl))
		if mask != 0 {
			return fl, int32(bits.Ffs32(mask)), true
		}
	}

	flMask := ix.firstBitmap & (^uint32(0) << uint(fl+1))
	if flMask == 0 {
		return 0, 0, false
	}
	rfl = int32(bits.Ffs32(flMask))
	rsl = int32(bits.Ffs32(ix.secondBitmap[rfl]))
	return rfl, rsl, true
}

// freeStatus reports whether class (fl,sl) has a non-empty free list. The
// corrected form per spec's "source anomaly" note: parenthesize the
// bitmap test, don't apply ! to the bitmap itself.
func (ix *freeIndex) freeStatus(fl, sl int32) bool {
	if fl < 0 || fl >= ix.c.flCount {
		return false
	}
	if ix.firstBitmap&(1<<uint(fl)) == 0 {
		return false
	}
	return ix.secondBitmap[fl]&(1<<uint(sl)) != 0
}
