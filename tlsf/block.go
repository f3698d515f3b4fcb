package tlsf

import "encoding/binary"

// Layout trick (spec "Header layout trick"): rather than modeling the
// free-only link fields as raw pointers aliasing a struct field, a block is
// a view over a byte range inside its pool's backing slice. The first
// HeaderSize bytes are always reserved bookkeeping; prevFree/nextFree are
// written into the front of the payload region only while the block is
// free, and are never touched (or counted) once the block is handed out.
//
// Byte layout relative to a block's offset:
//
//	[0:4)   prevPhysOff int32  -- pool-relative offset of the physically
//	                              previous block, or noLink
//	[4:8)   sizeField   int32  -- sign encodes the free bit (positive means
//	                              free, negative means allocated); the
//	                              magnitude is the payload size
//	[8:16)  reserved           -- unused; keeps HeaderSize at a flat 16
//	                              bytes independent of pointer width
//	[16:20) prevFreeOff int32  -- only meaningful while free
//	[20:24) nextFreeOff int32  -- only meaningful while free
type block struct {
	pool *poolMem
	off  int32
}

func (b block) valid() bool { return b.pool != nil }

func (b block) prevPhys() int32 {
	return int32(binary.LittleEndian.Uint32(b.pool.mem[b.off : b.off+4]))
}

func (b block) setPrevPhys(v int32) {
	binary.LittleEndian.PutUint32(b.pool.mem[b.off:b.off+4], uint32(v))
}

func (b block) sizeField() int32 {
	return int32(binary.LittleEndian.Uint32(b.pool.mem[b.off+4 : b.off+8]))
}

func (b block) setSizeField(v int32) {
	binary.LittleEndian.PutUint32(b.pool.mem[b.off+4:b.off+8], uint32(v))
}

// size returns the block's payload size in bytes, regardless of free state.
func (b block) size() int32 {
	sf := b.sizeField()
	if sf < 0 {
		return -sf
	}
	return sf
}

func (b block) isFree() bool { return b.sizeField() > 0 }

// setSizeFree writes the payload size and free bit together.
func (b block) setSizeFree(size int32, free bool) {
	if free {
		b.setSizeField(size)
	} else {
		b.setSizeField(-size)
	}
}

func (b block) payloadOff() int32 { return b.off + HeaderSize }

// payload returns the block's payload slice. Valid regardless of free
// state; callers must not read prevFree/nextFree through it unless they
// already know the block is free.
func (b block) payload() []byte {
	sz := b.size()
	return b.pool.mem[b.payloadOff() : b.payloadOff()+sz]
}

func (b block) prevFree() int32 {
	p := b.payloadOff()
	return int32(binary.LittleEndian.Uint32(b.pool.mem[p : p+4]))
}

func (b block) setPrevFree(v int32) {
	p := b.payloadOff()
	binary.LittleEndian.PutUint32(b.pool.mem[p:p+4], uint32(v))
}

func (b block) nextFree() int32 {
	p := b.payloadOff()
	return int32(binary.LittleEndian.Uint32(b.pool.mem[p+4 : p+8]))
}

func (b block) setNextFree(v int32) {
	p := b.payloadOff()
	binary.LittleEndian.PutUint32(b.pool.mem[p+4:p+8], uint32(v))
}

// end returns the pool-relative offset one past this block's payload --
// where its physical successor, if any, begins.
func (b block) end() int32 { return b.payloadOff() + b.size() }

// next returns the physically next block, or the zero block if b is the
// last block in its pool.
func (b block) next() block {
	end := b.end()
	if end >= b.pool.capacity {
		return block{}
	}
	return block{pool: b.pool, off: end}
}

// prev returns the physically previous block, or the zero block if b is
// the first block in its pool.
func (b block) prev() block {
	off := b.prevPhys()
	if off == noLink {
		return block{}
	}
	return block{pool: b.pool, off: off}
}

func (b block) hasNext() bool { return b.end() < b.pool.capacity }
