package provider

import "unsafe"

// Heap backs a pool with a plain make([]byte, n), sliced to a 16-byte
// aligned start. make itself gives no alignment guarantee on every
// platform, so Heap over-allocates by up to heapAlign-1 bytes and slices
// from the first aligned offset -- the Go equivalent of the original's
// over-aligned AlignType array in TLSFPool.createPool.
type Heap struct {
	raw    []byte
	region []byte
}

var _ Region = (*Heap)(nil)

const heapAlign = 16

// NewHeap allocates a region of at least size usable bytes, 16-byte
// aligned.
func NewHeap(size int) *Heap {
	if size < 0 {
		size = 0
	}
	raw := make([]byte, size+heapAlign-1)

	start := uintptr(0)
	if len(raw) > 0 {
		start = uintptr(unsafe.Pointer(&raw[0]))
	}
	pad := (heapAlign - int(start%heapAlign)) % heapAlign

	return &Heap{raw: raw, region: raw[pad : pad+size]}
}

func (h *Heap) Bytes() []byte { return h.region }

// Close is a no-op: the backing array is ordinary GC-managed memory.
func (h *Heap) Close() error { return nil }
