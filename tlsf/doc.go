// Package tlsf implements a Two-Level Segregated Fit memory allocator: a
// general-purpose dynamic allocator that serves variable-sized requests
// from one or more caller-supplied memory pools in worst-case O(1) time for
// allocation, deallocation, reallocation, and free-list membership changes.
//
// # Overview
//
// The allocator indexes free blocks by a two-level scheme: a coarse
// power-of-two first-level class, subdivided linearly into SL_COUNT
// second-level sub-classes. Two 32-bit bitmaps (one first-level, one
// per-first-level second-level) make locating a non-empty class an O(1)
// bit-scan instead of a search.
//
// # Allocator Interface
//
// The core abstraction is *Allocator, which supports:
//
//   - AddPool(mem): register a caller-owned byte region as a pool
//   - Alloc(size): allocate a block, returns a Ref and its payload slice
//   - Free(ref): return a block to its pool
//   - Realloc(ref, size): grow in place by absorbing a free neighbor when possible, else move
//   - Contains(ref): true iff ref was produced by this allocator
//   - Dump(w): write a human-readable summary of pool/block state
//
// # Usage Example
//
//	a := tlsf.New()
//	if err := a.AddPool(make([]byte, 1<<20)); err != nil {
//	    return err
//	}
//
//	ref, buf, err := a.Alloc(256)
//	if err != nil {
//	    return err
//	}
//	copy(buf, payload)
//
//	// Later, free the block.
//	err = a.Free(ref)
//
// # Size Classes
//
// With the default second-level index (SLI=5), sizes up to 512 bytes are
// split into 32 linear 16-byte sub-classes in first-level 0; sizes above
// 512 bytes use a logarithmic first level with 32 equal sub-bands each.
//
// # Pool Growth
//
// AddPool may be called more than once. All attached pools share one
// free-list index; an allocation is served from the smallest suitable
// non-empty class, whichever pool that class's head block lives in. Pools
// are not tried one after another in attachment order.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. Callers must synchronize access
// externally.
//
// # Related Packages
//
//   - github.com/joshuapare/tlsfkit/provider: page providers supplying pool memory
//   - github.com/joshuapare/tlsfkit/facade: a generic Allocator interface + wrapper
//   - github.com/joshuapare/tlsfkit/internal/bits: fls/ffs bit-scan primitives
package tlsf
