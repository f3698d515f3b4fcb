package tlsf

import "fmt"

// assertInvariants runs checkInvariants when debug assertions are enabled,
// translating any violation into ErrInvariant. Called after every mutating
// operation; a no-op (single bool check) when disabled.
func (a *Allocator) assertInvariants() error {
	if !a.debugAssert {
		return nil
	}
	if err := a.checkInvariants(); err != nil {
		a.debugf("invariant violation: %v", err)
		return fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	return nil
}

// checkInvariants walks every attached pool and the free-list index,
// re-deriving the structural invariants a correct TLSF state must satisfy:
//
//  1. The physical block chain covers exactly [0, capacity) with no gaps
//     or overlaps, and every block's prevPhys link matches its physical
//     predecessor.
//  2. No two physically adjacent blocks are both free (a missed coalesce).
//  3. Every free block belongs to the free list its size maps to via
//     classForInsert, and the list's links are mutually consistent.
//  4. A class's bitmap bits are set if and only if its head is non-nil.
// blockKey identifies a block uniquely across every attached pool; a bare
// offset is only unique within a single pool.
type blockKey struct {
	pool *poolMem
	off  int32
}

func (a *Allocator) checkInvariants() error {
	freeInChain := make(map[blockKey]bool)

	for pi, p := range a.pools {
		off := int32(0)
		prevOff := noLink
		prevWasFree := false

		for off < p.capacity {
			b := block{pool: p, off: off}
			if b.prevPhys() != prevOff {
				return fmt.Errorf("pool %d block@%d: prevPhys=%d want %d", pi, off, b.prevPhys(), prevOff)
			}
			if b.isFree() && prevWasFree {
				return fmt.Errorf("pool %d block@%d: adjacent free blocks not coalesced", pi, off)
			}
			if b.size() < MinAlloc {
				return fmt.Errorf("pool %d block@%d: size %d below MinAlloc", pi, off, b.size())
			}

			freeInChain[blockKey{p, off}] = b.isFree()

			prevOff = off
			prevWasFree = b.isFree()
			off = b.end()
		}
		if off != p.capacity {
			return fmt.Errorf("pool %d: block chain ends at %d, want %d", pi, off, p.capacity)
		}
	}

	seen := make(map[blockKey]bool)
	for fl := int32(0); fl < a.c.flCount; fl++ {
		for sl := int32(0); sl < a.c.slCount; sl++ {
			head := a.ix.head(fl, sl)
			bitSet := a.ix.freeStatus(fl, sl)
			if head.valid() != bitSet {
				return fmt.Errorf("class (%d,%d): head.valid()=%v bitmap=%v", fl, sl, head.valid(), bitSet)
			}

			prevOff := noLink
			for b := head; b.valid(); {
				key := blockKey{b.pool, b.off}
				if !freeInChain[key] {
					return fmt.Errorf("class (%d,%d): block@%d in free list but not free in physical chain", fl, sl, b.off)
				}
				if b.prevFree() != prevOff {
					return fmt.Errorf("class (%d,%d): block@%d prevFree=%d want %d", fl, sl, b.off, b.prevFree(), prevOff)
				}
				wantFL, wantSL := a.c.classForInsert(b.size())
				if wantFL != fl || wantSL != sl {
					return fmt.Errorf("class (%d,%d): block@%d (size %d) belongs in (%d,%d)", fl, sl, b.off, b.size(), wantFL, wantSL)
				}
				seen[key] = true

				prevOff = b.off
				next := b.nextFree()
				if next == noLink {
					break
				}
				b = block{pool: b.pool, off: next}
			}
		}
	}

	for key, free := range freeInChain {
		if free && !seen[key] {
			return fmt.Errorf("block@%d marked free but absent from every free list", key.off)
		}
	}

	return nil
}
