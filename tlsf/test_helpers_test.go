package tlsf

import "testing"

// newPoolAllocator builds an Allocator with debug assertions enabled and a
// single pool of size bytes attached, ready for testing.
func newPoolAllocator(t testing.TB, size int32) *Allocator {
	t.Helper()

	a := New(WithDebugAssert(true))
	mem := make([]byte, size)
	if err := a.AddPool(mem); err != nil {
		t.Fatalf("AddPool(%d): %v", size, err)
	}
	return a
}

// blockAt returns the block header at absolute pool offset off in a's sole
// pool, for tests that peek at internal layout.
func blockAt(a *Allocator, off int32) block {
	return block{pool: a.pools[0], off: off}
}
