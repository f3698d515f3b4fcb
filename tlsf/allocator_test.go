package tlsf

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddPoolCreatesSingleFreeBlock(t *testing.T) {
	a := newPoolAllocator(t, 256)

	first := a.pools[0].firstBlock()
	assert.True(t, first.isFree())
	assert.Equal(t, int32(240), first.size())
	assert.Equal(t, noLink, first.prevPhys())
}

func TestAddPoolRejectsUndersizedPool(t *testing.T) {
	a := New()
	err := a.AddPool(make([]byte, 8))
	assert.ErrorIs(t, err, ErrPoolTooSmall)
}

func TestAllocZeroReturnsMinAllocPayload(t *testing.T) {
	a := newPoolAllocator(t, 256)

	ref, payload, err := a.Alloc(0)
	require.NoError(t, err)
	assert.Len(t, payload, MinAlloc)
	assert.True(t, a.Contains(ref))
}

func TestAllocCapacityFailsDueToHeaderOverhead(t *testing.T) {
	a := newPoolAllocator(t, 256)

	_, _, err := a.Alloc(256)
	assert.ErrorIs(t, err, ErrNoSpace)
}

func TestAllocCapacityMinusHeaderSucceedsOnce(t *testing.T) {
	a := newPoolAllocator(t, 256)

	_, payload, err := a.Alloc(256 - HeaderSize)
	require.NoError(t, err)
	assert.Len(t, payload, 240)

	_, _, err = a.Alloc(MinAlloc)
	assert.ErrorIs(t, err, ErrNoSpace)
}

func TestAllocSmallRequestDoesNotSplitBelowThreshold(t *testing.T) {
	// A free block whose remainder after carving out n' would be smaller
	// than HeaderSize+MinAlloc must be handed out whole.
	a := newPoolAllocator(t, 48) // free payload = 48-16 = 32

	_, payload, err := a.Alloc(MinAlloc)
	require.NoError(t, err)
	// Splitting off 16 would leave a remainder of 16 bytes, short of
	// HeaderSize+MinAlloc (32), so no split occurs and the whole 32-byte
	// free block is handed out.
	assert.Len(t, payload, 32)
}

// TestWorkedExample256 reproduces the pool-of-256 allocation sequence: after
// initialize, p1=alloc(128) and p2=alloc(48) succeed and leave the pool with
// exactly 32 bytes of free payload. That is not enough to satisfy p3's
// rounded 64-byte request (it fails), but p4=alloc(16) still fits in the
// same untouched 32-byte free block, and p5 has nothing left to draw from.
func TestWorkedExample256(t *testing.T) {
	a := newPoolAllocator(t, 256)

	p1, payload1, err := a.Alloc(128)
	require.NoError(t, err)
	assert.Len(t, payload1, 128)

	p2, payload2, err := a.Alloc(48)
	require.NoError(t, err)
	assert.Len(t, payload2, 48)

	_, _, err = a.Alloc(56)
	assert.ErrorIs(t, err, ErrNoSpace, "56 rounds to 64, exceeding the 32 bytes left free")

	p4, payload4, err := a.Alloc(16)
	require.NoError(t, err)
	assert.Len(t, payload4, 32, "the whole remaining free block is handed out; too small to split")

	_, _, err = a.Alloc(55)
	assert.ErrorIs(t, err, ErrNoSpace, "pool is fully allocated")

	// free(p2); free(p4); free(p1) must fully coalesce back to a single
	// 240-byte free block, matching the freshly initialized state exactly.
	require.NoError(t, a.Free(p2))
	require.NoError(t, a.Free(p4))
	require.NoError(t, a.Free(p1))

	first := a.pools[0].firstBlock()
	assert.True(t, first.isFree())
	assert.Equal(t, int32(240), first.size())
	assert.Equal(t, noLink, first.prevPhys())

	// A 64-byte request now trivially succeeds against the fully-reunited pool.
	_, payload, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Len(t, payload, 64)
}

func TestFreeCoalescesBackwardAndForward(t *testing.T) {
	a := newPoolAllocator(t, 512)

	p1, _, err := a.Alloc(64)
	require.NoError(t, err)
	p2, _, err := a.Alloc(64)
	require.NoError(t, err)
	p3, _, err := a.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(p1))
	require.NoError(t, a.Free(p3))
	require.NoError(t, a.Free(p2)) // merges with both physical neighbors

	// three freed 64-byte blocks (each with its own 16-byte header) plus
	// the original tail should collapse into one block again.
	first := a.pools[0].firstBlock()
	assert.True(t, first.isFree())
	assert.Equal(t, int32(512-HeaderSize), first.size())
}

func TestDoubleFreeDetectedUnderDebugAssert(t *testing.T) {
	a := newPoolAllocator(t, 256)

	ref, _, err := a.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(ref))
	err = a.Free(ref)
	assert.ErrorIs(t, err, ErrDoubleFree)
}

func TestFreeForeignRefIsRejected(t *testing.T) {
	a := newPoolAllocator(t, 256)
	other := newPoolAllocator(t, 256)

	ref, _, err := other.Alloc(32)
	require.NoError(t, err)

	err = a.Free(ref)
	assert.ErrorIs(t, err, ErrBadRef)
}

func TestReallocShrinkReturnsSameRef(t *testing.T) {
	a := newPoolAllocator(t, 256)

	ref, _, err := a.Alloc(100)
	require.NoError(t, err)

	ref2, payload, err := a.Realloc(ref, 80)
	require.NoError(t, err)
	assert.Equal(t, ref, ref2)
	assert.NotEmpty(t, payload)
}

// TestReallocGrowsInPlaceWhenMergeStaysBelowNextClass builds a precise
// physical layout by hand: an allocated block immediately followed by a
// small free block, sized so that merging the two lands inside
// [n, class_size(class_for_alloc(n))) -- the narrow window where realloc's
// in-place branch is allowed to fire (spec §4.G step 3, and the "open
// question" in §9 about the merged<n_aligned condition).
func TestReallocGrowsInPlaceWhenMergeStaysBelowNextClass(t *testing.T) {
	a := New(WithDebugAssert(true))
	const capacity = 4096
	pool := &poolMem{mem: make([]byte, capacity), capacity: capacity}
	a.pools = append(a.pools, pool)

	p := block{pool: pool, off: 0}
	p.setPrevPhys(noLink)
	p.setSizeFree(1000, false)

	neighbor := block{pool: pool, off: p.end()}
	neighbor.setPrevPhys(p.off)
	neighbor.setSizeFree(32, true)
	a.ix.insertFree(neighbor)

	tail := block{pool: pool, off: neighbor.end()}
	tail.setPrevPhys(neighbor.off)
	tail.setSizeFree(capacity-tail.off-HeaderSize, true)
	a.ix.insertFree(tail)

	// n = round(1030) = 1040; class_for_alloc(1040) has class_size 1056.
	// merged = 1000 + 16 + 32 = 1048, inside [1040, 1056).
	ref := Ref{pool: pool, off: p.off}
	grown, payload, err := a.Realloc(ref, 1030)
	require.NoError(t, err)
	assert.Equal(t, ref, grown, "in-place growth must keep the same ref")
	assert.Equal(t, int32(1048), p.size())
	assert.Len(t, payload, 1048)
}

func TestReallocFallsBackToMoveWhenNoRoomToGrow(t *testing.T) {
	a := newPoolAllocator(t, 512)

	p1, _, err := a.Alloc(32)
	require.NoError(t, err)
	_, _, err = a.Alloc(32) // occupies the physical successor, blocking growth
	require.NoError(t, err)

	moved, payload, err := a.Realloc(p1, 200)
	require.NoError(t, err)
	assert.NotEqual(t, p1, moved)
	assert.GreaterOrEqual(t, len(payload), 200)
}

func TestMultiPoolServesFromSecondPoolWhenFirstIsExhausted(t *testing.T) {
	a := New(WithDebugAssert(true))
	require.NoError(t, a.AddPool(make([]byte, 128)))
	require.NoError(t, a.AddPool(make([]byte, 512)))

	_, _, err := a.Alloc(128 - HeaderSize) // exhausts pool 1 exactly
	require.NoError(t, err)

	ref, payload, err := a.Alloc(256)
	require.NoError(t, err, "should draw from the second pool")
	assert.GreaterOrEqual(t, len(payload), 256)
	assert.True(t, a.Contains(ref))
}

func TestFillOneMebibytePoolUniformSizes(t *testing.T) {
	const capacity = 1 << 20
	a := newPoolAllocator(t, capacity)

	seen := make(map[int32]bool)
	var totalRequested int64
	count := 0

	size := int32(96)
	for {
		n := ((size-96)%(1024-96) + 96)
		n = (n / 16) * 16
		if n < MinAlloc {
			n = MinAlloc
		}
		ref, payload, err := a.Alloc(n)
		if err != nil {
			break
		}
		require.True(t, a.Contains(ref))
		key := ref.off
		require.False(t, seen[key], "offset %d handed out twice", key)
		seen[key] = true
		totalRequested += int64(len(payload))
		count++
		size += 37 // odd stride to vary sizes across [96,1024)
	}

	require.Greater(t, count, 0)
	utilization := float64(totalRequested) / float64(capacity)
	assert.Greater(t, utilization, 0.85, "fragmentation should not prevent high utilization")
}

func TestDumpReportsPoolOccupancy(t *testing.T) {
	a := newPoolAllocator(t, 256)
	_, _, err := a.Alloc(64)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, a.Dump(&buf))
	assert.Contains(t, buf.String(), "pool 0")
}
