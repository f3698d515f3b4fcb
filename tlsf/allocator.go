package tlsf

import (
	"fmt"
	"io"
	"log/slog"
)

// Ref is an opaque handle to a block this allocator owns, returned by
// Alloc and consumed by Free/Realloc/Contains. It is the Go realization of
// the abstract "payload pointer" in the spec: a view type over the pool's
// backing memory rather than a raw address (spec's "Header layout trick"
// note explicitly allows either approach).
type Ref struct {
	pool *poolMem
	off  int32
}

// IsZero reports whether r is the zero Ref (never returned by a successful
// Alloc; Alloc and Realloc return it alongside an error).
func (r Ref) IsZero() bool { return r.pool == nil }

// Allocator is a single TLSF instance: one shared free-list index over any
// number of attached pools. Not safe for concurrent use; see spec §5.
type Allocator struct {
	c  classifier
	ix *freeIndex

	pools []*poolMem

	debugAssert bool
	logger      *slog.Logger
}

// Option configures an Allocator at construction time.
type Option func(*config)

type config struct {
	sli         uint
	flCount     int32
	debugAssert bool
	logger      *slog.Logger
}

// WithDebugAssert enables the invariant walk after every mutating
// operation (TLSF_DEBUG_ASSERT in spec §6). Off by default: the walk visits
// every block of every pool plus every class of the index, so it is
// O(total blocks), not O(1), and is meant for tests and debugging.
func WithDebugAssert(enabled bool) Option {
	return func(c *config) { c.debugAssert = enabled }
}

// WithSecondLevelIndex overrides SLI (default 5, i.e. 32 sub-classes per
// first-level class). Capped so the second-level bitmap stays a single
// 32-bit word.
func WithSecondLevelIndex(sli int) Option {
	return func(c *config) {
		if sli < 1 {
			sli = 1
		}
		if sli > maxSLI {
			sli = maxSLI
		}
		c.sli = uint(sli)
	}
}

// WithFirstLevelCount overrides the number of first-level classes served
// (default 31). Capped at 32, the first-level bitmap's width.
func WithFirstLevelCount(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		if n > maxFL {
			n = maxFL
		}
		c.flCount = int32(n)
	}
}

// WithLogger installs a structured logger; the allocator logs pool growth
// and coalescing events at slog.LevelDebug. Nil (the default) means silent.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// New constructs an Allocator with no pools attached; call AddPool before
// allocating.
func New(opts ...Option) *Allocator {
	cfg := config{sli: defaultSLI, flCount: defaultFLCount}
	for _, opt := range opts {
		opt(&cfg)
	}

	c := newClassifier(cfg.sli, cfg.flCount)
	return &Allocator{
		c:           c,
		ix:          newFreeIndex(c),
		debugAssert: cfg.debugAssert,
		logger:      cfg.logger,
	}
}

// AddPool registers mem as a pool this allocator may serve allocations
// from. mem's length is rounded down to a MinAlloc multiple; any remainder
// bytes are left untouched and unusable. AddPool may be called more than
// once to attach additional pools; existing allocations are unaffected.
func (a *Allocator) AddPool(mem []byte) error {
	capacity := int32(len(mem))
	capacity -= capacity % MinAlloc
	if capacity < HeaderSize+MinAlloc {
		return ErrPoolTooSmall
	}

	p := &poolMem{mem: mem[:capacity], capacity: capacity}
	first := p.firstBlock()
	first.setPrevPhys(noLink)
	first.setSizeFree(p.freeBytes(), true)
	a.ix.insertFree(first)
	a.pools = append(a.pools, p)

	a.debugf("add pool: capacity=%d free=%d pools=%d", capacity, p.freeBytes(), len(a.pools))
	return a.assertInvariants()
}

// roundSize rounds a requested payload size up to MinAlloc, treating 0 as
// MinAlloc (spec §4.D: "size = 0 is mapped to MIN_ALLOC before calling").
func roundSize(size int32) int32 {
	if size <= 0 {
		return MinAlloc
	}
	return ceilDiv(size, MinAlloc) * MinAlloc
}

// Alloc allocates a block of at least size bytes, returning its handle and
// payload slice. Returns ErrNoSpace if no attached pool has room.
func (a *Allocator) Alloc(size int32) (Ref, []byte, error) {
	n := roundSize(size)
	fl, sl := a.c.classForAlloc(n)
	nAligned := a.c.classSize(fl, sl)

	// Any block classForInsert places in (fl,sl) itself already has size
	// >= nAligned (classForAlloc rounds up to a class whose minimum is >=
	// the request, and classForInsert rounds a block's actual size down
	// into the class covering it) -- so the search can start at (fl,sl)
	// directly rather than one class up.
	rfl, rsl, ok := a.ix.findSuitable(fl, sl)
	if !ok {
		a.debugf("alloc(%d): no space (class fl=%d sl=%d)", size, fl, sl)
		return Ref{}, nil, ErrNoSpace
	}

	b := a.ix.head(rfl, rsl)
	a.ix.removeFreeClass(b, rfl, rsl)
	a.maybeSplit(b, nAligned)
	b.setSizeFree(b.size(), false)

	a.debugf("alloc(%d): off=%d size=%d", size, b.off, b.size())
	if err := a.assertInvariants(); err != nil {
		return Ref{}, nil, err
	}
	return Ref{pool: b.pool, off: b.off}, b.payload(), nil
}

// maybeSplit shrinks b to want bytes and returns the tail as a new free
// block, if the tail is large enough to host a header plus MinAlloc. b is
// left free (positive size field); the caller marks it allocated.
func (a *Allocator) maybeSplit(b block, want int32) {
	oldSize := b.size()
	if oldSize-want < HeaderSize+MinAlloc {
		return
	}

	b.setSizeField(want)

	rOff := b.off + HeaderSize + want
	r := block{pool: b.pool, off: rOff}
	r.setPrevPhys(b.off)
	r.setSizeFree(oldSize-want-HeaderSize, true)

	if nxt := r.next(); nxt.valid() {
		nxt.setPrevPhys(r.off)
	}
	a.ix.insertFree(r)
}

// Free returns a block to its pool, coalescing with free physical
// neighbors.
func (a *Allocator) Free(ref Ref) error {
	if !a.Contains(ref) {
		return ErrBadRef
	}
	b := block{pool: ref.pool, off: ref.off}
	if a.debugAssert && b.isFree() {
		return ErrDoubleFree
	}

	b.setSizeFree(b.size(), true)
	a.coalesceAndInsert(b)

	a.debugf("free: off=%d", ref.off)
	return a.assertInvariants()
}

// coalesceAndInsert merges b with any free physical neighbors, then
// inserts the (possibly larger) result into the free-list index.
func (a *Allocator) coalesceAndInsert(b block) {
	if prev := b.prev(); prev.valid() && prev.isFree() {
		a.ix.removeFree(prev)
		prev.setSizeFree(prev.size()+HeaderSize+b.size(), true)
		b = prev
	}

	if nxt := b.next(); nxt.valid() {
		if nxt.isFree() {
			a.ix.removeFree(nxt)
			b.setSizeFree(b.size()+HeaderSize+nxt.size(), true)
			if nn := b.next(); nn.valid() {
				nn.setPrevPhys(b.off)
			}
		} else {
			nxt.setPrevPhys(b.off)
		}
	}

	a.ix.insertFree(b)
}

// Realloc attempts to grow a block in place by absorbing its free forward
// neighbor, which it does only when the merged size lands in
// [round(newSize), classSize(classForAlloc(round(newSize)))). Otherwise,
// including every shrink that cannot take that branch, it falls back to
// Free followed by Alloc; a block is never shrunk in place.
// The returned Ref/slice may differ from ref/the old payload, and the core
// never copies payload bytes on a move -- that is the caller's
// responsibility (spec §4.G, "realloc does not copy payload").
func (a *Allocator) Realloc(ref Ref, newSize int32) (Ref, []byte, error) {
	if !a.Contains(ref) {
		return Ref{}, nil, ErrBadRef
	}
	b := block{pool: ref.pool, off: ref.off}

	n := roundSize(newSize)
	fl, sl := a.c.classForAlloc(n)
	nAligned := a.c.classSize(fl, sl)

	if nxt := b.next(); nxt.valid() && nxt.isFree() {
		merged := nxt.size() + HeaderSize + b.size()
		if merged >= n && merged < nAligned {
			succ := nxt.next()
			a.ix.removeFree(nxt)
			b.setSizeFree(merged, false)
			if succ.valid() {
				succ.setPrevPhys(b.off)
			}
			a.debugf("realloc(%d): in-place grow off=%d size=%d", newSize, b.off, b.size())
			if err := a.assertInvariants(); err != nil {
				return Ref{}, nil, err
			}
			return ref, b.payload(), nil
		}
	}

	if err := a.Free(ref); err != nil {
		return Ref{}, nil, err
	}
	return a.Alloc(newSize)
}

// Contains reports whether ref was produced by this allocator and still
// refers to a valid offset in a pool it owns.
func (a *Allocator) Contains(ref Ref) bool {
	if ref.pool == nil {
		return false
	}
	for _, p := range a.pools {
		if p == ref.pool {
			return ref.pool.contains(ref.off)
		}
	}
	return false
}

// Dump writes a human-readable summary of every attached pool: block
// count, free-block count, and free bytes. See diagnostics.go.
func (a *Allocator) Dump(w io.Writer) error {
	return a.dump(w)
}

func (a *Allocator) debugf(format string, args ...any) {
	if a.logger != nil {
		a.logger.Debug(fmt.Sprintf(format, args...))
	}
}
