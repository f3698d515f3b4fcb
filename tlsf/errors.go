package tlsf

import "errors"

var (
	// ErrNoSpace indicates that no free block large enough was found in any
	// attached pool. The allocator never attaches pools on its own; callers
	// add room with AddPool.
	ErrNoSpace = errors.New("tlsf: no free block large enough")

	// ErrBadRef indicates a Ref whose pool is not attached to this
	// allocator, or whose offset lies outside that pool.
	ErrBadRef = errors.New("tlsf: bad block reference")

	// ErrDoubleFree indicates an attempt to free a block that is already on
	// a free list. Only ever reported when debug assertions are enabled.
	ErrDoubleFree = errors.New("tlsf: double free")

	// ErrInvariant indicates a debug-mode invariant check failed after a
	// mutation. This is a programmer error, not a recoverable condition.
	ErrInvariant = errors.New("tlsf: invariant violation")

	// ErrPoolTooSmall indicates a pool passed to AddPool cannot hold even
	// one minimum-size block.
	ErrPoolTooSmall = errors.New("tlsf: pool smaller than header+minimum allocation")
)
