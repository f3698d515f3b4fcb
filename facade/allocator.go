package facade

import "io"

// Allocator is the shape every concrete backend (tlsf.Allocator, or any
// other ref-counted/pool-backed allocator) must satisfy to be wrapped by
// Generic. R is the backend's opaque block handle (tlsf.Ref, for the one
// backend this repository ships).
type Allocator[R any] interface {
	Alloc(size int32) (R, []byte, error)
	Free(ref R) error
	Realloc(ref R, newSize int32) (R, []byte, error)
	Contains(ref R) bool
	Dump(w io.Writer) error
}

// Generic forwards every call to a wrapped backend, the way the original's
// MemoryAllocator<AllocatorType> template forwards to its _allocator
// member. It exists so callers (and tests) can depend on facade.Allocator
// instead of importing the tlsf package directly.
type Generic[R any, B Allocator[R]] struct {
	backend B
}

// NewGeneric wraps an already-constructed backend.
func NewGeneric[R any, B Allocator[R]](backend B) *Generic[R, B] {
	return &Generic[R, B]{backend: backend}
}

func (g *Generic[R, B]) Alloc(size int32) (R, []byte, error) {
	return g.backend.Alloc(size)
}

func (g *Generic[R, B]) Free(ref R) error {
	return g.backend.Free(ref)
}

func (g *Generic[R, B]) Realloc(ref R, newSize int32) (R, []byte, error) {
	return g.backend.Realloc(ref, newSize)
}

func (g *Generic[R, B]) Contains(ref R) bool {
	return g.backend.Contains(ref)
}

func (g *Generic[R, B]) Dump(w io.Writer) error {
	return g.backend.Dump(w)
}

// Backend returns the wrapped concrete allocator, for callers that need
// backend-specific behavior Generic doesn't expose.
func (g *Generic[R, B]) Backend() B {
	return g.backend
}
