//go:build !unix

package provider

// AnonMmap falls back to a Heap region on platforms without an anonymous
// mmap syscall reachable through golang.org/x/sys/unix.
type AnonMmap struct {
	*Heap
}

// NewAnonMmap allocates a Heap-backed region of at least size bytes.
func NewAnonMmap(size int) (*AnonMmap, error) {
	return &AnonMmap{Heap: NewHeap(size)}, nil
}
