//go:build unix

package provider

import "golang.org/x/sys/unix"

// AnonMmap backs a pool with an anonymous, page-aligned mapping, outside
// the Go GC's scanned heap. Production allocators reach for this so pool
// memory isn't walked by the garbage collector and so pool boundaries land
// on page boundaries for mprotect-style tooling, not because TLSF itself
// needs it.
type AnonMmap struct {
	mem []byte
}

var _ Region = (*AnonMmap)(nil)

// NewAnonMmap maps a private anonymous region of at least size bytes.
func NewAnonMmap(size int) (*AnonMmap, error) {
	if size <= 0 {
		size = 1
	}
	mem, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, err
	}
	return &AnonMmap{mem: mem}, nil
}

func (m *AnonMmap) Bytes() []byte { return m.mem }

func (m *AnonMmap) Close() error {
	if m.mem == nil {
		return nil
	}
	err := unix.Munmap(m.mem)
	m.mem = nil
	return err
}
