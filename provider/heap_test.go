package provider

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

func TestNewHeapReturnsRequestedLength(t *testing.T) {
	h := NewHeap(100)
	assert.Len(t, h.Bytes(), 100)
}

func TestNewHeapAlignsTo16Bytes(t *testing.T) {
	for _, size := range []int{0, 1, 15, 16, 17, 1000} {
		h := NewHeap(size)
		region := h.Bytes()
		assert.Len(t, region, size)
		if len(region) == 0 {
			continue
		}
		addr := uintptr(unsafe.Pointer(&region[0]))
		assert.Zero(t, addr%heapAlign, "region for size=%d not 16-byte aligned", size)
	}
}

func TestHeapCloseIsANoOp(t *testing.T) {
	h := NewHeap(32)
	assert.NoError(t, h.Close())
	assert.NoError(t, h.Close())
	assert.Len(t, h.Bytes(), 32)
}
