//go:build unix

package provider

import "testing"

func TestNewAnonMmapReturnsWritableRegion(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping mmap test in short mode")
	}
	m, err := NewAnonMmap(4096)
	if err != nil {
		t.Fatalf("NewAnonMmap: %v", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}
	}()

	region := m.Bytes()
	if len(region) != 4096 {
		t.Fatalf("len mismatch: got %d want 4096", len(region))
	}
	region[0] = 0xab
	region[4095] = 0xcd
	if region[0] != 0xab || region[4095] != 0xcd {
		t.Fatalf("mapping not writable")
	}
}

func TestNewAnonMmapDoubleCloseIsSafe(t *testing.T) {
	m, err := NewAnonMmap(4096)
	if err != nil {
		t.Fatalf("NewAnonMmap: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
