// Package facade gives callers a backend-agnostic view over a concrete
// allocator. Allocator is the interface every backend satisfies; Generic
// is the Go-generics counterpart of the original's MemoryAllocator<T>
// template, forwarding every call to whichever T it wraps.
package facade
