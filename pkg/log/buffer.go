package log

import (
	"fmt"
	"io"
	"sync"
)

const defaultBufferCapacity = 100

// CircularBuffer is an [io.Writer] that keeps the most recent writes. It
// holds log output while the terminal UI owns the screen.
type CircularBuffer struct {
	entries [][]byte
	start   int
	size    int
	mu      sync.Mutex
}

// NewCircularBuffer creates a buffer holding up to capacity writes.
func NewCircularBuffer(capacity int) *CircularBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}

	return &CircularBuffer{entries: make([][]byte, capacity)}
}

// Write stores a copy of p, evicting the oldest entry when full.
func (cb *CircularBuffer) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	entry := append([]byte(nil), p...)

	cb.mu.Lock()
	defer cb.mu.Unlock()

	capacity := len(cb.entries)
	if cb.size < capacity {
		cb.entries[(cb.start+cb.size)%capacity] = entry
		cb.size++
	} else {
		cb.entries[cb.start] = entry
		cb.start = (cb.start + 1) % capacity
	}

	return len(p), nil
}

// Entries returns copies of the stored writes, oldest first.
func (cb *CircularBuffer) Entries() [][]byte {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	out := make([][]byte, 0, cb.size)
	for i := range cb.size {
		e := cb.entries[(cb.start+i)%len(cb.entries)]
		out = append(out, append([]byte(nil), e...))
	}

	return out
}

func (cb *CircularBuffer) Size() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.size
}

func (cb *CircularBuffer) Capacity() int {
	return len(cb.entries)
}

// IsFull reports whether older entries are being evicted.
func (cb *CircularBuffer) IsFull() bool {
	return cb.Size() == cb.Capacity()
}

// WriteTo writes the stored entries to w, oldest first.
func (cb *CircularBuffer) WriteTo(w io.Writer) (int64, error) {
	var total int64

	for _, e := range cb.Entries() {
		n, err := w.Write(e)
		total += int64(n)

		if err != nil {
			return total, fmt.Errorf("write entry: %w", err)
		}
	}

	return total, nil
}
