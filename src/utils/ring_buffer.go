package utils

import (
	"gamefi-market/src/models"
)

// -----------------------------------------------------------------------------
// RingBuffer is a fixed-size circular buffer of price history entries.
// Appending to a full buffer overwrites the oldest entry.
// -----------------------------------------------------------------------------

type RingBuffer struct {
	data     []models.MPriceHistoryEntry
	capacity int
	index    int // Next write position
	size     int // Current number of elements
}

// -----------------------------------------------------------------------------

// NewRingBuffer creates a new buffer with fixed capacity
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}

	return &RingBuffer{
		data:     make([]models.MPriceHistoryEntry, capacity),
		capacity: capacity,
	}
}

// -----------------------------------------------------------------------------

// Append adds an entry, evicting the oldest one when full
func (rb *RingBuffer) Append(entry models.MPriceHistoryEntry) {
	rb.data[rb.index] = entry
	rb.index = (rb.index + 1) % rb.capacity

	if rb.size < rb.capacity {
		rb.size++
	}
}

// -----------------------------------------------------------------------------

// Load replaces the content with entries (oldest first). Only the newest
// capacity entries are kept.
func (rb *RingBuffer) Load(entries []models.MPriceHistoryEntry) {
	rb.Clear()
	if len(entries) > rb.capacity {
		entries = entries[len(entries)-rb.capacity:]
	}
	for _, e := range entries {
		rb.Append(e)
	}
}

// -----------------------------------------------------------------------------

// GetLatest returns the n latest entries, oldest first
func (rb *RingBuffer) GetLatest(n int) []models.MPriceHistoryEntry {
	if rb.size == 0 || n <= 0 {
		return []models.MPriceHistoryEntry{}
	}

	count := n
	if n > rb.size {
		count = rb.size
	}

	result := make([]models.MPriceHistoryEntry, count)

	// Latest entry is at index-1
	startIdx := (rb.index - count + rb.capacity) % rb.capacity

	for i := 0; i < count; i++ {
		result[i] = rb.data[(startIdx+i)%rb.capacity]
	}

	return result
}

// -----------------------------------------------------------------------------

// GetAll returns all entries in insertion order (oldest to newest)
func (rb *RingBuffer) GetAll() []models.MPriceHistoryEntry {
	return rb.GetLatest(rb.size)
}

// -----------------------------------------------------------------------------

// Size returns current number of elements
func (rb *RingBuffer) Size() int {
	return rb.size
}

// -----------------------------------------------------------------------------

// Capacity returns buffer capacity (fixed)
func (rb *RingBuffer) Capacity() int {
	return rb.capacity
}

// -----------------------------------------------------------------------------

// IsFull returns whether buffer is full
func (rb *RingBuffer) IsFull() bool {
	return rb.size == rb.capacity
}

// -----------------------------------------------------------------------------

// Clear resets the buffer
func (rb *RingBuffer) Clear() {
	rb.data = make([]models.MPriceHistoryEntry, rb.capacity)
	rb.index = 0
	rb.size = 0
}
