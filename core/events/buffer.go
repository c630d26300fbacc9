package events

import "sync"

// DefaultBufferSize bounds the number of events a Buffer retains.
const DefaultBufferSize = 1024

// Buffer is an Emitter that retains the most recent events in memory so they
// can be served over RPC. Older events are dropped once the capacity is
// reached.
type Buffer struct {
	mu   sync.Mutex
	max  int
	seq  uint64
	ring []Recorded
}

// Recorded pairs an event with the sequence number it was emitted at.
type Recorded struct {
	Sequence uint64
	Event    Event
}

// NewBuffer creates a buffer retaining up to max events. A non-positive max
// falls back to DefaultBufferSize.
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = DefaultBufferSize
	}
	return &Buffer{max: max}
}

// Emit implements the Emitter interface.
func (b *Buffer) Emit(evt Event) {
	if b == nil || evt == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.ring = append(b.ring, Recorded{Sequence: b.seq, Event: evt})
	if len(b.ring) > b.max {
		b.ring = b.ring[len(b.ring)-b.max:]
	}
}

// Since returns all retained events with a sequence number greater than after,
// in emission order.
func (b *Buffer) Since(after uint64) []Recorded {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Recorded, 0, len(b.ring))
	for _, rec := range b.ring {
		if rec.Sequence > after {
			out = append(out, rec)
		}
	}
	return out
}
