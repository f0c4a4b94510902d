package buffer

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrScopeClosed indicates a write attempted outside an open transfer scope.
var ErrScopeClosed = errors.New("transfer scope is not open")

// Belt is a frame-scoped TransferScope over the device queue. The owner opens
// it at the start of a frame's preparation, writes layers through it, and
// closes it before recording draws; writes outside the open window are
// rejected so a stale reference cannot outlive the command sequence it was
// opened for.
//
// Copies staged through the queue are ordered before any command buffers
// submitted afterwards, which provides the scope's visibility guarantee.
type Belt struct {
	queue *wgpu.Queue
	open  bool
}

var _ TransferScope = &Belt{}

// NewBelt creates a closed Belt over the given queue.
//
// Parameters:
//   - queue: the device queue used to stage copies
//
// Returns:
//   - *Belt: the transfer scope, initially closed
func NewBelt(queue *wgpu.Queue) *Belt {
	return &Belt{queue: queue}
}

// Open begins the per-frame transfer window.
func (b *Belt) Open() {
	b.open = true
}

// Close ends the per-frame transfer window. Staged copies remain ordered
// before any subsequently submitted GPU work.
func (b *Belt) Close() {
	b.open = false
}

// WriteBuffer stages a copy of data into buf at the given byte offset.
//
// Parameters:
//   - buf: the destination device buffer
//   - offset: the destination byte offset
//   - data: the bytes to copy
//
// Returns:
//   - error: ErrScopeClosed if the scope is not open, or a queue error
func (b *Belt) WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error {
	if !b.open {
		return ErrScopeClosed
	}
	return b.queue.WriteBuffer(buf, offset, data)
}
