// package buffer provides growable GPU-resident vertex buffers with an
// explicit capacity and logical length, plus the frame-scoped transfer scope
// used to write into them. Device access goes through narrow interfaces so
// buffer and layer logic can be exercised without a GPU.
package buffer

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// ErrWriteOutOfRange indicates a write beyond the buffer's allocated
// capacity. Callers must resize before writing.
var ErrWriteOutOfRange = errors.New("buffer write exceeds allocated capacity")

// DeviceContext is the slice of the GPU device needed to allocate buffers.
// *wgpu.Device satisfies it.
type DeviceContext interface {
	// CreateBuffer allocates a device buffer described by the descriptor.
	//
	// Parameters:
	//   - descriptor: the buffer label, size, and usage flags
	//
	// Returns:
	//   - *wgpu.Buffer: the allocated buffer
	//   - error: an error if the device could not allocate the buffer
	CreateBuffer(descriptor *wgpu.BufferDescriptor) (*wgpu.Buffer, error)
}

var _ DeviceContext = &wgpu.Device{}

// TransferScope stages CPU-to-device copies during a bounded window. Copies
// staged through a scope are visible to any GPU commands submitted after the
// scope's frame, so a layer prepared through it may be drawn in the same
// recorded command sequence.
type TransferScope interface {
	// WriteBuffer stages a copy of data into buf at the given byte offset.
	//
	// Parameters:
	//   - buf: the destination device buffer
	//   - offset: the destination byte offset
	//   - data: the bytes to copy
	//
	// Returns:
	//   - error: an error if the scope is not open or the copy fails
	WriteBuffer(buf *wgpu.Buffer, offset uint64, data []byte) error
}

// Instance is a fixed-size record that can serialize itself into the exact
// byte layout the GPU expects. Marshal must return the same length for every
// value of the implementing type.
type Instance interface {
	Marshal() []byte
}

// Buffer is a growable device-side array of fixed-size instance records.
// Capacity (allocated records) and logical length (records written this
// frame) are tracked separately: resize is grow-only and amortized, write is
// bounded by capacity and sets the logical length.
type Buffer[T Instance] struct {
	label  string
	usage  wgpu.BufferUsage
	stride int

	size     int
	capacity int

	raw *wgpu.Buffer

	// Buffers replaced by Resize are retired rather than released
	// immediately: frames recorded before the resize may still reference
	// them. They are freed in Release.
	retired []*wgpu.Buffer
}

// New allocates a buffer with the given initial capacity in instance records.
//
// Parameters:
//   - device: the device context used for allocation
//   - label: the debug label attached to the underlying GPU buffer
//   - capacity: the initial capacity in records (must be > 0)
//   - usage: the GPU usage flags (typically vertex | copy-dst)
//
// Returns:
//   - *Buffer[T]: the allocated buffer
//   - error: an error if device allocation fails
func New[T Instance](device DeviceContext, label string, capacity int, usage wgpu.BufferUsage) (*Buffer[T], error) {
	var zero T
	b := &Buffer[T]{
		label:  label,
		usage:  usage,
		stride: len(zero.Marshal()),
	}
	raw, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(capacity * b.stride),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to allocate %s: %w", label, err)
	}
	b.raw = raw
	b.capacity = capacity
	return b, nil
}

// Resize grows the buffer to hold at least count records. Growth at least
// doubles the current capacity to amortize future growth; the buffer never
// shrinks. The previous allocation is retired, not reused, so resized
// contents start undefined and must be rewritten.
//
// Parameters:
//   - device: the device context used for allocation
//   - count: the required capacity in records
//
// Returns:
//   - bool: true if a new allocation was made
//   - error: an error if device allocation fails (frame-fatal for the caller)
func (b *Buffer[T]) Resize(device DeviceContext, count int) (bool, error) {
	if count <= b.capacity {
		return false, nil
	}
	grown := grownCapacity(b.capacity, count)
	raw, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: b.label,
		Size:  uint64(grown * b.stride),
		Usage: b.usage,
	})
	if err != nil {
		return false, fmt.Errorf("failed to grow %s to %d instances: %w", b.label, grown, err)
	}
	b.retired = append(b.retired, b.raw)
	b.raw = raw
	b.capacity = grown
	return true, nil
}

// Write serializes instances and stages them into the buffer at the given
// record offset, setting the logical length to the end of the written range.
//
// Parameters:
//   - scope: the open transfer scope to stage the copy through
//   - offset: the destination offset in records
//   - instances: the records to write
//
// Returns:
//   - error: ErrWriteOutOfRange if the range exceeds capacity, or a scope error
func (b *Buffer[T]) Write(scope TransferScope, offset int, instances []T) error {
	if offset+len(instances) > b.capacity {
		return fmt.Errorf("%w: %s [%d, %d) with capacity %d",
			ErrWriteOutOfRange, b.label, offset, offset+len(instances), b.capacity)
	}
	data := make([]byte, 0, len(instances)*b.stride)
	for i := range instances {
		data = append(data, instances[i].Marshal()...)
	}
	if err := scope.WriteBuffer(b.raw, uint64(offset*b.stride), data); err != nil {
		return fmt.Errorf("failed to write %s: %w", b.label, err)
	}
	b.size = offset + len(instances)
	return nil
}

// Raw returns the underlying GPU buffer for binding as a vertex buffer.
func (b *Buffer[T]) Raw() *wgpu.Buffer {
	return b.raw
}

// Len returns the logical length in records set by the most recent Write.
func (b *Buffer[T]) Len() int {
	return b.size
}

// Capacity returns the allocated capacity in records.
func (b *Buffer[T]) Capacity() int {
	return b.capacity
}

// Stride returns the size of one record in bytes.
func (b *Buffer[T]) Stride() int {
	return b.stride
}

// Release frees the current allocation and any retired ones. The buffer must
// not be used afterwards.
func (b *Buffer[T]) Release() {
	if b.raw != nil {
		b.raw.Release()
		b.raw = nil
	}
	for _, r := range b.retired {
		r.Release()
	}
	b.retired = nil
	b.capacity = 0
	b.size = 0
}

// grownCapacity doubles from the current capacity until count fits, so
// repeated growth is amortized and the result is never under-allocated.
func grownCapacity(capacity, count int) int {
	next := max(capacity, 1)
	for next < count {
		next *= 2
	}
	return next
}
