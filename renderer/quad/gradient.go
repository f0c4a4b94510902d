package quad

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lumen-ui/lumen/graphics"
	"github.com/lumen-ui/lumen/renderer/buffer"
)

// RenderStrategy selects which gradient kind a draw batch targets. The set of
// kinds is closed, so dispatch is a direct branch on the tag rather than
// runtime polymorphism.
type RenderStrategy int

const (
	// RenderStrategyLinear draws from the linear instance buffer with the
	// linear gradient pipeline.
	RenderStrategyLinear RenderStrategy = iota

	// RenderStrategyRadial draws from the radial instance buffer with the
	// radial gradient pipeline.
	RenderStrategyRadial
)

// GradientInstanceSize is the marshaled size of one flattened gradient
// instance record in bytes. Both kinds share it; the layout is the wire
// format between the CPU records and the shaders' vertex input and must stay
// bit-exact on both sides.
const GradientInstanceSize = graphics.PackedSize + QuadSize

// Gradient is a quad filled with interpolated colors. It is the logical
// CPU-side instance the layer consumes; the packed gradient's concrete type
// decides which kind buffer the instance lands in.
type Gradient struct {
	// Gradient is the packed background gradient of the quad.
	Gradient graphics.Packed

	// Quad is the shape description of the quad.
	Quad Quad
}

// LinearGradient is a Gradient monomorphized for the linear kind: one
// fixed-size record with no tag field. The choice of buffer and pipeline
// communicates the kind.
type LinearGradient struct {
	Gradient graphics.LinearPacked
	Quad     Quad
}

// Marshal serializes the instance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 152-byte buffer ready for GPU upload.
func (g LinearGradient) Marshal() []byte {
	return append(g.Gradient.Marshal(), g.Quad.Marshal()...)
}

// RadialGradient is a Gradient monomorphized for the radial kind.
type RadialGradient struct {
	Gradient graphics.RadialPacked
	Quad     Quad
}

// Marshal serializes the instance into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 152-byte buffer ready for GPU upload.
func (g RadialGradient) Marshal() []byte {
	return append(g.Gradient.Marshal(), g.Quad.Marshal()...)
}

// Layer owns the per-kind gradient instance buffers for one render layer.
// Each kind owns disjoint device memory: preparing one kind's instances never
// resizes or overwrites the other's buffer.
type Layer struct {
	linearInstances *buffer.Buffer[LinearGradient]
	radialInstances *buffer.Buffer[RadialGradient]
	instanceCount   int
}

// NewLayer allocates the two kind buffers at their initial capacity.
//
// Parameters:
//   - device: the device context used for allocation
//
// Returns:
//   - *Layer: the layer with empty buffers
//   - error: an error if device allocation fails
func NewLayer(device buffer.DeviceContext) (*Layer, error) {
	linear, err := buffer.New[LinearGradient](
		device,
		"lumen.quad.linear_gradient.buffer",
		InitialInstances,
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst,
	)
	if err != nil {
		return nil, err
	}

	radial, err := buffer.New[RadialGradient](
		device,
		"lumen.quad.radial_gradient.buffer",
		InitialInstances,
		wgpu.BufferUsageVertex|wgpu.BufferUsageCopyDst,
	)
	if err != nil {
		return nil, err
	}

	return &Layer{
		linearInstances: linear,
		radialInstances: radial,
	}, nil
}

// partition splits a mixed instance list into its linear and radial
// sub-sequences in a single stable pass: instances of the same kind keep
// their relative order from the input. Draw-range slicing depends on that
// order, so this is a contract, not an optimization.
func partition(instances []Gradient) ([]LinearGradient, []RadialGradient) {
	var linear []LinearGradient
	var radial []RadialGradient
	for _, instance := range instances {
		switch packed := instance.Gradient.(type) {
		case graphics.LinearPacked:
			linear = append(linear, LinearGradient{Gradient: packed, Quad: instance.Quad})
		case graphics.RadialPacked:
			radial = append(radial, RadialGradient{Gradient: packed, Quad: instance.Quad})
		}
	}
	return linear, radial
}

// Prepare partitions the frame's gradient instances by kind and uploads each
// non-empty sub-sequence into its own buffer, growing the buffer first when
// the sub-sequence is longer than its current capacity. An empty
// sub-sequence leaves its buffer untouched; stale contents are fine because
// no draw range will reference them.
//
// A resize failure is not locally recoverable and propagates as a fatal
// error for the frame.
//
// Parameters:
//   - device: the device context used for buffer growth
//   - scope: the open frame transfer scope to stage uploads through
//   - instances: the frame's gradient instances in draw order
//
// Returns:
//   - error: a frame-fatal error if growth or upload fails
func (l *Layer) Prepare(device buffer.DeviceContext, scope buffer.TransferScope, instances []Gradient) error {
	linear, radial := partition(instances)

	if len(linear) > 0 {
		if _, err := l.linearInstances.Resize(device, len(linear)); err != nil {
			return fmt.Errorf("failed to prepare linear gradient instances: %w", err)
		}
		if err := l.linearInstances.Write(scope, 0, linear); err != nil {
			return fmt.Errorf("failed to prepare linear gradient instances: %w", err)
		}
	}

	if len(radial) > 0 {
		if _, err := l.radialInstances.Resize(device, len(radial)); err != nil {
			return fmt.Errorf("failed to prepare radial gradient instances: %w", err)
		}
		if err := l.radialInstances.Write(scope, 0, radial); err != nil {
			return fmt.Errorf("failed to prepare radial gradient instances: %w", err)
		}
	}

	l.instanceCount = len(instances)
	return nil
}

// InstanceCount returns the total instance count from the most recent
// Prepare. It is bookkeeping for diagnostics only; draw correctness is
// driven by the explicit ranges the caller supplies.
func (l *Layer) InstanceCount() int {
	return l.instanceCount
}

// Release frees both kind buffers. The layer must not be used afterwards.
func (l *Layer) Release() {
	l.linearInstances.Release()
	l.radialInstances.Release()
}
