// package quad renders axis-aligned rectangles. This package carries the
// gradient-filled variant: the packed instance records, the per-frame
// instance layer, and the two compiled gradient pipelines.
package quad

import (
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// InitialInstances is the starting capacity of each per-kind instance buffer.
// Buffers grow beyond it on demand and never shrink.
const InitialInstances = 2_000

// QuadSize is the marshaled size of a Quad in bytes.
const QuadSize = 56

// Quad is the kind-independent shape description of a rendered rectangle:
// where it sits, how big it is, and how its border is drawn.
type Quad struct {
	// Position is the top-left corner in logical coordinates.
	Position [2]float32

	// Scale is the width and height in logical coordinates.
	Scale [2]float32

	// BorderColor is the straight-alpha RGBA border color.
	BorderColor [4]float32

	// BorderRadius is the corner rounding radius per corner, ordered
	// top-left, top-right, bottom-right, bottom-left.
	BorderRadius [4]float32

	// BorderWidth is the border thickness in logical coordinates.
	BorderWidth float32

	// Snap is nonzero to snap the quad to the physical pixel grid.
	Snap uint32
}

// Marshal serializes the quad into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 56-byte buffer ready for GPU upload.
func (q *Quad) Marshal() []byte {
	buf := make([]byte, QuadSize)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(q.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(q.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:], math.Float32bits(q.Scale[0]))
	binary.LittleEndian.PutUint32(buf[12:], math.Float32bits(q.Scale[1]))
	for i, f := range q.BorderColor {
		binary.LittleEndian.PutUint32(buf[16+i*4:], math.Float32bits(f))
	}
	for i, f := range q.BorderRadius {
		binary.LittleEndian.PutUint32(buf[32+i*4:], math.Float32bits(f))
	}
	binary.LittleEndian.PutUint32(buf[48:], math.Float32bits(q.BorderWidth))
	binary.LittleEndian.PutUint32(buf[52:], q.Snap)
	return buf
}

// ColorTargetStates returns the color target configuration shared by all quad
// pipelines: the active render target's pixel format with standard
// source-over alpha blending.
//
// Parameters:
//   - format: the render target's pixel format
//
// Returns:
//   - []wgpu.ColorTargetState: the single-target state list
func ColorTargetStates(format wgpu.TextureFormat) []wgpu.ColorTargetState {
	return []wgpu.ColorTargetState{{
		Format: format,
		Blend: &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		},
		WriteMask: wgpu.ColorWriteMaskAll,
	}}
}
