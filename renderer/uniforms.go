package renderer

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/lumen-ui/lumen/common"
)

// UniformsSize is the byte size of the marshaled Uniforms, padded to the
// 16-byte struct alignment the shader-side declaration requires.
const UniformsSize = 80

// Uniforms is the per-frame shared state bound at group 0 of every gradient
// pipeline: the viewport projection and the window scale factor.
type Uniforms struct {
	// Transform is the column-major orthographic projection from physical
	// pixel coordinates to clip space.
	Transform [16]float32

	// Scale is the window scale factor applied to logical coordinates in the
	// vertex shader.
	Scale float32
}

// NewUniforms builds the uniforms for a viewport of the given physical pixel
// size and scale factor.
//
// Parameters:
//   - physicalWidth: viewport width in physical pixels (must be > 0)
//   - physicalHeight: viewport height in physical pixels (must be > 0)
//   - scale: the window scale factor relating logical to physical pixels
//
// Returns:
//   - Uniforms: the uniforms ready to marshal and upload
func NewUniforms(physicalWidth, physicalHeight int, scale float32) Uniforms {
	u := Uniforms{Scale: scale}
	common.Ortho(u.Transform[:], float32(physicalWidth), float32(physicalHeight))
	return u
}

// Marshal serializes the uniforms into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 80-byte buffer ready for GPU upload.
func (u Uniforms) Marshal() []byte {
	data := make([]byte, UniformsSize)
	for i, v := range u.Transform {
		binary.LittleEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	binary.LittleEndian.PutUint32(data[64:], math.Float32bits(u.Scale))
	return data
}

// constants owns the shared uniform buffer and its bind group. The layout is
// handed to pipeline creation; the group is bound at group 0 during rendering.
type constants struct {
	buffer *wgpu.Buffer
	layout *wgpu.BindGroupLayout
	group  *wgpu.BindGroup
}

func newConstants(device *wgpu.Device) (*constants, error) {
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "lumen.renderer.constants.buffer",
		Size:  UniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create constants buffer: %w", err)
	}

	layout, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "lumen.renderer.constants.layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: UniformsSize,
			},
		}},
	})
	if err != nil {
		buf.Release()
		return nil, fmt.Errorf("failed to create constants layout: %w", err)
	}

	group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "lumen.renderer.constants.group",
		Layout: layout,
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    UniformsSize,
		}},
	})
	if err != nil {
		layout.Release()
		buf.Release()
		return nil, fmt.Errorf("failed to create constants bind group: %w", err)
	}

	return &constants{
		buffer: buf,
		layout: layout,
		group:  group,
	}, nil
}

func (c *constants) release() {
	c.group.Release()
	c.layout.Release()
	c.buffer.Release()
}
