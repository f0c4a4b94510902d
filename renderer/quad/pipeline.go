package quad

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Pipeline holds the two compiled gradient render pipelines. It is built once
// at backend startup and immutable afterwards; render calls only read it.
type Pipeline struct {
	linearGradientPipeline *wgpu.RenderPipeline
	radialGradientPipeline *wgpu.RenderPipeline
}

// NewPipeline compiles both kind pipelines against the given output pixel
// format and the shared uniform bind group layout (bound at group 0 during
// rendering).
//
// Parameters:
//   - device: the GPU device
//   - format: the active render target's pixel format
//   - constantsLayout: the bind group layout of the shared uniforms
//
// Returns:
//   - *Pipeline: the compiled pipelines
//   - error: an error if shader compilation or pipeline creation fails;
//     treated as fatal at startup
func NewPipeline(device *wgpu.Device, format wgpu.TextureFormat, constantsLayout *wgpu.BindGroupLayout) (*Pipeline, error) {
	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "lumen.quad.gradient.pipeline",
		BindGroupLayouts: []*wgpu.BindGroupLayout{constantsLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gradient pipeline layout: %w", err)
	}

	linear, err := createGradientPipeline(device, layout, format, "linear", linearFillSource)
	if err != nil {
		return nil, err
	}

	radial, err := createGradientPipeline(device, layout, format, "radial", radialFillSource)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		linearGradientPipeline: linear,
		radialGradientPipeline: radial,
	}, nil
}

// gradientVertexAttributes is the instance-stepped vertex layout shared by
// both kinds. Attribute order, formats, and offsets are the CPU/GPU wire
// contract: they must match the flattened instance record byte for byte and
// the shader's input locations one for one.
func gradientVertexAttributes() []wgpu.VertexAttribute {
	return []wgpu.VertexAttribute{
		// Colors 1-2
		{Format: wgpu.VertexFormatUint32x4, Offset: 0, ShaderLocation: 0},
		// Colors 3-4
		{Format: wgpu.VertexFormatUint32x4, Offset: 16, ShaderLocation: 1},
		// Colors 5-6
		{Format: wgpu.VertexFormatUint32x4, Offset: 32, ShaderLocation: 2},
		// Colors 7-8
		{Format: wgpu.VertexFormatUint32x4, Offset: 48, ShaderLocation: 3},
		// Offsets 1-8, two per word
		{Format: wgpu.VertexFormatUint32x4, Offset: 64, ShaderLocation: 4},
		// Direction (linear) / center and radii (radial)
		{Format: wgpu.VertexFormatFloat32x4, Offset: 80, ShaderLocation: 5},
		// Position and scale
		{Format: wgpu.VertexFormatFloat32x4, Offset: 96, ShaderLocation: 6},
		// Border color
		{Format: wgpu.VertexFormatFloat32x4, Offset: 112, ShaderLocation: 7},
		// Border radius, one per corner
		{Format: wgpu.VertexFormatFloat32x4, Offset: 128, ShaderLocation: 8},
		// Border width
		{Format: wgpu.VertexFormatFloat32, Offset: 144, ShaderLocation: 9},
		// Pixel snap flag
		{Format: wgpu.VertexFormatUint32, Offset: 148, ShaderLocation: 10},
	}
}

func createGradientPipeline(
	device *wgpu.Device,
	layout *wgpu.PipelineLayout,
	format wgpu.TextureFormat,
	gradientType string,
	fillSource string,
) (*wgpu.RenderPipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fmt.Sprintf("lumen.quad.gradient.%s.shader", gradientType),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: gradientShaderSource(fillSource),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to compile %s gradient shader: %w", gradientType, err)
	}

	created, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("lumen.quad.gradient.%s.pipeline", gradientType),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "gradient_vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: GradientInstanceSize,
				StepMode:    wgpu.VertexStepModeInstance,
				Attributes:  gradientVertexAttributes(),
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "gradient_fs_main",
			Targets:    ColorTargetStates(format),
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s gradient pipeline: %w", gradientType, err)
	}
	return created, nil
}

// Render binds the pipeline and instance buffer matching the strategy, binds
// the shared uniforms at group 0, and draws the quad's two triangles
// instanced over the half-open record range [start, end).
//
// The range must lie within the matching kind's most recently prepared
// length; that precondition belongs to the collaborator that partitions the
// frame into same-kind batches and is not re-checked here.
//
// Parameters:
//   - pass: the recorded render pass
//   - constants: the shared uniform bind group
//   - layer: the layer whose buffers were prepared this frame
//   - start: the first instance record to draw
//   - end: one past the last instance record to draw
//   - strategy: which gradient kind to draw
func (p *Pipeline) Render(
	pass *wgpu.RenderPassEncoder,
	constants *wgpu.BindGroup,
	layer *Layer,
	start, end int,
	strategy RenderStrategy,
) {
	switch strategy {
	case RenderStrategyLinear:
		pass.SetPipeline(p.linearGradientPipeline)
		pass.SetVertexBuffer(0, layer.linearInstances.Raw(), 0, wgpu.WholeSize)
	case RenderStrategyRadial:
		pass.SetPipeline(p.radialGradientPipeline)
		pass.SetVertexBuffer(0, layer.radialInstances.Raw(), 0, wgpu.WholeSize)
	}
	pass.SetBindGroup(0, constants, nil)
	pass.Draw(6, uint32(end-start), 0, uint32(start))
}
