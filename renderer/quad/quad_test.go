package quad

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuadMarshalLayout(t *testing.T) {
	q := Quad{
		Position:     [2]float32{10, 20},
		Scale:        [2]float32{300, 150},
		BorderColor:  [4]float32{0.1, 0.2, 0.3, 0.4},
		BorderRadius: [4]float32{1, 2, 3, 4},
		BorderWidth:  2.5,
		Snap:         1,
	}

	data := q.Marshal()
	require.Len(t, data, QuadSize)

	f32 := func(offset int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
	}

	assert.Equal(t, float32(10), f32(0))
	assert.Equal(t, float32(20), f32(4))
	assert.Equal(t, float32(300), f32(8))
	assert.Equal(t, float32(150), f32(12))
	assert.Equal(t, float32(0.1), f32(16))
	assert.Equal(t, float32(0.4), f32(28))
	assert.Equal(t, float32(1), f32(32))
	assert.Equal(t, float32(4), f32(44))
	assert.Equal(t, float32(2.5), f32(48))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(data[52:]))
}

// vertexFormatSize gives the byte width of the formats the gradient layout
// uses, for checking the attribute offsets are packed with no gaps.
func vertexFormatSize(format wgpu.VertexFormat) uint64 {
	switch format {
	case wgpu.VertexFormatUint32x4, wgpu.VertexFormatFloat32x4:
		return 16
	case wgpu.VertexFormatUint32, wgpu.VertexFormatFloat32:
		return 4
	default:
		return 0
	}
}

func TestGradientVertexAttributesMatchInstanceLayout(t *testing.T) {
	attributes := gradientVertexAttributes()
	require.Len(t, attributes, 11)

	var offset uint64
	for i, attr := range attributes {
		assert.Equal(t, uint32(i), attr.ShaderLocation, "locations are consecutive")
		assert.Equal(t, offset, attr.Offset, "attribute %d is packed with no gap", i)

		size := vertexFormatSize(attr.Format)
		require.NotZero(t, size, "attribute %d has a known format", i)
		offset += size
	}

	// The attributes tile the record exactly: the end of the last one is the
	// stride of the instance buffer.
	assert.Equal(t, uint64(GradientInstanceSize), offset)
}

func TestGradientVertexAttributeKinds(t *testing.T) {
	attributes := gradientVertexAttributes()
	require.Len(t, attributes, 11)

	// Packed color and offset words are integer data; geometry, quad shape,
	// and border fields are floats; the snap flag is a single word.
	for i := 0; i < 5; i++ {
		assert.Equal(t, wgpu.VertexFormatUint32x4, attributes[i].Format, "attribute %d", i)
	}
	for i := 5; i < 9; i++ {
		assert.Equal(t, wgpu.VertexFormatFloat32x4, attributes[i].Format, "attribute %d", i)
	}
	assert.Equal(t, wgpu.VertexFormatFloat32, attributes[9].Format)
	assert.Equal(t, wgpu.VertexFormatUint32, attributes[10].Format)
}

func TestColorTargetStates(t *testing.T) {
	targets := ColorTargetStates(wgpu.TextureFormatBGRA8Unorm)
	require.Len(t, targets, 1)

	target := targets[0]
	assert.Equal(t, wgpu.TextureFormatBGRA8Unorm, target.Format)
	assert.Equal(t, wgpu.ColorWriteMaskAll, target.WriteMask)

	require.NotNil(t, target.Blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, target.Blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, target.Blend.Color.DstFactor)
	assert.Equal(t, wgpu.BlendFactorOne, target.Blend.Alpha.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, target.Blend.Alpha.DstFactor)
}

func TestGradientShaderSourceOrder(t *testing.T) {
	source := gradientShaderSource(linearFillSource)

	// Later fragments reference symbols declared in earlier ones, so the
	// assembly order is load-bearing.
	quadIdx := indexOf(t, source, "fn distance_alg")
	vertexIdx := indexOf(t, source, "fn vertex_position")
	fillIdx := indexOf(t, source, "fn gradient_fs_main")
	colorIdx := indexOf(t, source, "fn interpolate_color")
	linearRGBIdx := indexOf(t, source, "fn to_linear_rgb")

	assert.Less(t, quadIdx, vertexIdx)
	assert.Less(t, vertexIdx, fillIdx)
	assert.Less(t, fillIdx, colorIdx)
	assert.Less(t, colorIdx, linearRGBIdx)
}

func TestGradientShaderSourceKinds(t *testing.T) {
	linear := gradientShaderSource(linearFillSource)
	assert.Contains(t, linear, "direction: vec4<f32>")
	assert.NotContains(t, linear, "center_and_radii")

	radial := gradientShaderSource(radialFillSource)
	assert.Contains(t, radial, "center_and_radii: vec4<f32>")
	assert.NotContains(t, radial, "direction: vec4<f32>")
}

func indexOf(t *testing.T, source, needle string) int {
	t.Helper()
	idx := strings.Index(source, needle)
	require.GreaterOrEqual(t, idx, 0, "shader source contains %q", needle)
	return idx
}
