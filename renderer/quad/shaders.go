package quad

import (
	_ "embed"
	"strings"
)

// The gradient shader is assembled from ordered WGSL fragments. The order is
// part of the contract: later fragments reference symbols declared in
// earlier ones, so reordering is a functional regression.

//go:embed shaders/quad.wgsl
var quadSource string

//go:embed shaders/vertex.wgsl
var vertexSource string

//go:embed shaders/gradient_linear.wgsl
var linearFillSource string

//go:embed shaders/gradient_radial.wgsl
var radialFillSource string

//go:embed shaders/color.wgsl
var colorSource string

//go:embed shaders/linear_rgb.wgsl
var linearRGBSource string

// gradientShaderSource assembles the complete WGSL module for one gradient
// kind: shared quad shape, shared vertex transform, the kind's fill, shared
// color interpolation, shared color-space linearization.
func gradientShaderSource(fillSource string) string {
	return strings.Join([]string{
		quadSource,
		vertexSource,
		fillSource,
		colorSource,
		linearRGBSource,
	}, "\n")
}
