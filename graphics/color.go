// package graphics contains the CPU-side drawing model shared by the rendering
// backend: colors, gradients, and their fixed-layout GPU encodings.
package graphics

// Color is a straight-alpha RGBA color with float32 components in [0, 1].
// Components are interpreted as sRGB; interpolation in linear space is done
// on the GPU by the color linearization shader fragment.
type Color struct {
	R, G, B, A float32
}

// Pack encodes the color into two 32-bit words: four half-float channels,
// two channels per word (R|G then B|A, low half first). This is the per-color
// wire format of the gradient instance record.
//
// Returns:
//   - [2]uint32: the packed color words
func (c Color) Pack() [2]uint32 {
	return [2]uint32{
		packF16Pair(c.R, c.G),
		packF16Pair(c.B, c.A),
	}
}

// unpackColor decodes two packed color words back into a Color.
func unpackColor(words [2]uint32) Color {
	r, g := unpackF16Pair(words[0])
	b, a := unpackF16Pair(words[1])
	return Color{R: r, G: g, B: b, A: a}
}
