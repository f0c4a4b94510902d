// package common contains common types that are used throughout this backend. They are not interface-wrapped structs, just plain helpers that express
// commonly used data-types and math.
package common

// Identity resets a 4x4 matrix (flat slice) to the identity matrix.
// The matrix is stored in column-major order.
//
// Parameters:
//   - m: destination slice (must be at least 16 elements)
func Identity(m []float32) {
	for i := range m {
		m[i] = 0
	}
	m[0], m[5], m[10], m[15] = 1, 1, 1, 1
}

// Ortho creates a 2D orthographic projection matrix mapping logical viewport
// coordinates (origin top-left, y down) to WebGPU clip space (y up, z in [0, 1]).
// The matrix is stored in column-major order (WebGPU convention).
//
// Parameters:
//   - out: destination slice (must be at least 16 elements)
//   - width: logical viewport width (must be > 0)
//   - height: logical viewport height (must be > 0)
func Ortho(out []float32, width, height float32) {
	Identity(out)
	out[0] = 2.0 / width
	out[5] = -2.0 / height
	out[12] = -1.0
	out[13] = 1.0
}

// Scale applies a uniform scale to the x and y axes of a column-major 4x4
// matrix in place. Used to fold the window scale factor into the viewport
// projection without a full matrix multiply.
//
// Parameters:
//   - m: the matrix to scale (must be at least 16 elements)
//   - factor: the uniform scale factor to apply
func Scale(m []float32, factor float32) {
	m[0] *= factor
	m[1] *= factor
	m[4] *= factor
	m[5] *= factor
}
