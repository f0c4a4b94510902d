package graphics

import "math"

// Half-float (IEEE 754 binary16) conversion helpers for the gradient wire
// format. Gradient colors and stop offsets are stored as f16 pairs packed
// into 32-bit words, matching the shader-side unpack2x16float calls.

// float16Bits converts a float32 to its binary16 bit pattern, rounding to
// nearest even. Values above the binary16 range become infinity; values below
// the smallest subnormal flush to signed zero.
func float16Bits(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16((b >> 16) & 0x8000)
	exp := int32((b>>23)&0xff) - 127 + 15
	mant := b & 0x7fffff

	switch {
	case int32((b>>23)&0xff) == 0xff:
		if mant != 0 {
			return sign | 0x7e00 // NaN
		}
		return sign | 0x7c00 // Inf
	case exp >= 0x1f:
		return sign | 0x7c00 // overflow to Inf
	case exp <= 0:
		if exp < -10 {
			return sign // underflow to zero
		}
		// Subnormal: shift the implicit leading 1 into the mantissa.
		mant |= 0x800000
		shift := uint32(14 - exp)
		half := uint16(mant >> shift)
		rem := mant & ((1 << shift) - 1)
		mid := uint32(1) << (shift - 1)
		if rem > mid || (rem == mid && half&1 == 1) {
			half++
		}
		return sign | half
	default:
		half := sign | uint16(exp)<<10 | uint16(mant>>13)
		rem := mant & 0x1fff
		if rem > 0x1000 || (rem == 0x1000 && half&1 == 1) {
			half++ // carry may bump the exponent; that is the correct rounding
		}
		return half
	}
}

// float16From converts a binary16 bit pattern back to float32.
func float16From(h uint16) float32 {
	sign := uint32(h&0x8000) << 16
	exp := uint32(h>>10) & 0x1f
	mant := uint32(h & 0x3ff)

	switch {
	case exp == 0x1f:
		return math.Float32frombits(sign | 0x7f800000 | mant<<13)
	case exp == 0:
		if mant == 0 {
			return math.Float32frombits(sign)
		}
		// Subnormal: value = mant × 2^-24.
		f := float32(mant) * (1.0 / (1 << 24))
		if sign != 0 {
			return -f
		}
		return f
	default:
		return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
	}
}

// packF16Pair packs two float32 values into one 32-bit word as half floats,
// first value in the low half.
func packF16Pair(lo, hi float32) uint32 {
	return uint32(float16Bits(lo)) | uint32(float16Bits(hi))<<16
}

// unpackF16Pair splits a packed word back into its two half-float values.
func unpackF16Pair(w uint32) (lo, hi float32) {
	return float16From(uint16(w)), float16From(uint16(w >> 16))
}
