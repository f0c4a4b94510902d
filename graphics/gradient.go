package graphics

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
)

// MaxStops is the fixed capacity of a packed gradient. Additional stops are
// truncated at encoding time rather than rejected.
const MaxStops = 8

// PackedSize is the size in bytes of a packed gradient record
// (8 colors × 8 bytes + 4 offset words + 4 geometry floats).
const PackedSize = 96

// offsetSentinel fills unused offset slots. Sample positions are in [0, 1],
// so a padded slot can never win the shader's "first offset >= position"
// stop selection.
const offsetSentinel float32 = 2.0

// Point is a position in the local coordinate space of a quad, where (0, 0)
// is the top-left corner and (1, 1) the bottom-right.
type Point struct {
	X, Y float32
}

// Stop is a single point along a color ramp: a color and its normalized
// position within the gradient.
type Stop struct {
	// Offset is the stop's position along the gradient in [0, 1].
	Offset float32

	// Color is the color the gradient reaches at this offset.
	Color Color
}

// Linear is a gradient that interpolates colors along a straight line from
// Start to End in local quad space.
type Linear struct {
	// Start is the point where the first stop's color applies.
	Start Point

	// End is the point where the last stop's color applies.
	End Point

	// Stops holds the color ramp in ascending offset order.
	// Stops beyond MaxStops are truncated when packing.
	Stops []Stop
}

// NewLinear creates a linear gradient spanning the unit quad at the given
// angle in radians. An angle of 0 runs left to right; angles rotate
// counter-clockwise.
//
// Parameters:
//   - angle: the gradient direction in radians
//
// Returns:
//   - Linear: a gradient with Start and End set and no stops
func NewLinear(angle float32) Linear {
	dx := math32.Cos(angle) / 2
	dy := math32.Sin(angle) / 2
	return Linear{
		Start: Point{X: 0.5 - dx, Y: 0.5 - dy},
		End:   Point{X: 0.5 + dx, Y: 0.5 + dy},
	}
}

// AddStop returns a copy of the gradient with a stop inserted in ascending
// offset order. Insertion is stable: a stop with an offset equal to an
// existing one is placed after it.
//
// Parameters:
//   - offset: the stop position in [0, 1]
//   - color: the color at that position
//
// Returns:
//   - Linear: the gradient with the stop added
func (l Linear) AddStop(offset float32, color Color) Linear {
	l.Stops = insertStop(l.Stops, Stop{Offset: offset, Color: color})
	return l
}

// Pack encodes the gradient into its fixed-layout GPU record.
func (l Linear) Pack() LinearPacked {
	colors, offsets := packStops(l.Stops)
	return LinearPacked{
		Colors:    colors,
		Offsets:   offsets,
		Direction: [4]float32{l.Start.X, l.Start.Y, l.End.X, l.End.Y},
	}
}

// Radial is a gradient that interpolates colors radially outward from Center,
// between a start and end radius in local quad space.
type Radial struct {
	// Center is the gradient origin.
	Center Point

	// Radii holds the start and end radius of the ramp.
	Radii [2]float32

	// Stops holds the color ramp in ascending offset order.
	// Stops beyond MaxStops are truncated when packing.
	Stops []Stop
}

// NewRadial creates a radial gradient centered at the given point, ramping
// from startRadius to endRadius.
//
// Parameters:
//   - center: the gradient origin in local quad space
//   - startRadius: the radius where the first stop's color applies
//   - endRadius: the radius where the last stop's color applies
//
// Returns:
//   - Radial: a gradient with geometry set and no stops
func NewRadial(center Point, startRadius, endRadius float32) Radial {
	return Radial{
		Center: center,
		Radii:  [2]float32{startRadius, endRadius},
	}
}

// AddStop returns a copy of the gradient with a stop inserted in ascending
// offset order. Insertion is stable: a stop with an offset equal to an
// existing one is placed after it.
//
// Parameters:
//   - offset: the stop position in [0, 1]
//   - color: the color at that position
//
// Returns:
//   - Radial: the gradient with the stop added
func (r Radial) AddStop(offset float32, color Color) Radial {
	r.Stops = insertStop(r.Stops, Stop{Offset: offset, Color: color})
	return r
}

// Pack encodes the gradient into its fixed-layout GPU record.
func (r Radial) Pack() RadialPacked {
	colors, offsets := packStops(r.Stops)
	return RadialPacked{
		Colors:         colors,
		Offsets:        offsets,
		CenterAndRadii: [4]float32{r.Center.X, r.Center.Y, r.Radii[0], r.Radii[1]},
	}
}

// Packed is a gradient encoded for GPU upload. It is a closed variant: the
// only implementations are LinearPacked and RadialPacked, and renderers
// branch on the concrete type to select buffers and pipelines.
type Packed interface {
	isPacked()
}

// LinearPacked is the fixed-layout encoding of a linear gradient.
// Colors hold up to 8 stops as half-float RGBA pairs (unused slots zero),
// Offsets hold 8 half-float stop positions two per word (unused slots hold a
// sentinel >= 1.0), and Direction is the start and end point of the ramp.
type LinearPacked struct {
	Colors    [MaxStops][2]uint32
	Offsets   [MaxStops / 2]uint32
	Direction [4]float32
}

// RadialPacked is the fixed-layout encoding of a radial gradient.
// Colors and Offsets are laid out as in LinearPacked; CenterAndRadii holds
// the center point followed by the start and end radius.
type RadialPacked struct {
	Colors         [MaxStops][2]uint32
	Offsets        [MaxStops / 2]uint32
	CenterAndRadii [4]float32
}

func (LinearPacked) isPacked() {}
func (RadialPacked) isPacked() {}

// Stops decodes the packed color ramp back into stops. Slots holding the
// padding sentinel are never part of the result.
func (p LinearPacked) Stops() []Stop {
	return unpackStops(p.Colors, p.Offsets)
}

// Stops decodes the packed color ramp back into stops. Slots holding the
// padding sentinel are never part of the result.
func (p RadialPacked) Stops() []Stop {
	return unpackStops(p.Colors, p.Offsets)
}

// Marshal serializes the packed gradient into a byte buffer suitable for GPU
// upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (p LinearPacked) Marshal() []byte {
	return marshalPacked(p.Colors, p.Offsets, p.Direction)
}

// Marshal serializes the packed gradient into a byte buffer suitable for GPU
// upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload.
func (p RadialPacked) Marshal() []byte {
	return marshalPacked(p.Colors, p.Offsets, p.CenterAndRadii)
}

func marshalPacked(colors [MaxStops][2]uint32, offsets [MaxStops / 2]uint32, geometry [4]float32) []byte {
	buf := make([]byte, PackedSize)
	for i, c := range colors {
		binary.LittleEndian.PutUint32(buf[i*8:], c[0])
		binary.LittleEndian.PutUint32(buf[i*8+4:], c[1])
	}
	for i, w := range offsets {
		binary.LittleEndian.PutUint32(buf[64+i*4:], w)
	}
	for i, f := range geometry {
		binary.LittleEndian.PutUint32(buf[80+i*4:], math.Float32bits(f))
	}
	return buf
}

// insertStop inserts a stop keeping ascending offset order, stably.
func insertStop(stops []Stop, s Stop) []Stop {
	i := len(stops)
	for i > 0 && stops[i-1].Offset > s.Offset {
		i--
	}
	stops = append(stops, Stop{})
	copy(stops[i+1:], stops[i:])
	stops[i] = s
	return stops
}

// packStops transcribes a stop list into the fixed-capacity color and offset
// words. This is structural transcription, not validation: offsets are
// clamped into [0, 1] and forced non-decreasing, stops beyond MaxStops are
// dropped, and there is no error path.
func packStops(stops []Stop) (colors [MaxStops][2]uint32, offsets [MaxStops / 2]uint32) {
	var packed [MaxStops]float32
	prev := float32(0)
	for i := 0; i < MaxStops; i++ {
		if i >= len(stops) {
			packed[i] = offsetSentinel
			continue
		}
		off := stops[i].Offset
		if off < prev {
			off = prev
		}
		if off > 1 {
			off = 1
		}
		prev = off
		packed[i] = off
		colors[i] = stops[i].Color.Pack()
	}
	for i := range offsets {
		offsets[i] = packF16Pair(packed[i*2], packed[i*2+1])
	}
	return colors, offsets
}

// unpackStops decodes packed words back into stops, stopping at the first
// offset beyond the valid [0, 1] range.
func unpackStops(colors [MaxStops][2]uint32, offsets [MaxStops / 2]uint32) []Stop {
	var stops []Stop
	for i := 0; i < MaxStops; i++ {
		lo, hi := unpackF16Pair(offsets[i/2])
		off := lo
		if i%2 == 1 {
			off = hi
		}
		if off > 1 {
			break
		}
		stops = append(stops, Stop{Offset: off, Color: unpackColor(colors[i])})
	}
	return stops
}
