package graphics

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Colors and offsets below use values exactly representable in binary16, so
// round trips through the packed encoding are exact.

func TestLinearPackRoundTrip(t *testing.T) {
	g := NewLinear(0).
		AddStop(0, Color{R: 1, A: 1}).
		AddStop(0.5, Color{G: 0.5, A: 1}).
		AddStop(1, Color{B: 0.25, A: 0.75})

	stops := g.Pack().Stops()
	require.Len(t, stops, 3)
	assert.Equal(t, Stop{Offset: 0, Color: Color{R: 1, A: 1}}, stops[0])
	assert.Equal(t, Stop{Offset: 0.5, Color: Color{G: 0.5, A: 1}}, stops[1])
	assert.Equal(t, Stop{Offset: 1, Color: Color{B: 0.25, A: 0.75}}, stops[2])
}

func TestRadialPackRoundTrip(t *testing.T) {
	g := NewRadial(Point{X: 0.5, Y: 0.5}, 0, 1).
		AddStop(0, Color{R: 1, G: 1, B: 1, A: 1}).
		AddStop(1, Color{A: 1})

	p := g.Pack()
	assert.Equal(t, [4]float32{0.5, 0.5, 0, 1}, p.CenterAndRadii)

	stops := p.Stops()
	require.Len(t, stops, 2)
	assert.Equal(t, Color{R: 1, G: 1, B: 1, A: 1}, stops[0].Color)
	assert.Equal(t, float32(1), stops[1].Offset)
}

func TestPackTruncatesExtraStops(t *testing.T) {
	g := NewLinear(0)
	for i := 0; i < 12; i++ {
		g = g.AddStop(float32(i)/16, Color{R: float32(i) / 16, A: 1})
	}
	require.Len(t, g.Stops, 12)

	stops := g.Pack().Stops()
	require.Len(t, stops, MaxStops)
	for i, s := range stops {
		assert.Equal(t, float32(i)/16, s.Offset)
	}
}

func TestPackPadsUnusedSlotsWithSentinel(t *testing.T) {
	g := NewLinear(0).
		AddStop(0, Color{A: 1}).
		AddStop(1, Color{R: 1, A: 1})

	p := g.Pack()

	// Slots 0 and 1 hold the real offsets; every later slot holds the
	// sentinel so shader-side stop selection can never pick it.
	lo, hi := unpackF16Pair(p.Offsets[0])
	assert.Equal(t, float32(0), lo)
	assert.Equal(t, float32(1), hi)
	for i := 1; i < MaxStops/2; i++ {
		lo, hi := unpackF16Pair(p.Offsets[i])
		assert.Greater(t, lo, float32(1))
		assert.Greater(t, hi, float32(1))
	}

	// Unused color slots stay zero.
	for i := 2; i < MaxStops; i++ {
		assert.Equal(t, [2]uint32{}, p.Colors[i])
	}
}

func TestPackClampsOffsets(t *testing.T) {
	tests := []struct {
		name string
		in   []float32
		want []float32
	}{
		{
			name: "above one clamps to one",
			in:   []float32{0, 1.5},
			want: []float32{0, 1},
		},
		{
			name: "below zero clamps to zero",
			in:   []float32{-0.5, 1},
			want: []float32{0, 1},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			stops := make([]Stop, len(test.in))
			for i, off := range test.in {
				stops[i] = Stop{Offset: off, Color: Color{A: 1}}
			}
			colors, offsets := packStops(stops)
			got := unpackStops(colors, offsets)
			require.Len(t, got, len(test.want))
			for i, want := range test.want {
				assert.Equal(t, want, got[i].Offset)
			}
		})
	}
}

func TestPackForcesNonDecreasingOffsets(t *testing.T) {
	// packStops transcribes in slice order without sorting; an out-of-order
	// offset is raised to its predecessor instead.
	colors, offsets := packStops([]Stop{
		{Offset: 0.5, Color: Color{R: 1}},
		{Offset: 0.25, Color: Color{G: 1}},
		{Offset: 0.75, Color: Color{B: 1}},
	})
	got := unpackStops(colors, offsets)
	require.Len(t, got, 3)
	assert.Equal(t, float32(0.5), got[0].Offset)
	assert.Equal(t, float32(0.5), got[1].Offset)
	assert.Equal(t, float32(0.75), got[2].Offset)
}

func TestAddStopKeepsAscendingOrder(t *testing.T) {
	g := NewLinear(0).
		AddStop(0.75, Color{R: 1}).
		AddStop(0.25, Color{G: 1}).
		AddStop(0.5, Color{B: 1})

	require.Len(t, g.Stops, 3)
	assert.Equal(t, float32(0.25), g.Stops[0].Offset)
	assert.Equal(t, float32(0.5), g.Stops[1].Offset)
	assert.Equal(t, float32(0.75), g.Stops[2].Offset)
}

func TestAddStopEqualOffsetsAreStable(t *testing.T) {
	g := NewLinear(0).
		AddStop(0.5, Color{R: 1}).
		AddStop(0.5, Color{G: 1})

	require.Len(t, g.Stops, 2)
	assert.Equal(t, Color{R: 1}, g.Stops[0].Color)
	assert.Equal(t, Color{G: 1}, g.Stops[1].Color)
}

func TestNewLinearGeometry(t *testing.T) {
	tests := []struct {
		name  string
		angle float32
		start Point
		end   Point
	}{
		{name: "left to right", angle: 0, start: Point{X: 0, Y: 0.5}, end: Point{X: 1, Y: 0.5}},
		{name: "top to bottom", angle: math.Pi / 2, start: Point{X: 0.5, Y: 0}, end: Point{X: 0.5, Y: 1}},
		{name: "right to left", angle: math.Pi, start: Point{X: 1, Y: 0.5}, end: Point{X: 0, Y: 0.5}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := NewLinear(test.angle)
			assert.InDelta(t, test.start.X, g.Start.X, 1e-6)
			assert.InDelta(t, test.start.Y, g.Start.Y, 1e-6)
			assert.InDelta(t, test.end.X, g.End.X, 1e-6)
			assert.InDelta(t, test.end.Y, g.End.Y, 1e-6)
		})
	}
}

func TestMarshalLayout(t *testing.T) {
	g := NewLinear(0).
		AddStop(0, Color{R: 1, A: 1}).
		AddStop(1, Color{B: 1, A: 1})
	p := g.Pack()

	data := p.Marshal()
	require.Len(t, data, PackedSize)

	// Colors occupy bytes [0, 64), two words per stop, little endian.
	for i, c := range p.Colors {
		assert.Equal(t, c[0], binary.LittleEndian.Uint32(data[i*8:]))
		assert.Equal(t, c[1], binary.LittleEndian.Uint32(data[i*8+4:]))
	}

	// Offset words occupy bytes [64, 80).
	for i, w := range p.Offsets {
		assert.Equal(t, w, binary.LittleEndian.Uint32(data[64+i*4:]))
	}

	// Geometry occupies bytes [80, 96) as float32 bits.
	for i, f := range p.Direction {
		assert.Equal(t, math.Float32bits(f), binary.LittleEndian.Uint32(data[80+i*4:]))
	}
}

func TestColorPackOrdering(t *testing.T) {
	c := Color{R: 1, G: 0.5, B: 0.25, A: 1}
	words := c.Pack()

	r, g := unpackF16Pair(words[0])
	b, a := unpackF16Pair(words[1])
	assert.Equal(t, float32(1), r)
	assert.Equal(t, float32(0.5), g)
	assert.Equal(t, float32(0.25), b)
	assert.Equal(t, float32(1), a)
}
