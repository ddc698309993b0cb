package textextrude

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
	"github.com/unixpickle/model3d/model3d"
)

const (
	fakeAdvance = 12.0
	fakeBearing = 1.0
	fakeSize    = 10.0
)

// fakeProvider lays out fixed-advance square glyphs. 'O' has a square
// hole, every other non-space rune is a solid square.
type fakeProvider struct{}

func (fakeProvider) Outline(r rune) Outline {
	if r == ' ' {
		return nil
	}
	outer := squareRing(fakeBearing, 0, fakeSize)
	if r == 'O' {
		return OrientRings(Outline{outer, squareRing(fakeBearing+3, -3, fakeSize-6)})
	}
	return OrientRings(Outline{outer})
}

func (p fakeProvider) Tessellation(r rune) *Mesh {
	if r == ' ' {
		return NewMesh()
	}
	if r == 'O' {
		return TessellateOutline(p.Outline(r))
	}
	// Two triangles over the four ring points, deliberately wound in
	// opposite directions.
	m := NewMesh()
	for _, c := range squareRing(fakeBearing, 0, fakeSize) {
		m.Vertices = append(m.Vertices, model3d.XYZ(c.X, c.Y, 0))
	}
	m.Indices = []int{0, 1, 2, 0, 3, 2}
	return m
}

func (fakeProvider) BoundingBox(s string, x, y float64) BoundingBox {
	minX, maxX := math.Inf(1), math.Inf(-1)
	for i, r := range []rune(s) {
		if r == ' ' {
			continue
		}
		pen := float64(i) * fakeAdvance
		minX = math.Min(minX, pen+fakeBearing)
		maxX = math.Max(maxX, pen+fakeBearing+fakeSize)
	}
	if math.IsInf(minX, 1) {
		return BoundingBox{X: x, Y: y}
	}
	return BoundingBox{X: minX + x, Y: y - fakeSize, Width: maxX - minX, Height: fakeSize}
}

func (fakeProvider) Advance(r rune) float64 {
	return fakeAdvance
}

// squareRing returns a square with its bottom-left corner at (x, y) and
// extending upward (toward negative y).
func squareRing(x, y, size float64) Ring {
	return Ring{
		model2d.XY(x, y),
		model2d.XY(x, y-size),
		model2d.XY(x+size, y-size),
		model2d.XY(x+size, y),
	}
}
