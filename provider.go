package textextrude

import (
	"github.com/unixpickle/model3d/model2d"
)

// A Ring is a closed polyline. The last point connects back to the first;
// the closing point is not repeated.
type Ring []model2d.Coord

// An Outline is the fill boundary of a glyph: outer rings plus holes.
//
// Coordinates are y-down: the baseline is at y=0 and ink above the
// baseline has negative y. Outer rings have negative signed area and
// holes have positive signed area, see OrientRings.
type Outline []Ring

// BoundingBox is an axis-aligned rectangle in outline units.
type BoundingBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// GlyphProvider supplies glyph geometry and metrics.
type GlyphProvider interface {
	// Outline returns the rings of a single glyph, positioned with the
	// pen at the origin.
	Outline(r rune) Outline

	// Tessellation returns a triangulated fill of the glyph at z=0.
	// Callers may modify the result.
	Tessellation(r rune) *Mesh

	// BoundingBox returns the ink bounds of s laid out with its pen
	// starting at (x, y). Implementations are free to shrink-wrap
	// the box and ignore trailing whitespace.
	BoundingBox(s string, x, y float64) BoundingBox

	// Advance returns the horizontal advance of a single glyph.
	Advance(r rune) float64
}

// SignedArea computes the shoelace area of the ring.
func (r Ring) SignedArea() float64 {
	var sum float64
	for i, p := range r {
		q := r[(i+1)%len(r)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}

// Contains checks if c is inside the ring using the even-odd rule.
func (r Ring) Contains(c model2d.Coord) bool {
	inside := false
	for i, p := range r {
		q := r[(i+1)%len(r)]
		if (p.Y > c.Y) != (q.Y > c.Y) {
			x := p.X + (c.Y-p.Y)*(q.X-p.X)/(q.Y-p.Y)
			if c.X < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Reversed returns a copy of the ring traversed backwards.
func (r Ring) Reversed() Ring {
	res := make(Ring, len(r))
	for i, c := range r {
		res[len(r)-1-i] = c
	}
	return res
}

// Copy returns a deep copy of the outline.
func (o Outline) Copy() Outline {
	res := make(Outline, len(o))
	for i, ring := range o {
		res[i] = append(Ring{}, ring...)
	}
	return res
}

// Translate returns a copy of the outline shifted by offset.
func (o Outline) Translate(offset model2d.Coord) Outline {
	res := o.Copy()
	for _, ring := range res {
		for j, c := range ring {
			ring[j] = c.Add(offset)
		}
	}
	return res
}

// OrientRings returns a copy of the outline where every ring nested
// inside an even number of other rings has negative signed area and
// every other ring has positive signed area.
//
// With this orientation, walking a ring keeps the filled region on the
// right-hand side in a y-up frame.
func OrientRings(o Outline) Outline {
	res := make(Outline, 0, len(o))
	for i, ring := range o {
		if len(ring) < 3 {
			continue
		}
		depth := 0
		for j, other := range o {
			if i != j && len(other) >= 3 && other.Contains(ring[0]) {
				depth++
			}
		}
		area := ring.SignedArea()
		if (depth%2 == 0) == (area > 0) {
			ring = ring.Reversed()
		} else {
			ring = append(Ring{}, ring...)
		}
		res = append(res, ring)
	}
	return res
}

// openRing drops a repeated closing point and consecutive duplicates.
// Negative zeros become positive zeros, since mesh vertices are
// matched bit for bit.
func openRing(c []model2d.Coord) Ring {
	res := make(Ring, 0, len(c))
	for _, p := range c {
		p = canonicalZero(p)
		if len(res) > 0 && res[len(res)-1] == p {
			continue
		}
		res = append(res, p)
	}
	for len(res) > 1 && res[len(res)-1] == res[0] {
		res = res[:len(res)-1]
	}
	return res
}

func canonicalZero(c model2d.Coord) model2d.Coord {
	if c.X == 0 {
		c.X = 0
	}
	if c.Y == 0 {
		c.Y = 0
	}
	return c
}
