package textextrude

import (
	"github.com/unixpickle/model3d/model2d"
)

// spaceAdvanceGlyph is measured in place of each trailing space, since
// providers usually shrink-wrap bounds to ink.
const spaceAdvanceGlyph = 'p'

// StringBoundingBox returns the bounds of s with trailing spaces
// counted as pen advance and the origin folded into the width.
//
// The resulting box always starts at x=0 and never has a negative y.
func (e *Extruder) StringBoundingBox(s string) BoundingBox {
	bounds := e.provider.BoundingBox(s, 0, 0)

	runes := []rune(s)
	for i := len(runes) - 1; i >= 0 && runes[i] == ' '; i-- {
		bounds.Width += e.provider.Advance(spaceAdvanceGlyph)
	}

	if bounds.X > 0 {
		bounds.Width += bounds.X
		bounds.X = 0
	}
	if bounds.Y < 0 {
		bounds.Y = 0
	}
	return bounds
}

// CharacterOffset returns the pen position right before the rune at
// index pos of s. The y component is always zero.
func (e *Extruder) CharacterOffset(s string, pos int) model2d.Coord {
	runes := []rune(s)
	if pos <= 0 {
		return model2d.Coord{}
	} else if pos > len(runes) {
		pos = len(runes)
	}
	bounds := e.StringBoundingBox(string(runes[:pos]))
	return model2d.XY(bounds.Width, 0)
}
