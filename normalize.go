package textextrude

import (
	"errors"

	"github.com/unixpickle/model3d/model3d"
)

// ErrZeroWidth is returned by exports when the text has no horizontal
// extent, which would make the physical scale factor infinite.
var ErrZeroWidth = errors.New("text bounding box has zero width")

// outputScale computes the factor mapping outline units to size
// millimeters across the width of bounds.
func outputScale(bounds BoundingBox, size float64) (float64, error) {
	if !(bounds.Width > 0) {
		return 0, ErrZeroWidth
	}
	return size / bounds.Width, nil
}

// NormalizeForOutput flips the mesh to y-up, centers it on the origin and
// scales it uniformly so that bounds spans width units along x.
//
// The steps run in a fixed order, each relying on the frame left by the
// previous one:
//
//  1. translate by (0, h, 0)
//  2. mirror y
//  3. translate by (-w/2, h/2, 0)
//  4. scale x, y and z by width/w
func NormalizeForOutput(m *Mesh, bounds BoundingBox, width float64) error {
	scale, err := outputScale(bounds, width)
	if err != nil {
		return err
	}
	m.Translate(model3d.XYZ(0, bounds.Height, 0))
	m.Scale(model3d.XYZ(1, -1, 1))
	m.Translate(model3d.XYZ(-bounds.Width/2, bounds.Height/2, 0))
	m.Scale(model3d.XYZ(scale, scale, scale))
	return nil
}
