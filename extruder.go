// Package textextrude turns text into extruded, watertight 3D meshes and
// writes them out as STL solids or layered G-code.
package textextrude

import (
	"log/slog"

	"github.com/unixpickle/model3d/model3d"
)

const (
	DefaultText      = "OF"
	DefaultThickness = 100.0
)

// Extruder builds solid meshes for a line of text.
//
// An Extruder is not safe for concurrent use.
type Extruder struct {
	provider  GlyphProvider
	text      string
	thickness float64
}

// NewExtruder creates an extruder for DefaultText at DefaultThickness.
func NewExtruder(p GlyphProvider) *Extruder {
	return &Extruder{
		provider:  p,
		text:      DefaultText,
		thickness: DefaultThickness,
	}
}

func (e *Extruder) SetText(text string) {
	e.text = text
}

func (e *Extruder) Text() string {
	return e.text
}

// SetThickness sets the extrusion depth along z.
func (e *Extruder) SetThickness(thickness float64) {
	e.thickness = thickness
}

func (e *Extruder) Thickness() float64 {
	return e.thickness
}

// Provider returns the glyph source.
func (e *Extruder) Provider() GlyphProvider {
	return e.provider
}

// Bounds returns the StringBoundingBox of the current text.
func (e *Extruder) Bounds() BoundingBox {
	return e.StringBoundingBox(e.text)
}

// Mesh builds the solid for the whole text, placing each character at
// its pen offset along x.
func (e *Extruder) Mesh() *Mesh {
	mesh := NewMesh()
	for i, r := range []rune(e.text) {
		ch := e.CharacterMesh(r)
		if ch.IsEmpty() {
			continue
		}
		offset := e.CharacterOffset(e.text, i)
		ch.Translate(model3d.XYZ(offset.X, offset.Y, 0))
		mesh.AddMesh(ch)
	}
	Logger().Debug("built text mesh",
		slog.String("text", e.text),
		slog.Int("vertices", mesh.NumVertices()),
		slog.Int("triangles", mesh.NumTriangles()))
	return mesh
}

// CharacterMesh extrudes a single glyph from z=0 to z=thickness.
//
// The cap at z=0 faces -z and the cap at z=thickness faces +z. Each ring
// edge becomes one side quad, including the edges of holes. Spaces have
// no geometry and yield an empty mesh.
func (e *Extruder) CharacterMesh(r rune) *Mesh {
	if r == ' ' {
		return NewMesh()
	}
	zOffset := model3d.XYZ(0, 0, e.thickness)

	tess := e.provider.Tessellation(r)
	if tess == nil {
		tess = NewMesh()
	}
	top := tess.Copy()
	bottom := tess.Copy()
	bottom.Translate(zOffset)

	orientTriangles(top, true)
	orientTriangles(bottom, false)
	top.SetNormals(model3d.XYZ(0, 0, -1))
	bottom.SetNormals(model3d.XYZ(0, 0, 1))

	sides := NewMesh()
	for _, ring := range e.provider.Outline(r) {
		n := len(ring)
		for i := 0; i < n; i++ {
			p := ring[i]
			q := ring[(i+1)%n]
			a := model3d.XYZ(p.X, p.Y, 0)
			b := a.Add(zOffset)
			d := model3d.XYZ(q.X, q.Y, 0)
			c := d.Add(zOffset)
			sides.AddQuad(a, b, c, d)
		}
	}

	Logger().Debug("extruded glyph",
		slog.String("rune", string(r)),
		slog.Int("cap_vertices", tess.NumVertices()),
		slog.Int("side_quads", sides.NumTriangles()/2))
	return sides.AddMesh(bottom.AddMesh(top))
}
