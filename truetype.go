package textextrude

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"

	"github.com/go-text/typesetting/di"
	gotextfont "github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/shaping"
	"github.com/golang/freetype/truetype"
	"github.com/unixpickle/model3d/model2d"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

var hbFeatureTags = struct {
	kern ot.Tag
}{
	kern: ot.MustNewTag("kern"),
}

// Options configures a TrueTypeProvider.
type Options struct {
	Size      float64 // target ascent (baseline to top) in outline units
	CurveSegs int     // flattening segments per quadratic
	Kerning   bool
	Spacing   float64 // advance multiplier; 0 defaults to 1
}

// ParsedFont stores parsed TrueType data and auxiliary metrics/layout state.
type ParsedFont struct {
	TTFont *truetype.Font

	ascent float64
	hbFace *gotextfont.Face
}

// ParseTTF parses a TTF/OTF(TrueType outlines) font file.
func ParseTTF(ttfBytes []byte) (*ParsedFont, error) {
	ttf, err := truetype.Parse(ttfBytes)
	if err != nil {
		return nil, err
	}
	res := &ParsedFont{TTFont: ttf}
	if asc, ok := parseOS2TypoAscender(ttfBytes); ok && asc > 0 {
		res.ascent = asc
	}
	if hbFace, err := gotextfont.ParseTTF(bytes.NewReader(ttfBytes)); err == nil {
		res.hbFace = hbFace
	}
	return res, nil
}

// TrueTypeProvider is a GlyphProvider that flattens TrueType glyph
// contours into polylines.
//
// Outlines are y-down with the baseline at y=0, and glyph outlines are
// cached per rune. A TrueTypeProvider is not safe for concurrent use.
type TrueTypeProvider struct {
	font *ParsedFont
	opt  Options

	// scale maps font units to outline units.
	scale float64

	// fixedScale makes 1 font unit = 64 in a GlyphBuf.
	fixedScale fixed.Int26_6

	glyphs map[truetype.Index]Outline
	tess   map[rune]*Mesh
}

// NewTrueTypeProvider creates a provider for the parsed font.
func NewTrueTypeProvider(parsed *ParsedFont, opt Options) (*TrueTypeProvider, error) {
	if parsed == nil || parsed.TTFont == nil {
		return nil, errors.New("nil font")
	}
	if opt.Size <= 0 {
		return nil, errors.New("Size must be > 0")
	}
	if opt.CurveSegs <= 0 {
		opt.CurveSegs = 8
	}
	if opt.Spacing == 0 {
		opt.Spacing = 1
	}
	if opt.Spacing < 0 {
		return nil, errors.New("Spacing must be >= 0")
	}

	ttFont := parsed.TTFont
	upem := float64(ttFont.FUnitsPerEm())
	ascent := parsed.ascent
	if ascent <= 0 {
		fontBounds := ttFont.Bounds(fixed.Int26_6(ttFont.FUnitsPerEm()))
		ascent = float64(fontBounds.Max.Y)
	}
	if ascent <= 0 {
		ascent = upem
	}

	return &TrueTypeProvider{
		font:       parsed,
		opt:        opt,
		scale:      opt.Size / ascent,
		fixedScale: fixed.Int26_6(int32(upem * 64)),
		glyphs:     map[truetype.Index]Outline{},
		tess:       map[rune]*Mesh{},
	}, nil
}

// Outline returns the rings of r with the pen at the origin.
func (t *TrueTypeProvider) Outline(r rune) Outline {
	return t.glyphOutline(t.font.TTFont.Index(r)).Copy()
}

// Tessellation triangulates the fill of r.
func (t *TrueTypeProvider) Tessellation(r rune) *Mesh {
	if m, ok := t.tess[r]; ok {
		return m.Copy()
	}
	m := TessellateOutline(t.glyphOutline(t.font.TTFont.Index(r)))
	t.tess[r] = m
	return m.Copy()
}

// Advance returns the scaled horizontal advance of r.
func (t *TrueTypeProvider) Advance(r rune) float64 {
	idx := t.font.TTFont.Index(r)
	adv := t.font.TTFont.HMetric(t.fixedScale, idx).AdvanceWidth
	return float64(adv) / 64.0 * t.opt.Spacing * t.scale
}

// BoundingBox computes the ink bounds of the shaped string with the pen
// starting at (x, y). Strings without ink produce an empty box at the
// origin.
func (t *TrueTypeProvider) BoundingBox(s string, x, y float64) BoundingBox {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	for _, g := range t.layoutGlyphs(s) {
		penX := g.penX * t.scale
		for _, ring := range t.glyphOutline(g.index) {
			for _, p := range ring {
				minX = math.Min(minX, p.X+penX)
				minY = math.Min(minY, p.Y)
				maxX = math.Max(maxX, p.X+penX)
				maxY = math.Max(maxY, p.Y)
			}
		}
	}
	if math.IsInf(minX, 1) {
		return BoundingBox{X: x, Y: y}
	}
	return BoundingBox{
		X:      minX + x,
		Y:      minY + y,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// glyphOutline loads, flattens and orients the contours of a glyph.
// Glyphs that fail to load have no rings.
func (t *TrueTypeProvider) glyphOutline(idx truetype.Index) Outline {
	if o, ok := t.glyphs[idx]; ok {
		return o
	}
	var gb truetype.GlyphBuf
	var o Outline
	if err := gb.Load(t.font.TTFont, t.fixedScale, idx, xfont.HintingNone); err == nil {
		o = OrientRings(glyphContoursToRings(&gb, t.scale, t.opt.CurveSegs))
	}
	t.glyphs[idx] = o
	return o
}

type positionedGlyph struct {
	index truetype.Index
	penX  float64 // in font units
}

// layoutGlyphs positions the glyphs of s, preferring HarfBuzz shaping and
// falling back to per-rune advances with optional kerning.
func (t *TrueTypeProvider) layoutGlyphs(s string) []positionedGlyph {
	if glyphs, ok := t.shapeGlyphs(s); ok {
		return glyphs
	}

	ttFont := t.font.TTFont
	var res []positionedGlyph
	var prev truetype.Index
	hasPrev := false
	penX := 0.0
	for _, r := range s {
		idx := ttFont.Index(r)
		if t.opt.Kerning && hasPrev {
			k := ttFont.Kern(t.fixedScale, prev, idx) // 26.6
			penX += (float64(k) / 64.0) * t.opt.Spacing
		}
		res = append(res, positionedGlyph{index: idx, penX: penX})
		adv := ttFont.HMetric(t.fixedScale, idx).AdvanceWidth
		penX += (float64(adv) / 64.0) * t.opt.Spacing
		prev, hasPrev = idx, true
	}
	return res
}

// glyphContoursToRings converts truetype contour points into flattened,
// y-down rings. scale maps font units to outline units.
func glyphContoursToRings(gb *truetype.GlyphBuf, scale float64, segs int) Outline {
	pts := gb.Points
	ends := gb.Ends

	var out Outline
	start := 0

	for _, end := range ends {
		contourPts := pts[start:end]
		start = end
		if len(contourPts) == 0 {
			continue
		}

		ring := openRing(flattenTrueTypeContour(contourPts, scale, segs))
		if len(ring) >= 3 {
			out = append(out, ring)
		}
	}

	return out
}

// flattenTrueTypeContour handles on-curve/off-curve quadratic points per
// the TrueType glyf format, including wrap-around implied points and consecutive
// off-curve points. The y axis is negated so that ink above the baseline
// has negative y.
func flattenTrueTypeContour(pts []truetype.Point, scale float64, segs int) []model2d.Coord {
	if len(pts) == 0 {
		return nil
	}

	toVec := func(p truetype.Point) model2d.Coord {
		x := (float64(p.X) / 64.0) * scale
		y := -(float64(p.Y) / 64.0) * scale
		return model2d.Coord{X: x, Y: y}
	}
	onCurve := func(p truetype.Point) bool { return p.Flags&0x01 != 0 }

	n := len(pts)

	var start model2d.Coord
	startIdx := 0
	if onCurve(pts[0]) {
		start = toVec(pts[0])
	} else if onCurve(pts[n-1]) {
		start = toVec(pts[n-1])
		startIdx = n - 1
	} else {
		start = toVec(pts[n-1]).Mid(toVec(pts[0]))
	}

	poly := make([]model2d.Coord, 0, n*segs+4)
	poly = append(poly, start)

	prevOn := start
	var haveCtrl bool
	var ctrl model2d.Coord

	i := (startIdx + 1) % n
	for steps := 0; steps < n; steps++ {
		p := pts[i]
		i = (i + 1) % n

		if onCurve(p) {
			on := toVec(p)
			if haveCtrl {
				poly = append(poly, flattenQuad(prevOn, ctrl, on, segs)...)
				haveCtrl = false
			} else {
				poly = append(poly, on)
			}
			prevOn = on
			continue
		}

		c := toVec(p)
		if haveCtrl {
			// Two consecutive off-curve points imply an on-curve midpoint.
			implied := ctrl.Mid(c)
			poly = append(poly, flattenQuad(prevOn, ctrl, implied, segs)...)
			prevOn = implied
		}
		ctrl = c
		haveCtrl = true
	}

	if haveCtrl {
		poly = append(poly, flattenQuad(prevOn, ctrl, start, segs)...)
	}
	return poly
}

// flattenQuad samples segs points along a quadratic curve, excluding p0
// and ending exactly on p2.
func flattenQuad(p0, p1, p2 model2d.Coord, segs int) []model2d.Coord {
	curve := model2d.BezierCurve{p0, p1, p2}
	out := make([]model2d.Coord, segs)
	for i := range out[:segs-1] {
		out[i] = curve.Eval(float64(i+1) / float64(segs))
	}
	out[segs-1] = p2
	return out
}

// sfntTable finds a table by tag in the table directory of raw font data.
func sfntTable(data []byte, tag string) ([]byte, bool) {
	const (
		dirHeader  = 12
		recordSize = 16
	)
	if len(data) < dirHeader {
		return nil, false
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if len(data) < dirHeader+numTables*recordSize {
		return nil, false
	}
	for i := 0; i < numTables; i++ {
		rec := data[dirHeader+i*recordSize:]
		if string(rec[:4]) != tag {
			continue
		}
		offset := int64(binary.BigEndian.Uint32(rec[8:12]))
		length := int64(binary.BigEndian.Uint32(rec[12:16]))
		if offset+length > int64(len(data)) {
			return nil, false
		}
		return data[offset : offset+length], true
	}
	return nil, false
}

// parseOS2TypoAscender reads sTypoAscender from the OS/2 table.
func parseOS2TypoAscender(data []byte) (float64, bool) {
	const typoAscender = 68
	os2, ok := sfntTable(data, "OS/2")
	if !ok || len(os2) < typoAscender+2 {
		return 0, false
	}
	raw := int16(binary.BigEndian.Uint16(os2[typoAscender:]))
	return float64(raw), raw > 0
}

// shapeGlyphs lays out s with the HarfBuzz shaper. It reports false when
// the font could not be loaded for shaping.
func (t *TrueTypeProvider) shapeGlyphs(s string) ([]positionedGlyph, bool) {
	face := t.font.hbFace
	if face == nil {
		return nil, false
	}
	runes := []rune(s)
	if len(runes) == 0 {
		return nil, true
	}

	var features []shaping.FontFeature
	if !t.opt.Kerning {
		features = append(features, shaping.FontFeature{Tag: hbFeatureTags.kern, Value: 0})
	}
	var shaper shaping.HarfbuzzShaper
	out := shaper.Shape(shaping.Input{
		Text:         runes,
		RunEnd:       len(runes),
		Direction:    di.DirectionLTR,
		Face:         face,
		FontFeatures: features,
		Size:         fixed.I(int(t.font.TTFont.FUnitsPerEm())),
	})

	glyphs := make([]positionedGlyph, len(out.Glyphs))
	var penX float64
	for i, g := range out.Glyphs {
		glyphs[i] = positionedGlyph{
			index: truetype.Index(g.GlyphID),
			penX:  penX + float64(out.ToFontUnit(g.XOffset)),
		}
		penX += float64(out.ToFontUnit(g.XAdvance)) * t.opt.Spacing
	}
	return glyphs, true
}
