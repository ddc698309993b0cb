package textextrude

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

const (
	extruderOn  = "M101"
	extruderOff = "M103"
	moveFormat  = "G1 X%03f Y%03f Z%03f F%03f"
)

// GCode accumulates a textual G-code program.
type GCode struct {
	buf bytes.Buffer
}

// AddComment appends a ';' comment line.
func (g *GCode) AddComment(comment string) {
	fmt.Fprintf(&g.buf, "; %s\n", comment)
}

// AddCommand appends a command, followed by an inline comment if one is
// given.
func (g *GCode) AddCommand(cmd, comment string) {
	if comment == "" {
		fmt.Fprintln(&g.buf, cmd)
	} else {
		fmt.Fprintf(&g.buf, "%s ; %s\n", cmd, comment)
	}
}

// AddCommandWithParams formats a command line with fmt.
func (g *GCode) AddCommandWithParams(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// Insert copies the contents of a template file into the program.
// A file that does not exist is skipped and Insert reports false.
func (g *GCode) Insert(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("insert G-code template: %w", err)
	}
	g.buf.Write(data)
	if len(data) > 0 && data[len(data)-1] != '\n' {
		g.buf.WriteByte('\n')
	}
	return true, nil
}

// String returns the program text.
func (g *GCode) String() string {
	return g.buf.String()
}

// WriteTo writes the program to w.
func (g *GCode) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(g.buf.Bytes()).WriteTo(w)
}

// Save writes the program to a file.
func (g *GCode) Save(path string) error {
	if err := os.WriteFile(path, g.buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("save G-code: %w", err)
	}
	return nil
}

// GCode builds the layered toolpath for the current text.
//
// Every layer retraces each contour of each character at
// z = layer*LayerHeight + ZOffset. The first point of a contour is a travel
// move; the extruder starts right before the second point and stops
// after the last one.
func (e *Extruder) GCode(cfg GCodeConfig) (*GCode, error) {
	bounds := e.Bounds()
	scale, err := outputScale(bounds, cfg.MaxSize)
	if err != nil {
		return nil, err
	}
	xShift := -bounds.Width / 2
	yShift := bounds.Height / 2

	runes := []rune(e.text)
	contours := make([]Outline, len(runes))
	for i, r := range runes {
		if r == ' ' {
			continue
		}
		outline := e.provider.Outline(r).Translate(e.CharacterOffset(e.text, i))
		for j, ring := range outline {
			outline[j] = SimplifyRing(ring, cfg.SimplifyTolerance)
		}
		contours[i] = outline
	}

	g := &GCode{}
	if ok, err := g.Insert(cfg.HeaderFile); err != nil {
		return nil, err
	} else if !ok && cfg.HeaderFile != "" {
		Logger().Debug("skipped missing G-code header", slog.String("path", cfg.HeaderFile))
	}

	g.AddComment(fmt.Sprintf("text: %q, layers: %d, layer height: %g, flowrate: %g",
		e.text, cfg.Layers, cfg.LayerHeight, cfg.Flowrate))

	for layer := 0; layer < cfg.Layers; layer++ {
		z := float64(layer)*cfg.LayerHeight + cfg.ZOffset
		for ch, r := range runes {
			g.AddComment("character: " + string(r))
			for k, ring := range contours[ch] {
				g.AddComment(fmt.Sprintf("contour: %d", k))
				for i, p := range ring {
					if i == 1 {
						g.AddCommand(extruderOn, "start the extruder")
					}
					g.AddCommandWithParams(moveFormat,
						scale*(p.X+xShift),
						scale*-(p.Y+yShift),
						z,
						cfg.Feedrate)
				}
				g.AddCommand(extruderOff, "stop the extruder")
			}
		}
	}

	if ok, err := g.Insert(cfg.FooterFile); err != nil {
		return nil, err
	} else if !ok && cfg.FooterFile != "" {
		Logger().Debug("skipped missing G-code footer", slog.String("path", cfg.FooterFile))
	}
	return g, nil
}

// WriteGCode writes the layered toolpath for the current text to w.
func (e *Extruder) WriteGCode(w io.Writer, cfg GCodeConfig) error {
	g, err := e.GCode(cfg)
	if err != nil {
		return err
	}
	_, err = g.WriteTo(w)
	return err
}

// SaveGCode writes the layered toolpath for the current text to a file.
func (e *Extruder) SaveGCode(filename string, cfg GCodeConfig) error {
	g, err := e.GCode(cfg)
	if err != nil {
		return err
	}
	if err := g.Save(filename); err != nil {
		return err
	}
	Logger().Info("saved G-code",
		slog.String("path", filename),
		slog.Int("layers", cfg.Layers),
		slog.Int("lines", strings.Count(g.String(), "\n")))
	return nil
}
