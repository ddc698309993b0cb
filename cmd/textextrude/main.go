package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/unixpickle/textextrude"
	"golang.org/x/image/font/gofont/goregular"
)

func main() {
	fontPath := flag.String("font", "", "path to TTF font file (default: Go Regular)")
	text := flag.String("text", textextrude.DefaultText, "text to extrude")
	thickness := flag.Float64("thickness", textextrude.DefaultThickness, "extrusion depth in outline units")
	size := flag.Float64("size", 100.0, "text ascent in outline units")
	segs := flag.Int("segs", 8, "curve segments per quadratic")
	kerning := flag.Bool("kerning", true, "enable kerning")
	stlPath := flag.String("stl", "", "output STL path")
	ascii := flag.Bool("ascii", true, "write ASCII instead of binary STL")
	width := flag.Float64("width", 100.0, "STL text width in mm")
	gcodePath := flag.String("gcode", "", "output G-code path")
	gcodeConfig := flag.String("gcode-config", "", "YAML file with G-code settings")
	header := flag.String("header", "start.gcode", "G-code header template (skipped if missing)")
	footer := flag.String("footer", "end.gcode", "G-code footer template (skipped if missing)")
	check := flag.Bool("check", false, "report whether the mesh is closed")
	verbose := flag.Bool("v", false, "log debug output")
	flag.Parse()

	if *stlPath == "" && *gcodePath == "" && !*check {
		flag.Usage()
		os.Exit(2)
	}
	if *verbose {
		textextrude.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	fontBytes := goregular.TTF
	if *fontPath != "" {
		var err error
		fontBytes, err = os.ReadFile(*fontPath)
		if err != nil {
			log.Fatalf("read font: %v", err)
		}
	}
	font, err := textextrude.ParseTTF(fontBytes)
	if err != nil {
		log.Fatalf("parse font: %v", err)
	}
	provider, err := textextrude.NewTrueTypeProvider(font, textextrude.Options{
		Size:      *size,
		CurveSegs: *segs,
		Kerning:   *kerning,
	})
	if err != nil {
		log.Fatalf("NewTrueTypeProvider: %v", err)
	}

	extruder := textextrude.NewExtruder(provider)
	extruder.SetText(*text)
	extruder.SetThickness(*thickness)

	if *check {
		mesh := extruder.Mesh()
		if mesh.ModelMesh().NeedsRepair() {
			fmt.Printf("mesh for %q is not closed (%d triangles)\n", *text, mesh.NumTriangles())
		} else {
			fmt.Printf("mesh for %q is closed (%d triangles)\n", *text, mesh.NumTriangles())
		}
	}

	if *stlPath != "" {
		opts := textextrude.DefaultSTLOptions()
		opts.ASCII = *ascii
		opts.Width = *width
		if err := extruder.SaveSTL(*stlPath, opts); err != nil {
			log.Fatalf("save STL: %v", err)
		}
		fmt.Printf("wrote %s\n", *stlPath)
	}

	if *gcodePath != "" {
		cfg := textextrude.DefaultGCodeConfig()
		if *gcodeConfig != "" {
			cfg, err = textextrude.LoadGCodeConfig(*gcodeConfig)
			if err != nil {
				log.Fatalf("load G-code config: %v", err)
			}
		}
		setFlags := map[string]bool{}
		flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })
		if *gcodeConfig == "" || setFlags["header"] {
			cfg.HeaderFile = *header
		}
		if *gcodeConfig == "" || setFlags["footer"] {
			cfg.FooterFile = *footer
		}
		if err := extruder.SaveGCode(*gcodePath, cfg); err != nil {
			log.Fatalf("save G-code: %v", err)
		}
		fmt.Printf("wrote %s\n", *gcodePath)
	}
}
