package textextrude

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// GCodeConfig holds the parameters for layered G-code export.
//
// Layers is fixed rather than derived from the extrusion thickness; every
// layer retraces the same silhouette.
type GCodeConfig struct {
	Layers      int     `yaml:"layers"`
	LayerHeight float64 `yaml:"layerHeight"` // mm
	ZOffset     float64 `yaml:"zOffset"`     // mm, added to every z
	Feedrate    float64 `yaml:"feedrate"`

	// Flowrate is the extruder speed in RPM. It is recorded in the
	// program preamble but does not affect motion.
	Flowrate float64 `yaml:"flowrate"`

	// MaxSize is the width of the build platform in mm; the text is
	// scaled to span it.
	MaxSize float64 `yaml:"maxSize"`

	// SimplifyTolerance is the maximum deviation in outline units when
	// reducing contour points.
	SimplifyTolerance float64 `yaml:"simplifyTolerance"`

	// HeaderFile and FooterFile are copied verbatim around the program
	// when they exist.
	HeaderFile string `yaml:"headerFile"`
	FooterFile string `yaml:"footerFile"`
}

// DefaultGCodeConfig returns the stock printer calibration.
func DefaultGCodeConfig() GCodeConfig {
	return GCodeConfig{
		Layers:            100,
		LayerHeight:       0.3,
		ZOffset:           0.3,
		Feedrate:          1800,
		Flowrate:          1.573,
		MaxSize:           100,
		SimplifyTolerance: 0.3,
		HeaderFile:        "start.gcode",
		FooterFile:        "end.gcode",
	}
}

// LoadGCodeConfig reads a YAML file on top of DefaultGCodeConfig, so keys
// absent from the file keep their defaults.
func LoadGCodeConfig(path string) (GCodeConfig, error) {
	cfg := DefaultGCodeConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read G-code config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse G-code config %s: %w", path, err)
	}
	if cfg.Layers < 0 {
		return cfg, fmt.Errorf("parse G-code config %s: layers must be >= 0", path)
	}
	return cfg, nil
}
