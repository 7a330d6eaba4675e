package config

import (
	"encoding/json"
	"fmt"
	"os"

	"hexcarta/internal/world"
)

// Config is the editor's on-disk configuration. Every field has a working
// default, so a missing file is not an error.
type Config struct {
	LogLevel string `json:"log_level"` // debug/info/warn/error
	LogJSON  bool   `json:"log_json"`

	WindowW int `json:"window_w"`
	WindowH int `json:"window_h"`

	CellSize     float64 `json:"cell_size"`
	MinZoom      float64 `json:"min_zoom"`
	MaxZoom      float64 `json:"max_zoom"`
	ZoomStep     float64 `json:"zoom_step"`
	PanThreshold float64 `json:"pan_threshold"` // px before a drag is a pan
	BoundsPad    int     `json:"bounds_pad"`    // extra cells around the viewport
	RecomputeMS  int     `json:"recompute_ms"`  // visible-set debounce window
	RetainPasses int     `json:"retain_passes"` // hidden-sprite eviction age
	AutosaveMS   int     `json:"autosave_ms"`   // quiet period before autosave

	MinDrawSpacing float64 `json:"min_draw_spacing"`
	EraseRadius    float64 `json:"erase_radius"`
	EraseMS        int     `json:"erase_ms"` // erase throttle interval
	StrokeColor    string  `json:"stroke_color"`
	StrokeWidth    float64 `json:"stroke_width"`

	TownCols int `json:"town_cols"`
	TownRows int `json:"town_rows"`

	Biomes    []world.FillCategory `json:"biomes"`
	Materials []world.FillCategory `json:"materials"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogLevel:       "info",
		WindowW:        1280,
		WindowH:        800,
		CellSize:       24,
		MinZoom:        0.25,
		MaxZoom:        4,
		ZoomStep:       1.12,
		PanThreshold:   5,
		BoundsPad:      2,
		RecomputeMS:    120,
		RetainPasses:   8,
		AutosaveMS:     2500,
		MinDrawSpacing: 3,
		EraseRadius:    16,
		EraseMS:        40,
		StrokeColor:    "#2d4a6b",
		StrokeWidth:    2.5,
		TownCols:       12,
		TownRows:       12,
		Biomes: []world.FillCategory{
			{Name: "Water", Color: "#3a76c4"},
			{Name: "Sand", Color: "#d8c07a"},
			{Name: "Grass", Color: "#7bb24e"},
			{Name: "Forest", Color: "#2e6b33"},
			{Name: "Mountain", Color: "#8a8076"},
			{Name: "Snow", Color: "#e8ecef"},
			{Name: "Swamp", Color: "#5a6b4a"},
		},
		Materials: []world.FillCategory{
			{Name: "Road", Color: "#9a927f"},
			{Name: "Building", Color: "#6e5b4a"},
			{Name: "Plaza", Color: "#c9b98a"},
			{Name: "Garden", Color: "#5f8f56"},
			{Name: "Wall", Color: "#4a4a52"},
		},
	}
}

// Load reads the config at path. A missing file yields the defaults; a
// present but unreadable or malformed file is an error. Out-of-range
// values are corrected rather than rejected.
func Load(path string) (Config, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return Default(), nil
	} else if err != nil {
		return Config{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	var c Config
	if err := json.NewDecoder(f).Decode(&c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.correct()
	return c, nil
}

// Save writes the config to path, pretty-printed for hand editing.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) correct() {
	def := Default()
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		c.LogLevel = def.LogLevel
	}
	if c.WindowW < 640 || c.WindowH < 480 {
		c.WindowW, c.WindowH = def.WindowW, def.WindowH
	}
	if c.CellSize < 8 || c.CellSize > 128 {
		c.CellSize = def.CellSize
	}
	if c.MinZoom <= 0 {
		c.MinZoom = def.MinZoom
	}
	if c.MaxZoom < c.MinZoom {
		c.MaxZoom = def.MaxZoom
	}
	if c.ZoomStep <= 1 {
		c.ZoomStep = def.ZoomStep
	}
	if c.PanThreshold <= 0 {
		c.PanThreshold = def.PanThreshold
	}
	if c.BoundsPad <= 0 {
		c.BoundsPad = def.BoundsPad
	}
	if c.RecomputeMS <= 0 {
		c.RecomputeMS = def.RecomputeMS
	}
	if c.RetainPasses < 1 {
		c.RetainPasses = def.RetainPasses
	}
	if c.AutosaveMS <= 0 {
		c.AutosaveMS = def.AutosaveMS
	}
	if c.MinDrawSpacing <= 0 {
		c.MinDrawSpacing = def.MinDrawSpacing
	}
	if c.EraseRadius <= 0 {
		c.EraseRadius = def.EraseRadius
	}
	if c.EraseMS <= 0 {
		c.EraseMS = def.EraseMS
	}
	if c.StrokeColor == "" {
		c.StrokeColor = def.StrokeColor
	}
	if c.StrokeWidth <= 0 {
		c.StrokeWidth = def.StrokeWidth
	}
	if c.TownCols < 1 || c.TownRows < 1 {
		c.TownCols, c.TownRows = def.TownCols, def.TownRows
	}
	if len(c.Biomes) == 0 {
		c.Biomes = def.Biomes
	}
	if len(c.Materials) == 0 {
		c.Materials = def.Materials
	}
}
