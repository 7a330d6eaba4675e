package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if c.CellSize != 24 || c.LogLevel != "info" || len(c.Biomes) == 0 {
		t.Fatalf("defaults not applied: %+v", c)
	}
}

func TestLoad_RoundTripsThroughSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexcarta.json")
	want := Default()
	want.CellSize = 32
	want.LogLevel = "debug"
	want.TownCols = 16
	if err := want.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.CellSize != 32 || got.LogLevel != "debug" || got.TownCols != 16 {
		t.Fatalf("loaded %+v, want saved values back", got)
	}
	if len(got.Biomes) != len(want.Biomes) {
		t.Fatalf("biomes %d, want %d", len(got.Biomes), len(want.Biomes))
	}
}

func TestLoad_CorrectsOutOfRangeValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexcarta.json")
	raw := `{
		"log_level": "loud",
		"cell_size": 2,
		"min_zoom": -1,
		"max_zoom": 0,
		"zoom_step": 0.5,
		"retain_passes": 0,
		"town_cols": 0,
		"town_rows": 9
	}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	def := Default()
	if c.LogLevel != def.LogLevel {
		t.Fatalf("log level %q, want corrected to %q", c.LogLevel, def.LogLevel)
	}
	if c.CellSize != def.CellSize || c.MinZoom != def.MinZoom || c.MaxZoom != def.MaxZoom {
		t.Fatalf("geometry not corrected: %+v", c)
	}
	if c.ZoomStep != def.ZoomStep || c.RetainPasses != def.RetainPasses {
		t.Fatalf("viewport knobs not corrected: %+v", c)
	}
	if c.TownCols != def.TownCols || c.TownRows != def.TownRows {
		t.Fatalf("town dimensions %dx%d, want corrected as a pair", c.TownCols, c.TownRows)
	}
}

func TestLoad_MalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hexcarta.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config loaded without error")
	}
}
