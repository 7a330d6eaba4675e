package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/urfave/cli/v3"

	"hexcarta/internal/app"
	"hexcarta/internal/assets"
	"hexcarta/internal/config"
	"hexcarta/internal/logx"
	"hexcarta/internal/store"
	"hexcarta/internal/world"
)

func main() {
	cmd := &cli.Command{
		Name:  "hexcarta",
		Usage: "hex world map editor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Value: "hexcarta.db", Usage: "sqlite store path"},
			&cli.StringFlag{Name: "map", Aliases: []string{"m"}, Value: "default", Usage: "map key to open (created if missing)"},
			&cli.StringFlag{Name: "config", Value: "hexcarta.json", Usage: "editor config path"},
			&cli.StringFlag{Name: "assets", Value: "assets", Usage: "asset library directory"},
			&cli.StringFlag{Name: "orientation", Value: "flat", Usage: "orientation for new maps (flat|pointy)"},
			&cli.IntFlag{Name: "cols", Value: 48, Usage: "columns for new maps"},
			&cli.IntFlag{Name: "rows", Value: 36, Usage: "rows for new maps"},
			&cli.IntFlag{Name: "seed", Value: 0, Usage: "biome seed for new maps (0 = time-based)"},
			&cli.StringFlag{Name: "log-level", Usage: "override config log level"},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "hexcarta:", err)
		os.Exit(1)
	}
}

func run(_ context.Context, c *cli.Command) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	level := cfg.LogLevel
	if s := c.String("log-level"); s != "" {
		level = s
	}
	log := logx.New(logx.Options{Level: level, JSON: cfg.LogJSON})
	defer log.Sync()

	st, err := store.Open(c.String("store"))
	if err != nil {
		return err
	}
	defer st.Close()

	lib := assets.NewLibrary(c.String("assets"), log)
	mapKey := c.String("map")

	doc, err := st.Load(mapKey)
	switch {
	case errors.Is(err, store.ErrNotFound):
		doc, err = newMap(c, mapKey, log)
		if err != nil {
			return err
		}
		if err := st.Save(mapKey, doc); err != nil {
			return err
		}
	case err != nil:
		return err
	default:
		log.Infof("map %q loaded (%dx%d %s, %d cells, %d paths)",
			mapKey, doc.Cols, doc.Rows, doc.Orientation, len(doc.Cells), len(doc.Paths))
	}

	a, err := app.New(cfg, log, st, lib, mapKey, doc)
	if err != nil {
		return err
	}

	ebiten.SetWindowTitle("hexcarta - " + mapKey)
	ebiten.SetWindowSize(cfg.WindowW, cfg.WindowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(a); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	if err := a.SaveNow(); err != nil {
		return fmt.Errorf("final save: %w", err)
	}
	log.Infof("map %q saved on exit", mapKey)
	return nil
}

// newMap generates and seeds a fresh document.
func newMap(c *cli.Command, mapKey string, log logx.Logger) (*world.Document, error) {
	o, ok := world.ParseOrientation(c.String("orientation"))
	if !ok {
		return nil, fmt.Errorf("unknown orientation %q", c.String("orientation"))
	}
	cols := int(c.Int("cols"))
	rows := int(c.Int("rows"))
	if cols <= 0 || rows <= 0 {
		return nil, fmt.Errorf("bad grid size %dx%d", cols, rows)
	}
	seed := int64(c.Int("seed"))
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := world.NewHexGrid(cols, rows, o)
	world.SeedFills(g, world.DefaultSeedConfig(seed))
	log.Infof("map %q created (%dx%d %s, seed %d)", mapKey, cols, rows, o, seed)
	return world.NewDocument(mapKey, g, nil), nil
}
