package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"hexcarta/internal/assets"
	"hexcarta/internal/logx"
	"hexcarta/internal/store"
	"hexcarta/internal/world"
)

func main() {
	cmd := &cli.Command{
		Name:  "cartactl",
		Usage: "manage hexcarta map stores without opening the editor",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "store", Value: "hexcarta.db", Usage: "sqlite store path"},
		},
		Commands: []*cli.Command{
			{
				Name:  "new",
				Usage: "create a seeded map",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "map", Aliases: []string{"m"}, Value: "default", Usage: "map key"},
					&cli.StringFlag{Name: "orientation", Value: "flat", Usage: "hex orientation (flat|pointy)"},
					&cli.IntFlag{Name: "cols", Value: 48, Usage: "grid columns"},
					&cli.IntFlag{Name: "rows", Value: 36, Usage: "grid rows"},
					&cli.IntFlag{Name: "seed", Value: 0, Usage: "biome seed (0 = time-based)"},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing map"},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					return runNew(os.Stdout, st, c.String("map"),
						int(c.Int("cols")), int(c.Int("rows")),
						c.String("orientation"), int64(c.Int("seed")), c.Bool("force"))
				},
			},
			{
				Name:  "list",
				Usage: "list maps in the store",
				Action: func(_ context.Context, c *cli.Command) error {
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					return runList(os.Stdout, st)
				},
			},
			{
				Name:      "info",
				Usage:     "show details for one map",
				ArgsUsage: "<key>",
				Action: func(_ context.Context, c *cli.Command) error {
					key, err := keyArg(c)
					if err != nil {
						return err
					}
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					return runInfo(os.Stdout, st, key)
				},
			},
			{
				Name:      "export",
				Usage:     "write a map document as JSON",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default stdout)"},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					key, err := keyArg(c)
					if err != nil {
						return err
					}
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					w := io.Writer(os.Stdout)
					if path := c.String("out"); path != "" {
						f, err := os.Create(path)
						if err != nil {
							return err
						}
						defer f.Close()
						w = f
					}
					return runExport(w, st, key)
				},
			},
			{
				Name:      "import",
				Usage:     "read a JSON document into the store",
				ArgsUsage: "<key>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Usage: "input file (default stdin)"},
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing map"},
				},
				Action: func(_ context.Context, c *cli.Command) error {
					key, err := keyArg(c)
					if err != nil {
						return err
					}
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					r := io.Reader(os.Stdin)
					if path := c.String("in"); path != "" {
						f, err := os.Open(path)
						if err != nil {
							return err
						}
						defer f.Close()
						r = f
					}
					if err := runImport(st, key, r, c.Bool("force")); err != nil {
						return err
					}
					fmt.Printf("imported %q\n", key)
					return nil
				},
			},
			{
				Name:      "rm",
				Usage:     "delete a map",
				ArgsUsage: "<key>",
				Action: func(_ context.Context, c *cli.Command) error {
					key, err := keyArg(c)
					if err != nil {
						return err
					}
					st, err := openStore(c)
					if err != nil {
						return err
					}
					defer st.Close()
					return runRemove(os.Stdout, st, key)
				},
			},
			{
				Name:  "serve",
				Usage: "run the asset upload server",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "port", Value: 0, Usage: "listen port (0 = HEXCARTA_PORT or default)"},
					&cli.StringFlag{Name: "dir", Usage: "asset directory (empty = HEXCARTA_DIR or default)"},
					&cli.StringFlag{Name: "log-level", Value: "info", Usage: "log level"},
				},
				Action: runServe,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "cartactl:", err)
		os.Exit(1)
	}
}

func openStore(c *cli.Command) (*store.Store, error) {
	return store.Open(c.String("store"))
}

func keyArg(c *cli.Command) (string, error) {
	key := c.Args().First()
	if key == "" {
		return "", errors.New("map key argument required")
	}
	return key, nil
}

func runNew(w io.Writer, st *store.Store, key string, cols, rows int, orientation string, seed int64, force bool) error {
	o, ok := world.ParseOrientation(orientation)
	if !ok {
		return fmt.Errorf("unknown orientation %q", orientation)
	}
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("bad grid size %dx%d", cols, rows)
	}
	if !force {
		exists, err := st.Exists(key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("map %q already exists (use --force to overwrite)", key)
		}
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := world.NewHexGrid(cols, rows, o)
	world.SeedFills(g, world.DefaultSeedConfig(seed))
	if err := st.Save(key, world.NewDocument(key, g, nil)); err != nil {
		return err
	}
	fmt.Fprintf(w, "created %q (%dx%d %s, seed %d)\n", key, cols, rows, o, seed)
	return nil
}

func runList(w io.Writer, st *store.Store) error {
	infos, err := st.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Fprintln(w, "no maps in store")
		return nil
	}
	fmt.Fprintf(w, "%-24s %-10s %s\n", "KEY", "SIZE", "UPDATED")
	for _, mi := range infos {
		fmt.Fprintf(w, "%-24s %-10s %s\n",
			mi.Key, humanize.Bytes(uint64(mi.Bytes)), humanize.Time(mi.Updated()))
	}
	return nil
}

func runInfo(w io.Writer, st *store.Store, key string) error {
	mi, err := st.Info(key)
	if err != nil {
		return err
	}
	doc, err := st.Load(key)
	if err != nil {
		return err
	}

	towns := 0
	for _, td := range doc.Towns {
		if len(td.Cells) > 0 {
			towns++
		}
	}

	fmt.Fprintf(w, "map:         %s\n", key)
	fmt.Fprintf(w, "size:        %s\n", humanize.Bytes(uint64(mi.Bytes)))
	fmt.Fprintf(w, "updated:     %s (%s)\n",
		mi.Updated().Format("2006-01-02 15:04:05"), humanize.Time(mi.Updated()))
	fmt.Fprintf(w, "orientation: %s\n", doc.Orientation)
	fmt.Fprintf(w, "grid:        %dx%d (%d cells, %d filled)\n",
		doc.Cols, doc.Rows, doc.Cols*doc.Rows, len(doc.Cells))
	fmt.Fprintf(w, "paths:       %d\n", len(doc.Paths))
	fmt.Fprintf(w, "towns:       %d\n", towns)
	fmt.Fprintf(w, "stickers:    %d\n", len(doc.Stickers))
	if doc.Background != nil {
		fmt.Fprintf(w, "background:  %s (scale %.2f)\n", doc.Background.Ref, doc.Background.Scale)
	}
	return nil
}

func runExport(w io.Writer, st *store.Store, key string) error {
	doc, err := st.Load(key)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func runImport(st *store.Store, key string, r io.Reader, force bool) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	var doc world.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse document: %w", err)
	}
	if _, err := world.GridFromDocument(&doc); err != nil {
		return fmt.Errorf("invalid document: %w", err)
	}
	if !force {
		exists, err := st.Exists(key)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("map %q already exists (use --force to overwrite)", key)
		}
	}
	doc.Name = key
	return st.Save(key, &doc)
}

func runRemove(w io.Writer, st *store.Store, key string) error {
	if err := st.Delete(key); err != nil {
		return err
	}
	fmt.Fprintf(w, "deleted %q\n", key)
	return nil
}

func runServe(ctx context.Context, c *cli.Command) error {
	cfg, err := assets.LoadServerConfig()
	if err != nil {
		return err
	}
	if p := int(c.Int("port")); p != 0 {
		cfg.Port = p
	}
	if dir := c.String("dir"); dir != "" {
		cfg.Dir = dir
	}

	log := logx.New(logx.Options{Level: c.String("log-level")})
	defer log.Sync()

	srv, err := assets.NewServer(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Serve(ctx)
}
