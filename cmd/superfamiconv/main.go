package main

import (
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"strings"

	"github.com/Optiroc/SuperFamiconv/sfc"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "superfamiconv"
	app.Usage = "convert raster images to palette/tileset/tilemap data for retro 2D hardware"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:  "mode",
			Usage: "hardware mode (snes, snes_mode7, gb, gbc, gba, gba_affine, md, pce, pce_sprite, ws, wsc, wsc_packed)",
			Value: "snes",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	sharedFlags := []cli.Flag{
		&cli.StringFlag{Name: "in-image", Usage: "input image (PNG)"},
		&cli.StringFlag{Name: "in-palette", Usage: "input palette (native, ACT or JSON)"},
		&cli.UintFlag{Name: "bpp", Usage: "bits per pixel (0 = mode default)"},
		&cli.UintFlag{Name: "tile-width", Usage: "tile width in pixels (0 = mode default)"},
		&cli.UintFlag{Name: "tile-height", Usage: "tile height in pixels (0 = mode default)"},
		&cli.UintFlag{Name: "max-tiles", Usage: "maximum tile count (0 = mode default)"},
		&cli.UintFlag{Name: "max-palettes", Usage: "maximum subpalette count (0 = mode default)"},
		&cli.UintFlag{Name: "colors", Usage: "colors per subpalette (0 = derived from bpp)"},
		&cli.BoolFlag{Name: "no-flip", Usage: "disable tile mirroring"},
		&cli.BoolFlag{Name: "no-discard", Usage: "keep duplicate tiles instead of reusing matches"},
		&cli.StringFlag{Name: "color-zero", Usage: "prime subpalette index 0 with this color (hex, e.g. #ff00ff)"},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "palette",
			Usage:     "generate an optimized palette from an image",
			ArgsUsage: " ",
			Flags: append(append([]cli.Flag{}, sharedFlags...),
				&cli.StringFlag{Name: "out-data", Usage: "output native palette data"},
				&cli.StringFlag{Name: "out-act", Usage: "output Adobe Color Table (.act)"},
				&cli.StringFlag{Name: "out-json", Usage: "output JSON description"},
			),
			Action: actionPalette,
		},
		{
			Name:      "tiles",
			Usage:     "generate a tileset from an image, matched against a palette",
			ArgsUsage: " ",
			Flags: append(append([]cli.Flag{}, sharedFlags...),
				&cli.StringFlag{Name: "out-data", Usage: "output native tile data"},
				&cli.StringFlag{Name: "out-image", Usage: "output tileset preview PNG"},
			),
			Action: actionTiles,
		},
		{
			Name:      "map",
			Usage:     "generate a tilemap from an image, matched against a palette and tileset",
			ArgsUsage: " ",
			Flags: append(append([]cli.Flag{}, sharedFlags...),
				&cli.StringFlag{Name: "out-data", Usage: "output native map data"},
				&cli.StringFlag{Name: "out-json", Usage: "output JSON description"},
				&cli.BoolFlag{Name: "column-order", Usage: "emit map entries in column-major order"},
				&cli.UintFlag{Name: "split-width", Usage: "split output into blocks of this width (0 = no split)"},
				&cli.UintFlag{Name: "split-height", Usage: "split output into blocks of this height (0 = no split)"},
				&cli.IntFlag{Name: "map-base-offset", Usage: "tile index offset added to every entry"},
				&cli.IntFlag{Name: "palette-base-offset", Usage: "palette index offset added to every entry"},
				&cli.BoolFlag{Name: "mode7-interleave", Usage: "byte-interleave with tileset data (snes_mode7 only)"},
				&cli.BoolFlag{Name: "gbc-banked", Usage: "split even/odd bytes into banks (gbc only, dims must be multiples of 32)"},
			),
			Action: actionMap,
		},
		{
			Name:      "convert",
			Usage:     "generate palette, tileset and tilemap in one pass",
			ArgsUsage: " ",
			Flags: append(append([]cli.Flag{}, sharedFlags...),
				&cli.StringFlag{Name: "out-palette", Usage: "output native palette data"},
				&cli.StringFlag{Name: "out-tiles", Usage: "output native tile data"},
				&cli.StringFlag{Name: "out-map", Usage: "output native map data"},
			),
			Action: actionConvert,
		},
		{
			Name:   "man",
			Hidden: true,
			Action: func(c *cli.Context) error {
				man, err := c.App.ToMan()
				if err != nil {
					return cli.Exit(err, 1)
				}
				_, err = io.WriteString(os.Stdout, man)
				return err
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func loadImage(path string) (*sfc.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, sfc.NewIOError(err)
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return nil, sfc.NewIOError(err)
	}
	return sfc.NewImageFromStdlib(src), nil
}

func resolveOptions(c *cli.Context, logger *log.Logger) (sfc.Mode, sfc.Options, error) {
	mode, err := sfc.ParseMode(c.String("mode"))
	if err != nil {
		return 0, sfc.Options{}, err
	}
	opts := sfc.Options{
		Mode:                mode,
		BPP:                 c.Uint("bpp"),
		TileWidth:           int(c.Uint("tile-width")),
		TileHeight:          int(c.Uint("tile-height")),
		MaxTiles:            c.Uint("max-tiles"),
		MaxSubpalettes:      c.Uint("max-palettes"),
		ColorsPerSubpalette: c.Uint("colors"),
		NoFlip:              c.Bool("no-flip"),
		NoDiscard:           c.Bool("no-discard"),
		Logger:              logger,
	}
	if hex := c.String("color-zero"); hex != "" {
		cz, err := sfc.ParseHex(hex)
		if err != nil {
			return 0, sfc.Options{}, err
		}
		opts.ColorZero = &cz
	}
	return mode, opts, nil
}

// loadPalette reads a frozen palette from disk for --in-palette,
// auto-detecting JSON versus native binary by content the way
// Palette.cpp's try-JSON-else-binary constructor does (here as an
// explicit parse check rather than exception-driven fallback).
// ACT is also accepted, by file extension, since sfc already supports
// exporting it and round-tripping it back in is a natural companion.
func loadPalette(path string, p sfc.Profile, colorsPerSubpalette uint) (*sfc.Palette, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, sfc.NewIOError(err)
	}

	pal := sfc.NewPalette(p)

	if colorSets, jsonErr := sfc.ImportPaletteJSON(data); jsonErr == nil {
		for _, colors := range colorSets {
			sp := sfc.NewSubpalette(colorsPerSubpalette)
			for _, c := range colors {
				if err := sp.Add(p.Reduce(c), false); err != nil {
					return nil, err
				}
			}
			pal.Subpalettes = append(pal.Subpalettes, sp)
		}
		return pal, nil
	}

	var flat []sfc.Color
	if strings.HasSuffix(strings.ToLower(path), ".act") {
		flat, err = sfc.ImportACT(data)
	} else {
		flat, err = p.UnpackNativeColors(data)
	}
	if err != nil {
		return nil, err
	}
	for i := 0; i < len(flat); i += int(colorsPerSubpalette) {
		end := i + int(colorsPerSubpalette)
		if end > len(flat) {
			end = len(flat)
		}
		sp := sfc.NewSubpalette(colorsPerSubpalette)
		for _, c := range flat[i:end] {
			if err := sp.Add(c, true); err != nil {
				return nil, err
			}
		}
		sp.CheckCol0Duplicates()
		pal.Subpalettes = append(pal.Subpalettes, sp)
	}
	return pal, nil
}

// withInPalette loads --in-palette (if given) into opts.Palette,
// resolving the colors-per-subpalette the same way Options.resolve
// would so the loaded banks are sized consistently.
func withInPalette(c *cli.Context, p sfc.Profile, opts sfc.Options) (sfc.Options, error) {
	path := c.String("in-palette")
	if path == "" {
		return opts, nil
	}
	colorsPerSubpalette := opts.ColorsPerSubpalette
	if colorsPerSubpalette == 0 {
		bpp := opts.BPP
		if bpp == 0 {
			bpp = p.DefaultBPP
		}
		colorsPerSubpalette = sfc.ColorsPerSubpalette(bpp)
	}
	pal, err := loadPalette(path, p, colorsPerSubpalette)
	if err != nil {
		return opts, err
	}
	opts.Palette = pal
	return opts, nil
}

func actionPalette(c *cli.Context) error {
	logger := newLogger(c)

	inImage := c.String("in-image")
	if inImage == "" {
		return cli.Exit("palette: --in-image is required", 1)
	}

	img, err := loadImage(inImage)
	if err != nil {
		return cli.Exit(err, 1)
	}

	mode, opts, err := resolveOptions(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := sfc.ProfileFor(mode)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result, err := sfc.Convert(img, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("palette: %s", result.Palette.Description())

	if out := c.String("out-data"); out != "" {
		var data []byte
		for _, sp := range result.Palette.Subpalettes {
			data = append(data, p.PackNativeColors(sp.Padded().Colors)...)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-act"); out != "" {
		if err := os.WriteFile(out, result.Palette.ExportACT(), 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-json"); out != "" {
		data, err := result.Palette.ExportJSON()
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	return nil
}

func actionTiles(c *cli.Context) error {
	logger := newLogger(c)

	inImage := c.String("in-image")
	if inImage == "" {
		return cli.Exit("tiles: --in-image is required", 1)
	}

	img, err := loadImage(inImage)
	if err != nil {
		return cli.Exit(err, 1)
	}

	mode, opts, err := resolveOptions(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := sfc.ProfileFor(mode)
	if err != nil {
		return cli.Exit(err, 1)
	}
	opts, err = withInPalette(c, p, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result, err := sfc.Convert(img, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("tiles: %d unique, %d discarded", len(result.Tileset.Tiles), result.Tileset.DiscardedTiles)

	if out := c.String("out-data"); out != "" {
		if err := os.WriteFile(out, p.NativeTilesetData(result.Tileset), 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-image"); out != "" {
		if err := writeTilesetPreview(out, p, result.Tileset); err != nil {
			return cli.Exit(err, 1)
		}
	}
	return nil
}

func actionMap(c *cli.Context) error {
	logger := newLogger(c)

	inImage := c.String("in-image")
	if inImage == "" {
		return cli.Exit("map: --in-image is required", 1)
	}

	img, err := loadImage(inImage)
	if err != nil {
		return cli.Exit(err, 1)
	}

	mode, opts, err := resolveOptions(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := sfc.ProfileFor(mode)
	if err != nil {
		return cli.Exit(err, 1)
	}
	opts, err = withInPalette(c, p, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result, err := sfc.Convert(img, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if offset := c.Int("map-base-offset"); offset != 0 {
		result.Map.AddBaseOffset(offset)
	}
	if offset := c.Int("palette-base-offset"); offset != 0 {
		result.Map.AddPaletteBaseOffset(offset)
	}
	logger.Printf("map: %dx%d cells", result.Map.Width, result.Map.Height)

	columnOrder := c.Bool("column-order")
	splitW := int(c.Uint("split-width"))
	splitH := int(c.Uint("split-height"))

	if out := c.String("out-data"); out != "" {
		var data []byte
		switch {
		case c.Bool("mode7-interleave"):
			data = p.Mode7InterleavedData(result.Map, result.Tileset)
		case c.Bool("gbc-banked"):
			data, err = p.GBCBankedData(result.Map)
			if err != nil {
				return cli.Exit(err, 1)
			}
		default:
			data = p.NativeData(result.Map, columnOrder, splitW, splitH, opts.TileWidth, opts.TileHeight)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-json"); out != "" {
		data, err := p.ExportMapJSON(result.Map, columnOrder, splitW, splitH, opts.TileWidth, opts.TileHeight)
		if err != nil {
			return cli.Exit(err, 1)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	return nil
}

func actionConvert(c *cli.Context) error {
	logger := newLogger(c)

	inImage := c.String("in-image")
	if inImage == "" {
		return cli.Exit("convert: --in-image is required", 1)
	}

	img, err := loadImage(inImage)
	if err != nil {
		return cli.Exit(err, 1)
	}

	mode, opts, err := resolveOptions(c, logger)
	if err != nil {
		return cli.Exit(err, 1)
	}
	p, err := sfc.ProfileFor(mode)
	if err != nil {
		return cli.Exit(err, 1)
	}
	opts, err = withInPalette(c, p, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}

	result, err := sfc.Convert(img, opts)
	if err != nil {
		return cli.Exit(err, 1)
	}
	logger.Printf("%s: %s, %d tiles, %dx%d map", p.Mode, result.Palette.Description(), len(result.Tileset.Tiles), result.Map.Width, result.Map.Height)

	if out := c.String("out-palette"); out != "" {
		var data []byte
		for _, sp := range result.Palette.Subpalettes {
			data = append(data, p.PackNativeColors(sp.Padded().Colors)...)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-tiles"); out != "" {
		if err := os.WriteFile(out, p.NativeTilesetData(result.Tileset), 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	if out := c.String("out-map"); out != "" {
		data := p.NativeData(result.Map, false, 0, 0, opts.TileWidth, opts.TileHeight)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return cli.Exit(sfc.NewIOError(err), 1)
		}
	}
	return nil
}

// writeTilesetPreview renders every stored tile as a row-major grid of
// cells into an RGBA PNG, for visual inspection of --out-image.
func writeTilesetPreview(path string, p sfc.Profile, ts *sfc.Tileset) error {
	tiles := ts.Tiles
	if len(tiles) == 0 {
		return nil
	}
	cols := 16
	if cols > len(tiles) {
		cols = len(tiles)
	}
	rows := (len(tiles) + cols - 1) / cols

	img := image.NewRGBA(image.Rect(0, 0, cols*ts.TileW, rows*ts.TileH))
	for i, t := range tiles {
		ox := (i % cols) * t.Width
		oy := (i / cols) * t.Height
		for y := 0; y < t.Height; y++ {
			for x := 0; x < t.Width; x++ {
				idx := t.Data[y*t.Width+x]
				var c sfc.Color
				if int(idx) < len(t.Palette) {
					c = p.Normalize(t.Palette[idx])
				}
				img.Set(ox+x, oy+y, color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xff})
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return sfc.NewIOError(err)
	}
	defer f.Close()
	return png.Encode(f, img)
}
