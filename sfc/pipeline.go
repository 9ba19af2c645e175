package sfc

import (
	"io"
	"log"
)

// Options configures one end-to-end conversion run (spec.md §6's
// "convert"/shorthand subcommand). The pipeline itself is intentionally
// single-threaded and deterministic (spec.md §5): cells are processed
// in raster order and every stage only reads the previous stage's
// output, so a run over the same image and Options always reproduces
// byte-identical artifacts.
type Options struct {
	Mode Mode

	BPP                 uint
	TileWidth, TileHeight int
	MaxTiles            uint
	MaxSubpalettes      uint
	ColorsPerSubpalette uint

	NoFlip    bool
	NoDiscard bool

	Sprite bool // marks a sprite conversion; Convert does not read it (the fill comes from the mode)

	// ColorZero, if non-nil, primes subpalette index 0 with this color
	// for modes where Col0Shared is true (spec.md §3/§4.3, --color-zero).
	// Left nil, the mode's DefaultColorZero is used when col0 is shared.
	ColorZero *Color

	// Palette, if non-nil, is used as-is instead of being derived from
	// src's cells, the multi-invocation "palette -> tiles --in-palette
	// -> map --in-palette" workflow of spec.md §6.
	Palette *Palette

	// Logger receives per-cell diagnostics (lenient map-assembly
	// warnings); defaults to a discarding logger.
	Logger *log.Logger
}

// Result bundles the three coupled artifacts one conversion run
// produces, per spec.md §2's pipeline table.
type Result struct {
	Profile Profile
	Image   *Image
	Palette *Palette
	Tileset *Tileset
	Map     *Map
}

// resolve fills in Options fields left at their zero value with the
// profile's defaults.
func (o Options) resolve(p Profile) Options {
	if o.BPP == 0 {
		o.BPP = p.DefaultBPP
	}
	if o.TileWidth == 0 {
		o.TileWidth = int(p.DefaultTileW)
	}
	if o.TileHeight == 0 {
		o.TileHeight = int(p.DefaultTileH)
	}
	if o.MaxTiles == 0 {
		o.MaxTiles = p.MaxTiles
	}
	if o.MaxSubpalettes == 0 {
		o.MaxSubpalettes = p.DefaultPaletteCount
	}
	if o.ColorsPerSubpalette == 0 {
		o.ColorsPerSubpalette = ColorsPerSubpalette(o.BPP)
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard, "", 0)
	}
	return o
}

// Convert runs the full palette+tileset+map pipeline over src.
func Convert(src *Image, opts Options) (*Result, error) {
	p, err := ProfileFor(opts.Mode)
	if err != nil {
		return nil, err
	}
	opts = opts.resolve(p)

	if !p.BPPAllowed(opts.BPP) {
		return nil, newError(KindConfigInvalid, "bpp %d not allowed for mode %s", opts.BPP, p.Mode)
	}
	if !p.TileSizeAllowed(uint(opts.TileWidth), uint(opts.TileHeight)) {
		return nil, newError(KindConfigInvalid, "tile size %dx%d not allowed for mode %s", opts.TileWidth, opts.TileHeight, p.Mode)
	}

	fill := p.BackgroundFill()
	cells := src.Cells(opts.TileWidth, opts.TileHeight, fill)

	pal := opts.Palette
	if pal == nil {
		var err error
		pal, err = buildPalette(p, cells, opts)
		if err != nil {
			return nil, err
		}
	}

	// Stage 1: build the tileset, one cell at a time, matching each
	// cell against only its first candidate subpalette (Tiles.cpp's
	// Tileset::add). This stage freezes the tileset before assembly.
	tileset := NewTileset(p, opts.TileWidth, opts.TileHeight, opts.NoFlip, opts.NoDiscard, opts.MaxTiles)
	for _, cell := range cells {
		cellColors := p.UniqueColors(cell)
		candidates := pal.MatchSubpalette(cellColors)
		if len(candidates) == 0 {
			continue
		}

		_, indexed, rerr := p.Remap(cell, candidates[0])
		if rerr != nil {
			continue
		}
		tile := NewTile(cell.Width, cell.Height, opts.BPP, candidates[0].Colors, indexed, opts.NoFlip)
		if _, addErr := tileset.Add(tile); addErr != nil && !IsKind(addErr, KindTilesetFull) {
			return nil, addErr
		}
	}

	// Stage 2: assemble the map against the now-frozen palette and
	// tileset, searching every candidate subpalette per cell (Map.cpp's
	// Map::add). Lenient per spec.md §7: a cell with no matching
	// subpalette/tileset entry logs a diagnostic and gets a zero entry,
	// it never aborts the run.
	tilesPerRow := divCeil(src.Width, opts.TileWidth)
	rows := divCeil(src.Height, opts.TileHeight)
	m := NewMap(p, tilesPerRow, rows)

	for i, cell := range cells {
		posX := i % tilesPerRow
		posY := i / tilesPerRow

		if err := m.Assemble(cell, tileset, pal, opts.BPP, posX, posY); err != nil {
			if IsKind(err, KindNoMatchingSubpalette) || IsKind(err, KindTilesetFull) {
				opts.Logger.Printf("warning: %v", err)
				continue
			}
			return nil, err
		}
	}

	return &Result{Profile: p, Image: src, Palette: pal, Tileset: tileset, Map: m}, nil
}

// buildPalette runs the optimizer over every cell's color set and
// materializes the resulting bins as Subpalettes. When the mode shares
// col0 across subpalettes (spec.md §3/§4.3), the primed color (from
// opts.ColorZero, or the mode's default) is inserted into every cell's
// color set before optimizing, guaranteeing the optimizer places it in
// every resulting bin, then swapped to index 0 when each Subpalette is
// assembled. Grounded on Palette.cpp's prime_col0/add_images.
func buildPalette(p Profile, cells []*Image, opts Options) (*Palette, error) {
	var primed Color
	priming := p.Col0Shared()
	if priming {
		if opts.ColorZero != nil {
			primed = p.Reduce(*opts.ColorZero).OpaqueRGB()
		} else {
			primed = p.DefaultColorZero()
		}
	}

	var colorSets [][]Color
	for _, cell := range cells {
		cs := p.UniqueColors(cell)
		if priming {
			cs = addIfMissing(cs, primed)
		}
		if uint(len(cs)) > opts.ColorsPerSubpalette {
			return nil, newError(KindCellTooColorful, "cell at %d,%d has %d unique colors, more than %d allowed", cell.SrcX, cell.SrcY, len(cs), opts.ColorsPerSubpalette)
		}
		colorSets = append(colorSets, cs)
	}

	bins, err := p.Optimize(colorSets, opts.ColorsPerSubpalette)
	if err != nil {
		return nil, err
	}
	if opts.MaxSubpalettes > 0 && uint(len(bins)) > opts.MaxSubpalettes {
		return nil, newError(KindPaletteOverflow, "optimizer produced %d subpalettes, mode allows %d", len(bins), opts.MaxSubpalettes)
	}

	pal := NewPalette(p)
	for _, bin := range bins {
		ordered := bin
		if priming {
			ordered = swapToFront(bin, primed)
		}
		sp := NewSubpalette(opts.ColorsPerSubpalette)
		for _, c := range ordered {
			if err := sp.Add(c, false); err != nil {
				return nil, err
			}
		}
		sp.Sort()
		sp.CheckCol0Duplicates()
		pal.Subpalettes = append(pal.Subpalettes, sp)
	}
	return pal, nil
}

// addIfMissing returns cs with c appended unless already present.
func addIfMissing(cs []Color, c Color) []Color {
	for _, existing := range cs {
		if existing == c {
			return cs
		}
	}
	return append(append([]Color(nil), cs...), c)
}

// swapToFront returns a copy of bin with its first occurrence of c
// moved to index 0, or bin unchanged if c isn't present (a bin that
// never received any cell containing the primed color, matching
// Palette.cpp's add_images: "if (p != cv.end()) iter_swap(...)").
func swapToFront(bin []Color, c Color) []Color {
	out := append([]Color(nil), bin...)
	for i, existing := range out {
		if existing == c {
			out[0], out[i] = out[i], out[0]
			return out
		}
	}
	return out
}
