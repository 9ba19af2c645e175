package sfc

// Tile is a single indexed-color cell at the mode's native bpp, along
// with its three precomputed mirror buffers (h, v, both) so that
// equality and flip detection never need to re-flip on every
// comparison. Grounded on Tiles.cpp's Tile::operator==/is_flipped.
type Tile struct {
	Width, Height int
	BPP           uint
	Palette       []Color // the subpalette this tile was remapped against
	Data          []uint8 // indices, length Width*Height

	mirrors [3][]uint8 // h, v, hv
	noFlip  bool
}

// NewTile builds a Tile from an already-remapped indexed buffer.
func NewTile(width, height int, bpp uint, palette []Color, indexed []uint8, noFlip bool) *Tile {
	mask := BitmaskAtBPP(bpp)
	data := make([]uint8, len(indexed))
	for i, v := range indexed {
		data[i] = v & mask
	}
	t := &Tile{Width: width, Height: height, BPP: bpp, Palette: palette, Data: data, noFlip: noFlip}
	if !noFlip {
		t.mirrors[0] = mirror(data, width, true, false)
		t.mirrors[1] = mirror(data, width, false, true)
		t.mirrors[2] = mirror(data, width, true, true)
	}
	return t
}

// mirror flips an indexed buffer horizontally and/or vertically.
func mirror(data []uint8, width int, h, v bool) []uint8 {
	height := len(data) / width
	out := make([]uint8, len(data))
	for y := 0; y < height; y++ {
		sy := y
		if v {
			sy = height - 1 - y
		}
		for x := 0; x < width; x++ {
			sx := x
			if h {
				sx = width - 1 - x
			}
			out[y*width+x] = data[sy*width+sx]
		}
	}
	return out
}

// Equal reports whether other is identical to t in any of its four
// orientations (itself, or one of t's three mirrors).
func (t *Tile) Equal(other *Tile) bool {
	if slicesEqualU8(t.Data, other.Data) {
		return true
	}
	for _, m := range t.mirrors {
		if m != nil && slicesEqualU8(m, other.Data) {
			return true
		}
	}
	return false
}

func slicesEqualU8(a, b []uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TileFlipped reports which axes other was flipped across to match t.
type TileFlipped struct {
	H, V bool
}

// IsFlipped computes the flip relationship between t and other,
// assuming Equal(other) already holds.
func (t *Tile) IsFlipped(other *Tile) TileFlipped {
	if slicesEqualU8(t.Data, other.Data) {
		return TileFlipped{}
	}
	if slicesEqualU8(t.mirrors[0], other.Data) {
		return TileFlipped{H: true}
	}
	if slicesEqualU8(t.mirrors[1], other.Data) {
		return TileFlipped{V: true}
	}
	return TileFlipped{H: true, V: true}
}

// crop extracts an 8x8 (or smaller, zero-padded) cell from a metatile's
// indexed data, used when splitting a wide tile into native 8x8 cells.
func (t *Tile) crop(x, y, w, h int) *Tile {
	out := make([]uint8, w*h)
	if x < t.Width && y < t.Height {
		blitW, blitH := w, h
		if x+w > t.Width {
			blitW = t.Width - x
		}
		if y+h > t.Height {
			blitH = t.Height - y
		}
		for iy := 0; iy < blitH; iy++ {
			srcRow := (y + iy) * t.Width
			dstRow := iy * w
			copy(out[dstRow:dstRow+blitW], t.Data[srcRow+x:srcRow+x+blitW])
		}
	}
	return NewTile(w, h, t.BPP, t.Palette, out, t.noFlip)
}

// crops slices t into a raster of w x h sub-tiles.
func (t *Tile) crops(w, h int) []*Tile {
	var out []*Tile
	for y := 0; y < t.Height; y += h {
		for x := 0; x < t.Width; x += w {
			out = append(out, t.crop(x, y, w, h))
		}
	}
	return out
}

// tileFromMetatile reassembles a grid of 8x8 sub-tiles back into one
// width x height tile, recomputing mirrors from the assembled data.
// Grounded on Tiles.cpp's Tile(metatile, no_flip, width, height).
func tileFromMetatile(metatile []*Tile, width, height int, noFlip bool) *Tile {
	if len(metatile) == 0 {
		return &Tile{}
	}
	dim := metatile[0].Width
	cellsH := width / dim
	cellsV := height / dim
	data := make([]uint8, width*height)

	idx := 0
	for my := 0; my < cellsV; my++ {
		for mx := 0; mx < cellsH; mx++ {
			sub := metatile[idx]
			for by := 0; by < dim; by++ {
				dstRow := (by + my*dim) * width
				srcRow := by * dim
				copy(data[dstRow+mx*dim:dstRow+mx*dim+dim], sub.Data[srcRow:srcRow+dim])
			}
			idx++
		}
	}
	return NewTile(width, height, metatile[0].BPP, metatile[0].Palette, data, noFlip)
}

// Tileset accumulates unique Tiles in emission order, per spec.md §4.6.
type Tileset struct {
	Mode          Mode
	BPP           uint
	TileW, TileH  int
	NoFlip        bool
	NoDiscard     bool
	MaxTiles      uint
	Tiles         []*Tile
	DiscardedTiles int
}

// NewTileset returns an empty Tileset for the given profile and tile
// dimensions (which may differ from the profile's default 8x8, in
// which case tiles are stored as metatiles until native emission).
func NewTileset(p Profile, tileW, tileH int, noFlip, noDiscard bool, maxTiles uint) *Tileset {
	return &Tileset{Mode: p.Mode, BPP: p.DefaultBPP, TileW: tileW, TileH: tileH, NoFlip: noFlip, NoDiscard: noDiscard, MaxTiles: maxTiles}
}

// Add appends tile to the set, discarding it (under its own flip
// orientations) if an identical tile already exists and NoDiscard is
// false. Returns the index of the stored (or matched) tile.
func (ts *Tileset) Add(tile *Tile) (int, error) {
	if !ts.NoDiscard {
		for i, existing := range ts.Tiles {
			if existing.Equal(tile) {
				ts.DiscardedTiles++
				return i, nil
			}
		}
	}
	if ts.MaxTiles > 0 && uint(len(ts.Tiles)) >= ts.MaxTiles {
		return -1, newError(KindTilesetFull, "tileset exceeds maximum of %d tiles", ts.MaxTiles)
	}
	ts.Tiles = append(ts.Tiles, tile)
	return len(ts.Tiles) - 1, nil
}

// IndexOf returns the index of a tile identical to (in any orientation
// of) tile, or -1 if none is present.
func (ts *Tileset) IndexOf(tile *Tile) int {
	for i, existing := range ts.Tiles {
		if existing.Equal(tile) {
			return i
		}
	}
	return -1
}

// metatileLayoutWidth is the number of 8x8 cells per native row used
// when laying metatiles out for emission: 16 for SNES-style wide
// backgrounds (matching the hardware's 256px-wide tile sheet), 1 for
// every handheld/vertical sprite layout that stores metatiles as
// contiguous runs of sub-tiles instead.
func metatileLayoutWidth(mode Mode) int {
	if mode == ModeSNES {
		return 16
	}
	return 1
}

// needsMetatileRemap reports whether ts's tile dimensions require
// expansion into 8x8 cells for native emission.
func (ts *Tileset) needsMetatileRemap() bool {
	return ts.Mode != ModePCESprite && (ts.TileW != 8 || ts.TileH != 8)
}

// RemapForOutput expands every stored metatile into its constituent
// 8x8 cells laid out row-major at metatileLayoutWidth(ts.Mode) cells
// per row, the form the native tile encoders expect. Grounded on
// Tileset::remap_tiles_for_output.
func (ts *Tileset) RemapForOutput() []*Tile {
	if !ts.needsMetatileRemap() {
		return ts.Tiles
	}
	cellsH := ts.TileW / 8
	cellsV := ts.TileH / 8
	cellsPerRow := metatileLayoutWidth(ts.Mode)
	tilesPerRow := cellsPerRow / cellsH
	if tilesPerRow < 1 {
		tilesPerRow = 1
	}
	rows := divCeil(len(ts.Tiles), tilesPerRow) * cellsV

	out := make([]*Tile, cellsPerRow*rows)
	for i, tile := range ts.Tiles {
		basePos := ((i / tilesPerRow) * cellsV * cellsPerRow) + (i%tilesPerRow)*cellsH
		ct := tile.crops(8, 8)
		for cy := 0; cy < cellsV; cy++ {
			for cx := 0; cx < cellsH; cx++ {
				out[basePos+cy*cellsPerRow+cx] = ct[cy*cellsH+cx]
			}
		}
	}
	for i, t := range out {
		if t == nil {
			out[i] = NewTile(8, 8, ts.BPP, nil, make([]uint8, 64), ts.NoFlip)
		}
	}
	return out
}

// RemapForInput reassembles a flat stream of native 8x8 cells (as read
// from a file) back into metatiles of ts.TileW x ts.TileH, the inverse
// of RemapForOutput. Grounded on Tileset::remap_tiles_for_input.
func (ts *Tileset) RemapForInput(cells []*Tile) []*Tile {
	if !ts.needsMetatileRemap() {
		return cells
	}
	cellsH := ts.TileW / 8
	cellsV := ts.TileH / 8
	cellsPerRow := metatileLayoutWidth(ts.Mode)
	tilesPerRow := cellsPerRow / cellsH
	if tilesPerRow < 1 {
		tilesPerRow = 1
	}

	var out []*Tile
	for slot := 0; ; slot++ {
		i := ((slot / tilesPerRow) * cellsV * cellsPerRow) + (slot%tilesPerRow)*cellsH
		var metatile []*Tile
		for yo := 0; yo < cellsV; yo++ {
			for xo := 0; xo < cellsH; xo++ {
				idx := i + yo*cellsPerRow + xo
				if idx < len(cells) {
					metatile = append(metatile, cells[idx])
				}
			}
		}
		if len(metatile) != cellsH*cellsV {
			break
		}
		out = append(out, tileFromMetatile(metatile, ts.TileW, ts.TileH, ts.NoFlip))
	}
	return out
}

func divCeil(a, b int) int {
	return (a + b - 1) / b
}
