package sfc

// MapEntry is one cell of a Map: which tileset tile covers it, which
// subpalette it was matched against, and whether the tile had to be
// flipped to match. Mirrors Map.h's Mapentry.
type MapEntry struct {
	TileIndex    int
	PaletteIndex int
	FlipH, FlipV bool
}

// Map is the assembled tilemap over an image's cells, per spec.md §4.9.
type Map struct {
	Profile        Profile
	Width, Height  int // in cells
	Entries        []MapEntry
}

// NewMap allocates a Map of width x height cells, all zeroed.
func NewMap(p Profile, width, height int) *Map {
	return &Map{Profile: p, Width: width, Height: height, Entries: make([]MapEntry, width*height)}
}

// Assemble matches one image cell against the palette and tileset,
// writing the resulting MapEntry at (posX, posY). bpp is passed
// explicitly rather than taken from m.Profile.DefaultBPP, since some
// modes allow more than one bpp (e.g. SNES permits 2, 4 or 8).
// Leniency per spec.md §7: if no subpalette/tileset match is found, or
// the matched tile index exceeds the mode's tile-count cap, the entry
// falls back to {0,0,false,false} and the error is reported to the
// caller rather than aborting the whole map (the caller decides
// whether to treat it as fatal). Grounded on Map.cpp's Map::add.
func (m *Map) Assemble(cell *Image, tileset *Tileset, pal *Palette, bpp uint, posX, posY int) error {
	if posY*m.Width+posX >= len(m.Entries) {
		return newError(KindDimensionInvalid, "map entry (%d,%d) out of bounds", posX, posY)
	}

	cellColors := m.Profile.UniqueColors(cell)
	candidates := pal.MatchSubpalette(cellColors)

	tilesetIndex := -1
	paletteIndex := -1
	var matched *Tile

	for _, sp := range candidates {
		remappedImg, indexed, err := m.Profile.Remap(cell, sp)
		if err != nil {
			continue
		}
		_ = remappedImg
		tile := NewTile(cell.Width, cell.Height, bpp, sp.Colors, indexed, true)
		idx := tileset.IndexOf(tile)
		if idx != -1 {
			tilesetIndex = idx
			for pi, other := range pal.Subpalettes {
				if other == sp {
					paletteIndex = pi
					break
				}
			}
			matched = tile
			break
		}
	}

	if tilesetIndex == -1 {
		m.Entries[posY*m.Width+posX] = MapEntry{}
		return newError(KindNoMatchingSubpalette, "no matching tile for cell at %d,%d", cell.SrcX, cell.SrcY)
	}
	if m.Profile.MaxTiles > 0 && uint(tilesetIndex) >= m.Profile.MaxTiles {
		m.Entries[posY*m.Width+posX] = MapEntry{}
		return newError(KindTilesetFull, "mapped tile %d exceeds allowed map index at %d,%d", tilesetIndex, cell.SrcX, cell.SrcY)
	}

	flipped := tileset.Tiles[tilesetIndex].IsFlipped(matched)
	m.Entries[posY*m.Width+posX] = MapEntry{
		TileIndex:    tilesetIndex,
		PaletteIndex: paletteIndex,
		FlipH:        flipped.H,
		FlipV:        flipped.V,
	}
	return nil
}

// EntryAt returns the entry at (x,y), remapping the tile index for
// non-8x8 tile geometries the way SNES wide tilemaps require (SNES
// background tile numbering runs in 8x8-cell units across a 16-wide
// sheet regardless of the logical tile's own width/height).
func (m *Map) EntryAt(x, y, tileW, tileH int) MapEntry {
	if x >= m.Width {
		x = m.Width - 1
	}
	if y >= m.Height {
		y = m.Height - 1
	}
	e := m.Entries[y*m.Width+x]
	if tileW == 8 && tileH == 8 {
		return e
	}
	col := e.TileIndex % 8
	row := e.TileIndex / 8
	colStride := 1
	if tileW != 8 {
		colStride = 2
	}
	rowStride := 16
	if tileH != 8 {
		rowStride = 32
	}
	e.TileIndex = col*colStride + row*rowStride
	return e
}

// AddBaseOffset shifts every entry's tile index by offset, clamped at
// zero, matching Map::add_base_offset (used to place a map's tiles
// after another tileset already occupying low indices).
func (m *Map) AddBaseOffset(offset int) {
	for i := range m.Entries {
		v := m.Entries[i].TileIndex + offset
		if v < 0 {
			v = 0
		}
		m.Entries[i].TileIndex = v
	}
}

// AddPaletteBaseOffset is AddBaseOffset for the palette index.
func (m *Map) AddPaletteBaseOffset(offset int) {
	for i := range m.Entries {
		v := m.Entries[i].PaletteIndex + offset
		if v < 0 {
			v = 0
		}
		m.Entries[i].PaletteIndex = v
	}
}
