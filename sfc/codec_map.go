package sfc

// PackNativeMapEntry packs one MapEntry into the mode's native wire
// format (spec.md §4.9). Grounded on Map.h's pack_native_mapentry for
// wideBackground/singleByte; the remaining families are derived
// mechanically from each mode's (flip-allowed, palette-count>1,
// tile-index-bit-width) triple per SPEC_FULL.md §3.
func (p Profile) PackNativeMapEntry(e MapEntry) []byte {
	switch p.mapFamily {
	case mapFamilyWideBackground:
		b0 := byte(e.TileIndex & 0xff)
		b1 := byte(((e.TileIndex >> 8) & 0x3) | ((e.PaletteIndex << 2) & 0x1c))
		if e.FlipH {
			b1 |= 1 << 6
		}
		if e.FlipV {
			b1 |= 1 << 7
		}
		return []byte{b0, b1}

	case mapFamilyHandheldExtended:
		b0 := byte(e.TileIndex & 0xff)
		b1 := byte(e.PaletteIndex&0x07) | byte((e.TileIndex>>5)&0x08)
		if e.FlipH {
			b1 |= 1 << 5
		}
		if e.FlipV {
			b1 |= 1 << 6
		}
		return []byte{b0, b1}

	case mapFamilySingleByte:
		return []byte{byte(e.TileIndex & 0xff)}

	case mapFamilyPaletteOnly:
		word := uint16(e.TileIndex&0x0fff) | (uint16(e.PaletteIndex&0x0f) << 12)
		return []byte{byte(word & 0xff), byte(word >> 8)}

	case mapFamilyTileOnly8:
		return []byte{byte(e.TileIndex & 0xff)}

	default:
		return nil
	}
}

// NativeMapEntrySize is the byte width of one native map entry.
func (p Profile) NativeMapEntrySize() int {
	switch p.mapFamily {
	case mapFamilySingleByte, mapFamilyTileOnly8:
		return 1
	default:
		return 2
	}
}

// UnpackNativeMapEntry is the inverse of PackNativeMapEntry.
func (p Profile) UnpackNativeMapEntry(data []byte) (MapEntry, error) {
	size := p.NativeMapEntrySize()
	if len(data) < size {
		return MapEntry{}, newError(KindFormatInvalid, "native map entry data truncated")
	}
	switch p.mapFamily {
	case mapFamilyWideBackground:
		b0, b1 := data[0], data[1]
		return MapEntry{
			TileIndex:    int(b0) | (int(b1&0x3) << 8),
			PaletteIndex: int((b1 >> 2) & 0x7),
			FlipH:        b1&(1<<6) != 0,
			FlipV:        b1&(1<<7) != 0,
		}, nil

	case mapFamilyHandheldExtended:
		b0, b1 := data[0], data[1]
		return MapEntry{
			TileIndex:    int(b0) | (int(b1&0x08) << 5),
			PaletteIndex: int(b1 & 0x07),
			FlipH:        b1&(1<<5) != 0,
			FlipV:        b1&(1<<6) != 0,
		}, nil

	case mapFamilySingleByte, mapFamilyTileOnly8:
		return MapEntry{TileIndex: int(data[0])}, nil

	case mapFamilyPaletteOnly:
		word := uint16(data[0]) | uint16(data[1])<<8
		return MapEntry{TileIndex: int(word & 0x0fff), PaletteIndex: int(word >> 12)}, nil

	default:
		return MapEntry{}, newError(KindConfigInvalid, "mode has no native map entry format")
	}
}

// CollectEntries returns the map's entries split into split_w x
// split_h rectangular blocks (column by column: every block of the
// leftmost block column top to bottom, then the next), each block
// itself read in row-major or column-major cell order. split_w==0 or
// split_h==0 means "the whole map as one block". Grounded on
// Map.cpp's Map::collect_entries.
func (m *Map) CollectEntries(columnOrder bool, splitW, splitH, tileW, tileH int) [][]MapEntry {
	if splitW > m.Width || splitW == 0 {
		splitW = m.Width
	}
	if splitH > m.Height || splitH == 0 {
		splitH = m.Height
	}

	var blocks [][]MapEntry
	if splitW == m.Width && splitH == m.Height {
		block := make([]MapEntry, len(m.Entries))
		for i := range m.Entries {
			x, y := i%m.Width, i/m.Width
			block[i] = m.EntryAt(x, y, tileW, tileH)
		}
		blocks = append(blocks, block)
	} else {
		columns := divCeil(m.Width, splitW)
		if columns == 0 {
			columns = 1
		}
		rows := divCeil(m.Height, splitH)
		if rows == 0 {
			rows = 1
		}
		for col := 0; col < columns; col++ {
			for row := 0; row < rows; row++ {
				block := make([]MapEntry, splitW*splitH)
				for pos := 0; pos < splitW*splitH; pos++ {
					x := col*splitW + pos%splitW
					y := row*splitH + pos/splitW
					if x < m.Width && y < m.Height {
						block[pos] = m.EntryAt(x, y, tileW, tileH)
					}
				}
				blocks = append(blocks, block)
			}
		}
	}

	if columnOrder {
		out := make([][]MapEntry, len(blocks))
		for bi, block := range blocks {
			reordered := make([]MapEntry, len(block))
			for pos := range block {
				src := ((pos * splitW) + (pos / splitH)) % (splitW * splitH)
				reordered[pos] = block[src]
			}
			out[bi] = reordered
		}
		return out
	}
	return blocks
}

// NativeData packs every collected block back to back into one byte
// stream, the form written to the map output file.
func (p Profile) NativeData(m *Map, columnOrder bool, splitW, splitH, tileW, tileH int) []byte {
	var out []byte
	for _, block := range m.CollectEntries(columnOrder, splitW, splitH, tileW, tileH) {
		for _, e := range block {
			out = append(out, p.PackNativeMapEntry(e)...)
		}
	}
	return out
}

// PaletteMapData packs just the palette index of every entry as a
// 16-bit little-endian stream, an auxiliary output some modes' map
// tools expect separately from the tile/flip data.
func (m *Map) PaletteMapData(columnOrder bool, splitW, splitH, tileW, tileH int) []byte {
	var out []byte
	for _, block := range m.CollectEntries(columnOrder, splitW, splitH, tileW, tileH) {
		for _, e := range block {
			out = append(out, byte(e.PaletteIndex&0xff), byte(e.PaletteIndex>>8))
		}
	}
	return out
}

// Mode7InterleavedData byte-interleaves the map's native data with the
// tileset's native tile data (map byte, tile byte, map byte, ...), the
// wire format SNES Mode 7 backgrounds require since tile and map data
// share one indexed byte plane. Grounded on Map::snes_mode7_interleaved_data.
func (p Profile) Mode7InterleavedData(m *Map, ts *Tileset) []byte {
	mapData := p.NativeData(m, false, 0, 0, 8, 8)
	tileData := p.NativeTilesetData(ts)

	sz := len(tileData)
	if len(mapData) > sz {
		sz = len(mapData)
	}
	out := make([]byte, sz*2)
	for i, b := range mapData {
		out[i<<1] = b
	}
	for i, b := range tileData {
		out[(i<<1)+1] = b
	}
	return out
}

// GBCBankedData splits the map's native data into its even- and
// odd-indexed bytes, stored as two contiguous halves rather than
// interleaved, the GBC background-map VRAM bank layout. Requires both
// map dimensions to be multiples of 32. Grounded on Map::gbc_banked_data.
func (p Profile) GBCBankedData(m *Map) ([]byte, error) {
	if m.Width%32 != 0 || m.Height%32 != 0 {
		return nil, newError(KindDimensionInvalid, "gbc banked output requires map dimensions to be multiples of 32")
	}
	linear := p.NativeData(m, false, 0, 0, 8, 8)
	out := make([]byte, len(linear))
	half := len(linear) / 2
	for i := 0; i < half; i++ {
		out[i] = linear[i<<1]
		out[i+half] = linear[(i<<1)+1]
	}
	return out, nil
}

// NativeTilesetData packs a tileset's (possibly metatile-remapped)
// tiles back to back.
func (p Profile) NativeTilesetData(ts *Tileset) []byte {
	var out []byte
	for _, t := range ts.RemapForOutput() {
		out = append(out, p.PackNativeTile(t)...)
	}
	return out
}
