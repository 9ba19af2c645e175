package sfc

import "encoding/json"

// paletteJSON is the on-disk shape of a Palette, matching
// Palette::to_json: "palettes" holds each subpalette's colors as
// normalized (8bpc) hex strings, "palettes_native_rgb" holds the same
// colors' raw reduced per-channel values.
type paletteJSON struct {
	Palettes          [][]string   `json:"palettes"`
	PalettesNativeRGB [][][3]uint8 `json:"palettes_native_rgb"`
}

// ExportJSON renders the palette's subpalettes as JSON.
func (pal *Palette) ExportJSON() ([]byte, error) {
	out := paletteJSON{
		Palettes:          make([][]string, len(pal.Subpalettes)),
		PalettesNativeRGB: make([][][3]uint8, len(pal.Subpalettes)),
	}
	for i, sp := range pal.Subpalettes {
		hexes := make([]string, len(sp.Colors))
		rgb := make([][3]uint8, len(sp.Colors))
		for j, c := range sp.Colors {
			norm := pal.Profile.Normalize(c)
			hexes[j] = norm.Hex()
			rgb[j] = [3]uint8{c.R(), c.G(), c.B()}
		}
		out.Palettes[i] = hexes
		out.PalettesNativeRGB[i] = rgb
	}
	return json.MarshalIndent(out, "", "  ")
}

// ImportPaletteJSON parses a palette JSON document back into subpalette
// color lists (normalized 8bpc colors, still requiring Reduce before
// use in the pipeline).
func ImportPaletteJSON(data []byte) ([][]Color, error) {
	var doc paletteJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, newError(KindFormatInvalid, "invalid palette JSON: %v", err)
	}
	if doc.Palettes == nil {
		return nil, newError(KindFormatInvalid, "palette JSON missing \"palettes\" key")
	}
	out := make([][]Color, len(doc.Palettes))
	for i, hexes := range doc.Palettes {
		colors := make([]Color, len(hexes))
		for j, h := range hexes {
			c, err := ParseHex(h)
			if err != nil {
				return nil, err
			}
			colors[j] = c
		}
		out[i] = colors
	}
	return out, nil
}

// mapEntryJSON is the variable-shape per-entry JSON record: fields are
// included only when the mode's capabilities give them meaning,
// matching Map::to_json's four field-set variants.
type mapEntryJSON struct {
	Tile    int  `json:"tile"`
	Palette *int `json:"palette,omitempty"`
	FlipH   *int `json:"flip_h,omitempty"`
	FlipV   *int `json:"flip_v,omitempty"`
}

type mapJSON struct {
	Map  []mapEntryJSON   `json:"map,omitempty"`
	Maps [][]mapEntryJSON `json:"maps,omitempty"`
}

// ExportMapJSON renders the map's entries (optionally split into blocks)
// as JSON, including only the "palette"/"flip_h"/"flip_v" fields the
// profile's capabilities make meaningful. A single block renders under
// "map"; multiple blocks render as a "maps" array.
func (p Profile) ExportMapJSON(m *Map, columnOrder bool, splitW, splitH, tileW, tileH int) ([]byte, error) {
	blocks := m.CollectEntries(columnOrder, splitW, splitH, tileW, tileH)
	hasPalette := p.DefaultPaletteCount > 1
	hasFlip := p.TileFlippingAllowed

	render := func(block []MapEntry) []mapEntryJSON {
		out := make([]mapEntryJSON, len(block))
		for i, e := range block {
			rec := mapEntryJSON{Tile: e.TileIndex}
			if hasPalette {
				v := e.PaletteIndex
				rec.Palette = &v
			}
			if hasFlip {
				h, v := boolToInt(e.FlipH), boolToInt(e.FlipV)
				rec.FlipH = &h
				rec.FlipV = &v
			}
			out[i] = rec
		}
		return out
	}

	var doc mapJSON
	if len(blocks) == 1 {
		doc.Map = render(blocks[0])
	} else {
		doc.Maps = make([][]mapEntryJSON, len(blocks))
		for i, b := range blocks {
			doc.Maps[i] = render(b)
		}
	}
	return json.MarshalIndent(doc, "", "  ")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
