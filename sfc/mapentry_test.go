package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellOf(colors ...Color) *Image {
	px := make([]Color, 64)
	for i := range px {
		px[i] = colors[i%len(colors)]
	}
	return &Image{Width: 8, Height: 8, Pixels: px}
}

func TestMapAssembleMatchesExistingTile(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	red := NewColor(0xff, 0x00, 0x00, 0xff)
	green := NewColor(0x00, 0xff, 0x00, 0xff)
	cell := cellOf(red, green)

	pal := NewPalette(p)
	sp := NewSubpalette(16)
	require.NoError(t, sp.Add(p.Reduce(red), false))
	require.NoError(t, sp.Add(p.Reduce(green), false))
	pal.Subpalettes = append(pal.Subpalettes, sp)

	ts := NewTileset(p, 8, 8, false, false, 0)
	_, indexed, err := p.Remap(cell, sp)
	require.NoError(t, err)
	seedTile := NewTile(8, 8, p.DefaultBPP, sp.Colors, indexed, false)
	_, err = ts.Add(seedTile)
	require.NoError(t, err)

	m := NewMap(p, 1, 1)
	require.NoError(t, m.Assemble(cell, ts, pal, p.DefaultBPP, 0, 0))

	e := m.Entries[0]
	assert.Equal(t, 0, e.TileIndex)
	assert.Equal(t, 0, e.PaletteIndex)
	assert.False(t, e.FlipH)
	assert.False(t, e.FlipV)
}

func TestMapAssembleDetectsFlippedMatch(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	red := NewColor(0xff, 0x00, 0x00, 0xff)
	green := NewColor(0x00, 0xff, 0x00, 0xff)

	pal := NewPalette(p)
	sp := NewSubpalette(16)
	require.NoError(t, sp.Add(p.Reduce(red), false))
	require.NoError(t, sp.Add(p.Reduce(green), false))
	pal.Subpalettes = append(pal.Subpalettes, sp)

	ts := NewTileset(p, 8, 8, false, false, 0)

	// seed the tileset with a left-red/right-green tile.
	seed := &Image{Width: 8, Height: 8, Pixels: make([]Color, 64)}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := red
			if x >= 4 {
				c = green
			}
			seed.Pixels[y*8+x] = c
		}
	}
	_, indexed, err := p.Remap(seed, sp)
	require.NoError(t, err)
	_, err = ts.Add(NewTile(8, 8, p.DefaultBPP, sp.Colors, indexed, false))
	require.NoError(t, err)

	// the cell being mapped is the mirror image: left-green/right-red.
	cell := &Image{Width: 8, Height: 8, Pixels: make([]Color, 64)}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := green
			if x >= 4 {
				c = red
			}
			cell.Pixels[y*8+x] = c
		}
	}

	m := NewMap(p, 1, 1)
	require.NoError(t, m.Assemble(cell, ts, pal, p.DefaultBPP, 0, 0))
	assert.Equal(t, 0, m.Entries[0].TileIndex)
	assert.True(t, m.Entries[0].FlipH)
}

func TestMapAssembleLenientFallbackOnNoMatch(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	pal := NewPalette(p)
	ts := NewTileset(p, 8, 8, false, false, 0)
	cell := cellOf(NewColor(0xff, 0x00, 0x00, 0xff))

	m := NewMap(p, 1, 1)
	err = m.Assemble(cell, ts, pal, p.DefaultBPP, 0, 0)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNoMatchingSubpalette))
	assert.Equal(t, MapEntry{}, m.Entries[0])
}

func TestMapAssembleOutOfBounds(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	m := NewMap(p, 1, 1)
	err = m.Assemble(cellOf(Transparent), NewTileset(p, 8, 8, false, false, 0), NewPalette(p), p.DefaultBPP, 5, 5)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDimensionInvalid))
}

func TestAddBaseOffsetClampsAtZero(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	m := NewMap(p, 2, 1)
	m.Entries[0] = MapEntry{TileIndex: 5}
	m.Entries[1] = MapEntry{TileIndex: 1}

	m.AddBaseOffset(-3)
	assert.Equal(t, 2, m.Entries[0].TileIndex)
	assert.Equal(t, 0, m.Entries[1].TileIndex)
}

func TestAddPaletteBaseOffset(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	m := NewMap(p, 1, 1)
	m.Entries[0] = MapEntry{PaletteIndex: 2}
	m.AddPaletteBaseOffset(3)
	assert.Equal(t, 5, m.Entries[0].PaletteIndex)
}

func TestEntryAtRemapsWideBackgroundTileIndex(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	m := NewMap(p, 1, 1)
	m.Entries[0] = MapEntry{TileIndex: 9} // col=1,row=1 at 8x8 numbering

	e := m.EntryAt(0, 0, 16, 16)
	assert.Equal(t, 1*2+1*32, e.TileIndex)
}

func TestEntryAtClampsOutOfBoundsCoordinates(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	m := NewMap(p, 2, 2)
	m.Entries[3] = MapEntry{TileIndex: 7}

	e := m.EntryAt(99, 99, 8, 8)
	assert.Equal(t, 7, e.TileIndex)
}
