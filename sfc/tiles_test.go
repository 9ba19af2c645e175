package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidIndexed(w, h int, v uint8) []uint8 {
	out := make([]uint8, w*h)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestTileEqualUnderHorizontalFlip(t *testing.T) {
	// scenario 2: a tile and its horizontal mirror compare equal, and
	// IsFlipped reports flip_h.
	data := make([]uint8, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			data[y*8+x] = uint8(x)
		}
	}
	mirrored := mirror(data, 8, true, false)

	a := NewTile(8, 8, 4, nil, data, false)
	b := NewTile(8, 8, 4, nil, mirrored, false)

	assert.True(t, a.Equal(b))
	flipped := a.IsFlipped(b)
	assert.True(t, flipped.H)
	assert.False(t, flipped.V)
}

func TestTileNotEqualWhenNoFlip(t *testing.T) {
	data := make([]uint8, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			data[y*8+x] = uint8(x)
		}
	}
	mirrored := mirror(data, 8, true, false)

	// With noFlip, mirrors aren't precomputed so only identical data matches.
	a := NewTile(8, 8, 4, nil, data, true)
	b := NewTile(8, 8, 4, nil, mirrored, true)
	assert.False(t, a.Equal(b))
}

func TestTilesetDiscardsDuplicateOrientations(t *testing.T) {
	// scenario 2: tileset size 1 with no-flip=false, 2 with no-flip=true.
	data := make([]uint8, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			data[y*8+x] = uint8(x % 4)
		}
	}
	mirrored := mirror(data, 8, true, false)

	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	ts := NewTileset(p, 8, 8, false, false, 0)
	i1, err := ts.Add(NewTile(8, 8, 4, nil, data, false))
	require.NoError(t, err)
	i2, err := ts.Add(NewTile(8, 8, 4, nil, mirrored, false))
	require.NoError(t, err)
	assert.Equal(t, i1, i2)
	assert.Len(t, ts.Tiles, 1)
	assert.Equal(t, 1, ts.DiscardedTiles)

	tsNoFlip := NewTileset(p, 8, 8, true, false, 0)
	_, err = tsNoFlip.Add(NewTile(8, 8, 4, nil, data, true))
	require.NoError(t, err)
	_, err = tsNoFlip.Add(NewTile(8, 8, 4, nil, mirrored, true))
	require.NoError(t, err)
	assert.Len(t, tsNoFlip.Tiles, 2)
}

func TestTilesetCap(t *testing.T) {
	// P8: |tileset| <= max_tiles(M).
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	ts := NewTileset(p, 8, 8, true, true, 1)
	_, err = ts.Add(NewTile(8, 8, 4, nil, solidIndexed(8, 8, 1), true))
	require.NoError(t, err)

	_, err = ts.Add(NewTile(8, 8, 4, nil, solidIndexed(8, 8, 2), true))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTilesetFull))
}

func TestTilesetNoDuplicateOrientationsWhenDiscardEnabled(t *testing.T) {
	// P7: no two tiles equal under any orientation when discard is on.
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	ts := NewTileset(p, 8, 8, false, false, 0)
	for i := 0; i < 4; i++ {
		_, err := ts.Add(NewTile(8, 8, 4, nil, solidIndexed(8, 8, uint8(i)), false))
		require.NoError(t, err)
	}
	for i, a := range ts.Tiles {
		for j, b := range ts.Tiles {
			if i == j {
				continue
			}
			assert.False(t, a.Equal(b))
		}
	}
}

func TestMetatileRemapRoundtrip(t *testing.T) {
	// 16x16 metatile split into 8x8 cells and reassembled should match.
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	data := make([]uint8, 256)
	for i := range data {
		data[i] = uint8(i % 16)
	}
	tile := NewTile(16, 16, 4, nil, data, true)

	ts := NewTileset(p, 16, 16, true, true, 0)
	_, err = ts.Add(tile)
	require.NoError(t, err)

	cells := ts.RemapForOutput()
	assert.Equal(t, 32, len(cells)) // cells_per_row=16, rows=div_ceil(1,8)*2=2
	reassembled := ts.RemapForInput(cells)
	require.NotEmpty(t, reassembled)
	assert.Equal(t, tile.Data, reassembled[0].Data)
}
