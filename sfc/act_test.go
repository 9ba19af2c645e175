package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportImportACTRoundtrip(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	pal := NewPalette(p)
	sp := NewSubpalette(16)
	for i := uint8(0); i < 4; i++ {
		require.NoError(t, sp.Add(p.Reduce(NewColor(i*10, i*20, i*30, 0xff)), false))
	}
	pal.Subpalettes = append(pal.Subpalettes, sp)

	data := pal.ExportACT()
	require.Len(t, data, 256*3+4)
	assert.Equal(t, byte(0xff), data[0x302])
	assert.Equal(t, byte(0xff), data[0x303])
	assert.Equal(t, byte(16), data[0x301]) // padded subpalette contributes 16 entries

	colors, err := ImportACT(data)
	require.NoError(t, err)
	assert.Len(t, colors, 16)
}

func TestImportACTRejectsShortData(t *testing.T) {
	_, err := ImportACT([]byte{0x01, 0x02})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindFormatInvalid))
}
