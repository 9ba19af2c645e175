package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModeRoundtrip(t *testing.T) {
	names := []string{
		"snes", "snes_mode7", "gb", "gbc", "gba", "gba_affine",
		"md", "pce", "pce_sprite", "ws", "wsc", "wsc_packed",
	}
	for _, name := range names {
		m, err := ParseMode(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.String())
	}
}

func TestParseModeRejectsUnknown(t *testing.T) {
	_, err := ParseMode("neo_geo")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfigInvalid))
}

func TestProfileForAllModesPresent(t *testing.T) {
	names := []Mode{
		ModeSNES, ModeSNESMode7, ModeGB, ModeGBC, ModeGBA, ModeGBAAffine,
		ModeMD, ModePCE, ModePCESprite, ModeWS, ModeWSC, ModeWSCPacked,
	}
	for _, m := range names {
		p, err := ProfileFor(m)
		require.NoError(t, err)
		assert.Equal(t, m, p.Mode)
	}
}

func TestProfileForUnknownMode(t *testing.T) {
	_, err := ProfileFor(Mode(999))
	require.Error(t, err)
	assert.True(t, IsKind(err, KindConfigInvalid))
}

func TestBPPAllowedAndTileSizeAllowed(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	assert.True(t, p.BPPAllowed(2))
	assert.True(t, p.BPPAllowed(4))
	assert.True(t, p.BPPAllowed(8))
	assert.False(t, p.BPPAllowed(1))

	assert.True(t, p.TileSizeAllowed(8, 8))
	assert.True(t, p.TileSizeAllowed(16, 16))
	assert.True(t, p.TileSizeAllowed(8, 16)) // width and height are checked independently
	assert.False(t, p.TileSizeAllowed(32, 32))
}

func TestIsGrayscaleAndBackgroundFill(t *testing.T) {
	gb, err := ProfileFor(ModeGB)
	require.NoError(t, err)
	assert.True(t, gb.IsGrayscale())
	assert.Equal(t, Color(0xFF000000), gb.BackgroundFill())

	snes, err := ProfileFor(ModeSNES)
	require.NoError(t, err)
	assert.False(t, snes.IsGrayscale())
	assert.Equal(t, Transparent, snes.BackgroundFill())
}

func TestColorsPerSubpaletteAndBitmask(t *testing.T) {
	assert.Equal(t, uint(16), ColorsPerSubpalette(4))
	assert.Equal(t, uint8(15), BitmaskAtBPP(4))
	assert.Equal(t, uint(4), ColorsPerSubpalette(2))
	assert.Equal(t, uint8(3), BitmaskAtBPP(2))
}

func TestProfileStringIncludesModeAndBPP(t *testing.T) {
	p, err := ProfileFor(ModeMD)
	require.NoError(t, err)
	s := p.String()
	assert.Contains(t, s, "md")
	assert.Contains(t, s, "4")
}
