package sfc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageCropPadsOutOfBounds(t *testing.T) {
	img := &Image{Width: 4, Height: 4, Pixels: make([]Color, 16)}
	for i := range img.Pixels {
		img.Pixels[i] = NewColor(uint8(i), 0, 0, 0xff)
	}

	cropped := img.Crop(2, 2, 4, 4, Transparent)
	require.Equal(t, 4, cropped.Width)
	require.Equal(t, 4, cropped.Height)
	assert.Equal(t, img.At(2, 2), cropped.At(0, 0))
	assert.Equal(t, Transparent, cropped.At(3, 3))
}

func TestImageCropFullyOutOfBounds(t *testing.T) {
	img := &Image{Width: 4, Height: 4, Pixels: make([]Color, 16)}
	fill := NewColor(1, 2, 3, 0xff)
	cropped := img.Crop(10, 10, 2, 2, fill)
	for _, c := range cropped.Pixels {
		assert.Equal(t, fill, c)
	}
}

func TestImageCellsCoversWholeImageWithPadding(t *testing.T) {
	img := &Image{Width: 10, Height: 9, Pixels: make([]Color, 90)}
	cells := img.Cells(8, 8, Transparent)
	// 2 columns x 2 rows of 8x8 cells cover a 10x9 source.
	assert.Len(t, cells, 4)
	for _, c := range cells {
		assert.Equal(t, 8, c.Width)
		assert.Equal(t, 8, c.Height)
	}
}

func TestUniqueColorsExcludesTransparentAndDedupes(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	img := &Image{Width: 2, Height: 2, Pixels: []Color{
		NewColor(0xff, 0x00, 0x00, 0xff),
		NewColor(0xff, 0x00, 0x00, 0xff),
		Transparent,
		NewColor(0x00, 0xff, 0x00, 0xff),
	}}
	colors := p.UniqueColors(img)
	assert.Len(t, colors, 2)
}

func TestRemapProducesIndicesIntoSubpalette(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	red := NewColor(0xff, 0x00, 0x00, 0xff)
	green := NewColor(0x00, 0xff, 0x00, 0xff)

	sub := NewSubpalette(16)
	require.NoError(t, sub.Add(p.Reduce(red), false))
	require.NoError(t, sub.Add(p.Reduce(green), false))

	img := &Image{Width: 2, Height: 1, Pixels: []Color{red, green}}
	_, indexed, err := p.Remap(img, sub)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), indexed[0])
	assert.Equal(t, uint8(1), indexed[1])
}

func TestRemapTransparentMapsToIndexZero(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	sub := NewSubpalette(16)
	require.NoError(t, sub.Add(p.Reduce(NewColor(0xff, 0x00, 0x00, 0xff)), false))

	img := &Image{Width: 1, Height: 1, Pixels: []Color{Transparent}}
	_, indexed, err := p.Remap(img, sub)
	require.NoError(t, err)
	assert.Equal(t, uint8(0), indexed[0])
}

func TestRemapRejectsColorNotInSubpalette(t *testing.T) {
	p, err := ProfileFor(ModeSNES)
	require.NoError(t, err)

	sub := NewSubpalette(16)
	require.NoError(t, sub.Add(p.Reduce(NewColor(0xff, 0x00, 0x00, 0xff)), false))

	img := &Image{Width: 1, Height: 1, Pixels: []Color{NewColor(0x00, 0x00, 0xff, 0xff)}}
	_, _, err = p.Remap(img, sub)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindColorNotInSubpalette))
}
