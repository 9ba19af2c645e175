/*
Package sfc implements the codec and optimizer that converts a source
RGBA raster image into the palette bank, tileset and tilemap that
retro 2D graphics hardware consumes.

A target Mode selects a hardware profile (SNES backgrounds, Mode 7,
Game Boy / Game Boy Color, Game Boy Advance tile and affine
backgrounds, Mega Drive, PC Engine backgrounds and sprites, and the
WonderSwan family) which determines color depth, palette geometry,
tile geometry, tile-count caps, flip support and the exact bit-packed
wire formats produced by the native encoders.

The pipeline runs in four stages, each reading only the previous
stage's output: an Image is sliced into cells, a Palette is optimized
from the cells' quantized colors, a Tileset is built from cells
remapped against the Palette, and a Map is assembled by matching each
cell against the Tileset and Palette.
*/
package sfc
