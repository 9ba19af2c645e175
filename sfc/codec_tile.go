package sfc

// PackNativeTile packs an 8x8 (or 16x16 for column-planar sprites)
// tile's indexed data into the mode's native bit-packed wire format.
// Five families cover the full mode roster (spec.md §4.7):
//
//   - bitplane pairs: interleaved 2-bit Nintendo planes, 16 bytes per
//     plane pair, used by SNES/GB/GBC/GBA/WS.
//   - planar 4-bit: one byte per row per plane, not interleaved,
//     used by WSC (non-packed) and PC Engine backgrounds.
//   - linear 8-bit: one byte per pixel, used by Mode 7 and GBA affine.
//   - packed 4-bit: two pixels per byte, left pixel in the high nibble,
//     with the nibble order swapped for WSC's packed variant.
//   - column-planar 1-bit: column-major, 4 planes, LSB is the first
//     pixel in the column; used by PC Engine sprites (16x16).
//
// Grounded on Common.h's pack_native_tile/unpack_native_tile (bitplane
// pairs, linear) and extended mechanically to the remaining families
// per SPEC_FULL.md §3.
func (p Profile) PackNativeTile(t *Tile) []byte {
	switch p.tileFamily {
	case tileFamilyBitplanePairs:
		return packBitplanePairs(t.Data, t.Width, t.Height, p.DefaultBPP)
	case tileFamilyPlanar4:
		return packPlanar4(t.Data, t.Width, t.Height, p.DefaultBPP)
	case tileFamilyLinear8:
		return append([]byte(nil), t.Data...)
	case tileFamilyPacked4:
		return packPacked4(t.Data, t.Width, t.Height, false)
	case tileFamilyPacked4Swapped:
		return packPacked4(t.Data, t.Width, t.Height, true)
	case tileFamilyColumnPlanar1:
		return packColumnPlanar1(t.Data, t.Width, t.Height)
	default:
		return nil
	}
}

// NativeTileSize returns the number of native bytes one w x h tile
// occupies at the profile's default bpp.
func (p Profile) NativeTileSize(w, h int) int {
	switch p.tileFamily {
	case tileFamilyBitplanePairs:
		return (w * h * int(p.DefaultBPP)) / 8
	case tileFamilyPlanar4:
		return h * int(p.DefaultBPP)
	case tileFamilyLinear8:
		return w * h
	case tileFamilyPacked4, tileFamilyPacked4Swapped:
		return (w * h) / 2
	case tileFamilyColumnPlanar1:
		return (w * h * 4) / 8
	default:
		return 0
	}
}

func packBitplanePairs(data []uint8, w, h int, bpp uint) []byte {
	planes := bpp >> 1
	out := make([]byte, 0, (h*2)*int(planes))
	for pair := uint(0); pair < planes; pair++ {
		shift0 := pair * 2
		shift1 := shift0 + 1
		for y := 0; y < h; y++ {
			var b0, b1 byte
			for x := 0; x < w; x++ {
				v := data[y*w+x]
				bit0 := (v >> shift0) & 1
				bit1 := (v >> shift1) & 1
				b0 |= bit0 << (w - 1 - x)
				b1 |= bit1 << (w - 1 - x)
			}
			out = append(out, b0, b1)
		}
	}
	return out
}

func unpackBitplanePairs(data []byte, w, h int, bpp uint) []uint8 {
	out := make([]uint8, w*h)
	planes := bpp >> 1
	for pair := uint(0); pair < planes; pair++ {
		shift0 := pair * 2
		shift1 := shift0 + 1
		base := int(pair) * h * 2
		for y := 0; y < h; y++ {
			b0 := data[base+y*2]
			b1 := data[base+y*2+1]
			for x := 0; x < w; x++ {
				bit0 := (b0 >> (w - 1 - x)) & 1
				bit1 := (b1 >> (w - 1 - x)) & 1
				out[y*w+x] |= (bit0 << shift0) | (bit1 << shift1)
			}
		}
	}
	return out
}

func packPlanar4(data []uint8, w, h int, bpp uint) []byte {
	out := make([]byte, 0, h*int(bpp))
	for y := 0; y < h; y++ {
		for plane := uint(0); plane < bpp; plane++ {
			var b byte
			for x := 0; x < w; x++ {
				v := data[y*w+x]
				bit := (v >> plane) & 1
				b |= bit << (w - 1 - x)
			}
			out = append(out, b)
		}
	}
	return out
}

func unpackPlanar4(data []byte, w, h int, bpp uint) []uint8 {
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for plane := uint(0); plane < bpp; plane++ {
			b := data[y*int(bpp)+int(plane)]
			for x := 0; x < w; x++ {
				bit := (b >> (w - 1 - x)) & 1
				out[y*w+x] |= bit << plane
			}
		}
	}
	return out
}

func packPacked4(data []uint8, w, h int, swapNibbles bool) []byte {
	out := make([]byte, 0, (w*h)/2)
	for i := 0; i < len(data); i += 2 {
		lo := data[i] & 0x0f
		hi := data[i+1] & 0x0f
		var b byte
		if swapNibbles {
			b = lo | (hi << 4)
		} else {
			b = (lo << 4) | hi
		}
		out = append(out, b)
	}
	return out
}

func unpackPacked4(data []byte, swapNibbles bool) []uint8 {
	out := make([]uint8, 0, len(data)*2)
	for _, b := range data {
		lo := b & 0x0f
		hi := (b >> 4) & 0x0f
		if !swapNibbles {
			lo, hi = hi, lo
		}
		out = append(out, lo, hi)
	}
	return out
}

// packColumnPlanar1 writes one byte per 8 rows per plane per column,
// LSB corresponding to the topmost pixel in that 8-row half.
func packColumnPlanar1(data []uint8, w, h int) []byte {
	out := make([]byte, 0, (w*h*4)/8)
	for x := 0; x < w; x++ {
		for plane := uint(0); plane < 4; plane++ {
			for half := 0; half*8 < h; half++ {
				var b byte
				for yy := 0; yy < 8 && half*8+yy < h; yy++ {
					y := half*8 + yy
					v := data[y*w+x]
					bit := (v >> plane) & 1
					b |= bit << yy
				}
				out = append(out, b)
			}
		}
	}
	return out
}

func unpackColumnPlanar1(data []byte, w, h int) []uint8 {
	out := make([]uint8, w*h)
	halves := (h + 7) / 8
	pos := 0
	for x := 0; x < w; x++ {
		for plane := uint(0); plane < 4; plane++ {
			for half := 0; half < halves; half++ {
				b := data[pos]
				pos++
				for yy := 0; yy < 8 && half*8+yy < h; yy++ {
					y := half*8 + yy
					bit := (b >> yy) & 1
					out[y*w+x] |= bit << plane
				}
			}
		}
	}
	return out
}

// UnpackNativeTile is the inverse of PackNativeTile.
func (p Profile) UnpackNativeTile(data []byte, w, h int) ([]uint8, error) {
	want := p.NativeTileSize(w, h)
	if len(data) != want {
		return nil, newError(KindFormatInvalid, "native tile data is %d bytes, want %d", len(data), want)
	}
	switch p.tileFamily {
	case tileFamilyBitplanePairs:
		return unpackBitplanePairs(data, w, h, p.DefaultBPP), nil
	case tileFamilyPlanar4:
		return unpackPlanar4(data, w, h, p.DefaultBPP), nil
	case tileFamilyLinear8:
		return append([]uint8(nil), data...), nil
	case tileFamilyPacked4:
		return unpackPacked4(data, false), nil
	case tileFamilyPacked4Swapped:
		return unpackPacked4(data, true), nil
	case tileFamilyColumnPlanar1:
		return unpackColumnPlanar1(data, w, h), nil
	default:
		return nil, newError(KindConfigInvalid, "mode has no native tile format")
	}
}
