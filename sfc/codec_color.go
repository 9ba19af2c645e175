package sfc

import "encoding/binary"

// PackNativeColor packs a single already-Reduce()'d color into the
// mode's native wire format. RGB15 (SNES/GBA) and RGB12 (WSC) pack a
// little-endian word; RGB9 (MD/PCE) packs a little-endian word using
// its low 9 bits; the grayscale families pack a single byte.
// Grounded on Common.h's pack_native_color, extended by shift/width
// per profile the same way Reduce/Normalize are (see SPEC_FULL.md §3).
func (p Profile) PackNativeColor(c Color) []byte {
	switch p.colorSpace {
	case colorSpaceRGB15:
		return packRGBWord(c, 3, 5)
	case colorSpaceRGB12:
		return packRGBWord(c, 4, 4)
	case colorSpaceRGB9:
		return packRGBWord(c, 5, 3)
	case colorSpaceGray2:
		return []byte{c.R() >> 6}
	case colorSpaceGray3:
		return []byte{c.R() >> 5}
	default:
		return nil
	}
}

// packRGBWord assembles a little-endian word of 3*bits bits from a
// Reduce()'d color whose channels carry bits significant bits in their
// high end (mask-aligned, as Profile.Reduce leaves them).
func packRGBWord(c Color, shift, bits uint) []byte {
	r := uint16(c.R() >> shift)
	g := uint16(c.G() >> shift)
	b := uint16(c.B() >> shift)
	word := r | (g << bits) | (b << (2 * bits))
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, word)
	return buf
}

// UnpackNativeColor is the inverse of PackNativeColor: it reads one
// native color record from data (at the mode-specific byte width) and
// returns the (still-reduced, mask-aligned) Color.
func (p Profile) UnpackNativeColor(data []byte) (Color, int, error) {
	switch p.colorSpace {
	case colorSpaceRGB15:
		return unpackRGBWord(data, 3, 5)
	case colorSpaceRGB12:
		return unpackRGBWord(data, 4, 4)
	case colorSpaceRGB9:
		return unpackRGBWord(data, 5, 3)
	case colorSpaceGray2, colorSpaceGray3:
		if len(data) < 1 {
			return 0, 0, newError(KindFormatInvalid, "native color data truncated")
		}
		shift := uint(6)
		if p.colorSpace == colorSpaceGray3 {
			shift = 5
		}
		v := data[0] << shift
		return NewColor(v, v, v, 0xff), 1, nil
	default:
		return 0, 0, newError(KindConfigInvalid, "mode has no native color format")
	}
}

func unpackRGBWord(data []byte, shift, bits uint) (Color, int, error) {
	if len(data) < 2 {
		return 0, 0, newError(KindFormatInvalid, "native color data truncated")
	}
	word := binary.LittleEndian.Uint16(data)
	mask := uint16(1<<bits) - 1
	r := uint8(word&mask) << shift
	g := uint8((word>>bits)&mask) << shift
	b := uint8((word>>(2*bits))&mask) << shift
	return NewColor(r, g, b, 0xff), 2, nil
}

// NativeColorSize is the byte width of one native color record.
func (p Profile) NativeColorSize() int {
	if p.colorSpace == colorSpaceGray2 || p.colorSpace == colorSpaceGray3 {
		return 1
	}
	return 2
}

// PackNativeColors packs a slice of colors back to back.
func (p Profile) PackNativeColors(colors []Color) []byte {
	out := make([]byte, 0, len(colors)*p.NativeColorSize())
	for _, c := range colors {
		out = append(out, p.PackNativeColor(c)...)
	}
	return out
}

// UnpackNativeColors unpacks a flat byte stream into colors, erroring
// if the stream isn't a multiple of the mode's native color size.
func (p Profile) UnpackNativeColors(data []byte) ([]Color, error) {
	size := p.NativeColorSize()
	if len(data)%size != 0 {
		return nil, newError(KindFormatInvalid, "native color data size %d not a multiple of %d", len(data), size)
	}
	out := make([]Color, 0, len(data)/size)
	for i := 0; i < len(data); i += size {
		c, _, err := p.UnpackNativeColor(data[i : i+size])
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
