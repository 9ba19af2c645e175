package sfc

// ExportACT renders a Palette as an Adobe Color Table: 256 RGB triples
// (unused entries left zeroed) followed by a 4-byte trailer giving the
// used-color count and two 0xff sentinel bytes. Grounded on
// Palette.cpp's Palette::save_act.
func (pal *Palette) ExportACT() []byte {
	data := make([]byte, 256*3+4)
	count := 0

	for _, sp := range pal.Subpalettes {
		padded := sp.Padded()
		for _, c := range pal.Profile.normalizedColors(padded) {
			if count >= 256 {
				break
			}
			data[count*3+0] = c.R()
			data[count*3+1] = c.G()
			data[count*3+2] = c.B()
			count++
		}
	}

	data[0x300] = 0x00
	data[0x301] = byte(count & 0xff)
	data[0x302] = 0xff
	data[0x303] = 0xff
	return data
}

// ImportACT parses an Adobe Color Table back into a flat slice of
// normalized (8bpc) colors, one Subpalette's worth at a time is the
// caller's responsibility to chunk by colorsPerSubpalette.
func ImportACT(data []byte) ([]Color, error) {
	if len(data) < 256*3 {
		return nil, newError(KindFormatInvalid, "ACT data too short: %d bytes", len(data))
	}
	count := 256
	if len(data) >= 256*3+4 {
		count = int(data[0x301])
		if count == 0 {
			count = 256
		}
	}
	out := make([]Color, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NewColor(data[i*3], data[i*3+1], data[i*3+2], 0xff))
	}
	return out, nil
}
