package sfc

import (
	"image"
	"image/draw"
)

// Image is the package's internal pixel buffer: a flat slice of Color
// over a width/height grid, decoupled from the standard library's
// image.Image so that crop, remap and blit can work in native rgba_u32
// terms instead of per-call interface dispatch.
type Image struct {
	Width, Height int
	Pixels        []Color

	// SrcX, SrcY are the pixel coordinates this Image was cropped from
	// in its parent, used only to annotate error/diagnostic messages
	// (Image::src_coord_x/y in the original tool).
	SrcX, SrcY int
}

// NewImageFromStdlib copies a decoded image.Image into an Image,
// converting through image/draw so any source color model (paletted,
// grayscale, NRGBA, ...) lands as straight RGBA.
func NewImageFromStdlib(src image.Image) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)

	img := &Image{Width: w, Height: h, Pixels: make([]Color, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			o := rgba.PixOffset(x, y)
			p := rgba.Pix[o : o+4 : o+4]
			img.Pixels[y*w+x] = NewColor(p[0], p[1], p[2], p[3])
		}
	}
	return img
}

// At returns the color at (x,y), or the zero Color if out of bounds.
func (img *Image) At(x, y int) Color {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return Transparent
	}
	return img.Pixels[y*img.Width+x]
}

// Crop extracts a (w,h) window at (x,y), padding any area outside the
// source bounds with the mode's background fill. Mirrors the original
// tool's Image::crop, used both for tile slicing and for mid-image
// reads the caller explicitly requests out of bounds.
func (img *Image) Crop(x, y, w, h int, fill Color) *Image {
	out := &Image{Width: w, Height: h, Pixels: make([]Color, w*h), SrcX: x, SrcY: y}
	for i := range out.Pixels {
		out.Pixels[i] = fill
	}
	if x >= img.Width || y >= img.Height {
		return out
	}
	blitW, blitH := w, h
	if x+w > img.Width {
		blitW = img.Width - x
	}
	if y+h > img.Height {
		blitH = img.Height - y
	}
	for iy := 0; iy < blitH; iy++ {
		srcRow := (y + iy) * img.Width
		dstRow := iy * w
		copy(out.Pixels[dstRow:dstRow+blitW], img.Pixels[srcRow+x:srcRow+x+blitW])
	}
	return out
}

// Cells slices img into a raster of tileW x tileH windows, left to
// right then top to bottom, padding any partial trailing cell. This is
// stage 1 of the pipeline (spec.md §2): every later stage works off
// these cells rather than re-reading img directly.
func (img *Image) Cells(tileW, tileH int, fill Color) []*Image {
	var cells []*Image
	for y := 0; y < img.Height; y += tileH {
		for x := 0; x < img.Width; x += tileW {
			cells = append(cells, img.Crop(x, y, tileW, tileH, fill))
		}
	}
	return cells
}

// UniqueColors returns the set of distinct colors a cell contains,
// excluding fully transparent pixels (which never occupy a subpalette
// slot) and already reduced through the mode's native color transform
// so duplicates introduced only by lossy quantization collapse.
func (p Profile) UniqueColors(img *Image) []Color {
	seen := make(map[Color]struct{})
	var out []Color
	for _, c := range img.Pixels {
		if c.IsTransparent() {
			continue
		}
		rc := p.Reduce(c).OpaqueRGB()
		if _, ok := seen[rc]; !ok {
			seen[rc] = struct{}{}
			out = append(out, rc)
		}
	}
	return out
}

// Remap produces a new Image whose pixels are restricted to sub's
// colors, via reduce+normalize against the subpalette's own entries,
// and reports the index into sub.Colors for every pixel (indexed[i]==0
// for a transparent source pixel, matching col0's double duty as both
// "index 0" and "transparent"). Mirrors Image::Image(image,subpalette).
func (p Profile) Remap(img *Image, sub *Subpalette) (*Image, []uint8, error) {
	size := img.Width * img.Height
	out := &Image{Width: img.Width, Height: img.Height, Pixels: make([]Color, size)}
	indexed := make([]uint8, size)

	norm := make([]Color, len(sub.Colors))
	index := make(map[Color]int, len(sub.Colors))
	for i, c := range sub.Colors {
		norm[i] = p.Normalize(c)
		index[norm[i]] = i
	}

	for i, src := range img.Pixels {
		reduced := p.Reduce(src)
		nc := p.Normalize(reduced)
		if src.IsTransparent() {
			indexed[i] = 0
			out.Pixels[i] = Transparent
			continue
		}
		idx, ok := index[nc]
		if !ok {
			return nil, nil, newError(KindColorNotInSubpalette, "color %s not in subpalette", nc.Hex())
		}
		indexed[i] = uint8(idx)
		out.Pixels[i] = norm[idx]
	}
	return out, indexed, nil
}
