package sfc

import "fmt"

// Mode is a closed enumeration of the hardware profiles the codec
// targets. Dispatch on Mode is done through the descriptor table
// returned by ProfileFor, in the spirit of a mode descriptor
// record (see DESIGN.md's Open Question notes).
type Mode int

const (
	ModeNone Mode = iota
	ModeSNES
	ModeSNESMode7
	ModeGB
	ModeGBC
	ModeGBA
	ModeGBAAffine
	ModeMD
	ModePCE
	ModePCESprite
	ModeWS
	ModeWSC
	ModeWSCPacked
)

// ParseMode converts a CLI mode name into a Mode, or KindConfigInvalid.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "snes":
		return ModeSNES, nil
	case "snes_mode7":
		return ModeSNESMode7, nil
	case "gb":
		return ModeGB, nil
	case "gbc":
		return ModeGBC, nil
	case "gba":
		return ModeGBA, nil
	case "gba_affine":
		return ModeGBAAffine, nil
	case "md":
		return ModeMD, nil
	case "pce":
		return ModePCE, nil
	case "pce_sprite":
		return ModePCESprite, nil
	case "ws":
		return ModeWS, nil
	case "wsc":
		return ModeWSC, nil
	case "wsc_packed":
		return ModeWSCPacked, nil
	default:
		return ModeNone, newError(KindConfigInvalid, "unknown mode %q", s)
	}
}

func (m Mode) String() string {
	switch m {
	case ModeSNES:
		return "snes"
	case ModeSNESMode7:
		return "snes_mode7"
	case ModeGB:
		return "gb"
	case ModeGBC:
		return "gbc"
	case ModeGBA:
		return "gba"
	case ModeGBAAffine:
		return "gba_affine"
	case ModeMD:
		return "md"
	case ModePCE:
		return "pce"
	case ModePCESprite:
		return "pce_sprite"
	case ModeWS:
		return "ws"
	case ModeWSC:
		return "wsc"
	case ModeWSCPacked:
		return "wsc_packed"
	default:
		return "none"
	}
}

// colorSpace names the reduce/normalize transform family a mode uses.
type colorSpace int

const (
	colorSpaceRGB15 colorSpace = iota // 15-bit RGB, shift 3
	colorSpaceRGB12                   // 12-bit RGB (WSC), shift 4
	colorSpaceRGB9                    // 9-bit RGB (MD/PCE), shift 5
	colorSpaceGray2                   // 2-bit grayscale (GB)
	colorSpaceGray3                   // 3-bit grayscale (WS)
)

// tileFamily names the native tile bit-packing scheme a mode uses.
type tileFamily int

const (
	tileFamilyBitplanePairs tileFamily = iota
	tileFamilyPlanar4
	tileFamilyLinear8
	tileFamilyPacked4
	tileFamilyPacked4Swapped
	tileFamilyColumnPlanar1
)

// mapFamily names the native map-entry bit-packing scheme a mode uses.
type mapFamily int

const (
	mapFamilyWideBackground mapFamily = iota
	mapFamilyHandheldExtended
	mapFamilySingleByte
	mapFamilyPaletteOnly
	mapFamilyTileOnly8
)

// Profile is the record of constants and behavioral flags describing
// one hardware Mode, per spec.md §3's Mode data model.
type Profile struct {
	Mode Mode

	DefaultBPP  uint
	AllowedBPP  []uint
	DefaultTileW, DefaultTileH uint
	AllowedTileW, AllowedTileH []uint

	MaxTiles uint // 0 = unbounded

	DefaultPaletteCount uint

	TileFlippingAllowed      bool
	Col0SharedAcrossSubpals  bool
	Col0SharedForSprites     bool

	colorSpace colorSpace
	tileFamily tileFamily
	mapFamily  mapFamily
}

// ColorsPerSubpalette is 2^bpp.
func ColorsPerSubpalette(bpp uint) uint {
	return 1 << bpp
}

// BitmaskAtBPP returns the index mask for bpp bits.
func BitmaskAtBPP(bpp uint) uint8 {
	return uint8(ColorsPerSubpalette(bpp) - 1)
}

var profiles = map[Mode]Profile{
	ModeSNES: {
		Mode: ModeSNES, DefaultBPP: 4, AllowedBPP: []uint{2, 4, 8},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8, 16}, AllowedTileH: []uint{8, 16},
		MaxTiles: 1024, DefaultPaletteCount: 8,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB15, tileFamily: tileFamilyBitplanePairs, mapFamily: mapFamilyWideBackground,
	},
	ModeSNESMode7: {
		Mode: ModeSNESMode7, DefaultBPP: 8, AllowedBPP: []uint{8},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 256, DefaultPaletteCount: 1,
		TileFlippingAllowed: false, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB15, tileFamily: tileFamilyLinear8, mapFamily: mapFamilySingleByte,
	},
	ModeGB: {
		Mode: ModeGB, DefaultBPP: 2, AllowedBPP: []uint{2},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 256, DefaultPaletteCount: 1,
		TileFlippingAllowed: false, Col0SharedAcrossSubpals: false,
		colorSpace: colorSpaceGray2, tileFamily: tileFamilyBitplanePairs, mapFamily: mapFamilyTileOnly8,
	},
	ModeGBC: {
		Mode: ModeGBC, DefaultBPP: 2, AllowedBPP: []uint{2},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8, 16}, AllowedTileH: []uint{8, 16},
		MaxTiles: 512, DefaultPaletteCount: 8,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: false,
		colorSpace: colorSpaceRGB15, tileFamily: tileFamilyBitplanePairs, mapFamily: mapFamilyHandheldExtended,
	},
	ModeGBA: {
		Mode: ModeGBA, DefaultBPP: 4, AllowedBPP: []uint{4, 8},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 1024, DefaultPaletteCount: 16,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB15, tileFamily: tileFamilyBitplanePairs, mapFamily: mapFamilyWideBackground,
	},
	ModeGBAAffine: {
		Mode: ModeGBAAffine, DefaultBPP: 8, AllowedBPP: []uint{8},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 256, DefaultPaletteCount: 1,
		TileFlippingAllowed: false, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB15, tileFamily: tileFamilyLinear8, mapFamily: mapFamilySingleByte,
	},
	ModeMD: {
		Mode: ModeMD, DefaultBPP: 4, AllowedBPP: []uint{4},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 2048, DefaultPaletteCount: 4,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB9, tileFamily: tileFamilyPacked4, mapFamily: mapFamilyWideBackground,
	},
	ModePCE: {
		Mode: ModePCE, DefaultBPP: 4, AllowedBPP: []uint{4},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 2048, DefaultPaletteCount: 16,
		TileFlippingAllowed: false, Col0SharedAcrossSubpals: true,
		colorSpace: colorSpaceRGB9, tileFamily: tileFamilyPlanar4, mapFamily: mapFamilyPaletteOnly,
	},
	ModePCESprite: {
		Mode: ModePCESprite, DefaultBPP: 4, AllowedBPP: []uint{4},
		DefaultTileW: 16, DefaultTileH: 16, AllowedTileW: []uint{16}, AllowedTileH: []uint{16},
		MaxTiles: 512, DefaultPaletteCount: 16,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: false, Col0SharedForSprites: true,
		colorSpace: colorSpaceRGB9, tileFamily: tileFamilyColumnPlanar1, mapFamily: mapFamilyHandheldExtended,
	},
	ModeWS: {
		Mode: ModeWS, DefaultBPP: 2, AllowedBPP: []uint{2},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 512, DefaultPaletteCount: 16,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: false,
		colorSpace: colorSpaceGray3, tileFamily: tileFamilyBitplanePairs, mapFamily: mapFamilyHandheldExtended,
	},
	ModeWSC: {
		Mode: ModeWSC, DefaultBPP: 4, AllowedBPP: []uint{4},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 512, DefaultPaletteCount: 16,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: false,
		colorSpace: colorSpaceRGB12, tileFamily: tileFamilyPlanar4, mapFamily: mapFamilyHandheldExtended,
	},
	ModeWSCPacked: {
		Mode: ModeWSCPacked, DefaultBPP: 4, AllowedBPP: []uint{4},
		DefaultTileW: 8, DefaultTileH: 8, AllowedTileW: []uint{8}, AllowedTileH: []uint{8},
		MaxTiles: 512, DefaultPaletteCount: 16,
		TileFlippingAllowed: true, Col0SharedAcrossSubpals: false,
		colorSpace: colorSpaceRGB12, tileFamily: tileFamilyPacked4Swapped, mapFamily: mapFamilyHandheldExtended,
	},
}

// ProfileFor returns the Profile for m, or an error if m is unknown.
func ProfileFor(m Mode) (Profile, error) {
	p, ok := profiles[m]
	if !ok {
		return Profile{}, newError(KindConfigInvalid, "unknown mode %q", m)
	}
	return p, nil
}

// IsGrayscale reports whether the mode's background fill sentinel is
// opaque black rather than transparent (spec.md §4.2/§9).
func (p Profile) IsGrayscale() bool {
	return p.colorSpace == colorSpaceGray2 || p.colorSpace == colorSpaceGray3
}

// BackgroundFill returns the sentinel color used to pad image slices
// that extend past the source image bounds.
func (p Profile) BackgroundFill() Color {
	if p.IsGrayscale() {
		return Color(0xFF000000)
	}
	return Transparent
}

// Col0Shared reports whether this mode reserves subpalette index 0 for
// a shared primed color, under either the ordinary background-layer
// rule or the sprite-specific rule.
func (p Profile) Col0Shared() bool {
	return p.Col0SharedAcrossSubpals || p.Col0SharedForSprites
}

// DefaultColorZero is the primed color-zero used when col0 is shared
// but the caller gave no explicit --color-zero: transparent for sprite
// modes, reduced opaque black otherwise. Resolves spec.md §9's
// alpha-threshold Open Question by making the default an explicit
// per-mode attribute.
func (p Profile) DefaultColorZero() Color {
	if p.Col0SharedForSprites {
		return Transparent
	}
	return NewColor(0, 0, 0, 0xff)
}

// BPPAllowed reports whether bpp is a legal bit depth for this mode.
func (p Profile) BPPAllowed(bpp uint) bool {
	for _, b := range p.AllowedBPP {
		if b == bpp {
			return true
		}
	}
	return false
}

// TileSizeAllowed reports whether (w,h) is a legal tile size for this mode.
func (p Profile) TileSizeAllowed(w, h uint) bool {
	okW, okH := false, false
	for _, v := range p.AllowedTileW {
		if v == w {
			okW = true
		}
	}
	for _, v := range p.AllowedTileH {
		if v == h {
			okH = true
		}
	}
	return okW && okH
}

func (p Profile) String() string {
	return fmt.Sprintf("%s (bpp=%d, tile=%dx%d, palettes=%d)", p.Mode, p.DefaultBPP, p.DefaultTileW, p.DefaultTileH, p.DefaultPaletteCount)
}
