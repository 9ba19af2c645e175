package sfc

import "fmt"

// Kind identifies the category of error returned by the package, so
// that callers (in particular the map assembler's lenient mode) can
// react to a specific failure mode without matching error strings.
type Kind int

const (
	// KindConfigInvalid covers unknown modes, disallowed bpp/tile
	// sizes for the chosen mode, and conflicting flags.
	KindConfigInvalid Kind = iota
	// KindIOFailed covers unreadable input or unwritable output.
	KindIOFailed
	// KindFormatInvalid covers malformed hex colors, JSON missing a
	// "palettes" key, and native data with a bad byte count.
	KindFormatInvalid
	// KindCellTooColorful means a cell has more unique quantized
	// colors than the mode's colors-per-subpalette.
	KindCellTooColorful
	// KindNoMatchingSubpalette means no subpalette contains every
	// color a cell needs.
	KindNoMatchingSubpalette
	// KindColorNotInSubpalette means a remap found a pixel color
	// absent from the chosen subpalette.
	KindColorNotInSubpalette
	// KindPaletteOverflow means the optimizer produced more
	// subpalettes than the mode permits.
	KindPaletteOverflow
	// KindTilesetFull means a tileset exceeded its configured
	// max-tiles cap.
	KindTilesetFull
	// KindDimensionInvalid covers sprite dimensions that aren't a
	// multiple of the sprite cell, or banked map output whose
	// dimensions aren't multiples of 32.
	KindDimensionInvalid
)

func (k Kind) String() string {
	switch k {
	case KindConfigInvalid:
		return "ConfigInvalid"
	case KindIOFailed:
		return "IOFailed"
	case KindFormatInvalid:
		return "FormatInvalid"
	case KindCellTooColorful:
		return "CellTooColorful"
	case KindNoMatchingSubpalette:
		return "NoMatchingSubpalette"
	case KindColorNotInSubpalette:
		return "ColorNotInSubpalette"
	case KindPaletteOverflow:
		return "PaletteOverflow"
	case KindTilesetFull:
		return "TilesetFull"
	case KindDimensionInvalid:
		return "DimensionInvalid"
	default:
		return "Unknown"
	}
}

// Error is the error type returned throughout the package. It carries
// a Kind so callers can branch on category, matching spec.md's error
// taxonomy rather than exposing a distinct Go type per kind.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	return e.Msg
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err is an *Error of the given Kind.
func IsKind(err error, kind Kind) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == kind
}

// NewIOError wraps an underlying I/O failure (file open, read, write)
// as a KindIOFailed *Error, the boundary between os/image stdlib
// errors and the package's own taxonomy.
func NewIOError(err error) *Error {
	return newError(KindIOFailed, "%v", err)
}
