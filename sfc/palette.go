package sfc

import (
	"sort"
	"strconv"
)

// Subpalette is one bank of up to MaxColors colors. Index 0 is a
// shared slot: modes with Col0SharedAcrossSubpals keep it identical
// across every subpalette in the bank (conventionally the background
// or transparent color) and SortAesthetic / sort() never reorder it.
type Subpalette struct {
	MaxColors uint
	Colors    []Color

	set map[Color]struct{}
}

// NewSubpalette returns an empty Subpalette bounded to maxColors.
func NewSubpalette(maxColors uint) *Subpalette {
	return &Subpalette{MaxColors: maxColors, set: make(map[Color]struct{})}
}

// IsFull reports whether the subpalette already holds MaxColors colors.
func (s *Subpalette) IsFull() bool {
	return uint(len(s.Colors)) >= s.MaxColors
}

// Add appends color if it isn't already present, or always when
// allowDuplicates is set (used when padding and when loading a native
// palette whose entries may repeat).
func (s *Subpalette) Add(c Color, allowDuplicates bool) error {
	if s.set == nil {
		s.set = make(map[Color]struct{})
	}
	_, present := s.set[c]
	if allowDuplicates || !present {
		if s.IsFull() {
			return newError(KindPaletteOverflow, "subpalette exceeds %d colors", s.MaxColors)
		}
		s.Colors = append(s.Colors, c)
	}
	s.set[c] = struct{}{}
	return nil
}

// Contains reports whether c is already a member of the subpalette.
func (s *Subpalette) Contains(c Color) bool {
	_, ok := s.set[c]
	return ok
}

// Diff returns the number of colors in candidates not already present
// in s, used by the optimizer's best-fit search.
func (s *Subpalette) Diff(candidates []Color) int {
	n := 0
	for _, c := range candidates {
		if !s.Contains(c) {
			n++
		}
	}
	return n
}

// Padded returns a copy of s with trailing duplicate-zero entries
// appended up to MaxColors, the form the native encoders require.
func (s *Subpalette) Padded() *Subpalette {
	out := &Subpalette{MaxColors: s.MaxColors, Colors: append([]Color(nil), s.Colors...), set: copySet(s.set)}
	for uint(len(out.Colors)) < out.MaxColors {
		_ = out.Add(0, true)
	}
	return out
}

func copySet(m map[Color]struct{}) map[Color]struct{} {
	n := make(map[Color]struct{}, len(m))
	for k, v := range m {
		n[k] = v
	}
	return n
}

// Sort reorders Colors[1:] aesthetically, keeping index 0 fixed.
func (s *Subpalette) Sort() {
	SortAesthetic(s.Colors)
}

// CheckCol0Duplicates clears index 0's alpha to mark it transparent
// when it recurs later in the subpalette, the lenient de-duplication
// original_source performs before native emission.
func (s *Subpalette) CheckCol0Duplicates() bool {
	if len(s.Colors) <= 1 {
		return false
	}
	for _, c := range s.Colors[1:] {
		if c == s.Colors[0] {
			s.Colors[0] = s.Colors[0].WithAlpha(0)
			return true
		}
	}
	return false
}

// normalizedColors returns every color scaled back up to 8bpc.
func (p Profile) normalizedColors(s *Subpalette) []Color {
	out := make([]Color, len(s.Colors))
	for i, c := range s.Colors {
		out[i] = p.Normalize(c)
	}
	return out
}

// Palette is the full bank of subpalettes optimized from an image's
// cells, per spec.md §4.3/§4.4.
type Palette struct {
	Profile     Profile
	Subpalettes []*Subpalette
}

// NewPalette builds a Palette for p with no subpalettes yet.
func NewPalette(p Profile) *Palette {
	return &Palette{Profile: p}
}

// AddSubpalette appends a new empty bank, failing if the mode's
// subpalette-count cap is already reached.
func (pal *Palette) AddSubpalette(maxSubpalettes uint) (*Subpalette, error) {
	if maxSubpalettes > 0 && uint(len(pal.Subpalettes)) >= maxSubpalettes {
		return nil, newError(KindPaletteOverflow, "palette already holds the maximum %d subpalettes", maxSubpalettes)
	}
	sp := NewSubpalette(pal.Profile.DefaultBPPColors())
	pal.Subpalettes = append(pal.Subpalettes, sp)
	return sp, nil
}

// DefaultBPPColors is ColorsPerSubpalette at the profile's default bpp.
func (p Profile) DefaultBPPColors() uint {
	return ColorsPerSubpalette(p.DefaultBPP)
}

// Optimize implements the greedy best-fit palette optimizer: dedupe
// identical cell color-sets, drop any set that is a subset of another,
// sort ascending by size, repeatedly pop the largest remaining set and
// merge it into whichever existing bin has room (last such bin wins
// ties, matching the C++ loop that keeps overwriting `best`), else
// start a new bin, then sort the result descending by size so fuller
// subpalettes are emitted first. Grounded on Palette.cpp's
// optimized_palettes / Subpalette::diff.
func (p Profile) Optimize(cellColorSets [][]Color, maxColorsPerSubpalette uint) ([][]Color, error) {
	sets := filterRedundant(cellColorSets)
	sets = filterSubsets(sets)
	sort.SliceStable(sets, func(i, j int) bool { return len(sets[i]) < len(sets[j]) })

	var opt [][]Color
	for len(sets) > 0 {
		set := sets[len(sets)-1]
		sets = sets[:len(sets)-1]

		best := -1
		for i, cs := range opt {
			d := setDifferenceCount(set, cs)
			if d+len(cs) <= int(maxColorsPerSubpalette) {
				best = i
			}
		}
		if best == -1 {
			opt = append(opt, append([]Color(nil), set...))
		} else {
			opt[best] = unionColors(opt[best], set)
		}
	}

	sort.SliceStable(opt, func(i, j int) bool { return len(opt[i]) > len(opt[j]) })
	return opt, nil
}

func filterRedundant(v [][]Color) [][]Color {
	var out [][]Color
	seen := make(map[string]struct{})
	for _, s := range v {
		if len(s) < 1 {
			continue
		}
		key := setKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func filterSubsets(v [][]Color) [][]Color {
	var out [][]Color
	for i, s := range v {
		if hasSuperset(s, v, i) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// hasSuperset reports whether some other set in v strictly contains s.
func hasSuperset(s []Color, v [][]Color, selfIndex int) bool {
	sSet := toSet(s)
	for i, cand := range v {
		if i == selfIndex || len(cand) <= len(s) {
			continue
		}
		if isSubsetOf(sSet, cand) {
			return true
		}
	}
	return false
}

func toSet(s []Color) map[Color]struct{} {
	m := make(map[Color]struct{}, len(s))
	for _, c := range s {
		m[c] = struct{}{}
	}
	return m
}

func isSubsetOf(sub map[Color]struct{}, superset []Color) bool {
	supSet := toSet(superset)
	for c := range sub {
		if _, ok := supSet[c]; !ok {
			return false
		}
	}
	return true
}

func setDifferenceCount(a, b []Color) int {
	bs := toSet(b)
	n := 0
	for _, c := range a {
		if _, ok := bs[c]; !ok {
			n++
		}
	}
	return n
}

func unionColors(a, b []Color) []Color {
	seen := toSet(a)
	out := append([]Color(nil), a...)
	for _, c := range b {
		if _, ok := seen[c]; !ok {
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

func setKey(s []Color) string {
	sorted := append([]Color(nil), s...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b := make([]byte, 0, len(sorted)*4)
	for _, c := range sorted {
		b = append(b, byte(c), byte(c>>8), byte(c>>16), byte(c>>24))
	}
	return string(b)
}

// MatchSubpalette finds every subpalette that already contains the
// full set of colors cellColors needs (diff == 0), per spec.md §4.4.
func (pal *Palette) MatchSubpalette(cellColors []Color) []*Subpalette {
	var out []*Subpalette
	for _, sp := range pal.Subpalettes {
		if sp.Diff(cellColors) == 0 {
			out = append(out, sp)
		}
	}
	return out
}

// Description renders a human-readable color-count summary, e.g.
// "41 colors [16,16,9]", matching Palette::description.
func (pal *Palette) Description() string {
	total := 0
	sizes := make([]int, len(pal.Subpalettes))
	for i, sp := range pal.Subpalettes {
		sizes[i] = len(sp.Colors)
		total += len(sp.Colors)
	}
	if total == 0 {
		return "zero colors"
	}
	if len(sizes) == 1 {
		return pluralColors(total)
	}
	s := "["
	for i, n := range sizes {
		if i > 0 {
			s += ","
		}
		s += strconv.Itoa(n)
	}
	s += "]"
	return pluralColors(total) + " " + s
}

func pluralColors(n int) string {
	return strconv.Itoa(n) + " colors"
}
