// Package render turns an assembled message collection into colorized
// text or paginated HTML.
package render

// PaletteColor returns the palette entry for a participant ordinal,
// wrapping modulo the palette size. Pure function of the ordinal.
func PaletteColor(palette []string, ordinal int) string {
	if len(palette) == 0 {
		return ""
	}
	return palette[ordinal%len(palette)]
}

// colorAssigner hands out participant ordinals in encounter order:
// the first sender seen gets ordinal 0, the next 1, and so on. Handle
// row id 0 is the local user.
type colorAssigner struct {
	ordinals map[int64]int
}

func newColorAssigner() *colorAssigner {
	return &colorAssigner{ordinals: make(map[int64]int)}
}

func (a *colorAssigner) ordinal(handleID int64) int {
	if ord, ok := a.ordinals[handleID]; ok {
		return ord
	}
	ord := len(a.ordinals)
	a.ordinals[handleID] = ord
	return ord
}
