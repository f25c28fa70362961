package backend

// Color represents a terminal color. Values 0-255 are palette colors;
// values with the RGB bit set are true colors.
type Color int32

const (
	ColorDefault Color = -1
	ColorBlack   Color = 0
	ColorRed     Color = 1
	ColorGreen   Color = 2
	ColorYellow  Color = 3
	ColorBlue    Color = 4
	ColorMagenta Color = 5
	ColorCyan    Color = 6
	ColorWhite   Color = 7

	ColorBrightBlack   Color = 8
	ColorBrightRed     Color = 9
	ColorBrightGreen   Color = 10
	ColorBrightYellow  Color = 11
	ColorBrightBlue    Color = 12
	ColorBrightMagenta Color = 13
	ColorBrightCyan    Color = 14
	ColorBrightWhite   Color = 15
)

const colorRGBBit Color = 0x01000000

// ColorRGB creates a true color from RGB components.
func ColorRGB(r, g, b uint8) Color {
	return Color(int32(r)<<16|int32(g)<<8|int32(b)) | colorRGBBit
}

// IsRGB reports whether this is a true color rather than a palette color.
func (c Color) IsRGB() bool {
	return c&colorRGBBit != 0
}

// RGB returns the components of a true color, or zeros for palette colors.
func (c Color) RGB() (r, g, b uint8) {
	if !c.IsRGB() {
		return 0, 0, 0
	}
	return uint8((c >> 16) & 0xFF), uint8((c >> 8) & 0xFF), uint8(c & 0xFF)
}

// AttrMask represents text attributes.
type AttrMask uint32

const (
	AttrBold AttrMask = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrReverse
)

// Style combines foreground, background and attributes for one cell.
type Style struct {
	FG    Color
	BG    Color
	Attrs AttrMask
}

// DefaultStyle returns the default style.
func DefaultStyle() Style {
	return Style{FG: ColorDefault, BG: ColorDefault}
}

// Foreground returns a copy with the foreground color set.
func (s Style) Foreground(c Color) Style {
	s.FG = c
	return s
}

// Background returns a copy with the background color set.
func (s Style) Background(c Color) Style {
	s.BG = c
	return s
}

// Bold returns a copy with the bold attribute set or cleared.
func (s Style) Bold(on bool) Style {
	return s.attr(AttrBold, on)
}

// Dim returns a copy with the dim attribute set or cleared.
func (s Style) Dim(on bool) Style {
	return s.attr(AttrDim, on)
}

// Italic returns a copy with the italic attribute set or cleared.
func (s Style) Italic(on bool) Style {
	return s.attr(AttrItalic, on)
}

// Underline returns a copy with the underline attribute set or cleared.
func (s Style) Underline(on bool) Style {
	return s.attr(AttrUnderline, on)
}

// Reverse returns a copy with the reverse-video attribute set or cleared.
func (s Style) Reverse(on bool) Style {
	return s.attr(AttrReverse, on)
}

func (s Style) attr(a AttrMask, on bool) Style {
	if on {
		s.Attrs |= a
	} else {
		s.Attrs &^= a
	}
	return s
}
