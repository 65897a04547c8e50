package theme

import (
	"errors"
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrBadColor is returned for color strings that are neither hex nor a known name.
var ErrBadColor = errors.New("unrecognized color")

// ParseColor parses a color specification. It accepts "#rgb", "#rrggbb",
// "#rrrgggbbb" and "#rrrrggggbbbb" hex forms as well as X11 color names
// such as "white" or "SteelBlue". The result is opaque.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	name := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	if c, ok := colornames.Map[name]; ok {
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, nil
	}
	return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
}

// parseHexColor splits hex into three equal-width channels and keeps the
// most significant byte of each.
func parseHexColor(hex string) (color.NRGBA, error) {
	n := len(hex)
	if n == 0 || n%3 != 0 || n > 12 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, "#"+hex)
	}
	digits := n / 3
	var ch [3]uint8
	for i := range ch {
		var v uint32
		for _, c := range []byte(hex[i*digits : (i+1)*digits]) {
			d := hexVal(c)
			if d < 0 {
				return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, "#"+hex)
			}
			v = v<<4 | uint32(d)
		}
		// Widen or narrow the channel to 8 bits.
		switch digits {
		case 1:
			v = v<<4 | v
		default:
			v >>= uint(4 * (digits - 2))
		}
		ch[i] = uint8(v)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: 255}, nil
}

func hexVal(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	default:
		return -1
	}
}

// withAlpha returns c with its alpha replaced by a (0.0 - 1.0, clamped).
func withAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(clamp01(a)*255 + 0.5)
	return c
}

// mustColor parses s and falls back to fallback when s is malformed.
func mustColor(s string, fallback color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		logger.Warn().Str("color", s).Msg("unparseable color, using fallback")
		return fallback
	}
	return c
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

var (
	colorBlack = color.NRGBA{A: 255}
	colorWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)
