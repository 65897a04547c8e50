package theme

import (
	"fmt"
	"strconv"
	"strings"
)

// FontDescription is a parsed font description string such as
// "Sans Bold Italic 24" or "DejaVu Serif, Serif 18px".
type FontDescription struct {
	Families []string
	Bold     bool
	Italic   bool
	// Size is in Pango units (1/1024 pt). Zero means unspecified.
	Size int
	// Absolute is set when the size was given in pixels.
	Absolute bool
}

// defaultFont is used when a section does not declare a font.
const defaultFont = "Sans 24"

var (
	weightWords = map[string]bool{
		"bold": true, "heavy": true, "black": true, "semi-bold": true, "semibold": true,
		"demi-bold": true, "ultra-bold": true, "extra-bold": true, "ultra-heavy": true,
	}
	styleWords = map[string]bool{"italic": true, "oblique": true}
	// Words accepted by Pango that do not change face selection here.
	ignoredWords = map[string]bool{
		"normal": true, "book": true, "regular": true, "light": true, "ultra-light": true,
		"thin": true, "medium": true, "roman": true, "small-caps": true, "condensed": true,
		"expanded": true, "semi-condensed": true, "semi-expanded": true,
	}
)

// ParseFontDescription parses a Pango-style font description:
// "[FAMILY-LIST] [STYLE-OPTIONS] [SIZE]". Style words and the size are read
// from the end of the string; whatever precedes them is the family list.
func ParseFontDescription(s string) (FontDescription, error) {
	var fd FontDescription
	words := strings.Fields(s)

	if n := len(words); n > 0 {
		last := strings.ToLower(words[n-1])
		px := strings.HasSuffix(last, "px")
		num := strings.TrimSuffix(last, "px")
		if v, err := strconv.ParseFloat(num, 64); err == nil {
			if v <= 0 {
				return fd, fmt.Errorf("font %q: size must be positive", s)
			}
			fd.Size = PointToUnits(v)
			fd.Absolute = px
			words = words[:n-1]
		} else if px {
			return fd, fmt.Errorf("font %q: bad pixel size", s)
		}
	}

styles:
	for len(words) > 0 {
		w := strings.ToLower(strings.TrimSuffix(words[len(words)-1], ","))
		switch {
		case weightWords[w]:
			fd.Bold = true
		case styleWords[w]:
			fd.Italic = true
		case ignoredWords[w]:
		default:
			break styles
		}
		words = words[:len(words)-1]
	}

	for _, f := range strings.Split(strings.Join(words, " "), ",") {
		if f = strings.TrimSpace(f); f != "" {
			fd.Families = append(fd.Families, f)
		}
	}
	if len(fd.Families) == 0 {
		fd.Families = []string{"Sans"}
	}
	return fd, nil
}

// SizePoints returns the size in points, converting pixel sizes at dpi.
func (fd FontDescription) SizePoints(dpi float64) float64 {
	pt := UnitsToPoint(fd.Size)
	if fd.Absolute {
		return PixelToPoint(pt, dpi)
	}
	return pt
}

func (fd FontDescription) String() string {
	var b strings.Builder
	b.WriteString(strings.Join(fd.Families, ","))
	if fd.Bold {
		b.WriteString(" Bold")
	}
	if fd.Italic {
		b.WriteString(" Italic")
	}
	if fd.Size > 0 {
		b.WriteString(" ")
		b.WriteString(strconv.FormatFloat(UnitsToPoint(fd.Size), 'g', -1, 64))
		if fd.Absolute {
			b.WriteString("px")
		}
	}
	return b.String()
}
