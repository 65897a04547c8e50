package theme

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// span is a piece of markup text with uniform style.
type span struct {
	text      string
	bold      bool
	italic    bool
	underline bool
	strike    bool
	mono      bool
	families  []string
	scale     float64 // multiplier on the inherited size
	size      int     // absolute size in Pango units; 0 inherits
	color     *color.NRGBA
}

// Pango's named sizes are powers of 1.2 around "medium".
const sizeStep = 1.2

var namedSizes = map[string]float64{
	"xx-small": 1 / (sizeStep * sizeStep * sizeStep),
	"x-small":  1 / (sizeStep * sizeStep),
	"small":    1 / sizeStep,
	"medium":   1,
	"large":    sizeStep,
	"x-large":  sizeStep * sizeStep,
	"xx-large": sizeStep * sizeStep * sizeStep,
}

// parseMarkup parses a subset of the Pango markup language into styled
// spans. Text is NFC-normalized.
func parseMarkup(markup string) ([]span, error) {
	d := xml.NewDecoder(strings.NewReader("<markup>" + markup + "</markup>"))
	stack := []span{{scale: 1}}
	var out []span

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse markup: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			st := stack[len(stack)-1]
			st.text = ""
			if err := applyTag(&st, t); err != nil {
				return nil, err
			}
			stack = append(stack, st)
		case xml.EndElement:
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			st := stack[len(stack)-1]
			st.text = norm.NFC.String(string(t))
			if st.text != "" {
				out = append(out, st)
			}
		}
	}
	return out, nil
}

func applyTag(st *span, el xml.StartElement) error {
	switch el.Name.Local {
	case "markup":
	case "b":
		st.bold = true
	case "i":
		st.italic = true
	case "u":
		st.underline = true
	case "s":
		st.strike = true
	case "tt":
		st.mono = true
	case "big":
		st.scale *= sizeStep
	case "small", "sub", "sup":
		st.scale /= sizeStep
	case "span":
		for _, a := range el.Attr {
			if err := applySpanAttr(st, a.Name.Local, a.Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("parse markup: unknown tag <%s>", el.Name.Local)
	}
	return nil
}

func applySpanAttr(st *span, name, val string) error {
	switch name {
	case "font", "font_desc":
		fd, err := ParseFontDescription(val)
		if err != nil {
			return err
		}
		st.families = fd.Families
		st.bold = st.bold || fd.Bold
		st.italic = st.italic || fd.Italic
		if fd.Size > 0 && !fd.Absolute {
			st.size = fd.Size
		}
	case "font_family", "face":
		st.families = []string{val}
	case "size", "font_size":
		return applySize(st, val)
	case "weight", "font_weight":
		switch strings.ToLower(val) {
		case "bold", "ultrabold", "heavy", "semibold", "ultraheavy":
			st.bold = true
		case "normal", "light", "ultralight", "book", "medium", "thin":
			st.bold = false
		default:
			w, err := strconv.Atoi(val)
			if err != nil {
				return fmt.Errorf("parse markup: bad weight %q", val)
			}
			st.bold = w >= 600
		}
	case "style", "font_style":
		st.italic = strings.ToLower(val) != "normal"
	case "foreground", "fgcolor", "color":
		c, err := ParseColor(val)
		if err != nil {
			return fmt.Errorf("parse markup: %w", err)
		}
		st.color = &c
	case "underline":
		st.underline = val != "none" && val != "false"
	case "strikethrough":
		st.strike = val == "true"
	}
	return nil
}

func applySize(st *span, val string) error {
	switch v := strings.ToLower(val); {
	case v == "larger":
		st.scale *= sizeStep
	case v == "smaller":
		st.scale /= sizeStep
	case namedSizes[v] != 0:
		st.size = 0
		st.scale = namedSizes[v]
	case strings.HasSuffix(v, "pt"):
		pt, err := strconv.ParseFloat(strings.TrimSuffix(v, "pt"), 64)
		if err != nil || pt <= 0 {
			return fmt.Errorf("parse markup: bad size %q", val)
		}
		st.size = PointToUnits(pt)
		st.scale = 1
	default:
		units, err := strconv.Atoi(v)
		if err != nil || units <= 0 {
			return fmt.Errorf("parse markup: bad size %q", val)
		}
		st.size = units
		st.scale = 1
	}
	return nil
}

// plainSpans is the fallback for markup that cannot be parsed: the raw
// string is shown as-is in the default style.
func plainSpans(markup string) []span {
	if markup == "" {
		return nil
	}
	return []span{{text: norm.NFC.String(markup), scale: 1}}
}
