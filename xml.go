package theme

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// xmlNode is a generic element. Themes mix background kinds in one ordered
// list, so they are read as a tree rather than into fixed structs.
type xmlNode struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []xmlNode  `xml:",any"`
}

func (n *xmlNode) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *xmlNode) str(name, def string) string {
	if v, ok := n.attr(name); ok {
		return v
	}
	return def
}

func (n *xmlNode) float(name string, def float64) (float64, error) {
	v, ok := n.attr(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("<%s %s=%q>: not a number", n.XMLName.Local, name, v)
	}
	return f, nil
}

// find returns the first descendant along path, or nil.
func (n *xmlNode) find(path ...string) *xmlNode {
	cur := n
	for _, name := range path {
		var next *xmlNode
		for i := range cur.Children {
			if cur.Children[i].XMLName.Local == name {
				next = &cur.Children[i]
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

func (n *xmlNode) setAttr(name, value string) {
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

func (n *xmlNode) setFloat(name string, v float64) {
	n.setAttr(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// readPos reads x1, y1, x2, y2 with defaults 0, 0, 1, 1.
func (n *xmlNode) readPos() (Rect, error) {
	var (
		r   Rect
		err error
	)
	fields := []struct {
		name string
		dst  *float64
		def  float64
	}{{"x1", &r.X1, 0}, {"y1", &r.Y1, 0}, {"x2", &r.X2, 1}, {"y2", &r.Y2, 1}}
	for _, f := range fields {
		if *f.dst, err = n.float(f.name, f.def); err != nil {
			return Rect{}, err
		}
	}
	return r, nil
}

func (n *xmlNode) writePos(r Rect) {
	r = r.orFull()
	n.setFloat("x1", r.X1)
	n.setFloat("y1", r.Y1)
	n.setFloat("x2", r.X2)
	n.setFloat("y2", r.Y2)
}

// decode reads theme XML into t. Unknown background elements are ignored;
// missing sections leave Body or Footer nil.
func (t *Theme) decode(r io.Reader) error {
	var root xmlNode
	if err := xml.NewDecoder(r).Decode(&root); err != nil {
		return fmt.Errorf("failed to parse theme XML: %w", err)
	}

	t.Backgrounds = nil
	if bgs := root.find("background"); bgs != nil {
		for i := range bgs.Children {
			bg, err := decodeBackground(&bgs.Children[i])
			if err != nil {
				return fmt.Errorf("background %d: %w", i+1, err)
			}
			if bg != nil {
				t.Backgrounds = append(t.Backgrounds, bg)
			}
		}
	}

	var err error
	if t.Body, err = decodeSection(root.find("sections", SectionBody)); err != nil {
		return err
	}
	if t.Footer, err = decodeSection(root.find("sections", SectionFooter)); err != nil {
		return err
	}
	return nil
}

func decodeBackground(el *xmlNode) (Background, error) {
	pos, err := el.readPos()
	if err != nil {
		return nil, err
	}
	switch el.XMLName.Local {
	case "solid":
		b := &SolidBackground{Pos: pos, Color: el.str("color", "#fff")}
		if b.Alpha, err = el.float("alpha", 1); err != nil {
			return nil, err
		}
		return b, nil
	case "gradiant":
		b := &GradientBackground{Pos: pos}
		if b.Angle, err = el.float("angle", 0); err != nil {
			return nil, err
		}
		for i := range el.Children {
			pt := &el.Children[i]
			if pt.XMLName.Local != "point" {
				return nil, fmt.Errorf("gradient: unexpected <%s>, want <point>", pt.XMLName.Local)
			}
			stop := GradientStop{Color: pt.str("color", "#fff")}
			if stop.Location, err = pt.float("stop", 0); err != nil {
				return nil, err
			}
			if stop.Alpha, err = pt.float("alpha", 1); err != nil {
				return nil, err
			}
			b.Stops = append(b.Stops, stop)
		}
		return b, nil
	case "img":
		b := &ImageBackground{Pos: pos, Src: el.str("src", ""), Aspect: AspectFill}
		if v, ok := el.attr("aspect"); ok {
			// Unknown values keep the fill default.
			if a, err := ParseAspect(v); err == nil {
				b.Aspect = a
			}
		}
		return b, nil
	default:
		logger.Debug().Str("tag", el.XMLName.Local).Msg("ignoring unknown background")
		return nil, nil
	}
}

func decodeSection(el *xmlNode) (*Section, error) {
	if el == nil {
		return nil, nil
	}
	s := NewSection(el.XMLName.Local)
	var err error
	if s.Pos, err = el.readPos(); err != nil {
		return nil, err
	}
	s.Font = el.str("font", defaultFont)
	if txt := el.find("text"); txt != nil {
		s.Color = txt.str("color", "#fff")
	}
	if sh := el.find("shadow"); sh != nil {
		s.ShadowColor = sh.str("color", "#000")
		if s.ShadowOpacity, err = sh.float("opacity", 0.4); err != nil {
			return nil, err
		}
		if s.ShadowOffset[0], err = sh.float("offsetx", 0.1); err != nil {
			return nil, err
		}
		if s.ShadowOffset[1], err = sh.float("offsety", 0.1); err != nil {
			return nil, err
		}
	}
	return s, nil
}
