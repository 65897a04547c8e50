// Package pres reads text presentations: ordered slides of markup text and
// images that are shown through a theme.
package pres

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	theme "github.com/exposong/exposong-theme"
)

// Presentation is a titled list of slides.
type Presentation struct {
	Filename string
	Title    string
	// Timer advances slides automatically when non-zero.
	Timer time.Duration
	// Loop restarts the timer at the first slide after the last one.
	Loop bool
	// Meta holds any other <meta> children by tag name.
	Meta   map[string]string
	Slides []*Slide
	// Order lists slide ids in display order; empty means document order.
	Order []string
}

// Slide is one screen of a presentation. It implements theme.Slide.
type Slide struct {
	ID    string
	Title string
	// ThemeName is the base name of a theme file that overrides the
	// presentation theme for this slide.
	ThemeName string
	content   []theme.Content
}

var _ theme.Slide = (*Slide)(nil)

// Body returns the slide's text and images in document order.
func (s *Slide) Body() []theme.Content { return s.content }

// Footer returns nothing: text presentations only have body content.
func (s *Slide) Footer() []theme.Content { return nil }

type xmlPresentation struct {
	Meta struct {
		Items []xmlMeta `xml:",any"`
	} `xml:"meta"`
	Slides []xmlSlide `xml:"slides>slide"`
	Order  string     `xml:"order"`
}

type xmlMeta struct {
	XMLName xml.Name
	Time    string `xml:"time,attr"`
	Loop    string `xml:"loop,attr"`
	Text    string `xml:",chardata"`
}

type xmlSlide struct {
	ID    string    `xml:"id,attr"`
	Title string    `xml:"title,attr"`
	Theme string    `xml:"theme,attr"`
	Items []xmlItem `xml:",any"`
}

type xmlItem struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

func (it *xmlItem) attr(name string) (string, bool) {
	for _, a := range it.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// Load reads a presentation file. Relative image sources are resolved
// against imageDir.
func Load(path, imageDir string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open presentation: %w", err)
	}
	defer f.Close()

	p, err := Parse(f, imageDir)
	if err != nil {
		return nil, fmt.Errorf("presentation %s: %w", path, err)
	}
	p.Filename = path
	return p, nil
}

// Parse reads a presentation from XML.
func Parse(r io.Reader, imageDir string) (*Presentation, error) {
	var doc xmlPresentation
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse presentation XML: %w", err)
	}

	p := &Presentation{Meta: make(map[string]string)}
	for _, m := range doc.Meta.Items {
		switch m.XMLName.Local {
		case "title":
			p.Title = strings.TrimSpace(m.Text)
		case "timer":
			secs, err := strconv.Atoi(m.Time)
			if err != nil {
				return nil, fmt.Errorf("timer: bad time %q", m.Time)
			}
			p.Timer = time.Duration(secs) * time.Second
			p.Loop = parseLoop(m.Loop)
		default:
			p.Meta[m.XMLName.Local] = strings.TrimSpace(m.Text)
		}
	}

	for i, xs := range doc.Slides {
		s := &Slide{ID: xs.ID, Title: xs.Title, ThemeName: xs.Theme}
		for j := range xs.Items {
			c, err := parseItem(&xs.Items[j], imageDir)
			if err != nil {
				return nil, fmt.Errorf("slide %d item %d: %w", i+1, j+1, err)
			}
			if c != nil {
				s.content = append(s.content, c)
			}
		}
		p.Slides = append(p.Slides, s)
	}
	p.Order = strings.Fields(doc.Order)
	return p, nil
}

// parseLoop treats any value other than a false boolean as true.
func parseLoop(v string) bool {
	if v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	return err != nil || b
}

// layout holds the attributes shared by text and image items.
type layout struct {
	pos    theme.Rect
	align  theme.Align
	valign theme.VAlign
	margin int
}

func parseLayout(it *xmlItem) (layout, error) {
	l := layout{pos: theme.FullRect, align: theme.AlignCenter, valign: theme.VAlignMiddle}
	coords := []struct {
		name string
		dst  *float64
	}{{"x1", &l.pos.X1}, {"y1", &l.pos.Y1}, {"x2", &l.pos.X2}, {"y2", &l.pos.Y2}}
	for _, c := range coords {
		v, ok := it.attr(c.name)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return l, fmt.Errorf("%s=%q: not a number", c.name, v)
		}
		*c.dst = f
	}

	var err error
	if v, ok := it.attr("align"); ok {
		if l.align, err = theme.ParseAlign(v); err != nil {
			return l, err
		}
	}
	if v, ok := it.attr("valign"); ok {
		if l.valign, err = theme.ParseVAlign(v); err != nil {
			return l, err
		}
	}
	if v, ok := it.attr("margin"); ok {
		if l.margin, err = strconv.Atoi(v); err != nil {
			return l, fmt.Errorf("margin=%q: not an integer", v)
		}
	}
	return l, nil
}

func parseItem(it *xmlItem, imageDir string) (theme.Content, error) {
	l, err := parseLayout(it)
	if err != nil {
		return nil, err
	}
	switch it.XMLName.Local {
	case "text":
		return &theme.Text{
			Markup: strings.TrimSpace(it.Inner),
			Align:  l.align,
			VAlign: l.valign,
			Margin: l.margin,
			Pos:    l.pos,
		}, nil
	case "image":
		src, _ := it.attr("src")
		if src == "" {
			return nil, fmt.Errorf("image has no src")
		}
		if imageDir != "" && !filepath.IsAbs(src) {
			src = filepath.Join(imageDir, src)
		}
		img := &theme.Image{
			Src:    src,
			Aspect: theme.AspectFit,
			Align:  l.align,
			VAlign: l.valign,
			Margin: l.margin,
			Pos:    l.pos,
		}
		if v, ok := it.attr("aspect"); ok {
			if img.Aspect, err = theme.ParseAspect(v); err != nil {
				return nil, err
			}
		}
		return img, nil
	default:
		theme.Logger().Warn().Str("tag", it.XMLName.Local).Msg("ignoring unknown slide element")
		return nil, nil
	}
}

// Ordered returns the slides in display order. Ids in Order that match no
// slide are skipped; without an Order the document order is used.
func (p *Presentation) Ordered() []*Slide {
	if len(p.Order) == 0 {
		return p.Slides
	}
	byID := make(map[string]*Slide, len(p.Slides))
	for _, s := range p.Slides {
		if s.ID != "" {
			byID[s.ID] = s
		}
	}
	var out []*Slide
	for _, id := range p.Order {
		if s, ok := byID[id]; ok {
			out = append(out, s)
		}
	}
	return out
}

// ThemeFor returns the theme file for s found in themesDir, or "" when the
// slide has no custom theme or the file does not exist.
func ThemeFor(s *Slide, themesDir string) string {
	if s.ThemeName == "" || themesDir == "" {
		return ""
	}
	path := filepath.Join(themesDir, filepath.Base(s.ThemeName))
	if _, err := os.Stat(path); err != nil {
		theme.Logger().Warn().Str("theme", s.ThemeName).Msg("custom theme not found")
		return ""
	}
	return path
}
