// Package theme renders ExpoSong slides through themes.
//
// A theme describes the layout of a presentation screen: layered
// backgrounds (solid colors, gradients and images) and the body and footer
// sections that slide text and images are placed into. All positions are
// fractions of the canvas, so one theme works at every screen size.
//
// Themes are loaded from XML, then drawn onto a gg.Context:
//
//	t, err := theme.Load("themes/exposong.xml", nil)
//	...
//	dc := gg.NewContext(800, 600)
//	err = t.Render(dc, []float64{800, 600}, slide)
//
// Rendering is synchronous and a Theme must not be rendered from more than
// one goroutine at a time.
package theme

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// defaultFooterTop is where the footer begins when a theme has none.
const defaultFooterTop = 0.85

// Theme is a loaded layout and style description.
type Theme struct {
	// Filename is the file the theme was loaded from, if any.
	Filename    string
	Backgrounds []Background
	Body        *Section
	Footer      *Section

	opts  *Options
	fonts *FontCache
}

// New returns an empty theme: a black screen without sections.
func New(opts *Options) *Theme {
	t := &Theme{}
	t.setOptions(opts)
	return t
}

// Load reads a theme from an XML file.
func Load(path string, opts *Options) (*Theme, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open theme: %w", err)
	}
	defer f.Close()

	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.ResourceDir == "" {
		o := *opts
		o.ResourceDir = filepath.Join(filepath.Dir(path), "res")
		opts = &o
	}

	t, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", path, err)
	}
	t.Filename = path
	return t, nil
}

// Parse reads a theme from XML.
func Parse(r io.Reader, opts *Options) (*Theme, error) {
	t := New(opts)
	if err := t.decode(r); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload re-reads the theme from its file. On failure the theme is left unchanged.
func (t *Theme) Reload() error {
	if t.Filename == "" {
		return fmt.Errorf("theme has no file to reload")
	}
	fresh, err := Load(t.Filename, t.opts)
	if err != nil {
		return err
	}
	t.Backgrounds, t.Body, t.Footer = fresh.Backgrounds, fresh.Body, fresh.Footer
	return nil
}

func (t *Theme) setOptions(opts *Options) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.DPI <= 0 {
		o := *opts
		o.DPI = defaultDPI
		opts = &o
	}
	t.opts = opts
	t.fonts = opts.FontCache
	if t.fonts == nil {
		t.fonts = NewFontCache(opts.FontDirs...)
	}
}

// FooterTop returns the relative y where the footer begins.
func (t *Theme) FooterTop() float64 {
	if t.Footer != nil {
		return t.Footer.Pos.orFull().Y1
	}
	return defaultFooterTop
}

// Render draws the theme and slide into dc within bounds, which is either
// {width, height} or {x0, y0, x1, y1}. slide may be nil. The bounds are
// filled with black, backgrounds are painted in order, and then body and
// footer content is drawn into their sections. Content for a section the
// theme does not define is skipped.
func (t *Theme) Render(dc *gg.Context, bounds []float64, slide Slide) error {
	b, err := NewBounds(bounds...)
	if err != nil {
		return err
	}
	if t.opts == nil {
		t.setOptions(nil)
	}
	r := &renderer{dc: dc, opts: t.opts, fonts: t.fonts, dpi: t.opts.DPI}

	dc.Push()
	defer dc.Pop()

	dc.SetColor(colorBlack)
	dc.DrawRectangle(b.X1, b.Y1, b.Width(), b.Height())
	dc.Fill()

	for _, bg := range t.Backgrounds {
		bg.draw(r, b)
	}
	if slide == nil {
		return nil
	}
	if err := drawSection(r, b, t.Body, slide.Body()); err != nil {
		return err
	}
	return drawSection(r, b, t.Footer, slide.Footer())
}

func drawSection(r *renderer, bounds Rect, sec *Section, items []Content) error {
	if sec == nil {
		return nil
	}
	for i, c := range items {
		if err := c.draw(r, bounds, sec); err != nil {
			return fmt.Errorf("%s item %d: %w", sec.Kind, i, err)
		}
	}
	return nil
}
