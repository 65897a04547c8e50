package theme

import (
	"fmt"
	"strings"
)

// Align is the horizontal alignment of content within its region.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// VAlign is the vertical alignment of content within its region.
type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

// Aspect selects how an image is scaled into its region.
type Aspect int

const (
	// AspectNone stretches width and height independently.
	AspectNone Aspect = iota
	// AspectFit scales uniformly so the whole image is visible.
	AspectFit
	// AspectFill scales uniformly so the region is covered, cropping the overflow.
	AspectFill
)

// ParseAlign parses "left", "center" or "right".
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(s) {
	case "left":
		return AlignLeft, nil
	case "center", "centre":
		return AlignCenter, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

// ParseVAlign parses "top", "middle" or "bottom".
func ParseVAlign(s string) (VAlign, error) {
	switch strings.ToLower(s) {
	case "top":
		return VAlignTop, nil
	case "middle", "center":
		return VAlignMiddle, nil
	case "bottom":
		return VAlignBottom, nil
	}
	return VAlignTop, fmt.Errorf("unknown vertical alignment %q", s)
}

// ParseAspect parses "fit", "fill" or "stretch".
func ParseAspect(s string) (Aspect, error) {
	switch strings.ToLower(s) {
	case "fit":
		return AspectFit, nil
	case "fill":
		return AspectFill, nil
	case "stretch", "none":
		return AspectNone, nil
	}
	return AspectFill, fmt.Errorf("unknown aspect %q", s)
}

func (a Aspect) String() string {
	switch a {
	case AspectFit:
		return "fit"
	case AspectFill:
		return "fill"
	default:
		return "stretch"
	}
}

// Content is a renderable element of a slide's body or footer: *Text or *Image.
type Content interface {
	draw(r *renderer, bounds Rect, sec *Section) error
}

// Slide is anything that can be shown through a theme. Themes never modify slides.
type Slide interface {
	Body() []Content
	Footer() []Content
}

// StaticSlide is a Slide with fixed content.
type StaticSlide struct {
	BodyContent   []Content
	FooterContent []Content
}

func (s *StaticSlide) Body() []Content   { return s.BodyContent }
func (s *StaticSlide) Footer() []Content { return s.FooterContent }

// contentRect resolves pos inside sec and bounds and applies margin.
func contentRect(pos Rect, margin int, bounds Rect, sec *Section) (Rect, error) {
	pos = pos.orFull()
	if sec != nil {
		pos = pos.Within(sec.Pos.orFull())
	}
	rect := pos.Abs(bounds).Inset(float64(margin))
	if rect.Empty() {
		return rect, fmt.Errorf("%w: %s with margin %d", ErrEmptyRegion, rect, margin)
	}
	return rect, nil
}

// Text is a block of Pango-style markup placed in a section.
type Text struct {
	Markup string
	Align  Align
	VAlign VAlign
	// Margin is in pixels on every side.
	Margin int
	// Pos is relative to the section; zero means the whole section.
	Pos Rect
}

// NewText returns left/top aligned text filling its section.
func NewText(markup string) *Text {
	return &Text{Markup: markup, Pos: FullRect}
}

const (
	// fontShrink is applied to the font size until the text fits.
	fontShrink = 0.95
	// minFontSize stops shrinking, in Pango units.
	minFontSize = unitsPerPoint
	// shadowSpread is the half-width of the shadow stamp grid.
	shadowSpread = 2
	// shadowAlpha is the per-stamp share of the shadow opacity.
	shadowAlpha = 0.05
)

func (t *Text) draw(r *renderer, bounds Rect, sec *Section) error {
	if sec == nil {
		sec = NewSection("")
	}
	rect, err := contentRect(t.Pos, t.Margin, bounds, sec)
	if err != nil {
		return err
	}

	fd := sec.fontDescription()
	declared := fd.Size
	if fd.Absolute {
		declared = PointToUnits(fd.SizePoints(r.dpi))
		fd.Absolute = false
	}

	spans, err := parseMarkup(t.Markup)
	if err != nil {
		logger.Warn().Err(err).Str("markup", t.Markup).Msg("showing markup as plain text")
		spans = plainSpans(t.Markup)
	}

	l := r.fitText(spans, fd, declared, rect, t.Align)

	var top float64
	switch t.VAlign {
	case VAlignTop:
		top = rect.Y1
	case VAlignMiddle:
		top = rect.Y1 + rect.Height()/2 - l.height/2
	default:
		top = rect.Y2 - l.height
	}

	if sec.ShadowColor != "" {
		sc := withAlpha(mustColor(sec.ShadowColor, colorBlack), sec.ShadowOpacity*shadowAlpha)
		sz := UnitsToPoint(l.size)
		sx := rect.X1 + sz*sec.ShadowOffset[0]
		sy := top + sz*sec.ShadowOffset[1]
		for dx := -shadowSpread; dx <= shadowSpread; dx++ {
			for dy := -shadowSpread; dy <= shadowSpread; dy++ {
				l.draw(r.dc, sx+float64(dx), sy+float64(dy), &sc, sc)
			}
		}
	}
	l.draw(r.dc, rect.X1, top, nil, mustColor(sec.Color, colorWhite))
	return nil
}

// fitText lays out spans starting at the declared size and shrinks the font
// by fontShrink until the block fits rect or the minimum size is reached.
func (r *renderer) fitText(spans []span, fd FontDescription, declared int, rect Rect, align Align) *textLayout {
	size := declared
	l := r.layoutText(spans, fd, declared, size, rect.Width(), align)
	for l.height > rect.Height() && size > minFontSize {
		size = int(float64(size) * fontShrink)
		l = r.layoutText(spans, fd, declared, size, rect.Width(), align)
	}
	return l
}

// Image is a picture placed in a section.
type Image struct {
	Src    string
	Aspect Aspect
	Align  Align
	VAlign VAlign
	// Margin is in pixels on every side.
	Margin int
	// Pos is relative to the section; zero means the whole section.
	Pos Rect

	cache imageCache
}

// NewImage returns a centered image that fits its section.
func NewImage(src string) *Image {
	return &Image{Src: src, Aspect: AspectFit, Align: AlignCenter, VAlign: VAlignMiddle, Pos: FullRect}
}

func (im *Image) draw(r *renderer, bounds Rect, sec *Section) error {
	rect, err := contentRect(im.Pos, im.Margin, bounds, sec)
	if err != nil {
		return err
	}
	img := im.cache.get(r.resolve(r.opts.ImageDir, im.Src), int(rect.Width()), int(rect.Height()), im.Aspect)
	if img == nil {
		return nil
	}
	w, h := float64(img.Bounds().Dx()), float64(img.Bounds().Dy())

	var left, top float64
	switch im.Align {
	case AlignLeft:
		left = rect.X1
	case AlignCenter:
		left = rect.X1 + rect.Width()/2 - w/2
	default:
		left = rect.X2 - w
	}
	switch im.VAlign {
	case VAlignTop:
		top = rect.Y1
	case VAlignMiddle:
		top = rect.Y1 + rect.Height()/2 - h/2
	default:
		top = rect.Y2 - h
	}
	r.dc.DrawImage(img, int(left), int(top))
	return nil
}
