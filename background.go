package theme

// Background is one layer painted beneath the slide content:
// *SolidBackground, *GradientBackground or *ImageBackground.
type Background interface {
	// Tag is the element name used in theme XML.
	Tag() string
	// Region is the relative rectangle the background covers.
	Region() Rect
	draw(r *renderer, bounds Rect)
}

// SolidBackground fills its region with one color.
type SolidBackground struct {
	Pos   Rect
	Color string
	Alpha float64
}

// NewSolidBackground returns an opaque full-canvas fill.
func NewSolidBackground(color string) *SolidBackground {
	return &SolidBackground{Pos: FullRect, Color: color, Alpha: 1}
}

func (b *SolidBackground) Tag() string  { return "solid" }
func (b *SolidBackground) Region() Rect { return b.Pos.orFull() }

func (b *SolidBackground) draw(r *renderer, bounds Rect) {
	rect := b.Region().Abs(bounds)
	r.dc.SetColor(withAlpha(mustColor(b.Color, colorWhite), b.Alpha))
	r.dc.DrawRectangle(rect.X1, rect.Y1, rect.Width(), rect.Height())
	r.dc.Fill()
}

// GradientStop is a color at a location (0.0 - 1.0) along a gradient.
type GradientStop struct {
	Location float64
	Color    string
	Alpha    float64
}

// GradientBackground fills its region with a linear gradient. Angle is in
// degrees clockwise from vertical: 0 runs top to bottom, 90 left to right.
type GradientBackground struct {
	Pos   Rect
	Angle float64
	// Stops are applied in the order given.
	Stops []GradientStop
}

func (b *GradientBackground) Tag() string  { return "gradiant" }
func (b *GradientBackground) Region() Rect { return b.Pos.orFull() }

func (b *GradientBackground) draw(r *renderer, bounds Rect) {
	rect := b.Region().Abs(bounds)
	cx, cy := rect.Center()
	dx, dy := gradientOffset(rect, b.Angle)

	// gg samples patterns in device pixels.
	x0, y0 := r.dc.TransformPoint(cx-dx, cy-dy)
	x1, y1 := r.dc.TransformPoint(cx+dx, cy+dy)
	g := &linearGradient{x0: x0, y0: y0, x1: x1, y1: y1}
	for _, s := range b.Stops {
		g.stops = append(g.stops, gradientStop{
			pos:   s.Location,
			color: withAlpha(mustColor(s.Color, colorWhite), s.Alpha),
		})
	}
	r.dc.SetFillStyle(g)
	r.dc.DrawRectangle(rect.X1, rect.Y1, rect.Width(), rect.Height())
	r.dc.Fill()
}

// ImageBackground draws a picture centered in its region. Src is relative
// to the theme's resource directory unless absolute.
type ImageBackground struct {
	Pos    Rect
	Src    string
	Aspect Aspect

	cache imageCache
}

// NewImageBackground returns a full-canvas image that fills the screen.
func NewImageBackground(src string) *ImageBackground {
	return &ImageBackground{Pos: FullRect, Src: src, Aspect: AspectFill}
}

func (b *ImageBackground) Tag() string  { return "img" }
func (b *ImageBackground) Region() Rect { return b.Pos.orFull() }

func (b *ImageBackground) draw(r *renderer, bounds Rect) {
	rect := b.Region().Abs(bounds)
	img := b.cache.get(r.resolve(r.opts.ResourceDir, b.Src), int(rect.Width()), int(rect.Height()), b.Aspect)
	if img == nil {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	x := (rect.X1 + rect.X2 - float64(w)) / 2
	y := (rect.Y1 + rect.Y2 - float64(h)) / 2
	r.dc.DrawImage(img, int(x), int(y))
}
