package theme

// Section kinds.
const (
	SectionBody   = "body"
	SectionFooter = "footer"
)

// Section is a named region of the screen that slide content of the same
// kind is placed into. It carries the text style for that content.
type Section struct {
	// Kind is SectionBody or SectionFooter.
	Kind string
	// Pos is relative to the canvas.
	Pos Rect
	// Font is a Pango-style font description, e.g. "Sans Bold 24".
	Font  string
	Color string
	// ShadowColor is drawn behind text; empty disables the shadow.
	ShadowColor   string
	ShadowOpacity float64
	// ShadowOffset is a multiple of the font size in points, per axis.
	ShadowOffset [2]float64
}

// NewSection returns a section of the given kind with the default style:
// white "Sans 24" text with a soft black shadow, covering the whole canvas.
func NewSection(kind string) *Section {
	return &Section{
		Kind:          kind,
		Pos:           FullRect,
		Font:          defaultFont,
		Color:         "#fff",
		ShadowColor:   "#000",
		ShadowOpacity: 0.4,
		ShadowOffset:  [2]float64{0.1, 0.1},
	}
}

// fontDescription parses the section font, falling back to the default
// font for anything missing or malformed.
func (s *Section) fontDescription() FontDescription {
	def, _ := ParseFontDescription(defaultFont)
	if s.Font == "" {
		return def
	}
	fd, err := ParseFontDescription(s.Font)
	if err != nil {
		logger.Warn().Err(err).Str("section", s.Kind).Msg("using default font")
		return def
	}
	if fd.Size == 0 {
		fd.Size = def.Size
	}
	return fd
}
