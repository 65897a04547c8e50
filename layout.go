package theme

import (
	"image/color"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// layoutRun is a measured piece of text drawn with a single face.
type layoutRun struct {
	text      string
	face      font.Face
	color     *color.NRGBA
	underline bool
	strike    bool
	width     float64
}

// layoutLine is a wrapped line of runs.
type layoutLine struct {
	runs   []layoutRun
	width  float64
	ascent float64
	height float64
}

// textLayout is a block of wrapped, aligned lines at one font size.
type textLayout struct {
	lines  []layoutLine
	width  float64 // wrap width
	height float64
	align  Align
	size   int // base size in Pango units
}

// layoutText lays out spans at base size (Pango units), wrapping at width
// pixels. declared is the size the font description asked for; absolute
// span sizes are scaled by size/declared so that shrinking applies to them too.
func (r *renderer) layoutText(spans []span, fd FontDescription, declared, size int, width float64, align Align) *textLayout {
	l := &textLayout{width: width, align: align, size: size}
	ratio := 1.0
	if declared > 0 {
		ratio = float64(size) / float64(declared)
	}
	baseFace := r.face(fd, span{scale: 1}, size, ratio)

	var para []layoutRun
	flush := func() {
		l.lines = append(l.lines, wrapRuns(para, width, baseFace)...)
		para = nil
	}
	for _, sp := range spans {
		face := r.face(fd, sp, size, ratio)
		parts := strings.Split(sp.text, "\n")
		for i, part := range parts {
			if i > 0 {
				flush()
			}
			if part == "" {
				continue
			}
			para = append(para, layoutRun{
				text:      part,
				face:      face,
				color:     sp.color,
				underline: sp.underline,
				strike:    sp.strike,
			})
		}
	}
	flush()

	for _, ln := range l.lines {
		l.height += ln.height
	}
	return l
}

// face picks the font face for a span at the current base size.
func (r *renderer) face(fd FontDescription, sp span, size int, ratio float64) font.Face {
	families := fd.Families
	if sp.families != nil {
		families = sp.families
	}
	if sp.mono {
		families = []string{"monospace"}
	}
	units := float64(size)
	if sp.size > 0 {
		units = float64(sp.size) * ratio
	}
	px := PointToPixel(UnitsToPoint(int(units*sp.scale)), r.dpi)
	if px < 1 {
		px = 1
	}
	return r.fonts.GetFace(families, px, fd.Bold || sp.bold, fd.Italic || sp.italic)
}

// wrapRuns breaks a paragraph into lines no wider than maxWidth. A word
// that is wider than maxWidth on its own is broken between characters.
func wrapRuns(runs []layoutRun, maxWidth float64, empty font.Face) []layoutLine {
	if len(runs) == 0 {
		return []layoutLine{newLayoutLine(nil, empty)}
	}

	var (
		lines []layoutLine
		cur   []layoutRun
		curW  float64
	)
	emit := func() {
		lines = append(lines, newLayoutLine(cur, empty))
		cur, curW = nil, 0
	}
	add := func(run layoutRun, tok string) {
		run.text = tok
		run.width = measure(run.face, tok)
		// Merge with the previous run when the style is unchanged.
		if n := len(cur); n > 0 && sameStyle(cur[n-1], run) {
			cur[n-1].text += tok
			cur[n-1].width = measure(run.face, cur[n-1].text)
		} else {
			cur = append(cur, run)
		}
		curW += run.width
	}

	for _, run := range runs {
		for _, tok := range splitWords(run.text) {
			w := measure(run.face, tok)
			if curW+w > maxWidth && curW > 0 {
				emit()
				tok = strings.TrimLeftFunc(tok, unicode.IsSpace)
				if tok == "" {
					continue
				}
				w = measure(run.face, tok)
			}
			if w > maxWidth && maxWidth > 0 {
				for _, piece := range breakWord(run.face, tok, maxWidth-curW, maxWidth) {
					if curW > 0 && curW+measure(run.face, piece) > maxWidth {
						emit()
					}
					add(run, piece)
				}
				continue
			}
			add(run, tok)
		}
	}
	if len(cur) > 0 || len(lines) == 0 {
		emit()
	}
	return lines
}

// breakWord splits tok into pieces that fit: the first within first pixels,
// the rest within width.
func breakWord(face font.Face, tok string, first, width float64) []string {
	var (
		pieces []string
		start  int
		limit  = first
	)
	if limit <= 0 {
		limit = width
	}
	for i := 0; i < len(tok); {
		_, sz := utf8.DecodeRuneInString(tok[i:])
		if i > start && measure(face, tok[start:i+sz]) > limit {
			pieces = append(pieces, tok[start:i])
			start = i
			limit = width
		}
		i += sz
	}
	return append(pieces, tok[start:])
}

// splitWords splits s into tokens of leading whitespace plus one word, so
// that spacing between runs survives wrapping.
func splitWords(s string) []string {
	var (
		out    []string
		start  int
		inWord bool
	)
	for i, c := range s {
		if !unicode.IsSpace(c) {
			inWord = true
		} else if inWord {
			out = append(out, s[start:i])
			start, inWord = i, false
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func newLayoutLine(runs []layoutRun, empty font.Face) layoutLine {
	ln := layoutLine{runs: runs}
	if len(runs) == 0 {
		m := empty.Metrics()
		ln.ascent, ln.height = fixedToFloat(m.Ascent), fixedToFloat(m.Height)
		return ln
	}
	for _, run := range runs {
		ln.width += run.width
		m := run.face.Metrics()
		ln.ascent = max(ln.ascent, fixedToFloat(m.Ascent))
		ln.height = max(ln.height, fixedToFloat(m.Height))
	}
	return ln
}

func sameStyle(a, b layoutRun) bool {
	return a.face == b.face && a.color == b.color && a.underline == b.underline && a.strike == b.strike
}

func measure(face font.Face, s string) float64 {
	return fixedToFloat(font.MeasureString(face, s))
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// draw paints the layout with its top-left corner at x, top. When override
// is non-nil every run is drawn in that color, otherwise runs use their
// markup color or fallback.
func (l *textLayout) draw(dc *gg.Context, x, top float64, override *color.NRGBA, fallback color.NRGBA) {
	y := top
	for _, ln := range l.lines {
		lx := x
		switch l.align {
		case AlignCenter:
			lx += (l.width - ln.width) / 2
		case AlignRight:
			lx += l.width - ln.width
		}
		baseline := y + ln.ascent
		for _, run := range ln.runs {
			c := fallback
			switch {
			case override != nil:
				c = *override
			case run.color != nil:
				c = withAlpha(*run.color, float64(fallback.A)/255)
			}
			dc.SetColor(c)
			dc.SetFontFace(run.face)
			dc.DrawString(run.text, lx, baseline)
			if run.underline || run.strike {
				thick := max(1, ln.height/20)
				if run.underline {
					dc.DrawRectangle(lx, baseline+thick, run.width, thick)
				}
				if run.strike {
					dc.DrawRectangle(lx, baseline-ln.ascent/3, run.width, thick)
				}
				dc.Fill()
			}
			lx += run.width
		}
		y += ln.height
	}
}
