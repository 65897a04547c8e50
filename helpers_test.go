package theme

import (
	"image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/stretchr/testify/require"
)

// testOptions uses only the embedded Go fonts so results do not depend on
// the host.
func testOptions() *Options {
	return &Options{DPI: 96, FontCache: NewBuiltinFontCache()}
}

func newTestRenderer(w, h int) *renderer {
	opts := testOptions()
	return &renderer{dc: gg.NewContext(w, h), opts: opts, fonts: opts.FontCache, dpi: opts.DPI}
}

func parseTheme(t *testing.T, doc string) *Theme {
	t.Helper()
	th, err := Parse(strings.NewReader(doc), testOptions())
	require.NoError(t, err)
	return th
}

// writeImage saves a w×h image of a single color and returns its path.
func writeImage(t *testing.T, dir, name string, w, h int, c color.Color) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, imaging.Save(imaging.New(w, h, c), path))
	return path
}

// inkBounds returns the bounding box of pixels for which ink reports true.
func inkBounds(img image.Image, ink func(color.NRGBA) bool) image.Rectangle {
	var box image.Rectangle
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if !ink(color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)) {
				continue
			}
			p := image.Rect(x, y, x+1, y+1)
			if box.Empty() {
				box = p
			} else {
				box = box.Union(p)
			}
		}
	}
	return box
}

func nrgbaAt(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}
