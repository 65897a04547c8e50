package theme

import (
	"bytes"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fogleman/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTheme = `<?xml version="1.0" encoding="UTF-8"?>
<theme>
  <background>
    <solid color="#336699" alpha="1"/>
    <gradiant x1="0" y1="0.5" x2="1" y2="1" angle="90">
      <point stop="0" color="#000" alpha="0"/>
      <point stop="1" color="#000" alpha="0.8"/>
    </gradiant>
    <img src="logo.png" aspect="fit" x1="0.8" y1="0" x2="1" y2="0.2"/>
    <video src="ignored.ogv"/>
  </background>
  <sections>
    <body x1="0.05" y1="0.05" x2="0.95" y2="0.8" font="Sans Bold 32">
      <text color="#ffc"/>
      <shadow color="#000" opacity="0.6" offsetx="0.2" offsety="0.15"/>
    </body>
    <footer y1="0.85" font="Sans 14">
      <text color="#fff"/>
    </footer>
  </sections>
</theme>
`

func TestParse_Sample(t *testing.T) {
	th := parseTheme(t, sampleTheme)

	require.Len(t, th.Backgrounds, 3)
	solid, ok := th.Backgrounds[0].(*SolidBackground)
	require.True(t, ok)
	assert.Equal(t, "#336699", solid.Color)
	assert.Equal(t, FullRect, solid.Pos)

	grad, ok := th.Backgrounds[1].(*GradientBackground)
	require.True(t, ok)
	assert.Equal(t, 90.0, grad.Angle)
	assert.Equal(t, Rect{0, 0.5, 1, 1}, grad.Pos)
	require.Len(t, grad.Stops, 2)
	assert.Equal(t, GradientStop{Location: 1, Color: "#000", Alpha: 0.8}, grad.Stops[1])

	img, ok := th.Backgrounds[2].(*ImageBackground)
	require.True(t, ok)
	assert.Equal(t, "logo.png", img.Src)
	assert.Equal(t, AspectFit, img.Aspect)

	require.NotNil(t, th.Body)
	assert.Equal(t, SectionBody, th.Body.Kind)
	assert.Equal(t, Rect{0.05, 0.05, 0.95, 0.8}, th.Body.Pos)
	assert.Equal(t, "Sans Bold 32", th.Body.Font)
	assert.Equal(t, "#ffc", th.Body.Color)
	assert.Equal(t, 0.6, th.Body.ShadowOpacity)
	assert.Equal(t, [2]float64{0.2, 0.15}, th.Body.ShadowOffset)

	require.NotNil(t, th.Footer)
	assert.Equal(t, Rect{0, 0.85, 1, 1}, th.Footer.Pos)
	assert.Equal(t, "#000", th.Footer.ShadowColor)
	assert.Equal(t, 0.4, th.Footer.ShadowOpacity)
	assert.InDelta(t, 0.85, th.FooterTop(), 1e-9)
}

func TestParse_Defaults(t *testing.T) {
	th := parseTheme(t, `<theme><background><img src="a.jpg"/><img src="b.jpg" aspect="tile"/></background></theme>`)
	require.Len(t, th.Backgrounds, 2)
	assert.Equal(t, AspectFill, th.Backgrounds[0].(*ImageBackground).Aspect)
	assert.Equal(t, AspectFill, th.Backgrounds[1].(*ImageBackground).Aspect)
	assert.Nil(t, th.Body)
	assert.Nil(t, th.Footer)
	assert.InDelta(t, defaultFooterTop, th.FooterTop(), 1e-9)

	th = parseTheme(t, `<theme/>`)
	assert.Empty(t, th.Backgrounds)
}

func TestParse_Errors(t *testing.T) {
	for _, doc := range []string{
		`<theme>`,
		`<theme><background><solid alpha="lots"/></background></theme>`,
		`<theme><background><gradiant><stop/></gradiant></background></theme>`,
		`<theme><sections><body x1="left"/></sections></theme>`,
		`<theme><sections><body><shadow opacity="?"/></body></sections></theme>`,
	} {
		_, err := Parse(strings.NewReader(doc), testOptions())
		assert.Error(t, err, doc)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	th := parseTheme(t, sampleTheme)

	var buf bytes.Buffer
	require.NoError(t, th.Encode(&buf))
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
	assert.NotContains(t, buf.String(), "video")

	again := parseTheme(t, buf.String())
	assert.Equal(t, th.Backgrounds, again.Backgrounds)
	assert.Equal(t, th.Body, again.Body)
	assert.Equal(t, th.Footer, again.Footer)
}

func TestSaveAndReload(t *testing.T) {
	dir := t.TempDir()
	th := New(testOptions())
	th.Backgrounds = append(th.Backgrounds, NewSolidBackground("#123456"))
	th.Body = NewSection(SectionBody)

	path := filepath.Join(dir, "nested", "mine.xml")
	require.NoError(t, th.Save(path))
	assert.Equal(t, path, th.Filename)

	loaded, err := Load(path, testOptions())
	require.NoError(t, err)
	require.Len(t, loaded.Backgrounds, 1)
	assert.Equal(t, "#123456", loaded.Backgrounds[0].(*SolidBackground).Color)
	assert.Equal(t, filepath.Join(dir, "nested", "res"), loaded.opts.ResourceDir)

	th.Backgrounds[0].(*SolidBackground).Color = "#654321"
	th.Footer = NewSection(SectionFooter)
	require.NoError(t, th.Save(""))

	require.NoError(t, loaded.Reload())
	assert.Equal(t, "#654321", loaded.Backgrounds[0].(*SolidBackground).Color)
	assert.NotNil(t, loaded.Footer)

	require.NoError(t, os.WriteFile(path, []byte("<theme>"), 0o644))
	assert.Error(t, loaded.Reload())
	assert.Equal(t, "#654321", loaded.Backgrounds[0].(*SolidBackground).Color)

	assert.Error(t, New(nil).Reload())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.xml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, parseTheme(t, sampleTheme).Validate())

	bad := parseTheme(t, `<theme>
  <background>
    <solid color="nocolor" alpha="2"/>
    <gradiant x2="1.5">
      <point stop="0.8" color="#fff"/>
      <point stop="0.2" color="#000"/>
    </gradiant>
    <gradiant/>
    <img/>
  </background>
  <sections>
    <body font="Sans -4" x1="0.5" x2="0.5"><shadow opacity="3"/></body>
  </sections>
</theme>`)
	err := bad.Validate()
	require.Error(t, err)
	msg := err.Error()
	for _, want := range []string{
		"background 1 (solid): color",
		"background 1 (solid): alpha 2",
		"background 2 (gradiant): position",
		"point 2: stops are not in ascending order",
		"background 3 (gradiant): gradient has no points",
		"background 4 (img): image has no src",
		"body: font",
		"body: position",
		"body: shadow opacity 3",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestRender_CenteredText(t *testing.T) {
	th := parseTheme(t, `<theme>
  <background><solid color="#fff" alpha="1"/></background>
  <sections>
    <body x1="0" y1="0" x2="1" y2="1" font="Sans 24">
      <text color="#000"/>
      <shadow color=""/>
    </body>
  </sections>
</theme>`)
	txt := NewText("Hello")
	txt.Align, txt.VAlign = AlignCenter, VAlignMiddle
	slide := &StaticSlide{BodyContent: []Content{txt}}

	img, err := RenderImage(th, slide, DefaultRenderOptions())
	require.NoError(t, err)
	assert.Equal(t, 800, img.Bounds().Dx())
	assert.Equal(t, 600, img.Bounds().Dy())

	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, nrgbaAt(img, 5, 5))
	box := inkBounds(img, func(c color.NRGBA) bool { return c.R < 128 })
	require.False(t, box.Empty(), "no text drawn")

	cx := float64(box.Min.X+box.Max.X) / 2
	cy := float64(box.Min.Y+box.Max.Y) / 2
	assert.InDelta(t, 400, cx, 6)
	assert.InDelta(t, 300, cy, 8)
	assert.Less(t, box.Dx(), 200)
	assert.Less(t, box.Dy(), 40)
}

func TestRender_NoBackgrounds(t *testing.T) {
	th := parseTheme(t, `<theme/>`)
	dc := gg.NewContext(64, 48)
	require.NoError(t, th.Render(dc, []float64{64, 48}, nil))
	img := dc.Image()
	for _, p := range [][2]int{{0, 0}, {32, 24}, {63, 47}} {
		assert.Equal(t, color.NRGBA{0, 0, 0, 255}, nrgbaAt(img, p[0], p[1]))
	}
}

func TestRender_FourValueBounds(t *testing.T) {
	th := parseTheme(t, `<theme><background><solid color="#f00"/></background></theme>`)
	dc := gg.NewContext(100, 100)
	require.NoError(t, th.Render(dc, []float64{50, 50, 100, 100}, nil))
	img := dc.Image()
	assert.Equal(t, uint8(0), nrgbaAt(img, 25, 25).A)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(img, 75, 75))
}

func TestRender_InvalidBounds(t *testing.T) {
	th := parseTheme(t, `<theme/>`)
	err := th.Render(gg.NewContext(10, 10), []float64{1, 2, 3}, nil)
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestRender_MissingSectionSkipsContent(t *testing.T) {
	th := parseTheme(t, `<theme><background><solid color="#0f0"/></background></theme>`)
	slide := &StaticSlide{
		BodyContent:   []Content{NewText("body")},
		FooterContent: []Content{NewText("footer")},
	}
	img, err := RenderImage(th, slide, &RenderOptions{Width: 120, Height: 90})
	require.NoError(t, err)
	box := inkBounds(img, func(c color.NRGBA) bool { return c != (color.NRGBA{0, 255, 0, 255}) })
	assert.True(t, box.Empty())
}

func TestRender_FooterWithinSection(t *testing.T) {
	th := parseTheme(t, `<theme>
  <sections>
    <footer y1="0.75" font="Sans 12"><text color="#fff"/><shadow color=""/></footer>
  </sections>
</theme>`)
	slide := &StaticSlide{FooterContent: []Content{NewText("Copyright")}}
	img, err := RenderImage(th, slide, &RenderOptions{Width: 400, Height: 400})
	require.NoError(t, err)
	box := inkBounds(img, func(c color.NRGBA) bool { return c.R > 128 })
	require.False(t, box.Empty())
	assert.GreaterOrEqual(t, box.Min.Y, 300)
	assert.Less(t, box.Min.X, 10)
}

func TestRender_ContentErrorIsWrapped(t *testing.T) {
	th := parseTheme(t, `<theme><sections><body/></sections></theme>`)
	txt := NewText("x")
	txt.Margin = 500
	_, err := RenderImage(th, &StaticSlide{BodyContent: []Content{txt}}, &RenderOptions{Width: 100, Height: 100})
	require.ErrorIs(t, err, ErrEmptyRegion)
	assert.Contains(t, err.Error(), "body item 0")
}

func TestRender_ImageBackgroundFromResourceDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "res"), 0o755))
	writeImage(t, filepath.Join(dir, "res"), "red.png", 10, 10, color.NRGBA{255, 0, 0, 255})
	path := filepath.Join(dir, "t.xml")
	require.NoError(t, os.WriteFile(path, []byte(`<theme><background><img src="red.png"/></background></theme>`), 0o644))

	th, err := Load(path, testOptions())
	require.NoError(t, err)
	img, err := RenderImage(th, nil, &RenderOptions{Width: 80, Height: 60})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(img, 40, 30))
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, nrgbaAt(img, 0, 0))
}

func TestRender_MissingImageBackgroundIsSkipped(t *testing.T) {
	th := parseTheme(t, `<theme><background><solid color="#00f"/><img src="/no/such.png"/></background></theme>`)
	img, err := RenderImage(th, nil, &RenderOptions{Width: 20, Height: 20})
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 255, 255}, nrgbaAt(img, 10, 10))
}
