package theme

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRenderImage_BlankTheme(t *testing.T) {
	img, err := RenderImage(New(testOptions()), nil, nil)
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 800 {
		t.Errorf("expected width 800, got %d", bounds.Dx())
	}
	if bounds.Dy() != 600 {
		t.Errorf("expected height 600, got %d", bounds.Dy())
	}
}

func TestRenderImage_CustomOptions(t *testing.T) {
	opts := &RenderOptions{
		Width:       1920,
		Height:      1080,
		Format:      ImageFormatJPEG,
		JPEGQuality: 85,
	}
	img, err := RenderImage(New(testOptions()), nil, opts)
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	if img.Bounds().Dx() != 1920 {
		t.Errorf("expected width 1920, got %d", img.Bounds().Dx())
	}
}

func TestRenderImage_InvalidSize(t *testing.T) {
	_, err := RenderImage(New(testOptions()), nil, &RenderOptions{Width: 0, Height: 10})
	if err == nil {
		t.Error("expected error for zero width")
	}
}

func TestRenderImage_Background(t *testing.T) {
	th := New(testOptions())
	th.Backgrounds = append(th.Backgrounds, NewSolidBackground("#003366"))

	img, err := RenderImage(th, nil, nil)
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}

	// Check that the background is dark blue
	r, g, b, _ := img.At(10, 10).RGBA()
	if r>>8 != 0x00 || g>>8 != 0x33 || b>>8 != 0x66 {
		t.Errorf("unexpected background color: R=%d G=%d B=%d", r>>8, g>>8, b>>8)
	}
}

func TestRenderImage_TranslucentBackground(t *testing.T) {
	th := New(testOptions())
	bg := NewSolidBackground("#fff")
	bg.Alpha = 0.5
	th.Backgrounds = append(th.Backgrounds, bg)

	img, err := RenderImage(th, nil, &RenderOptions{Width: 20, Height: 20})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}
	// Half white over the black base.
	r, _, _, a := img.At(10, 10).RGBA()
	if a>>8 != 0xff {
		t.Errorf("expected opaque pixel, got alpha %d", a>>8)
	}
	if v := r >> 8; v < 0x7c || v > 0x84 {
		t.Errorf("expected mid grey, got R=%d", v)
	}
}

func TestSaveImage(t *testing.T) {
	img, err := RenderImage(New(testOptions()), nil, &RenderOptions{Width: 16, Height: 16})
	if err != nil {
		t.Fatalf("RenderImage: %v", err)
	}

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "out", "a.png")
	if err := SaveImage(img, pngPath, nil); err != nil {
		t.Fatalf("SaveImage png: %v", err)
	}
	f, err := os.Open(pngPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 16 {
		t.Errorf("expected width 16, got %d", decoded.Bounds().Dx())
	}

	// Out-of-range quality falls back to the default.
	jpgPath := filepath.Join(dir, "a.jpg")
	if err := SaveImage(img, jpgPath, &RenderOptions{Format: ImageFormatJPEG, JPEGQuality: 500}); err != nil {
		t.Fatalf("SaveImage jpeg: %v", err)
	}
	if info, err := os.Stat(jpgPath); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty jpeg, err=%v", err)
	}
}

func TestFontCache_SystemFonts(t *testing.T) {
	fc := NewFontCache()
	face := fc.GetFace([]string{"Arial", "Sans"}, 12, false, false)
	if face == nil {
		t.Fatal("GetFace returned nil")
	}
	// Verify it's a real face by measuring text
	w := font.MeasureString(face, "Hello")
	if w <= 0 {
		t.Error("expected positive text width from TrueType face")
	}
}

func TestFontCache_LoadFontData(t *testing.T) {
	fc := NewBuiltinFontCache()
	// Loading invalid data should fail
	err := fc.LoadFontData("test", []byte("not a font"))
	if err == nil {
		t.Error("expected error for invalid font data")
	}

	if err := fc.LoadFontData("Hymnal", goregular.TTF); err != nil {
		t.Fatalf("LoadFontData: %v", err)
	}
	if fc.findFont("hymnal", false, false) == nil {
		t.Error("expected font registered under its given name")
	}
	if fc.findFont("go", false, false) == nil {
		t.Error("expected font registered under its family name")
	}
}

func TestFontCache_LoadFontFromDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Hymnal.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}

	fc := newFontCache([]string{dir})
	fc.ensureScanned()
	if fc.findFont("hymnal", false, false) == nil {
		t.Error("expected font registered by file name")
	}
	if err := fc.LoadFont("missing", filepath.Join(dir, "missing.ttf")); err == nil {
		t.Error("expected error for missing font file")
	}
}

func TestRender_SharedFontCache(t *testing.T) {
	// Two themes rendering with one cache reuse the same faces.
	opts := testOptions()
	doc := `<theme><sections><body font="Sans 20"/></sections></theme>`
	a, err := Parse(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := Parse(strings.NewReader(doc), opts)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	slide := &StaticSlide{BodyContent: []Content{NewText("Cached font test")}}

	if _, err := RenderImage(a, slide, nil); err != nil {
		t.Fatalf("first render: %v", err)
	}
	n := len(opts.FontCache.faces)
	if _, err := RenderImage(b, slide, nil); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if got := len(opts.FontCache.faces); got != n {
		t.Errorf("expected %d cached faces after second render, got %d", n, got)
	}
}

func TestPointPixelConversions(t *testing.T) {
	if got := PointToPixel(72, 96); got != 96 {
		t.Errorf("PointToPixel(72, 96) = %v, want 96", got)
	}
	if got := PixelToPoint(96, 0); got != 72 {
		t.Errorf("PixelToPoint(96, default) = %v, want 72", got)
	}
	if got := PointToUnits(1.5); got != 1536 {
		t.Errorf("PointToUnits(1.5) = %d, want 1536", got)
	}
	if got := UnitsToPoint(24 * 1024); got != 24 {
		t.Errorf("UnitsToPoint = %v, want 24", got)
	}
}
