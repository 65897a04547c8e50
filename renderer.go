package theme

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
)

// Options configures how a theme finds its assets and sizes its text.
type Options struct {
	// DPI converts font points to pixels. Default: 96.
	DPI float64
	// FontDirs specifies additional directories to search for TrueType/OpenType fonts.
	// System font directories are always searched automatically.
	FontDirs []string
	// FontCache allows sharing a pre-configured FontCache across themes.
	// If nil, a new FontCache is created using FontDirs.
	FontCache *FontCache
	// ResourceDir is where relative background image sources are looked up.
	// Default: the "res" directory next to the theme file.
	ResourceDir string
	// ImageDir is where relative slide image sources are looked up.
	ImageDir string
}

// DefaultOptions returns default theme options.
func DefaultOptions() *Options {
	return &Options{DPI: defaultDPI}
}

// ImageFormat represents the output image format.
type ImageFormat int

const (
	ImageFormatPNG ImageFormat = iota
	ImageFormatJPEG
)

// RenderOptions configures slide-to-image rendering.
type RenderOptions struct {
	// Width and Height are the output size in pixels. Default: 800×600.
	Width  int
	Height int
	// Format is the output image format (PNG or JPEG).
	Format ImageFormat
	// JPEGQuality is the JPEG quality (1-100). Default: 90.
	JPEGQuality int
}

// DefaultRenderOptions returns default rendering options.
func DefaultRenderOptions() *RenderOptions {
	return &RenderOptions{
		Width:       800,
		Height:      600,
		Format:      ImageFormatPNG,
		JPEGQuality: 90,
	}
}

// renderer carries the state of one Render call.
type renderer struct {
	dc    *gg.Context
	opts  *Options
	fonts *FontCache
	dpi   float64
}

// resolve joins a relative src onto dir.
func (r *renderer) resolve(dir, src string) string {
	if src == "" || dir == "" || filepath.IsAbs(src) {
		return src
	}
	return filepath.Join(dir, src)
}

// RenderImage renders slide through t onto a new canvas. slide may be nil
// to preview the theme alone.
func RenderImage(t *Theme, slide Slide, opts *RenderOptions) (image.Image, error) {
	if opts == nil {
		opts = DefaultRenderOptions()
	}
	w, h := opts.Width, opts.Height
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", w, h)
	}
	dc := gg.NewContext(w, h)
	if err := t.Render(dc, []float64{float64(w), float64(h)}, slide); err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// SaveImage writes img to path, creating parent directories as needed.
func SaveImage(img image.Image, path string, opts *RenderOptions) error {
	if opts == nil {
		opts = DefaultRenderOptions()
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	switch opts.Format {
	case ImageFormatJPEG:
		quality := opts.JPEGQuality
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: quality})
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
