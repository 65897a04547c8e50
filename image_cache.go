package theme

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// imageCache holds the decoded original of one image source and its scaled
// copies, keyed by target size. Entries live as long as the owning object;
// the number of distinct sizes is bounded by the window sizes in use.
// Not safe for concurrent use.
type imageCache struct {
	path     string
	original image.Image
	failed   bool
	scaled   map[string]image.Image
}

// load decodes the original on first use. A failed decode is retried on the
// next call but only logged once.
func (c *imageCache) load(path string) image.Image {
	if path != c.path {
		*c = imageCache{path: path}
	}
	if c.original != nil {
		return c.original
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		if !c.failed {
			logger.Error().Err(err).Str("src", path).Msg("could not load image")
		}
		c.failed = true
		return nil
	}
	c.original, c.failed = img, false
	return img
}

// get returns the image at path scaled into a w×h box according to aspect,
// or nil if it cannot be loaded.
func (c *imageCache) get(path string, w, h int, aspect Aspect) image.Image {
	orig := c.load(path)
	if orig == nil {
		return nil
	}
	w, h = max(w, 1), max(h, 1)
	b := orig.Bounds()
	w, h = fitSize(b.Dx(), b.Dy(), w, h, aspect)

	key := sizeKey(w, h)
	if img, ok := c.scaled[key]; ok {
		return img
	}
	img := scaleImage(orig, w, h, aspect)
	if c.scaled == nil {
		c.scaled = make(map[string]image.Image)
	}
	c.scaled[key] = img
	return img
}

func sizeKey(w, h int) string {
	return fmt.Sprintf("%dx%d", w, h)
}

// fitSize returns the size of an srcW×srcH image scaled into a w×h box.
// Only AspectFit changes the box: the result keeps the source aspect ratio
// and never exceeds the box.
func fitSize(srcW, srcH, w, h int, aspect Aspect) (int, int) {
	if aspect != AspectFit || srcW <= 0 || srcH <= 0 {
		return w, h
	}
	scale := min(float64(w)/float64(srcW), float64(h)/float64(srcH))
	return max(1, int(float64(srcW)*scale)), max(1, int(float64(srcH)*scale))
}

// scaleImage scales src to exactly w×h. AspectFill scales to cover the box
// and crops the overflow around the center; the other modes resize to the
// given size, which fitSize has already made aspect-correct for AspectFit.
func scaleImage(src image.Image, w, h int, aspect Aspect) image.Image {
	if aspect == AspectFill {
		return imaging.Fill(src, w, h, imaging.Center, imaging.Linear)
	}
	return imaging.Resize(src, w, h, imaging.Linear)
}
