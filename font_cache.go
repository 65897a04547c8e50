package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// fontKey uniquely identifies a font face by name, size, bold, and italic.
type fontKey struct {
	name   string
	size   float64
	bold   bool
	italic bool
}

// FontCache manages TrueType font loading and face caching.
// It searches system font directories and user-specified directories
// for .ttf and .otf files, then caches parsed fonts and sized faces.
// The Go fonts are always available as a last resort, so GetFace never
// returns nil.
type FontCache struct {
	mu      sync.RWMutex
	dirs    []string                  // directories to search for fonts
	fonts   map[string]*opentype.Font // lowercase font name -> parsed font
	faces   map[fontKey]font.Face
	builtin map[string]*opentype.Font
	scanned bool
}

// NewFontCache creates a FontCache that searches the given directories
// plus the OS default font directories.
func NewFontCache(extraDirs ...string) *FontCache {
	return newFontCache(append(systemFontDirs(), extraDirs...))
}

// NewBuiltinFontCache creates a FontCache that only knows the embedded Go
// fonts and fonts registered with LoadFont. Output does not depend on the
// fonts installed on the host.
func NewBuiltinFontCache() *FontCache {
	return newFontCache(nil)
}

func newFontCache(dirs []string) *FontCache {
	return &FontCache{
		dirs:    dirs,
		fonts:   make(map[string]*opentype.Font),
		faces:   make(map[fontKey]font.Face),
		builtin: make(map[string]*opentype.Font),
	}
}

// familyAliases maps generic Pango family names to concrete families that
// are commonly installed.
var familyAliases = map[string][]string{
	"sans":       {"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica"},
	"sans-serif": {"dejavu sans", "liberation sans", "noto sans", "arial", "helvetica"},
	"serif":      {"dejavu serif", "liberation serif", "noto serif", "times new roman", "times"},
	"monospace":  {"dejavu sans mono", "liberation mono", "noto sans mono", "courier new", "courier"},
	"mono":       {"dejavu sans mono", "liberation mono", "noto sans mono", "courier new", "courier"},
}

// GetFace returns a font.Face for the first family in families that can be
// found, at sizePx pixels. Generic family names are expanded through
// familyAliases, and the Go fonts are used when nothing matches.
func (fc *FontCache) GetFace(families []string, sizePx float64, bold, italic bool) font.Face {
	fc.ensureScanned()

	name := strings.ToLower(strings.Join(families, ","))
	key := fontKey{name: name, size: sizePx, bold: bold, italic: italic}

	fc.mu.RLock()
	if face, ok := fc.faces[key]; ok {
		fc.mu.RUnlock()
		return face
	}
	fc.mu.RUnlock()

	f := fc.resolve(families, bold, italic)
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// opentype only fails on a bad size; fall back to the smallest usable face.
		face, _ = opentype.NewFace(f, &opentype.FaceOptions{Size: 1, DPI: 72})
	}

	fc.mu.Lock()
	fc.faces[key] = face
	fc.mu.Unlock()
	return face
}

func (fc *FontCache) resolve(families []string, bold, italic bool) *opentype.Font {
	mono := false
	for _, fam := range families {
		lower := strings.ToLower(strings.TrimSpace(fam))
		if f := fc.findFont(lower, bold, italic); f != nil {
			return f
		}
		for _, alias := range familyAliases[lower] {
			if f := fc.findFont(alias, bold, italic); f != nil {
				return f
			}
		}
		if lower == "monospace" || lower == "mono" {
			mono = true
		}
	}
	return fc.goFont(mono, bold, italic)
}

// findFont looks up a parsed font by name, trying style-specific variants first.
func (fc *FontCache) findFont(lower string, bold, italic bool) *opentype.Font {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	// Windows file names use "arialbd", "arialbi", "ariali" and so on.
	if bold && italic {
		for _, suffix := range []string{" bold italic", " bold oblique", "bi", " bolditalic", "z"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if bold {
		for _, suffix := range []string{" bold", "bd", "b", "-bold"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if italic {
		for _, suffix := range []string{" italic", " oblique", "i", " it", "-oblique", "-italic"} {
			if f, ok := fc.fonts[lower+suffix]; ok {
				return f
			}
		}
	}
	if f, ok := fc.fonts[lower]; ok {
		return f
	}
	return nil
}

// goFont returns the embedded Go font matching the requested style.
func (fc *FontCache) goFont(mono, bold, italic bool) *opentype.Font {
	var (
		name string
		data []byte
	)
	switch {
	case mono && bold:
		name, data = "go mono bold", gomonobold.TTF
	case mono:
		name, data = "go mono", gomono.TTF
	case bold && italic:
		name, data = "go bold italic", gobolditalic.TTF
	case bold:
		name, data = "go bold", gobold.TTF
	case italic:
		name, data = "go italic", goitalic.TTF
	default:
		name, data = "go regular", goregular.TTF
	}

	fc.mu.RLock()
	f, ok := fc.builtin[name]
	fc.mu.RUnlock()
	if ok {
		return f
	}

	f, err := opentype.Parse(data)
	if err != nil {
		// The embedded fonts are known-good.
		panic(fmt.Sprintf("parse embedded font %s: %v", name, err))
	}
	fc.mu.Lock()
	fc.builtin[name] = f
	fc.mu.Unlock()
	return f
}

// LoadFont manually loads a TrueType/OpenType font file and registers it under the given name.
// Returns an error if the file exceeds maxFontFileSize.
func (fc *FontCache) LoadFont(name string, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.Size() > maxFontFileSize {
		return fmt.Errorf("font file too large: %d bytes (max %d)", info.Size(), maxFontFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return fc.LoadFontData(name, data)
}

// LoadFontData registers a TrueType/OpenType font from raw bytes.
func (fc *FontCache) LoadFontData(name string, data []byte) error {
	f, err := opentype.Parse(data)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	fc.mu.Lock()
	fc.fonts[strings.ToLower(name)] = f
	fc.registerByFamilyName(f)
	fc.mu.Unlock()
	return nil
}

func (fc *FontCache) ensureScanned() {
	fc.mu.RLock()
	scanned := fc.scanned
	fc.mu.RUnlock()
	if scanned {
		return
	}

	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.scanned {
		return
	}
	fc.scanned = true

	for _, dir := range fc.dirs {
		fc.scanDirDepth(dir, 0)
	}
}

// maxFontScanDepth limits recursive directory traversal when scanning for fonts.
const maxFontScanDepth = 3

// maxFontFileSize limits the size of individual font files loaded into memory.
const maxFontFileSize = 20 << 20 // 20 MB

func (fc *FontCache) scanDirDepth(dir string, depth int) {
	if depth > maxFontScanDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			fc.scanDirDepth(filepath.Join(dir, entry.Name()), depth+1)
			continue
		}
		lower := strings.ToLower(entry.Name())
		isTTC := strings.HasSuffix(lower, ".ttc") || strings.HasSuffix(lower, ".otc")
		isSingle := strings.HasSuffix(lower, ".ttf") || strings.HasSuffix(lower, ".otf")
		if !isTTC && !isSingle {
			continue
		}

		info, err := entry.Info()
		if err != nil || info.Size() > maxFontFileSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}

		if isTTC {
			fc.loadCollection(data, lower)
		} else {
			fc.loadSingleFont(data, lower)
		}
	}
}

// loadSingleFont parses a single TTF/OTF font and registers it by both
// filename and internal family name.
func (fc *FontCache) loadSingleFont(data []byte, lowerFilename string) {
	f, err := opentype.Parse(data)
	if err != nil {
		return
	}
	fc.fonts[strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))] = f
	fc.registerByFamilyName(f)
}

// loadCollection parses a TTC/OTC font collection and registers each font
// by its internal family name.
func (fc *FontCache) loadCollection(data []byte, lowerFilename string) {
	coll, err := opentype.ParseCollection(data)
	if err != nil {
		return
	}
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			continue
		}
		if i == 0 {
			fc.fonts[strings.TrimSuffix(lowerFilename, filepath.Ext(lowerFilename))] = f
		}
		fc.registerByFamilyName(f)
	}
}

// registerByFamilyName registers f under its family name and, so that
// style variants can be told apart, under its full name ("DejaVu Sans Bold").
// A family name never overwrites an earlier regular face.
func (fc *FontCache) registerByFamilyName(f *opentype.Font) {
	fullName, err := f.Name(nil, sfnt.NameIDFull)
	if err == nil && fullName != "" {
		fc.fonts[strings.ToLower(fullName)] = f
	}
	familyName, err := f.Name(nil, sfnt.NameIDFamily)
	if err != nil || familyName == "" {
		return
	}
	lower := strings.ToLower(familyName)
	if _, ok := fc.fonts[lower]; !ok || strings.EqualFold(fullName, familyName) {
		fc.fonts[lower] = f
	}
}

// systemFontDirs returns OS-specific font directories.
func systemFontDirs() []string {
	switch runtime.GOOS {
	case "windows":
		windir := os.Getenv("WINDIR")
		if windir == "" {
			windir = `C:\Windows`
		}
		dirs := []string{filepath.Join(windir, "Fonts")}
		if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
			dirs = append(dirs, filepath.Join(localAppData, "Microsoft", "Windows", "Fonts"))
		}
		return dirs
	case "darwin":
		dirs := []string{"/System/Library/Fonts", "/Library/Fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, "Library", "Fonts"))
		}
		return dirs
	default: // linux, freebsd, etc.
		dirs := []string{"/usr/share/fonts", "/usr/local/share/fonts"}
		if home, _ := os.UserHomeDir(); home != "" {
			dirs = append(dirs, filepath.Join(home, ".local", "share", "fonts"), filepath.Join(home, ".fonts"))
		}
		return dirs
	}
}
