package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFontDescription(t *testing.T) {
	tests := []struct {
		in       string
		families []string
		bold     bool
		italic   bool
		pt       float64
		absolute bool
	}{
		{"Sans 24", []string{"Sans"}, false, false, 24, false},
		{"Sans Bold Italic 18", []string{"Sans"}, true, true, 18, false},
		{"DejaVu Serif, Serif Oblique 12.5", []string{"DejaVu Serif", "Serif"}, false, true, 12.5, false},
		{"Liberation Sans Bold", []string{"Liberation Sans"}, true, false, 0, false},
		{"Mono 20px", []string{"Mono"}, false, false, 20, true},
		{"Bold 30", []string{"Sans"}, true, false, 30, false},
		{"", []string{"Sans"}, false, false, 0, false},
	}
	for _, tt := range tests {
		fd, err := ParseFontDescription(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.families, fd.Families, tt.in)
		assert.Equal(t, tt.bold, fd.Bold, tt.in)
		assert.Equal(t, tt.italic, fd.Italic, tt.in)
		assert.InDelta(t, tt.pt, UnitsToPoint(fd.Size), 0.001, tt.in)
		assert.Equal(t, tt.absolute, fd.Absolute, tt.in)
	}
}

func TestParseFontDescription_BadSize(t *testing.T) {
	_, err := ParseFontDescription("Sans -3")
	assert.Error(t, err)
	_, err = ParseFontDescription("Sans 0")
	assert.Error(t, err)
}

func TestFontDescription_SizePoints(t *testing.T) {
	fd, err := ParseFontDescription("Sans 32px")
	require.NoError(t, err)
	assert.InDelta(t, 24, fd.SizePoints(96), 1e-9)
	assert.Equal(t, "Sans 32px", fd.String())
}

func TestSection_FontDescriptionDefaults(t *testing.T) {
	s := NewSection(SectionBody)
	s.Font = "Serif"
	fd := s.fontDescription()
	assert.Equal(t, []string{"Serif"}, fd.Families)
	assert.Equal(t, PointToUnits(24), fd.Size)

	s.Font = "Sans 0"
	fd = s.fontDescription()
	assert.Equal(t, []string{"Sans"}, fd.Families)
}

func TestFontCache_BuiltinFallback(t *testing.T) {
	fc := NewBuiltinFontCache()
	face := fc.GetFace([]string{"No Such Font", "Sans"}, 20, false, false)
	require.NotNil(t, face)
	assert.Same(t, face, fc.GetFace([]string{"No Such Font", "Sans"}, 20, false, false))

	bold := fc.GetFace([]string{"Sans"}, 20, true, false)
	assert.NotSame(t, face, bold)
	assert.Greater(t, measure(bold, "Hello"), 0.0)
}
