package theme

// Unit conversion helpers.
// Font sizes are kept in Pango units: 1 point = 1024 units. Pixels depend on
// the rendering DPI; 72 points make one inch.

const (
	unitsPerPoint = 1024
	pointsPerInch = 72
	defaultDPI    = 96
)

// PointToPixel converts a size in points to pixels at the given DPI.
func PointToPixel(pt, dpi float64) float64 {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return pt * dpi / pointsPerInch
}

// PixelToPoint converts a size in pixels to points at the given DPI.
func PixelToPoint(px, dpi float64) float64 {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	return px * pointsPerInch / dpi
}

// PointToUnits converts points to Pango units.
func PointToUnits(pt float64) int {
	return int(pt * unitsPerPoint)
}

// UnitsToPoint converts Pango units to points.
func UnitsToPoint(units int) float64 {
	return float64(units) / unitsPerPoint
}
