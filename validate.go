package theme

import (
	"fmt"
	"strings"
)

// Validate checks the theme for problems that would make it render badly
// and returns an error describing all of them, or nil if the theme is valid.
func (t *Theme) Validate() error {
	var errs []string

	for i, bg := range t.Backgrounds {
		prefix := fmt.Sprintf("background %d (%s)", i+1, bg.Tag())
		for _, e := range validateBackground(bg) {
			errs = append(errs, prefix+": "+e)
		}
	}
	for _, s := range []*Section{t.Body, t.Footer} {
		if s == nil {
			continue
		}
		for _, e := range validateSection(s) {
			errs = append(errs, s.Kind+": "+e)
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(errs, "\n  "))
}

func validateRect(r Rect) []string {
	r = r.orFull()
	var errs []string
	if !r.InUnit() {
		errs = append(errs, fmt.Sprintf("position %s outside 0..1", r))
	}
	if r.Empty() {
		errs = append(errs, fmt.Sprintf("position %s is empty", r))
	}
	return errs
}

func validateColor(what, c string) []string {
	if _, err := ParseColor(c); err != nil {
		return []string{what + ": " + err.Error()}
	}
	return nil
}

func validateAlpha(what string, a float64) []string {
	if a < 0 || a > 1 {
		return []string{fmt.Sprintf("%s %g outside 0..1", what, a)}
	}
	return nil
}

func validateBackground(bg Background) []string {
	errs := validateRect(bg.Region())
	switch b := bg.(type) {
	case *SolidBackground:
		errs = append(errs, validateColor("color", b.Color)...)
		errs = append(errs, validateAlpha("alpha", b.Alpha)...)
	case *GradientBackground:
		if len(b.Stops) == 0 {
			errs = append(errs, "gradient has no points")
		}
		for j, s := range b.Stops {
			what := fmt.Sprintf("point %d", j+1)
			errs = append(errs, validateColor(what+" color", s.Color)...)
			errs = append(errs, validateAlpha(what+" alpha", s.Alpha)...)
			errs = append(errs, validateAlpha(what+" stop", s.Location)...)
			if j > 0 && s.Location < b.Stops[j-1].Location {
				errs = append(errs, what+": stops are not in ascending order")
			}
		}
	case *ImageBackground:
		if b.Src == "" {
			errs = append(errs, "image has no src")
		}
	}
	return errs
}

func validateSection(s *Section) []string {
	errs := validateRect(s.Pos)
	if s.Font != "" {
		if _, err := ParseFontDescription(s.Font); err != nil {
			errs = append(errs, err.Error())
		}
	}
	errs = append(errs, validateColor("text color", s.Color)...)
	if s.ShadowColor != "" {
		errs = append(errs, validateColor("shadow color", s.ShadowColor)...)
	}
	errs = append(errs, validateAlpha("shadow opacity", s.ShadowOpacity)...)
	return errs
}
