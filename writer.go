package theme

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Encode writes the theme as XML in the format read by Parse.
func (t *Theme) Encode(w io.Writer) error {
	root := xmlNode{XMLName: xml.Name{Local: "theme"}}

	bgs := xmlNode{XMLName: xml.Name{Local: "background"}}
	for _, bg := range t.Backgrounds {
		bgs.Children = append(bgs.Children, encodeBackground(bg))
	}
	root.Children = append(root.Children, bgs)

	secs := xmlNode{XMLName: xml.Name{Local: "sections"}}
	for _, s := range []*Section{t.Body, t.Footer} {
		if s != nil {
			secs.Children = append(secs.Children, encodeSection(s))
		}
	}
	root.Children = append(root.Children, secs)

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(root); err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Save writes the theme to path, or to its Filename when path is empty.
func (t *Theme) Save(path string) error {
	if path == "" {
		path = t.Filename
	}
	if path == "" {
		return fmt.Errorf("theme has no file name")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()
	if err := t.Encode(f); err != nil {
		return err
	}
	t.Filename = path
	return f.Close()
}

func encodeBackground(bg Background) xmlNode {
	el := xmlNode{XMLName: xml.Name{Local: bg.Tag()}}
	el.writePos(bg.Region())
	switch b := bg.(type) {
	case *SolidBackground:
		el.setAttr("color", b.Color)
		el.setFloat("alpha", b.Alpha)
	case *GradientBackground:
		el.setFloat("angle", b.Angle)
		for _, s := range b.Stops {
			pt := xmlNode{XMLName: xml.Name{Local: "point"}}
			pt.setFloat("stop", s.Location)
			pt.setAttr("color", s.Color)
			pt.setFloat("alpha", s.Alpha)
			el.Children = append(el.Children, pt)
		}
	case *ImageBackground:
		el.setAttr("src", b.Src)
		el.setAttr("aspect", b.Aspect.String())
	}
	return el
}

func encodeSection(s *Section) xmlNode {
	el := xmlNode{XMLName: xml.Name{Local: s.Kind}}
	el.writePos(s.Pos)
	el.setAttr("font", s.Font)

	txt := xmlNode{XMLName: xml.Name{Local: "text"}}
	txt.setAttr("color", s.Color)
	sh := xmlNode{XMLName: xml.Name{Local: "shadow"}}
	sh.setAttr("color", s.ShadowColor)
	sh.setFloat("opacity", s.ShadowOpacity)
	sh.setFloat("offsetx", s.ShadowOffset[0])
	sh.setFloat("offsety", s.ShadowOffset[1])

	el.Children = append(el.Children, txt, sh)
	return el
}
