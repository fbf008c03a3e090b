// Package placeholder renders the stand-in image shown when no product photo
// could be resolved.
package placeholder

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gofiber/template/html/v3"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"kfit/internal/validation"
)

//go:embed templates/*.svg
var templateFS embed.FS

// Palette
const (
	Background = "#f3f4f6"
	TextColor  = "#9ca3af"
	BrandColor = "#d1d5db"
)

var (
	backgroundRGBA = color.NRGBA{R: 0xf3, G: 0xf4, B: 0xf6, A: 0xff}
	textRGBA       = color.NRGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xff}
	brandRGBA      = color.NRGBA{R: 0xd1, G: 0xd5, B: 0xdb, A: 0xff}
)

// Spec describes one placeholder. Rendering is a pure function of it.
type Spec struct {
	Text   string
	Brand  string
	Width  int
	Height int
}

func (s Spec) clamped() Spec {
	s.Width = validation.ClampDimension(s.Width)
	s.Height = validation.ClampDimension(s.Height)
	return s
}

// Renderer renders placeholders as SVG or PNG. It is safe for concurrent use.
type Renderer struct {
	engine *html.Engine
}

// NewRenderer loads the embedded SVG template.
func NewRenderer() (*Renderer, error) {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("open placeholder templates: %w", err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".svg")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load placeholder templates: %w", err)
	}
	return &Renderer{engine: engine}, nil
}

// RenderSVG renders the placeholder as an SVG document. Text and brand are
// escaped by the template engine.
func (r *Renderer) RenderSVG(spec Spec) ([]byte, error) {
	spec = spec.clamped()

	var buf bytes.Buffer
	err := r.engine.Render(&buf, "placeholder", map[string]any{
		"Width":      spec.Width,
		"Height":     spec.Height,
		"Text":       spec.Text,
		"Brand":      spec.Brand,
		"Background": Background,
		"TextColor":  TextColor,
		"BrandColor": BrandColor,
	})
	if err != nil {
		return nil, fmt.Errorf("render placeholder svg: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG renders the placeholder as a PNG with the same layout as the SVG.
// The bitmap font only covers Latin text; other scripts leave the canvas blank.
func (r *Renderer) RenderPNG(spec Spec) ([]byte, error) {
	spec = spec.clamped()

	img := imaging.New(spec.Width, spec.Height, backgroundRGBA)
	drawCentered(img, spec.Text, spec.Height*45/100, textRGBA)
	drawCentered(img, spec.Brand, spec.Height*60/100, brandRGBA)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode placeholder png: %w", err)
	}
	return buf.Bytes(), nil
}

// drawCentered draws s horizontally centered with its baseline at y.
func drawCentered(img *image.NRGBA, s string, y int, c color.Color) {
	if s == "" {
		return
	}
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	x := (img.Bounds().Dx() - width) / 2
	if x < 0 {
		x = 0
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}
