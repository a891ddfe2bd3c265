package label

import (
	"fmt"
	"image"
	"sync"

	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/samples"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Renderer draws a label grid onto a copy of an image. Implementations
// never modify img and return an image with the same dimensions.
type Renderer interface {
	Render(img image.Image, grid samples.Grid) (*image.NRGBA, error)
}

// hersheyEm is the Go Regular em size, in pixels, whose cap height matches
// OpenCV's Hershey simplex font at scale 1.
const hersheyEm = 32.0

var (
	goRegular     *opentype.Font
	goRegularErr  error
	goRegularOnce sync.Once
)

func parsedGoRegular() (*opentype.Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = opentype.Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// FaceRenderer draws labels with the embedded Go Regular font. It needs no
// native libraries.
type FaceRenderer struct {
	Style Style
}

// NewFaceRenderer returns a FaceRenderer using style.
func NewFaceRenderer(style Style) *FaceRenderer {
	return &FaceRenderer{Style: style}
}

// Render implements Renderer.
func (r *FaceRenderer) Render(img image.Image, grid samples.Grid) (*image.NRGBA, error) {
	out := gelimage.Clone(img)

	placements, err := Place(out.Bounds(), grid, r.Style)
	if err != nil {
		return nil, err
	}

	// A face caches glyph state, so each call gets its own.
	face, err := r.newFace()
	if err != nil {
		return nil, err
	}
	defer face.Close()

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(r.Style.Color),
		Face: face,
	}
	for _, p := range placements {
		drawThick(d, p, r.Style.Thickness)
	}
	return out, nil
}

func (r *FaceRenderer) newFace() (font.Face, error) {
	f, err := parsedGoRegular()
	if err != nil {
		return nil, fmt.Errorf("failed to parse label font: %w", err)
	}
	scale := r.Style.Scale
	if scale <= 0 {
		scale = DefaultStyle().Scale
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    hersheyEm * scale,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create label face: %w", err)
	}
	return face, nil
}

// drawThick stamps the text over a thickness x thickness block of origins,
// approximating a stroked outline.
func drawThick(d *font.Drawer, p Placement, thickness int) {
	if thickness < 1 {
		thickness = 1
	}
	lo := -(thickness - 1) / 2
	for dy := lo; dy < lo+thickness; dy++ {
		for dx := lo; dx < lo+thickness; dx++ {
			d.Dot = fixed.P(p.Point.X+dx, p.Point.Y+dy)
			d.DrawString(p.Label)
		}
	}
}

// Render draws grid onto a copy of img with the default style.
func Render(img image.Image, grid samples.Grid) (*image.NRGBA, error) {
	return NewFaceRenderer(DefaultStyle()).Render(img, grid)
}
