//go:build opencv

// Package cvtext renders gel labels with OpenCV's Hershey fonts, producing
// the same strokes as cv2.putText.
package cvtext

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/label"
	"gel-labeler/internal/samples"

	"gocv.io/x/gocv"
)

// Renderer draws labels with gocv.PutText in FontHersheySimplex.
type Renderer struct {
	Style label.Style
	Font  gocv.HersheyFont
}

// New returns a Renderer using style and the simplex Hershey font.
func New(style label.Style) *Renderer {
	return &Renderer{Style: style, Font: gocv.FontHersheySimplex}
}

// Render implements label.Renderer.
func (r *Renderer) Render(img image.Image, grid samples.Grid) (*image.NRGBA, error) {
	src := gelimage.Clone(img)

	placements, err := label.Place(src.Bounds(), grid, r.Style)
	if err != nil {
		return nil, err
	}

	mat, err := toMat(src)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	thickness := r.Style.Thickness
	if thickness < 1 {
		thickness = 1
	}
	// gocv maps color.RGBA onto BGR channel order itself.
	for _, p := range placements {
		gocv.PutText(&mat, p.Label, p.Point, r.Font, r.Style.Scale, r.Style.Color, thickness)
	}

	return fromMat(mat, src)
}

// toMat converts an NRGBA image to a 3-channel BGR Mat.
func toMat(img *image.NRGBA) (gocv.Mat, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	bgr := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			bgr[(y*w+x)*3+0] = row[x*4+2]
			bgr[(y*w+x)*3+1] = row[x*4+1]
			bgr[(y*w+x)*3+2] = row[x*4+0]
		}
	}

	view, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC3, bgr)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to create mat: %w", err)
	}
	defer view.Close()

	// The view borrows bgr; PutText needs memory OpenCV owns.
	mat := view.Clone()
	runtime.KeepAlive(bgr)
	return mat, nil
}

// fromMat copies the BGR pixels of mat back into a new NRGBA image, keeping
// the alpha channel of orig.
func fromMat(mat gocv.Mat, orig *image.NRGBA) (*image.NRGBA, error) {
	h, w := mat.Rows(), mat.Cols()
	if b := orig.Bounds(); b.Dx() != w || b.Dy() != h {
		return nil, fmt.Errorf("mat size %dx%d does not match image %dx%d", w, h, b.Dx(), b.Dy())
	}

	data, err := mat.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("failed to read mat: %w", err)
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	// Parallelize by horizontal stripes
	numWorkers := runtime.NumCPU()
	rowsPerWorker := (h + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for worker := 0; worker < numWorkers; worker++ {
		startY := worker * rowsPerWorker
		endY := min(startY+rowsPerWorker, h)
		if startY >= h {
			break
		}

		wg.Add(1)
		go func(yStart, yEnd int) {
			defer wg.Done()
			for y := yStart; y < yEnd; y++ {
				for x := 0; x < w; x++ {
					src := (y*w + x) * 3
					dst := y*out.Stride + x*4
					out.Pix[dst+0] = data[src+2]
					out.Pix[dst+1] = data[src+1]
					out.Pix[dst+2] = data[src+0]
					out.Pix[dst+3] = orig.Pix[y*orig.Stride+x*4+3]
				}
			}
		}(startY, endY)
	}
	wg.Wait()

	return out, nil
}
