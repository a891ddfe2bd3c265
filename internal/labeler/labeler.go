// Package labeler composes sample name generation and label rendering into
// a single request/response call.
package labeler

import (
	"errors"
	"fmt"
	"image"
	"io"

	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/label"
	"gel-labeler/internal/samples"
)

// DefaultMaxRows is the number of rows on a standard gel comb layout.
const DefaultMaxRows = 8

// Filename is the download name of an annotated gel.
const Filename = "labeled_gel.png"

// ErrInvalidRowCount is returned when the row count is outside [1, MaxRows].
var ErrInvalidRowCount = errors.New("invalid row count")

// Result is the outcome of a labeling request.
type Result struct {
	Grid  samples.Grid
	Image *image.NRGBA
}

// PNG writes the annotated image as PNG.
func (r *Result) PNG(w io.Writer) error {
	return gelimage.EncodePNG(w, r.Image)
}

// Labeler generates sample names and draws them onto gel images.
type Labeler struct {
	renderer label.Renderer
	maxRows  int
}

// Option configures a Labeler.
type Option func(*Labeler)

// WithMaxRows sets the largest accepted row count.
func WithMaxRows(n int) Option {
	return func(l *Labeler) {
		if n > 0 {
			l.maxRows = n
		}
	}
}

// New returns a Labeler drawing with r. A nil renderer falls back to the
// pure-Go font renderer in the default style.
func New(r label.Renderer, opts ...Option) *Labeler {
	if r == nil {
		r = label.NewFaceRenderer(label.DefaultStyle())
	}
	l := &Labeler{renderer: r, maxRows: DefaultMaxRows}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// MaxRows returns the largest accepted row count.
func (l *Labeler) MaxRows() int {
	return l.maxRows
}

// Names validates the request and returns the label grid only.
func (l *Labeler) Names(seed string, rows int) (samples.Grid, error) {
	if rows < 1 || rows > l.maxRows {
		return nil, fmt.Errorf("%w: %d (want 1-%d)", ErrInvalidRowCount, rows, l.maxRows)
	}
	return samples.Generate(seed, rows)
}

// LabelImage generates rows rows of names starting at seed and draws them
// onto a copy of img. img is left untouched; nothing is returned on error.
func (l *Labeler) LabelImage(seed string, rows int, img image.Image) (*Result, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: no image", gelimage.ErrMalformedImage)
	}

	grid, err := l.Names(seed, rows)
	if err != nil {
		return nil, err
	}

	out, err := l.renderer.Render(img, grid)
	if err != nil {
		return nil, fmt.Errorf("failed to render labels: %w", err)
	}

	return &Result{Grid: grid, Image: out}, nil
}
