// Package label overlays sample names on gel photographs.
package label

import (
	"errors"
	"image"
	"image/color"
	"math"

	"gel-labeler/internal/samples"
	"gel-labeler/pkg/colorutil"
)

// ErrEmptyGrid is returned when there are no rows to place.
var ErrEmptyGrid = errors.New("label grid has no rows")

// Style configures how labels are drawn.
type Style struct {
	Scale     float64    // Text scale relative to the Hershey simplex base size
	Color     color.RGBA // Text color
	Thickness int        // Stroke thickness in pixels
	OffsetX   int        // Leftward shift applied to every lane center
}

// DefaultStyle returns small red text shifted 20px left of the lane center.
func DefaultStyle() Style {
	return Style{
		Scale:     0.5,
		Color:     colorutil.Red,
		Thickness: 2,
		OffsetX:   20,
	}
}

// Placement is where a single label is drawn. Point is the left end of
// the text baseline.
type Placement struct {
	Row   int
	Col   int
	Label string
	Point image.Point
}

// Place computes the text origin of every grid cell. The image is split
// into 17 equal lanes and len(grid) equal row bands; the row height is
// truncated, so the last band absorbs the remainder.
func Place(bounds image.Rectangle, grid samples.Grid, style Style) ([]Placement, error) {
	if len(grid) == 0 {
		return nil, ErrEmptyGrid
	}

	width := float64(bounds.Dx())
	rowHeight := bounds.Dy() / len(grid)

	placements := make([]Placement, 0, len(grid)*samples.LanesPerRow)
	for r, row := range grid {
		y := int(math.Round(float64(rowHeight) * (float64(r) + 0.5)))
		for c, name := range row {
			x := int(math.Round(width*(float64(c)+0.5)/samples.LanesPerRow)) - style.OffsetX
			placements = append(placements, Placement{
				Row:   r,
				Col:   c,
				Label: name,
				Point: image.Pt(bounds.Min.X+x, bounds.Min.Y+y),
			})
		}
	}
	return placements, nil
}
