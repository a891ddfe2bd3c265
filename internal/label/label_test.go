package label

import (
	"image"
	"image/color"
	"testing"

	"gel-labeler/internal/samples"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGrid(t *testing.T, seed string, rows int) samples.Grid {
	t.Helper()
	grid, err := samples.Generate(seed, rows)
	require.NoError(t, err)
	return grid
}

func blackGel(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestPlace_SingleRow(t *testing.T) {
	grid := mustGrid(t, "XM1", 1)
	placements, err := Place(image.Rect(0, 0, 340, 200), grid, DefaultStyle())
	require.NoError(t, err)
	require.Len(t, placements, samples.LanesPerRow)

	first := placements[0]
	assert.Equal(t, "XM1", first.Label)
	assert.Equal(t, image.Pt(-10, 100), first.Point)

	marker := placements[samples.MarkerColumn]
	assert.Equal(t, samples.MarkerLabel, marker.Label)
	assert.Equal(t, image.Pt(150, 100), marker.Point)

	last := placements[samples.LanesPerRow-1]
	assert.Equal(t, "XM16", last.Label)
	assert.Equal(t, image.Pt(310, 100), last.Point)
}

func TestPlace_RowHeightTruncates(t *testing.T) {
	grid := mustGrid(t, "XM1", 3)
	placements, err := Place(image.Rect(0, 0, 170, 100), grid, DefaultStyle())
	require.NoError(t, err)
	require.Len(t, placements, 3*samples.LanesPerRow)

	// rowHeight = 100/3 = 33
	ys := []int{17, 50, 83}
	for _, p := range placements {
		assert.Equal(t, ys[p.Row], p.Point.Y, "row %d col %d", p.Row, p.Col)
		assert.Equal(t, p.Col*10+5-20, p.Point.X, "row %d col %d", p.Row, p.Col)
	}
}

func TestPlace_HonoursBoundsOrigin(t *testing.T) {
	grid := mustGrid(t, "XM1", 1)
	placements, err := Place(image.Rect(100, 50, 440, 250), grid, Style{OffsetX: 0})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(110, 150), placements[0].Point)
}

func TestPlace_EmptyGrid(t *testing.T) {
	_, err := Place(image.Rect(0, 0, 10, 10), nil, DefaultStyle())
	assert.ErrorIs(t, err, ErrEmptyGrid)
}

func TestFaceRenderer_PreservesDimensions(t *testing.T) {
	for _, size := range []image.Point{{680, 100}, {1024, 768}, {33, 17}} {
		src := blackGel(size.X, size.Y)
		out, err := Render(src, mustGrid(t, "XM1", 2))
		require.NoError(t, err)
		assert.Equal(t, src.Bounds(), out.Bounds())
	}
}

func TestFaceRenderer_DoesNotMutateInput(t *testing.T) {
	src := blackGel(680, 200)
	before := append([]uint8(nil), src.Pix...)

	out, err := Render(src, mustGrid(t, "XM1", 2))
	require.NoError(t, err)

	assert.Equal(t, before, src.Pix)
	assert.NotEqual(t, before, out.Pix)
}

func TestFaceRenderer_DrawsOnlyText(t *testing.T) {
	src := blackGel(680, 100)
	out, err := NewFaceRenderer(DefaultStyle()).Render(src, mustGrid(t, "XM1", 1))
	require.NoError(t, err)

	changed := 0
	for y := 0; y < 100; y++ {
		for x := 0; x < 680; x++ {
			c := out.NRGBAAt(x, y)
			if c.R == 0 {
				continue
			}
			changed++
			assert.Zero(t, c.G, "(%d,%d)", x, y)
			assert.Zero(t, c.B, "(%d,%d)", x, y)
		}
	}
	assert.Greater(t, changed, 0)

	// Labels sit on the band center (y=50); the bottom rows stay untouched.
	for x := 0; x < 680; x++ {
		assert.Equal(t, color.NRGBA{A: 255}, out.NRGBAAt(x, 95), "x=%d", x)
	}
}

func TestFaceRenderer_SubImage(t *testing.T) {
	sub := blackGel(800, 400).SubImage(image.Rect(60, 40, 740, 240))
	out, err := Render(sub, mustGrid(t, "AB100", 2))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 680, 200), out.Bounds())
}

func TestFaceRenderer_EmptyGrid(t *testing.T) {
	_, err := Render(blackGel(10, 10), samples.Grid{})
	assert.ErrorIs(t, err, ErrEmptyGrid)
}
