package labeler

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"testing"

	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/samples"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct {
	calls int
	err   error
}

func (s *stubRenderer) Render(img image.Image, grid samples.Grid) (*image.NRGBA, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return gelimage.Clone(img), nil
}

func TestLabelImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 680, 300))
	l := New(nil)

	res, err := l.LabelImage("XM1", 2, src)
	require.NoError(t, err)
	require.Len(t, res.Grid, 2)
	assert.Equal(t, "XM17", res.Grid[1][0])
	assert.Equal(t, src.Bounds(), res.Image.Bounds())

	var buf bytes.Buffer
	require.NoError(t, res.PNG(&buf))
	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), decoded.Bounds())
}

func TestLabelImage_RowBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 100, 100))
	stub := &stubRenderer{}
	l := New(stub)

	for _, rows := range []int{0, -1, 9} {
		_, err := l.LabelImage("XM1", rows, src)
		assert.ErrorIs(t, err, ErrInvalidRowCount, "rows=%d", rows)
	}
	assert.Zero(t, stub.calls)

	for rows := 1; rows <= DefaultMaxRows; rows++ {
		_, err := l.LabelImage("XM1", rows, src)
		assert.NoError(t, err, "rows=%d", rows)
	}
	assert.Equal(t, DefaultMaxRows, stub.calls)
}

func TestLabelImage_MaxRowsOption(t *testing.T) {
	l := New(&stubRenderer{}, WithMaxRows(12))
	assert.Equal(t, 12, l.MaxRows())

	grid, err := l.Names("XM1", 12)
	require.NoError(t, err)
	assert.Len(t, grid, 12)

	assert.Equal(t, DefaultMaxRows, New(nil, WithMaxRows(0)).MaxRows())
}

func TestLabelImage_InvalidSeed(t *testing.T) {
	stub := &stubRenderer{}
	_, err := New(stub).LabelImage("ABC", 1, image.NewRGBA(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, err, samples.ErrInvalidSeed)
	assert.Zero(t, stub.calls)
}

func TestLabelImage_NilImage(t *testing.T) {
	_, err := New(nil).LabelImage("XM1", 1, nil)
	assert.ErrorIs(t, err, gelimage.ErrMalformedImage)
}

func TestLabelImage_RendererError(t *testing.T) {
	boom := errors.New("boom")
	res, err := New(&stubRenderer{err: boom}).LabelImage("XM1", 1, image.NewRGBA(image.Rect(0, 0, 10, 10)))
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, res)
}
