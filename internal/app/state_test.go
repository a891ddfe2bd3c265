package app

import (
	"bytes"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"gel-labeler/internal/image"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/samples"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gel.png")
	_, err := image.SavePNG(path, goimage.NewRGBA(goimage.Rect(0, 0, 340, 160)))
	require.NoError(t, err)
	return path
}

func TestState_GenerateRequiresImage(t *testing.T) {
	s := NewState(nil)
	var got []interface{}
	s.On(EventError, func(data interface{}) { got = append(got, data) })

	_, err := s.Generate("XM1", 1)
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Equal(t, []interface{}{ErrNoImage}, got)
}

func TestState_LoadGenerateSave(t *testing.T) {
	s := NewState(labeler.New(nil))

	var events []EventType
	for _, ev := range []EventType{EventImageLoaded, EventLabelsGenerated, EventResultSaved} {
		ev := ev
		s.On(ev, func(interface{}) { events = append(events, ev) })
	}

	require.NoError(t, s.LoadImage(writeGel(t)))
	require.NotNil(t, s.Gel)
	assert.Nil(t, s.Result())

	res, err := s.Generate("XM1", 2)
	require.NoError(t, err)
	assert.Same(t, res, s.Result())
	assert.Equal(t, "XM1", s.Seed)
	assert.Equal(t, 2, s.Rows)
	assert.Equal(t, samples.MarkerLabel, res.Grid[1][samples.MarkerColumn])

	out := &closeRecorder{}
	require.NoError(t, s.WriteResult(out, "labeled_gel.png"))
	assert.NotZero(t, out.Len())

	assert.Equal(t, []EventType{EventImageLoaded, EventLabelsGenerated, EventResultSaved}, events)
}

func TestState_FailedGenerateKeepsResult(t *testing.T) {
	s := NewState(nil)
	require.NoError(t, s.LoadImage(writeGel(t)))

	first, err := s.Generate("XM1", 1)
	require.NoError(t, err)

	_, err = s.Generate("ABC", 1)
	assert.ErrorIs(t, err, samples.ErrInvalidSeed)
	assert.Same(t, first, s.Result())
	assert.Equal(t, "XM1", s.Seed)
}

func TestState_NewImageClearsResult(t *testing.T) {
	s := NewState(nil)
	require.NoError(t, s.LoadImage(writeGel(t)))
	_, err := s.Generate("XM1", 1)
	require.NoError(t, err)

	require.NoError(t, s.LoadImage(writeGel(t)))
	assert.Nil(t, s.Result())

	assert.ErrorIs(t, s.WriteResult(&closeRecorder{}, "x.png"), ErrNoResult)
}

func TestState_LoadImageError(t *testing.T) {
	s := NewState(nil)
	fired := false
	s.On(EventError, func(interface{}) { fired = true })

	err := s.LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
	assert.True(t, fired)
	assert.Nil(t, s.Gel)
}

type closeRecorder struct {
	bytes.Buffer
	closed bool
}

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestState_WriteResult(t *testing.T) {
	s := NewState(nil)
	var saved []interface{}
	s.On(EventResultSaved, func(data interface{}) { saved = append(saved, data) })

	empty := &closeRecorder{}
	assert.ErrorIs(t, s.WriteResult(empty, "gel"), ErrNoResult)
	assert.True(t, empty.closed)

	require.NoError(t, s.LoadImage(writeGel(t)))
	res, err := s.Generate("XM1", 1)
	require.NoError(t, err)

	dir := t.TempDir()
	out := &closeRecorder{}
	require.NoError(t, s.WriteResult(out, filepath.Join(dir, "gel")))
	assert.True(t, out.closed)
	assert.Equal(t, []interface{}{filepath.Join(dir, "gel")}, saved)

	img, err := png.Decode(&out.Buffer)
	require.NoError(t, err)
	assert.Equal(t, res.Image.Bounds(), img.Bounds())

	// Nothing is written beside the destination the dialog created.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
