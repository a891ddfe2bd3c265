package samples

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeed(t *testing.T) {
	tests := []struct {
		in     string
		prefix string
		start  int
	}{
		{"XM1", "XM", 1},
		{"M1", "M", 1},
		{"AB100", "AB", 100},
		{"42", "", 42},
		{"XM-07", "XM", 7},
		{"A1B2", "AB", 12},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			s, err := ParseSeed(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.prefix, s.Prefix)
			assert.Equal(t, tt.start, s.Start)
		})
	}
}

func TestParseSeed_NoDigits(t *testing.T) {
	for _, in := range []string{"ABC", "", "XM-"} {
		_, err := ParseSeed(in)
		require.Error(t, err, in)
		assert.True(t, errors.Is(err, ErrInvalidSeed), in)
	}
}

func TestParseSeed_Overflow(t *testing.T) {
	_, err := ParseSeed("X" + strings.Repeat("9", 40))
	assert.ErrorIs(t, err, ErrInvalidSeed)
}

func TestGenerate_SingleRow(t *testing.T) {
	grid, err := Generate("XM1", 1)
	require.NoError(t, err)
	require.Len(t, grid, 1)

	want := []string{
		"XM1", "XM2", "XM3", "XM4", "XM5", "XM6", "XM7", "XM8", "M",
		"XM9", "XM10", "XM11", "XM12", "XM13", "XM14", "XM15", "XM16",
	}
	assert.Equal(t, want, grid[0])
}

func TestGenerate_RowsContinueNumbering(t *testing.T) {
	grid, err := Generate("XM1", 2)
	require.NoError(t, err)
	require.Len(t, grid, 2)

	assert.Equal(t, "XM16", grid[0][LanesPerRow-1])
	assert.Equal(t, "XM17", grid[1][0])
	assert.Equal(t, "XM32", grid[1][LanesPerRow-1])
}

func TestGenerate_MarkerEveryRow(t *testing.T) {
	grid, err := Generate("AB100", 8)
	require.NoError(t, err)
	require.Equal(t, 8, grid.Rows())

	for r, row := range grid {
		require.Len(t, row, LanesPerRow, "row %d", r)
		assert.Equal(t, MarkerLabel, row[MarkerColumn], "row %d", r)
	}
	assert.Equal(t, "AB100", grid[0][0])
	assert.Equal(t, "AB227", grid[7][LanesPerRow-1])
}

func TestGenerate_LabelsAreContinuous(t *testing.T) {
	grid, err := Generate("S5", 3)
	require.NoError(t, err)

	labels := grid.Labels()
	require.Len(t, labels, 3*SamplesPerRow)
	seed := Seed{Prefix: "S", Start: 5}
	for i, got := range labels {
		assert.Equal(t, seed.Label(5+i), got)
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("XM1", 4)
	require.NoError(t, err)
	b, err := Generate("XM1", 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerate_InvalidSeedBuildsNothing(t *testing.T) {
	grid, err := Generate("ABC", 2)
	assert.ErrorIs(t, err, ErrInvalidSeed)
	assert.Nil(t, grid)
}

func TestGenerate_NonPositiveRows(t *testing.T) {
	grid, err := Generate("XM1", 0)
	require.NoError(t, err)
	assert.Empty(t, grid)

	grid, err = Generate("XM1", -3)
	require.NoError(t, err)
	assert.Empty(t, grid)
}

func TestGrid_Markdown(t *testing.T) {
	grid, err := Generate("XM1", 2)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(grid.Markdown(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "| Lane 1 | Lane 2 |"))
	assert.True(t, strings.HasSuffix(lines[0], "| Lane 17 |"))
	assert.Equal(t, "|"+strings.Repeat("---|", LanesPerRow), lines[1])
	assert.Equal(t, "| XM1 | XM2 | XM3 | XM4 | XM5 | XM6 | XM7 | XM8 | M | XM9 | XM10 | XM11 | XM12 | XM13 | XM14 | XM15 | XM16 |", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "| XM17 |"))
}

func TestGrid_WriteCSV(t *testing.T) {
	grid, err := Generate("XM1", 2)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, grid.WriteCSV(&buf))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, Header(), records[0])
	assert.Equal(t, []string(grid[0]), records[1])
	assert.Equal(t, []string(grid[1]), records[2])
}
