package samples

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Gel plate geometry. Every row has 17 wells; the ninth holds the size
// marker, which never consumes a sample number.
const (
	LanesPerRow   = 17
	SamplesPerRow = LanesPerRow - 1
	MarkerColumn  = 8
	MarkerLabel   = "M"
)

// Grid holds the lane labels of a plate, row-major. Each row has
// LanesPerRow entries with MarkerLabel at MarkerColumn.
type Grid [][]string

// Generate builds the label grid for rows rows of a plate whose first
// sample is named seed. Numbering runs continuously across the marker
// lane and across rows. No rows are built when seed is invalid.
func Generate(seed string, rows int) (Grid, error) {
	s, err := ParseSeed(seed)
	if err != nil {
		return nil, err
	}
	return s.Grid(rows), nil
}

// Grid lays out rows rows starting at s. A non-positive row count yields
// an empty grid.
func (s Seed) Grid(rows int) Grid {
	if rows < 0 {
		rows = 0
	}
	grid := make(Grid, rows)
	for r := range grid {
		row := make([]string, LanesPerRow)
		for c := range row {
			if c == MarkerColumn {
				row[c] = MarkerLabel
				continue
			}
			n := s.Start + c + r*SamplesPerRow
			if c > MarkerColumn {
				n--
			}
			row[c] = s.Label(n)
		}
		grid[r] = row
	}
	return grid
}

// Rows returns the number of plate rows.
func (g Grid) Rows() int {
	return len(g)
}

// Labels returns the sample names in plate order, marker lanes excluded.
func (g Grid) Labels() []string {
	out := make([]string, 0, len(g)*SamplesPerRow)
	for _, row := range g {
		for c, name := range row {
			if c == MarkerColumn {
				continue
			}
			out = append(out, name)
		}
	}
	return out
}

// Header returns the column titles used by the table renderings.
func Header() []string {
	h := make([]string, LanesPerRow)
	for i := range h {
		h[i] = fmt.Sprintf("Lane %d", i+1)
	}
	return h
}

// Markdown renders the grid as a Markdown lookup table.
func (g Grid) Markdown() string {
	var b strings.Builder
	b.WriteString("| " + strings.Join(Header(), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", LanesPerRow) + "\n")
	for _, row := range g {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}
	return b.String()
}

// WriteCSV writes the grid, with a header row, as CSV.
func (g Grid) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return err
	}
	for _, row := range g {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
