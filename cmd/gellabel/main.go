// Command gellabel prints sample names over the lanes of a gel photograph.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"gel-labeler/internal/cmdutil"
	"gel-labeler/internal/config"
	gelimage "gel-labeler/internal/image"
	"gel-labeler/internal/label"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/version"
	"gel-labeler/pkg/colorutil"
)

func main() {
	imagePath := flag.String("image", "", "Path to gel image (PNG, JPEG, or TIFF)")
	first := flag.String("first", "", "Name of the first sample, e.g. XM1")
	rows := flag.Int("rows", 1, "Number of plate rows")
	maxRows := flag.Int("max-rows", labeler.DefaultMaxRows, "Largest accepted row count")
	out := flag.String("out", labeler.Filename, "Output PNG path")
	table := flag.Bool("table", false, "Print the sample table as Markdown")
	csvPath := flag.String("csv", "", "Also write the sample table to this CSV file")
	namesOnly := flag.Bool("names-only", false, "Print the sample table without labeling an image")
	renderer := flag.String("renderer", config.RendererFont, "Label renderer: font or opencv")

	defaults := label.DefaultStyle()
	colorName := flag.String("color", colorutil.Hex(defaults.Color), "Label color name or hex")
	scale := flag.Float64("scale", defaults.Scale, "Label text scale")
	thickness := flag.Int("thickness", defaults.Thickness, "Label stroke thickness in pixels")
	offset := flag.Int("offset", defaults.OffsetX, "Leftward label shift from the lane center in pixels")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("gellabel", version.String())
		return
	}

	if *first == "" || (*imagePath == "" && !*namesOnly) {
		fmt.Println("Usage: gellabel -image <path> -first XM1 [-rows 1] [-out labeled_gel.png] [-table] [-csv names.csv]")
		fmt.Println("       gellabel -names-only -first XM1 [-rows 1]")
		os.Exit(1)
	}

	col, err := colorutil.Parse(*colorName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid color: %v\n", err)
		os.Exit(1)
	}
	style := label.Style{Scale: *scale, Color: col, Thickness: *thickness, OffsetX: *offset}

	r, err := cmdutil.NewRenderer(*renderer, style)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	l := labeler.New(r, labeler.WithMaxRows(*maxRows))

	if *namesOnly {
		grid, err := l.Names(*first, *rows)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to generate names: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(grid.Markdown())
		writeCSV(*csvPath, grid.WriteCSV)
		return
	}

	if !gelimage.IsSupportedFormat(*imagePath) {
		fmt.Fprintf(os.Stderr, "Unsupported image %s (want %v)\n", *imagePath, gelimage.SupportedFormats())
		os.Exit(1)
	}

	gel, err := gelimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s image: %dx%d pixels\n", gel.Format, gel.Width(), gel.Height())

	res, err := l.LabelImage(*first, *rows, gel.Image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Labeling failed: %v\n", err)
		os.Exit(1)
	}

	saved, err := gelimage.SavePNG(*out, res.Image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Labeled %d rows (%d samples) -> %s\n", res.Grid.Rows(), len(res.Grid.Labels()), saved)

	if *table {
		fmt.Println()
		fmt.Print(res.Grid.Markdown())
	}
	writeCSV(*csvPath, res.Grid.WriteCSV)
}

// writeCSV creates path and fills it with write. An empty path is a no-op.
func writeCSV(path string, write func(io.Writer) error) {
	if path == "" {
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := write(f); err != nil {
		f.Close()
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
		os.Exit(1)
	}
}
