// Package main provides the entry point for the Gel Lane Labeler desktop application.
package main

import (
	"flag"
	"log"

	"gel-labeler/internal/app"
	"gel-labeler/internal/cmdutil"
	"gel-labeler/internal/config"
	"gel-labeler/internal/label"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/version"
	"gel-labeler/ui/mainwindow"

	fyneapp "fyne.io/fyne/v2/app"
)

const (
	appID    = "io.github.gel-labeler"
	appTitle = "Gel Lane Labeler"
)

func main() {
	renderer := flag.String("renderer", config.RendererFont, "Label renderer: font or opencv")
	flag.Parse()

	cmdutil.SetupLog()
	log.Printf("Starting %s %s", appTitle, version.String())

	r, err := cmdutil.NewRenderer(*renderer, label.DefaultStyle())
	if err != nil {
		log.Fatalf("Renderer: %v", err)
	}

	fyneApp := fyneapp.NewWithID(appID)
	fyneApp.Settings().SetTheme(&app.GelLabelerTheme{})

	state := app.NewState(labeler.New(r))
	win := mainwindow.New(fyneApp, state)

	// Handle command line arguments
	if path := flag.Arg(0); path != "" {
		if err := state.LoadImage(path); err != nil {
			log.Printf("Failed to load image %s: %v", path, err)
		}
	}

	win.ShowAndRun()
}
