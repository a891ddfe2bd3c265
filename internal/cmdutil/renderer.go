// Package cmdutil holds helpers shared by the command entry points.
package cmdutil

import (
	"fmt"
	"log"

	"gel-labeler/internal/config"
	"gel-labeler/internal/label"
)

// renderers maps a renderer name to its constructor. The OpenCV renderer
// registers itself when built with -tags opencv.
var renderers = map[string]func(label.Style) label.Renderer{
	config.RendererFont: func(s label.Style) label.Renderer { return label.NewFaceRenderer(s) },
}

// NewRenderer returns the label renderer registered under name. An empty
// name selects the font renderer.
func NewRenderer(name string, style label.Style) (label.Renderer, error) {
	if name == "" {
		name = config.RendererFont
	}
	if newRenderer, ok := renderers[name]; ok {
		return newRenderer(style), nil
	}
	if name == config.RendererOpenCV {
		return nil, fmt.Errorf("renderer %q is not available in this build (rebuild with -tags opencv)", name)
	}
	return nil, fmt.Errorf("unknown renderer %q (want %q or %q)", name, config.RendererFont, config.RendererOpenCV)
}

// SetupLog configures the standard logger used by the desktop app and CLI.
func SetupLog() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
