//go:build opencv

package cmdutil

import (
	"gel-labeler/internal/config"
	"gel-labeler/internal/label"
	"gel-labeler/internal/label/cvtext"
)

func init() {
	renderers[config.RendererOpenCV] = func(s label.Style) label.Renderer { return cvtext.New(s) }
}
