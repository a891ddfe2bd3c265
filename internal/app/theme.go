package app

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// GelLabelerTheme provides a custom theme for the application.
type GelLabelerTheme struct{}

var _ fyne.Theme = (*GelLabelerTheme)(nil)

func (t *GelLabelerTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0xC6, G: 0x28, B: 0x28, A: 0xFF} // Label red
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0xFF, G: 0xCD, B: 0xD2, A: 0x80} // Marker lane highlight
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *GelLabelerTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *GelLabelerTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *GelLabelerTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13 // Fits a 17-lane table on a laptop screen
	default:
		return theme.DefaultTheme().Size(name)
	}
}
