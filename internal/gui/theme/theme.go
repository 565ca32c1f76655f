// Package theme holds the picker's compact fyne theme.
package theme

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens the default theme for a small popup list
type CompactTheme struct {
	fyne.Theme
}

// NewCompactTheme creates the picker theme on top of the default one
func NewCompactTheme() *CompactTheme {
	return &CompactTheme{
		Theme: theme.DefaultTheme(),
	}
}

// Icon returns the icon for the given name
func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	switch name {
	case theme.IconNameContentClear:
		return theme.DeleteIcon()
	default:
		return t.Theme.Icon(name)
	}
}

// Color returns a custom color for the given name
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return color.NRGBA{R: 0, G: 120, B: 212, A: 255}
	case theme.ColorNameSelection:
		return color.NRGBA{R: 0, G: 99, B: 177, A: 96}
	default:
		return t.Theme.Color(name, variant)
	}
}

// Size returns a custom size for the given name
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNamePadding:
		return 4
	case theme.SizeNameScrollBar:
		return 8
	case theme.SizeNameText:
		return 13
	default:
		return t.Theme.Size(name)
	}
}
