package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CompactTheme tightens paddings and text so the mapping table fits more rows.
// Colors not listed in the palettes fall through to the default theme.
type CompactTheme struct{}

// NewCompactTheme creates a new compact theme
func NewCompactTheme() fyne.Theme {
	return &CompactTheme{}
}

var sharedPalette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameSuccess: color.RGBA{R: 46, G: 160, B: 67, A: 255},
	theme.ColorNameError:   color.RGBA{R: 215, G: 38, B: 61, A: 255}, // delete buttons, error toasts
	theme.ColorNamePrimary: color.RGBA{R: 25, G: 118, B: 210, A: 255},
}

var lightPalette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground: color.RGBA{R: 250, G: 250, B: 250, A: 255},
	theme.ColorNameForeground: color.RGBA{R: 33, G: 33, B: 33, A: 255},
	theme.ColorNameDisabled:   color.RGBA{R: 170, G: 170, B: 170, A: 255},
}

var darkPalette = map[fyne.ThemeColorName]color.Color{
	theme.ColorNameBackground: color.RGBA{R: 18, G: 18, B: 18, A: 255},
	theme.ColorNameForeground: color.RGBA{R: 235, G: 235, B: 235, A: 255},
	theme.ColorNameDisabled:   color.RGBA{R: 110, G: 110, B: 110, A: 255},
}

var compactSizes = map[fyne.ThemeSizeName]float32{
	theme.SizeNamePadding:         3,
	theme.SizeNameInnerPadding:    6,
	theme.SizeNameLineSpacing:     2,
	theme.SizeNameScrollBar:       12,
	theme.SizeNameText:            13,
	theme.SizeNameHeadingText:     16,
	theme.SizeNameSubHeadingText:  14,
	theme.SizeNameCaptionText:     10,
	theme.SizeNameInputRadius:     3,
	theme.SizeNameSelectionRadius: 2,
}

// Color returns theme colors
func (t *CompactTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if c, ok := sharedPalette[name]; ok {
		return c
	}
	palette := lightPalette
	if variant == theme.VariantDark {
		palette = darkPalette
	}
	if c, ok := palette[name]; ok {
		return c
	}
	return theme.DefaultTheme().Color(name, variant)
}

func (t *CompactTheme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *CompactTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

// Size returns theme sizes with compact adjustments
func (t *CompactTheme) Size(name fyne.ThemeSizeName) float32 {
	if s, ok := compactSizes[name]; ok {
		return s
	}
	return theme.DefaultTheme().Size(name)
}
