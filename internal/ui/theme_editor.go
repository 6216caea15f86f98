package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// editorTheme tightens the wrapped theme for the dense preset grids: smaller
// inline icons (slider thumbs) and slightly less padding between buttons.
type editorTheme struct{ fyne.Theme }

func (t editorTheme) Size(n fyne.ThemeSizeName) float32 {
	base := t.Theme.Size(n)
	switch n {
	case theme.SizeNameInlineIcon:
		return base * 0.5
	case theme.SizeNamePadding, theme.SizeNameInnerPadding:
		return base * 0.75
	}
	return base
}

// UseEditorTheme wraps the current app theme.
func UseEditorTheme() {
	app := fyne.CurrentApp()
	if app == nil {
		return
	}
	app.Settings().SetTheme(editorTheme{Theme: app.Settings().Theme()})
}
