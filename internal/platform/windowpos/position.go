// Package windowpos reads and restores the native position of the editor
// window where fyne does not expose it. Only Windows is supported; other
// platforms report failure and leave placement to the window manager.
package windowpos

// Position is the top-left corner of a window in screen coordinates.
type Position struct {
	X int
	Y int
}

// retries is how often Restore is attempted while the native window is still
// being created.
const retries = 10
