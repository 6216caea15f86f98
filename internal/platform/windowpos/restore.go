package windowpos

import (
	"time"

	"fyne.io/fyne/v2"
)

// Restore moves w to pos. The native window may not exist yet right after
// creation, so failed attempts are retried in the background for a short
// while. keep is consulted before every retry; returning false abandons it.
func Restore(w fyne.Window, pos Position, keep func() bool) {
	if Move(w, pos) {
		return
	}
	go func() {
		for i := 0; i < retries; i++ {
			time.Sleep(150 * time.Millisecond)
			if keep != nil && !keep() {
				return
			}
			if Move(w, pos) {
				return
			}
		}
	}()
}
