//go:build windows

package windowpos

import (
	"sync"
	"syscall"
	"unsafe"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
)

var (
	user32            = syscall.NewLazyDLL("user32.dll")
	procGetWindowRect = user32.NewProc("GetWindowRect")
	procSetWindowPos  = user32.NewProc("SetWindowPos")
)

type rect struct {
	Left, Top, Right, Bottom int32
}

const (
	swpNoSize     = 0x0001
	swpNoZOrder   = 0x0004
	swpNoActivate = 0x0010
)

// Current returns the top-left corner of w's native window.
func Current(w fyne.Window) (Position, bool) {
	var pos Position
	ok := withHWND(w, func(hwnd uintptr) bool {
		var r rect
		ret, _, err := procGetWindowRect.Call(hwnd, uintptr(unsafe.Pointer(&r)))
		if ret == 0 {
			logCallError("GetWindowRect", err)
			return false
		}
		pos = Position{X: int(r.Left), Y: int(r.Top)}
		return true
	})
	return pos, ok
}

// Move places w's native window at pos without resizing or raising it.
func Move(w fyne.Window, pos Position) bool {
	return withHWND(w, func(hwnd uintptr) bool {
		flags := uintptr(swpNoSize | swpNoZOrder | swpNoActivate)
		ret, _, err := procSetWindowPos.Call(hwnd, 0, uintptr(int32(pos.X)), uintptr(int32(pos.Y)), 0, 0, flags)
		if ret == 0 {
			logCallError("SetWindowPos", err)
			return false
		}
		return true
	})
}

func logCallError(call string, err error) {
	if err != syscall.Errno(0) {
		fyne.LogError(call+" failed", err)
	}
}

// withHWND runs fn with w's HWND on the GUI thread and waits for its result.
func withHWND(w fyne.Window, fn func(hwnd uintptr) bool) bool {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return false
	}
	var (
		result bool
		wg     sync.WaitGroup
	)
	wg.Add(1)
	nw.RunNative(func(ctx any) {
		defer wg.Done()
		wc, ok := ctx.(driver.WindowsWindowContext)
		if !ok || wc.HWND == 0 {
			return
		}
		result = fn(wc.HWND)
	})
	wg.Wait()
	return result
}
