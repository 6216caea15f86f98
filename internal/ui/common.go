// Package ui contains the fyne widgets of the curve editor and helpers shared
// between them.
package ui

import "fyne.io/fyne/v2"

// mainThread returns the driver hook that runs a func on the UI thread, or nil
// when there is no app yet or its driver has none.
func mainThread() func(func()) {
	a := fyne.CurrentApp()
	if a == nil {
		return nil
	}
	switch d := a.Driver().(type) {
	case interface{ RunOnMain(func()) }:
		return d.RunOnMain
	case interface{ CallOnMain(func()) }:
		return d.CallOnMain
	}
	return nil
}

// CallOnMain runs f on the UI thread when the driver offers a hook for it and
// inline otherwise. Bank notifications arrive on the goroutine that mutated
// the bank, which is not the UI thread for remote edits.
func CallOnMain(f func()) {
	if f == nil {
		return
	}
	if run := mainThread(); run != nil {
		run(f)
		return
	}
	f()
}

// currentScale returns the current UI scale, defaulting to 1 when unavailable.
func currentScale() float64 {
	app := fyne.CurrentApp()
	if app == nil {
		return 1
	}
	set := app.Settings()
	if set == nil {
		return 1
	}
	if sc := set.Scale(); sc > 0 {
		return float64(sc)
	}
	return 1
}

// clamp01 constrains v to the unit interval used by curve coordinates.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
