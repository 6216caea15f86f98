package ui

import (
	"image/color"
	"math"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
)

var indicatorIdle = color.NRGBA{0x80, 0x80, 0x80, 0xFF}

// RemoteIndicator is a small dot that pulses through blue hues while the
// remote control server is listening and stays gray otherwise.
type RemoteIndicator struct {
	wrap   *fyne.Container
	circle *canvas.Circle
	on     atomic.Bool
}

// NewRemoteIndicator constructs an idle indicator with the given diameter.
func NewRemoteIndicator(diameter float32) *RemoteIndicator {
	c := canvas.NewCircle(indicatorIdle)
	c.StrokeColor = color.Transparent
	inner := container.New(layout.NewGridWrapLayout(fyne.NewSize(diameter, diameter)), c)
	return &RemoteIndicator{wrap: container.NewCenter(inner), circle: c}
}

// CanvasObject returns the fyne object suitable for embedding in layouts.
func (s *RemoteIndicator) CanvasObject() fyne.CanvasObject { return s.wrap }

// Active reports whether the indicator is pulsing.
func (s *RemoteIndicator) Active() bool { return s.on.Load() }

// SetActive starts or stops the pulse.
func (s *RemoteIndicator) SetActive(on bool) {
	prev := s.on.Swap(on)
	switch {
	case on && !prev:
		go s.animate()
	case !on && prev:
		CallOnMain(func() {
			s.circle.FillColor = indicatorIdle
			s.circle.Refresh()
		})
	}
}

func (s *RemoteIndicator) animate() {
	t := time.NewTicker(90 * time.Millisecond)
	defer t.Stop()
	hue := 180.0
	for range t.C {
		if !s.on.Load() {
			return
		}
		hue = pulseHue(hue)
		col := hsvToNRGBA(hue, 0.6, 0.95)
		CallOnMain(func() {
			s.circle.FillColor = col
			s.circle.Refresh()
		})
	}
}

// pulseHue advances h within the 180..260 blue band and wraps back.
func pulseHue(h float64) float64 {
	h += 6
	if h >= 260 {
		return 180
	}
	return h
}

// hsvToNRGBA converts HSV (0..360, 0..1, 0..1) to color.NRGBA.
func hsvToNRGBA(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	c := v * s
	x := c * (1 - math.Abs(math.Mod(h/60.0, 2)-1))
	m := v - c
	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}
	return color.NRGBA{
		R: uint8((r+m)*255 + 0.5),
		G: uint8((g+m)*255 + 0.5),
		B: uint8((b+m)*255 + 0.5),
		A: 0xFF,
	}
}
