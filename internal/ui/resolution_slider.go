package ui

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ResolutionSlider is a compact horizontal slider over an integer range. The
// editor uses it to pick how many samples the interpolated path is drawn with.
type ResolutionSlider struct {
	widget.BaseWidget
	Min       int
	Max       int
	Value     int
	OnChanged func(int)
}

// NewResolutionSlider creates a slider constrained to [min, max] starting at value.
func NewResolutionSlider(min, max, value int) *ResolutionSlider {
	s := &ResolutionSlider{Min: min, Max: max}
	s.Value = snapResolution(min, max, float64(value))
	s.ExtendBaseWidget(s)
	return s
}

// SetValue moves the thumb and fires OnChanged when the value changed.
func (s *ResolutionSlider) SetValue(v int) {
	s.setFloat(float64(v))
}

func (s *ResolutionSlider) setFloat(v float64) {
	n := snapResolution(s.Min, s.Max, v)
	if n == s.Value {
		return
	}
	s.Value = n
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(n)
	}
}

// snapResolution rounds v to the nearest integer inside [min, max].
func snapResolution(min, max int, v float64) int {
	if max <= min {
		return min
	}
	n := int(math.Round(v))
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// fraction is the thumb position in 0..1.
func (s *ResolutionSlider) fraction() float32 {
	if s.Max <= s.Min {
		return 0
	}
	return float32(s.Value-s.Min) / float32(s.Max-s.Min)
}

// Dragged follows the pointer.
func (s *ResolutionSlider) Dragged(e *fyne.DragEvent) { s.updateFromPos(e.Position.X) }

func (s *ResolutionSlider) DragEnd() {}

// Tapped jumps to the tapped position.
func (s *ResolutionSlider) Tapped(e *fyne.PointEvent) { s.updateFromPos(e.Position.X) }

// Scrolled steps by one sample per wheel notch.
func (s *ResolutionSlider) Scrolled(ev *fyne.ScrollEvent) {
	if ev == nil {
		return
	}
	switch {
	case ev.Scrolled.DY > 0:
		s.SetValue(s.Value + 1)
	case ev.Scrolled.DY < 0:
		s.SetValue(s.Value - 1)
	}
}

func (s *ResolutionSlider) updateFromPos(px float32) {
	w := s.Size().Width
	if w <= 0 || s.Max <= s.Min {
		return
	}
	frac := float64(clamp01(px / w))
	s.setFloat(float64(s.Min) + frac*float64(s.Max-s.Min))
}

// MinSize keeps a comfortable touch target.
func (s *ResolutionSlider) MinSize() fyne.Size {
	return fyne.NewSize(100, theme.IconInlineSize())
}

func (s *ResolutionSlider) CreateRenderer() fyne.WidgetRenderer {
	r := &resolutionSliderRenderer{
		s:     s,
		track: canvas.NewRectangle(theme.ShadowColor()),
		fill:  canvas.NewRectangle(theme.PrimaryColor()),
		thumb: canvas.NewCircle(theme.ForegroundColor()),
	}
	r.objs = []fyne.CanvasObject{r.track, r.fill, r.thumb}
	return r
}

type resolutionSliderRenderer struct {
	s     *ResolutionSlider
	track *canvas.Rectangle
	fill  *canvas.Rectangle
	thumb *canvas.Circle
	objs  []fyne.CanvasObject
}

func (r *resolutionSliderRenderer) Layout(sz fyne.Size) {
	const trackH float32 = 4
	y := (sz.Height - trackH) / 2
	r.track.Move(fyne.NewPos(0, y))
	r.track.Resize(fyne.NewSize(sz.Width, trackH))

	fillW := sz.Width * r.s.fraction()
	r.fill.Move(fyne.NewPos(0, y))
	r.fill.Resize(fyne.NewSize(fillW, trackH))

	rad := theme.IconInlineSize() / 4
	cx := fillW
	if cx < rad {
		cx = rad
	}
	if cx > sz.Width-rad {
		cx = sz.Width - rad
	}
	r.thumb.Resize(fyne.NewSize(rad*2, rad*2))
	r.thumb.Move(fyne.NewPos(cx-rad, sz.Height/2-rad))
}

func (r *resolutionSliderRenderer) MinSize() fyne.Size { return r.s.MinSize() }

func (r *resolutionSliderRenderer) Refresh() {
	r.track.FillColor = theme.ShadowColor()
	r.fill.FillColor = theme.PrimaryColor()
	r.thumb.FillColor = theme.ForegroundColor()
	r.Layout(r.s.Size())
	canvas.Refresh(r.track)
	canvas.Refresh(r.fill)
	canvas.Refresh(r.thumb)
}

func (r *resolutionSliderRenderer) Destroy() {}

func (r *resolutionSliderRenderer) Objects() []fyne.CanvasObject { return r.objs }
