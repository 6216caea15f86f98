package ui

import (
	"image"
	"image/color"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"golang.org/x/image/font/basicfont"
)

func TestRotateCCW(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	mark := func(x, y int, v uint8) { src.SetRGBA(x, y, color.RGBA{R: v, A: 0xFF}) }
	mark(2, 0, 1)
	mark(0, 1, 2)
	mark(0, 0, 3)

	dst := rotateCCW(src)
	if b := dst.Bounds(); b.Dx() != 2 || b.Dy() != 3 {
		t.Fatalf("rotated bounds = %v, want 2x3", b)
	}
	tests := []struct {
		x, y int
		want uint8
	}{
		{0, 0, 1},
		{1, 2, 2},
		{0, 2, 3},
	}
	for _, tt := range tests {
		if got := dst.RGBAAt(tt.x, tt.y).R; got != tt.want {
			t.Errorf("dst(%d,%d) = %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRasterizeTextSize(t *testing.T) {
	img := rasterizeText("BEAT", basicfont.Face7x13, color.White)
	if b := img.Bounds(); b.Dx() != 4*7+captionPad || b.Dy() != 13+captionPad {
		t.Fatalf("bounds = %v, want %dx%d", b, 4*7+captionPad, 13+captionPad)
	}
	var inked bool
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 0 {
			inked = true
			break
		}
	}
	if !inked {
		t.Fatal("no glyph pixels drawn")
	}
}

func TestRotatedCaptionIsTall(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	c := NewRotatedCaption("GATE")
	sz := c.CanvasObject().MinSize()
	if sz.Height <= sz.Width {
		t.Fatalf("caption min size %v should be taller than wide", sz)
	}
}

func TestStatusLineFlash(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewStatusLine(widget.NewLabel(""), "ready")
	defer s.Close()
	if got := s.Text(); got != "ready" {
		t.Fatalf("initial text = %q", got)
	}

	s.Flash("saved", 20*time.Millisecond)
	if got := s.Text(); got != "saved" {
		t.Fatalf("flash text = %q", got)
	}
	s.SetBase("vol 3")
	if got := s.Text(); got != "saved" {
		t.Fatalf("SetBase replaced a running notice: %q", got)
	}

	deadline := time.Now().Add(time.Second)
	for s.Text() != "vol 3" {
		if time.Now().After(deadline) {
			t.Fatalf("text = %q, want restore to %q", s.Text(), "vol 3")
		}
		time.Sleep(5 * time.Millisecond)
	}

	s.SetBase("beat 0")
	if got := s.Text(); got != "beat 0" {
		t.Fatalf("SetBase while idle = %q", got)
	}
}

func TestStatusLineNewerFlashWins(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewStatusLine(widget.NewLabel(""), "ready")
	defer s.Close()
	s.Flash("first", 10*time.Millisecond)
	s.Flash("second", time.Hour)
	time.Sleep(50 * time.Millisecond)
	if got := s.Text(); got != "second" {
		t.Fatalf("text = %q, want second", got)
	}
}

func TestHSVToNRGBA(t *testing.T) {
	tests := []struct {
		name    string
		h, s, v float64
		want    color.NRGBA
	}{
		{name: "red", h: 0, s: 1, v: 1, want: color.NRGBA{255, 0, 0, 255}},
		{name: "green", h: 120, s: 1, v: 1, want: color.NRGBA{0, 255, 0, 255}},
		{name: "blue", h: 240, s: 1, v: 1, want: color.NRGBA{0, 0, 255, 255}},
		{name: "white", h: 90, s: 0, v: 1, want: color.NRGBA{255, 255, 255, 255}},
		{name: "wraps past 360", h: 360, s: 1, v: 1, want: color.NRGBA{255, 0, 0, 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hsvToNRGBA(tt.h, tt.s, tt.v); got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPulseHueStaysInBand(t *testing.T) {
	h := 180.0
	for i := 0; i < 100; i++ {
		h = pulseHue(h)
		if h < 180 || h >= 260 {
			t.Fatalf("step %d: hue %v left the band", i, h)
		}
	}
}

func TestRemoteIndicatorToggle(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ind := NewRemoteIndicator(10)
	ind.SetActive(true)
	if !ind.Active() {
		t.Fatal("indicator not active")
	}
	ind.SetActive(false)
	if ind.Active() {
		t.Fatal("indicator still active")
	}
}

func TestSnapResolution(t *testing.T) {
	tests := []struct {
		name     string
		min, max int
		v        float64
		want     int
	}{
		{name: "below min", min: 2, max: 200, v: -5, want: 2},
		{name: "above max", min: 2, max: 200, v: 900, want: 200},
		{name: "rounds", min: 2, max: 200, v: 63.6, want: 64},
		{name: "max <= min", min: 5, max: 5, v: 7, want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := snapResolution(tt.min, tt.max, tt.v); got != tt.want {
				t.Fatalf("snapResolution(%d, %d, %v) = %d, want %d", tt.min, tt.max, tt.v, got, tt.want)
			}
		})
	}
}

func TestResolutionSliderInput(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	s := NewResolutionSlider(2, 202, 64)
	var got []int
	s.OnChanged = func(n int) { got = append(got, n) }
	s.Resize(fyne.NewSize(100, 20))

	s.Tapped(&fyne.PointEvent{Position: fyne.NewPos(50, 10)})
	if s.Value != 102 {
		t.Fatalf("value after tap = %d, want 102", s.Value)
	}
	s.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 1)})
	if s.Value != 103 {
		t.Fatalf("value after scroll = %d, want 103", s.Value)
	}
	s.SetValue(103)
	if len(got) != 2 || got[0] != 102 || got[1] != 103 {
		t.Fatalf("OnChanged calls = %v", got)
	}
}

func TestCallOnMainRunsFunc(t *testing.T) {
	a := test.NewApp()
	defer a.Quit()

	ran := make(chan struct{})
	CallOnMain(func() { close(ran) })
	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("CallOnMain never ran f")
	}
	CallOnMain(nil)
}
