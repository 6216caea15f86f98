// Package images renders the application icon. The icon is drawn at startup
// instead of being shipped as a bitmap so every size stays crisp.
package images

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"golang.org/x/image/vector"
)

var (
	logoBackground = color.NRGBA{0x1E, 0x22, 0x2B, 0xFF}
	logoCurve      = color.NRGBA{0x00, 0x99, 0xFF, 0xFF}
	logoNode       = color.NRGBA{0xF2, 0xF2, 0xF2, 0xFF}
)

// logoNodes are the curve nodes drawn on the icon, in unit coordinates with
// Y growing upwards like the editor.
var logoNodes = [][2]float32{
	{0.0, 0.1},
	{0.35, 0.2},
	{0.65, 0.8},
	{1.0, 0.9},
}

// Logo draws the icon into a size×size image.
func Logo(size int) *image.RGBA {
	if size < 8 {
		size = 8
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	s := float32(size)
	margin := s * 0.06

	fill(dst, logoBackground, rect(margin, margin, s-margin, s-margin))

	// plot area inside the background
	inset := s * 0.2
	span := s - 2*inset
	toPx := func(n [2]float32) (float32, float32) {
		return inset + span*n[0], inset + span*(1-n[1])
	}

	width := s * 0.05
	if width < 1 {
		width = 1
	}
	for i := 0; i+1 < len(logoNodes); i++ {
		x0, y0 := toPx(logoNodes[i])
		x1, y1 := toPx(logoNodes[i+1])
		fill(dst, logoCurve, segment(x0, y0, x1, y1, width))
	}

	half := s * 0.045
	for _, n := range logoNodes {
		x, y := toPx(n)
		fill(dst, logoNode, rect(x-half, y-half, x+half, y+half))
	}
	return dst
}

// LogoPNG encodes Logo(size) as PNG.
func LogoPNG(size int) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, Logo(size)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type polygon [][2]float32

func rect(x0, y0, x1, y1 float32) polygon {
	return polygon{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
}

// segment is a line from (x0,y0) to (x1,y1) thickened to w pixels.
func segment(x0, y0, x1, y1, w float32) polygon {
	dx, dy := x1-x0, y1-y0
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return rect(x0-w/2, y0-w/2, x0+w/2, y0+w/2)
	}
	nx, ny := -dy/l*w/2, dx/l*w/2
	return polygon{
		{x0 + nx, y0 + ny},
		{x1 + nx, y1 + ny},
		{x1 - nx, y1 - ny},
		{x0 - nx, y0 - ny},
	}
}

func fill(dst *image.RGBA, col color.Color, p polygon) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	z.MoveTo(p[0][0], p[0][1])
	for _, pt := range p[1:] {
		z.LineTo(pt[0], pt[1])
	}
	z.ClosePath()
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}
