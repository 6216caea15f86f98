package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// captionPad is the padding around the glyphs, split evenly between sides.
const captionPad = 8

// RotatedCaption is a static text caption turned 90° counter-clockwise so it
// reads bottom to top beside a preset list ("BEAT", "GATE"). The bitmap is
// rasterized once and reused.
type RotatedCaption struct {
	text string
	img  *canvas.Image
}

// NewRotatedCaption rasterizes text in the theme font and foreground colour.
func NewRotatedCaption(text string) *RotatedCaption {
	face := captionFace()
	if closer, ok := face.(interface{ Close() error }); ok {
		defer closer.Close()
	}
	bmp := rotateCCW(rasterizeText(text, face, theme.ForegroundColor()))

	img := canvas.NewImageFromImage(bmp)
	img.FillMode = canvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(float32(bmp.Bounds().Dx()), float32(bmp.Bounds().Dy())))
	return &RotatedCaption{text: text, img: img}
}

// Text returns the caption text.
func (r *RotatedCaption) Text() string { return r.text }

// CanvasObject exposes the underlying image for layout containers.
func (r *RotatedCaption) CanvasObject() fyne.CanvasObject { return r.img }

// rasterizeText draws text on a transparent bitmap sized to fit it.
func rasterizeText(text string, face font.Face, col color.Color) *image.RGBA {
	d := &font.Drawer{Face: face}
	metrics := face.Metrics()
	w := d.MeasureString(text).Ceil() + captionPad
	h := (metrics.Ascent + metrics.Descent).Ceil() + captionPad

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	d.Dst = dst
	d.Src = image.NewUniform(color.NRGBAModel.Convert(col))
	d.Dot = fixed.P(captionPad/2, metrics.Ascent.Ceil()+captionPad/2)
	d.DrawString(text)
	return dst
}

// rotateCCW turns src a quarter turn counter-clockwise.
func rotateCCW(src *image.RGBA) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	dst := image.NewRGBA(image.Rect(0, 0, h, w))
	for y := 0; y < w; y++ {
		for x := 0; x < h; x++ {
			dst.SetRGBA(x, y, src.RGBAAt(b.Min.X+w-1-y, b.Min.Y+x))
		}
	}
	return dst
}

// captionFace loads the theme font at the current scale and falls back to a
// bitmap face.
func captionFace() font.Face {
	pt := float64(theme.TextSize())
	if pt <= 0 {
		pt = 14
	}
	pt *= currentScale() * 0.75
	if pt < 6 {
		pt = 6
	}
	if res := theme.TextBoldFont(); res != nil {
		if ttf, err := opentype.Parse(res.Content()); err == nil {
			face, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: pt, DPI: 96, Hinting: font.HintingFull})
			if err == nil {
				return face
			}
		}
	}
	return basicfont.Face7x13
}
