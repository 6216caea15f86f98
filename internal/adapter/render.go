// Package adapter turns bank state into geometry: pixel positions for the
// selected curve and rows of selectable slots for the preset lists. Nothing in
// here keeps state; every result is recomputed from the bank on demand.
package adapter

import (
	"math"

	"github.com/edward-ap/functor/internal/curve"
)

// MarkerSize is the edge length of the square drawn for every node.
const MarkerSize float32 = 10

// Rect is a target rectangle in pixel space; Y grows downwards.
type Rect struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	W float32 `json:"w"`
	H float32 `json:"h"`
}

// Point is a pixel-space position.
type Point struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// MapNode places a normalized node inside r. Curve-space Y grows upwards, so
// y=0 lands on the bottom edge and y=1 on the top edge.
func MapNode(n curve.Node, r Rect) Point {
	return Point{
		X: r.X + r.W*n.X,
		Y: r.Y + r.H*(1-n.Y),
	}
}

// UnmapPoint is the inverse of MapNode. It reports false when r has no area in
// either direction.
func UnmapPoint(p Point, r Rect) (curve.Node, bool) {
	if r.W == 0 || r.H == 0 {
		return curve.Node{}, false
	}
	return curve.Node{
		X: (p.X - r.X) / r.W,
		Y: 1 - (p.Y-r.Y)/r.H,
	}, true
}

// Marker returns the square drawn around a mapped node.
func Marker(p Point) Rect {
	half := MarkerSize / 2
	return Rect{X: p.X - half, Y: p.Y - half, W: MarkerSize, H: MarkerSize}
}

// CurveSource yields the curve to draw. *bank.Bank satisfies it.
type CurveSource interface {
	SelectedCurve() (curve.Curve, error)
}

// RenderOptions control the optional interpolated path.
type RenderOptions struct {
	Interpolation curve.Interpolation
	// Steps is the number of path samples across the width; 0 disables the path.
	Steps int
}

// Drawing is everything the curve view paints for one frame.
type Drawing struct {
	Nodes   []Point `json:"nodes"`
	Markers []Rect  `json:"markers"`
	Path    []Point `json:"path,omitempty"`
	// Border is the outline of the target rectangle. It is emitted regardless
	// of curve data.
	Border Rect `json:"border"`
}

// Render maps the source's selected curve into r. Errors from the source are
// returned unchanged together with a Drawing that only holds the border.
func Render(src CurveSource, r Rect, opts RenderOptions) (Drawing, error) {
	d := Drawing{Border: r}
	c, err := src.SelectedCurve()
	if err != nil {
		return d, err
	}
	return RenderCurve(c, r, opts), nil
}

// RenderCurve maps c into r.
func RenderCurve(c curve.Curve, r Rect, opts RenderOptions) Drawing {
	d := Drawing{
		Border:  r,
		Nodes:   make([]Point, 0, c.Len()),
		Markers: make([]Rect, 0, c.Len()),
	}
	c.Each(func(_ int, n curve.Node) bool {
		p := MapNode(n, r)
		d.Nodes = append(d.Nodes, p)
		d.Markers = append(d.Markers, Marker(p))
		return true
	})
	if opts.Steps > 1 && c.Len() > 0 {
		d.Path = make([]Point, 0, opts.Steps)
		for i := 0; i < opts.Steps; i++ {
			x := float32(i) / float32(opts.Steps-1)
			y, _ := c.Sample(x, opts.Interpolation)
			d.Path = append(d.Path, MapNode(curve.Node{X: x, Y: y}, r))
		}
	}
	return d
}

// NearestNode finds the node of c whose mapped position is closest to p and
// no further than radius pixels away.
func NearestNode(c curve.Curve, r Rect, p Point, radius float32) (int, bool) {
	best := -1
	bestDist := math.MaxFloat64
	c.Each(func(i int, n curve.Node) bool {
		q := MapNode(n, r)
		dist := math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
		if dist <= float64(radius) && dist < bestDist {
			best, bestDist = i, dist
		}
		return true
	})
	return best, best >= 0
}
