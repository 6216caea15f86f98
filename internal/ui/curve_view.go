package ui

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/functor/internal/adapter"
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
)

// grabRadius is how far from a marker centre a drag or secondary tap still
// picks that node.
const grabRadius = adapter.MarkerSize

// CurveView draws the bank's selected curve and edits it in place. A tap adds
// a node, a drag moves the nearest node and a secondary tap removes it. Every
// edit is written back with bank.UpdateSelected.
type CurveView struct {
	widget.BaseWidget

	bank *bank.Bank

	mu       sync.Mutex
	opts     adapter.RenderOptions
	dragging int

	// OnError receives edit and render failures, e.g. a cursor past the end
	// of its collection.
	OnError func(error)

	cancel func()
}

// NewCurveView creates a view bound to b and subscribes to its changes. Call
// Detach when the view is discarded.
func NewCurveView(b *bank.Bank, opts adapter.RenderOptions) *CurveView {
	v := &CurveView{bank: b, opts: opts, dragging: -1}
	v.ExtendBaseWidget(v)
	v.cancel = b.Subscribe(func(bank.Change) {
		CallOnMain(v.Refresh)
	})
	return v
}

// Detach stops following bank changes.
func (v *CurveView) Detach() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
}

// Options returns the current path options.
func (v *CurveView) Options() adapter.RenderOptions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.opts
}

// SetInterpolation changes how the path between nodes is drawn.
func (v *CurveView) SetInterpolation(in curve.Interpolation) {
	v.mu.Lock()
	v.opts.Interpolation = in
	v.mu.Unlock()
	v.Refresh()
}

// SetSteps changes the number of path samples; values below 2 hide the path.
func (v *CurveView) SetSteps(n int) {
	v.mu.Lock()
	v.opts.Steps = n
	v.mu.Unlock()
	v.Refresh()
}

// plotRect is the area nodes are mapped into. It is inset by half a marker so
// nodes on the edges stay fully visible.
func plotRect(sz fyne.Size) adapter.Rect {
	inset := adapter.MarkerSize / 2
	w := sz.Width - 2*inset
	h := sz.Height - 2*inset
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return adapter.Rect{X: inset, Y: inset, W: w, H: h}
}

func toPoint(p fyne.Position) adapter.Point { return adapter.Point{X: p.X, Y: p.Y} }

// Tapped inserts a node at the tapped position.
func (v *CurveView) Tapped(e *fyne.PointEvent) {
	n, ok := adapter.UnmapPoint(toPoint(e.Position), plotRect(v.Size()))
	if !ok {
		return
	}
	n = curve.Node{X: clamp01(n.X), Y: clamp01(n.Y)}
	v.edit(func(c curve.Curve) (curve.Curve, bool) {
		return c.Insert(n), true
	})
}

// TappedSecondary removes the node under the pointer.
func (v *CurveView) TappedSecondary(e *fyne.PointEvent) {
	r := plotRect(v.Size())
	p := toPoint(e.Position)
	v.edit(func(c curve.Curve) (curve.Curve, bool) {
		i, ok := adapter.NearestNode(c, r, p, grabRadius)
		if !ok {
			return c, false
		}
		return c.Remove(i)
	})
}

// Dragged moves the node picked at the start of the drag. The node stays
// between its neighbours on the x axis.
func (v *CurveView) Dragged(e *fyne.DragEvent) {
	r := plotRect(v.Size())
	p := toPoint(e.Position)
	n, ok := adapter.UnmapPoint(p, r)
	if !ok {
		return
	}
	n = curve.Node{X: clamp01(n.X), Y: clamp01(n.Y)}

	v.mu.Lock()
	idx := v.dragging
	v.mu.Unlock()

	v.edit(func(c curve.Curve) (curve.Curve, bool) {
		if idx < 0 {
			// The drag starts where the pointer was before this first step.
			start := adapter.Point{X: p.X - e.Dragged.DX, Y: p.Y - e.Dragged.DY}
			i, ok := adapter.NearestNode(c, r, start, grabRadius)
			if !ok {
				return c, false
			}
			idx = i
			v.mu.Lock()
			v.dragging = i
			v.mu.Unlock()
		}
		return c.Move(idx, n)
	})
}

// DragEnd releases the dragged node.
func (v *CurveView) DragEnd() {
	v.mu.Lock()
	v.dragging = -1
	v.mu.Unlock()
}

// edit applies fn to the selected curve and stores the result in the same
// slot. The read and the write happen under one bank lock, so a remote Set
// cannot be overwritten with stale data. fn reports false to leave the bank
// untouched and must not call into the bank.
func (v *CurveView) edit(fn func(curve.Curve) (curve.Curve, bool)) {
	_, err := v.bank.UpdateSelected(func(p curve.Preset) (curve.Preset, bool) {
		c, ok := fn(p.Curve)
		if !ok {
			return p, false
		}
		p.Curve = c
		return p, true
	})
	if err != nil {
		v.reportError(err)
	}
}

func (v *CurveView) reportError(err error) {
	if v.OnError != nil {
		v.OnError(err)
	}
}

// MinSize keeps room for a usable editing area.
func (v *CurveView) MinSize() fyne.Size {
	return fyne.NewSize(200, 200)
}

func (v *CurveView) CreateRenderer() fyne.WidgetRenderer {
	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = theme.ForegroundColor()
	border.StrokeWidth = 1
	r := &curveViewRenderer{v: v, border: border}
	r.rebuild(v.Size())
	return r
}

type curveViewRenderer struct {
	v       *CurveView
	border  *canvas.Rectangle
	markers []*canvas.Rectangle
	path    []*canvas.Line
	objs    []fyne.CanvasObject
	// err is the last render failure; the view then shows only the border.
	err error
}

// rebuild recomputes the drawing for sz and resizes the object pools to match.
func (r *curveViewRenderer) rebuild(sz fyne.Size) {
	d, err := adapter.Render(r.v.bank, plotRect(sz), r.v.Options())
	r.err = err

	r.border.Move(fyne.NewPos(0, 0))
	r.border.Resize(sz)
	r.border.StrokeColor = theme.ForegroundColor()

	for len(r.markers) < len(d.Markers) {
		m := canvas.NewRectangle(theme.PrimaryColor())
		r.markers = append(r.markers, m)
	}
	r.markers = r.markers[:len(d.Markers)]
	for i, mk := range d.Markers {
		m := r.markers[i]
		m.FillColor = theme.PrimaryColor()
		m.Move(fyne.NewPos(mk.X, mk.Y))
		m.Resize(fyne.NewSize(mk.W, mk.H))
	}

	segments := 0
	if len(d.Path) > 1 {
		segments = len(d.Path) - 1
	}
	for len(r.path) < segments {
		ln := canvas.NewLine(theme.ForegroundColor())
		ln.StrokeWidth = 1.5
		r.path = append(r.path, ln)
	}
	r.path = r.path[:segments]
	for i, ln := range r.path {
		a, b := d.Path[i], d.Path[i+1]
		ln.StrokeColor = theme.ForegroundColor()
		ln.Position1 = fyne.NewPos(a.X, a.Y)
		ln.Position2 = fyne.NewPos(b.X, b.Y)
	}

	objs := make([]fyne.CanvasObject, 0, 1+len(r.path)+len(r.markers))
	objs = append(objs, r.border)
	for _, ln := range r.path {
		objs = append(objs, ln)
	}
	for _, m := range r.markers {
		objs = append(objs, m)
	}
	r.objs = objs
}

func (r *curveViewRenderer) Layout(sz fyne.Size) { r.rebuild(sz) }

func (r *curveViewRenderer) MinSize() fyne.Size { return r.v.MinSize() }

func (r *curveViewRenderer) Refresh() {
	r.rebuild(r.v.Size())
	if r.err != nil {
		r.v.reportError(r.err)
	}
	for _, o := range r.objs {
		canvas.Refresh(o)
	}
}

func (r *curveViewRenderer) Destroy() {}

func (r *curveViewRenderer) Objects() []fyne.CanvasObject { return r.objs }
