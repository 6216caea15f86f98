package curve

import (
	"fmt"
	"math"
	"strings"
)

// Interpolation selects how a curve is evaluated between its nodes.
type Interpolation int

const (
	// Drop holds the value of the previous node until the next one (step).
	Drop Interpolation = iota
	// Linear draws straight lines between nodes.
	Linear
	// Cubic uses a Catmull-Rom spline through the neighbouring nodes.
	Cubic
	// Hermite uses a monotone cubic Hermite spline that never overshoots.
	Hermite
)

var interpolationNames = [...]string{"drop", "linear", "cubic", "hermite"}

// Interpolations lists every interpolation in display order.
func Interpolations() []Interpolation { return []Interpolation{Drop, Linear, Cubic, Hermite} }

func (in Interpolation) String() string {
	if in < 0 || int(in) >= len(interpolationNames) {
		return fmt.Sprintf("interpolation(%d)", int(in))
	}
	return interpolationNames[in]
}

// ParseInterpolation is the case-insensitive inverse of String.
func ParseInterpolation(s string) (Interpolation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range interpolationNames {
		if s == name {
			return Interpolation(i), nil
		}
	}
	return 0, fmt.Errorf("unknown interpolation %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (in Interpolation) MarshalText() ([]byte, error) {
	if in < 0 || int(in) >= len(interpolationNames) {
		return nil, fmt.Errorf("cannot marshal %s", in)
	}
	return []byte(in.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (in *Interpolation) UnmarshalText(b []byte) error {
	v, err := ParseInterpolation(string(b))
	if err != nil {
		return err
	}
	*in = v
	return nil
}

// Sample evaluates the curve at x. Nodes are expected in ascending X order.
// Outside the node range the nearest end node's Y is returned. The boolean is
// false only for an empty curve.
func (c Curve) Sample(x float32, in Interpolation) (float32, bool) {
	n := c.Nodes
	switch {
	case len(n) == 0:
		return 0, false
	case x <= n[0].X:
		return n[0].Y, true
	case x >= n[len(n)-1].X:
		return n[len(n)-1].Y, true
	}

	k := 0
	for k < len(n)-2 && x >= n[k+1].X {
		k++
	}
	a, b := n[k], n[k+1]
	span := b.X - a.X
	if span <= 0 {
		return b.Y, true
	}
	t := (x - a.X) / span

	switch in {
	case Drop:
		return a.Y, true
	case Cubic:
		return catmullRom(n, k, t), true
	case Hermite:
		return monotoneHermite(n, k, t), true
	default:
		return a.Y + (b.Y-a.Y)*t, true
	}
}

// catmullRom evaluates segment k..k+1 with the end nodes duplicated.
func catmullRom(n []Node, k int, t float32) float32 {
	p1, p2 := n[k].Y, n[k+1].Y
	p0, p3 := p1, p2
	if k > 0 {
		p0 = n[k-1].Y
	}
	if k+2 < len(n) {
		p3 = n[k+2].Y
	}
	t2 := t * t
	t3 := t2 * t
	return 0.5 * (2*p1 +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// monotoneHermite evaluates segment k..k+1 using Fritsch-Carlson tangents.
func monotoneHermite(n []Node, k int, t float32) float32 {
	m := hermiteTangents(n)
	h := n[k+1].X - n[k].X
	t2 := t * t
	t3 := t2 * t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*n[k].Y + h10*h*m[k] + h01*n[k+1].Y + h11*h*m[k+1]
}

func hermiteTangents(n []Node) []float32 {
	count := len(n)
	d := make([]float32, count-1)
	for i := range d {
		dx := n[i+1].X - n[i].X
		if dx > 0 {
			d[i] = (n[i+1].Y - n[i].Y) / dx
		}
	}
	m := make([]float32, count)
	m[0] = d[0]
	m[count-1] = d[count-2]
	for i := 1; i < count-1; i++ {
		if d[i-1]*d[i] <= 0 {
			m[i] = 0
			continue
		}
		m[i] = (d[i-1] + d[i]) / 2
	}
	for i := range d {
		if d[i] == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a := m[i] / d[i]
		b := m[i+1] / d[i]
		if s := a*a + b*b; s > 9 {
			tau := float32(3 / math.Sqrt(float64(s)))
			m[i] = tau * a * d[i]
			m[i+1] = tau * b * d[i]
		}
	}
	return m
}
