// Package curve holds the value types shared by the preset bank, the render
// adapters and persistence: nodes, curves, modes and named presets.
package curve

import (
	"fmt"
	"strings"
)

// Node is a point of a curve. Both coordinates are conventionally normalized to
// [0, 1] as a fraction of the curve view width/height but are never clamped.
type Node struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

// Curve is an ordered list of nodes describing a path from left to right.
// Curves have value semantics: every method that changes the node list returns
// a new Curve and leaves the receiver untouched.
type Curve struct {
	Nodes []Node `json:"nodes"`
}

// NewCurve copies nodes into a new Curve.
func NewCurve(nodes ...Node) Curve {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	return Curve{Nodes: out}
}

// Len reports the number of nodes.
func (c Curve) Len() int { return len(c.Nodes) }

// At returns node i and whether i addressed a node.
func (c Curve) At(i int) (Node, bool) {
	if i < 0 || i >= len(c.Nodes) {
		return Node{}, false
	}
	return c.Nodes[i], true
}

// Each calls fn for every node in order until fn returns false. It can be
// called any number of times.
func (c Curve) Each(fn func(i int, n Node) bool) {
	for i, n := range c.Nodes {
		if !fn(i, n) {
			return
		}
	}
}

// Clone returns a deep copy so callers can mutate the clone without affecting
// the original node slice.
func (c Curve) Clone() Curve {
	if c.Nodes == nil {
		return Curve{}
	}
	return NewCurve(c.Nodes...)
}

// Equal reports whether both curves hold the same nodes in the same order.
// A nil and an empty node list compare equal.
func (c Curve) Equal(o Curve) bool {
	if len(c.Nodes) != len(o.Nodes) {
		return false
	}
	for i := range c.Nodes {
		if c.Nodes[i] != o.Nodes[i] {
			return false
		}
	}
	return true
}

// Insert places n after every node whose X is <= n.X, which keeps an ascending
// curve ascending.
func (c Curve) Insert(n Node) Curve {
	pos := len(c.Nodes)
	for i, cur := range c.Nodes {
		if cur.X > n.X {
			pos = i
			break
		}
	}
	out := make([]Node, 0, len(c.Nodes)+1)
	out = append(out, c.Nodes[:pos]...)
	out = append(out, n)
	out = append(out, c.Nodes[pos:]...)
	return Curve{Nodes: out}
}

// Move replaces node i with n. n.X is clamped between the X of the neighbouring
// nodes, so a node cannot be moved past them and an ascending curve stays
// ascending.
func (c Curve) Move(i int, n Node) (Curve, bool) {
	if i < 0 || i >= len(c.Nodes) {
		return c, false
	}
	if i > 0 && n.X < c.Nodes[i-1].X {
		n.X = c.Nodes[i-1].X
	}
	if i < len(c.Nodes)-1 && n.X > c.Nodes[i+1].X {
		n.X = c.Nodes[i+1].X
	}
	out := c.Clone()
	out.Nodes[i] = n
	return out, true
}

// Remove drops node i.
func (c Curve) Remove(i int) (Curve, bool) {
	if i < 0 || i >= len(c.Nodes) {
		return c, false
	}
	out := make([]Node, 0, len(c.Nodes)-1)
	out = append(out, c.Nodes[:i]...)
	out = append(out, c.Nodes[i+1:]...)
	return Curve{Nodes: out}, true
}

// Mode selects which of the two preset collections is active.
type Mode int

const (
	// Beat is a beat or timestretching preset.
	Beat Mode = iota
	// Vol is a volume or gating preset.
	Vol
)

// Modes lists every mode in display order.
func Modes() []Mode { return []Mode{Beat, Vol} }

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool { return m == Beat || m == Vol }

func (m Mode) String() string {
	switch m {
	case Beat:
		return "beat"
	case Vol:
		return "vol"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode accepts "beat", "vol" and the aliases "gate" and "volume",
// ignoring case and surrounding space.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beat":
		return Beat, nil
	case "vol", "volume", "gate":
		return Vol, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("cannot marshal %s", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Preset is a named curve. Names are display labels only: they may repeat and
// may be empty.
type Preset struct {
	Name  string `json:"name"`
	Curve Curve  `json:"curve"`
}

// Clone performs a deep copy of the preset.
func (p Preset) Clone() Preset {
	return Preset{Name: p.Name, Curve: p.Curve.Clone()}
}

// ClonePresets deep-copies a preset slice. A nil input yields an empty slice.
func ClonePresets(in []Preset) []Preset {
	out := make([]Preset, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}
