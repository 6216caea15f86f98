package curve

import "fmt"

// TestPresets returns n deterministic demo presets used to lay out the editor
// before any user presets exist. Preset i is named "Test i" and runs from the
// origin to (i/50, i/50).
func TestPresets(n int) []Preset {
	if n < 0 {
		n = 0
	}
	out := make([]Preset, n)
	for i := range out {
		v := float32(i) / 50
		out[i] = Preset{
			Name:  fmt.Sprintf("Test %d", i),
			Curve: NewCurve(Node{X: 0, Y: 0}, Node{X: v, Y: v}),
		}
	}
	return out
}
