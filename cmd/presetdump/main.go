// presetdump prints the preset list layout and the rendered geometry of one
// slot without opening a window.
//
//	presetdump -mode gate -index 5 -width 500 -height 500
//	presetdump -file presets.json -steps 16 -interp hermite -json
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/edward-ap/functor/internal/adapter"
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/curve"
	"github.com/edward-ap/functor/internal/presetstore"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "presetdump:", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("presetdump", flag.ContinueOnError)
	fs.SetOutput(out)
	file := fs.String("file", "", "preset file to read; demo presets when empty")
	n := fs.Int("n", 12, "number of demo presets per collection")
	modeName := fs.String("mode", "beat", "collection to select: beat or gate")
	index := fs.Int("index", 0, "slot to select")
	width := fs.Float64("width", 500, "target width in pixels")
	height := fs.Float64("height", 500, "target height in pixels")
	steps := fs.Int("steps", 0, "interpolated path samples; 0 prints no path")
	interpName := fs.String("interp", "linear", "path interpolation: drop, linear, cubic or hermite")
	asJSON := fs.Bool("json", false, "print the drawing as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	mode, err := curve.ParseMode(*modeName)
	if err != nil {
		return err
	}
	in, err := curve.ParseInterpolation(*interpName)
	if err != nil {
		return err
	}

	var b *bank.Bank
	if *file != "" {
		s, err := presetstore.Load(*file)
		if err != nil {
			return err
		}
		b = s.NewBank()
	} else {
		b = bank.NewDemo(*n)
	}
	b.Select(mode, *index)

	r := adapter.Rect{W: float32(*width), H: float32(*height)}
	d, renderErr := adapter.Render(b, r, adapter.RenderOptions{Interpolation: in, Steps: *steps})

	if *asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d); err != nil {
			return err
		}
		return renderErr
	}

	for _, m := range curve.Modes() {
		printRows(out, b, m)
	}
	fmt.Fprintf(out, "selected %s[%d]\n", mode, *index)
	if renderErr != nil {
		fmt.Fprintf(out, "border %s (no curve: %v)\n", formatRect(d.Border), renderErr)
		return nil
	}
	fmt.Fprintf(out, "border %s\n", formatRect(d.Border))
	for i, p := range d.Nodes {
		fmt.Fprintf(out, "node %d at %s marker %s\n", i, formatPoint(p), formatRect(d.Markers[i]))
	}
	if len(d.Path) > 0 {
		pts := make([]string, len(d.Path))
		for i, p := range d.Path {
			pts[i] = formatPoint(p)
		}
		fmt.Fprintf(out, "path %s\n", strings.Join(pts, " "))
	}
	return nil
}

func printRows(out io.Writer, b *bank.Bank, mode curve.Mode) {
	fmt.Fprintf(out, "%s (%d)\n", mode, b.CollectionLength(mode))
	for _, row := range adapter.Entries(b, mode) {
		cells := make([]string, len(row))
		for i, e := range row {
			cells[i] = fmt.Sprintf("[%d] %s", e.Index, e.Label)
		}
		fmt.Fprintf(out, "  %s\n", strings.Join(cells, " | "))
	}
}

func formatPoint(p adapter.Point) string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

func formatRect(r adapter.Rect) string {
	return fmt.Sprintf("%gx%g+%g+%g", r.W, r.H, r.X, r.Y)
}
