// Package render draws text minimaps of robot bodies and actuation grids.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"morphogen/internal/grid"
	"morphogen/internal/robot"
)

const (
	emptyCell = '.'
	levels    = "▁▂▃▄▅▆▇█"
)

// voxelRune shows the input dimension of a voxel, '+' above nine.
func voxelRune(v robot.Voxel) rune {
	n := v.InputDimension()
	if n > 9 {
		return '+'
	}
	return rune('0' + n)
}

// Minimap draws a body one row per line, row 0 first. Absent cells are dots
// and voxels show their number of sensor readings.
func Minimap(body robot.Body) string {
	return plot(body, func(v robot.Voxel) string { return string(voxelRune(v)) })
}

// ActuationMap draws actuation values in [-1, 1] as bars of growing height.
func ActuationMap(values *grid.Grid[float64]) string {
	return plot(values, func(v float64) string { return string(level(v)) })
}

func level(v float64) rune {
	bars := []rune(levels)
	v = min(max(v, -1), 1)
	i := int((v + 1) / 2 * float64(len(bars)))
	return bars[min(i, len(bars)-1)]
}

func plot[T any](g *grid.Grid[T], cell func(T) string) string {
	var b strings.Builder
	for y := range g.H() {
		for x := range g.W() {
			if !g.Present(x, y) {
				b.WriteRune(emptyCell)
				continue
			}
			b.WriteString(cell(g.Value(x, y)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Painter writes minimaps, coloured when the output is a terminal.
type Painter struct {
	w        io.Writer
	sensing  *color.Color
	blind    *color.Color
	constant *color.Color
	negative *color.Color
	positive *color.Color
	header   *color.Color
}

func NewPainter(w io.Writer) *Painter {
	p := &Painter{
		w:        w,
		sensing:  color.New(color.FgGreen),
		blind:    color.New(color.FgYellow),
		constant: color.New(color.FgCyan),
		negative: color.New(color.FgRed),
		positive: color.New(color.FgGreen),
		header:   color.New(color.Bold),
	}
	p.SetColor(isTerminal(w) && os.Getenv("NO_COLOR") == "")
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetColor forces colour output on or off.
func (p *Painter) SetColor(enabled bool) {
	for _, c := range []*color.Color{p.sensing, p.blind, p.constant, p.negative, p.positive, p.header} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func (p *Painter) voxel(v robot.Voxel) string {
	r := string(voxelRune(v))
	switch {
	case len(v.Sensors) == 0:
		return p.blind.Sprint(r)
	case hasConstant(v):
		return p.constant.Sprint(r)
	}
	return p.sensing.Sprint(r)
}

func hasConstant(v robot.Voxel) bool {
	for _, s := range v.Sensors {
		if s.Kind == robot.ConstantKind {
			return true
		}
	}
	return false
}

// Body writes a titled minimap of body.
func (p *Painter) Body(title string, body robot.Body) error {
	if _, err := fmt.Fprintf(p.w, "%s %s\n", p.header.Sprint(title), body); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, plot(body, p.voxel))
	return err
}

// Actuation writes a titled actuation map.
func (p *Painter) Actuation(title string, values *grid.Grid[float64]) error {
	if _, err := fmt.Fprintf(p.w, "%s\n", p.header.Sprint(title)); err != nil {
		return err
	}
	_, err := io.WriteString(p.w, plot(values, func(v float64) string {
		if v < 0 {
			return p.negative.Sprint(string(level(v)))
		}
		return p.positive.Sprint(string(level(v)))
	}))
	return err
}
