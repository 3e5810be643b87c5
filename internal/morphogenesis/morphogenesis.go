// Package morphogenesis turns a continuous per-cell field into a discrete
// body: percentile threshold, largest 4-connected component, crop to the
// bounding box and a deterministic single-cell fallback.
package morphogenesis

import (
	"fmt"

	"morphogen/internal/grid"
	"morphogen/internal/nn"
)

// Layout tells how the channels of a field cell are interpreted.
type Layout int

const (
	// FirstChannelMaterial reads material presence from channel 0 and
	// capability scores from channels 1 onwards.
	FirstChannelMaterial Layout = iota
	// MaxChannelMaterial uses the maximum of all channels as material
	// presence and the arg-max channel as capability.
	MaxChannelMaterial
)

func (l Layout) String() string {
	switch l {
	case FirstChannelMaterial:
		return "first-channel"
	case MaxChannelMaterial:
		return "max-channel"
	}
	return fmt.Sprintf("layout(%d)", int(l))
}

// Material returns the material presence value of a field cell.
func (l Layout) Material(channels []float64) float64 {
	if len(channels) == 0 {
		return 0
	}
	if l == MaxChannelMaterial {
		return channels[nn.ArgMax(channels)]
	}
	return channels[0]
}

// Capability returns the selected capability index of a field cell; ties go
// to the lowest index and cells without capability channels select 0.
func (l Layout) Capability(channels []float64) int {
	scores := channels
	if l == FirstChannelMaterial {
		if len(channels) <= 1 {
			return 0
		}
		scores = channels[1:]
	}
	return max(nn.ArgMax(scores), 0)
}

type Config struct {
	// Percentile of the material values used as activation threshold. Values
	// <= 0 select a threshold of 0.
	Percentile float64
	Layout     Layout
	// PositionEncoding appends the normalised position of every surviving
	// cell within the cropped grid.
	PositionEncoding bool
}

// Cell is one populated position of a developed body.
type Cell struct {
	Material   float64
	Capability int
	// Position is (x/(W-1), y/(H-1)) within the developed grid, or nil when
	// position encoding is off. Size-1 axes encode 0.
	Position []float64
}

// Threshold computes the activation threshold of field under cfg.
func Threshold(field *grid.Grid[[]float64], cfg Config) float64 {
	if cfg.Percentile <= 0 {
		return 0
	}
	values := make([]float64, 0, field.Count())
	for _, v := range field.Values() {
		values = append(values, cfg.Layout.Material(v))
	}
	return Percentile(values, cfg.Percentile)
}

// Carve keeps the cells whose material reaches threshold, restricts them to
// the largest 4-connected component and crops to its bounding box. The
// result may be empty (0x0). Carve is idempotent for a fixed threshold.
func Carve(field *grid.Grid[[]float64], threshold float64, layout Layout) *grid.Grid[[]float64] {
	active := grid.Map(field, func(_, _ int, v []float64) ([]float64, bool) {
		return v, layout.Material(v) >= threshold
	})
	return grid.Crop(grid.LargestConnected(active, nil))
}

// Shape carves field and applies the single-cell fallback: when nothing
// survives, a 1x1 grid holds the origin cell of field. The surviving cells
// keep their raw channels.
func Shape(field *grid.Grid[[]float64], cfg Config) *grid.Grid[[]float64] {
	carved := Carve(field, Threshold(field, cfg), cfg.Layout)
	if carved.Count() > 0 {
		return carved
	}
	var origin []float64
	if field.W() > 0 && field.H() > 0 {
		origin = field.Value(0, 0)
	}
	carved = grid.New[[]float64](1, 1)
	carved.Set(0, 0, origin)
	return carved
}

// Develop runs the whole morphogenesis on field. The result always has at
// least one populated cell. Idempotence holds for a fixed threshold only:
// Develop recomputes the percentile on every call, so developing its own
// output again may shrink it. Use Carve with a saved Threshold to re-apply
// the same cut.
func Develop(field *grid.Grid[[]float64], cfg Config) *grid.Grid[Cell] {
	shaped := Shape(field, cfg)
	w, h := shaped.W(), shaped.H()
	return grid.Map(shaped, func(x, y int, v []float64) (Cell, bool) {
		c := Cell{Material: cfg.Layout.Material(v), Capability: cfg.Layout.Capability(v)}
		if cfg.PositionEncoding {
			c.Position = []float64{grid.Normalize(x, w), grid.Normalize(y, h)}
		}
		return c, true
	})
}

// Sample evaluates a 2-input function at the normalised coordinates of every
// cell of a w x h grid, producing a morphogenetic field.
func Sample(f nn.Function, w, h int) (*grid.Grid[[]float64], error) {
	if f.InputDimension() != 2 {
		return nil, fmt.Errorf("field function must take 2 inputs, got %d", f.InputDimension())
	}
	f = f.Clone()
	field := grid.New[[]float64](w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v, err := f.Apply(0, []float64{grid.Normalize(x, w), grid.Normalize(y, h)})
			if err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", x, y, err)
			}
			field.Set(x, y, v)
		}
	}
	return field, nil
}
