package grid

// Direction indexes the 4-neighbourhood.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// Directions lists every direction in N, E, S, W order.
var Directions = [4]Direction{North, East, South, West}

// neighborOffsets lists 4-connectivity offsets: N, E, S, W.
var neighborOffsets = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// Opposite returns the direction pointing back.
func (d Direction) Opposite() Direction { return (d + 2) % 4 }

// Step returns the coordinates one cell away from (x,y) in direction d.
func (d Direction) Step(x, y int) (int, int) {
	return x + neighborOffsets[d][0], y + neighborOffsets[d][1]
}

// Neighbors returns the in-bounds 4-neighbours of (x,y) in N, E, S, W order.
func (g *Grid[T]) Neighbors(x, y int) [][2]int {
	out := make([][2]int, 0, len(neighborOffsets))
	for _, d := range neighborOffsets {
		nx, ny := x+d[0], y+d[1]
		if g.InBounds(nx, ny) {
			out = append(out, [2]int{nx, ny})
		}
	}
	return out
}

// Components returns the 4-connected regions of populated cells satisfying
// keep. Components are ordered by the row-major position of their first
// cell; each component lists cell indices (y*W + x) in BFS order.
func Components[T any](g *Grid[T], keep func(T) bool) [][]int {
	active := func(i int) bool {
		c := g.cells[i]
		return c.Present && (keep == nil || keep(c.Value))
	}
	seen := make([]bool, len(g.cells))
	var comps [][]int
	for i0 := range g.cells {
		if seen[i0] || !active(i0) {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			ux, uy := u%g.w, u/g.w
			for _, d := range neighborOffsets {
				vx, vy := ux+d[0], uy+d[1]
				if !g.InBounds(vx, vy) {
					continue
				}
				vi := vy*g.w + vx
				if !seen[vi] && active(vi) {
					seen[vi] = true
					queue = append(queue, vi)
				}
			}
		}
		comps = append(comps, queue)
	}
	return comps
}

// LargestConnected keeps only the largest 4-connected component of
// populated cells satisfying keep; every other cell becomes absent. Ties go
// to the component found first in row-major order.
func LargestConnected[T any](g *Grid[T], keep func(T) bool) *Grid[T] {
	out := EmptyLike[T](g)
	var largest []int
	for _, comp := range Components(g, keep) {
		if len(comp) > len(largest) {
			largest = comp
		}
	}
	for _, i := range largest {
		out.cells[i] = g.cells[i]
	}
	return out
}

// BoundingBox returns the smallest rectangle containing every populated
// cell. ok is false when no cell is populated.
func (g *Grid[T]) BoundingBox() (minX, minY, maxX, maxY int, ok bool) {
	minX, minY = g.w, g.h
	maxX, maxY = -1, -1
	for i, c := range g.cells {
		if !c.Present {
			continue
		}
		x, y := i%g.w, i/g.w
		minX = min(minX, x)
		minY = min(minY, y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}
	if maxX < 0 {
		return 0, 0, 0, 0, false
	}
	return minX, minY, maxX, maxY, true
}

// Crop returns the sub-grid spanning the bounding box of populated cells.
// A grid with no populated cell crops to 0×0.
func Crop[T any](g *Grid[T]) *Grid[T] {
	minX, minY, maxX, maxY, ok := g.BoundingBox()
	if !ok {
		return New[T](0, 0)
	}
	out := New[T](maxX-minX+1, maxY-minY+1)
	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			out.cells[(y-minY)*out.w+(x-minX)] = g.cells[y*g.w+x]
		}
	}
	return out
}

// Connected reports whether the populated cells form exactly one
// 4-connected region.
func Connected[T any](g *Grid[T]) bool {
	return len(Components(g, nil)) == 1
}
