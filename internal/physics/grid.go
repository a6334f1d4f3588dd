package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// SpatialGrid is a uniform grid for broad-phase collision detection in a wrapping field.
// Items are inserted by position and index, then nearby items can be queried
// through a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding items so that all potential collisions are found within
// the 3x3 neighborhood.
type SpatialGrid struct {
	invCellSize float64
	cols        int
	rows        int
	cells       [][]int
	seen        []int // neighborhood cells already visited by the current query
}

// NewSpatialGrid creates a spatial grid covering the given field dimensions.
func NewSpatialGrid(width, height, cellSize float64) *SpatialGrid {
	cols := max(int(math.Ceil(width/cellSize)), 1)
	rows := max(int(math.Ceil(height/cellSize)), 1)

	return &SpatialGrid{
		invCellSize: 1.0 / cellSize,
		cols:        cols,
		rows:        rows,
		cells:       make([][]int, cols*rows),
		seen:        make([]int, 0, 9),
	}
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an item (identified by index) at the given position.
func (g *SpatialGrid) Insert(pos mgl64.Vec2, index int) {
	col, row := g.posToCell(pos)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around pos, wrapping at field edges. Each item is visited at most once, even
// when the grid is so small that the neighborhood wraps onto itself.
// If fn returns true, iteration stops early.
func (g *SpatialGrid) QueryAround(pos mgl64.Vec2, fn func(index int) bool) {
	col, row := g.posToCell(pos)
	g.seen = g.seen[:0]

	for dr := -1; dr <= 1; dr++ {
		r := wrapIndex(row+dr, g.rows)
		for dc := -1; dc <= 1; dc++ {
			c := wrapIndex(col+dc, g.cols)
			cell := r*g.cols + c
			if g.visited(cell) {
				continue
			}
			g.seen = append(g.seen, cell)

			for _, item := range g.cells[cell] {
				if fn(item) {
					return
				}
			}
		}
	}
}

func (g *SpatialGrid) visited(cell int) bool {
	for _, s := range g.seen {
		if s == cell {
			return true
		}
	}
	return false
}

func wrapIndex(i, n int) int {
	if i < 0 {
		return i + n
	}
	if i >= n {
		return i - n
	}
	return i
}

// posToCell converts a position to grid cell coordinates.
// Positions slightly outside the field (entities wrap by their edge, not
// their center) are clamped to the border cells.
func (g *SpatialGrid) posToCell(pos mgl64.Vec2) (col, row int) {
	col = min(max(int(math.Floor(pos.X()*g.invCellSize)), 0), g.cols-1)
	row = min(max(int(math.Floor(pos.Y()*g.invCellSize)), 0), g.rows-1)
	return col, row
}
