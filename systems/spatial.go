// Package systems contains the per-step systems of the reference engine.
package systems

import "math"

// maxGridCells bounds the grid allocation when particles are widely spread.
const maxGridCells = 1 << 16

// SpatialGrid provides near-constant-time neighbor lookups using a cell-based
// grid sized to the current particle extent. Entries are body indices.
type SpatialGrid struct {
	cellSize   float64
	minX, minY float64
	cols, rows int
	cells      [][]int
}

// NewSpatialGrid creates an empty grid. Call Reset before inserting.
func NewSpatialGrid() *SpatialGrid {
	return &SpatialGrid{}
}

// Reset clears the grid and re-sizes it to cover the given bounds.
// If the bounds would need more than maxGridCells cells, the cell size grows.
func (g *SpatialGrid) Reset(minX, minY, maxX, maxY, cellSize float64) {
	w := maxX - minX
	h := maxY - minY
	if !(w >= 0) || !(h >= 0) || math.IsInf(w, 0) || math.IsInf(h, 0) {
		// Unbounded extent: everything shares one cell.
		w, h = 0, 0
	}
	if !(cellSize > 0) {
		cellSize = 1
	}
	for (math.Floor(w/cellSize)+1)*(math.Floor(h/cellSize)+1) > maxGridCells {
		cellSize *= 2
	}
	cols := int(w/cellSize) + 1
	rows := int(h/cellSize) + 1

	g.cellSize = cellSize
	g.minX = minX
	g.minY = minY
	g.cols = cols
	g.rows = rows

	n := cols * rows
	if cap(g.cells) < n {
		g.cells = make([][]int, n)
	}
	g.cells = g.cells[:n]
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// CellSize returns the effective cell size after the last Reset.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Insert adds body index i to the grid at the given position.
func (g *SpatialGrid) Insert(i int, x, y float64) {
	idx := g.cellIndex(x, y)
	g.cells[idx] = append(g.cells[idx], i)
}

// QueryRadiusInto appends to dst every index whose position (read from xs, ys)
// lies within radius of (x, y), excluding exclude. Reuse dst across calls.
func (g *SpatialGrid) QueryRadiusInto(dst []int, x, y, radius float64, exclude int, xs, ys []float64) []int {
	cellRadius := int(radius/g.cellSize) + 1
	centerCol, centerRow := g.cellOf(x, y)
	radiusSq := radius * radius

	for dr := -cellRadius; dr <= cellRadius; dr++ {
		row := centerRow + dr
		if row < 0 || row >= g.rows {
			continue
		}
		for dc := -cellRadius; dc <= cellRadius; dc++ {
			col := centerCol + dc
			if col < 0 || col >= g.cols {
				continue
			}
			for _, j := range g.cells[row*g.cols+col] {
				if j == exclude {
					continue
				}
				dx := xs[j] - x
				dy := ys[j] - y
				if dx*dx+dy*dy <= radiusSq {
					dst = append(dst, j)
				}
			}
		}
	}
	return dst
}

func (g *SpatialGrid) cellOf(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.minX) / g.cellSize))
	row = int(math.Floor((y - g.minY) / g.cellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}
	return col, row
}

// cellIndex returns the flat index for a world position.
func (g *SpatialGrid) cellIndex(x, y float64) int {
	col, row := g.cellOf(x, y)
	return row*g.cols + col
}
