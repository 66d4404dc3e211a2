package nav

import "github.com/overdrive-game/hordeai/geom"

// Cell is a 2D occupancy-grid coordinate.
type Cell struct {
	X, Y int
}

// Grid is a shared walkable/blocked occupancy grid. It is read by every
// agent within a tick without locking; mutation (level streaming) happens
// between ticks by the simulation driver.
type Grid struct {
	Width, Height int
	CellSize      float64
	blocked       []bool
}

// NewGrid creates a fully walkable grid. cellSize maps world units to
// cells; a non-positive value defaults to 1.
func NewGrid(width, height int, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		Width:    width,
		Height:   height,
		CellSize: cellSize,
		blocked:  make([]bool, width*height),
	}
}

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

func (g *Grid) Walkable(c Cell) bool {
	if !g.InBounds(c) {
		return false
	}
	return !g.blocked[c.Y*g.Width+c.X]
}

// SetBlocked marks a cell blocked or walkable. Out-of-bounds cells are
// ignored.
func (g *Grid) SetBlocked(c Cell, blocked bool) {
	if !g.InBounds(c) {
		return
	}
	g.blocked[c.Y*g.Width+c.X] = blocked
}

// CellAt maps a world position onto the grid (XZ plane).
func (g *Grid) CellAt(p geom.Vec3) Cell {
	return Cell{X: int(p.X / g.CellSize), Y: int(p.Z / g.CellSize)}
}

// Center returns the world-space center of a cell at ground height.
func (g *Grid) Center(c Cell) geom.Vec3 {
	return geom.Vec3{
		X: (float64(c.X) + 0.5) * g.CellSize,
		Z: (float64(c.Y) + 0.5) * g.CellSize,
	}
}
