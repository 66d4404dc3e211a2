package nav

import (
	"testing"

	"github.com/overdrive-game/hordeai/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAStar_StraightLine(t *testing.T) {
	g := NewGrid(10, 10, 1)
	path := AStar(g, Cell{0, 0}, Cell{4, 0})
	require.Len(t, path, 4)
	assert.Equal(t, Cell{4, 0}, path[len(path)-1])
}

func TestAStar_DiagonalIsShortest(t *testing.T) {
	g := NewGrid(10, 10, 1)
	// With 8-directional hops the minimal hop count to (4,4) is 4.
	path := AStar(g, Cell{0, 0}, Cell{4, 4})
	require.Len(t, path, 4)
	assert.Equal(t, Cell{4, 4}, path[len(path)-1])
}

func TestAStar_RoutesAroundWall(t *testing.T) {
	g := NewGrid(7, 7, 1)
	// Vertical wall at x=3 with a gap at y=6.
	for y := 0; y < 6; y++ {
		g.SetBlocked(Cell{3, y}, true)
	}
	path := AStar(g, Cell{0, 3}, Cell{6, 3})
	require.NotNil(t, path)
	assert.Equal(t, Cell{6, 3}, path[len(path)-1])
	for _, c := range path {
		assert.True(t, g.Walkable(c), "path crosses blocked cell %v", c)
	}
	// Must be longer than the unobstructed distance.
	assert.Greater(t, len(path), 6)
}

func TestAStar_NoPathWhenDisconnected(t *testing.T) {
	g := NewGrid(9, 9, 1)
	for y := 0; y < 9; y++ {
		g.SetBlocked(Cell{4, y}, true)
	}
	assert.Nil(t, AStar(g, Cell{0, 4}, Cell{8, 4}))
}

func TestAStar_BlockedEndpoints(t *testing.T) {
	g := NewGrid(5, 5, 1)
	g.SetBlocked(Cell{2, 2}, true)
	assert.Nil(t, AStar(g, Cell{0, 0}, Cell{2, 2}))
	assert.Nil(t, AStar(g, Cell{2, 2}, Cell{0, 0}))
}

func TestAStar_SameCell(t *testing.T) {
	g := NewGrid(5, 5, 1)
	path := AStar(g, Cell{1, 1}, Cell{1, 1})
	require.NotNil(t, path)
	assert.Empty(t, path)
}

func TestAStar_Deterministic(t *testing.T) {
	g := NewGrid(12, 12, 1)
	g.SetBlocked(Cell{5, 5}, true)
	g.SetBlocked(Cell{5, 6}, true)
	first := AStar(g, Cell{0, 0}, Cell{11, 11})
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, AStar(g, Cell{0, 0}, Cell{11, 11}))
	}
}

func TestGrid_CellMapping(t *testing.T) {
	g := NewGrid(10, 10, 2)
	c := g.CellAt(geom.Vec3{X: 5, Z: 7})
	assert.Equal(t, Cell{2, 3}, c)
	center := g.Center(c)
	assert.InDelta(t, 5.0, center.X, 1e-9)
	assert.InDelta(t, 7.0, center.Z, 1e-9)
}

func TestGrid_Bounds(t *testing.T) {
	g := NewGrid(3, 3, 1)
	assert.False(t, g.Walkable(Cell{-1, 0}))
	assert.False(t, g.Walkable(Cell{3, 0}))
	g.SetBlocked(Cell{9, 9}, true) // out of bounds, ignored
	assert.True(t, g.Walkable(Cell{2, 2}))
}
