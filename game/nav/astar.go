package nav

import "container/heap"

type node struct {
	cell   Cell
	g, f   int
	seq    int // insertion order, breaks f-score ties deterministically
	parent *node
}

type openHeap []*node

func (h openHeap) Len() int { return len(h) }

func (h openHeap) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].seq < h[j].seq
}

func (h openHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *openHeap) Push(x any) { *h = append(*h, x.(*node)) }

func (h *openHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// Eight hop directions, cardinals before diagonals so ties resolve the
// same way on every run.
var dirs = [8]Cell{
	{0, 1}, {0, -1}, {1, 0}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

func manhattan(a, b Cell) int {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// AStar finds a shortest 8-directional hop path from `from` to `to`,
// excluding the start and including the end. All hops cost 1. Returns nil
// when no path exists; callers treat that as a designed degradation and
// fall back to direct-line movement.
func AStar(g *Grid, from, to Cell) []Cell {
	if g == nil || !g.Walkable(to) || !g.Walkable(from) {
		return nil
	}
	if from == to {
		return []Cell{}
	}

	closed := make(map[Cell]bool)
	gScore := map[Cell]int{from: 0}

	open := &openHeap{}
	seq := 0
	heap.Push(open, &node{cell: from, g: 0, f: manhattan(from, to), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*node)
		if closed[cur.cell] {
			continue
		}
		closed[cur.cell] = true

		if cur.cell == to {
			var path []Cell
			for n := cur; n.parent != nil; n = n.parent {
				path = append(path, n.cell)
			}
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return path
		}

		for _, d := range dirs {
			nc := Cell{cur.cell.X + d.X, cur.cell.Y + d.Y}
			if closed[nc] || !g.Walkable(nc) {
				continue
			}
			ng := cur.g + 1
			if prev, ok := gScore[nc]; !ok || ng < prev {
				gScore[nc] = ng
				seq++
				heap.Push(open, &node{
					cell:   nc,
					g:      ng,
					f:      ng + manhattan(nc, to),
					seq:    seq,
					parent: cur,
				})
			}
		}
	}

	return nil // no path
}
