package sim

import (
	"container/heap"
	"math"
)

var neighbours = [8]struct {
	dx, dz int
	cost   float64
}{
	{1, 0, 1}, {-1, 0, 1}, {0, 1, 1}, {0, -1, 1},
	{1, 1, math.Sqrt2}, {1, -1, math.Sqrt2}, {-1, 1, math.Sqrt2}, {-1, -1, math.Sqrt2},
}

type openNode struct {
	idx int
	f   float64
}

type openSet []openNode

func (o openSet) Len() int           { return len(o) }
func (o openSet) Less(i, j int) bool { return o[i].f < o[j].f }
func (o openSet) Swap(i, j int)      { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)        { *o = append(*o, x.(openNode)) }
func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	*o = old[:len(old)-1]
	return n
}

// AStar finds a path between two free cells on an 8-way grid. Diagonal
// steps may not cut blocked corners. It gives up after the grid's node
// budget and returns nil when the goal cannot be reached.
func (g *Grid) AStar(start, goal Cell) []Cell {
	if g.Blocked(start) || g.Blocked(goal) {
		return nil
	}
	if start == goal {
		return []Cell{start}
	}

	startIdx := start.Z*g.width + start.X
	goalIdx := goal.Z*g.width + goal.X

	cameFrom := make(map[int]int, 128)
	gScore := map[int]float64{startIdx: 0}
	closed := make(map[int]bool, 128)

	open := &openSet{{idx: startIdx, f: octile(start, goal)}}
	iterations := 0
	for open.Len() > 0 && iterations < g.maxNodes {
		iterations++
		current := heap.Pop(open).(openNode)
		if closed[current.idx] {
			continue
		}
		closed[current.idx] = true

		if current.idx == goalIdx {
			return g.reconstructPath(cameFrom, current.idx, startIdx)
		}

		cx, cz := current.idx%g.width, current.idx/g.width
		for _, n := range neighbours {
			next := Cell{X: cx + n.dx, Z: cz + n.dz}
			if g.Blocked(next) {
				continue
			}
			if n.dx != 0 && n.dz != 0 && (g.Blocked(Cell{X: cx + n.dx, Z: cz}) || g.Blocked(Cell{X: cx, Z: cz + n.dz})) {
				continue
			}
			nextIdx := next.Z*g.width + next.X
			if closed[nextIdx] {
				continue
			}
			tentative := gScore[current.idx] + n.cost
			if prev, seen := gScore[nextIdx]; seen && tentative >= prev {
				continue
			}
			cameFrom[nextIdx] = current.idx
			gScore[nextIdx] = tentative
			heap.Push(open, openNode{idx: nextIdx, f: tentative + octile(next, goal)})
		}
	}

	return nil
}

func (g *Grid) reconstructPath(cameFrom map[int]int, currentIdx, startIdx int) []Cell {
	path := make([]Cell, 0, 32)
	for {
		path = append(path, Cell{X: currentIdx % g.width, Z: currentIdx / g.width})
		if currentIdx == startIdx {
			break
		}
		prev, ok := cameFrom[currentIdx]
		if !ok {
			return nil
		}
		currentIdx = prev
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func octile(a, b Cell) float64 {
	dx := math.Abs(float64(a.X - b.X))
	dz := math.Abs(float64(a.Z - b.Z))
	return math.Max(dx, dz) + (math.Sqrt2-1)*math.Min(dx, dz)
}
