package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cell is a grid coordinate on the ground plane.
type Cell struct {
	X int
	Z int
}

// Grid is the walkable area used for path planning. Walls block every cell
// their footprint, grown by the agent clearance, touches.
type Grid struct {
	width    int
	depth    int
	size     float64
	blocked  []bool
	version  int
	maxNodes int
}

func NewGrid(width, depth, cellSize float64) *Grid {
	if cellSize <= 0 {
		cellSize = 0.5
	}
	w := max(1, int(math.Ceil(width/cellSize)))
	d := max(1, int(math.Ceil(depth/cellSize)))
	return &Grid{
		width:    w,
		depth:    d,
		size:     cellSize,
		blocked:  make([]bool, w*d),
		maxNodes: 8*w*d + 1,
	}
}

func (g *Grid) Width() int        { return g.width }
func (g *Grid) Depth() int        { return g.depth }
func (g *Grid) CellSize() float64 { return g.size }

// Version changes every time the blocked set changes. Paths planned on an
// older version are stale.
func (g *Grid) Version() int { return g.version }

func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.Z >= 0 && c.X < g.width && c.Z < g.depth
}

func (g *Grid) Blocked(c Cell) bool {
	if !g.InBounds(c) {
		return true
	}
	return g.blocked[c.Z*g.width+c.X]
}

// CellOf returns the cell containing p, clamped to the grid.
func (g *Grid) CellOf(p mgl64.Vec3) Cell {
	x := int(math.Floor(p.X() / g.size))
	z := int(math.Floor(p.Z() / g.size))
	return Cell{X: min(max(x, 0), g.width-1), Z: min(max(z, 0), g.depth-1)}
}

// Center returns the world position of the middle of c at height y.
func (g *Grid) Center(c Cell, y float64) mgl64.Vec3 {
	return mgl64.Vec3{(float64(c.X) + 0.5) * g.size, y, (float64(c.Z) + 0.5) * g.size}
}

// BlockBox blocks the cells under an axis aligned box grown by clearance.
func (g *Grid) BlockBox(center, size mgl64.Vec3, clearance float64) {
	hx, hz := size.X()/2+clearance, size.Z()/2+clearance
	lo := g.CellOf(mgl64.Vec3{center.X() - hx, 0, center.Z() - hz})
	hi := g.CellOf(mgl64.Vec3{center.X() + hx, 0, center.Z() + hz})
	for z := lo.Z; z <= hi.Z; z++ {
		for x := lo.X; x <= hi.X; x++ {
			g.blocked[z*g.width+x] = true
		}
	}
	g.version++
}

// Nearest returns the closest free cell to c, searching rings outwards.
func (g *Grid) Nearest(c Cell) (Cell, bool) {
	if !g.Blocked(c) {
		return c, true
	}
	limit := max(g.width, g.depth)
	for r := 1; r < limit; r++ {
		best, bestD, found := Cell{}, math.MaxFloat64, false
		for z := c.Z - r; z <= c.Z+r; z++ {
			for x := c.X - r; x <= c.X+r; x++ {
				if max(abs(x-c.X), abs(z-c.Z)) != r {
					continue
				}
				n := Cell{X: x, Z: z}
				if g.Blocked(n) {
					continue
				}
				if d := math.Hypot(float64(x-c.X), float64(z-c.Z)); d < bestD {
					best, bestD, found = n, d, true
				}
			}
		}
		if found {
			return best, true
		}
	}
	return Cell{}, false
}

// Clear reports whether the straight segment between a and b only crosses
// free cells.
func (g *Grid) Clear(a, b mgl64.Vec3) bool {
	d := mgl64.Vec3{b.X() - a.X(), 0, b.Z() - a.Z()}
	steps := int(math.Ceil(d.Len()/(g.size*0.25))) + 1
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if g.Blocked(g.CellOf(a.Add(d.Mul(t)))) {
			return false
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
