package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

// cornerEpsilon is how close an agent must get to a path corner before it
// steers for the next one.
const cornerEpsilon = 0.05

// Navigator plans on a Grid and walks its transform along the result.
// Planning is synchronous, so a path is never pending.
type Navigator struct {
	grid      *Grid
	transform *Transform

	corners []mgl64.Vec3
	status  ai.PathStatus
	version int

	speed          float64
	velocity       mgl64.Vec3
	override       bool
	stopped        bool
	updatePosition bool
	updateRotation bool
}

func NewNavigator(g *Grid, t *Transform) *Navigator {
	return &Navigator{
		grid:           g,
		transform:      t,
		status:         ai.PathInvalid,
		updatePosition: true,
		updateRotation: true,
	}
}

// SetDestination plans a path to p. A destination inside a wall snaps to
// the nearest free cell and yields a partial path.
func (n *Navigator) SetDestination(p mgl64.Vec3) bool {
	n.corners = nil
	n.version = n.grid.Version()

	pos := n.transform.Position()
	start, ok := n.grid.Nearest(n.grid.CellOf(pos))
	if !ok {
		n.status = ai.PathInvalid
		return false
	}
	want := n.grid.CellOf(p)
	goal, ok := n.grid.Nearest(want)
	if !ok {
		n.status = ai.PathInvalid
		return false
	}

	cells := n.grid.AStar(start, goal)
	if cells == nil {
		n.status = ai.PathInvalid
		return false
	}

	end := mgl64.Vec3{p.X(), pos.Y(), p.Z()}
	n.status = ai.PathComplete
	if goal != want {
		n.status = ai.PathPartial
		end = n.grid.Center(goal, pos.Y())
	}

	points := make([]mgl64.Vec3, 0, len(cells)+1)
	for _, c := range cells[1:] {
		points = append(points, n.grid.Center(c, pos.Y()))
	}
	if len(points) > 0 {
		points = points[:len(points)-1]
	}
	points = append(points, end)
	n.corners = n.smooth(pos, points)
	return true
}

// smooth drops corners that can be skipped with a clear line of sight.
func (n *Navigator) smooth(from mgl64.Vec3, points []mgl64.Vec3) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, 0, len(points))
	anchor := from
	for i := 0; i < len(points); i++ {
		j := i
		for j+1 < len(points) && n.grid.Clear(anchor, points[j+1]) {
			j++
		}
		out = append(out, points[j])
		anchor = points[j]
		i = j
	}
	return out
}

func (n *Navigator) PathPending() bool         { return false }
func (n *Navigator) HasPath() bool             { return len(n.corners) > 0 }
func (n *Navigator) PathStatus() ai.PathStatus { return n.status }

// IsPathStale reports whether the grid changed since the path was planned.
func (n *Navigator) IsPathStale() bool {
	return n.HasPath() && n.version != n.grid.Version()
}

// Corners returns the remaining path.
func (n *Navigator) Corners() []mgl64.Vec3 { return n.corners }

func (n *Navigator) SteeringTarget() mgl64.Vec3 {
	if len(n.corners) == 0 {
		return n.transform.Position()
	}
	return n.corners[0]
}

// RemainingDistance is the length of the rest of the path.
func (n *Navigator) RemainingDistance() float64 {
	d, prev := 0.0, n.transform.Position()
	for _, c := range n.corners {
		d += common.Distance(prev, c)
		prev = c
	}
	return d
}

func (n *Navigator) DesiredVelocity() mgl64.Vec3 {
	if n.stopped || len(n.corners) == 0 {
		return mgl64.Vec3{}
	}
	dir := common.SafeNormalize(common.Flatten(n.corners[0].Sub(n.transform.Position())))
	return dir.Mul(n.speed)
}

// SetVelocity overrides the velocity for the next Update.
func (n *Navigator) SetVelocity(v mgl64.Vec3) {
	n.velocity = v
	n.override = true
}

func (n *Navigator) SetSpeed(s float64)             { n.speed = s }
func (n *Navigator) SetStopped(stopped bool)        { n.stopped = stopped }
func (n *Navigator) Stopped() bool                  { return n.stopped }
func (n *Navigator) SetUpdatePosition(enabled bool) { n.updatePosition = enabled }
func (n *Navigator) SetUpdateRotation(enabled bool) { n.updateRotation = enabled }

// Update walks the transform along the path for dt seconds. It reports the
// distance moved.
func (n *Navigator) Update(dt float64) float64 {
	override, velocity := n.override, n.velocity
	n.override = false
	n.velocity = mgl64.Vec3{}

	if n.stopped || dt <= 0 || len(n.corners) == 0 {
		return 0
	}

	step := n.speed * dt
	if override {
		step = common.Flatten(velocity).Len() * dt
	}
	if !n.updatePosition || step <= 0 {
		return 0
	}

	pos := n.transform.Position()
	moved := 0.0
	for step > 0 && len(n.corners) > 0 {
		to := mgl64.Vec3{n.corners[0].X(), pos.Y(), n.corners[0].Z()}
		d := common.Distance(pos, to)
		if d <= step || d < cornerEpsilon {
			pos = to
			step -= d
			moved += d
			n.corners = n.corners[1:]
			continue
		}
		dir := to.Sub(pos).Mul(1 / d)
		pos = pos.Add(dir.Mul(step))
		moved += step
		step = 0
	}

	if n.updateRotation {
		if q, ok := common.LookRotation(pos.Sub(n.transform.Position())); ok {
			n.transform.SetRotation(q)
		}
	}
	n.transform.SetPosition(pos)
	return moved
}
