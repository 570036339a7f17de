// Package sim is a small top-down host for the zombie AI. Chipmunk runs on
// the ground plane (plane X is world x, plane Y is world z) and answers the
// ray and overlap queries, a grid A* stands in for the navmesh and a
// parameter table stands in for the animator.
package sim

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/deadearth/ai"
)

const allCategories = ^uint(0)

func toPlane(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

// Body is the part of a collider shared by spheres and boxes.
type Body struct {
	id      ai.ColliderID
	tag     ai.Tag
	layer   ai.Layer
	pos     mgl64.Vec3
	enabled bool

	body  *cp.Body
	shape *cp.Shape
}

func (b *Body) ID() ai.ColliderID      { return b.id }
func (b *Body) Tag() ai.Tag            { return b.tag }
func (b *Body) Layer() ai.Layer        { return b.layer }
func (b *Body) Position() mgl64.Vec3   { return b.pos }
func (b *Body) Enabled() bool          { return b.enabled }
func (b *Body) SetEnabled(on bool)     { b.enabled = on }
func (b *Body) LossyScale() mgl64.Vec3 { return mgl64.Vec3{1, 1, 1} }

// SetPosition moves the collider. Static bodies keep their shape where it
// was created.
func (b *Body) SetPosition(p mgl64.Vec3) {
	b.pos = p
	if b.body != nil && b.body.GetType() != cp.BODY_STATIC {
		b.body.SetPosition(toPlane(p))
	}
}

// Sphere is a circle on the plane.
type Sphere struct {
	*Body
	radius float64
}

func (s *Sphere) Center() mgl64.Vec3 { return mgl64.Vec3{} }
func (s *Sphere) Radius() float64    { return s.radius }

// Box is a box on the plane. Its local z axis points along yaw.
type Box struct {
	*Body
	size mgl64.Vec3
	yaw  float64
}

func (b *Box) Size() mgl64.Vec3 { return b.size }
func (b *Box) Yaw() float64     { return b.yaw }

// SetYaw turns the box. Static boxes stay axis aligned.
func (b *Box) SetYaw(yaw float64) {
	if b.body == nil || b.body.GetType() == cp.BODY_STATIC {
		return
	}
	b.yaw = yaw
	b.body.SetAngle(-yaw)
}

// Physics owns the chipmunk space and hands out collider ids.
type Physics struct {
	space  *cp.Space
	nextID ai.ColliderID
}

func NewPhysics() *Physics {
	space := cp.NewSpace()
	space.Iterations = 10
	return &Physics{space: space}
}

func (p *Physics) Space() *cp.Space { return p.space }

// NewID returns a fresh collider id for colliders that have no shape.
func (p *Physics) NewID() ai.ColliderID {
	p.nextID++
	return p.nextID
}

func (p *Physics) newBody(tag ai.Tag, layer ai.Layer, pos mgl64.Vec3) *Body {
	return &Body{id: p.NewID(), tag: tag, layer: layer, pos: pos, enabled: true}
}

func (p *Physics) attach(b *Body, shape *cp.Shape, c ai.Collider) {
	shape.SetFilter(cp.NewShapeFilter(0, uint(b.layer), allCategories))
	shape.UserData = c
	b.shape = p.space.AddShape(shape)
}

// Remove takes b's shape, and its kinematic body, out of the space. A
// removed collider is disabled and never hit again.
func (p *Physics) Remove(b *Body) {
	if b == nil || b.shape == nil {
		return
	}
	p.space.RemoveShape(b.shape)
	if b.body != nil && b.body != p.space.StaticBody {
		p.space.RemoveBody(b.body)
	}
	b.shape = nil
	b.body = nil
	b.enabled = false
}

// AddStaticBox adds an immovable box centred on center.
func (p *Physics) AddStaticBox(tag ai.Tag, layer ai.Layer, center, size mgl64.Vec3) *Box {
	b := &Box{Body: p.newBody(tag, layer, center), size: size}
	b.body = p.space.StaticBody
	hx, hz := size.X()/2, size.Z()/2
	bb := cp.BB{L: center.X() - hx, B: center.Z() - hz, R: center.X() + hx, T: center.Z() + hz}
	p.attach(b.Body, cp.NewBox2(p.space.StaticBody, bb, 0), b)
	return b
}

// AddStaticSphere adds an immovable circle.
func (p *Physics) AddStaticSphere(tag ai.Tag, layer ai.Layer, center mgl64.Vec3, radius float64) *Sphere {
	s := &Sphere{Body: p.newBody(tag, layer, center), radius: radius}
	s.body = p.space.StaticBody
	p.attach(s.Body, cp.NewCircle(p.space.StaticBody, radius, toPlane(center)), s)
	return s
}

// AddSphere adds a circle on a kinematic body that follows SetPosition.
func (p *Physics) AddSphere(tag ai.Tag, layer ai.Layer, center mgl64.Vec3, radius float64) *Sphere {
	s := &Sphere{Body: p.newBody(tag, layer, center), radius: radius}
	s.body = p.space.AddBody(cp.NewKinematicBody())
	s.body.SetPosition(toPlane(center))
	p.attach(s.Body, cp.NewCircle(s.body, radius, cp.Vector{}), s)
	return s
}

// AddBox adds a box on a kinematic body that follows SetPosition.
func (p *Physics) AddBox(tag ai.Tag, layer ai.Layer, center, size mgl64.Vec3) *Box {
	b := &Box{Body: p.newBody(tag, layer, center), size: size}
	b.body = p.space.AddBody(cp.NewKinematicBody())
	b.body.SetPosition(toPlane(center))
	p.attach(b.Body, cp.NewBox(b.body, size.X(), size.Z(), 0), b)
	return b
}

// Step moves kinematic shapes to their bodies and refreshes the index.
func (p *Physics) Step(dt float64) {
	if dt <= 0 {
		return
	}
	p.space.Step(dt)
}

func colliderOf(shape *cp.Shape) (ai.Collider, *Body) {
	switch c := shape.UserData.(type) {
	case *Sphere:
		return c, c.Body
	case *Box:
		return c, c.Body
	}
	return nil, nil
}

// RaycastAll implements ai.Spatial. Hits are sorted by distance.
func (p *Physics) RaycastAll(origin, direction mgl64.Vec3, maxDistance float64, mask ai.Layer) []ai.RaycastHit {
	if maxDistance <= 0 || direction.LenSqr() == 0 {
		return nil
	}
	end := origin.Add(direction.Normalize().Mul(maxDistance))
	filter := cp.NewShapeFilter(0, allCategories, uint(mask))

	var hits []ai.RaycastHit
	p.space.SegmentQuery(toPlane(origin), toPlane(end), 0, filter, func(shape *cp.Shape, point, normal cp.Vector, alpha float64, data interface{}) {
		c, b := colliderOf(shape)
		if c == nil || !b.enabled {
			return
		}
		hits = append(hits, ai.RaycastHit{
			Distance: alpha * maxDistance,
			Collider: c,
			Point:    mgl64.Vec3{point.X, origin.Y() + (end.Y()-origin.Y())*alpha, point.Y},
		})
	}, nil)

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Overlaps returns the enabled colliders on mask touching the circle, in id
// order.
func (p *Physics) Overlaps(center mgl64.Vec3, radius float64, mask ai.Layer) []ai.Collider {
	c := toPlane(center)
	bb := cp.BB{L: c.X - radius, B: c.Y - radius, R: c.X + radius, T: c.Y + radius}
	filter := cp.NewShapeFilter(0, allCategories, uint(mask))

	var out []ai.Collider
	p.space.BBQuery(bb, filter, func(shape *cp.Shape, data interface{}) {
		col, b := colliderOf(shape)
		if col == nil || !b.enabled {
			return
		}
		if circleTouches(c, radius, col) {
			out = append(out, col)
		}
	}, nil)

	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// circleTouches tests a circle on the plane against a collider's footprint.
func circleTouches(c cp.Vector, r float64, col ai.Collider) bool {
	pos := toPlane(col.Position())
	switch v := col.(type) {
	case *Sphere:
		return c.Distance(pos) <= r+v.radius
	case *Box:
		sin, cos := math.Sincos(v.yaw)
		ox, oz := c.X-pos.X, c.Y-pos.Y
		lx, lz := cos*ox-sin*oz, sin*ox+cos*oz
		dx := math.Max(math.Abs(lx)-v.size.X()/2, 0)
		dz := math.Max(math.Abs(lz)-v.size.Z()/2, 0)
		return dx*dx+dz*dz <= r*r
	}
	return c.Distance(pos) <= r
}
