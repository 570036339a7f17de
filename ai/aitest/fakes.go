// Package aitest provides in-memory hosts for exercising state machines in
// tests.
package aitest

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/common"
)

// Collider is a point collider.
type Collider struct {
	IDValue    ai.ColliderID
	TagValue   ai.Tag
	LayerValue ai.Layer
	Pos        mgl64.Vec3
}

func (c *Collider) ID() ai.ColliderID        { return c.IDValue }
func (c *Collider) Tag() ai.Tag              { return c.TagValue }
func (c *Collider) Layer() ai.Layer          { return c.LayerValue }
func (c *Collider) Position() mgl64.Vec3     { return c.Pos }
func (c *Collider) SetPosition(p mgl64.Vec3) { c.Pos = p }

// Sphere is a sphere collider.
type Sphere struct {
	Collider
	CenterValue mgl64.Vec3
	RadiusValue float64
	Scale       mgl64.Vec3
}

func (s *Sphere) Center() mgl64.Vec3 { return s.CenterValue }
func (s *Sphere) Radius() float64    { return s.RadiusValue }

func (s *Sphere) LossyScale() mgl64.Vec3 {
	if s.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return s.Scale
}

// Box is a box collider.
type Box struct {
	Collider
	SizeValue mgl64.Vec3
	Scale     mgl64.Vec3
}

func (b *Box) Size() mgl64.Vec3 { return b.SizeValue }

func (b *Box) LossyScale() mgl64.Vec3 {
	if b.Scale == (mgl64.Vec3{}) {
		return mgl64.Vec3{1, 1, 1}
	}
	return b.Scale
}

// NewPlayer returns a player collider on the player layer.
func NewPlayer(id ai.ColliderID, p mgl64.Vec3) *Collider {
	return &Collider{IDValue: id, TagValue: ai.TagPlayer, LayerValue: ai.LayerPlayer, Pos: p}
}

// NewFood returns a food collider on the visual aggravator layer.
func NewFood(id ai.ColliderID, p mgl64.Vec3) *Collider {
	return &Collider{IDValue: id, TagValue: ai.TagFood, LayerValue: ai.LayerVisualAggravator, Pos: p}
}

// NewLight returns a flashlight box of the given depth.
func NewLight(id ai.ColliderID, p mgl64.Vec3, depth float64) *Box {
	return &Box{
		Collider:  Collider{IDValue: id, TagValue: ai.TagFlashLight, LayerValue: ai.LayerVisualAggravator, Pos: p},
		SizeValue: mgl64.Vec3{1, 1, depth},
	}
}

// NewSound returns a sound emitter sphere.
func NewSound(id ai.ColliderID, p mgl64.Vec3, radius float64) *Sphere {
	return &Sphere{
		Collider:    Collider{IDValue: id, TagValue: ai.TagSoundEmitter, LayerValue: ai.LayerAudioAggravator, Pos: p},
		RadiusValue: radius,
	}
}

// NewBodyPart returns a body part collider.
func NewBodyPart(id ai.ColliderID, p mgl64.Vec3) *Collider {
	return &Collider{IDValue: id, LayerValue: ai.LayerBodyPart, Pos: p}
}

// NewWall returns an opaque collider on the default layer.
func NewWall(id ai.ColliderID, p mgl64.Vec3) *Collider {
	return &Collider{IDValue: id, LayerValue: ai.LayerDefault, Pos: p}
}

// Transform is a settable pose.
type Transform struct {
	Pos mgl64.Vec3
	Rot mgl64.Quat
}

// NewTransform returns a transform at p facing +Z.
func NewTransform(p mgl64.Vec3) *Transform {
	return &Transform{Pos: p, Rot: mgl64.QuatIdent()}
}

func (t *Transform) Position() mgl64.Vec3     { return t.Pos }
func (t *Transform) Rotation() mgl64.Quat     { return t.Rot }
func (t *Transform) SetRotation(q mgl64.Quat) { t.Rot = q }

// Face turns the transform towards p on the horizontal plane.
func (t *Transform) Face(p mgl64.Vec3) {
	if q, ok := common.LookRotation(p.Sub(t.Pos)); ok {
		t.Rot = q
	}
}

// Navigator records requests and reports whatever path state a test sets.
type Navigator struct {
	Destinations   []mgl64.Vec3
	Pending        bool
	Stale          bool
	Path           bool
	Status         ai.PathStatus
	Steering       mgl64.Vec3
	Desired        mgl64.Vec3
	Velocity       mgl64.Vec3
	Stopped        bool
	UpdatePosition bool
	UpdateRotation bool
}

// NewNavigator returns a navigator whose paths always complete.
func NewNavigator() *Navigator {
	return &Navigator{Path: true, Status: ai.PathComplete}
}

func (n *Navigator) SetDestination(p mgl64.Vec3) bool {
	n.Destinations = append(n.Destinations, p)
	n.Steering = p
	return true
}

// LastDestination returns the most recent destination.
func (n *Navigator) LastDestination() (mgl64.Vec3, bool) {
	if len(n.Destinations) == 0 {
		return mgl64.Vec3{}, false
	}
	return n.Destinations[len(n.Destinations)-1], true
}

func (n *Navigator) PathPending() bool              { return n.Pending }
func (n *Navigator) IsPathStale() bool              { return n.Stale }
func (n *Navigator) HasPath() bool                  { return n.Path }
func (n *Navigator) PathStatus() ai.PathStatus      { return n.Status }
func (n *Navigator) SteeringTarget() mgl64.Vec3     { return n.Steering }
func (n *Navigator) DesiredVelocity() mgl64.Vec3    { return n.Desired }
func (n *Navigator) SetVelocity(v mgl64.Vec3)       { n.Velocity = v }
func (n *Navigator) SetStopped(stopped bool)        { n.Stopped = stopped }
func (n *Navigator) SetUpdatePosition(enabled bool) { n.UpdatePosition = enabled }
func (n *Navigator) SetUpdateRotation(enabled bool) { n.UpdateRotation = enabled }

// Animator stores parameters in maps.
type Animator struct {
	Floats   map[string]float64
	Bools    map[string]bool
	Ints     map[string]int
	Layers   map[string]string
	Delta    mgl64.Vec3
	Root     mgl64.Quat
	LookAt   mgl64.Vec3
	LookAtW  float64
	IKCalled int
}

func NewAnimator() *Animator {
	return &Animator{
		Floats: map[string]float64{},
		Bools:  map[string]bool{},
		Ints:   map[string]int{},
		Layers: map[string]string{},
		Root:   mgl64.QuatIdent(),
	}
}

func (a *Animator) SetFloat(name string, v float64)  { a.Floats[name] = v }
func (a *Animator) SetBool(name string, v bool)      { a.Bools[name] = v }
func (a *Animator) SetInteger(name string, v int)    { a.Ints[name] = v }
func (a *Animator) CurrentState(layer string) string { return a.Layers[layer] }
func (a *Animator) DeltaPosition() mgl64.Vec3        { return a.Delta }
func (a *Animator) RootRotation() mgl64.Quat         { return a.Root }
func (a *Animator) SetLookAtPosition(p mgl64.Vec3) {
	a.LookAt = p
	a.IKCalled++
}

func (a *Animator) SetLookAtWeight(w float64) { a.LookAtW = w }

// Spatial casts rays against a flat list of colliders treated as points
// with a hit radius.
type Spatial struct {
	Colliders []ai.Collider
	HitRadius float64
	Casts     int
}

func NewSpatial(colliders ...ai.Collider) *Spatial {
	return &Spatial{Colliders: colliders, HitRadius: 0.5}
}

func (s *Spatial) Add(c ai.Collider) {
	s.Colliders = append(s.Colliders, c)
}

// RaycastAll returns every collider on mask whose centre lies within
// HitRadius of the ray, closest first.
func (s *Spatial) RaycastAll(origin, dir mgl64.Vec3, maxDistance float64, mask ai.Layer) []ai.RaycastHit {
	s.Casts++
	dir = common.SafeNormalize(dir)
	if dir == (mgl64.Vec3{}) {
		return nil
	}

	var hits []ai.RaycastHit
	for _, c := range s.Colliders {
		if c == nil || mask&c.Layer() == 0 {
			continue
		}
		rel := c.Position().Sub(origin)
		along := rel.Dot(dir)
		if along < 0 || along > maxDistance {
			continue
		}
		closest := origin.Add(dir.Mul(along))
		if common.Distance(closest, c.Position()) > s.HitRadius {
			continue
		}
		hits = append(hits, ai.RaycastHit{Distance: along, Collider: c, Point: closest})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	return hits
}

// Particles counts emitted particles.
type Particles struct {
	Bursts int
	Total  int
}

func (p *Particles) Emit(_ mgl64.Vec3, _ mgl64.Quat, count int) {
	p.Bursts++
	p.Total += count
}

// Host bundles a complete fake host for one agent.
type Host struct {
	Transform *Transform
	Navigator *Navigator
	Animator  *Animator
	Spatial   *Spatial
	Scene     *ai.Scene
	Collider  *Collider
	Sensor    *Sphere
}

// NewHost returns a host with an agent at p facing +Z and a sensor of the
// given radius.
func NewHost(p mgl64.Vec3, sensorRadius float64) *Host {
	return &Host{
		Transform: NewTransform(p),
		Navigator: NewNavigator(),
		Animator:  NewAnimator(),
		Spatial:   NewSpatial(),
		Scene:     ai.NewScene(),
		Collider:  &Collider{IDValue: 1, LayerValue: ai.LayerDefault, Pos: p},
		Sensor: &Sphere{
			Collider:    Collider{IDValue: 2, LayerValue: ai.LayerSensor, Pos: p},
			RadiusValue: sensorRadius,
		},
	}
}

// Config returns a machine config wired to h.
func (h *Host) Config(name string) ai.Config {
	return ai.Config{
		Name:      name,
		Transform: h.Transform,
		Animator:  h.Animator,
		Navigator: h.Navigator,
		Spatial:   h.Spatial,
		Scene:     h.Scene,
		Collider:  h.Collider,
		Sensor:    h.Sensor,
	}
}
