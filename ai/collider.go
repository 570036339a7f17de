package ai

import (
	"github.com/go-gl/mathgl/mgl64"
)

// ColliderID is the instance identity of a collider. Zero means no collider.
type ColliderID uint64

// Tag classifies colliders for perception.
type Tag string

const (
	TagUntagged     Tag = ""
	TagPlayer       Tag = "Player"
	TagFlashLight   Tag = "Flash Light"
	TagSoundEmitter Tag = "AI Sound Emitter"
	TagFood         Tag = "AI Food"
)

// Layer is a bit set of collision layers. Raycasts filter hits by a Layer
// mask.
type Layer uint32

const (
	LayerDefault Layer = 1 << iota
	LayerPlayer
	LayerBodyPart
	LayerVisualAggravator
	LayerAudioAggravator
	LayerSensor

	LayerNone Layer = 0
	LayerAll  Layer = ^Layer(0)
)

// Has reports whether every bit of o is set in l.
func (l Layer) Has(o Layer) bool {
	return o != 0 && l&o == o
}

// Collider is anything a sensor can perceive or a ray can hit.
type Collider interface {
	ID() ColliderID
	Tag() Tag
	Layer() Layer
	Position() mgl64.Vec3
}

// SphereCollider is a collider with spherical extent. Center is in local
// space and is scaled by LossyScale.
type SphereCollider interface {
	Collider
	Center() mgl64.Vec3
	Radius() float64
	LossyScale() mgl64.Vec3
}

// BoxCollider is a collider with box extent.
type BoxCollider interface {
	Collider
	Size() mgl64.Vec3
	LossyScale() mgl64.Vec3
}

// IDOf returns the id of c, or zero for a nil collider.
func IDOf(c Collider) ColliderID {
	if c == nil {
		return 0
	}
	return c.ID()
}

// SphereToWorld converts a sphere collider to a world space centre and
// radius, honouring non-uniform scale. A nil collider yields zeros.
func SphereToWorld(s SphereCollider) (center mgl64.Vec3, radius float64) {
	if s == nil {
		return mgl64.Vec3{}, 0
	}
	scale := s.LossyScale()
	c := s.Center()
	center = s.Position().Add(mgl64.Vec3{c.X() * scale.X(), c.Y() * scale.Y(), c.Z() * scale.Z()})

	r := s.Radius()
	radius = max(r*scale.X(), r*scale.Y(), r*scale.Z())
	return center, radius
}
