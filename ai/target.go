package ai

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Target describes something an agent moves toward or reacts to. It is a
// value: the machine replaces targets wholesale and never edits one in place.
type Target struct {
	Type     TargetType
	Collider Collider
	Position mgl64.Vec3
	Distance float64
	Time     float64
}

// ClearedTarget returns a target of type None at infinite distance.
func ClearedTarget() Target {
	return Target{Type: TargetNone, Distance: math.Inf(1)}
}

// NewTarget builds a target stamped with time now.
func NewTarget(t TargetType, c Collider, p mgl64.Vec3, d, now float64) Target {
	if t == TargetNone {
		return ClearedTarget()
	}
	return Target{Type: t, Collider: c, Position: p, Distance: d, Time: now}
}

// IsNone reports whether the target is empty.
func (t Target) IsNone() bool {
	return t.Type == TargetNone
}

// ColliderID returns the id of the source collider, or zero.
func (t Target) ColliderID() ColliderID {
	return IDOf(t.Collider)
}

// WithDistance returns a copy of t with its distance replaced.
func (t Target) WithDistance(d float64) Target {
	t.Distance = d
	return t
}
