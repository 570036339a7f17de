package ai

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Transform is the agent's own pose in the world.
type Transform interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
}

// RaycastHit is one hit of a ray cast.
type RaycastHit struct {
	Distance float64
	Collider Collider
	Point    mgl64.Vec3
}

// Spatial answers ray queries against the world. RaycastAll returns every
// collider on mask hit by the ray from origin along direction within
// maxDistance. Ordering is not guaranteed.
type Spatial interface {
	RaycastAll(origin, direction mgl64.Vec3, maxDistance float64, mask Layer) []RaycastHit
}

// PathStatus is the outcome of a path request.
type PathStatus int

const (
	PathComplete PathStatus = iota
	PathPartial
	PathInvalid
)

// Navigator plans and follows paths for an agent.
type Navigator interface {
	SetDestination(p mgl64.Vec3) bool
	PathPending() bool
	IsPathStale() bool
	HasPath() bool
	PathStatus() PathStatus
	SteeringTarget() mgl64.Vec3
	DesiredVelocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
	SetStopped(stopped bool)
	SetUpdatePosition(enabled bool)
	SetUpdateRotation(enabled bool)
}

// Animator exposes animation parameters and the root motion of the last
// evaluated animation step.
type Animator interface {
	SetFloat(name string, v float64)
	SetBool(name string, v bool)
	SetInteger(name string, v int)
	// CurrentState returns the name of the state playing on layer, or "" if
	// the layer does not exist.
	CurrentState(layer string) string
	DeltaPosition() mgl64.Vec3
	RootRotation() mgl64.Quat
	SetLookAtPosition(p mgl64.Vec3)
	SetLookAtWeight(w float64)
}

// ParticleEmitter emits cosmetic particle bursts.
type ParticleEmitter interface {
	Emit(position mgl64.Vec3, rotation mgl64.Quat, count int)
}
