package ai

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Scene maps collider identities to the state machine that owns them. It is
// filled while agents spawn and emptied as they despawn, which is how agents
// learn about each other (melee zones, self occlusion).
type Scene struct {
	machines  map[ColliderID]*StateMachine
	particles ParticleEmitter
}

func NewScene() *Scene {
	return &Scene{machines: map[ColliderID]*StateMachine{}}
}

// RegisterStateMachine associates id with m. The first registration of an
// id wins; zero ids and nil machines are ignored.
func (s *Scene) RegisterStateMachine(id ColliderID, m *StateMachine) {
	if s == nil || id == 0 || m == nil {
		return
	}
	if _, exists := s.machines[id]; exists {
		return
	}
	s.machines[id] = m
}

// UnregisterStateMachine drops id when it belongs to m.
func (s *Scene) UnregisterStateMachine(id ColliderID, m *StateMachine) {
	if s == nil || m == nil {
		return
	}
	if s.machines[id] == m {
		delete(s.machines, id)
	}
}

// StateMachine returns the machine registered for id, or nil.
func (s *Scene) StateMachine(id ColliderID) *StateMachine {
	if s == nil {
		return nil
	}
	return s.machines[id]
}

// Len returns the number of registered colliders.
func (s *Scene) Len() int {
	if s == nil {
		return 0
	}
	return len(s.machines)
}

func (s *Scene) SetParticles(p ParticleEmitter) {
	if s == nil {
		return
	}
	s.particles = p
}

// Particles returns the scene's particle emitter, which may be nil.
func (s *Scene) Particles() ParticleEmitter {
	if s == nil {
		return nil
	}
	return s.particles
}

// EmitParticles emits count particles if the scene has an emitter. It
// reports whether anything was emitted.
func (s *Scene) EmitParticles(pos mgl64.Vec3, rot mgl64.Quat, count int) bool {
	p := s.Particles()
	if p == nil || count <= 0 {
		return false
	}
	p.Emit(pos, rot, count)
	return true
}
