package sim

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/deadearth/ai"
	"github.com/milk9111/deadearth/ai/zombie"
	"github.com/milk9111/deadearth/ecs"
)

// sensorSphere is an agent's perception trigger. It follows the agent's
// transform and lives outside the physics space.
type sensorSphere struct {
	id        ai.ColliderID
	transform *Transform
	radius    float64
}

func (s *sensorSphere) ID() ai.ColliderID      { return s.id }
func (s *sensorSphere) Tag() ai.Tag            { return ai.TagUntagged }
func (s *sensorSphere) Layer() ai.Layer        { return ai.LayerSensor }
func (s *sensorSphere) Position() mgl64.Vec3   { return s.transform.Position() }
func (s *sensorSphere) Center() mgl64.Vec3     { return mgl64.Vec3{} }
func (s *sensorSphere) Radius() float64        { return s.radius }
func (s *sensorSphere) LossyScale() mgl64.Vec3 { return mgl64.Vec3{1, 1, 1} }

// Agent is one spawned zombie and the host objects it drives.
type Agent struct {
	Entity  ecs.Entity
	Name    string
	Species string

	Machine   *zombie.Machine
	Body      *Sphere
	Sensor    ai.SphereCollider
	Transform *Transform
	Nav       *Navigator
	Anim      *Animator

	order    int64
	overlaps map[ai.ColliderID]ai.Collider
}

func (a *Agent) Position() mgl64.Vec3 { return a.Transform.Position() }
func (a *Agent) State() ai.StateID    { return a.Machine.CurrentStateID() }

// Overlapping returns the colliders inside the agent's sensor.
func (a *Agent) Overlapping() []ai.Collider {
	out := make([]ai.Collider, 0, len(a.overlaps))
	for _, c := range a.overlaps {
		out = append(out, c)
	}
	return out
}

func sortAgents(agents []*Agent) {
	sort.Slice(agents, func(i, j int) bool { return agents[i].order < agents[j].order })
}
